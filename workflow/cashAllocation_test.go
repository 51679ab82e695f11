package workflow

import (
	"testing"

	"bitbucket.org/mmdatafocus/venues_backend/models"
)

func TestCalculateCashAllocations_SplitsByTargetPct(t *testing.T) {
	envelopes := []*models.CashEnvelope{
		{ID: 1, Name: "Taxes", TargetPct: d("12"), CurrentBalance: d("100")},
		{ID: 2, Name: "Payroll", TargetPct: d("30"), CurrentBalance: d("0")},
		{ID: 3, Name: "Growth", TargetPct: d("8"), CurrentBalance: d("550.25")},
	}

	allocations := CalculateCashAllocations(d("1000"), envelopes)

	if len(allocations) != 3 {
		t.Fatalf("expected 3 allocations, got %d", len(allocations))
	}

	expected := []struct {
		allocation string
		newBalance string
	}{
		{"120", "220"},
		{"300", "300"},
		{"80", "630.25"},
	}
	// sum of allocations = net * (sum of target pcts) / 100
	sum := allocations[0].Allocation.Add(allocations[1].Allocation).Add(allocations[2].Allocation)
	if !sum.Equal(d("500")) {
		t.Fatalf("expected allocations to sum to 500 (50%% of 1000), got %s", sum)
	}

	for i, exp := range expected {
		a := allocations[i]
		if !a.Allocation.Equal(d(exp.allocation)) {
			t.Fatalf("envelope %s expected allocation %s, got %s", a.EnvelopeName, exp.allocation, a.Allocation)
		}
		if !a.NewBalance.Equal(d(exp.newBalance)) {
			t.Fatalf("envelope %s expected new balance %s, got %s", a.EnvelopeName, exp.newBalance, a.NewBalance)
		}
		if !a.NewBalance.Equal(a.CurrentBalance.Add(a.Allocation)) {
			t.Fatalf("envelope %s new balance must equal current + allocation", a.EnvelopeName)
		}
	}
}

func TestCalculateCashAllocations_Deterministic(t *testing.T) {
	envelopes := []*models.CashEnvelope{
		{ID: 1, Name: "Operating", TargetPct: d("25"), CurrentBalance: d("1234.5678")},
	}

	first := CalculateCashAllocations(d("4821.33"), envelopes)
	second := CalculateCashAllocations(d("4821.33"), envelopes)

	if !first[0].Allocation.Equal(second[0].Allocation) || !first[0].NewBalance.Equal(second[0].NewBalance) {
		t.Fatalf("same snapshot must produce identical allocations: %+v vs %+v", first[0], second[0])
	}
}

func TestCalculateCashAllocations_EmptyEnvelopes(t *testing.T) {
	allocations := CalculateCashAllocations(d("1000"), nil)
	if len(allocations) != 0 {
		t.Fatalf("expected no allocations for no envelopes, got %d", len(allocations))
	}
}
