package workflow

import (
	"testing"

	"bitbucket.org/mmdatafocus/venues_backend/models"
	"github.com/shopspring/decimal"
)

func demoGoal() *models.GrowthGoal {
	return &models.GrowthGoal{
		TargetUnits:          2,
		EstimatedCostPerUnit: d("350000"),
		HorizonYears:         d("3"),
	}
}

func TestCalculateGrowthMetrics_BehindPace(t *testing.T) {
	// total 700000 over 3 years -> 639.27/day target; 8% of 5000 = 400/day actual
	m := CalculateGrowthMetrics(demoGoal(), decimal.Zero, d("5000"), d("8"))

	if !m.TotalCostNeeded.Equal(d("700000")) {
		t.Fatalf("expected total cost 700000, got %s", m.TotalCostNeeded)
	}
	if !m.DailyTargetSavings.Equal(d("639.27")) {
		t.Fatalf("expected daily target 639.27, got %s", m.DailyTargetSavings)
	}
	if !m.DailyActualSavings.Equal(d("400")) {
		t.Fatalf("expected daily actual 400, got %s", m.DailyActualSavings)
	}
	if m.OnTrack {
		t.Fatal("saving 400/day against a 639.27/day target must not be on track")
	}
	if !m.ShortfallPerDay.Equal(d("239.27")) {
		t.Fatalf("expected shortfall 239.27, got %s", m.ShortfallPerDay)
	}
	// empty fund: ETA stays at the stated horizon
	if !m.EtaYears.Equal(d("3")) {
		t.Fatalf("expected ETA pinned to 3y horizon, got %s", m.EtaYears)
	}
}

func TestCalculateGrowthMetrics_OnTrack(t *testing.T) {
	// 8% of 10000 = 800/day actual, above the 639.27/day target
	m := CalculateGrowthMetrics(demoGoal(), d("50000"), d("10000"), d("8"))

	if !m.OnTrack {
		t.Fatal("saving 800/day against a 639.27/day target must be on track")
	}
	if !m.ShortfallPerDay.IsZero() {
		t.Fatalf("on-track goal must report zero shortfall, got %s", m.ShortfallPerDay)
	}
	// 700000 / (800 * 365) years
	if !m.EtaYears.Equal(d("2.4")) {
		t.Fatalf("expected ETA 2.4 years, got %s", m.EtaYears)
	}
}

func TestCalculateGrowthMetrics_ZeroHorizon(t *testing.T) {
	goal := demoGoal()
	goal.HorizonYears = decimal.Zero

	m := CalculateGrowthMetrics(goal, decimal.Zero, d("5000"), d("8"))

	if !m.DailyTargetSavings.IsZero() {
		t.Fatalf("zero horizon must yield zero daily target, got %s", m.DailyTargetSavings)
	}
	if !m.OnTrack {
		t.Fatal("any positive savings pace beats a zero target")
	}
}
