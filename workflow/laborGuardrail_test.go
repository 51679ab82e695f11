package workflow

import (
	"testing"

	"bitbucket.org/mmdatafocus/venues_backend/models"
	"github.com/shopspring/decimal"
)

func TestCalculateLaborGuardrail_StatusTiers(t *testing.T) {
	cases := []struct {
		name     string
		actual   string
		variance string
		status   GuardrailStatus
	}{
		{"within target", "3060", "2", GuardrailStatusGood},
		{"moderately under", "2700", "-10", GuardrailStatusWarning},
		{"well over", "3450", "15", GuardrailStatusAlert},
	}
	for _, tc := range cases {
		g := CalculateLaborGuardrail(d("10000"), d("30"), d(tc.actual))
		if !g.AllowedLaborSpend.Equal(d("3000")) {
			t.Fatalf("%s: expected allowed spend 3000, got %s", tc.name, g.AllowedLaborSpend)
		}
		if !g.VariancePct.Equal(d(tc.variance)) {
			t.Fatalf("%s: expected variance %s%%, got %s%%", tc.name, tc.variance, g.VariancePct)
		}
		if g.Status != tc.status {
			t.Fatalf("%s: expected status %s, got %s", tc.name, tc.status, g.Status)
		}
	}
}

func TestCalculateLaborGuardrail_Messages(t *testing.T) {
	over := CalculateLaborGuardrail(d("10000"), d("30"), d("3450"))
	if over.Message != "Labor is over target by 15.0%" {
		t.Fatalf("unexpected over-target message: %q", over.Message)
	}

	under := CalculateLaborGuardrail(d("10000"), d("30"), d("2700"))
	if under.Message != "Labor is under target by 10.0%" {
		t.Fatalf("unexpected under-target message: %q", under.Message)
	}

	good := CalculateLaborGuardrail(d("10000"), d("30"), d("3000"))
	if good.Message != "Labor spend is within target range" {
		t.Fatalf("unexpected on-target message: %q", good.Message)
	}
}

func TestCalculateLaborGuardrail_ZeroAllowedSpend(t *testing.T) {
	g := CalculateLaborGuardrail(decimal.Zero, d("30"), d("500"))

	if !g.VarianceDollars.IsZero() || !g.VariancePct.IsZero() {
		t.Fatalf("zero allowed spend must yield zero variance, got %s / %s%%", g.VarianceDollars, g.VariancePct)
	}
	if g.Status != GuardrailStatusGood {
		t.Fatalf("zero allowed spend must report good, got %s", g.Status)
	}
}

func TestBuildRoleRecommendations(t *testing.T) {
	wages := []*models.RoleWage{
		{RoleName: "Server", HourlyWage: d("15")},
		{RoleName: "Host", HourlyWage: d("15")},
	}
	shares := map[string]decimal.Decimal{
		"Server": d("0.30"),
		// Host is absent and falls back to the 15% default share.
	}
	scheduled := map[string]ScheduledRole{
		"Server": {Hours: d("58"), Cost: d("850")},
		"Host":   {Hours: d("31.5"), Cost: d("472.50")},
	}

	recs := BuildRoleRecommendations(d("3000"), wages, shares, scheduled)
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}

	server := recs[0]
	if !server.RecommendedSpend.Equal(d("900")) {
		t.Fatalf("server expected spend 900, got %s", server.RecommendedSpend)
	}
	if !server.RecommendedHours.Equal(d("60")) {
		t.Fatalf("server expected 60 recommended hours, got %s", server.RecommendedHours)
	}
	if !server.HoursDifference.Equal(d("2")) {
		t.Fatalf("server expected hours difference 2, got %s", server.HoursDifference)
	}
	if server.Suggestion != "Add 2.0 hours" {
		t.Fatalf("server expected suggestion %q, got %q", "Add 2.0 hours", server.Suggestion)
	}
	if server.Status != GuardrailStatusAlert {
		t.Fatalf("server expected alert status, got %s", server.Status)
	}

	host := recs[1]
	if !host.DistributionPct.Equal(d("15")) {
		t.Fatalf("host expected default 15%% share, got %s", host.DistributionPct)
	}
	if !host.RecommendedHours.Equal(d("30")) {
		t.Fatalf("host expected 30 recommended hours, got %s", host.RecommendedHours)
	}
	if host.Suggestion != "Cut 1.5 hours" {
		t.Fatalf("host expected suggestion %q, got %q", "Cut 1.5 hours", host.Suggestion)
	}
	if host.Status != GuardrailStatusWarning {
		t.Fatalf("host expected warning status, got %s", host.Status)
	}
}

func TestRoundToHalfHour(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"7.2", "7"},
		{"7.25", "7.5"},
		{"7.3", "7.5"},
		{"7.74", "7.5"},
		{"7.75", "8"},
		{"0", "0"},
	}
	for _, tc := range cases {
		got := roundToHalfHour(d(tc.in))
		if !got.Equal(d(tc.expected)) {
			t.Fatalf("roundToHalfHour(%s) expected %s, got %s", tc.in, tc.expected, got)
		}
	}
}
