package workflow

import (
	"testing"

	"bitbucket.org/mmdatafocus/venues_backend/models"
	"github.com/shopspring/decimal"
)

func demandRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"food":    d("0.15"),
		"liquor":  d("0.08"),
		"nonfood": d("0.02"),
	}
}

func TestCalculateReorder_UrgentStockout(t *testing.T) {
	sku := &models.Sku{
		ID:           1,
		Name:         "Ribeye 12oz",
		Category:     models.SkuCategoryFood,
		Uom:          "each",
		CostPerUom:   d("10"),
		SafetyStock:  d("2"),
		LeadTimeDays: 2,
	}

	// daily demand = 1000 * 0.15 / 10 = 15 units
	// ROP = 15*2 + 2 = 32; on hand 5 -> order 27
	s := CalculateReorder(ReorderInput{Sku: sku, OnHand: d("5")}, d("1000"), demandRates())

	if !s.DailyDemand.Equal(d("15")) {
		t.Fatalf("expected daily demand 15, got %s", s.DailyDemand)
	}
	if !s.ReorderPoint.Equal(d("32")) {
		t.Fatalf("expected reorder point 32, got %s", s.ReorderPoint)
	}
	if !s.RecommendedQty.Equal(d("27")) {
		t.Fatalf("expected recommended qty 27, got %s", s.RecommendedQty)
	}
	if !s.TotalCost.Equal(d("270")) {
		t.Fatalf("expected total cost 270, got %s", s.TotalCost)
	}
	if !s.DaysOfStock.Equal(d("0.3")) {
		t.Fatalf("expected 0.3 days of stock, got %s", s.DaysOfStock)
	}
	if s.StockoutRisk != RiskHigh {
		t.Fatalf("expected high stockout risk, got %s", s.StockoutRisk)
	}
	if s.Priority != PriorityUrgent {
		t.Fatalf("expected urgent priority, got %s", s.Priority)
	}
	if s.Notes != "Urgent - risk of stockout" {
		t.Fatalf("unexpected notes: %q", s.Notes)
	}
	// food margin 65%: 270 / 0.35 * 0.65
	if !s.MarginImpact.Equal(d("501.43")) {
		t.Fatalf("expected margin impact 501.43, got %s", s.MarginImpact)
	}
}

func TestCalculateReorder_ClassicReorderPoint(t *testing.T) {
	// 200 avg sales * 0.15 / 15 cost = 2 units/day demand
	sku := &models.Sku{
		ID:           5,
		Name:         "Salmon Fillet",
		Category:     models.SkuCategoryFood,
		Uom:          "lb",
		CostPerUom:   d("15"),
		SafetyStock:  d("2"),
		LeadTimeDays: 3,
	}

	s := CalculateReorder(ReorderInput{Sku: sku, OnHand: d("5")}, d("200"), demandRates())

	if !s.DailyDemand.Equal(d("2")) {
		t.Fatalf("expected daily demand 2, got %s", s.DailyDemand)
	}
	// ROP = 2*3 + 2 = 8; on hand 5 -> order 3
	if !s.ReorderPoint.Equal(d("8")) {
		t.Fatalf("expected reorder point 8, got %s", s.ReorderPoint)
	}
	if !s.RecommendedQty.Equal(d("3")) {
		t.Fatalf("expected recommended qty 3, got %s", s.RecommendedQty)
	}

	// Same SKU with a 6-pack case rounds the 3 units up to one full case.
	casePack := 6
	caseCost := d("80")
	sku.CasePackQty = &casePack
	sku.CaseCost = &caseCost

	s = CalculateReorder(ReorderInput{Sku: sku, OnHand: d("5")}, d("200"), demandRates())

	if s.CasesNeeded != 1 {
		t.Fatalf("expected 1 case, got %d", s.CasesNeeded)
	}
	if !s.RecommendedQty.Equal(d("6")) {
		t.Fatalf("expected qty rounded up to 6, got %s", s.RecommendedQty)
	}
	if !s.TotalCost.Equal(d("80")) {
		t.Fatalf("expected total cost 80 for one case, got %s", s.TotalCost)
	}
}

func TestCalculateReorder_RoundsUpToWholeCases(t *testing.T) {
	casePack := 12
	caseCost := d("120")
	sku := &models.Sku{
		ID:           2,
		Name:         "House Vodka 1L",
		Category:     models.SkuCategoryLiquor,
		Uom:          "bottle",
		CostPerUom:   d("11"),
		SafetyStock:  d("6"),
		LeadTimeDays: 3,
		CasePackQty:  &casePack,
		CaseCost:     &caseCost,
	}

	// daily demand = 1000 * 0.08 / 11 ~= 7.27; ROP ~= 27.8; on hand 10 -> ~17.8
	// -> 2 cases of 12
	s := CalculateReorder(ReorderInput{Sku: sku, OnHand: d("10")}, d("1000"), demandRates())

	if !s.OrderInCases {
		t.Fatal("expected order_in_cases for a SKU with case pricing")
	}
	if s.CasesNeeded != 2 {
		t.Fatalf("expected 2 cases, got %d", s.CasesNeeded)
	}
	if !s.RecommendedQty.Equal(d("24")) {
		t.Fatalf("expected qty rounded to 24 units, got %s", s.RecommendedQty)
	}
	if !s.UnitCost.Equal(d("120")) {
		t.Fatalf("expected case cost as unit cost, got %s", s.UnitCost)
	}
	if !s.TotalCost.Equal(d("240")) {
		t.Fatalf("expected total cost 240 for 2 cases, got %s", s.TotalCost)
	}
}

func TestCalculateReorder_OverstockedSku(t *testing.T) {
	sku := &models.Sku{
		ID:           3,
		Name:         "Cocktail Napkins",
		Category:     models.SkuCategoryNonfood,
		Uom:          "pack",
		CostPerUom:   d("5"),
		SafetyStock:  d("5"),
		LeadTimeDays: 5,
	}

	// daily demand = 1000 * 0.02 / 5 = 4; ROP = 25; on hand 100 -> no order,
	// 25 days of stock
	s := CalculateReorder(ReorderInput{Sku: sku, OnHand: d("100")}, d("1000"), demandRates())

	if !s.RecommendedQty.IsZero() {
		t.Fatalf("expected no recommended qty, got %s", s.RecommendedQty)
	}
	if !s.DaysOfStock.Equal(d("25")) {
		t.Fatalf("expected 25 days of stock, got %s", s.DaysOfStock)
	}
	if s.StockoutRisk != RiskLow {
		t.Fatalf("expected low stockout risk, got %s", s.StockoutRisk)
	}
	if s.WasteRisk != RiskHigh {
		t.Fatalf("expected high waste risk, got %s", s.WasteRisk)
	}
	if s.Priority != PriorityOptional {
		t.Fatalf("expected optional priority, got %s", s.Priority)
	}
	if s.Notes != "Review - potential overstock" {
		t.Fatalf("unexpected notes: %q", s.Notes)
	}
}

func TestCalculateReorder_ZeroDemandStaysFinite(t *testing.T) {
	sku := &models.Sku{
		ID:           4,
		Name:         "Dead Stock",
		Category:     models.SkuCategoryNonfood,
		Uom:          "each",
		CostPerUom:   d("5"),
		LeadTimeDays: 5,
	}

	// zero avg sales -> zero demand; days of stock uses the 0.1 floor denominator
	s := CalculateReorder(ReorderInput{Sku: sku, OnHand: d("3")}, decimal.Zero, demandRates())

	if !s.DailyDemand.IsZero() {
		t.Fatalf("expected zero daily demand, got %s", s.DailyDemand)
	}
	if !s.DaysOfStock.Equal(d("30")) {
		t.Fatalf("expected 30 days of stock with floored demand, got %s", s.DaysOfStock)
	}
}

func TestBuildReorderSuggestions_FiltersAndSortsByPriority(t *testing.T) {
	urgent := &models.Sku{ID: 1, Name: "Ribeye 12oz", Category: models.SkuCategoryFood, CostPerUom: d("10"), SafetyStock: d("2"), LeadTimeDays: 2}
	recommended := &models.Sku{ID: 2, Name: "Chicken Breast", Category: models.SkuCategoryFood, CostPerUom: d("10"), SafetyStock: d("10"), LeadTimeDays: 2}
	overstocked := &models.Sku{ID: 3, Name: "Cocktail Napkins", Category: models.SkuCategoryNonfood, CostPerUom: d("5"), SafetyStock: d("5"), LeadTimeDays: 5}

	inputs := []ReorderInput{
		// recommended first in input to prove urgent sorts ahead of it
		{Sku: recommended, OnHand: d("35")}, // ROP 40, 2.33 days -> medium risk
		{Sku: urgent, OnHand: d("5")},       // ROP 32, 0.33 days -> high risk
		{Sku: overstocked, OnHand: d("100")}, // no order, low risk -> dropped
	}

	suggestions := BuildReorderSuggestions(inputs, d("1000"), demandRates())

	if len(suggestions) != 2 {
		t.Fatalf("expected overstocked SKU filtered out, got %d suggestions", len(suggestions))
	}
	if suggestions[0].SkuId != 1 || suggestions[0].Priority != PriorityUrgent {
		t.Fatalf("expected urgent SKU first, got id=%d priority=%s", suggestions[0].SkuId, suggestions[0].Priority)
	}
	if suggestions[1].SkuId != 2 || suggestions[1].Priority != PriorityRecommended {
		t.Fatalf("expected recommended SKU second, got id=%d priority=%s", suggestions[1].SkuId, suggestions[1].Priority)
	}
}
