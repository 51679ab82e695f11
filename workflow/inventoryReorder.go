package workflow

import (
	"sort"

	"bitbucket.org/mmdatafocus/venues_backend/models"
	"github.com/shopspring/decimal"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type OrderPriority string

const (
	PriorityUrgent      OrderPriority = "urgent"
	PriorityRecommended OrderPriority = "recommended"
	PriorityOptional    OrderPriority = "optional"
)

type ReorderSuggestion struct {
	SkuId          int                `json:"sku_id"`
	SkuName        string             `json:"sku_name"`
	Category       models.SkuCategory `json:"category"`
	Uom            string             `json:"uom"`
	CurrentOnHand  decimal.Decimal    `json:"current_on_hand"`
	ParLevel       decimal.Decimal    `json:"par_level"`
	ReorderPoint   decimal.Decimal    `json:"reorder_point"`
	RecommendedQty decimal.Decimal    `json:"recommended_qty"`
	UnitCost       decimal.Decimal    `json:"unit_cost"`
	TotalCost      decimal.Decimal    `json:"total_cost"`
	OrderInCases   bool               `json:"order_in_cases"`
	CasesNeeded    int                `json:"cases_needed"`
	CasePackQty    *int               `json:"case_pack_qty"`
	LeadTimeDays   int                `json:"lead_time_days"`
	DaysOfStock    decimal.Decimal    `json:"days_of_stock"`
	StockoutRisk   RiskLevel          `json:"stockout_risk"`
	WasteRisk      RiskLevel          `json:"waste_risk"`
	MarginImpact   decimal.Decimal    `json:"margin_impact"`
	DailyDemand    decimal.Decimal    `json:"daily_demand"`
	Priority       OrderPriority      `json:"priority"`
	Notes          string             `json:"notes"`
}

// ReorderInput is one SKU plus its latest counted on-hand quantity.
type ReorderInput struct {
	Sku    *models.Sku
	OnHand decimal.Decimal
}

// CalculateReorder evaluates one SKU against classic reorder-point math:
//
//	daily demand units = avg daily sales x category demand rate / cost per uom
//	ROP                = daily demand x lead time + safety stock
//	recommended qty    = max(0, ROP - on hand), rounded up to whole cases for
//	                     SKUs that carry a case pack.
func CalculateReorder(input ReorderInput, avgDailySales decimal.Decimal, demandRates map[string]decimal.Decimal) ReorderSuggestion {
	sku := input.Sku

	rate, ok := demandRates[string(sku.Category)]
	if !ok {
		rate = decimal.NewFromFloat(0.10)
	}

	dailyDemand := decimal.Zero
	if sku.CostPerUom.IsPositive() {
		dailyDemand = avgDailySales.Mul(rate).Div(sku.CostPerUom)
	}

	lead := decimal.NewFromInt(int64(sku.LeadTimeDays))
	reorderPoint := dailyDemand.Mul(lead).Add(sku.SafetyStock)

	recommendedQty := reorderPoint.Sub(input.OnHand)
	if recommendedQty.IsNegative() {
		recommendedQty = decimal.Zero
	}

	// case rounding: a SKU with case pricing orders whole cases at case cost
	orderInCases := false
	casesNeeded := 0
	unitCost := sku.CostPerUom
	totalCost := decimal.Zero
	if recommendedQty.IsPositive() && sku.CasePackQty != nil && *sku.CasePackQty > 0 && sku.CaseCost != nil {
		caseQty := decimal.NewFromInt(int64(*sku.CasePackQty))
		casesNeeded = int(recommendedQty.Div(caseQty).Ceil().IntPart())
		recommendedQty = caseQty.Mul(decimal.NewFromInt(int64(casesNeeded)))
		orderInCases = true
		unitCost = *sku.CaseCost
		totalCost = sku.CaseCost.Mul(decimal.NewFromInt(int64(casesNeeded)))
	} else {
		totalCost = recommendedQty.Mul(sku.CostPerUom)
	}

	// days-of-stock denominator is floored at 0.1 so zero demand stays finite
	demandFloor := dailyDemand
	if demandFloor.LessThan(decimal.NewFromFloat(0.1)) {
		demandFloor = decimal.NewFromFloat(0.1)
	}
	daysOfStock := input.OnHand.Div(demandFloor)

	stockout := stockoutRisk(daysOfStock, lead)
	waste := wasteRisk(daysOfStock)

	margin := assumedMargin(sku.Category)
	potentialRevenue := recommendedQty.Mul(sku.CostPerUom).Div(decimal.NewFromInt(1).Sub(margin))
	marginImpact := potentialRevenue.Mul(margin)

	return ReorderSuggestion{
		SkuId:          sku.ID,
		SkuName:        sku.Name,
		Category:       sku.Category,
		Uom:            sku.Uom,
		CurrentOnHand:  input.OnHand,
		ParLevel:       sku.Par,
		ReorderPoint:   reorderPoint.Round(1),
		RecommendedQty: recommendedQty.Round(1),
		UnitCost:       unitCost,
		TotalCost:      totalCost.Round(2),
		OrderInCases:   orderInCases,
		CasesNeeded:    casesNeeded,
		CasePackQty:    sku.CasePackQty,
		LeadTimeDays:   sku.LeadTimeDays,
		DaysOfStock:    daysOfStock.Round(1),
		StockoutRisk:   stockout,
		WasteRisk:      waste,
		MarginImpact:   marginImpact.Round(2),
		DailyDemand:    dailyDemand.Round(2),
		Priority:       orderPriority(stockout, recommendedQty),
		Notes:          reorderNotes(stockout, waste, recommendedQty),
	}
}

// BuildReorderSuggestions evaluates every SKU and keeps the actionable ones:
// a positive recommended quantity or a high stockout risk. Urgent items sort
// first, then recommended, then optional.
func BuildReorderSuggestions(inputs []ReorderInput, avgDailySales decimal.Decimal, demandRates map[string]decimal.Decimal) []ReorderSuggestion {
	suggestions := make([]ReorderSuggestion, 0, len(inputs))
	for _, input := range inputs {
		s := CalculateReorder(input, avgDailySales, demandRates)
		if s.RecommendedQty.IsPositive() || s.StockoutRisk == RiskHigh {
			suggestions = append(suggestions, s)
		}
	}

	rank := map[OrderPriority]int{PriorityUrgent: 0, PriorityRecommended: 1, PriorityOptional: 2}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return rank[suggestions[i].Priority] < rank[suggestions[j].Priority]
	})
	return suggestions
}

func stockoutRisk(daysOfStock, leadTimeDays decimal.Decimal) RiskLevel {
	switch {
	case daysOfStock.LessThan(leadTimeDays):
		return RiskHigh
	case daysOfStock.LessThan(leadTimeDays.Mul(decimal.NewFromFloat(1.5))):
		return RiskMedium
	default:
		return RiskLow
	}
}

func wasteRisk(daysOfStock decimal.Decimal) RiskLevel {
	switch {
	case daysOfStock.GreaterThan(decimal.NewFromInt(14)):
		return RiskHigh
	case daysOfStock.GreaterThan(decimal.NewFromInt(7)):
		return RiskMedium
	default:
		return RiskLow
	}
}

func orderPriority(risk RiskLevel, recommendedQty decimal.Decimal) OrderPriority {
	switch {
	case risk == RiskHigh:
		return PriorityUrgent
	case recommendedQty.IsPositive():
		return PriorityRecommended
	default:
		return PriorityOptional
	}
}

func assumedMargin(category models.SkuCategory) decimal.Decimal {
	switch category {
	case models.SkuCategoryLiquor:
		return decimal.NewFromFloat(0.75)
	case models.SkuCategoryFood:
		return decimal.NewFromFloat(0.65)
	default:
		return decimal.NewFromFloat(0.50)
	}
}

func reorderNotes(stockout, waste RiskLevel, recommendedQty decimal.Decimal) string {
	switch {
	case stockout == RiskHigh:
		return "Urgent - risk of stockout"
	case waste == RiskHigh:
		return "Review - potential overstock"
	case recommendedQty.IsZero():
		return "No order needed"
	default:
		return "Standard reorder"
	}
}
