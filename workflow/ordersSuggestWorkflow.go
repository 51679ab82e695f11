package workflow

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/venues_backend/config"
	"bitbucket.org/mmdatafocus/venues_backend/models"
	"bitbucket.org/mmdatafocus/venues_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type OrdersSuggestInput struct {
	VenueId   string `json:"venue_id" binding:"required"`
	OrderDate string `json:"order_date"`
}

type OrdersSuggestSummary struct {
	TotalSkusReviewed  int             `json:"total_skus_reviewed"`
	ItemsToOrder       int             `json:"items_to_order"`
	UrgentItems        int             `json:"urgent_items"`
	TotalEstimatedCost decimal.Decimal `json:"total_estimated_cost"`
	HighStockoutRisk   int             `json:"high_stockout_risk"`
	HighWasteRisk      int             `json:"high_waste_risk"`
}

type OrdersSuggestResult struct {
	VenueId       string               `json:"venue_id"`
	OrderDate     string               `json:"order_date"`
	AvgDailySales decimal.Decimal      `json:"avg_daily_sales"`
	Suggestions   []ReorderSuggestion  `json:"suggestions"`
	Summary       OrdersSuggestSummary `json:"summary"`
}

// BuildOrderSuggestions reviews every SKU against its latest inventory count
// and the venue's recent sales pace, returning the items worth ordering.
func BuildOrderSuggestions(ctx context.Context, logger *logrus.Logger, input OrdersSuggestInput) (*OrdersSuggestResult, error) {
	orderDate := input.OrderDate
	if orderDate == "" {
		orderDate = utils.FormatBusinessDate(time.Now())
	} else if _, err := utils.ParseBusinessDate(orderDate); err != nil {
		return nil, err
	}

	skus, err := models.ListSkus(ctx, input.VenueId)
	if err != nil {
		config.LogError(logger, "ordersSuggestWorkflow.go", "BuildOrderSuggestions", "ListSkus", input.VenueId, err)
		return nil, err
	}
	if len(skus) == 0 {
		return nil, models.ErrNotFound("skus")
	}

	onHand, err := models.LatestOnHandBySku(ctx, input.VenueId)
	if err != nil {
		config.LogError(logger, "ordersSuggestWorkflow.go", "BuildOrderSuggestions", "LatestOnHandBySku", input.VenueId, err)
		return nil, err
	}

	avgSales, sampleDays, err := models.AverageDailyNetSales(ctx, input.VenueId, 28)
	if err != nil {
		config.LogError(logger, "ordersSuggestWorkflow.go", "BuildOrderSuggestions", "AverageDailyNetSales", input.VenueId, err)
		return nil, err
	}
	if sampleDays == 0 {
		avgSales = config.FallbackForecastSales()
	}

	inputs := make([]ReorderInput, 0, len(skus))
	for _, sku := range skus {
		inputs = append(inputs, ReorderInput{Sku: sku, OnHand: onHand[sku.ID]})
	}

	suggestions := BuildReorderSuggestions(inputs, avgSales, config.CategoryDemandRates())

	summary := OrdersSuggestSummary{
		TotalSkusReviewed:  len(skus),
		TotalEstimatedCost: decimal.Zero,
	}
	for _, s := range suggestions {
		if s.RecommendedQty.IsPositive() {
			summary.ItemsToOrder++
		}
		if s.Priority == PriorityUrgent {
			summary.UrgentItems++
		}
		if s.StockoutRisk == RiskHigh {
			summary.HighStockoutRisk++
		}
		if s.WasteRisk == RiskHigh {
			summary.HighWasteRisk++
		}
		summary.TotalEstimatedCost = summary.TotalEstimatedCost.Add(s.TotalCost)
	}

	return &OrdersSuggestResult{
		VenueId:       input.VenueId,
		OrderDate:     orderDate,
		AvgDailySales: avgSales.Round(0),
		Suggestions:   suggestions,
		Summary:       summary,
	}, nil
}
