package workflow

import (
	"bitbucket.org/mmdatafocus/venues_backend/models"
	"github.com/shopspring/decimal"
)

type GrowthMetrics struct {
	TargetUnits          int             `json:"target_units"`
	HorizonYears         decimal.Decimal `json:"horizon_years"`
	EstimatedCostPerUnit decimal.Decimal `json:"estimated_cost_per_unit"`
	TotalCostNeeded      decimal.Decimal `json:"total_cost_needed"`
	CurrentGrowthFund    decimal.Decimal `json:"current_growth_fund"`
	DailyTargetSavings   decimal.Decimal `json:"daily_target_savings"`
	DailyActualSavings   decimal.Decimal `json:"daily_actual_savings"`
	OnTrack              bool            `json:"on_track"`
	EtaYears             decimal.Decimal `json:"eta_years"`
	ShortfallPerDay      decimal.Decimal `json:"shortfall_per_day"`
}

// CalculateGrowthMetrics measures an expansion goal against the venue's
// actual savings pace. Daily actual is the growth envelope's cut of average
// daily sales; ETA is how long filling the fund takes at that pace.
func CalculateGrowthMetrics(goal *models.GrowthGoal, currentGrowthFund, avgDailySales, growthEnvelopePct decimal.Decimal) GrowthMetrics {
	totalCost := goal.EstimatedCostPerUnit.Mul(decimal.NewFromInt(int64(goal.TargetUnits)))

	daysPerYear := decimal.NewFromInt(365)
	dailyTarget := decimal.Zero
	if goal.HorizonYears.IsPositive() {
		dailyTarget = totalCost.Div(goal.HorizonYears.Mul(daysPerYear))
	}
	dailyActual := avgDailySales.Mul(growthEnvelopePct).Div(decimal.NewFromInt(100))

	onTrack := dailyActual.GreaterThanOrEqual(dailyTarget)

	etaYears := goal.HorizonYears
	if currentGrowthFund.IsPositive() && dailyActual.IsPositive() {
		etaYears = totalCost.Div(dailyActual.Mul(daysPerYear))
	}

	shortfall := decimal.Zero
	if !onTrack {
		shortfall = dailyTarget.Sub(dailyActual)
	}

	return GrowthMetrics{
		TargetUnits:          goal.TargetUnits,
		HorizonYears:         goal.HorizonYears,
		EstimatedCostPerUnit: goal.EstimatedCostPerUnit,
		TotalCostNeeded:      totalCost,
		CurrentGrowthFund:    currentGrowthFund,
		DailyTargetSavings:   dailyTarget.Round(2),
		DailyActualSavings:   dailyActual.Round(2),
		OnTrack:              onTrack,
		EtaYears:             etaYears.Round(1),
		ShortfallPerDay:      shortfall.Round(2),
	}
}
