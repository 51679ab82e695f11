package workflow

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/venues_backend/config"
	"bitbucket.org/mmdatafocus/venues_backend/models"
	"bitbucket.org/mmdatafocus/venues_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type LaborPlanInput struct {
	VenueId      string `json:"venue_id" binding:"required"`
	ForecastDate string `json:"forecast_date" binding:"required"`
}

type LaborPlanSummary struct {
	TotalRecommendedHours decimal.Decimal `json:"total_recommended_hours"`
	TotalCurrentHours     decimal.Decimal `json:"total_current_hours"`
	NeedsAdjustment       bool            `json:"needs_adjustment"`
}

type LaborPlanResult struct {
	VenueId             string               `json:"venue_id"`
	ForecastDate        string               `json:"forecast_date"`
	ForecastSales       decimal.Decimal      `json:"forecast_sales"`
	TargetLaborPct      decimal.Decimal      `json:"target_labor_pct"`
	AllowedLaborSpend   decimal.Decimal      `json:"allowed_labor_spend"`
	CurrentLaborSpend   decimal.Decimal      `json:"current_labor_spend"`
	LaborVariancePct    decimal.Decimal      `json:"labor_variance_pct"`
	VarianceStatus      GuardrailStatus      `json:"variance_status"`
	RoleRecommendations []RoleRecommendation `json:"role_recommendations"`
	Summary             LaborPlanSummary     `json:"summary"`
}

// BuildLaborPlan forecasts one day's sales from the same weekday over the
// last 8 weeks, converts the staffing target into an allowed labor spend,
// distributes it across the venue's roles, and compares against shifts
// already on the schedule.
func BuildLaborPlan(ctx context.Context, logger *logrus.Logger, input LaborPlanInput) (*LaborPlanResult, error) {
	forecastDate, err := utils.ParseBusinessDate(input.ForecastDate)
	if err != nil {
		return nil, fmt.Errorf("invalid forecast_date: %w", err)
	}

	target, err := models.GetStaffingTarget(ctx, input.VenueId)
	if err != nil {
		return nil, err
	}

	wages, err := models.ListRoleWages(ctx, input.VenueId)
	if err != nil {
		config.LogError(logger, "laborPlanWorkflow.go", "BuildLaborPlan", "ListRoleWages", input.VenueId, err)
		return nil, err
	}
	if len(wages) == 0 {
		return nil, models.ErrNotFound("roles and wages")
	}

	forecastSales, err := forecastFromWeekdayHistory(ctx, logger, input.VenueId, forecastDate)
	if err != nil {
		return nil, err
	}

	hundred := decimal.NewFromInt(100)
	allowedSpend := forecastSales.Mul(target.TargetLaborPct).Div(hundred)

	shifts, err := models.ListShiftsForDate(ctx, input.VenueId, forecastDate)
	if err != nil {
		config.LogError(logger, "laborPlanWorkflow.go", "BuildLaborPlan", "ListShiftsForDate", input, err)
		return nil, err
	}
	scheduled := make(map[string]ScheduledRole, len(shifts))
	currentSpend := decimal.Zero
	currentHours := decimal.Zero
	for _, shift := range shifts {
		role := scheduled[shift.Role]
		role.Hours = role.Hours.Add(shift.ScheduledHours)
		role.Cost = role.Cost.Add(shift.ScheduledCost)
		scheduled[shift.Role] = role
		currentSpend = currentSpend.Add(shift.ScheduledCost)
		currentHours = currentHours.Add(shift.ScheduledHours)
	}

	recommendations := BuildRoleRecommendations(allowedSpend, wages, config.RoleLaborShares(), scheduled)

	variancePct := decimal.Zero
	if allowedSpend.IsPositive() {
		variancePct = currentSpend.Sub(allowedSpend).Div(allowedSpend).Mul(hundred)
	}

	recommendedHours := decimal.Zero
	for _, rec := range recommendations {
		recommendedHours = recommendedHours.Add(rec.RecommendedHours)
	}

	return &LaborPlanResult{
		VenueId:             input.VenueId,
		ForecastDate:        input.ForecastDate,
		ForecastSales:       forecastSales.Round(0),
		TargetLaborPct:      target.TargetLaborPct,
		AllowedLaborSpend:   allowedSpend.Round(0),
		CurrentLaborSpend:   currentSpend.Round(0),
		LaborVariancePct:    variancePct.Round(1),
		VarianceStatus:      VarianceStatus(variancePct),
		RoleRecommendations: recommendations,
		Summary: LaborPlanSummary{
			TotalRecommendedHours: recommendedHours,
			TotalCurrentHours:     currentHours,
			NeedsAdjustment:       variancePct.Abs().GreaterThan(decimal.NewFromInt(5)),
		},
	}, nil
}

// forecastFromWeekdayHistory averages the same weekday over the previous 8
// weeks and scales by the day-of-week factor. No history falls back to the
// fixed default.
func forecastFromWeekdayHistory(ctx context.Context, logger *logrus.Logger, venueId string, forecastDate time.Time) (decimal.Decimal, error) {
	dates := make([]time.Time, 0, 8)
	for i := 1; i <= 8; i++ {
		dates = append(dates, forecastDate.AddDate(0, 0, -7*i))
	}

	rows, err := models.ListDailySalesByDates(ctx, venueId, dates)
	if err != nil {
		config.LogError(logger, "laborPlanWorkflow.go", "forecastFromWeekdayHistory", "ListDailySalesByDates", venueId, err)
		return decimal.Zero, err
	}
	if len(rows) == 0 {
		return config.FallbackForecastSales(), nil
	}

	sum := decimal.Zero
	for _, row := range rows {
		sum = sum.Add(row.NetSales)
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(rows))))

	dayFactor := config.DayOfWeekFactors()[int(forecastDate.Weekday())]
	return avg.Mul(dayFactor), nil
}
