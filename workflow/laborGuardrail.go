package workflow

import (
	"fmt"

	"bitbucket.org/mmdatafocus/venues_backend/models"
	"github.com/shopspring/decimal"
)

type GuardrailStatus string

const (
	GuardrailStatusGood    GuardrailStatus = "good"
	GuardrailStatusWarning GuardrailStatus = "warning"
	GuardrailStatusAlert   GuardrailStatus = "alert"
)

type LaborGuardrail struct {
	ForecastSales     decimal.Decimal `json:"forecast_sales"`
	TargetLaborPct    decimal.Decimal `json:"target_labor_pct"`
	AllowedLaborSpend decimal.Decimal `json:"allowed_labor_spend"`
	ActualLaborSpend  decimal.Decimal `json:"actual_labor_spend"`
	VarianceDollars   decimal.Decimal `json:"variance_dollars"`
	VariancePct       decimal.Decimal `json:"variance_pct"`
	Status            GuardrailStatus `json:"status"`
	Message           string          `json:"message"`
}

// CalculateLaborGuardrail compares actual (or scheduled) labor spend to the
// spend allowed by the sales-based target percentage.
//
// Zero allowed spend (zero forecast or zero target) is a defined result:
// variance 0 and status good, never a NaN/Inf propagated to callers.
func CalculateLaborGuardrail(forecastSales, targetLaborPct, actualLaborSpend decimal.Decimal) LaborGuardrail {
	hundred := decimal.NewFromInt(100)
	allowed := forecastSales.Mul(targetLaborPct).Div(hundred)

	result := LaborGuardrail{
		ForecastSales:     forecastSales,
		TargetLaborPct:    targetLaborPct,
		AllowedLaborSpend: allowed,
		ActualLaborSpend:  actualLaborSpend,
		Status:            GuardrailStatusGood,
		Message:           "Labor spend is within target range",
	}

	if allowed.IsZero() {
		result.VarianceDollars = decimal.Zero
		result.VariancePct = decimal.Zero
		return result
	}

	variance := actualLaborSpend.Sub(allowed)
	variancePct := variance.Div(allowed).Mul(hundred)
	result.VarianceDollars = variance
	result.VariancePct = variancePct

	result.Status = VarianceStatus(variancePct)
	if result.Status != GuardrailStatusGood {
		direction := "over"
		if variance.IsNegative() {
			direction = "under"
		}
		result.Message = fmt.Sprintf("Labor is %s target by %s%%", direction, variancePct.Abs().StringFixed(1))
	}
	return result
}

// VarianceStatus applies the three-tier classification to a variance
// percentage: |v| <= 5 good, <= 10 warning, else alert.
func VarianceStatus(variancePct decimal.Decimal) GuardrailStatus {
	abs := variancePct.Abs()
	switch {
	case abs.LessThanOrEqual(decimal.NewFromInt(5)):
		return GuardrailStatusGood
	case abs.LessThanOrEqual(decimal.NewFromInt(10)):
		return GuardrailStatusWarning
	default:
		return GuardrailStatusAlert
	}
}

type ScheduledRole struct {
	Hours decimal.Decimal
	Cost  decimal.Decimal
}

type RoleRecommendation struct {
	RoleName         string          `json:"role_name"`
	HourlyWage       decimal.Decimal `json:"hourly_wage"`
	DistributionPct  decimal.Decimal `json:"distribution_pct"`
	RecommendedHours decimal.Decimal `json:"recommended_hours"`
	RecommendedSpend decimal.Decimal `json:"recommended_spend"`
	CurrentHours     decimal.Decimal `json:"current_hours"`
	CurrentSpend     decimal.Decimal `json:"current_spend"`
	HoursDifference  decimal.Decimal `json:"hours_difference"`
	CostDifference   decimal.Decimal `json:"cost_difference"`
	Suggestion       string          `json:"suggestion"`
	Status           GuardrailStatus `json:"status"`
}

// BuildRoleRecommendations distributes allowed labor spend across roles using
// the share table, converts each role's spend into hours at its wage (rounded
// to the nearest half hour), and compares to what is currently scheduled.
func BuildRoleRecommendations(allowedSpend decimal.Decimal, wages []*models.RoleWage, shares map[string]decimal.Decimal, scheduled map[string]ScheduledRole) []RoleRecommendation {
	hundred := decimal.NewFromInt(100)
	defaultShare := decimal.NewFromFloat(0.15)

	recommendations := make([]RoleRecommendation, 0, len(wages))
	for _, wage := range wages {
		share, ok := shares[wage.RoleName]
		if !ok {
			share = defaultShare
		}

		roleSpend := allowedSpend.Mul(share)
		recommendedHours := decimal.Zero
		if wage.HourlyWage.IsPositive() {
			recommendedHours = roundToHalfHour(roleSpend.Div(wage.HourlyWage))
		}

		current := scheduled[wage.RoleName]
		hoursDiff := recommendedHours.Sub(current.Hours)
		costDiff := roleSpend.Sub(current.Cost)

		recommendations = append(recommendations, RoleRecommendation{
			RoleName:         wage.RoleName,
			HourlyWage:       wage.HourlyWage,
			DistributionPct:  share.Mul(hundred),
			RecommendedHours: recommendedHours,
			RecommendedSpend: roleSpend.Round(2),
			CurrentHours:     current.Hours,
			CurrentSpend:     current.Cost,
			HoursDifference:  hoursDiff,
			CostDifference:   costDiff,
			Suggestion:       roleSuggestion(hoursDiff),
			Status:           roleStatus(hoursDiff),
		})
	}
	return recommendations
}

func roleSuggestion(hoursDiff decimal.Decimal) string {
	half := decimal.NewFromFloat(0.5)
	switch {
	case hoursDiff.GreaterThan(half):
		return fmt.Sprintf("Add %s hours", hoursDiff.StringFixed(1))
	case hoursDiff.LessThan(half.Neg()):
		return fmt.Sprintf("Cut %s hours", hoursDiff.Abs().StringFixed(1))
	default:
		return "On target"
	}
}

// per-role hour-delta thresholds: 0.5h good, 1.5h warning, else alert
func roleStatus(hoursDiff decimal.Decimal) GuardrailStatus {
	abs := hoursDiff.Abs()
	switch {
	case abs.LessThanOrEqual(decimal.NewFromFloat(0.5)):
		return GuardrailStatusGood
	case abs.LessThanOrEqual(decimal.NewFromFloat(1.5)):
		return GuardrailStatusWarning
	default:
		return GuardrailStatusAlert
	}
}

func roundToHalfHour(hours decimal.Decimal) decimal.Decimal {
	two := decimal.NewFromInt(2)
	return hours.Mul(two).Round(0).Div(two)
}
