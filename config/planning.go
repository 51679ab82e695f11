package config

import (
	"encoding/json"
	"log"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

// Planning constants used by the forecaster, labor planner and reorder
// calculator. The defaults come from operator experience across the
// portfolio; each table can be overridden per deployment with a JSON env var
// so the calculators stay tunable without a code change.

// CategoryDemandRates maps a SKU category to the share of daily net sales
// that flows through that category's stock.
// Override: PLANNING_CATEGORY_DEMAND_RATES={"food":0.15,...}
func CategoryDemandRates() map[string]decimal.Decimal {
	defaults := map[string]float64{
		"food":    0.15,
		"liquor":  0.08,
		"nonfood": 0.02,
	}
	return decimalMapFromEnv("PLANNING_CATEGORY_DEMAND_RATES", defaults)
}

// DefaultCategoryDemandRate applies to categories missing from the table.
const DefaultCategoryDemandRate = 0.10

// RoleLaborShares maps a role name to its share of allowed labor spend.
// Override: PLANNING_ROLE_LABOR_SHARES={"Server":0.30,...}
func RoleLaborShares() map[string]decimal.Decimal {
	defaults := map[string]float64{
		"Manager":       0.15,
		"Server":        0.30,
		"Bartender":     0.25,
		"Line Cook":     0.20,
		"Host":          0.10,
		"Prep Cook":     0.15,
		"Kitchen Staff": 0.25,
		"Security":      0.10,
		"Sushi Chef":    0.25,
	}
	return decimalMapFromEnv("PLANNING_ROLE_LABOR_SHARES", defaults)
}

// DefaultRoleLaborShare applies to roles missing from the table.
const DefaultRoleLaborShare = 0.15

// SeasonalFactors is the Jan..Dec month-of-year sales multiplier table.
func SeasonalFactors() []decimal.Decimal {
	defaults := []float64{0.9, 0.9, 1.0, 1.05, 1.1, 1.1, 1.05, 1.05, 1.0, 1.05, 1.1, 1.15}
	return decimalSliceFromEnv("PLANNING_SEASONAL_FACTORS", defaults, 12)
}

// DayOfWeekFactors is the Sun..Sat sales multiplier table.
func DayOfWeekFactors() []decimal.Decimal {
	defaults := []float64{1.15, 0.85, 0.95, 1.0, 1.1, 1.25, 1.4}
	return decimalSliceFromEnv("PLANNING_DAY_FACTORS", defaults, 7)
}

// FallbackForecastSales is returned when a venue has no sales history yet.
func FallbackForecastSales() decimal.Decimal {
	if v := strings.TrimSpace(os.Getenv("PLANNING_FALLBACK_FORECAST")); v != "" {
		if d, err := decimal.NewFromString(v); err == nil && d.IsPositive() {
			return d
		}
	}
	return decimal.NewFromInt(3500)
}

// DefaultTargetLaborPct is used by close-day when a venue has no staffing target.
func DefaultTargetLaborPct() decimal.Decimal {
	if v := strings.TrimSpace(os.Getenv("PLANNING_DEFAULT_LABOR_PCT")); v != "" {
		if d, err := decimal.NewFromString(v); err == nil && d.IsPositive() {
			return d
		}
	}
	return decimal.NewFromFloat(32.5)
}

func decimalMapFromEnv(key string, defaults map[string]float64) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(defaults))
	raw := strings.TrimSpace(os.Getenv(key))
	if raw != "" {
		var parsed map[string]float64
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil && len(parsed) > 0 {
			for k, v := range parsed {
				out[k] = decimal.NewFromFloat(v)
			}
			return out
		}
		log.Printf("invalid %s; using built-in defaults", key)
	}
	for k, v := range defaults {
		out[k] = decimal.NewFromFloat(v)
	}
	return out
}

func decimalSliceFromEnv(key string, defaults []float64, wantLen int) []decimal.Decimal {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw != "" {
		var parsed []float64
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil && len(parsed) == wantLen {
			out := make([]decimal.Decimal, wantLen)
			for i, v := range parsed {
				out[i] = decimal.NewFromFloat(v)
			}
			return out
		}
		log.Printf("invalid %s (want %d entries); using built-in defaults", key, wantLen)
	}
	out := make([]decimal.Decimal, len(defaults))
	for i, v := range defaults {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}
