package workflow

import (
	"time"

	"bitbucket.org/mmdatafocus/venues_backend/config"
	"github.com/shopspring/decimal"
)

// HistoricalSale is the minimal slice of a DailySales row the forecaster needs.
type HistoricalSale struct {
	BusinessDate time.Time
	NetSales     decimal.Decimal
}

type ForecastFactors struct {
	Historical decimal.Decimal `json:"historical"`
	Seasonal   decimal.Decimal `json:"seasonal"`
	Weather    decimal.Decimal `json:"weather"`
	Events     decimal.Decimal `json:"events"`
}

type SalesForecast struct {
	Date          string          `json:"date"`
	ForecastSales decimal.Decimal `json:"forecast_sales"`
	Confidence    decimal.Decimal `json:"confidence"`
	Factors       ForecastFactors `json:"factors"`
}

// ForecastSales predicts one day's net sales from history.
//
// History is filtered to rows sharing the target date's weekday; with fewer
// than 3 such rows the whole history is used instead. The mean is then scaled
// by the month-of-year and day-of-week factor tables and the caller's
// weather/events multipliers. Empty history returns the fixed fallback at the
// floor confidence, never an error.
func ForecastSales(history []HistoricalSale, targetDate time.Time, weatherFactor, eventsFactor decimal.Decimal) SalesForecast {
	one := decimal.NewFromInt(1)
	if weatherFactor.IsZero() {
		weatherFactor = one
	}
	if eventsFactor.IsZero() {
		eventsFactor = one
	}

	if len(history) == 0 {
		return SalesForecast{
			Date:          targetDate.Format("2006-01-02"),
			ForecastSales: config.FallbackForecastSales(),
			Confidence:    decimal.NewFromFloat(0.3),
			Factors: ForecastFactors{
				Historical: one,
				Seasonal:   one,
				Weather:    weatherFactor,
				Events:     eventsFactor,
			},
		}
	}

	dayOfWeek := int(targetDate.Weekday())

	sameDay := make([]HistoricalSale, 0, len(history))
	for _, sale := range history {
		if int(sale.BusinessDate.Weekday()) == dayOfWeek {
			sameDay = append(sameDay, sale)
		}
	}

	dataToUse := history
	if len(sameDay) >= 3 {
		dataToUse = sameDay
	}

	sum := decimal.Zero
	for _, sale := range dataToUse {
		sum = sum.Add(sale.NetSales)
	}
	avgSales := sum.Div(decimal.NewFromInt(int64(len(dataToUse))))

	seasonalFactor := config.SeasonalFactors()[int(targetDate.Month())-1]
	dayFactor := config.DayOfWeekFactors()[dayOfWeek]
	combined := seasonalFactor.Mul(dayFactor)

	forecast := avgSales.Mul(combined).Mul(weatherFactor).Mul(eventsFactor)

	return SalesForecast{
		Date:          targetDate.Format("2006-01-02"),
		ForecastSales: forecast.Round(0),
		Confidence:    forecastConfidence(len(dataToUse)),
		Factors: ForecastFactors{
			Historical: avgSales,
			Seasonal:   combined,
			Weather:    weatherFactor,
			Events:     eventsFactor,
		},
	}
}

// confidence = clamp(samples/10, 0.3, 0.9)
func forecastConfidence(samples int) decimal.Decimal {
	c := decimal.NewFromInt(int64(samples)).Div(decimal.NewFromInt(10))
	floor := decimal.NewFromFloat(0.3)
	ceil := decimal.NewFromFloat(0.9)
	if c.LessThan(floor) {
		return floor
	}
	if c.GreaterThan(ceil) {
		return ceil
	}
	return c
}
