package workflow

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(value string) decimal.Decimal {
	out, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return out
}

func sale(date string, net string) HistoricalSale {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return HistoricalSale{BusinessDate: t, NetSales: d(net)}
}

func TestForecastSales_EmptyHistoryUsesFallback(t *testing.T) {
	target := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)

	f := ForecastSales(nil, target, decimal.Zero, decimal.Zero)

	if !f.ForecastSales.Equal(d("3500")) {
		t.Fatalf("expected fallback forecast 3500, got %s", f.ForecastSales)
	}
	if !f.Confidence.Equal(d("0.3")) {
		t.Fatalf("expected floor confidence 0.3, got %s", f.Confidence)
	}
	if f.Date != "2026-03-06" {
		t.Fatalf("expected date 2026-03-06, got %s", f.Date)
	}
}

func TestForecastSales_SameWeekdayHistoryPreferred(t *testing.T) {
	// 2026-03-06 is a Friday: March seasonal factor 1.0, Friday day factor 1.25.
	target := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)

	history := []HistoricalSale{
		sale("2026-02-06", "4000"), // Fridays
		sale("2026-02-13", "4000"),
		sale("2026-02-20", "4000"),
		sale("2026-02-27", "4000"),
		sale("2026-02-25", "10000"), // Wednesday, must be excluded
		sale("2026-02-26", "10000"), // Thursday, must be excluded
	}

	f := ForecastSales(history, target, decimal.Zero, decimal.Zero)

	// 4000 * 1.0 * 1.25
	if !f.ForecastSales.Equal(d("5000")) {
		t.Fatalf("expected forecast 5000, got %s", f.ForecastSales)
	}
	// 4 same-weekday samples -> 0.4
	if !f.Confidence.Equal(d("0.4")) {
		t.Fatalf("expected confidence 0.4, got %s", f.Confidence)
	}
	if !f.Factors.Historical.Equal(d("4000")) {
		t.Fatalf("expected historical factor 4000, got %s", f.Factors.Historical)
	}
}

func TestForecastSales_FallsBackToAllHistoryBelowThreeSamples(t *testing.T) {
	target := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)

	// Only two Fridays, so the mean of all four rows (3000) is used.
	history := []HistoricalSale{
		sale("2026-02-20", "4000"),
		sale("2026-02-27", "4000"),
		sale("2026-02-25", "2000"),
		sale("2026-02-26", "2000"),
	}

	f := ForecastSales(history, target, decimal.Zero, decimal.Zero)

	// 3000 * 1.0 * 1.25
	if !f.ForecastSales.Equal(d("3750")) {
		t.Fatalf("expected forecast 3750, got %s", f.ForecastSales)
	}
}

func TestForecastSales_WeatherAndEventsScale(t *testing.T) {
	target := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	history := []HistoricalSale{
		sale("2026-02-06", "4000"),
		sale("2026-02-13", "4000"),
		sale("2026-02-20", "4000"),
		sale("2026-02-27", "4000"),
	}

	f := ForecastSales(history, target, d("1.2"), decimal.Zero)

	if !f.ForecastSales.Equal(d("6000")) {
		t.Fatalf("expected forecast 6000 with weather 1.2, got %s", f.ForecastSales)
	}
	if !f.Factors.Weather.Equal(d("1.2")) {
		t.Fatalf("expected weather factor carried through, got %s", f.Factors.Weather)
	}
	if !f.Factors.Events.Equal(d("1")) {
		t.Fatalf("expected zero events factor defaulted to 1, got %s", f.Factors.Events)
	}
}

func TestForecastConfidence_Clamped(t *testing.T) {
	cases := []struct {
		samples  int
		expected string
	}{
		{0, "0.3"},
		{2, "0.3"},
		{5, "0.5"},
		{9, "0.9"},
		{40, "0.9"},
	}
	for _, tc := range cases {
		got := forecastConfidence(tc.samples)
		if !got.Equal(d(tc.expected)) {
			t.Fatalf("forecastConfidence(%d) expected %s, got %s", tc.samples, tc.expected, got)
		}
	}
}
