package workflow

import (
	"encoding/base64"
	"testing"

	"github.com/shopspring/decimal"
)

func TestEstimateToastCogs_UsesReportedRevenueSplit(t *testing.T) {
	food, liquor := estimateToastCogs(d("10000"), d("6000"), d("4000"))

	// 60% food at 30% cost, 40% liquor at 20% cost
	if !food.Equal(d("1800")) {
		t.Fatalf("expected food COGS 1800, got %s", food)
	}
	if !liquor.Equal(d("800")) {
		t.Fatalf("expected liquor COGS 800, got %s", liquor)
	}
}

func TestEstimateToastCogs_DefaultSplitWhenRevenueLinesMissing(t *testing.T) {
	food, liquor := estimateToastCogs(d("10000"), decimal.Zero, decimal.Zero)

	// assumed 70/30 split
	if !food.Equal(d("2100")) {
		t.Fatalf("expected food COGS 2100, got %s", food)
	}
	if !liquor.Equal(d("600")) {
		t.Fatalf("expected liquor COGS 600, got %s", liquor)
	}
}

func TestParseAlohaCSV_StandardHeaders(t *testing.T) {
	csv := "business_date,net_sales,gross_sales,tax,guests,checks,labor_cost,labor_hours,food_cost,liquor_cost\n" +
		"2026-08-01,4200.50,4550.00,310.25,120,85,1300.00,72.5,900.00,250.00\n" +
		"2026-08-02,5100.00,5500.00,380.00,140,95,1450.00,78,1050.00,280.00"

	rows, err := parseAlohaCSV("venue-1", csv)
	if err != nil {
		t.Fatalf("parseAlohaCSV error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.VenueId != "venue-1" {
		t.Fatalf("expected venue id carried onto rows, got %q", first.VenueId)
	}
	if first.BusinessDate.Format("2006-01-02") != "2026-08-01" {
		t.Fatalf("unexpected business date %s", first.BusinessDate)
	}
	if !first.NetSales.Equal(d("4200.50")) {
		t.Fatalf("expected net sales 4200.50, got %s", first.NetSales)
	}
	if first.Guests != 120 || first.CheckCount != 85 {
		t.Fatalf("unexpected guests/checks: %d/%d", first.Guests, first.CheckCount)
	}
	if !first.CogsLiquor.Equal(d("250")) {
		t.Fatalf("expected liquor cost 250, got %s", first.CogsLiquor)
	}
}

func TestParseAlohaCSV_AlternateHeadersAndRowSkipping(t *testing.T) {
	// site export variant: "date", "gross_sales" doubling as net, "beverage_cost"
	csv := "date,gross_sales,comp_amount,beverage_cost\n" +
		"2026-08-01,3000.00,45.00,190.00\n" +
		",2000.00,0,0\n" + // no date, skipped
		"2026-08-03,0,0,0\n" + // non-positive sales, skipped
		"not-a-date,1500.00,0,0" // unparseable date, skipped

	rows, err := parseAlohaCSV("venue-1", csv)
	if err != nil {
		t.Fatalf("parseAlohaCSV error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected only the valid row kept, got %d", len(rows))
	}
	if !rows[0].NetSales.Equal(d("3000")) {
		t.Fatalf("expected gross_sales used as net fallback, got %s", rows[0].NetSales)
	}
	if !rows[0].Comps.Equal(d("45")) {
		t.Fatalf("expected comp_amount mapped to comps, got %s", rows[0].Comps)
	}
	if !rows[0].CogsLiquor.Equal(d("190")) {
		t.Fatalf("expected beverage_cost mapped to liquor COGS, got %s", rows[0].CogsLiquor)
	}
}

func TestParseAlohaCSV_Base64DataURI(t *testing.T) {
	raw := "business_date,net_sales\n2026-08-01,4200.00"
	encoded := "data:text/csv;base64," + base64.StdEncoding.EncodeToString([]byte(raw))

	rows, err := parseAlohaCSV("venue-1", encoded)
	if err != nil {
		t.Fatalf("parseAlohaCSV error: %v", err)
	}
	if len(rows) != 1 || !rows[0].NetSales.Equal(d("4200")) {
		t.Fatalf("expected decoded row with net sales 4200, got %+v", rows)
	}
}

func TestParseAlohaCSV_RejectsHeaderOnlyInput(t *testing.T) {
	if _, err := parseAlohaCSV("venue-1", "business_date,net_sales"); err == nil {
		t.Fatal("expected error for CSV with no data rows")
	}
}
