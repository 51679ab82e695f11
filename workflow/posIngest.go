package workflow

import (
	"context"
	"encoding/base64"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bitbucket.org/mmdatafocus/venues_backend/config"
	"bitbucket.org/mmdatafocus/venues_backend/models"
	"bitbucket.org/mmdatafocus/venues_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ToastWebhookInput is the daily summary payload Toast posts per venue.
type ToastWebhookInput struct {
	VenueId      string          `json:"venue_id" binding:"required"`
	BusinessDate string          `json:"business_date" binding:"required"`
	GrossSales   decimal.Decimal `json:"gross_sales"`
	NetSales     decimal.Decimal `json:"net_sales" binding:"required"`
	TaxCollected decimal.Decimal `json:"tax_collected"`
	Guests       int             `json:"guests"`
	CheckCount   int             `json:"check_count"`
	LaborCost    decimal.Decimal `json:"labor_cost"`
	LaborHours   decimal.Decimal `json:"labor_hours"`
	FoodSales    decimal.Decimal `json:"food_sales"`
	LiquorSales  decimal.Decimal `json:"liquor_sales"`
	Comps        decimal.Decimal `json:"comps"`
	Discounts    decimal.Decimal `json:"discounts"`
}

// IngestToast upserts one day of Toast POS data. Toast does not report COGS,
// so it is estimated from the food/liquor revenue split at typical cost
// percentages (30% food, 20% liquor); an even 70/30 split is assumed when the
// webhook omits both revenue lines.
func IngestToast(ctx context.Context, logger *logrus.Logger, input ToastWebhookInput) error {
	businessDate, err := utils.ParseBusinessDate(input.BusinessDate)
	if err != nil {
		return fmt.Errorf("invalid business_date: %w", err)
	}
	if !input.NetSales.IsPositive() {
		return errors.New("net_sales must be positive")
	}
	if _, err := models.GetVenue(ctx, input.VenueId); err != nil {
		return err
	}

	cogsFood, cogsLiquor := estimateToastCogs(input.NetSales, input.FoodSales, input.LiquorSales)

	row := models.DailySales{
		VenueId:      input.VenueId,
		BusinessDate: businessDate,
		GrossSales:   input.GrossSales,
		NetSales:     input.NetSales,
		Comps:        input.Comps,
		Discounts:    input.Discounts,
		TaxCollected: input.TaxCollected,
		Guests:       input.Guests,
		CheckCount:   input.CheckCount,
		LaborCost:    input.LaborCost,
		LaborHours:   input.LaborHours,
		CogsFood:     cogsFood,
		CogsLiquor:   cogsLiquor,
	}
	if err := models.UpsertDailySales(ctx, &row); err != nil {
		config.LogError(logger, "posIngest.go", "IngestToast", "UpsertDailySales", row, err)
		return err
	}

	models.InvalidateAverageDailySales(input.VenueId)
	return nil
}

func estimateToastCogs(netSales, foodSales, liquorSales decimal.Decimal) (cogsFood, cogsLiquor decimal.Decimal) {
	totalSales := foodSales.Add(liquorSales)
	foodRatio := decimal.NewFromFloat(0.7)
	liquorRatio := decimal.NewFromFloat(0.3)
	if totalSales.IsPositive() {
		foodRatio = foodSales.Div(totalSales)
		liquorRatio = liquorSales.Div(totalSales)
	}
	cogsFood = netSales.Mul(foodRatio).Mul(decimal.NewFromFloat(0.30))
	cogsLiquor = netSales.Mul(liquorRatio).Mul(decimal.NewFromFloat(0.20))
	return cogsFood, cogsLiquor
}

type AlohaCSVInput struct {
	VenueId string `json:"venue_id" binding:"required"`
	CsvData string `json:"csv_data" binding:"required"`
}

// IngestAloha parses an Aloha daily-sales CSV export (raw text or a base64
// data URI) and upserts each valid row. Aloha exports vary by site, so each
// field accepts the common alternate header names. Rows missing a date or
// with non-positive net sales are skipped. Returns the number of rows
// ingested.
func IngestAloha(ctx context.Context, logger *logrus.Logger, input AlohaCSVInput) (int, error) {
	if _, err := models.GetVenue(ctx, input.VenueId); err != nil {
		return 0, err
	}

	rows, err := parseAlohaCSV(input.VenueId, input.CsvData)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, errors.New("no valid sales records found in CSV")
	}

	processed := 0
	for i := range rows {
		if err := models.UpsertDailySales(ctx, &rows[i]); err != nil {
			config.LogError(logger, "posIngest.go", "IngestAloha", "UpsertDailySales", rows[i], err)
			return processed, err
		}
		processed++
	}

	models.InvalidateAverageDailySales(input.VenueId)
	return processed, nil
}

// parseAlohaCSV turns CSV text (raw or a base64 data URI) into DailySales
// rows, skipping rows without a parseable date or positive net sales.
func parseAlohaCSV(venueId, csvData string) ([]models.DailySales, error) {
	csvText := csvData
	if strings.Contains(csvText, "base64") {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(csvText, "data:text/csv;base64,"))
		if err != nil {
			return nil, fmt.Errorf("invalid base64 csv_data: %w", err)
		}
		csvText = string(decoded)
	}

	reader := csv.NewReader(strings.NewReader(strings.TrimSpace(csvText)))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV format: %w", err)
	}
	if len(records) < 2 {
		return nil, errors.New("invalid CSV format")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]models.DailySales, 0, len(records)-1)
	for _, values := range records[1:] {
		fields := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(values) {
				fields[header] = strings.TrimSpace(values[i])
			}
		}

		dateStr := firstField(fields, "business_date", "date")
		netSales := utils.ParseDecimalOrZero(firstField(fields, "net_sales", "gross_sales"))
		if dateStr == "" || !netSales.IsPositive() {
			continue
		}
		businessDate, err := utils.ParseBusinessDate(dateStr)
		if err != nil {
			continue
		}

		rows = append(rows, models.DailySales{
			VenueId:      venueId,
			BusinessDate: businessDate,
			GrossSales:   utils.ParseDecimalOrZero(firstField(fields, "gross_sales", "total_sales")),
			NetSales:     netSales,
			Comps:        utils.ParseDecimalOrZero(firstField(fields, "comps", "comp_amount")),
			Discounts:    utils.ParseDecimalOrZero(firstField(fields, "discounts", "discount_amount")),
			TaxCollected: utils.ParseDecimalOrZero(firstField(fields, "tax", "tax_amount")),
			Guests:       parseIntOrZero(firstField(fields, "guests", "guest_count")),
			CheckCount:   parseIntOrZero(firstField(fields, "checks", "check_count")),
			LaborCost:    utils.ParseDecimalOrZero(fields["labor_cost"]),
			LaborHours:   utils.ParseDecimalOrZero(fields["labor_hours"]),
			CogsFood:     utils.ParseDecimalOrZero(fields["food_cost"]),
			CogsLiquor:   utils.ParseDecimalOrZero(firstField(fields, "liquor_cost", "beverage_cost")),
		})
	}
	return rows, nil
}

func firstField(fields map[string]string, names ...string) string {
	for _, name := range names {
		if v := fields[name]; v != "" {
			return v
		}
	}
	return ""
}

func parseIntOrZero(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}
