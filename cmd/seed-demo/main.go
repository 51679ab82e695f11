// seed-demo loads a small demo portfolio: one org with an owner login, two
// venues, standard cash envelopes, a role/wage table, staffing targets, a SKU
// catalog with inventory counts, and ~60 days of daily sales so the planning
// endpoints have history to work with.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-demo
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"bitbucket.org/mmdatafocus/venues_backend/config"
	"bitbucket.org/mmdatafocus/venues_backend/models"
	"bitbucket.org/mmdatafocus/venues_backend/utils"
	"github.com/shopspring/decimal"
)

const (
	ownerEmail    = "owner@demo.local"
	ownerPassword = "DemoOwner1!"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	org, err := models.CreateOrg(ctx, &models.NewOrg{Name: "Demo Hospitality Group"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create org: %v\n", err)
		os.Exit(1)
	}

	if _, err := models.CreateUser(ctx, &models.NewUser{
		OrgId:    org.ID.String(),
		Email:    ownerEmail,
		Name:     "Demo Owner",
		Password: ownerPassword,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create owner user: %v\n", err)
		os.Exit(1)
	}

	venues := []models.NewVenue{
		{Name: "The Copper Kettle", Type: models.VenueTypeRestaurant, Timezone: "America/New_York"},
		{Name: "Velvet Room", Type: models.VenueTypeLounge, Timezone: "America/New_York"},
	}
	for i, nv := range venues {
		venue, err := models.CreateVenue(ctx, org.ID.String(), &nv)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create venue %q: %v\n", nv.Name, err)
			os.Exit(1)
		}
		if err := seedVenue(ctx, venue.ID.String(), i); err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed venue %q: %v\n", nv.Name, err)
			os.Exit(1)
		}
		fmt.Printf("Seeded venue %q (%s)\n", nv.Name, venue.ID)
	}

	if _, err := models.CreateGrowthGoal(ctx, org.ID.String(), &models.NewGrowthGoal{
		TargetUnits:          2,
		EstimatedCostPerUnit: decimal.NewFromInt(350000),
		HorizonYears:         decimal.NewFromFloat(3),
		StartDate:            time.Now().AddDate(0, -2, 0),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create growth goal: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Done. Login with email=%q password=%q\n", ownerEmail, ownerPassword)
}

func seedVenue(ctx context.Context, venueId string, offset int) error {
	envelopes := []models.NewCashEnvelope{
		{Name: "Taxes", TargetPct: decimal.NewFromInt(12)},
		{Name: "Payroll", TargetPct: decimal.NewFromInt(30)},
		{Name: "Rent", TargetPct: decimal.NewFromInt(10)},
		{Name: "Growth", TargetPct: decimal.NewFromInt(8)},
		{Name: "Operating", TargetPct: decimal.NewFromInt(25)},
	}
	for _, e := range envelopes {
		if _, err := models.CreateCashEnvelope(ctx, venueId, &e); err != nil {
			return err
		}
	}

	wages := []models.NewRoleWage{
		{RoleName: "Manager", HourlyWage: decimal.NewFromInt(28)},
		{RoleName: "Server", HourlyWage: decimal.NewFromInt(15)},
		{RoleName: "Bartender", HourlyWage: decimal.NewFromInt(18)},
		{RoleName: "Line Cook", HourlyWage: decimal.NewFromInt(20)},
		{RoleName: "Host", HourlyWage: decimal.NewFromInt(14)},
	}
	for _, w := range wages {
		if _, err := models.CreateRoleWage(ctx, venueId, &w); err != nil {
			return err
		}
	}

	if _, err := models.UpsertStaffingTarget(ctx, venueId, &models.UpsertStaffingTargetInput{
		TargetLaborPct: decimal.NewFromFloat(32.5),
		MinOnShift:     3,
		MaxOnShift:     14,
	}); err != nil {
		return err
	}

	skus := []models.NewSku{
		{Name: "Ribeye 12oz", Category: models.SkuCategoryFood, Uom: "each", CostPerUom: decimal.NewFromFloat(14.50), Par: decimal.NewFromInt(40), SafetyStock: decimal.NewFromInt(8), LeadTimeDays: 2},
		{Name: "Chicken Breast", Category: models.SkuCategoryFood, Uom: "lb", CostPerUom: decimal.NewFromFloat(3.80), Par: decimal.NewFromInt(60), SafetyStock: decimal.NewFromInt(12), LeadTimeDays: 2},
		{Name: "House Vodka 1L", Category: models.SkuCategoryLiquor, Uom: "bottle", CostPerUom: decimal.NewFromFloat(11.00), Par: decimal.NewFromInt(24), SafetyStock: decimal.NewFromInt(6), LeadTimeDays: 3, CasePackQty: intPtr(12), CaseCost: decPtr(120)},
		{Name: "Well Tequila 1L", Category: models.SkuCategoryLiquor, Uom: "bottle", CostPerUom: decimal.NewFromFloat(13.50), Par: decimal.NewFromInt(18), SafetyStock: decimal.NewFromInt(4), LeadTimeDays: 3, CasePackQty: intPtr(6), CaseCost: decPtr(76)},
		{Name: "Cocktail Napkins", Category: models.SkuCategoryNonfood, Uom: "pack", CostPerUom: decimal.NewFromFloat(4.25), Par: decimal.NewFromInt(30), SafetyStock: decimal.NewFromInt(5), LeadTimeDays: 5},
	}
	countDate := time.Now().AddDate(0, 0, -1)
	for _, ns := range skus {
		sku, err := models.CreateSku(ctx, venueId, &ns)
		if err != nil {
			return err
		}
		onHand := ns.Par.Mul(decimal.NewFromFloat(0.4))
		if _, err := models.CreateInventoryCount(ctx, venueId, &models.NewInventoryCount{
			SkuId:        sku.ID,
			BusinessDate: countDate,
			OnHand:       onHand,
		}); err != nil {
			return err
		}
	}

	// ~60 days of sales with a weekly rhythm and a little venue-to-venue skew.
	base := decimal.NewFromInt(int64(3400 + offset*600))
	for i := 60; i >= 1; i-- {
		day := time.Now().AddDate(0, 0, -i)
		date, _ := utils.ParseBusinessDate(utils.FormatBusinessDate(day))
		dayFactor := config.DayOfWeekFactors()[int(date.Weekday())]
		net := base.Mul(dayFactor)
		gross := net.Mul(decimal.NewFromFloat(1.09))
		row := models.DailySales{
			VenueId:      venueId,
			BusinessDate: date,
			GrossSales:   utils.RoundMoney(gross),
			NetSales:     utils.RoundMoney(net),
			Comps:        utils.RoundMoney(net.Mul(decimal.NewFromFloat(0.015))),
			Discounts:    utils.RoundMoney(net.Mul(decimal.NewFromFloat(0.02))),
			TaxCollected: utils.RoundMoney(net.Mul(decimal.NewFromFloat(0.07))),
			Guests:       int(net.Div(decimal.NewFromInt(38)).IntPart()),
			CheckCount:   int(net.Div(decimal.NewFromInt(52)).IntPart()),
			LaborCost:    utils.RoundMoney(net.Mul(decimal.NewFromFloat(0.31))),
			LaborHours:   net.Div(decimal.NewFromInt(55)).Round(1),
			CogsFood:     utils.RoundMoney(net.Mul(decimal.NewFromFloat(0.21))),
			CogsLiquor:   utils.RoundMoney(net.Mul(decimal.NewFromFloat(0.06))),
		}
		if err := models.UpsertDailySales(ctx, &row); err != nil {
			return err
		}
	}
	return nil
}

func intPtr(v int) *int { return &v }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}
