package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/venues_backend/config"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

// DailySales is one POS day per venue.
//
// Grain: (venue_id, business_date) — at most one row per venue per day.
// POS ingestion and close-day both write through UpsertDailySales, which
// keys on that pair.
type DailySales struct {
	ID           int       `gorm:"primary_key" json:"id"`
	VenueId      string    `gorm:"size:64;not null;uniqueIndex:idx_sales_venue_date,priority:1" json:"venue_id"`
	BusinessDate time.Time `gorm:"not null;uniqueIndex:idx_sales_venue_date,priority:2" json:"business_date"`

	GrossSales   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"gross_sales"`
	NetSales     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"net_sales"`
	Comps        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"comps"`
	Discounts    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discounts"`
	TaxCollected decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_collected"`
	Guests       int             `gorm:"default:0" json:"guests"`
	CheckCount   int             `gorm:"default:0" json:"check_count"`
	LaborCost    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"labor_cost"`
	LaborHours   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"labor_hours"`
	CogsFood     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cogs_food"`
	CogsLiquor   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cogs_liquor"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// UpsertDailySales inserts or replaces the venue/date row.
func UpsertDailySales(ctx context.Context, row *DailySales) error {
	db := config.GetDB()
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "venue_id"}, {Name: "business_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"gross_sales", "net_sales", "comps", "discounts", "tax_collected",
			"guests", "check_count", "labor_cost", "labor_hours",
			"cogs_food", "cogs_liquor", "updated_at",
		}),
	}).Create(row).Error
}

// GetDailySales returns the sales row for one venue/date.
// (may return RecordNotFound)
func GetDailySales(ctx context.Context, venueId string, businessDate time.Time) (*DailySales, error) {
	db := config.GetDB()
	var row DailySales
	err := db.WithContext(ctx).
		Where("venue_id = ? AND business_date = ?", venueId, businessDate).
		First(&row).Error
	if err != nil {
		return nil, ErrNotFound("sales data")
	}
	return &row, nil
}

// ListDailySales returns rows for a venue in [from, to], newest first.
func ListDailySales(ctx context.Context, venueId string, from, to time.Time) ([]*DailySales, error) {
	db := config.GetDB()
	var rows []*DailySales
	dbCtx := db.WithContext(ctx).Where("venue_id = ?", venueId)
	if !from.IsZero() {
		dbCtx = dbCtx.Where("business_date >= ?", from)
	}
	if !to.IsZero() {
		dbCtx = dbCtx.Where("business_date <= ?", to)
	}
	if err := dbCtx.Order("business_date DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListDailySalesByDates fetches the rows matching an explicit date set,
// oldest first. Dates with no sales simply have no row.
func ListDailySalesByDates(ctx context.Context, venueId string, dates []time.Time) ([]*DailySales, error) {
	db := config.GetDB()
	var rows []*DailySales
	err := db.WithContext(ctx).
		Where("venue_id = ? AND business_date IN ?", venueId, dates).
		Order("business_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AverageDailyNetSales is the mean net sales over the venue's last N days,
// cached briefly in redis because orders-suggest and growth both want it.
func AverageDailyNetSales(ctx context.Context, venueId string, days int) (decimal.Decimal, int, error) {
	type cached struct {
		Avg   decimal.Decimal `json:"avg"`
		Count int             `json:"count"`
	}
	cacheKey := "AvgDailySales:" + venueId

	var c cached
	if exists, err := config.GetRedisObject(cacheKey, &c); err == nil && exists {
		return c.Avg, c.Count, nil
	}

	since := time.Now().AddDate(0, 0, -days)
	rows, err := ListDailySales(ctx, venueId, since, time.Time{})
	if err != nil {
		return decimal.Zero, 0, err
	}
	if len(rows) == 0 {
		return decimal.Zero, 0, nil
	}

	sum := decimal.Zero
	for _, row := range rows {
		sum = sum.Add(row.NetSales)
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(rows))))

	_ = config.SetRedisObject(cacheKey, &cached{Avg: avg, Count: len(rows)}, 10*time.Minute)
	return avg, len(rows), nil
}

// InvalidateAverageDailySales drops the cached mean after new sales land.
func InvalidateAverageDailySales(venueId string) {
	_ = config.RemoveRedisKey("AvgDailySales:" + venueId)
}
