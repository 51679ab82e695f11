package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/venues_backend/config"
	"bitbucket.org/mmdatafocus/venues_backend/utils"
	"github.com/shopspring/decimal"
)

// InventoryCount is a periodic on-hand snapshot per SKU. The latest row per
// SKU is treated as the current stock level by the reorder calculator.
type InventoryCount struct {
	ID           int             `gorm:"primary_key" json:"id"`
	SkuId        int             `gorm:"index;not null" json:"sku_id"`
	BusinessDate time.Time       `gorm:"index;not null" json:"business_date"`
	OnHand       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"on_hand"`
	Waste        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"waste"`
	Notes        string          `gorm:"size:255" json:"notes"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewInventoryCount struct {
	SkuId        int             `json:"sku_id" binding:"required"`
	BusinessDate time.Time       `json:"business_date" binding:"required"`
	OnHand       decimal.Decimal `json:"on_hand"`
	Waste        decimal.Decimal `json:"waste"`
	Notes        string          `json:"notes"`
}

func CreateInventoryCount(ctx context.Context, venueId string, input *NewInventoryCount) (*InventoryCount, error) {
	if err := utils.ValidateResourceId[Sku](ctx, venueId, input.SkuId); err != nil {
		return nil, ErrNotFound("sku")
	}

	db := config.GetDB()
	count := InventoryCount{
		SkuId:        input.SkuId,
		BusinessDate: input.BusinessDate,
		OnHand:       input.OnHand,
		Waste:        input.Waste,
		Notes:        input.Notes,
	}
	if err := db.WithContext(ctx).Create(&count).Error; err != nil {
		return nil, err
	}
	return &count, nil
}

// LatestOnHandBySku returns the newest snapshot quantity for every SKU of a
// venue. SKUs with no count yet are simply absent from the map.
func LatestOnHandBySku(ctx context.Context, venueId string) (map[int]decimal.Decimal, error) {
	db := config.GetDB()
	var rows []*InventoryCount
	err := db.WithContext(ctx).
		Joins("JOIN skus ON skus.id = inventory_counts.sku_id").
		Where("skus.venue_id = ?", venueId).
		Order("inventory_counts.business_date DESC, inventory_counts.id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	onHand := make(map[int]decimal.Decimal, len(rows))
	for _, row := range rows {
		if _, seen := onHand[row.SkuId]; !seen {
			onHand[row.SkuId] = row.OnHand
		}
	}
	return onHand, nil
}

func ListInventoryCounts(ctx context.Context, venueId string, skuId int) ([]*InventoryCount, error) {
	if err := utils.ValidateResourceId[Sku](ctx, venueId, skuId); err != nil {
		return nil, ErrNotFound("sku")
	}

	db := config.GetDB()
	var rows []*InventoryCount
	err := db.WithContext(ctx).
		Where("sku_id = ?", skuId).
		Order("business_date DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
