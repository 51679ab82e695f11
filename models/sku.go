package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/venues_backend/config"
	"bitbucket.org/mmdatafocus/venues_backend/utils"
	"github.com/shopspring/decimal"
)

type Sku struct {
	ID           int             `gorm:"primary_key" json:"id"`
	VenueId      string          `gorm:"size:64;index;not null" json:"venue_id"`
	Name         string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Category     SkuCategory     `gorm:"type:enum('food', 'liquor', 'nonfood');not null" json:"category"`
	Uom          string          `gorm:"size:20;not null" json:"uom" binding:"required"`
	CostPerUom   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"cost_per_uom"`
	Par          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"par"`
	SafetyStock  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"safety_stock"`
	LeadTimeDays int             `gorm:"default:1" json:"lead_time_days"`
	CasePackQty  *int            `gorm:"default:NULL" json:"case_pack_qty"`
	CaseCost     *decimal.Decimal `gorm:"type:decimal(20,4);default:NULL" json:"case_cost"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSku struct {
	Name         string           `json:"name" binding:"required"`
	Category     SkuCategory      `json:"category" binding:"required"`
	Uom          string           `json:"uom" binding:"required"`
	CostPerUom   decimal.Decimal  `json:"cost_per_uom" binding:"required"`
	Par          decimal.Decimal  `json:"par"`
	SafetyStock  decimal.Decimal  `json:"safety_stock"`
	LeadTimeDays int              `json:"lead_time_days"`
	CasePackQty  *int             `json:"case_pack_qty"`
	CaseCost     *decimal.Decimal `json:"case_cost"`
}

func CreateSku(ctx context.Context, venueId string, input *NewSku) (*Sku, error) {
	if !input.CostPerUom.IsPositive() {
		return nil, errors.New("cost_per_uom must be positive")
	}
	leadTime := input.LeadTimeDays
	if leadTime <= 0 {
		leadTime = 1
	}

	db := config.GetDB()
	sku := Sku{
		VenueId:      venueId,
		Name:         input.Name,
		Category:     input.Category,
		Uom:          input.Uom,
		CostPerUom:   input.CostPerUom,
		Par:          input.Par,
		SafetyStock:  input.SafetyStock,
		LeadTimeDays: leadTime,
		CasePackQty:  input.CasePackQty,
		CaseCost:     input.CaseCost,
	}
	if err := db.WithContext(ctx).Create(&sku).Error; err != nil {
		return nil, err
	}
	return &sku, nil
}

func ListSkus(ctx context.Context, venueId string) ([]*Sku, error) {
	db := config.GetDB()
	var skus []*Sku
	err := db.WithContext(ctx).
		Where("venue_id = ?", venueId).
		Order("par DESC").
		Find(&skus).Error
	if err != nil {
		return nil, err
	}
	return skus, nil
}

func GetSku(ctx context.Context, venueId string, id int) (*Sku, error) {
	sku, err := utils.FetchModel[Sku](ctx, venueId, id)
	if err != nil {
		return nil, ErrNotFound("sku")
	}
	return sku, nil
}
