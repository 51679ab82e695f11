package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/venues_backend/config"
	"bitbucket.org/mmdatafocus/venues_backend/utils"
	"github.com/shopspring/decimal"
)

// PurchaseOrder is a draft order persisted from accepted reorder suggestions.
type PurchaseOrder struct {
	ID                   int                  `gorm:"primary_key" json:"id"`
	VenueId              string               `gorm:"size:64;index;not null" json:"venue_id"`
	OrderDate            time.Time            `gorm:"not null" json:"order_date"`
	ExpectedDeliveryDate *time.Time           `json:"expected_delivery_date"`
	VendorName           string               `gorm:"size:100" json:"vendor_name"`
	Status               PurchaseOrderStatus  `gorm:"type:enum('draft', 'submitted', 'received', 'cancelled');default:draft" json:"status"`
	TotalCost            decimal.Decimal      `gorm:"type:decimal(20,4);default:0" json:"total_cost"`
	Lines                []*PurchaseOrderLine `gorm:"foreignKey:PurchaseOrderId" json:"lines"`
	CreatedAt            time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

type PurchaseOrderLine struct {
	ID              int             `gorm:"primary_key" json:"id"`
	PurchaseOrderId int             `gorm:"index;not null" json:"purchase_order_id"`
	SkuId           int             `gorm:"index;not null" json:"sku_id"`
	Quantity        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_cost"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"line_total"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (PurchaseOrderLine) TableName() string {
	return "po_lines"
}

type NewPurchaseOrderLine struct {
	SkuId    int             `json:"sku_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost decimal.Decimal `json:"unit_cost" binding:"required"`
}

type NewPurchaseOrder struct {
	OrderDate            time.Time               `json:"order_date" binding:"required"`
	ExpectedDeliveryDate *time.Time              `json:"expected_delivery_date"`
	VendorName           string                  `json:"vendor_name"`
	Lines                []*NewPurchaseOrderLine `json:"lines" binding:"required,min=1,dive"`
}

func CreatePurchaseOrder(ctx context.Context, venueId string, input *NewPurchaseOrder) (*PurchaseOrder, error) {
	skuIds := make([]int, 0, len(input.Lines))
	for _, line := range input.Lines {
		if !line.Quantity.IsPositive() {
			return nil, errors.New("line quantity must be positive")
		}
		skuIds = append(skuIds, line.SkuId)
	}

	count, err := utils.ResourceCountWhere[Sku](ctx, venueId, "id IN ?", utils.UniqueSlice(skuIds))
	if err != nil {
		return nil, err
	}
	if count != int64(len(utils.UniqueSlice(skuIds))) {
		return nil, ErrNotFound("sku")
	}

	total := decimal.Zero
	lines := make([]*PurchaseOrderLine, 0, len(input.Lines))
	for _, line := range input.Lines {
		lineTotal := line.Quantity.Mul(line.UnitCost)
		total = total.Add(lineTotal)
		lines = append(lines, &PurchaseOrderLine{
			SkuId:     line.SkuId,
			Quantity:  line.Quantity,
			UnitCost:  line.UnitCost,
			LineTotal: lineTotal,
		})
	}

	order := PurchaseOrder{
		VenueId:              venueId,
		OrderDate:            input.OrderDate,
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
		VendorName:           input.VendorName,
		Status:               PurchaseOrderStatusDraft,
		TotalCost:            utils.RoundMoney(total),
		Lines:                lines,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func ListPurchaseOrders(ctx context.Context, venueId string) ([]*PurchaseOrder, error) {
	return utils.FetchAllModels[PurchaseOrder](ctx, venueId, "Lines")
}
