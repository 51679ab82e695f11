package models

import (
	"encoding/json"
	"errors"
)

type VenueType string

const (
	VenueTypeRestaurant VenueType = "restaurant"
	VenueTypeBar        VenueType = "bar"
	VenueTypeLounge     VenueType = "lounge"
)

// validate input enum value
func (t *VenueType) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("venue type must be string")
	}
	switch str {
	case "restaurant":
		*t = VenueTypeRestaurant
	case "bar":
		*t = VenueTypeBar
	case "lounge":
		*t = VenueTypeLounge
	default:
		return errors.New("invalid venue type")
	}
	return nil
}

type SkuCategory string

const (
	SkuCategoryFood    SkuCategory = "food"
	SkuCategoryLiquor  SkuCategory = "liquor"
	SkuCategoryNonfood SkuCategory = "nonfood"
)

func (t *SkuCategory) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("sku category must be string")
	}
	switch str {
	case "food":
		*t = SkuCategoryFood
	case "liquor":
		*t = SkuCategoryLiquor
	case "nonfood":
		*t = SkuCategoryNonfood
	default:
		return errors.New("invalid sku category")
	}
	return nil
}

type InsightCategory string

const (
	InsightCategoryCash        InsightCategory = "cash"
	InsightCategoryGrowth      InsightCategory = "growth"
	InsightCategoryLabor       InsightCategory = "labor"
	InsightCategoryInventory   InsightCategory = "inventory"
	InsightCategoryRisk        InsightCategory = "risk"
	InsightCategoryOpportunity InsightCategory = "opportunity"
)

type InsightSeverity string

const (
	InsightSeverityLow      InsightSeverity = "low"
	InsightSeverityMedium   InsightSeverity = "medium"
	InsightSeverityHigh     InsightSeverity = "high"
	InsightSeverityCritical InsightSeverity = "critical"
)

type ShiftStatus string

const (
	ShiftStatusScheduled ShiftStatus = "scheduled"
	ShiftStatusActive    ShiftStatus = "active"
	ShiftStatusCompleted ShiftStatus = "completed"
	ShiftStatusCancelled ShiftStatus = "cancelled"
)

func (t *ShiftStatus) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("shift status must be string")
	}
	switch str {
	case "scheduled":
		*t = ShiftStatusScheduled
	case "active":
		*t = ShiftStatusActive
	case "completed":
		*t = ShiftStatusCompleted
	case "cancelled":
		*t = ShiftStatusCancelled
	default:
		return errors.New("invalid shift status")
	}
	return nil
}

type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderStatusSubmitted PurchaseOrderStatus = "submitted"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "received"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)
