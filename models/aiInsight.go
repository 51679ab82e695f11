package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/venues_backend/config"
	"bitbucket.org/mmdatafocus/venues_backend/utils"
)

// AIInsight is an advisory message generated by close-day. The UI only ever
// reads these and flips the applied flag.
type AIInsight struct {
	ID           int             `gorm:"primary_key" json:"id"`
	VenueId      string          `gorm:"size:64;index;not null" json:"venue_id"`
	BusinessDate time.Time       `gorm:"index;not null" json:"business_date"`
	Category     InsightCategory `gorm:"type:enum('cash', 'growth', 'labor', 'inventory', 'risk', 'opportunity');not null" json:"category"`
	Severity     InsightSeverity `gorm:"type:enum('low', 'medium', 'high', 'critical');default:low" json:"severity"`
	Message      string          `gorm:"type:text;not null" json:"message"`
	ActionData   []byte          `gorm:"type:json" json:"action_data"`
	IsApplied    *bool           `gorm:"not null;default:false" json:"is_applied"`
	AppliedAt    *time.Time      `json:"applied_at"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func ListInsights(ctx context.Context, venueId string, businessDate time.Time) ([]*AIInsight, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("venue_id = ?", venueId)
	if !businessDate.IsZero() {
		dbCtx = dbCtx.Where("business_date = ?", businessDate)
	}
	var insights []*AIInsight
	if err := dbCtx.Order("created_at DESC").Find(&insights).Error; err != nil {
		return nil, err
	}
	return insights, nil
}

// ApplyInsight records that the user acted on an insight.
func ApplyInsight(ctx context.Context, venueId string, id int) (*AIInsight, error) {
	insight, err := utils.FetchModel[AIInsight](ctx, venueId, id)
	if err != nil {
		return nil, ErrNotFound("insight")
	}

	now := time.Now()
	db := config.GetDB()
	err = db.WithContext(ctx).Model(insight).Updates(map[string]any{
		"is_applied": true,
		"applied_at": now,
	}).Error
	if err != nil {
		return nil, err
	}
	insight.IsApplied = utils.NewTrue()
	insight.AppliedAt = &now
	return insight, nil
}
