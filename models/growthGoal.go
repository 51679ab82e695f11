package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/venues_backend/config"
	"github.com/shopspring/decimal"
)

// GrowthGoal is an org-level expansion target (e.g. "2 new locations in 3
// years"); only used for progress-ratio math, never mutated by close-day.
type GrowthGoal struct {
	ID                   int             `gorm:"primary_key" json:"id"`
	OrgId                string          `gorm:"size:64;index;not null" json:"org_id"`
	TargetUnits          int             `gorm:"not null" json:"target_units"`
	EstimatedCostPerUnit decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"estimated_cost_per_unit"`
	HorizonYears         decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"horizon_years"`
	StartDate            time.Time       `gorm:"not null" json:"start_date"`
	CreatedAt            time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewGrowthGoal struct {
	TargetUnits          int             `json:"target_units" binding:"required"`
	EstimatedCostPerUnit decimal.Decimal `json:"estimated_cost_per_unit" binding:"required"`
	HorizonYears         decimal.Decimal `json:"horizon_years" binding:"required"`
	StartDate            time.Time       `json:"start_date" binding:"required"`
}

func CreateGrowthGoal(ctx context.Context, orgId string, input *NewGrowthGoal) (*GrowthGoal, error) {
	if input.TargetUnits <= 0 {
		return nil, errors.New("target_units must be positive")
	}
	if !input.HorizonYears.IsPositive() {
		return nil, errors.New("horizon_years must be positive")
	}

	db := config.GetDB()
	goal := GrowthGoal{
		OrgId:                orgId,
		TargetUnits:          input.TargetUnits,
		EstimatedCostPerUnit: input.EstimatedCostPerUnit,
		HorizonYears:         input.HorizonYears,
		StartDate:            input.StartDate,
	}
	if err := db.WithContext(ctx).Create(&goal).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

func ListGrowthGoals(ctx context.Context, orgId string) ([]*GrowthGoal, error) {
	db := config.GetDB()
	var goals []*GrowthGoal
	if err := db.WithContext(ctx).Where("org_id = ?", orgId).Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func GetGrowthGoal(ctx context.Context, orgId string, id int) (*GrowthGoal, error) {
	db := config.GetDB()
	var goal GrowthGoal
	err := db.WithContext(ctx).Where("org_id = ? AND id = ?", orgId, id).First(&goal).Error
	if err != nil {
		return nil, ErrNotFound("growth goal")
	}
	return &goal, nil
}
