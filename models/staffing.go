package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/venues_backend/config"
	"bitbucket.org/mmdatafocus/venues_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

// StaffingTarget holds the venue's labor guardrail inputs. One row per venue.
type StaffingTarget struct {
	ID             int             `gorm:"primary_key" json:"id"`
	VenueId        string          `gorm:"size:64;uniqueIndex;not null" json:"venue_id"`
	TargetLaborPct decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"target_labor_pct"`
	MinOnShift     int             `gorm:"default:0" json:"min_on_shift"`
	MaxOnShift     int             `gorm:"default:0" json:"max_on_shift"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type RoleWage struct {
	ID         int             `gorm:"primary_key" json:"id"`
	VenueId    string          `gorm:"size:64;not null;uniqueIndex:idx_wage_venue_role,priority:1" json:"venue_id"`
	RoleName   string          `gorm:"size:100;not null;uniqueIndex:idx_wage_venue_role,priority:2" json:"role_name" binding:"required"`
	HourlyWage decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"hourly_wage"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RoleWage) TableName() string {
	return "roles_wages"
}

type Shift struct {
	ID             int             `gorm:"primary_key" json:"id"`
	VenueId        string          `gorm:"size:64;index;not null" json:"venue_id"`
	Role           string          `gorm:"size:100;not null" json:"role" binding:"required"`
	StartTime      time.Time       `gorm:"index;not null" json:"start_time" binding:"required"`
	EndTime        *time.Time      `json:"end_time"`
	ScheduledHours decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"scheduled_hours"`
	ScheduledCost  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"scheduled_cost"`
	Status         ShiftStatus     `gorm:"type:enum('scheduled', 'active', 'completed', 'cancelled');default:scheduled" json:"status"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type UpsertStaffingTargetInput struct {
	TargetLaborPct decimal.Decimal `json:"target_labor_pct" binding:"required"`
	MinOnShift     int             `json:"min_on_shift"`
	MaxOnShift     int             `json:"max_on_shift"`
}

type NewRoleWage struct {
	RoleName   string          `json:"role_name" binding:"required"`
	HourlyWage decimal.Decimal `json:"hourly_wage" binding:"required"`
}

type NewShift struct {
	Role           string          `json:"role" binding:"required"`
	StartTime      time.Time       `json:"start_time" binding:"required"`
	EndTime        *time.Time      `json:"end_time"`
	ScheduledHours decimal.Decimal `json:"scheduled_hours"`
	ScheduledCost  decimal.Decimal `json:"scheduled_cost"`
}

// UpsertStaffingTarget creates or replaces the venue's single target row.
func UpsertStaffingTarget(ctx context.Context, venueId string, input *UpsertStaffingTargetInput) (*StaffingTarget, error) {
	if input.TargetLaborPct.IsNegative() || input.TargetLaborPct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, errors.New("target_labor_pct must be between 0 and 100")
	}
	if input.MaxOnShift > 0 && input.MinOnShift > input.MaxOnShift {
		return nil, errors.New("min_on_shift cannot exceed max_on_shift")
	}

	db := config.GetDB()
	target := StaffingTarget{
		VenueId:        venueId,
		TargetLaborPct: input.TargetLaborPct,
		MinOnShift:     input.MinOnShift,
		MaxOnShift:     input.MaxOnShift,
	}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "venue_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"target_labor_pct", "min_on_shift", "max_on_shift", "updated_at"}),
	}).Create(&target).Error
	if err != nil {
		return nil, err
	}
	return &target, nil
}

// GetStaffingTarget may return RecordNotFound.
func GetStaffingTarget(ctx context.Context, venueId string) (*StaffingTarget, error) {
	db := config.GetDB()
	var target StaffingTarget
	if err := db.WithContext(ctx).Where("venue_id = ?", venueId).First(&target).Error; err != nil {
		return nil, ErrNotFound("staffing target")
	}
	return &target, nil
}

func CreateRoleWage(ctx context.Context, venueId string, input *NewRoleWage) (*RoleWage, error) {
	if !input.HourlyWage.IsPositive() {
		return nil, errors.New("hourly_wage must be positive")
	}

	db := config.GetDB()
	wage := RoleWage{
		VenueId:    venueId,
		RoleName:   input.RoleName,
		HourlyWage: input.HourlyWage,
	}
	if err := db.WithContext(ctx).Create(&wage).Error; err != nil {
		return nil, err
	}
	return &wage, nil
}

func ListRoleWages(ctx context.Context, venueId string) ([]*RoleWage, error) {
	return utils.FetchAllModels[RoleWage](ctx, venueId)
}

func CreateShift(ctx context.Context, venueId string, input *NewShift) (*Shift, error) {
	db := config.GetDB()
	shift := Shift{
		VenueId:        venueId,
		Role:           input.Role,
		StartTime:      input.StartTime,
		EndTime:        input.EndTime,
		ScheduledHours: input.ScheduledHours,
		ScheduledCost:  input.ScheduledCost,
		Status:         ShiftStatusScheduled,
	}
	if err := db.WithContext(ctx).Create(&shift).Error; err != nil {
		return nil, err
	}
	return &shift, nil
}

// ListShiftsForDate returns non-cancelled shifts starting within the
// business date (24h window from midnight).
func ListShiftsForDate(ctx context.Context, venueId string, businessDate time.Time) ([]*Shift, error) {
	db := config.GetDB()
	var shifts []*Shift
	err := db.WithContext(ctx).
		Where("venue_id = ?", venueId).
		Where("start_time >= ? AND start_time < ?", businessDate, businessDate.AddDate(0, 0, 1)).
		Where("status <> ?", ShiftStatusCancelled).
		Find(&shifts).Error
	if err != nil {
		return nil, err
	}
	return shifts, nil
}
