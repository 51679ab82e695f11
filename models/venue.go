package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/venues_backend/config"
	"github.com/google/uuid"
)

type Venue struct {
	ID        uuid.UUID `gorm:"primary_key" json:"id"`
	OrgId     uuid.UUID `gorm:"index;not null" json:"org_id"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Type      VenueType `gorm:"type:enum('restaurant', 'bar', 'lounge');not null" json:"type"`
	Timezone  string    `gorm:"size:50" json:"timezone"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewVenue struct {
	Name     string    `json:"name" binding:"required"`
	Type     VenueType `json:"type" binding:"required"`
	Timezone string    `json:"timezone"`
}

// Only name and timezone are editable after creation.
type UpdateVenueInput struct {
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

func CreateVenue(ctx context.Context, orgId string, input *NewVenue) (*Venue, error) {
	oid, err := uuid.Parse(orgId)
	if err != nil {
		return nil, errors.New("invalid org id")
	}

	db := config.GetDB()
	venue := Venue{
		ID:       uuid.New(),
		OrgId:    oid,
		Name:     input.Name,
		Type:     input.Type,
		Timezone: input.Timezone,
	}
	if err := db.WithContext(ctx).Create(&venue).Error; err != nil {
		return nil, err
	}
	return &venue, nil
}

func GetVenue(ctx context.Context, id string) (*Venue, error) {
	venueId, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New("invalid venue id")
	}

	db := config.GetDB()
	var venue Venue
	if err := db.WithContext(ctx).First(&venue, "id = ?", venueId).Error; err != nil {
		return nil, ErrNotFound("venue")
	}
	return &venue, nil
}

func ListVenues(ctx context.Context, orgId string) ([]*Venue, error) {
	db := config.GetDB()
	var venues []*Venue
	dbCtx := db.WithContext(ctx)
	if orgId != "" {
		dbCtx = dbCtx.Where("org_id = ?", orgId)
	}
	if err := dbCtx.Order("name").Find(&venues).Error; err != nil {
		return nil, err
	}
	return venues, nil
}

func UpdateVenue(ctx context.Context, id string, input *UpdateVenueInput) (*Venue, error) {
	venue, err := GetVenue(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.Timezone != "" {
		updates["timezone"] = input.Timezone
	}
	if len(updates) == 0 {
		return venue, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(venue).Updates(updates).Error; err != nil {
		return nil, err
	}
	return venue, nil
}
