package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/venues_backend/config"
	"github.com/google/uuid"
)

type Org struct {
	ID        uuid.UUID `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewOrg struct {
	Name string `json:"name" binding:"required"`
}

func CreateOrg(ctx context.Context, input *NewOrg) (*Org, error) {
	db := config.GetDB()

	org := Org{
		ID:   uuid.New(),
		Name: input.Name,
	}
	if err := db.WithContext(ctx).Create(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func GetOrg(ctx context.Context, id string) (*Org, error) {
	orgId, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New("invalid org id")
	}

	db := config.GetDB()
	var org Org
	if err := db.WithContext(ctx).First(&org, "id = ?", orgId).Error; err != nil {
		return nil, ErrNotFound("org")
	}
	return &org, nil
}
