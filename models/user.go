package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/venues_backend/config"
	"bitbucket.org/mmdatafocus/venues_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	OrgId     string    `gorm:"size:64;index;not null" json:"org_id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email" binding:"required"`
	Name      string    `gorm:"size:100" json:"name"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Login verifies credentials and mints a redis-backed session token.
func Login(ctx context.Context, input *LoginInput) (*LoginResult, error) {
	db := config.GetDB()

	var user User
	err := db.WithContext(ctx).Where("email = ?", input.Email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid email or password")
		}
		return nil, err
	}
	if user.IsActive != nil && !*user.IsActive {
		return nil, errors.New("account disabled")
	}
	if err := utils.ComparePassword(user.Password, input.Password); err != nil {
		return nil, errors.New("invalid email or password")
	}

	token, err := utils.JwtGenerate(user.ID, user.OrgId)
	if err != nil {
		return nil, err
	}
	// Session lives in redis so logout can revoke a JWT before expiry.
	sessionKey := "Token:" + token
	if err := config.SetRedisObject(sessionKey, &user, 24*time.Hour); err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: &user}, nil
}

func Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return config.RemoveRedisKey("Token:" + token)
}

// SessionUser resolves a token back to its user, or nil when the session is
// gone.
func SessionUser(token string) (*User, error) {
	var user User
	exists, err := config.GetRedisObject("Token:"+token, &user)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return &user, nil
}

type NewUser struct {
	OrgId    string `json:"org_id" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required"`
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	if _, err := uuid.Parse(input.OrgId); err != nil {
		return nil, errors.New("invalid org id")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	user := User{
		OrgId:    input.OrgId,
		Email:    input.Email,
		Name:     input.Name,
		Password: string(hashed),
		IsActive: utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		if utils.IsDuplicateKeyErr(err) {
			return nil, errors.New("email already registered")
		}
		return nil, err
	}
	return &user, nil
}
