package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/venues_backend/config"
	"bitbucket.org/mmdatafocus/venues_backend/utils"
	"github.com/shopspring/decimal"
)

// CashEnvelope is a named savings bucket holding a target percentage of net
// sales and a running balance. The balance is only ever moved through
// AppendEnvelopeTransaction so the ledger stays auditable: the envelope's
// current balance always equals the balance_after of its newest transaction.
type CashEnvelope struct {
	ID             int             `gorm:"primary_key" json:"id"`
	VenueId        string          `gorm:"size:64;not null;uniqueIndex:idx_env_venue_name,priority:1" json:"venue_id"`
	Name           string          `gorm:"size:100;not null;uniqueIndex:idx_env_venue_name,priority:2" json:"name" binding:"required"`
	TargetPct      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"target_pct"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"current_balance"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// CashEnvelopeTransaction is an immutable ledger entry. Append-only.
// Invariant: balance_after = balance_before + amount.
type CashEnvelopeTransaction struct {
	ID              int             `gorm:"primary_key" json:"id"`
	EnvelopeId      int             `gorm:"index;not null" json:"envelope_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	BalanceBefore   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"balance_before"`
	BalanceAfter    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"balance_after"`
	TransactionDate time.Time       `gorm:"index;not null" json:"transaction_date"`
	Description     string          `gorm:"size:255" json:"description"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (CashEnvelopeTransaction) TableName() string {
	return "cash_envelope_tx"
}

type NewCashEnvelope struct {
	Name      string          `json:"name" binding:"required"`
	TargetPct decimal.Decimal `json:"target_pct" binding:"required"`
}

type UpdateCashEnvelopeInput struct {
	TargetPct decimal.Decimal `json:"target_pct" binding:"required"`
}

func CreateCashEnvelope(ctx context.Context, venueId string, input *NewCashEnvelope) (*CashEnvelope, error) {
	if input.TargetPct.IsNegative() || input.TargetPct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, errors.New("target_pct must be between 0 and 100")
	}

	db := config.GetDB()
	envelope := CashEnvelope{
		VenueId:        venueId,
		Name:           input.Name,
		TargetPct:      input.TargetPct,
		CurrentBalance: decimal.Zero,
	}
	if err := db.WithContext(ctx).Create(&envelope).Error; err != nil {
		return nil, err
	}
	return &envelope, nil
}

func ListCashEnvelopes(ctx context.Context, venueId string) ([]*CashEnvelope, error) {
	return utils.FetchAllModels[CashEnvelope](ctx, venueId)
}

// UpdateCashEnvelopeTarget adjusts only the target percentage. The balance is
// off limits here; it moves exclusively through the transaction-append path.
func UpdateCashEnvelopeTarget(ctx context.Context, venueId string, id int, input *UpdateCashEnvelopeInput) (*CashEnvelope, error) {
	if input.TargetPct.IsNegative() || input.TargetPct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, errors.New("target_pct must be between 0 and 100")
	}

	envelope, err := utils.FetchModel[CashEnvelope](ctx, venueId, id)
	if err != nil {
		return nil, ErrNotFound("cash envelope")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(envelope).Update("target_pct", input.TargetPct).Error; err != nil {
		return nil, err
	}
	return envelope, nil
}

// ListEnvelopeTransactions returns the ledger for one envelope, newest first.
func ListEnvelopeTransactions(ctx context.Context, venueId string, envelopeId int) ([]*CashEnvelopeTransaction, error) {
	if err := utils.ValidateResourceId[CashEnvelope](ctx, venueId, envelopeId); err != nil {
		return nil, ErrNotFound("cash envelope")
	}

	db := config.GetDB()
	var rows []*CashEnvelopeTransaction
	err := db.WithContext(ctx).
		Where("envelope_id = ?", envelopeId).
		Order("transaction_date DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
