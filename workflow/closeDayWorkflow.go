package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/pubsub"

	"bitbucket.org/mmdatafocus/venues_backend/config"
	"bitbucket.org/mmdatafocus/venues_backend/models"
	"bitbucket.org/mmdatafocus/venues_backend/utils"
	"github.com/bsm/redislock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrDayAlreadyClosed = fmt.Errorf("day already closed")

type CloseDayInput struct {
	VenueId      string `json:"venue_id" binding:"required"`
	BusinessDate string `json:"business_date" binding:"required"`
}

type CloseDayResult struct {
	SalesProcessed      decimal.Decimal  `json:"sales_processed"`
	TransactionsCreated int              `json:"transactions_created"`
	InsightsGenerated   int              `json:"insights_generated"`
	LaborVariance       string           `json:"labor_variance"`
	Allocations         []CashAllocation `json:"allocations"`
}

// ProcessCloseDay settles one venue's business day: the day's net sales get
// allocated into the cash envelopes (append-only ledger rows plus balance
// updates), labor is measured against the staffing target, and advisory
// insights are generated. The writes run in one transaction serialized by a
// per-venue MySQL advisory lock; a redis lock in front keeps concurrent
// requests from queueing on the DB lock when redis is up. Closing the same
// venue/date twice fails with ErrDayAlreadyClosed instead of double-funding
// the envelopes.
func ProcessCloseDay(ctx context.Context, logger *logrus.Logger, input CloseDayInput) (*CloseDayResult, error) {
	businessDate, err := utils.ParseBusinessDate(input.BusinessDate)
	if err != nil {
		return nil, fmt.Errorf("invalid business_date: %w", err)
	}

	if _, err := models.GetVenue(ctx, input.VenueId); err != nil {
		return nil, err
	}

	sales, err := models.GetDailySales(ctx, input.VenueId, businessDate)
	if err != nil {
		return nil, err
	}

	envelopes, err := models.ListCashEnvelopes(ctx, input.VenueId)
	if err != nil {
		config.LogError(logger, "closeDayWorkflow.go", "ProcessCloseDay", "ListCashEnvelopes", input.VenueId, err)
		return nil, err
	}
	if len(envelopes) == 0 {
		return nil, models.ErrNotFound("cash envelopes")
	}

	// Best-effort: a redis lock keeps concurrent closes for the same venue from
	// stacking up on the advisory lock. If redis is down we continue; the
	// advisory lock inside the transaction still serializes correctly.
	if redisLock := config.GetRedisLock(); redisLock != nil {
		lock, lockErr := redisLock.Obtain(ctx, fmt.Sprintf("lock:close_day:%s", input.VenueId), 30*time.Second, nil)
		if lockErr == nil {
			defer func() {
				if releaseErr := lock.Release(ctx); releaseErr != nil {
					logger.WithFields(logrus.Fields{
						"module":   "closeDayWorkflow.go",
						"venue_id": input.VenueId,
					}).Warn("failed to release redis lock: " + releaseErr.Error())
				}
			}()
		} else if lockErr != redislock.ErrNotObtained {
			logger.WithFields(logrus.Fields{
				"module":   "closeDayWorkflow.go",
				"venue_id": input.VenueId,
			}).Warn("error obtaining redis lock; proceeding without redis lock: " + lockErr.Error())
		}
	}

	allocations := CalculateCashAllocations(sales.NetSales, envelopes)
	guardrail := closeDayGuardrail(ctx, input.VenueId, sales)
	insights := buildCloseDayInsights(input.VenueId, businessDate, sales, envelopes, guardrail)

	result := &CloseDayResult{
		SalesProcessed:    sales.NetSales,
		LaborVariance:     guardrail.VariancePct.StringFixed(1) + "%",
		InsightsGenerated: len(insights),
		Allocations:       allocations,
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := AcquireVenueCloseLock(tx, input.VenueId); err != nil {
			config.LogError(logger, "closeDayWorkflow.go", "ProcessCloseDay", "AcquireVenueCloseLock", input.VenueId, err)
			return err
		}
		defer ReleaseVenueCloseLock(tx, input.VenueId)

		closed, err := dayAlreadyClosed(tx, envelopes, businessDate)
		if err != nil {
			config.LogError(logger, "closeDayWorkflow.go", "ProcessCloseDay", "CheckAlreadyClosed", input, err)
			return err
		}
		if closed {
			return ErrDayAlreadyClosed
		}

		for _, allocation := range allocations {
			row := models.CashEnvelopeTransaction{
				EnvelopeId:      allocation.EnvelopeId,
				Amount:          utils.RoundMoney(allocation.Allocation),
				BalanceBefore:   utils.RoundMoney(allocation.CurrentBalance),
				BalanceAfter:    utils.RoundMoney(allocation.NewBalance),
				TransactionDate: businessDate,
				Description:     fmt.Sprintf("Daily allocation from %s sales", input.BusinessDate),
			}
			if err := tx.Create(&row).Error; err != nil {
				config.LogError(logger, "closeDayWorkflow.go", "ProcessCloseDay", "CreateEnvelopeTransaction", row, err)
				return err
			}
			err = tx.Model(&models.CashEnvelope{}).
				Where("id = ?", allocation.EnvelopeId).
				Update("current_balance", utils.RoundMoney(allocation.NewBalance)).Error
			if err != nil {
				config.LogError(logger, "closeDayWorkflow.go", "ProcessCloseDay", "UpdateEnvelopeBalance", allocation, err)
				return err
			}
			result.TransactionsCreated++
		}

		if err := tx.Create(&insights).Error; err != nil {
			config.LogError(logger, "closeDayWorkflow.go", "ProcessCloseDay", "CreateInsights", nil, err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	models.InvalidateAverageDailySales(input.VenueId)
	publishDayClosed(ctx, logger, input, result)

	return result, nil
}

// dayAlreadyClosed detects a prior allocation run by looking for any ledger
// row against the venue's envelopes on the business date.
func dayAlreadyClosed(tx *gorm.DB, envelopes []*models.CashEnvelope, businessDate time.Time) (bool, error) {
	envelopeIds := make([]int, 0, len(envelopes))
	for _, envelope := range envelopes {
		envelopeIds = append(envelopeIds, envelope.ID)
	}

	var count int64
	err := tx.Model(&models.CashEnvelopeTransaction{}).
		Where("envelope_id IN ? AND transaction_date = ?", envelopeIds, businessDate).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func closeDayGuardrail(ctx context.Context, venueId string, sales *models.DailySales) LaborGuardrail {
	targetPct := config.DefaultTargetLaborPct()
	if target, err := models.GetStaffingTarget(ctx, venueId); err == nil {
		targetPct = target.TargetLaborPct
	}
	return CalculateLaborGuardrail(sales.NetSales, targetPct, sales.LaborCost)
}

func buildCloseDayInsights(venueId string, businessDate time.Time, sales *models.DailySales, envelopes []*models.CashEnvelope, guardrail LaborGuardrail) []models.AIInsight {
	growthPct := decimal.NewFromInt(8)
	for _, envelope := range envelopes {
		if strings.EqualFold(envelope.Name, "growth") {
			growthPct = envelope.TargetPct
			break
		}
	}
	growthDaily := sales.NetSales.Mul(growthPct).Div(decimal.NewFromInt(100))

	cashAction, _ := json.Marshal(map[string]any{
		"type":     "cash_move",
		"envelope": "growth",
		"amount":   growthDaily,
	})
	cashInsight := models.AIInsight{
		VenueId:      venueId,
		BusinessDate: businessDate,
		Category:     models.InsightCategoryCash,
		Severity:     models.InsightSeverityMedium,
		Message: fmt.Sprintf("Net sales: $%s. Growth envelope received $%s (%s%% target).",
			sales.NetSales.StringFixed(0), growthDaily.Round(0).StringFixed(0), growthPct.StringFixed(0)),
		ActionData: cashAction,
		IsApplied:  utils.NewFalse(),
	}

	laborInsight := models.AIInsight{
		VenueId:      venueId,
		BusinessDate: businessDate,
		Category:     models.InsightCategoryLabor,
		Severity:     laborSeverity(guardrail.VariancePct),
		Message: fmt.Sprintf("Labor on target. Used %s hours at $%s.",
			sales.LaborHours.StringFixed(1), sales.LaborCost.StringFixed(0)),
		IsApplied: utils.NewFalse(),
	}
	if guardrail.VariancePct.GreaterThan(decimal.NewFromInt(5)) {
		laborInsight.Message = fmt.Sprintf("Labor over target by %s%%. Target: $%s, Actual: $%s.",
			guardrail.VariancePct.StringFixed(1), guardrail.AllowedLaborSpend.StringFixed(0), sales.LaborCost.StringFixed(0))
		laborAction, _ := json.Marshal(map[string]any{
			"type":             "labor_reduce",
			"target_reduction": guardrail.VarianceDollars.Abs(),
		})
		laborInsight.ActionData = laborAction
	}

	annualProjection := growthDaily.Mul(decimal.NewFromInt(365))
	growthAction, _ := json.Marshal(map[string]any{
		"type":              "growth_track",
		"daily_target":      growthDaily,
		"annual_projection": annualProjection,
	})
	growthInsight := models.AIInsight{
		VenueId:      venueId,
		BusinessDate: businessDate,
		Category:     models.InsightCategoryGrowth,
		Severity:     models.InsightSeverityLow,
		Message: fmt.Sprintf("Daily growth target: $%s. Annual projection: $%s.",
			growthDaily.StringFixed(0), annualProjection.StringFixed(0)),
		ActionData: growthAction,
		IsApplied:  utils.NewFalse(),
	}

	return []models.AIInsight{cashInsight, laborInsight, growthInsight}
}

func laborSeverity(variancePct decimal.Decimal) models.InsightSeverity {
	switch {
	case variancePct.GreaterThan(decimal.NewFromInt(10)):
		return models.InsightSeverityHigh
	case variancePct.GreaterThan(decimal.NewFromInt(5)):
		return models.InsightSeverityMedium
	default:
		return models.InsightSeverityLow
	}
}

// publishDayClosed emits the day-closed event after commit. Failures are
// logged and swallowed; the close itself already succeeded.
func publishDayClosed(ctx context.Context, logger *logrus.Logger, input CloseDayInput, result *CloseDayResult) {
	client, err := config.GetPubSubClient(ctx)
	if err != nil {
		config.LogError(logger, "closeDayWorkflow.go", "publishDayClosed", "GetPubSubClient", input.VenueId, err)
		return
	}

	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
	msg := config.DayClosedMessage{
		VenueId:             input.VenueId,
		BusinessDate:        input.BusinessDate,
		NetSales:            result.SalesProcessed.String(),
		TransactionsCreated: result.TransactionsCreated,
		InsightsGenerated:   result.InsightsGenerated,
		ClosedAt:            time.Now().UTC(),
		CorrelationId:       correlationId,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		config.LogError(logger, "closeDayWorkflow.go", "publishDayClosed", "Marshal", msg, err)
		return
	}

	topic := client.Topic(config.DayClosedTopicName())
	defer topic.Stop()
	if _, err := topic.Publish(ctx, &pubsub.Message{Data: payload}).Get(ctx); err != nil {
		config.LogError(logger, "closeDayWorkflow.go", "publishDayClosed", "Publish", msg, err)
	}
}
