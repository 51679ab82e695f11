package workflow

import (
	"bitbucket.org/mmdatafocus/venues_backend/models"
	"github.com/shopspring/decimal"
)

type CashAllocation struct {
	EnvelopeId     int             `json:"envelope_id"`
	EnvelopeName   string          `json:"envelope_name"`
	TargetPct      decimal.Decimal `json:"target_pct"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Allocation     decimal.Decimal `json:"allocation"`
	NewBalance     decimal.Decimal `json:"new_balance"`
}

// CalculateCashAllocations splits net sales into each envelope by its target
// percentage. Envelopes are independent buckets: the percentages are not
// required to sum to 100, so the allocations are not a partition of sales.
// Pure function; re-running on the same snapshot yields the same numbers.
func CalculateCashAllocations(netSales decimal.Decimal, envelopes []*models.CashEnvelope) []CashAllocation {
	hundred := decimal.NewFromInt(100)

	allocations := make([]CashAllocation, 0, len(envelopes))
	for _, envelope := range envelopes {
		allocation := netSales.Mul(envelope.TargetPct).Div(hundred)
		allocations = append(allocations, CashAllocation{
			EnvelopeId:     envelope.ID,
			EnvelopeName:   envelope.Name,
			TargetPct:      envelope.TargetPct,
			CurrentBalance: envelope.CurrentBalance,
			Allocation:     allocation,
			NewBalance:     envelope.CurrentBalance.Add(allocation),
		})
	}
	return allocations
}
