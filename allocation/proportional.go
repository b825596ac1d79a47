package allocation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gfbarbieri/sinkingfund/fund"
)

// =============================================================================
// WEIGHT METHODS - How proportional shares are computed
// =============================================================================

// WeightMethod selects the weighting used by the proportional allocator.
type WeightMethod int

const (
	// WeightEqual gives every envelope the same share.
	WeightEqual WeightMethod = iota
	// WeightProportional weights by amount due.
	WeightProportional
	// WeightUrgency weights by amount due per remaining day.
	WeightUrgency
)

func (m WeightMethod) String() string {
	switch m {
	case WeightEqual:
		return "equal"
	case WeightProportional:
		return "proportional"
	case WeightUrgency:
		return "urgency"
	default:
		return "unknown"
	}
}

// ParseWeightMethod parses a weighting name.
func ParseWeightMethod(s string) (WeightMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "equal", "":
		return WeightEqual, nil
	case "proportional":
		return WeightProportional, nil
	case "urgency":
		return WeightUrgency, nil
	default:
		return 0, fmt.Errorf("%w: weight method %q", fund.ErrInvalidArgument, s)
	}
}

// =============================================================================
// PROPORTIONAL ALLOCATOR - Weighted balance split
// =============================================================================

// ProportionalAllocator splits the balance by normalized weights, capping
// each share at the envelope's amount due.
type ProportionalAllocator struct {
	method WeightMethod
}

// NewProportionalAllocator creates a proportional allocator with the
// given weighting.
func NewProportionalAllocator(method WeightMethod) *ProportionalAllocator {
	return &ProportionalAllocator{method: method}
}

func (a *ProportionalAllocator) Name() string { return "proportional" }

// Allocate splits balance by weight share. Each rounded share is capped
// at both the envelope's amount due and the balance still unallocated, so
// cent rounding cannot push the total past the balance. Capping at the
// amount due can leave part of the balance unallocated.
func (a *ProportionalAllocator) Allocate(envelopes []*fund.Envelope, balance decimal.Decimal, asOf fund.Date) (Allocation, error) {
	if balance.IsNegative() {
		return nil, fmt.Errorf("%w: balance cannot be negative, got %s", fund.ErrInvalidArgument, balance)
	}
	if len(envelopes) == 0 {
		return Allocation{}, nil
	}

	weights := make([]decimal.Decimal, len(envelopes))
	total := decimal.Zero
	for i, e := range envelopes {
		weights[i] = a.weight(e, asOf)
		total = total.Add(weights[i])
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: weights sum to zero", fund.ErrInvalidArgument)
	}

	result := make(Allocation, len(envelopes))
	left := balance
	for i, e := range envelopes {
		share := fund.RoundCents(balance.Mul(weights[i]).Div(total))
		share = decimal.Min(share, e.Instance().AmountDue, left)
		result[e.Key()] = share
		left = left.Sub(share)
	}
	return result, nil
}

func (a *ProportionalAllocator) weight(e *fund.Envelope, asOf fund.Date) decimal.Decimal {
	switch a.method {
	case WeightProportional:
		return e.Instance().AmountDue
	case WeightUrgency:
		return urgencyWeight(e, asOf)
	default:
		return decimal.NewFromInt(1)
	}
}
