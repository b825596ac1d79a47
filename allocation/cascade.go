package allocation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gfbarbieri/sinkingfund/fund"
)

// =============================================================================
// SORT KEYS - How cascade ordering is decided
// =============================================================================

// SortKey selects the ordering used by the cascade allocator.
type SortKey int

const (
	// SortByDueDate funds the soonest obligations first.
	SortByDueDate SortKey = iota
	// SortByAmount funds the smallest obligations first.
	SortByAmount
	// SortByUrgency funds the highest amount-per-remaining-day first.
	SortByUrgency
)

func (k SortKey) String() string {
	switch k {
	case SortByDueDate:
		return "due_date"
	case SortByAmount:
		return "amount"
	case SortByUrgency:
		return "urgency"
	default:
		return "unknown"
	}
}

// ParseSortKey parses a sort key name.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "due_date", "":
		return SortByDueDate, nil
	case "amount":
		return SortByAmount, nil
	case "urgency":
		return SortByUrgency, nil
	default:
		return 0, fmt.Errorf("%w: sort key %q", fund.ErrInvalidArgument, s)
	}
}

// =============================================================================
// CASCADE ALLOCATOR - Fill envelopes in priority order
// =============================================================================

// CascadeAllocator orders envelopes by a sort key and fills each one up
// to its amount due until the balance runs out.
type CascadeAllocator struct {
	key        SortKey
	descending bool
}

// NewCascadeAllocator creates a cascade allocator with the given ordering.
func NewCascadeAllocator(key SortKey, descending bool) *CascadeAllocator {
	return &CascadeAllocator{key: key, descending: descending}
}

func (a *CascadeAllocator) Name() string { return "cascade" }

// Allocate fills envelopes in sorted order. Envelopes beyond the balance
// receive nothing and are absent from the result.
func (a *CascadeAllocator) Allocate(envelopes []*fund.Envelope, balance decimal.Decimal, asOf fund.Date) (Allocation, error) {
	if balance.IsNegative() {
		return nil, fmt.Errorf("%w: balance cannot be negative, got %s", fund.ErrInvalidArgument, balance)
	}

	ordered := make([]*fund.Envelope, len(envelopes))
	copy(ordered, envelopes)
	sort.SliceStable(ordered, func(i, j int) bool {
		less := a.less(ordered[i], ordered[j], asOf)
		if a.descending {
			return a.less(ordered[j], ordered[i], asOf)
		}
		return less
	})

	result := make(Allocation, len(ordered))
	left := balance
	for _, e := range ordered {
		if !left.IsPositive() {
			break
		}
		share := decimal.Min(left, e.Instance().AmountDue)
		result[e.Key()] = share
		left = left.Sub(share)
	}
	return result, nil
}

func (a *CascadeAllocator) less(x, y *fund.Envelope, asOf fund.Date) bool {
	switch a.key {
	case SortByAmount:
		return x.Instance().AmountDue.LessThan(y.Instance().AmountDue)
	case SortByUrgency:
		// Highest amount per remaining day first. Overdue envelopes have
		// zero weight and fall to the back of the cascade.
		return urgencyWeight(x, asOf).GreaterThan(urgencyWeight(y, asOf))
	default:
		return x.Instance().DueDate.Before(y.Instance().DueDate)
	}
}
