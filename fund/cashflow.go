/*
cashflow.go - Signed cash movements and the schedules that hold them

PURPOSE:
  A CashFlow is one signed monetary movement attached to a bill: positive
  amounts are contributions flowing into an envelope, negative amounts are
  payouts covering the bill when it comes due. A CashFlowSchedule is the
  ordered collection of flows belonging to one envelope.

INVARIANTS:
  1. IMMUTABLE: a CashFlow never changes after construction
  2. ORDERED: schedules keep flows sorted by date, with a stable
     secondary order by bill id and amount for same-date ties
  3. DERIVED BALANCES: balances are always computed by summing flows;
     there is no stored balance to drift out of sync

SEE ALSO:
  - envelope.go: combines a schedule with an initial allocation
*/
package fund

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CASH FLOW - A single signed movement
// =============================================================================

// CashFlow records one movement of money for a bill on a date. Positive
// amounts are contributions, negative amounts are payouts.
type CashFlow struct {
	BillID string
	Date   Date
	Amount decimal.Decimal
}

// NewCashFlow validates and constructs a CashFlow.
func NewCashFlow(billID string, date Date, amount decimal.Decimal) (CashFlow, error) {
	if strings.TrimSpace(billID) == "" {
		return CashFlow{}, fmt.Errorf("%w: cash flow needs a bill id", ErrInvalidArgument)
	}
	if date.IsZero() {
		return CashFlow{}, fmt.Errorf("%w: cash flow needs a date", ErrInvalidArgument)
	}
	return CashFlow{BillID: billID, Date: date, Amount: amount}, nil
}

// IsInflow reports whether the flow moves money into the envelope.
func (cf CashFlow) IsInflow() bool { return cf.Amount.IsPositive() }

// IsOutflow reports whether the flow moves money out of the envelope.
func (cf CashFlow) IsOutflow() bool { return cf.Amount.IsNegative() }

// =============================================================================
// EXCLUSION - Selecting a transaction class
// =============================================================================

// Exclude selects which class of flows to leave out of a query.
type Exclude int

const (
	ExcludeNone Exclude = iota
	ExcludeContributions
	ExcludePayouts
)

func (e Exclude) keeps(cf CashFlow) bool {
	switch e {
	case ExcludeContributions:
		return !cf.IsInflow()
	case ExcludePayouts:
		return !cf.IsOutflow()
	default:
		return true
	}
}

// =============================================================================
// CASH FLOW SCHEDULE - Ordered collection of flows
// =============================================================================

// CashFlowSchedule holds the flows of one envelope in chronological order.
type CashFlowSchedule struct {
	flows []CashFlow
}

// NewCashFlowSchedule creates an empty schedule.
func NewCashFlowSchedule() *CashFlowSchedule {
	return &CashFlowSchedule{}
}

// Add inserts flows and restores chronological order. Same-date flows
// order by bill id, then amount.
func (s *CashFlowSchedule) Add(flows ...CashFlow) {
	s.flows = append(s.flows, flows...)
	sort.SliceStable(s.flows, func(i, j int) bool {
		a, b := s.flows[i], s.flows[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.BillID != b.BillID {
			return a.BillID < b.BillID
		}
		return a.Amount.LessThan(b.Amount)
	})
}

// Len returns the number of flows in the schedule.
func (s *CashFlowSchedule) Len() int { return len(s.flows) }

// Flows returns a copy of all flows in order.
func (s *CashFlowSchedule) Flows() []CashFlow {
	out := make([]CashFlow, len(s.flows))
	copy(out, s.flows)
	return out
}

// FlowsInRange returns the flows dated within [start, end], optionally
// excluding one transaction class.
func (s *CashFlowSchedule) FlowsInRange(start, end Date, exclude Exclude) []CashFlow {
	var out []CashFlow
	for _, cf := range s.flows {
		if cf.Date.AfterOrEqual(start) && cf.Date.BeforeOrEqual(end) && exclude.keeps(cf) {
			out = append(out, cf)
		}
	}
	return out
}

// TotalAsOf sums all flows dated on or before asOf.
func (s *CashFlowSchedule) TotalAsOf(asOf Date, exclude Exclude) decimal.Decimal {
	total := decimal.Zero
	for _, cf := range s.flows {
		if cf.Date.BeforeOrEqual(asOf) && exclude.keeps(cf) {
			total = total.Add(cf.Amount)
		}
	}
	return total
}

// TotalInRange sums the flows dated within [start, end].
func (s *CashFlowSchedule) TotalInRange(start, end Date, exclude Exclude) decimal.Decimal {
	total := decimal.Zero
	for _, cf := range s.FlowsInRange(start, end, exclude) {
		total = total.Add(cf.Amount)
	}
	return total
}

// TotalOnDate sums the flows dated exactly on d.
func (s *CashFlowSchedule) TotalOnDate(d Date, exclude Exclude) decimal.Decimal {
	return s.TotalInRange(d, d, exclude)
}

// Clone returns a deep copy of the schedule. Used when handing schedules
// across ownership boundaries so scheduler output never aliases envelope
// state.
func (s *CashFlowSchedule) Clone() *CashFlowSchedule {
	if s == nil {
		return NewCashFlowSchedule()
	}
	out := &CashFlowSchedule{flows: make([]CashFlow, len(s.flows))}
	copy(out.flows, s.flows)
	return out
}
