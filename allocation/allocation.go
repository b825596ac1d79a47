/*
Package allocation distributes a lump-sum starting balance across
envelopes before contribution scheduling runs.

PURPOSE:
  When a planning cycle starts with money already in the account, the
  allocators decide how much of it each envelope receives as its initial
  allocation. Schedulers then only plan contributions for what remains.

STRATEGIES:
  - CascadeAllocator: sort envelopes by a typed key (due date, amount or
    urgency) and fill each one up to its amount due until the balance is
    exhausted.
  - ProportionalAllocator: split the balance by a typed weighting (equal,
    proportional to amount, or urgency), capping every share at the
    envelope's amount due.

OUTPUT CONTRACT:
  Allocators never mutate envelopes. They return an explicit mapping from
  envelope key to allocated amount; the caller installs the result (see
  planner.Planner.Allocate). Sort keys and weightings are enumerations
  resolved at construction time, not string lookups at call time.
*/
package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/gfbarbieri/sinkingfund/fund"
)

// Allocation maps envelope keys to allocated starting-balance amounts.
type Allocation map[string]decimal.Decimal

// Allocator distributes a starting balance across envelopes.
type Allocator interface {
	// Allocate splits balance across the envelopes as of a date. The sum
	// of the returned amounts never exceeds the balance, and no envelope
	// receives more than its amount due.
	Allocate(envelopes []*fund.Envelope, balance decimal.Decimal, asOf fund.Date) (Allocation, error)

	// Name identifies the strategy in registries and API requests.
	Name() string
}

// urgencyWeight is the amount due per day remaining. A bill already past
// due is treated as paid and carries zero weight; a bill due today counts
// as one day out.
func urgencyWeight(e *fund.Envelope, asOf fund.Date) decimal.Decimal {
	days := fund.DaysBetween(asOf, e.Instance().DueDate)
	if days < 0 {
		return decimal.Zero
	}
	if days == 0 {
		return e.Instance().AmountDue
	}
	return e.Instance().AmountDue.Div(decimal.NewFromInt(int64(days)))
}
