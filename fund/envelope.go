/*
envelope.go - Funding targets

PURPOSE:
  An Envelope is a dedicated savings container for one bill occurrence.
  It combines a lump-sum initial allocation with a schedule of dated
  contributions, and answers balance questions at any date. One envelope
  exists per occurrence that needs funding; envelopes are recreated each
  planning cycle, never carried across cycles.

FUNDING INVARIANT:
  After scheduling, the sum of an envelope's contribution flows plus its
  initial allocation equals the occurrence amount, and a payout of exactly
  -amount sits on the due date.

OWNERSHIP:
  The envelope exclusively owns its schedule. ReplaceSchedule deep-copies
  the incoming schedule and Schedule returns a copy, so no scheduler run
  can alias another's output.
*/
package fund

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Envelope accumulates money toward a single bill occurrence.
type Envelope struct {
	instance          BillInstance
	initialAllocation decimal.Decimal
	windowStart       Date
	windowEnd         Date
	interval          int
	schedule          *CashFlowSchedule
}

// NewEnvelope creates an envelope for one bill occurrence with a
// contribution window and a contribution cadence in days.
func NewEnvelope(instance BillInstance, windowStart, windowEnd Date, interval int) (*Envelope, error) {
	if instance.BillID == "" {
		return nil, fmt.Errorf("%w: envelope needs a bill instance", ErrInvalidArgument)
	}
	if windowStart.IsZero() || windowEnd.IsZero() {
		return nil, fmt.Errorf("%w: envelope %s: contribution window is required", ErrInvalidArgument, instance.Key())
	}
	if windowEnd.Before(windowStart) {
		return nil, fmt.Errorf("%w: envelope %s: window end %s precedes start %s", ErrInvalidArgument, instance.Key(), windowEnd, windowStart)
	}
	if interval < 1 {
		return nil, fmt.Errorf("%w: envelope %s: got %d days", ErrInvalidInterval, instance.Key(), interval)
	}
	return &Envelope{
		instance:    instance,
		windowStart: windowStart,
		windowEnd:   windowEnd,
		interval:    interval,
		schedule:    NewCashFlowSchedule(),
	}, nil
}

// Accessors
func (e *Envelope) Instance() BillInstance               { return e.instance }
func (e *Envelope) Key() string                          { return e.instance.Key() }
func (e *Envelope) InitialAllocation() decimal.Decimal   { return e.initialAllocation }
func (e *Envelope) WindowStart() Date                    { return e.windowStart }
func (e *Envelope) WindowEnd() Date                      { return e.windowEnd }
func (e *Envelope) Interval() int                        { return e.interval }

// Schedule returns a copy of the envelope's cash flow schedule.
func (e *Envelope) Schedule() *CashFlowSchedule {
	return e.schedule.Clone()
}

// SetInitialAllocation records the lump-sum balance assigned to this
// envelope up front. Allocations cannot be negative.
func (e *Envelope) SetInitialAllocation(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: envelope %s: allocation cannot be negative, got %s", ErrInvalidArgument, e.Key(), amount)
	}
	e.initialAllocation = amount
	return nil
}

// ReplaceSchedule installs a freshly computed schedule. The incoming
// schedule is deep-copied so later scheduler runs cannot alias it.
func (e *Envelope) ReplaceSchedule(s *CashFlowSchedule) {
	e.schedule = s.Clone()
}

// Balance returns the initial allocation plus all scheduled flows dated
// on or before asOf, optionally excluding one transaction class.
func (e *Envelope) Balance(asOf Date, exclude Exclude) decimal.Decimal {
	return e.initialAllocation.Add(e.schedule.TotalAsOf(asOf, exclude))
}

// Remaining returns how much more the envelope needs as of a date. Never
// negative.
func (e *Envelope) Remaining(asOf Date) decimal.Decimal {
	remaining := e.instance.AmountDue.Sub(e.Balance(asOf, ExcludeNone))
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsFullyFunded reports whether the balance as of a date covers the
// occurrence amount.
func (e *Envelope) IsFullyFunded(asOf Date) bool {
	return e.Balance(asOf, ExcludeNone).GreaterThanOrEqual(e.instance.AmountDue)
}

// TotalOnDate returns the net scheduled flow on a specific date.
func (e *Envelope) TotalOnDate(d Date, exclude Exclude) decimal.Decimal {
	return e.schedule.TotalOnDate(d, exclude)
}
