/*
bill.go - Recurring obligations and their occurrences

PURPOSE:
  A Bill is the definition of a financial obligation: a one-time expense
  with a single due date, or a recurring one with a start date, cadence
  and either an end date or an occurrence count. A BillInstance is one
  concrete occurrence of a bill with a resolved due date. Recurring bills
  generate their instances on demand; nothing is stored.

INVARIANTS:
  - Bills are immutable after construction. Recurrence parameters never
    change once a bill exists.
  - One-time bills have start = end = due date and exactly one occurrence.
  - A "recurring" configuration with a single occurrence collapses to a
    one-time bill.
  - Exactly one of end date / occurrence count is supplied; the other is
    derived by stepping the schedule.

SEQUENTIAL STEPPING:
  Occurrence walks step one interval at a time rather than jumping with
  closed-form arithmetic. Month and year steps are not uniformly
  invertible (month lengths vary), so a direct jump can land on the wrong
  side of a clamped month-end. One step at a time is always exact.

SEE ALSO:
  - calendar.go: Increment, the stepping primitive
  - envelope.go: funding containers built around BillInstance
*/
package fund

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// BILL INSTANCE - One concrete occurrence
// =============================================================================

// BillInstance is an immutable snapshot of a single occurrence of a bill.
// Instances order primarily by due date.
type BillInstance struct {
	BillID    string
	Service   string
	AmountDue decimal.Decimal
	DueDate   Date
}

// Key returns a stable identifier for this occurrence, unique across the
// instances of a recurring bill.
func (bi BillInstance) Key() string {
	return bi.BillID + ":" + bi.DueDate.String()
}

// =============================================================================
// BILL - The obligation definition
// =============================================================================

// BillConfig carries the raw parameters for constructing a Bill.
//
// One-time bills set DueDate. Recurring bills set StartDate, Frequency,
// Interval and exactly one of EndDate / Occurrences.
type BillConfig struct {
	ID          string
	Service     string
	AmountDue   decimal.Decimal
	Recurring   bool
	DueDate     Date
	StartDate   Date
	EndDate     Date
	Frequency   Frequency
	Interval    int
	Occurrences int
}

// Bill is a financial obligation, one-time or recurring. Immutable.
type Bill struct {
	id          string
	service     string
	amountDue   decimal.Decimal
	recurring   bool
	start       Date
	end         Date
	frequency   Frequency
	interval    int
	occurrences int
}

// NewBill validates a configuration and constructs a Bill. All validation
// happens here; a constructed Bill is always well-formed.
func NewBill(cfg BillConfig) (*Bill, error) {
	id := strings.TrimSpace(cfg.ID)
	if id == "" {
		return nil, fmt.Errorf("%w: bill id cannot be empty", ErrInvalidArgument)
	}
	if !cfg.AmountDue.IsPositive() {
		return nil, fmt.Errorf("%w: bill %s: amount due must be positive, got %s", ErrInvalidArgument, id, cfg.AmountDue)
	}

	b := &Bill{
		id:        id,
		service:   cfg.Service,
		amountDue: cfg.AmountDue,
	}

	if !cfg.Recurring {
		if cfg.DueDate.IsZero() {
			return nil, fmt.Errorf("%w: bill %s: one-time bill needs a due date", ErrInvalidArgument, id)
		}
		b.start = cfg.DueDate
		b.end = cfg.DueDate
		b.occurrences = 1
		return b, nil
	}

	if cfg.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: bill %s: recurring bill needs a start date", ErrInvalidArgument, id)
	}
	freq, err := ParseFrequency(string(cfg.Frequency))
	if err != nil {
		return nil, fmt.Errorf("bill %s: %w", id, err)
	}
	if cfg.Interval < 1 {
		return nil, fmt.Errorf("%w: bill %s: interval must be positive, got %d", ErrInvalidArgument, id, cfg.Interval)
	}

	hasEnd := !cfg.EndDate.IsZero()
	hasCount := cfg.Occurrences != 0
	if hasEnd == hasCount {
		return nil, fmt.Errorf("%w: bill %s: set exactly one of end date and occurrence count", ErrInvalidArgument, id)
	}

	// A single occurrence is not a recurrence: collapse to one-time.
	if hasCount && cfg.Occurrences == 1 {
		b.start = cfg.StartDate
		b.end = cfg.StartDate
		b.occurrences = 1
		return b, nil
	}

	b.recurring = true
	b.start = cfg.StartDate
	b.frequency = freq
	b.interval = cfg.Interval

	switch {
	case hasCount:
		if cfg.Occurrences < 1 {
			return nil, fmt.Errorf("%w: bill %s: occurrences must be positive, got %d", ErrInvalidArgument, id, cfg.Occurrences)
		}
		b.occurrences = cfg.Occurrences
		// The start date is the first occurrence, so the final one is
		// occurrences-1 steps away.
		end, err := Increment(b.start, freq, cfg.Interval, cfg.Occurrences-1)
		if err != nil {
			return nil, fmt.Errorf("bill %s: %w", id, err)
		}
		b.end = end
	default:
		if cfg.EndDate.Before(cfg.StartDate) {
			return nil, fmt.Errorf("%w: bill %s: end date %s precedes start date %s", ErrInvalidArgument, id, cfg.EndDate, cfg.StartDate)
		}
		b.end = cfg.EndDate
		count, err := countOccurrences(b.start, b.end, freq, cfg.Interval)
		if err != nil {
			return nil, fmt.Errorf("bill %s: %w", id, err)
		}
		b.occurrences = count
	}

	return b, nil
}

// countOccurrences walks the schedule from start and counts due dates up
// to and including end.
func countOccurrences(start, end Date, f Frequency, interval int) (int, error) {
	count := 0
	current := start
	for current.BeforeOrEqual(end) {
		count++
		next, err := Increment(current, f, interval, 1)
		if err != nil {
			return 0, err
		}
		current = next
	}
	return count, nil
}

// Accessors
func (b *Bill) ID() string                 { return b.id }
func (b *Bill) Service() string            { return b.service }
func (b *Bill) AmountDue() decimal.Decimal { return b.amountDue }
func (b *Bill) Recurring() bool            { return b.recurring }
func (b *Bill) StartDate() Date            { return b.start }
func (b *Bill) EndDate() Date              { return b.end }
func (b *Bill) Frequency() Frequency       { return b.frequency }
func (b *Bill) Interval() int              { return b.interval }
func (b *Bill) Occurrences() int           { return b.occurrences }

func (b *Bill) instanceAt(due Date) BillInstance {
	return BillInstance{
		BillID:    b.id,
		Service:   b.service,
		AmountDue: b.amountDue,
		DueDate:   due,
	}
}

// =============================================================================
// OCCURRENCE QUERIES
// =============================================================================

// NextInstance returns the first occurrence whose due date is on or after
// (inclusive) or strictly after (exclusive) the reference date. The start
// date itself is always eligible when the reference date is on or before
// it. Returns false when no such occurrence exists within the bill's
// lifetime.
func (b *Bill) NextInstance(ref Date, inclusive bool) (BillInstance, bool) {
	// Past the end of the bill's life: nothing left to fund.
	if ref.After(b.end) {
		return BillInstance{}, false
	}

	// On or before the first due date: the first occurrence is next.
	if ref.BeforeOrEqual(b.start) {
		return b.instanceAt(b.start), true
	}

	// Inside the active period. Only recurring bills can get here: for a
	// one-time bill ref > start implies ref > end, handled above.
	current := b.start
	for {
		passed := current.AfterOrEqual(ref)
		if !inclusive {
			passed = current.After(ref)
		}
		if passed {
			break
		}
		next, err := Increment(current, b.frequency, b.interval, 1)
		if err != nil {
			// Frequency and interval were validated at construction.
			return BillInstance{}, false
		}
		current = next
	}

	if current.After(b.end) {
		return BillInstance{}, false
	}
	return b.instanceAt(current), true
}

// InstancesInRange returns every occurrence whose due date falls within
// [start, end], in non-decreasing due-date order with no duplicates. A
// one-time bill yields at most one instance.
func (b *Bill) InstancesInRange(start, end Date) []BillInstance {
	if !b.recurring {
		if b.start.AfterOrEqual(start) && b.start.BeforeOrEqual(end) {
			return []BillInstance{b.instanceAt(b.start)}
		}
		return nil
	}

	if end.Before(b.start) || start.After(b.end) {
		return nil
	}

	// Walk the full sequence from the bill's own start so that the window
	// start does not have to line up with a due date.
	limit := MinDate(end, b.end)
	var instances []BillInstance
	current := b.start
	for current.BeforeOrEqual(limit) {
		if current.AfterOrEqual(start) {
			instances = append(instances, b.instanceAt(current))
		}
		next, err := Increment(current, b.frequency, b.interval, 1)
		if err != nil {
			break
		}
		current = next
	}
	return instances
}
