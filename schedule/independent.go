/*
independent.go - Per-envelope even contribution planning

PURPOSE:
  Plans each envelope on its own: spread the remaining amount evenly
  across the days until the due date, then group days into the envelope's
  contribution cadence. Simple, predictable, and each bill's stream is
  smooth in isolation; the total across bills may still vary period to
  period (the smoothing scheduler addresses that).

MECHANICS:
  daily rate        = remaining / days until due
  chunk amount      = daily rate x chunk length, rounded to cents
  residual          = remaining - sum of rounded chunks

  The residual from rounding is added to the LAST non-zero contribution
  so the stream reconciles to the cent. A payout of -amount lands on the
  due date.

EDGE CASES:
  - Due on the scheduling start date: one immediate contribution of the
    full remaining amount.
  - Occurrence already past: skipped, not an error.
  - Fully allocated up front: no contributions, payout only.
*/
package schedule

import (
	"github.com/shopspring/decimal"

	"github.com/gfbarbieri/sinkingfund/fund"
)

// IndependentScheduler plans every envelope separately with an even
// per-bill contribution stream.
type IndependentScheduler struct{}

// NewIndependentScheduler creates the per-envelope scheduler.
func NewIndependentScheduler() *IndependentScheduler {
	return &IndependentScheduler{}
}

func (s *IndependentScheduler) Name() string { return "independent" }

// Schedule computes a fresh plan for each envelope. Prior schedules are
// ignored: remaining is always amount due minus the initial allocation.
func (s *IndependentScheduler) Schedule(envelopes []*fund.Envelope, start fund.Date) (Plan, error) {
	plan := make(Plan, len(envelopes))

	for _, e := range envelopes {
		if err := checkInterval(e); err != nil {
			return nil, err
		}

		inst := e.Instance()
		if inst.DueDate.Before(start) {
			// Nothing left to schedule for a past occurrence.
			continue
		}

		remaining := inst.AmountDue.Sub(e.InitialAllocation())
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		sched := fund.NewCashFlowSchedule()
		contributions := s.contributions(remaining, start, inst.DueDate, e.Interval())
		for _, cf := range contributions {
			cf.BillID = inst.BillID
			sched.Add(cf)
		}

		sched.Add(fund.CashFlow{
			BillID: inst.BillID,
			Date:   inst.DueDate,
			Amount: inst.AmountDue.Neg(),
		})

		plan[e.Key()] = sched
	}

	return plan, nil
}

// contributions builds the positive flows funding `remaining` between the
// start date and the due date. The BillID field is left for the caller.
func (s *IndependentScheduler) contributions(remaining decimal.Decimal, start, due fund.Date, interval int) []fund.CashFlow {
	if remaining.IsZero() {
		return nil
	}

	daysUntilDue := fund.DaysBetween(start, due)
	if daysUntilDue <= 0 {
		// Due today: fund immediately.
		return []fund.CashFlow{{Date: start, Amount: remaining}}
	}

	chunks := partitionDays(daysUntilDue, interval)
	dailyRate := remaining.Div(decimal.NewFromInt(int64(daysUntilDue)))

	amounts := make([]decimal.Decimal, len(chunks))
	total := decimal.Zero
	for i, days := range chunks {
		amounts[i] = fund.RoundCents(dailyRate.Mul(decimal.NewFromInt(int64(days))))
		total = total.Add(amounts[i])
	}

	// Rounding correction: fold the residual into the last non-zero
	// contribution so the stream sums exactly to remaining.
	if residual := remaining.Sub(total); !residual.IsZero() {
		target := len(amounts) - 1
		for i := len(amounts) - 1; i >= 0; i-- {
			if !amounts[i].IsZero() {
				target = i
				break
			}
		}
		amounts[target] = amounts[target].Add(residual)
	}

	flows := make([]fund.CashFlow, 0, len(amounts))
	date := start
	for i, amount := range amounts {
		if i > 0 {
			date = date.AddDays(chunks[i-1])
		}
		if amount.IsZero() {
			continue
		}
		flows = append(flows, fund.CashFlow{Date: date, Amount: amount})
	}
	return flows
}
