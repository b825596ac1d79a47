/*
Package schedule computes contribution plans for envelopes.

PURPOSE:
  A Scheduler takes a set of envelopes and a scheduling start date and
  decides when and how much to contribute to each one so that every
  envelope is exactly funded by its due date. Two strategies exist:

  - IndependentScheduler: each envelope planned on its own, producing a
    locally even contribution stream per bill.
  - SmoothingScheduler: all envelopes planned jointly through a linear
    program that minimizes the spread of total daily outflow.

OUTPUT CONTRACT:
  Schedulers never mutate envelopes. They return a Plan, an explicit
  mapping from envelope key to its computed schedule, and the caller
  decides when to install it (see planner.Planner.Schedule). This keeps
  scheduler runs free of aliasing side effects.

SKIP, NOT ERROR:
  An envelope whose occurrence is already past the scheduling start date
  has nothing left to plan and is silently omitted from the Plan.
*/
package schedule

import (
	"fmt"

	"github.com/gfbarbieri/sinkingfund/fund"
)

// Plan maps envelope keys to freshly computed cash flow schedules.
type Plan map[string]*fund.CashFlowSchedule

// Scheduler computes contribution plans for a set of envelopes.
type Scheduler interface {
	// Schedule plans contributions from the start date forward. The
	// returned Plan has one entry per schedulable envelope; expired
	// envelopes are omitted.
	Schedule(envelopes []*fund.Envelope, start fund.Date) (Plan, error)

	// Name identifies the strategy in registries and API requests.
	Name() string
}

// partitionDays splits a span of days into interval-sized chunks with a
// shorter final chunk when the span does not divide evenly.
func partitionDays(totalDays, interval int) []int {
	full := totalDays / interval
	rem := totalDays % interval
	chunks := make([]int, 0, full+1)
	for i := 0; i < full; i++ {
		chunks = append(chunks, interval)
	}
	if rem > 0 {
		chunks = append(chunks, rem)
	}
	return chunks
}

// checkInterval validates an envelope's contribution cadence.
func checkInterval(e *fund.Envelope) error {
	if e.Interval() < 1 {
		return fmt.Errorf("envelope %s: %w: got %d days", e.Key(), fund.ErrInvalidInterval, e.Interval())
	}
	return nil
}
