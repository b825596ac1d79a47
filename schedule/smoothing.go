/*
smoothing.go - Globally smoothed contribution planning via linear programming

PURPOSE:
  Plans all envelopes jointly so the total daily outflow is as flat as
  possible. The formulation, over envelopes i and horizon days t:

    minimize    z - w
    subject to  sum_{t < d_i} x[i,t] = remaining_i      (exact funding)
                x[i,t] = 0 for t >= d_i                 (nothing after due)
                z >= sum_i x[i,t] >= w  for every t     (outflow bounds)
                x[i,t] >= 0

  Minimizing the range z - w is the linear surrogate for minimizing the
  variance of total daily outflow; true variance would make the problem
  quadratic.

SOLVER:
  gonum's Simplex solves LPs in standard form (min c'x s.t. Ax = b,
  x >= 0), so the inequality bounds become equalities with slack
  variables. One solve per scheduling call; a non-optimal outcome is
  surfaced as OptimizationError and never retried. The problem is always
  feasible when every unfunded envelope has at least one day before its
  due date, so infeasibility means malformed input.

POST-PROCESSING:
  Daily solution values are summed into each envelope's own contribution
  cadence, bucketed from the global scheduling start date, rounded to
  cents with the residual folded into the last non-zero bucket, and a
  payout of -amount is appended on the due date.
*/
package schedule

import (
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/gfbarbieri/sinkingfund/fund"
)

// SmoothingScheduler plans all envelopes jointly, minimizing the spread
// between the highest and lowest total daily contribution.
type SmoothingScheduler struct{}

// NewSmoothingScheduler creates the LP-backed scheduler.
func NewSmoothingScheduler() *SmoothingScheduler {
	return &SmoothingScheduler{}
}

func (s *SmoothingScheduler) Name() string { return "smoothing" }

// smoothingTarget is one envelope's view inside the LP.
type smoothingTarget struct {
	envelope  *fund.Envelope
	remaining decimal.Decimal
	dueDays   int // days from the scheduling start to the due date
}

// Schedule solves one LP across every active envelope and converts the
// daily solution into per-envelope cash flow schedules.
func (s *SmoothingScheduler) Schedule(envelopes []*fund.Envelope, start fund.Date) (Plan, error) {
	var targets []smoothingTarget
	horizon := 0

	for _, e := range envelopes {
		if err := checkInterval(e); err != nil {
			return nil, err
		}

		inst := e.Instance()
		if inst.DueDate.Before(start) {
			continue
		}

		remaining := inst.AmountDue.Sub(e.InitialAllocation())
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		dueDays := fund.DaysBetween(start, inst.DueDate)
		if dueDays == 0 && remaining.IsPositive() {
			// No day exists on which a contribution could land.
			return nil, &fund.OptimizationError{
				Status: "infeasible: " + e.Key() + " has no contribution days before its due date",
			}
		}

		targets = append(targets, smoothingTarget{envelope: e, remaining: remaining, dueDays: dueDays})
		if dueDays > horizon {
			horizon = dueDays
		}
	}

	if len(targets) == 0 {
		return Plan{}, nil
	}

	daily, err := solveDailyContributions(targets, horizon)
	if err != nil {
		return nil, err
	}

	plan := make(Plan, len(targets))
	for i, tgt := range targets {
		inst := tgt.envelope.Instance()
		sched := fund.NewCashFlowSchedule()
		for _, cf := range bucketDaily(daily[i], tgt.remaining, start, tgt.envelope.Interval()) {
			cf.BillID = inst.BillID
			sched.Add(cf)
		}
		sched.Add(fund.CashFlow{
			BillID: inst.BillID,
			Date:   inst.DueDate,
			Amount: inst.AmountDue.Neg(),
		})
		plan[tgt.envelope.Key()] = sched
	}

	return plan, nil
}

// solveDailyContributions builds and solves the standard-form LP. The
// result is one slice per target with the contribution for each day of
// that target's funding window.
//
// Variable layout: the x[i,t] variables for t < dueDays_i come first,
// then z, then w, then one slack per day for each of the two outflow
// bounds:
//
//	z - y_t - slackHi_t = 0        (z is an upper bound on y_t)
//	y_t - w - slackLo_t = 0        (w is a lower bound on y_t)
func solveDailyContributions(targets []smoothingTarget, horizon int) ([][]float64, error) {
	n := len(targets)

	// Map each (target, day) pair to a variable index.
	xIndex := make([][]int, n)
	numX := 0
	for i, tgt := range targets {
		xIndex[i] = make([]int, tgt.dueDays)
		for t := 0; t < tgt.dueDays; t++ {
			xIndex[i][t] = numX
			numX++
		}
	}

	if horizon == 0 || numX == 0 {
		// Every target is already funded; nothing to solve.
		return make([][]float64, n), nil
	}

	zIdx := numX
	wIdx := numX + 1
	slackHi := numX + 2
	slackLo := numX + 2 + horizon
	numVars := numX + 2 + 2*horizon
	numRows := n + 2*horizon

	A := mat.NewDense(numRows, numVars, nil)
	b := make([]float64, numRows)
	c := make([]float64, numVars)
	c[zIdx] = 1
	c[wIdx] = -1

	// Exact funding per target.
	for i, tgt := range targets {
		for t := 0; t < tgt.dueDays; t++ {
			A.Set(i, xIndex[i][t], 1)
		}
		b[i], _ = tgt.remaining.Float64()
	}

	// Daily outflow bounds.
	for t := 0; t < horizon; t++ {
		hi := n + t
		lo := n + horizon + t
		A.Set(hi, zIdx, 1)
		A.Set(hi, slackHi+t, -1)
		A.Set(lo, wIdx, -1)
		A.Set(lo, slackLo+t, -1)
		for i, tgt := range targets {
			if t < tgt.dueDays {
				A.Set(hi, xIndex[i][t], -1)
				A.Set(lo, xIndex[i][t], 1)
			}
		}
	}

	_, solution, err := lp.Simplex(c, A, b, 0, nil)
	if err != nil {
		return nil, &fund.OptimizationError{Status: err.Error()}
	}

	daily := make([][]float64, n)
	for i, tgt := range targets {
		daily[i] = make([]float64, tgt.dueDays)
		for t := 0; t < tgt.dueDays; t++ {
			daily[i][t] = solution[xIndex[i][t]]
		}
	}
	return daily, nil
}

// bucketDaily sums a target's daily contributions into its own cadence.
// Buckets are measured from the global scheduling start date. Rounding
// residue relative to `remaining` folds into the last non-zero bucket so
// the envelope reconciles to the cent.
func bucketDaily(daily []float64, remaining decimal.Decimal, start fund.Date, interval int) []fund.CashFlow {
	if remaining.IsZero() || len(daily) == 0 {
		return nil
	}

	numBuckets := (len(daily) + interval - 1) / interval
	sums := make([]float64, numBuckets)
	for t, v := range daily {
		sums[t/interval] += v
	}

	amounts := make([]decimal.Decimal, numBuckets)
	total := decimal.Zero
	for i, v := range sums {
		if math.Abs(v) < 1e-9 {
			continue
		}
		amounts[i] = fund.RoundCents(decimal.NewFromFloat(v))
		total = total.Add(amounts[i])
	}

	if residual := remaining.Sub(total); !residual.IsZero() {
		target := numBuckets - 1
		for i := numBuckets - 1; i >= 0; i-- {
			if !amounts[i].IsZero() {
				target = i
				break
			}
		}
		amounts[target] = amounts[target].Add(residual)
	}

	flows := make([]fund.CashFlow, 0, numBuckets)
	for i, amount := range amounts {
		if amount.IsZero() {
			continue
		}
		flows = append(flows, fund.CashFlow{
			Date:   start.AddDays(i * interval),
			Amount: amount,
		})
	}
	return flows
}
