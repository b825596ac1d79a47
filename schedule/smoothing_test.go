package schedule_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfbarbieri/sinkingfund/fund"
	"github.com/gfbarbieri/sinkingfund/schedule"
)

// =============================================================================
// JOINT SMOOTHING
// =============================================================================

func TestSmoothing_FlattensTotalDailyOutflow(t *testing.T) {
	// Two envelopes, 70.00 due in 7 days and 30.00 due in 10 days, on a
	// daily cadence. 100.00 spread over a 10-day horizon admits a
	// perfectly flat 10.00/day total, so the optimum has zero spread and
	// every day's combined contribution is 10.00 up to rounding.

	start := fund.NewDate(2024, time.January, 1)
	a := envelope(t, "a", "70.00", start, start.AddDays(7), 1)
	b := envelope(t, "b", "30.00", start, start.AddDays(10), 1)

	plan, err := schedule.NewSmoothingScheduler().Schedule([]*fund.Envelope{a, b}, start)
	require.NoError(t, err)
	require.Len(t, plan, 2)

	// Exact funding per envelope, regardless of how the solver split the
	// days between them.
	assert.True(t, sumContributions(plan[a.Key()]).Equal(fund.MustMoney("70.00")))
	assert.True(t, sumContributions(plan[b.Key()]).Equal(fund.MustMoney("30.00")))

	// Combined daily outflow stays flat at 10.00/day. Rounding and the
	// residual correction can shift a few cents between days.
	target := fund.MustMoney("10.00")
	tolerance := fund.MustMoney("0.05")
	for day := 0; day < 10; day++ {
		d := start.AddDays(day)
		total := plan[a.Key()].TotalOnDate(d, fund.ExcludePayouts).
			Add(plan[b.Key()].TotalOnDate(d, fund.ExcludePayouts))
		diff := total.Sub(target).Abs()
		assert.True(t, diff.LessThanOrEqual(tolerance),
			"day %d: combined contribution %s strays from %s", day, total, target)
	}

	// Payouts land on the due dates.
	assert.True(t, plan[a.Key()].TotalOnDate(start.AddDays(7), fund.ExcludeContributions).Equal(fund.MustMoney("-70.00")))
	assert.True(t, plan[b.Key()].TotalOnDate(start.AddDays(10), fund.ExcludeContributions).Equal(fund.MustMoney("-30.00")))
}

func TestSmoothing_SingleEnvelopeBucketsToCadence(t *testing.T) {
	// One 70.00 envelope due in 7 days on a 7-day cadence: the flat daily
	// solution collapses into a single bucket at the start date.

	start := fund.NewDate(2024, time.January, 1)
	e := envelope(t, "rent", "70.00", start, start.AddDays(7), 7)

	plan, err := schedule.NewSmoothingScheduler().Schedule([]*fund.Envelope{e}, start)
	require.NoError(t, err)

	contribs := contributionsOf(plan[e.Key()])
	require.Len(t, contribs, 1)
	assert.True(t, contribs[0].Date.Equal(start))
	assert.True(t, contribs[0].Amount.Equal(fund.MustMoney("70.00")))
}

func TestSmoothing_RespectsDueDateCutoff(t *testing.T) {
	// No contribution for an envelope may land on or after its due date.

	start := fund.NewDate(2024, time.January, 1)
	a := envelope(t, "a", "50.00", start, start.AddDays(3), 1)
	b := envelope(t, "b", "200.00", start, start.AddDays(20), 1)

	plan, err := schedule.NewSmoothingScheduler().Schedule([]*fund.Envelope{a, b}, start)
	require.NoError(t, err)

	for _, cf := range contributionsOf(plan[a.Key()]) {
		assert.True(t, cf.Date.Before(start.AddDays(3)),
			"contribution on %s is not before a's due date", cf.Date)
	}
	assert.True(t, sumContributions(plan[a.Key()]).Equal(fund.MustMoney("50.00")))
	assert.True(t, sumContributions(plan[b.Key()]).Equal(fund.MustMoney("200.00")))
}

// =============================================================================
// EDGE CASES
// =============================================================================

func TestSmoothing_UnfundableEnvelopeIsAnOptimizationError(t *testing.T) {
	// Due on the scheduling start with money still owed: no day exists on
	// which a contribution could land.

	start := fund.NewDate(2024, time.January, 1)
	e := envelope(t, "late", "25.00", start, start, 1)

	_, err := schedule.NewSmoothingScheduler().Schedule([]*fund.Envelope{e}, start)
	require.Error(t, err)
	assert.ErrorIs(t, err, fund.ErrOptimizationFailed)

	var optErr *fund.OptimizationError
	require.ErrorAs(t, err, &optErr)
	assert.Contains(t, optErr.Status, "infeasible")
}

func TestSmoothing_FullyAllocatedDueTodayGetsPayoutOnly(t *testing.T) {
	start := fund.NewDate(2024, time.January, 1)
	e := envelope(t, "paid", "25.00", start, start, 1)
	require.NoError(t, e.SetInitialAllocation(fund.MustMoney("25.00")))

	plan, err := schedule.NewSmoothingScheduler().Schedule([]*fund.Envelope{e}, start)
	require.NoError(t, err)

	sched := plan[e.Key()]
	require.Equal(t, 1, sched.Len())
	assert.True(t, sched.Flows()[0].Amount.Equal(fund.MustMoney("-25.00")))
}

func TestSmoothing_NoActiveEnvelopes(t *testing.T) {
	start := fund.NewDate(2024, time.June, 1)
	expired := envelope(t, "old", "50.00", start.AddDays(-60), start.AddDays(-30), 7)

	plan, err := schedule.NewSmoothingScheduler().Schedule([]*fund.Envelope{expired}, start)
	require.NoError(t, err)
	assert.Empty(t, plan)
}

func TestSmoothing_SchedulersDoNotMutateEnvelopes(t *testing.T) {
	start := fund.NewDate(2024, time.January, 1)
	e := envelope(t, "a", "70.00", start, start.AddDays(7), 1)

	_, err := schedule.NewSmoothingScheduler().Schedule([]*fund.Envelope{e}, start)
	require.NoError(t, err)
	assert.Equal(t, 0, e.Schedule().Len(), "scheduling must not install flows on the envelope")
	assert.True(t, e.InitialAllocation().Equal(decimal.Zero))
}
