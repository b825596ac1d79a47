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
// TEST HELPERS
// =============================================================================

func envelope(t *testing.T, billID, amount string, start, due fund.Date, interval int) *fund.Envelope {
	t.Helper()
	inst := fund.BillInstance{
		BillID:    billID,
		Service:   billID,
		AmountDue: fund.MustMoney(amount),
		DueDate:   due,
	}
	e, err := fund.NewEnvelope(inst, start, due, interval)
	require.NoError(t, err)
	return e
}

func contributionsOf(s *fund.CashFlowSchedule) []fund.CashFlow {
	var out []fund.CashFlow
	for _, cf := range s.Flows() {
		if cf.IsInflow() {
			out = append(out, cf)
		}
	}
	return out
}

func sumContributions(s *fund.CashFlowSchedule) decimal.Decimal {
	total := decimal.Zero
	for _, cf := range contributionsOf(s) {
		total = total.Add(cf.Amount)
	}
	return total
}

// =============================================================================
// EVEN CONTRIBUTION STREAM
// =============================================================================

func TestIndependent_BiweeklyStream(t *testing.T) {
	// A 150.00 bill due 2024-02-14, planned from 2024-01-01 on a 14-day
	// cadence: 44 days split into chunks of 14, 14, 14 and 2. The rounding
	// residual lands on the final contribution so the stream reconciles to
	// the cent.

	start := fund.NewDate(2024, time.January, 1)
	due := fund.NewDate(2024, time.February, 14)
	e := envelope(t, "electric", "150.00", start, due, 14)

	plan, err := schedule.NewIndependentScheduler().Schedule([]*fund.Envelope{e}, start)
	require.NoError(t, err)
	require.Contains(t, plan, e.Key())

	sched := plan[e.Key()]
	contribs := contributionsOf(sched)
	require.Len(t, contribs, 4)

	wantDates := []fund.Date{
		start,
		fund.NewDate(2024, time.January, 15),
		fund.NewDate(2024, time.January, 29),
		fund.NewDate(2024, time.February, 12),
	}
	wantAmounts := []string{"47.73", "47.73", "47.73", "6.81"}
	for i, cf := range contribs {
		assert.True(t, cf.Date.Equal(wantDates[i]), "contribution %d dated %s, want %s", i, cf.Date, wantDates[i])
		assert.True(t, cf.Amount.Equal(fund.MustMoney(wantAmounts[i])), "contribution %d = %s, want %s", i, cf.Amount, wantAmounts[i])
		assert.Equal(t, "electric", cf.BillID)
	}

	assert.True(t, sumContributions(sched).Equal(fund.MustMoney("150.00")),
		"contributions must sum exactly to the amount due")

	payout := sched.TotalOnDate(due, fund.ExcludeContributions)
	assert.True(t, payout.Equal(fund.MustMoney("-150.00")), "payout = %s", payout)

	// Net across the whole plan is zero.
	assert.True(t, sched.TotalAsOf(due, fund.ExcludeNone).IsZero())
}

func TestIndependent_ExactFundingAcrossCadences(t *testing.T) {
	// Whatever the amount, window and cadence, rounded contributions must
	// sum exactly to the remaining amount and fully fund the envelope by
	// its due date.

	start := fund.NewDate(2024, time.March, 1)
	cases := []struct {
		amount   string
		days     int
		interval int
	}{
		{"100.00", 30, 7},
		{"99.99", 31, 14},
		{"0.03", 90, 30},
		{"1234.56", 17, 5},
		{"50.00", 1, 14},
	}
	for _, tc := range cases {
		due := start.AddDays(tc.days)
		e := envelope(t, "bill", tc.amount, start, due, tc.interval)

		plan, err := schedule.NewIndependentScheduler().Schedule([]*fund.Envelope{e}, start)
		require.NoError(t, err)

		sched := plan[e.Key()]
		require.NotNil(t, sched, "amount=%s days=%d interval=%d", tc.amount, tc.days, tc.interval)

		assert.True(t, sumContributions(sched).Equal(fund.MustMoney(tc.amount)),
			"amount=%s days=%d interval=%d: contributions sum to %s",
			tc.amount, tc.days, tc.interval, sumContributions(sched))

		e.ReplaceSchedule(sched)
		assert.True(t, e.Balance(due, fund.ExcludePayouts).Equal(fund.MustMoney(tc.amount)))
		assert.True(t, e.Balance(due, fund.ExcludeNone).IsZero())
	}
}

// =============================================================================
// ALLOCATIONS AND EDGE CASES
// =============================================================================

func TestIndependent_InitialAllocationReducesContributions(t *testing.T) {
	start := fund.NewDate(2024, time.January, 1)
	due := start.AddDays(10)
	e := envelope(t, "water", "100.00", start, due, 5)
	require.NoError(t, e.SetInitialAllocation(fund.MustMoney("40.00")))

	plan, err := schedule.NewIndependentScheduler().Schedule([]*fund.Envelope{e}, start)
	require.NoError(t, err)

	sched := plan[e.Key()]
	assert.True(t, sumContributions(sched).Equal(fund.MustMoney("60.00")))

	// The payout still covers the full amount due.
	assert.True(t, sched.TotalOnDate(due, fund.ExcludeContributions).Equal(fund.MustMoney("-100.00")))

	e.ReplaceSchedule(sched)
	assert.True(t, e.IsFullyFunded(due.AddDays(-1)))
}

func TestIndependent_FullyAllocatedEnvelopeGetsPayoutOnly(t *testing.T) {
	start := fund.NewDate(2024, time.January, 1)
	due := start.AddDays(10)
	e := envelope(t, "water", "100.00", start, due, 5)
	require.NoError(t, e.SetInitialAllocation(fund.MustMoney("100.00")))

	plan, err := schedule.NewIndependentScheduler().Schedule([]*fund.Envelope{e}, start)
	require.NoError(t, err)

	sched := plan[e.Key()]
	require.Equal(t, 1, sched.Len())
	assert.True(t, sched.Flows()[0].IsOutflow())
}

func TestIndependent_DueOnStartDateFundsImmediately(t *testing.T) {
	start := fund.NewDate(2024, time.January, 1)
	e := envelope(t, "rent", "800.00", start, start, 14)

	plan, err := schedule.NewIndependentScheduler().Schedule([]*fund.Envelope{e}, start)
	require.NoError(t, err)

	sched := plan[e.Key()]
	contribs := contributionsOf(sched)
	require.Len(t, contribs, 1)
	assert.True(t, contribs[0].Date.Equal(start))
	assert.True(t, contribs[0].Amount.Equal(fund.MustMoney("800.00")))
}

func TestIndependent_PastOccurrenceIsSkipped(t *testing.T) {
	start := fund.NewDate(2024, time.June, 1)
	past := fund.NewDate(2024, time.May, 1)
	e := envelope(t, "old", "50.00", past.AddDays(-30), past, 14)

	plan, err := schedule.NewIndependentScheduler().Schedule([]*fund.Envelope{e}, start)
	require.NoError(t, err)
	assert.NotContains(t, plan, e.Key())
	assert.Empty(t, plan)
}

func TestIndependent_PlanKeyedPerEnvelope(t *testing.T) {
	start := fund.NewDate(2024, time.January, 1)
	a := envelope(t, "a", "70.00", start, start.AddDays(7), 7)
	b := envelope(t, "b", "30.00", start, start.AddDays(10), 7)

	plan, err := schedule.NewIndependentScheduler().Schedule([]*fund.Envelope{a, b}, start)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Contains(t, plan, a.Key())
	assert.Contains(t, plan, b.Key())
}
