package fund_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gfbarbieri/sinkingfund/fund"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func oneTimeBill(t *testing.T, id string, amount string, due fund.Date) *fund.Bill {
	t.Helper()
	b, err := fund.NewBill(fund.BillConfig{
		ID:        id,
		Service:   id,
		AmountDue: fund.MustMoney(amount),
		DueDate:   due,
	})
	if err != nil {
		t.Fatalf("one-time bill %s: %v", id, err)
	}
	return b
}

func monthlyBill(t *testing.T, id string, amount string, start fund.Date, occurrences int) *fund.Bill {
	t.Helper()
	b, err := fund.NewBill(fund.BillConfig{
		ID:          id,
		Service:     id,
		AmountDue:   fund.MustMoney(amount),
		Recurring:   true,
		StartDate:   start,
		Frequency:   fund.FrequencyMonthly,
		Interval:    1,
		Occurrences: occurrences,
	})
	if err != nil {
		t.Fatalf("monthly bill %s: %v", id, err)
	}
	return b
}

// =============================================================================
// CONSTRUCTION
// =============================================================================

func TestNewBill_OneTime(t *testing.T) {
	// GIVEN: A one-time bill due on a fixed date
	// WHEN: Constructed
	// THEN: Start, end and due all coincide and it reports one occurrence

	due := date(2024, time.June, 15)
	b := oneTimeBill(t, "insurance", "1200.00", due)

	if b.Recurring() {
		t.Error("one-time bill reports recurring")
	}
	if !b.StartDate().Equal(due) || !b.EndDate().Equal(due) {
		t.Errorf("start=%s end=%s, want both %s", b.StartDate(), b.EndDate(), due)
	}
	if b.Occurrences() != 1 {
		t.Errorf("occurrences=%d, want 1", b.Occurrences())
	}
}

func TestNewBill_RecurringWithCount_DerivesEndDate(t *testing.T) {
	// GIVEN: A monthly bill starting 2024-01-15 with 3 occurrences
	// WHEN: Constructed
	// THEN: The end date is two monthly steps out, 2024-03-15

	b := monthlyBill(t, "electric", "100.00", date(2024, time.January, 15), 3)

	want := date(2024, time.March, 15)
	if !b.EndDate().Equal(want) {
		t.Errorf("end=%s, want %s", b.EndDate(), want)
	}
	if b.Occurrences() != 3 {
		t.Errorf("occurrences=%d, want 3", b.Occurrences())
	}
}

func TestNewBill_RecurringWithEndDate_DerivesOccurrences(t *testing.T) {
	// GIVEN: A monthly bill with an explicit end date that is not itself
	// a due date
	// WHEN: Constructed
	// THEN: The occurrence count includes only due dates at or before end

	b, err := fund.NewBill(fund.BillConfig{
		ID:        "water",
		AmountDue: fund.MustMoney("45.00"),
		Recurring: true,
		StartDate: date(2024, time.January, 10),
		EndDate:   date(2024, time.April, 5), // last due date is Mar 10
		Frequency: fund.FrequencyMonthly,
		Interval:  1,
	})
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	if b.Occurrences() != 3 {
		t.Errorf("occurrences=%d, want 3 (Jan, Feb, Mar)", b.Occurrences())
	}
}

func TestNewBill_SingleOccurrenceCollapsesToOneTime(t *testing.T) {
	b := monthlyBill(t, "setup-fee", "50.00", date(2024, time.February, 1), 1)

	if b.Recurring() {
		t.Error("single-occurrence bill should not be recurring")
	}
	if !b.EndDate().Equal(b.StartDate()) {
		t.Errorf("end=%s, want start %s", b.EndDate(), b.StartDate())
	}
}

func TestNewBill_Validation(t *testing.T) {
	start := date(2024, time.January, 1)

	cases := []struct {
		name string
		cfg  fund.BillConfig
	}{
		{"empty id", fund.BillConfig{ID: "  ", AmountDue: fund.MustMoney("10"), DueDate: start}},
		{"zero amount", fund.BillConfig{ID: "x", AmountDue: decimal.Zero, DueDate: start}},
		{"negative amount", fund.BillConfig{ID: "x", AmountDue: fund.MustMoney("-5"), DueDate: start}},
		{"one-time without due date", fund.BillConfig{ID: "x", AmountDue: fund.MustMoney("10")}},
		{"recurring without start", fund.BillConfig{
			ID: "x", AmountDue: fund.MustMoney("10"), Recurring: true,
			Frequency: fund.FrequencyMonthly, Interval: 1, Occurrences: 2,
		}},
		{"recurring with neither end nor count", fund.BillConfig{
			ID: "x", AmountDue: fund.MustMoney("10"), Recurring: true,
			StartDate: start, Frequency: fund.FrequencyMonthly, Interval: 1,
		}},
		{"recurring with both end and count", fund.BillConfig{
			ID: "x", AmountDue: fund.MustMoney("10"), Recurring: true,
			StartDate: start, EndDate: start.AddDays(60),
			Frequency: fund.FrequencyMonthly, Interval: 1, Occurrences: 2,
		}},
		{"end before start", fund.BillConfig{
			ID: "x", AmountDue: fund.MustMoney("10"), Recurring: true,
			StartDate: start, EndDate: start.AddDays(-1),
			Frequency: fund.FrequencyMonthly, Interval: 1,
		}},
		{"zero interval", fund.BillConfig{
			ID: "x", AmountDue: fund.MustMoney("10"), Recurring: true,
			StartDate: start, Frequency: fund.FrequencyMonthly, Occurrences: 2,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := fund.NewBill(tc.cfg); !errors.Is(err, fund.ErrInvalidArgument) {
				t.Errorf("got %v, want ErrInvalidArgument", err)
			}
		})
	}

	t.Run("bad frequency", func(t *testing.T) {
		_, err := fund.NewBill(fund.BillConfig{
			ID: "x", AmountDue: fund.MustMoney("10"), Recurring: true,
			StartDate: start, Frequency: "hourly", Interval: 1, Occurrences: 2,
		})
		if !errors.Is(err, fund.ErrUnsupportedFrequency) {
			t.Errorf("got %v, want ErrUnsupportedFrequency", err)
		}
	})
}

// =============================================================================
// NEXT INSTANCE
// =============================================================================

func TestNextInstance_WalksTheDueDateSequence(t *testing.T) {
	// GIVEN: Monthly, 2024-01-15, three occurrences
	// WHEN: Asking for the next instance from various reference dates
	// THEN: The answer is the first due date at/after the reference,
	// and nothing once past the final one

	b := monthlyBill(t, "electric", "100.00", date(2024, time.January, 15), 3)

	cases := []struct {
		ref       fund.Date
		inclusive bool
		want      fund.Date
		ok        bool
	}{
		{date(2023, time.December, 1), false, date(2024, time.January, 15), true},
		{date(2024, time.January, 15), true, date(2024, time.January, 15), true},
		// The start date stays eligible even on an exclusive query.
		{date(2024, time.January, 15), false, date(2024, time.January, 15), true},
		{date(2024, time.February, 15), false, date(2024, time.March, 15), true},
		{date(2024, time.February, 1), false, date(2024, time.February, 15), true},
		{date(2024, time.March, 15), true, date(2024, time.March, 15), true},
		{date(2024, time.March, 15), false, fund.Date{}, false},
		{date(2024, time.April, 1), true, fund.Date{}, false},
	}
	for _, tc := range cases {
		got, ok := b.NextInstance(tc.ref, tc.inclusive)
		if ok != tc.ok {
			t.Errorf("ref=%s inclusive=%v: ok=%v, want %v", tc.ref, tc.inclusive, ok, tc.ok)
			continue
		}
		if ok && !got.DueDate.Equal(tc.want) {
			t.Errorf("ref=%s inclusive=%v: due=%s, want %s", tc.ref, tc.inclusive, got.DueDate, tc.want)
		}
	}
}

func TestNextInstance_CarriesBillIdentity(t *testing.T) {
	b := monthlyBill(t, "electric", "100.00", date(2024, time.January, 15), 3)

	inst, ok := b.NextInstance(date(2024, time.February, 1), false)
	if !ok {
		t.Fatal("expected an instance")
	}
	if inst.BillID != "electric" {
		t.Errorf("bill id=%q, want electric", inst.BillID)
	}
	if !inst.AmountDue.Equal(fund.MustMoney("100.00")) {
		t.Errorf("amount=%s, want 100.00", inst.AmountDue)
	}
	if want := "electric:2024-02-15"; inst.Key() != want {
		t.Errorf("key=%q, want %q", inst.Key(), want)
	}
}

func TestNextInstance_OneTime(t *testing.T) {
	due := date(2024, time.June, 15)
	b := oneTimeBill(t, "insurance", "1200.00", due)

	if inst, ok := b.NextInstance(due.AddDays(-30), false); !ok || !inst.DueDate.Equal(due) {
		t.Errorf("before due: got (%v, %v)", inst, ok)
	}
	// due is the start date, so it stays eligible on an exclusive query.
	if inst, ok := b.NextInstance(due, false); !ok || !inst.DueDate.Equal(due) {
		t.Errorf("on due date: got (%v, %v)", inst, ok)
	}
	if _, ok := b.NextInstance(due.AddDays(1), true); ok {
		t.Error("past due should find nothing")
	}
}

// =============================================================================
// INSTANCES IN RANGE
// =============================================================================

func TestInstancesInRange_ClipsToWindowAndBillLifetime(t *testing.T) {
	// GIVEN: Monthly 2024-01-15 x3 and a query window covering only the
	// middle of the sequence
	// WHEN: Expanding instances
	// THEN: Only due dates inside both the window and the bill lifetime
	// appear, in chronological order

	b := monthlyBill(t, "electric", "100.00", date(2024, time.January, 15), 3)

	got := b.InstancesInRange(date(2024, time.February, 1), date(2024, time.December, 31))
	if len(got) != 2 {
		t.Fatalf("got %d instances, want 2", len(got))
	}
	if !got[0].DueDate.Equal(date(2024, time.February, 15)) || !got[1].DueDate.Equal(date(2024, time.March, 15)) {
		t.Errorf("due dates %s, %s; want 2024-02-15, 2024-03-15", got[0].DueDate, got[1].DueDate)
	}
}

func TestInstancesInRange_FullWindow(t *testing.T) {
	b := monthlyBill(t, "electric", "100.00", date(2024, time.January, 15), 3)

	got := b.InstancesInRange(date(2024, time.January, 1), date(2024, time.December, 31))
	if len(got) != 3 {
		t.Fatalf("got %d instances, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].DueDate.Before(got[i].DueDate) {
			t.Errorf("instances out of order at %d: %s then %s", i, got[i-1].DueDate, got[i].DueDate)
		}
	}
}

func TestInstancesInRange_OneTime(t *testing.T) {
	due := date(2024, time.June, 15)
	b := oneTimeBill(t, "insurance", "1200.00", due)

	if got := b.InstancesInRange(date(2024, time.January, 1), date(2024, time.December, 31)); len(got) != 1 {
		t.Errorf("covering window: got %d instances, want 1", len(got))
	}
	if got := b.InstancesInRange(date(2024, time.July, 1), date(2024, time.December, 31)); len(got) != 0 {
		t.Errorf("window after due: got %d instances, want 0", len(got))
	}
	if got := b.InstancesInRange(date(2024, time.June, 15), date(2024, time.June, 15)); len(got) != 1 {
		t.Errorf("single-day window on due date: got %d instances, want 1", len(got))
	}
}
