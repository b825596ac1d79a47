/*
Package fund provides the core sinking fund planning engine.

PURPOSE:
  This package contains the domain types and algorithms for planning how
  money accumulates toward future obligations. Bills define what is owed
  and when; envelopes accumulate money toward a single bill occurrence;
  cash flow schedules record the signed movements that fund each envelope
  by its due date.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money helpers: decimal amounts with cent-level rounding
  - Cents: the currency precision used everywhere in the engine

DESIGN PRINCIPLES:
  1. Immutability: bills and cash flows never change after construction
  2. Precision: uses decimal.Decimal to avoid floating-point errors
  3. Purity: every calculation is a function of its inputs; the only
     mutation in the engine is writing a finished schedule into an
     envelope
  4. Validate early: malformed input fails at construction, never later

USAGE:
  amount := fund.MustMoney("450.00")
  bill, err := fund.NewBill(fund.BillConfig{
      ID:        "auto-insurance",
      Service:   "Quarterly Auto Insurance",
      AmountDue: amount,
      Recurring: true,
      StartDate: fund.NewDate(2025, time.March, 15),
      Frequency: fund.FrequencyQuarterly,
      Interval:  1,
      Occurrences: 4,
  })

SEE ALSO:
  - calendar.go: Frequency and calendar-safe date stepping
  - bill.go: Bill and BillInstance
  - cashflow.go: CashFlow and CashFlowSchedule
  - envelope.go: Envelope funding targets
*/
package fund

import "github.com/shopspring/decimal"

// =============================================================================
// MONEY - Decimal amounts at cent precision
// =============================================================================

// Cents is the number of decimal places used for currency values.
const Cents = 2

// Money parses a monetary amount from its string form.
func Money(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustMoney parses a monetary amount and panics on malformed input.
// Intended for literals in tests and configuration defaults.
func MustMoney(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// RoundCents rounds an amount to currency precision, half away from zero.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(Cents)
}
