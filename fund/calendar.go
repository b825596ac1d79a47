/*
calendar.go - Calendar-safe date stepping

PURPOSE:
  Billing cycles step by calendar units, not by fixed day counts. Months
  have 28-31 days and years occasionally have a February 29, so naive
  arithmetic drifts: Jan 31 + 30 days lands in early March, and a bill
  anchored to the 31st would slowly walk forward through the calendar.
  Increment does the stepping with the clamping rules bills expect.

CLAMPING RULES:
  - Monthly/quarterly: keep the source day of month; if the target month
    is shorter, clamp to its last valid day (Jan 31 + 1 month = Feb 28/29,
    never Mar 2/3).
  - Annual: keep the month and day; Feb 29 clamps to Feb 28 in non-leap
    target years.

ADDITIVITY:
  Increment(d, f, i, k) equals k sequential applications of
  Increment(d, f, i, 1). The test suite verifies this for every frequency.

SEE ALSO:
  - bill.go: uses Increment to walk recurrence schedules
*/
package fund

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// FREQUENCY - Supported recurrence cadences
// =============================================================================

// Frequency is the unit of a recurrence step.
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyAnnual    Frequency = "annual"
)

// ParseFrequency parses a frequency name, case-insensitively.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(strings.ToLower(strings.TrimSpace(s))) {
	case FrequencyDaily:
		return FrequencyDaily, nil
	case FrequencyWeekly:
		return FrequencyWeekly, nil
	case FrequencyMonthly:
		return FrequencyMonthly, nil
	case FrequencyQuarterly:
		return FrequencyQuarterly, nil
	case FrequencyAnnual:
		return FrequencyAnnual, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFrequency, s)
	}
}

// =============================================================================
// INCREMENT - The single date-stepping primitive
// =============================================================================

// Increment advances a date by `repetitions` steps of `interval` frequency
// units. It is pure and never mutates its argument.
//
// Both interval and repetitions must be positive.
func Increment(d Date, f Frequency, interval, repetitions int) (Date, error) {
	if interval < 1 {
		return Date{}, fmt.Errorf("%w: interval must be positive, got %d", ErrInvalidArgument, interval)
	}
	if repetitions < 1 {
		return Date{}, fmt.Errorf("%w: repetitions must be positive, got %d", ErrInvalidArgument, repetitions)
	}

	// Repetitions apply one at a time: month-end clamping makes a single
	// big jump land differently than sequential steps, and the sequence
	// is the defined behavior.
	for r := 0; r < repetitions; r++ {
		switch f {
		case FrequencyDaily:
			d = d.AddDays(interval)
		case FrequencyWeekly:
			d = d.AddDays(7 * interval)
		case FrequencyMonthly:
			d = incrementMonths(d, interval)
		case FrequencyQuarterly:
			d = incrementMonths(d, 3*interval)
		case FrequencyAnnual:
			d = incrementYears(d, interval)
		default:
			return Date{}, fmt.Errorf("%w: %q", ErrUnsupportedFrequency, f)
		}
	}
	return d, nil
}

// incrementMonths advances by whole months, clamping the day of month to
// the last valid day of the target month.
func incrementMonths(d Date, months int) Date {
	// Zero-based month arithmetic so the year rolls over cleanly.
	m := int(d.Month()) - 1 + months
	year := d.Year() + m/12
	month := time.Month(m%12 + 1)

	day := d.Day()
	if last := daysIn(year, month); day > last {
		day = last
	}
	return NewDate(year, month, day)
}

// incrementYears advances by whole years. The only date needing adjustment
// is Feb 29, which clamps to Feb 28 in non-leap target years.
func incrementYears(d Date, years int) Date {
	year := d.Year() + years
	day := d.Day()
	if d.Month() == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}
	return NewDate(year, d.Month(), day)
}

// daysIn returns the number of days in a month.
func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
