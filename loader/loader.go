/*
Package loader parses bill definitions from external formats.

PURPOSE:
  Converts CSV and JSON bill definitions into validated fund.Bill values.
  This is the boundary between user-maintained files and the engine: all
  parsing and coercion happens here, and the records that come out have
  already passed fund.NewBill validation.

RECORD SHAPE (JSON field names; CSV uses the same names as headers):
  {
    "bill_id":     "auto-insurance",
    "service":     "Quarterly Auto Insurance",
    "amount_due":  "450.00",
    "recurring":   true,
    "due_date":    "",             // one-time bills only
    "start_date":  "2025-03-15",
    "end_date":    "",             // or occurrences, not both
    "frequency":   "quarterly",
    "interval":    1,
    "occurrences": 4
  }

FORMAT DISPATCH:
  Readers register in an explicit Registry constructed by the caller and
  resolved by format name or file extension. Unknown formats fail with
  ErrUnknownFormat.
*/
package loader

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gfbarbieri/sinkingfund/fund"
)

// Record is the raw, pre-validation shape of one bill definition.
type Record struct {
	BillID      string    `json:"bill_id"`
	Service     string    `json:"service"`
	AmountDue   string    `json:"amount_due"`
	Recurring   bool      `json:"recurring"`
	DueDate     fund.Date `json:"due_date"`
	StartDate   fund.Date `json:"start_date"`
	EndDate     fund.Date `json:"end_date"`
	Frequency   string    `json:"frequency"`
	Interval    int       `json:"interval"`
	Occurrences int       `json:"occurrences"`
}

// ToBill validates the record and builds a Bill from it.
func (r Record) ToBill() (*fund.Bill, error) {
	amount, err := decimal.NewFromString(r.AmountDue)
	if err != nil {
		return nil, fmt.Errorf("%w: bill %s: malformed amount %q", fund.ErrInvalidArgument, r.BillID, r.AmountDue)
	}
	return fund.NewBill(fund.BillConfig{
		ID:          r.BillID,
		Service:     r.Service,
		AmountDue:   amount,
		Recurring:   r.Recurring,
		DueDate:     r.DueDate,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Frequency:   fund.Frequency(r.Frequency),
		Interval:    r.Interval,
		Occurrences: r.Occurrences,
	})
}

// toBills converts a batch of records, failing on the first bad one.
func toBills(records []Record) ([]*fund.Bill, error) {
	bills := make([]*fund.Bill, 0, len(records))
	for _, r := range records {
		b, err := r.ToBill()
		if err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, nil
}
