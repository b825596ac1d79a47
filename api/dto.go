/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  internal domain model from the external contract. Monetary amounts
  cross the wire as strings ("450.00") so clients never see binary
  floating point; dates are ISO-8601 ("2025-03-15").

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  DTOs are pure data carriers; validation happens in the handlers and in
  the domain constructors they call.

SEE ALSO:
  - handlers.go: uses these types
  - loader.Record: the bill definition shape reused for bill creation
*/
package api

import (
	"github.com/gfbarbieri/sinkingfund/fund"
	"github.com/gfbarbieri/sinkingfund/loader"
)

// =============================================================================
// BILLS
// =============================================================================

// CreateBillRequest is the bill definition shape shared with the file
// loaders.
type CreateBillRequest = loader.Record

// BillDTO represents a registered bill in API responses.
type BillDTO struct {
	ID          string    `json:"id"`
	Service     string    `json:"service"`
	AmountDue   string    `json:"amount_due"`
	Recurring   bool      `json:"recurring"`
	StartDate   fund.Date `json:"start_date"`
	EndDate     fund.Date `json:"end_date"`
	Frequency   string    `json:"frequency,omitempty"`
	Interval    int       `json:"interval,omitempty"`
	Occurrences int       `json:"occurrences"`
}

// InstanceDTO represents one occurrence of a bill.
type InstanceDTO struct {
	BillID    string    `json:"bill_id"`
	Service   string    `json:"service"`
	AmountDue string    `json:"amount_due"`
	DueDate   fund.Date `json:"due_date"`
}

// =============================================================================
// PLANS
// =============================================================================

// CreatePlanRequest asks for one full planning cycle over the registered
// bills.
type CreatePlanRequest struct {
	StartDate fund.Date `json:"start_date"`
	EndDate   fund.Date `json:"end_date"`
	Balance   string    `json:"balance"`
	Interval  int       `json:"interval"`
	Scheduler string    `json:"scheduler"`
	Allocator string    `json:"allocator,omitempty"`
}

// CashFlowDTO is one scheduled movement.
type CashFlowDTO struct {
	BillID string    `json:"bill_id"`
	Date   fund.Date `json:"date"`
	Amount string    `json:"amount"`
}

// EnvelopeDTO is one envelope's plan and funding position.
type EnvelopeDTO struct {
	Key         string        `json:"key"`
	BillID      string        `json:"bill_id"`
	Service     string        `json:"service"`
	DueDate     fund.Date     `json:"due_date"`
	AmountDue   string        `json:"amount_due"`
	Allocated   string        `json:"allocated"`
	Contributed string        `json:"contributed"`
	Remaining   string        `json:"remaining"`
	FullyFunded bool          `json:"fully_funded"`
	CashFlows   []CashFlowDTO `json:"cash_flows"`
}

// DayTotalDTO is the aggregate movement on one date.
type DayTotalDTO struct {
	Date          fund.Date `json:"date"`
	Contributions string    `json:"contributions"`
	Payouts       string    `json:"payouts"`
	Net           string    `json:"net"`
}

// PlanDTO is the result of one planning cycle.
type PlanDTO struct {
	PlanID      string        `json:"plan_id"`
	StartDate   fund.Date     `json:"start_date"`
	EndDate     fund.Date     `json:"end_date"`
	Balance     string        `json:"balance"`
	Scheduler   string        `json:"scheduler"`
	Allocator   string        `json:"allocator,omitempty"`
	Envelopes   []EnvelopeDTO `json:"envelopes"`
	DailyTotals []DayTotalDTO `json:"daily_totals"`
}

// ErrorDTO is the JSON error envelope.
type ErrorDTO struct {
	Error string `json:"error"`
}

// StrategiesDTO lists the available strategy names.
type StrategiesDTO struct {
	Schedulers []string `json:"schedulers"`
	Allocators []string `json:"allocators"`
}
