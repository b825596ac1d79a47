/*
handlers.go - HTTP handlers for bills and planning

PURPOSE:
  Implements the HTTP surface over the planning engine. Bills live in an
  in-memory store; every plan request runs a complete, fresh planning
  cycle (instances -> envelopes -> allocation -> scheduling) against the
  bills registered at that moment.

ERROR MAPPING:
  - 400: validation errors (fund.IsValidation)
  - 404: unknown bill
  - 409: duplicate bill id
  - 422: the smoothing solver could not produce an optimal plan
  - 500: everything else

SEE ALSO:
  - dto.go: request/response shapes
  - server.go: router and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gfbarbieri/sinkingfund/allocation"
	"github.com/gfbarbieri/sinkingfund/fund"
	"github.com/gfbarbieri/sinkingfund/planner"
	"github.com/gfbarbieri/sinkingfund/schedule"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Bills      *BillStore
	Schedulers *schedule.Registry
	Allocators *allocation.Registry
}

// NewHandler creates a handler with an empty bill store and the built-in
// strategy registries.
func NewHandler() *Handler {
	return &Handler{
		Bills:      NewBillStore(),
		Schedulers: schedule.NewRegistry(),
		Allocators: allocation.NewRegistry(),
	}
}

// =============================================================================
// BILL HANDLERS
// =============================================================================

// CreateBill registers a new bill definition.
func (h *Handler) CreateBill(w http.ResponseWriter, r *http.Request) {
	var req CreateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	bill, err := req.ToBill()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.Bills.Add(bill); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBillDTO(bill))
}

// ListBills returns every registered bill.
func (h *Handler) ListBills(w http.ResponseWriter, r *http.Request) {
	bills := h.Bills.List()
	dtos := make([]BillDTO, 0, len(bills))
	for _, b := range bills {
		dtos = append(dtos, toBillDTO(b))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetBill returns one bill by id.
func (h *Handler) GetBill(w http.ResponseWriter, r *http.Request) {
	bill, err := h.Bills.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillDTO(bill))
}

// DeleteBill removes one bill by id.
func (h *Handler) DeleteBill(w http.ResponseWriter, r *http.Request) {
	if err := h.Bills.Delete(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BillInstances previews a bill's occurrences inside a date range given
// by the `start` and `end` query parameters.
func (h *Handler) BillInstances(w http.ResponseWriter, r *http.Request) {
	bill, err := h.Bills.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	start, err := fund.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed start date")
		return
	}
	end, err := fund.ParseDate(r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed end date")
		return
	}

	instances := bill.InstancesInRange(start, end)
	dtos := make([]InstanceDTO, 0, len(instances))
	for _, inst := range instances {
		dtos = append(dtos, InstanceDTO{
			BillID:    inst.BillID,
			Service:   inst.Service,
			AmountDue: inst.AmountDue.StringFixed(fund.Cents),
			DueDate:   inst.DueDate,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PLAN HANDLER
// =============================================================================

// CreatePlan runs one full planning cycle over the registered bills.
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	balance := decimal.Zero
	if req.Balance != "" {
		var err error
		balance, err = fund.Money(req.Balance)
		if err != nil {
			writeError(w, http.StatusBadRequest, "malformed balance")
			return
		}
	}

	schedulerName := req.Scheduler
	if schedulerName == "" {
		schedulerName = "independent"
	}
	scheduler, err := h.Schedulers.New(schedulerName)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var allocator allocation.Allocator
	if req.Allocator != "" {
		allocator, err = h.Allocators.New(req.Allocator)
		if err != nil {
			writeDomainError(w, err)
			return
		}
	}

	p, err := planner.New(req.StartDate, req.EndDate, balance)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := p.AddBills(h.Bills.List()...); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := p.CreateEnvelopes(req.Interval); err != nil {
		writeDomainError(w, err)
		return
	}
	if allocator != nil {
		if err := p.Allocate(allocator); err != nil {
			writeDomainError(w, err)
			return
		}
	}
	if err := p.Schedule(scheduler); err != nil {
		writeDomainError(w, err)
		return
	}

	dto := PlanDTO{
		PlanID:    uuid.NewString(),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Balance:   balance.StringFixed(fund.Cents),
		Scheduler: schedulerName,
		Allocator: req.Allocator,
	}

	envelopes := p.Envelopes()
	statuses := p.FundingStatus()
	dto.Envelopes = make([]EnvelopeDTO, 0, len(envelopes))
	for i, e := range envelopes {
		flows := e.Schedule().Flows()
		flowDTOs := make([]CashFlowDTO, 0, len(flows))
		for _, cf := range flows {
			flowDTOs = append(flowDTOs, CashFlowDTO{
				BillID: cf.BillID,
				Date:   cf.Date,
				Amount: cf.Amount.StringFixed(fund.Cents),
			})
		}
		st := statuses[i]
		dto.Envelopes = append(dto.Envelopes, EnvelopeDTO{
			Key:         st.Key,
			BillID:      st.BillID,
			Service:     st.Service,
			DueDate:     st.DueDate,
			AmountDue:   st.AmountDue.StringFixed(fund.Cents),
			Allocated:   st.Allocated.StringFixed(fund.Cents),
			Contributed: st.Contributed.StringFixed(fund.Cents),
			Remaining:   st.Remaining.StringFixed(fund.Cents),
			FullyFunded: st.FullyFunded,
			CashFlows:   flowDTOs,
		})
	}

	totals := p.DailyTotals()
	dto.DailyTotals = make([]DayTotalDTO, 0, len(totals))
	for _, t := range totals {
		dto.DailyTotals = append(dto.DailyTotals, DayTotalDTO{
			Date:          t.Date,
			Contributions: t.Contributions.StringFixed(fund.Cents),
			Payouts:       t.Payouts.StringFixed(fund.Cents),
			Net:           t.Net.StringFixed(fund.Cents),
		})
	}

	writeJSON(w, http.StatusCreated, dto)
}

// ListStrategies returns the registered scheduler and allocator names.
func (h *Handler) ListStrategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StrategiesDTO{
		Schedulers: h.Schedulers.Names(),
		Allocators: h.Allocators.Names(),
	})
}

// Health is a liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func toBillDTO(b *fund.Bill) BillDTO {
	return BillDTO{
		ID:          b.ID(),
		Service:     b.Service(),
		AmountDue:   b.AmountDue().StringFixed(fund.Cents),
		Recurring:   b.Recurring(),
		StartDate:   b.StartDate(),
		EndDate:     b.EndDate(),
		Frequency:   string(b.Frequency()),
		Interval:    b.Interval(),
		Occurrences: b.Occurrences(),
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorDTO{Error: msg})
}

// writeDomainError maps engine errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fund.ErrDuplicateBill):
		writeError(w, http.StatusConflict, err.Error())
	case fund.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, fund.ErrOptimizationFailed):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case fund.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
