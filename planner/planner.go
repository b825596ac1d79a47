/*
Package planner orchestrates a full sinking fund planning cycle.

PURPOSE:
  Wires the engine pieces together in the order a planning run needs
  them: register bills, expand them into occurrences inside the planning
  window, wrap each occurrence in an envelope, allocate the starting
  balance, run a scheduler, and read back projections and funding status.

WORKFLOW:
  p, _ := planner.New(start, end, fund.MustMoney("5000.00"))
  p.AddBills(bills...)
  p.CreateEnvelopes(14)
  p.Allocate(allocation.NewCascadeAllocator(allocation.SortByDueDate, false))
  p.Schedule(schedule.NewSmoothingScheduler())
  totals := p.DailyTotals()
  status := p.FundingStatus()

The planner owns its envelopes for the duration of one cycle. Scheduler
and allocator results are explicit mappings that the planner installs;
nothing mutates envelopes behind its back.
*/
package planner

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/gfbarbieri/sinkingfund/allocation"
	"github.com/gfbarbieri/sinkingfund/fund"
	"github.com/gfbarbieri/sinkingfund/schedule"
)

// Planner coordinates one planning cycle over a date window.
type Planner struct {
	start   fund.Date
	end     fund.Date
	balance decimal.Decimal

	bills     []*fund.Bill
	billIDs   map[string]bool
	envelopes []*fund.Envelope
}

// New creates a planner for the window [start, end] with a starting
// account balance available for allocation.
func New(start, end fund.Date, balance decimal.Decimal) (*Planner, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: planning window is required", fund.ErrInvalidArgument)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: planning end %s precedes start %s", fund.ErrInvalidArgument, end, start)
	}
	if balance.IsNegative() {
		return nil, fmt.Errorf("%w: starting balance cannot be negative, got %s", fund.ErrInvalidArgument, balance)
	}
	return &Planner{
		start:   start,
		end:     end,
		balance: balance,
		billIDs: make(map[string]bool),
	}, nil
}

// Accessors
func (p *Planner) Start() fund.Date            { return p.start }
func (p *Planner) End() fund.Date              { return p.end }
func (p *Planner) Balance() decimal.Decimal    { return p.balance }
func (p *Planner) Bills() []*fund.Bill         { return append([]*fund.Bill(nil), p.bills...) }
func (p *Planner) Envelopes() []*fund.Envelope { return append([]*fund.Envelope(nil), p.envelopes...) }

// AddBills registers bills for this cycle. Bill ids must be unique.
func (p *Planner) AddBills(bills ...*fund.Bill) error {
	for _, b := range bills {
		if p.billIDs[b.ID()] {
			return fmt.Errorf("%w: %s", fund.ErrDuplicateBill, b.ID())
		}
		p.billIDs[b.ID()] = true
		p.bills = append(p.bills, b)
	}
	return nil
}

// Instances expands every registered bill into its occurrences within the
// planning window, ordered by due date then bill id.
func (p *Planner) Instances() []fund.BillInstance {
	var instances []fund.BillInstance
	for _, b := range p.bills {
		instances = append(instances, b.InstancesInRange(p.start, p.end)...)
	}
	sort.SliceStable(instances, func(i, j int) bool {
		if !instances[i].DueDate.Equal(instances[j].DueDate) {
			return instances[i].DueDate.Before(instances[j].DueDate)
		}
		return instances[i].BillID < instances[j].BillID
	})
	return instances
}

// CreateEnvelopes builds one envelope per occurrence in the window, each
// with a contribution window from the planning start to its due date and
// the given contribution cadence in days. Replaces any prior envelopes.
func (p *Planner) CreateEnvelopes(interval int) error {
	if interval < 1 {
		return fmt.Errorf("%w: got %d days", fund.ErrInvalidInterval, interval)
	}
	instances := p.Instances()
	envelopes := make([]*fund.Envelope, 0, len(instances))
	for _, inst := range instances {
		e, err := fund.NewEnvelope(inst, p.start, inst.DueDate, interval)
		if err != nil {
			return err
		}
		envelopes = append(envelopes, e)
	}
	p.envelopes = envelopes
	return nil
}

// Allocate distributes the starting balance across the envelopes and
// installs the result.
func (p *Planner) Allocate(a allocation.Allocator) error {
	result, err := a.Allocate(p.envelopes, p.balance, p.start)
	if err != nil {
		return err
	}
	for _, e := range p.envelopes {
		amount, ok := result[e.Key()]
		if !ok {
			continue
		}
		if err := e.SetInitialAllocation(amount); err != nil {
			return err
		}
	}
	return nil
}

// Schedule runs a scheduler over the envelopes and installs the returned
// plan. Envelopes absent from the plan keep their (empty) schedules.
func (p *Planner) Schedule(s schedule.Scheduler) error {
	plan, err := s.Schedule(p.envelopes, p.start)
	if err != nil {
		return err
	}
	for _, e := range p.envelopes {
		if sched, ok := plan[e.Key()]; ok {
			e.ReplaceSchedule(sched)
		}
	}
	return nil
}

// =============================================================================
// PROJECTIONS
// =============================================================================

// DayTotal is the aggregate movement across all envelopes on one date.
type DayTotal struct {
	Date          fund.Date
	Contributions decimal.Decimal
	Payouts       decimal.Decimal
	Net           decimal.Decimal
}

// DailyTotals aggregates scheduled flows across envelopes per date, in
// chronological order. Dates without flows are omitted.
func (p *Planner) DailyTotals() []DayTotal {
	byDate := make(map[fund.Date]*DayTotal)
	for _, e := range p.envelopes {
		for _, cf := range e.Schedule().Flows() {
			dt, ok := byDate[cf.Date]
			if !ok {
				dt = &DayTotal{Date: cf.Date, Contributions: decimal.Zero, Payouts: decimal.Zero, Net: decimal.Zero}
				byDate[cf.Date] = dt
			}
			if cf.IsInflow() {
				dt.Contributions = dt.Contributions.Add(cf.Amount)
			} else {
				dt.Payouts = dt.Payouts.Add(cf.Amount)
			}
			dt.Net = dt.Net.Add(cf.Amount)
		}
	}

	totals := make([]DayTotal, 0, len(byDate))
	for _, dt := range byDate {
		totals = append(totals, *dt)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Date.Before(totals[j].Date) })
	return totals
}

// EnvelopeStatus summarizes one envelope's funding position at its due
// date.
type EnvelopeStatus struct {
	Key         string
	BillID      string
	Service     string
	DueDate     fund.Date
	AmountDue   decimal.Decimal
	Allocated   decimal.Decimal
	Contributed decimal.Decimal
	Remaining   decimal.Decimal
	FullyFunded bool
}

// FundingStatus reports each envelope's position as of its own due date,
// with payouts excluded so the funded amount is visible.
func (p *Planner) FundingStatus() []EnvelopeStatus {
	statuses := make([]EnvelopeStatus, 0, len(p.envelopes))
	for _, e := range p.envelopes {
		inst := e.Instance()
		contributed := e.Schedule().TotalAsOf(inst.DueDate, fund.ExcludePayouts)
		funded := e.InitialAllocation().Add(contributed)
		remaining := inst.AmountDue.Sub(funded)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		statuses = append(statuses, EnvelopeStatus{
			Key:         e.Key(),
			BillID:      inst.BillID,
			Service:     inst.Service,
			DueDate:     inst.DueDate,
			AmountDue:   inst.AmountDue,
			Allocated:   e.InitialAllocation(),
			Contributed: contributed,
			Remaining:   remaining,
			FullyFunded: funded.GreaterThanOrEqual(inst.AmountDue),
		})
	}
	return statuses
}
