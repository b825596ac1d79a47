package api

import (
	"sort"
	"sync"

	"github.com/gfbarbieri/sinkingfund/fund"
)

// =============================================================================
// BILL STORE - In-memory bill registry
// =============================================================================

// BillStore holds the bills registered with the server. Purely in-memory:
// the planning engine persists nothing, so the store lives and dies with
// the process.
type BillStore struct {
	mu    sync.RWMutex
	bills map[string]*fund.Bill
}

// NewBillStore creates an empty store.
func NewBillStore() *BillStore {
	return &BillStore{bills: make(map[string]*fund.Bill)}
}

// Add registers a bill. Ids must be unique.
func (s *BillStore) Add(b *fund.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.bills[b.ID()]; exists {
		return fund.ErrDuplicateBill
	}
	s.bills[b.ID()] = b
	return nil
}

// Get returns the bill with the given id.
func (s *BillStore) Get(id string) (*fund.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bills[id]
	if !ok {
		return nil, fund.ErrBillNotFound
	}
	return b, nil
}

// Delete removes the bill with the given id.
func (s *BillStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bills[id]; !ok {
		return fund.ErrBillNotFound
	}
	delete(s.bills, id)
	return nil
}

// List returns all bills ordered by id.
func (s *BillStore) List() []*fund.Bill {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bills := make([]*fund.Bill, 0, len(s.bills))
	for _, b := range s.bills {
		bills = append(bills, b)
	}
	sort.Slice(bills, func(i, j int) bool { return bills[i].ID() < bills[j].ID() })
	return bills
}
