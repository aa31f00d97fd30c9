package room

import (
	"sync"
	"time"
)

// PendingSettlement records a successful buy-now awaiting payment.
type PendingSettlement struct {
	AuctionID  int64     `json:"auction_id"`
	LotID      int64     `json:"lot_id"`
	Amount     float64   `json:"amount"`
	RecordedAt time.Time `json:"recorded_at"`
}

// SettlementStore is the session-owned pending-settlement list. It is
// append-only behind a narrow interface; settlement itself happens in an
// external payments system.
type SettlementStore struct {
	mu      sync.Mutex
	entries []PendingSettlement
}

// NewSettlementStore creates an empty store.
func NewSettlementStore() *SettlementStore {
	return &SettlementStore{}
}

// Append records a pending settlement.
func (s *SettlementStore) Append(entry PendingSettlement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

// List returns a copy of all recorded settlements in append order.
func (s *SettlementStore) List() []PendingSettlement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PendingSettlement, len(s.entries))
	copy(out, s.entries)
	return out
}
