package session

import (
	"github.com/saleroom/saleroom/go/internal/room"
)

// Read-side accessors for the rendering layer. Each returns a consistent
// view taken under the session lock.

// LoadError returns the blocking room-level load failure, if any.
func (s *Session) LoadError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Loaded reports whether the auction snapshot has been applied.
func (s *Session) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auction != nil
}

// AuctionTitle returns the room's display title, or "" before load.
func (s *Session) AuctionTitle() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.auction == nil {
		return ""
	}
	return s.auction.Title
}

// ViewedLot returns a copy of the currently viewed lot, or nil.
func (s *Session) ViewedLot() *room.Lot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.auction == nil {
		return nil
	}
	lot := s.auction.Lot(s.scope.LotID)
	if lot == nil {
		return nil
	}
	cp := *lot
	cp.Ledger = append([]room.BidEntry(nil), lot.Ledger...)
	return &cp
}

// MinimumBid returns the lowest acceptable bid for the viewed lot,
// or 0 when no lot is loaded.
func (s *Session) MinimumBid() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.auction == nil {
		return 0
	}
	lot := s.auction.Lot(s.scope.LotID)
	if lot == nil {
		return 0
	}
	return lot.MinimumBid()
}

// Countdown returns the latest derived countdown.
func (s *Session) Countdown() room.Countdown {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countdown
}

// Visitors returns the current deduplicated viewer set.
func (s *Session) Visitors() []room.Visitor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.presence.Visitors()
}

// Messages returns the chat transcript in arrival order.
func (s *Session) Messages() []room.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]room.ChatMessage(nil), s.transcript.Messages()...)
}

// VerificationChallenge returns the currently valid challenge to display
// to the viewer.
func (s *Session) VerificationChallenge() Challenge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.challenge
}

// PendingSettlements returns buy-outs recorded by this session that
// still await payment.
func (s *Session) PendingSettlements() []room.PendingSettlement {
	return s.settlements.List()
}
