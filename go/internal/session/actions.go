package session

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/saleroom/saleroom/go/internal/room"
)

// BuyNowConfirmation is the phrase a caller must type before a buy-now
// is attempted. Buying out is irreversible; a click is not enough.
const BuyNowConfirmation = "BUY NOW"

// PlaceBid validates and submits a bid for the viewed lot. Validation
// happens before any remote call: the caller must be authenticated, the
// amount must meet the effective minimum, and the verification code must
// match the current challenge. Any failure rotates the challenge. The
// bid is NOT reflected locally; the authoritative ledger entry arrives
// over the auction channel.
func (s *Session) PlaceBid(ctx context.Context, amount float64, verificationCode string) error {
	if !s.cred.Authenticated() {
		return ErrNotAuthenticated
	}

	s.mu.Lock()
	if s.auction == nil {
		s.mu.Unlock()
		return ErrRoomNotLoaded
	}
	lot := s.auction.Lot(s.scope.LotID)
	if lot == nil {
		s.mu.Unlock()
		return ErrLotNotFound
	}
	if lot.Sold() {
		s.mu.Unlock()
		return ErrLotSold
	}
	if amount < lot.MinimumBid() {
		s.challenge = newChallenge(s.clock)
		s.mu.Unlock()
		return ErrBidTooLow
	}
	if !s.challenge.Matches(verificationCode) {
		s.challenge = newChallenge(s.clock)
		s.mu.Unlock()
		return ErrVerificationMismatch
	}
	auctionID, lotID := s.scope.AuctionID, lot.ID
	s.mu.Unlock()

	if err := s.api.PlaceBid(ctx, auctionID, lotID, amount, false); err != nil {
		s.rotateChallenge()
		log.Warn().Err(err).Float64("amount", amount).Msg("bid rejected by server")
		return err
	}

	s.rotateChallenge()
	// Re-announce so the server pushes a fresh merge of the ledger.
	if err := s.channels.SubscribeAuction(); err != nil {
		log.Debug().Err(err).Msg("post-bid resubscribe skipped")
	}

	log.Info().
		Int64("auction_id", auctionID).
		Int64("lot_id", lotID).
		Float64("amount", amount).
		Msg("bid submitted")
	return nil
}

// BuyNow validates and submits a buy-out of the viewed lot. On success
// the lot is marked sold locally and a pending settlement is recorded
// immediately, without waiting for the server's broadcast echo: the sale
// has buyer-visible follow-on consequences that must not ride on the
// event channel's round trip.
func (s *Session) BuyNow(ctx context.Context, confirmation string) error {
	if !s.cred.Authenticated() {
		return ErrNotAuthenticated
	}

	s.mu.Lock()
	if s.auction == nil {
		s.mu.Unlock()
		return ErrRoomNotLoaded
	}
	lot := s.auction.Lot(s.scope.LotID)
	if lot == nil {
		s.mu.Unlock()
		return ErrLotNotFound
	}
	if lot.Sold() {
		s.mu.Unlock()
		return ErrLotSold
	}
	if lot.BuyNowPrice == nil {
		s.mu.Unlock()
		return ErrNoBuyNowPrice
	}
	if !strings.EqualFold(strings.TrimSpace(confirmation), BuyNowConfirmation) {
		s.mu.Unlock()
		return ErrConfirmationMismatch
	}
	auctionID, lotID, price := s.scope.AuctionID, lot.ID, *lot.BuyNowPrice
	s.mu.Unlock()

	if err := s.api.PlaceBid(ctx, auctionID, lotID, price, true); err != nil {
		log.Warn().Err(err).Msg("buy-now rejected by server")
		return err
	}

	// The scope may have changed while the write was in flight; only mark
	// the lot sold if the session is still viewing the room the purchase
	// targeted. The settlement below is recorded either way.
	s.mu.Lock()
	if s.auction != nil && s.scope.AuctionID == auctionID {
		if lot := s.auction.Lot(lotID); lot != nil {
			lot.MarkSold()
		}
	}
	s.mu.Unlock()

	s.settlements.Append(room.PendingSettlement{
		AuctionID:  auctionID,
		LotID:      lotID,
		Amount:     price,
		RecordedAt: s.clock.Now(),
	})

	log.Info().
		Int64("auction_id", auctionID).
		Int64("lot_id", lotID).
		Float64("amount", price).
		Msg("lot bought out, settlement pending")
	return nil
}

// SendChatMessage composes and submits a chat message, optionally
// replying to another message. There is no local echo: the message
// materializes when the server rebroadcasts it on the chat channel.
func (s *Session) SendChatMessage(body string, replyTo *int64) error {
	if !s.cred.Authenticated() {
		return ErrNotAuthenticated
	}
	if strings.TrimSpace(body) == "" {
		return ErrEmptyMessage
	}
	return s.channels.SendChatMessage(body, replyTo)
}

// DeleteChatMessage asks the backend to remove a chat message. The local
// transcript is only mutated by the resulting chat-message-deleted event.
func (s *Session) DeleteChatMessage(ctx context.Context, messageID int64) error {
	if !s.cred.Authenticated() {
		return ErrNotAuthenticated
	}
	if err := s.api.DeleteChatMessage(ctx, messageID); err != nil {
		log.Warn().Err(err).Int64("message_id", messageID).Msg("chat delete rejected by server")
		return err
	}
	return nil
}

func (s *Session) rotateChallenge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenge = newChallenge(s.clock)
}
