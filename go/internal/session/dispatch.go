package session

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/saleroom/saleroom/go/internal/room"
)

// handleAuctionFrame reconciles one frame from the auction channel.
// Malformed payloads and events outside the current scope are no-ops.
func (s *Session) handleAuctionFrame(data []byte) {
	ev, err := room.ParseEvent(data)
	if err != nil {
		log.Debug().Err(err).Msg("malformed auction frame dropped")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inScope(ev) || s.auction == nil {
		return
	}

	switch ev.Type {
	case room.EventTypeBidPlaced:
		var payload room.BidPlacedPayload
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			log.Debug().Err(err).Msg("malformed bid-placed payload dropped")
			return
		}
		s.auction.ApplyBidPlaced(&payload, s.clock.Now())

	case room.EventTypeBuyNowExecuted:
		var payload room.BidPlacedPayload
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			log.Debug().Err(err).Msg("malformed buy-now payload dropped")
			return
		}
		s.auction.ApplyBuyNowExecuted(&payload, s.clock.Now())

	case room.EventTypeAuctionExtended:
		var payload room.AuctionExtendedPayload
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			log.Debug().Err(err).Msg("malformed auction-extended payload dropped")
			return
		}
		s.auction.ExtendTo(payload.NewEndTime)
		s.countdown = room.RemainingUntil(s.auction.EndTime, s.clock.Now())

	default:
		log.Debug().Str("type", string(ev.Type)).Msg("unhandled auction event")
	}
}

// handleChatFrame reconciles one frame from the chat/presence channel.
func (s *Session) handleChatFrame(data []byte) {
	ev, err := room.ParseEvent(data)
	if err != nil {
		log.Debug().Err(err).Msg("malformed chat frame dropped")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inScope(ev) {
		return
	}

	switch ev.Type {
	case room.EventTypeChatMessageCreated:
		var msg room.ChatMessage
		if err := json.Unmarshal(ev.Data, &msg); err != nil {
			log.Debug().Err(err).Msg("malformed chat message dropped")
			return
		}
		// Idempotent: duplicate delivery of the same id is a no-op, and
		// the echo of a locally-sent message lands here too.
		s.transcript.Append(msg)

	case room.EventTypeChatMessageDeleted:
		var payload room.ChatMessageDeletedPayload
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			return
		}
		s.transcript.Delete(payload.MessageID)

	case room.EventTypeVisitorList:
		var payload room.VisitorListPayload
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			return
		}
		s.presence.ReplaceAll(payload.Visitors)
		if self, ok := s.selfVisitor(); ok {
			s.presence.Upsert(self)
		}

	case room.EventTypeVisitorJoined:
		var v room.Visitor
		if err := json.Unmarshal(ev.Data, &v); err != nil {
			return
		}
		s.presence.Upsert(v)

	case room.EventTypeVisitorLeft:
		var v room.Visitor
		if err := json.Unmarshal(ev.Data, &v); err != nil {
			return
		}
		s.presence.Remove(v)

	case room.EventTypeChannelError:
		var payload room.ChannelErrorPayload
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			return
		}
		// Non-fatal: the channel heals itself via reconnect+re-announce.
		log.Warn().Str("message", payload.Message).Msg("chat channel reported error")

	default:
		log.Debug().Str("type", string(ev.Type)).Msg("unhandled chat event")
	}
}

// inScope reports whether an event targets the currently viewed auction.
// Events without an auction id are assumed scoped by the channel itself.
func (s *Session) inScope(ev *room.Event) bool {
	return ev.AuctionID == 0 || ev.AuctionID == s.scope.AuctionID
}
