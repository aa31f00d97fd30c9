package room

import (
	"encoding/json"
	"time"
)

// EventType tags an incoming channel event
type EventType string

const (
	// Auction channel
	EventTypeBidPlaced       EventType = "bid-placed"
	EventTypeBuyNowExecuted  EventType = "buy-now-executed"
	EventTypeAuctionExtended EventType = "auction-extended"

	// Chat/presence channel
	EventTypeChatMessageCreated EventType = "chat-message-created"
	EventTypeChatMessageDeleted EventType = "chat-message-deleted"
	EventTypeVisitorList        EventType = "visitor-list"
	EventTypeVisitorJoined      EventType = "visitor-joined"
	EventTypeVisitorLeft        EventType = "visitor-left"
	EventTypeChannelError       EventType = "channel-error"
)

// Event is the envelope for all incoming channel events
type Event struct {
	Type      EventType       `json:"type"`
	AuctionID int64           `json:"auctionId,omitempty"`
	Data      json.RawMessage `json:"data"`
}

// ParseEvent decodes a raw channel frame into an event envelope.
func ParseEvent(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// BidRecord is a full bid as carried inside a bid-placed payload
type BidRecord struct {
	Amount   float64   `json:"amount"`
	Bidder   string    `json:"bidder,omitempty"`
	PlacedAt time.Time `json:"placedAt,omitempty"`
	BuyNow   bool      `json:"isBuyNow,omitempty"`
}

// BidPlacedPayload is the payload for bid-placed and buy-now-executed
// events. Producers are inconsistent: lot identity appears under either
// itemId or itemOnAuctionId, and the bid arrives either as a full record
// or as a bare amount.
type BidPlacedPayload struct {
	ItemID          int64      `json:"itemId,omitempty"`
	ItemOnAuctionID int64      `json:"itemOnAuctionId,omitempty"`
	Amount          float64    `json:"amount,omitempty"`
	User            string     `json:"user,omitempty"`
	Sold            bool       `json:"sold,omitempty"`
	Bid             *BidRecord `json:"bid,omitempty"`
}

// LotID resolves the lot identity from whichever field the producer set.
func (p *BidPlacedPayload) LotID() int64 {
	if p.ItemOnAuctionID != 0 {
		return p.ItemOnAuctionID
	}
	return p.ItemID
}

// Entry normalizes the payload into a ledger entry. A full bid record is
// taken verbatim with the bidder backfilled from the event's user field;
// a bare amount is synthesized into an entry stamped with now.
func (p *BidPlacedPayload) Entry(now time.Time) BidEntry {
	if p.Bid != nil {
		entry := BidEntry{
			Amount:   p.Bid.Amount,
			Bidder:   p.Bid.Bidder,
			PlacedAt: p.Bid.PlacedAt,
			BuyNow:   p.Bid.BuyNow,
		}
		if entry.Bidder == "" {
			entry.Bidder = p.User
		}
		if entry.PlacedAt.IsZero() {
			entry.PlacedAt = now
		}
		return entry
	}
	return BidEntry{
		Amount:   p.Amount,
		Bidder:   p.User,
		PlacedAt: now,
	}
}

// AuctionExtendedPayload carries the replacement end time for an auction
type AuctionExtendedPayload struct {
	NewEndTime time.Time `json:"newEndTime"`
}

// ChatMessageDeletedPayload identifies a deleted chat message
type ChatMessageDeletedPayload struct {
	MessageID int64 `json:"messageId"`
}

// VisitorListPayload carries a full visitor resync
type VisitorListPayload struct {
	Visitors []Visitor `json:"visitors"`
}

// ChannelErrorPayload carries a server-reported channel error
type ChannelErrorPayload struct {
	Message string `json:"message"`
}
