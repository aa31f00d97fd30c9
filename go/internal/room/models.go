package room

import (
	"time"
)

// LotStatus represents the sale state of a lot
type LotStatus string

const (
	LotStatusOpen LotStatus = "open"
	LotStatusSold LotStatus = "sold"
)

// AuctionRoom is the aggregate for one viewing session of an auction
type AuctionRoom struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerName   string    `json:"owner_name"`
	EndTime     time.Time `json:"end_time"`
	Lots        []*Lot    `json:"lots"`
}

// Lot is one item under auction within a room
type Lot struct {
	ID          int64      `json:"id"`
	ItemID      int64      `json:"item_id"`
	Title       string     `json:"title"`
	OpeningBid  float64    `json:"opening_bid"`
	Increment   float64    `json:"increment"`
	BuyNowPrice *float64   `json:"buy_now_price,omitempty"`
	Status      LotStatus  `json:"status"`
	Ledger      []BidEntry `json:"ledger"`
}

// BidEntry is one record in a lot's append-only bid ledger
type BidEntry struct {
	Amount   float64   `json:"amount"`
	Bidder   string    `json:"bidder,omitempty"`
	PlacedAt time.Time `json:"placed_at"`
	BuyNow   bool      `json:"is_buy_now,omitempty"`
}

// ChatMessage is one entry in an auction's chat transcript
type ChatMessage struct {
	ID         int64     `json:"id"`
	AuthorID   int64     `json:"author_id,omitempty"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	ParentID   *int64    `json:"parent_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Visitor is a distinct viewer currently watching a lot.
// ID is zero for anonymous viewers, which are keyed by display name instead.
type Visitor struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// Lot returns the lot matching the given identifier, accepting both the
// lot's own id and the underlying item id. Upstream producers use either
// form interchangeably. Returns nil when no lot matches.
func (r *AuctionRoom) Lot(id int64) *Lot {
	for _, l := range r.Lots {
		if l.Matches(id) {
			return l
		}
	}
	return nil
}

// Matches reports whether the given identifier refers to this lot,
// by either the lot id or the item id.
func (l *Lot) Matches(id int64) bool {
	return id != 0 && (l.ID == id || l.ItemID == id)
}

// MarkSold transitions the lot to sold. The transition is monotonic:
// a sold lot never reopens.
func (l *Lot) MarkSold() {
	l.Status = LotStatusSold
}

// Sold reports whether the lot has been sold.
func (l *Lot) Sold() bool {
	return l.Status == LotStatusSold
}
