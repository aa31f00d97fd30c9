package room

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ApplyBidPlaced merges a bid-placed payload into the room. Events for
// lots outside the room are ignored before any other processing. A sold
// flag on the payload transitions the lot to sold in the same step.
// Returns true when the room changed.
func (r *AuctionRoom) ApplyBidPlaced(p *BidPlacedPayload, now time.Time) bool {
	lot := r.Lot(p.LotID())
	if lot == nil {
		log.Debug().
			Int64("auction_id", r.ID).
			Int64("lot_ref", p.LotID()).
			Msg("bid event for unknown lot, ignoring")
		return false
	}

	entry := p.Entry(now)
	lot.AppendBid(entry)
	if p.Sold || entry.BuyNow {
		lot.MarkSold()
	}

	log.Debug().
		Int64("auction_id", r.ID).
		Int64("lot_id", lot.ID).
		Float64("amount", entry.Amount).
		Str("bidder", entry.Bidder).
		Bool("sold", lot.Sold()).
		Msg("bid merged into ledger")
	return true
}

// ApplyBuyNowExecuted marks the referenced lot sold. The transition is
// terminal; later bid events for the lot never reopen it.
func (r *AuctionRoom) ApplyBuyNowExecuted(p *BidPlacedPayload, now time.Time) bool {
	lot := r.Lot(p.LotID())
	if lot == nil {
		return false
	}

	if p.Amount > 0 || p.Bid != nil {
		entry := p.Entry(now)
		entry.BuyNow = true
		lot.AppendBid(entry)
	}
	lot.MarkSold()

	log.Debug().
		Int64("auction_id", r.ID).
		Int64("lot_id", lot.ID).
		Msg("lot sold via buy-now")
	return true
}

// ExtendTo replaces the auction end time wholesale.
func (r *AuctionRoom) ExtendTo(t time.Time) {
	r.EndTime = t
	log.Debug().
		Int64("auction_id", r.ID).
		Time("end_time", t).
		Msg("auction end time extended")
}
