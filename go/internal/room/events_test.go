package room

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBidPlacedPayloadLotID(t *testing.T) {
	tests := []struct {
		name    string
		payload BidPlacedPayload
		want    int64
	}{
		{
			name:    "item_id_form",
			payload: BidPlacedPayload{ItemID: 9},
			want:    9,
		},
		{
			name:    "item_on_auction_id_form",
			payload: BidPlacedPayload{ItemOnAuctionID: 9},
			want:    9,
		},
		{
			name:    "item_on_auction_id_wins_when_both_set",
			payload: BidPlacedPayload{ItemID: 3, ItemOnAuctionID: 9},
			want:    9,
		},
		{
			name:    "neither_set",
			payload: BidPlacedPayload{},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.payload.LotID())
		})
	}
}

func TestBidPlacedPayloadEntry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	recorded := now.Add(-2 * time.Second)

	t.Run("bare_amount_synthesizes_entry", func(t *testing.T) {
		p := BidPlacedPayload{Amount: 130, User: "ana"}
		entry := p.Entry(now)
		require.Equal(t, float64(130), entry.Amount)
		require.Equal(t, "ana", entry.Bidder)
		require.Equal(t, now, entry.PlacedAt)
		require.False(t, entry.BuyNow)
	})

	t.Run("full_record_taken_verbatim", func(t *testing.T) {
		p := BidPlacedPayload{
			User: "ana",
			Bid:  &BidRecord{Amount: 140, Bidder: "bo", PlacedAt: recorded, BuyNow: true},
		}
		entry := p.Entry(now)
		require.Equal(t, float64(140), entry.Amount)
		require.Equal(t, "bo", entry.Bidder)
		require.Equal(t, recorded, entry.PlacedAt)
		require.True(t, entry.BuyNow)
	})

	t.Run("record_without_bidder_backfills_from_user", func(t *testing.T) {
		p := BidPlacedPayload{
			User: "ana",
			Bid:  &BidRecord{Amount: 140},
		}
		entry := p.Entry(now)
		require.Equal(t, "ana", entry.Bidder)
		require.Equal(t, now, entry.PlacedAt)
	})
}

func TestParseEvent(t *testing.T) {
	data := []byte(`{"type":"bid-placed","auctionId":3,"data":{"itemOnAuctionId":9,"amount":120,"user":"ana"}}`)

	ev, err := ParseEvent(data)
	require.NoError(t, err)
	require.Equal(t, EventTypeBidPlaced, ev.Type)
	require.Equal(t, int64(3), ev.AuctionID)

	var payload BidPlacedPayload
	require.NoError(t, json.Unmarshal(ev.Data, &payload))
	require.Equal(t, int64(9), payload.LotID())
	require.Equal(t, float64(120), payload.Amount)

	_, err = ParseEvent([]byte("not json"))
	require.Error(t, err)
}
