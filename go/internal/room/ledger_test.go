package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEffectiveHighestBid(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		opening float64
		amounts []float64
		want    float64
	}{
		{
			name:    "empty_ledger_falls_back_to_opening_bid",
			opening: 100,
			amounts: nil,
			want:    100,
		},
		{
			name:    "single_bid",
			opening: 100,
			amounts: []float64{120},
			want:    120,
		},
		{
			name:    "out_of_order_amounts",
			opening: 100,
			amounts: []float64{150, 120, 140},
			want:    150,
		},
		{
			name:    "bid_below_opening_does_not_lower_highest",
			opening: 100,
			amounts: []float64{50},
			want:    100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lot := &Lot{ID: 1, OpeningBid: tt.opening, Increment: 10, Status: LotStatusOpen}
			for _, a := range tt.amounts {
				lot.AppendBid(BidEntry{Amount: a, PlacedAt: now})
			}
			require.Equal(t, tt.want, lot.EffectiveHighestBid())
		})
	}
}

func TestMinimumBid(t *testing.T) {
	lot := &Lot{ID: 1, OpeningBid: 100, Increment: 10, Status: LotStatusOpen}

	// Scenario: empty ledger, openingBid=100, increment=10.
	require.Equal(t, float64(100), lot.MinimumBid())

	lot.AppendBid(BidEntry{Amount: 100})
	require.Equal(t, float64(110), lot.MinimumBid())
}

func TestMinimumBidIsMonotonic(t *testing.T) {
	lot := &Lot{ID: 1, OpeningBid: 100, Increment: 10, Status: LotStatusOpen}

	prev := lot.MinimumBid()
	for _, amount := range []float64{100, 115, 110, 200, 150} {
		lot.AppendBid(BidEntry{Amount: amount})
		min := lot.MinimumBid()
		require.GreaterOrEqual(t, min, prev, "minimum bid regressed after amount %v", amount)
		prev = min
	}
}

func TestMarkSoldIsTerminal(t *testing.T) {
	lot := &Lot{ID: 1, OpeningBid: 100, Status: LotStatusOpen}
	lot.MarkSold()
	require.True(t, lot.Sold())

	// Further ledger activity never reopens the lot.
	lot.AppendBid(BidEntry{Amount: 500})
	require.True(t, lot.Sold())
}

func TestLotMatchesEitherIdentity(t *testing.T) {
	lot := &Lot{ID: 9, ItemID: 42}

	require.True(t, lot.Matches(9))
	require.True(t, lot.Matches(42))
	require.False(t, lot.Matches(7))
	require.False(t, lot.Matches(0))
}
