package room

// EffectiveHighestBid returns the maximum amount across all ledger entries,
// or the opening bid when the ledger is empty.
func (l *Lot) EffectiveHighestBid() float64 {
	highest := l.OpeningBid
	for _, e := range l.Ledger {
		if e.Amount > highest {
			highest = e.Amount
		}
	}
	return highest
}

// MinimumBid returns the lowest amount a new bid may carry: the effective
// highest bid plus the increment, or the opening bid when no bids exist.
func (l *Lot) MinimumBid() float64 {
	if len(l.Ledger) == 0 {
		return l.OpeningBid
	}
	return l.EffectiveHighestBid() + l.Increment
}

// AppendBid appends an entry to the lot's ledger. The ledger is append-only;
// entries are never removed or reordered.
func (l *Lot) AppendBid(entry BidEntry) {
	l.Ledger = append(l.Ledger, entry)
}
