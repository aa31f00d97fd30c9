package room

import "strconv"

// PresenceTracker maintains the deduplicated set of viewers currently
// watching a lot. It is a membership set, not a history: visitors are
// upserted on join/heartbeat, removed on explicit leave, and replaced
// wholesale on a full-list resync.
type PresenceTracker struct {
	order []string
	byKey map[string]Visitor
}

// NewPresenceTracker creates an empty presence tracker.
func NewPresenceTracker() *PresenceTracker {
	return &PresenceTracker{
		byKey: make(map[string]Visitor),
	}
}

// Key returns the dedup key for a visitor: the user id when present,
// otherwise the display name.
func (v Visitor) Key() string {
	if v.ID != 0 {
		return "id:" + strconv.FormatInt(v.ID, 10)
	}
	return "name:" + v.Name
}

// Upsert inserts or replaces a visitor by identity key.
func (p *PresenceTracker) Upsert(v Visitor) {
	key := v.Key()
	if _, exists := p.byKey[key]; !exists {
		p.order = append(p.order, key)
	}
	p.byKey[key] = v
}

// Remove drops the visitor with the given identity key, if present.
func (p *PresenceTracker) Remove(v Visitor) {
	key := v.Key()
	if _, exists := p.byKey[key]; !exists {
		return
	}
	delete(p.byKey, key)
	for i, k := range p.order {
		if k == key {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// ReplaceAll swaps the entire set for a full-sync visitor list,
// deduplicating on arrival with last-seen-wins on key collision.
func (p *PresenceTracker) ReplaceAll(visitors []Visitor) {
	p.order = p.order[:0]
	p.byKey = make(map[string]Visitor, len(visitors))
	for _, v := range visitors {
		p.Upsert(v)
	}
}

// Visitors returns the current set in arrival order.
func (p *PresenceTracker) Visitors() []Visitor {
	out := make([]Visitor, 0, len(p.order))
	for _, key := range p.order {
		out = append(out, p.byKey[key])
	}
	return out
}

// Count returns the number of distinct visitors.
func (p *PresenceTracker) Count() int {
	return len(p.byKey)
}
