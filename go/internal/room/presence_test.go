package room

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPresenceUpsertDeduplicates(t *testing.T) {
	p := NewPresenceTracker()

	// Scenario: visitor-joined {id:7,name:"Ana"} delivered twice.
	p.Upsert(Visitor{ID: 7, Name: "Ana"})
	p.Upsert(Visitor{ID: 7, Name: "Ana"})
	require.Equal(t, 1, p.Count())
}

func TestPresenceUpsertLastWins(t *testing.T) {
	p := NewPresenceTracker()
	p.Upsert(Visitor{ID: 7, Name: "Ana"})
	p.Upsert(Visitor{ID: 7, Name: "Ana B."})

	require.Equal(t, 1, p.Count())
	require.Equal(t, "Ana B.", p.Visitors()[0].Name)
}

func TestPresenceAnonymousKeyedByName(t *testing.T) {
	p := NewPresenceTracker()
	p.Upsert(Visitor{Name: "guest"})
	p.Upsert(Visitor{Name: "guest"})
	p.Upsert(Visitor{Name: "other"})

	require.Equal(t, 2, p.Count())
}

func TestPresenceRemove(t *testing.T) {
	p := NewPresenceTracker()
	p.Upsert(Visitor{ID: 7, Name: "Ana"})
	p.Upsert(Visitor{ID: 8, Name: "Bo"})

	p.Remove(Visitor{ID: 7})
	require.Equal(t, 1, p.Count())
	require.Equal(t, int64(8), p.Visitors()[0].ID)

	// Removing someone not present is a no-op.
	p.Remove(Visitor{ID: 99})
	require.Equal(t, 1, p.Count())
}

func TestPresenceReplaceAll(t *testing.T) {
	p := NewPresenceTracker()
	p.Upsert(Visitor{ID: 1, Name: "stale"})

	p.ReplaceAll([]Visitor{
		{ID: 7, Name: "Ana"},
		{ID: 8, Name: "Bo"},
		{ID: 7, Name: "Ana B."},
	})

	require.Equal(t, 2, p.Count())
	visitors := p.Visitors()
	require.Equal(t, "Ana B.", visitors[0].Name)
	require.Equal(t, "Bo", visitors[1].Name)
}
