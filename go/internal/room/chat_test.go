package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChatTranscriptAppendIsIdempotent(t *testing.T) {
	tr := NewChatTranscript()
	msg := ChatMessage{ID: 55, AuthorName: "ana", Body: "hi", CreatedAt: time.Now()}

	// Scenario: the same chat-message-created event delivered twice.
	require.True(t, tr.Append(msg))
	require.False(t, tr.Append(msg))
	require.Equal(t, 1, tr.Len())
	require.Equal(t, int64(55), tr.Messages()[0].ID)
}

func TestChatTranscriptDelete(t *testing.T) {
	tr := NewChatTranscript()
	tr.Append(ChatMessage{ID: 1, Body: "first"})
	tr.Append(ChatMessage{ID: 2, Body: "second"})

	require.True(t, tr.Delete(1))
	require.Equal(t, 1, tr.Len())
	require.Equal(t, int64(2), tr.Messages()[0].ID)

	// Deleting twice, or deleting an unknown id, is a no-op.
	require.False(t, tr.Delete(1))
	require.False(t, tr.Delete(99))
}

func TestChatTranscriptPreservesArrivalOrderAndReplies(t *testing.T) {
	tr := NewChatTranscript()
	parent := int64(1)
	tr.Append(ChatMessage{ID: 1, Body: "question"})
	tr.Append(ChatMessage{ID: 2, Body: "answer", ParentID: &parent})
	tr.Append(ChatMessage{ID: 3, Body: "aside"})

	msgs := tr.Messages()
	require.Equal(t, []int64{1, 2, 3}, []int64{msgs[0].ID, msgs[1].ID, msgs[2].ID})
	require.NotNil(t, msgs[1].ParentID)
	require.Equal(t, int64(1), *msgs[1].ParentID)
}

func TestChatTranscriptReset(t *testing.T) {
	tr := NewChatTranscript()
	tr.Append(ChatMessage{ID: 7, Body: "stale"})

	tr.Reset([]ChatMessage{
		{ID: 1, Body: "a"},
		{ID: 2, Body: "b"},
		{ID: 2, Body: "b again"},
	})

	require.Equal(t, 2, tr.Len())
	require.False(t, tr.Delete(7))
}
