package room

// ChatTranscript is the append-only, deduplicated message list for one
// auction. Duplicate delivery of the same message id is a no-op; deletion
// by id is final.
type ChatTranscript struct {
	messages []ChatMessage
	seen     map[int64]struct{}
}

// NewChatTranscript creates an empty transcript.
func NewChatTranscript() *ChatTranscript {
	return &ChatTranscript{
		seen: make(map[int64]struct{}),
	}
}

// Reset replaces the transcript with the given snapshot messages,
// deduplicating by id.
func (t *ChatTranscript) Reset(messages []ChatMessage) {
	t.messages = t.messages[:0]
	t.seen = make(map[int64]struct{}, len(messages))
	for _, m := range messages {
		t.Append(m)
	}
}

// Append adds a message unless one with the same id is already stored.
// Returns true when the message was added.
func (t *ChatTranscript) Append(m ChatMessage) bool {
	if _, dup := t.seen[m.ID]; dup {
		return false
	}
	t.seen[m.ID] = struct{}{}
	t.messages = append(t.messages, m)
	return true
}

// Delete removes the message with the given id, if present.
// Returns true when a message was removed.
func (t *ChatTranscript) Delete(id int64) bool {
	if _, ok := t.seen[id]; !ok {
		return false
	}
	delete(t.seen, id)
	for i, m := range t.messages {
		if m.ID == id {
			t.messages = append(t.messages[:i], t.messages[i+1:]...)
			break
		}
	}
	return true
}

// Messages returns the transcript in arrival order.
func (t *ChatTranscript) Messages() []ChatMessage {
	return t.messages
}

// Len returns the number of stored messages.
func (t *ChatTranscript) Len() int {
	return len(t.messages)
}
