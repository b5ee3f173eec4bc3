package session

import "github.com/cloudwego/eino/schema"

// DefaultMemoryLimit bounds the history sent with each chat request.
const DefaultMemoryLimit = 20

// Memory is the bounded conversation history replayed to the backend. It only
// ever holds user/assistant pairs, so its length is always even.
type Memory struct {
	limit   int
	entries []*schema.Message
}

// NewMemory creates a memory holding at most limit entries. Non-positive
// limits use DefaultMemoryLimit; odd limits are rounded down to a pair.
func NewMemory(limit int) *Memory {
	if limit <= 0 {
		limit = DefaultMemoryLimit
	}
	if limit%2 != 0 {
		limit--
	}
	if limit < 2 {
		limit = 2
	}
	return &Memory{limit: limit}
}

// Append records one completed exchange and evicts the oldest pairs.
func (m *Memory) Append(query, response string) {
	m.entries = append(m.entries,
		schema.UserMessage(query),
		schema.AssistantMessage(response, nil),
	)
	m.entries = trimTail(m.entries, m.limit)
}

// Snapshot returns copies of the entries, oldest first.
func (m *Memory) Snapshot() []*schema.Message {
	out := make([]*schema.Message, len(m.entries))
	for i, e := range m.entries {
		c := *e
		out[i] = &c
	}
	return out
}

// Len reports the number of entries, not exchanges.
func (m *Memory) Len() int {
	return len(m.entries)
}

// Limit reports the entry bound.
func (m *Memory) Limit() int {
	return m.limit
}

// Reset forgets everything.
func (m *Memory) Reset() {
	m.entries = nil
}

// trimTail keeps the newest entries within maxEntries, dropping whole pairs from the front.
func trimTail(messages []*schema.Message, maxEntries int) []*schema.Message {
	if len(messages) <= maxEntries {
		return messages
	}
	drop := len(messages) - maxEntries
	if drop%2 != 0 {
		drop++
	}
	result := make([]*schema.Message, len(messages)-drop)
	copy(result, messages[drop:])
	return result
}
