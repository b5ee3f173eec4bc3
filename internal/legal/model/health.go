package model

import "time"

// RetrievalMode tells whether answers can be grounded on the document index.
type RetrievalMode string

const (
	RetrievalGrounded RetrievalMode = "grounded"
	RetrievalDirect   RetrievalMode = "direct"
)

// HealthSnapshot is recomputed on every poll and never persisted.
type HealthSnapshot struct {
	APIOnline    bool
	IndexOnline  bool
	IndexedCount int
	Mode         RetrievalMode
	CheckedAt    time.Time
}

// NewHealthSnapshot derives the retrieval mode: grounded only when the index
// is reachable and holds at least one item.
func NewHealthSnapshot(apiOnline, indexOnline bool, indexedCount int) HealthSnapshot {
	mode := RetrievalDirect
	if indexOnline && indexedCount > 0 {
		mode = RetrievalGrounded
	}
	return HealthSnapshot{
		APIOnline:    apiOnline,
		IndexOnline:  indexOnline,
		IndexedCount: indexedCount,
		Mode:         mode,
		CheckedAt:    time.Now(),
	}
}

// OfflineSnapshot is what a failed poll reports.
func OfflineSnapshot() HealthSnapshot {
	return NewHealthSnapshot(false, false, 0)
}
