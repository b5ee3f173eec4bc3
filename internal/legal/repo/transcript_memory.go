// Package repo stores session transcripts. The in-memory repository is the
// default; Redis is used when a URL is configured.
package repo

import (
	"context"
	"sync"

	"github.com/kenya-legal-ai/lexclient/internal/legal/model"
)

type MemoryTranscriptRepository struct {
	mu    sync.RWMutex
	turns map[string][]model.Turn
}

func NewMemoryTranscriptRepository() *MemoryTranscriptRepository {
	return &MemoryTranscriptRepository{turns: make(map[string][]model.Turn)}
}

func (r *MemoryTranscriptRepository) AddTurn(_ context.Context, sessionID string, turn model.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns[sessionID] = append(r.turns[sessionID], turn)
	return nil
}

func (r *MemoryTranscriptRepository) LoadTranscript(_ context.Context, sessionID string) (*model.Transcript, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	turns := make([]model.Turn, len(r.turns[sessionID]))
	copy(turns, r.turns[sessionID])
	return &model.Transcript{SessionID: sessionID, Turns: turns}, nil
}

func (r *MemoryTranscriptRepository) ClearTranscript(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.turns, sessionID)
	return nil
}

func (r *MemoryTranscriptRepository) GetTurnCount(_ context.Context, sessionID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.turns[sessionID]), nil
}

var _ model.TranscriptRepository = (*MemoryTranscriptRepository)(nil)
