package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// RequestState guards chat submission: at most one request in flight.
type RequestState int

const (
	Idle RequestState = iota
	InFlight
)

func (s RequestState) String() string {
	if s == InFlight {
		return "in_flight"
	}
	return "idle"
}

// ChatQuery is everything one chat dispatch sends. History is a snapshot of
// the conversation memory holding only user and assistant messages.
type ChatQuery struct {
	Query   string
	Mode    Mode
	Filters Filters
	History []*schema.Message
}

type TranscriptRepository interface {
	// AddTurn appends a completed turn to the session transcript
	AddTurn(ctx context.Context, sessionID string, turn Turn) error

	// LoadTranscript retrieves every turn recorded for a session, oldest first
	LoadTranscript(ctx context.Context, sessionID string) (*Transcript, error)

	// ClearTranscript removes the session transcript
	ClearTranscript(ctx context.Context, sessionID string) error

	// GetTurnCount returns the number of turns recorded for the session
	GetTurnCount(ctx context.Context, sessionID string) (int, error)
}

// Transcript is a loaded session history with its identifier.
type Transcript struct {
	SessionID string
	Turns     []Turn
}
