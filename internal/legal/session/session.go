// Package session owns the state of one chat session: the request lifecycle,
// the bounded memory replayed to the backend, and the log of completed turns.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	errx "github.com/kenya-legal-ai/lexclient/internal/core/error"
	"github.com/kenya-legal-ai/lexclient/internal/legal/model"
	logx "github.com/kenya-legal-ai/lexclient/pkg/logger"
)

var (
	errDispatchAborted = errors.New("dispatch aborted before completion")
	errEmptyAnswer     = errors.New("empty answer")
)

// Dispatcher sends one chat query.
type Dispatcher interface {
	Chat(ctx context.Context, q model.ChatQuery) (*model.AnswerPayload, error)
}

// Options are the per-request settings. They travel with each request and are
// never stored in memory.
type Options struct {
	Mode    model.Mode
	Filters model.Filters
}

// Request is an accepted submission. History is the memory snapshot taken at
// acceptance time.
type Request struct {
	Query     string
	Options   Options
	History   []*schema.Message
	StartedAt time.Time
}

// ChatQuery builds the dispatch payload.
func (r *Request) ChatQuery() model.ChatQuery {
	return model.ChatQuery{
		Query:   r.Query,
		Mode:    r.Options.Mode,
		Filters: r.Options.Filters,
		History: r.History,
	}
}

// Outcome is the settled result of a request. Exactly one of Turn and
// Failure is set.
type Outcome struct {
	Query    string
	Turn     *model.Turn
	Failure  *errx.Failure
	Guidance errx.Guidance
}

// OK reports whether the request produced an answer.
func (o Outcome) OK() bool {
	return o.Turn != nil
}

// Session is the explicit state object for one conversation.
type Session struct {
	mu sync.Mutex

	id         string
	dispatcher Dispatcher
	transcript model.TranscriptRepository
	now        func() time.Time

	state   model.RequestState
	pending *Request
	memory  *Memory
	turns   []model.Turn
	options Options
	seed    []model.Turn
}

// Option configures a Session.
type Option func(*Session)

// WithMemoryLimit bounds the conversation memory.
func WithMemoryLimit(n int) Option {
	return func(s *Session) { s.memory = NewMemory(n) }
}

// WithTranscript records completed turns in repo.
func WithTranscript(repo model.TranscriptRepository) Option {
	return func(s *Session) { s.transcript = repo }
}

// WithOptions sets the initial per-request options.
func WithOptions(o Options) Option {
	return func(s *Session) { s.options = o }
}

// WithID resumes a session under an existing identifier.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// WithTurns seeds a resumed session. Each turn also re-enters memory, so
// only the newest exchanges survive the bound.
func WithTurns(turns []model.Turn) Option {
	return func(s *Session) { s.seed = turns }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates an idle session with empty memory.
func New(d Dispatcher, opts ...Option) *Session {
	s := &Session{
		id:         uuid.NewString(),
		dispatcher: d,
		now:        time.Now,
		memory:     NewMemory(DefaultMemoryLimit),
		options:    Options{Mode: model.ModeResearch},
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, t := range s.seed {
		s.memory.Append(t.Query, t.Response.Text)
		s.turns = append(s.turns, t)
	}
	s.seed = nil
	return s
}

func (s *Session) ID() string { return s.id }

// State reports the request state.
func (s *Session) State() model.RequestState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pending returns the in-flight request, or nil when idle.
func (s *Session) Pending() *Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Turns returns a copy of the completed turns, oldest first.
func (s *Session) Turns() []model.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Memory returns a snapshot of the conversation memory.
func (s *Session) Memory() []*schema.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memory.Snapshot()
}

// IsFirstTurn reports whether nothing has been asked yet, the welcome state.
func (s *Session) IsFirstTurn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns) == 0 && s.pending == nil
}

// Options returns the options the next request will carry.
func (s *Session) Options() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options
}

// SetMode changes the mode for subsequent requests.
func (s *Session) SetMode(m model.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options.Mode = m
}

// SetFilters changes the retrieval filters for subsequent requests.
func (s *Session) SetFilters(f model.Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options.Filters = f
}

// Begin accepts a submission. It is rejected, with no state change, when the
// trimmed text is empty or a request is already in flight.
func (s *Session) Begin(text string) (*Request, bool) {
	query := strings.TrimSpace(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	if query == "" {
		logx.Debug().Str("session", s.id).Msg("rejected empty submission")
		return nil, false
	}
	if s.state == model.InFlight {
		logx.Debug().Str("session", s.id).Msg("rejected submission while a request is in flight")
		return nil, false
	}

	req := &Request{
		Query:     query,
		Options:   s.options,
		History:   s.memory.Snapshot(),
		StartedAt: s.now(),
	}
	s.state = model.InFlight
	s.pending = req

	logx.Debug().
		Str("session", s.id).
		Str("mode", string(req.Options.Mode)).
		Int("history", len(req.History)).
		Msg("accepted submission")
	return req, true
}

// Dispatch sends req. It reads no session state, so it is safe to run off the
// event loop.
func (s *Session) Dispatch(ctx context.Context, req *Request) (*model.AnswerPayload, error) {
	return s.dispatcher.Chat(ctx, req.ChatQuery())
}

// Settle completes req. On success the exchange enters memory and the turn
// log; on failure memory is untouched. The session returns to Idle either way.
func (s *Session) Settle(ctx context.Context, req *Request, answer *model.AnswerPayload, err error) Outcome {
	if err == nil && answer == nil {
		err = errx.Transport(errEmptyAnswer)
	}

	s.mu.Lock()
	if s.pending != req {
		logx.Warn().Str("session", s.id).Msg("settled a request that is not pending")
	}
	s.state = model.Idle
	s.pending = nil

	out := Outcome{Query: req.Query}
	if err != nil {
		s.mu.Unlock()
		out.Failure = errx.AsFailure(err)
		out.Guidance = errx.Classify(out.Failure)
		logx.Warn().
			Err(err).
			Str("session", s.id).
			Str("category", out.Guidance.Category.String()).
			Msg("chat request failed")
		return out
	}

	turn := model.Turn{Query: req.Query, Response: *answer, At: s.now()}
	s.memory.Append(req.Query, answer.Text)
	s.turns = append(s.turns, turn)
	out.Turn = &turn
	s.mu.Unlock()

	logx.Debug().
		Str("session", s.id).
		Dur("latency", turn.At.Sub(req.StartedAt)).
		Int("sources", len(answer.Sources)).
		Msg("chat request settled")

	s.record(ctx, turn)
	return out
}

// SubmitQuery runs one request to completion. The second result is false when
// the submission was rejected and nothing was sent.
func (s *Session) SubmitQuery(ctx context.Context, text string) (out Outcome, accepted bool) {
	req, ok := s.Begin(text)
	if !ok {
		return Outcome{}, false
	}

	var answer *model.AnswerPayload
	err := errDispatchAborted
	defer func() {
		out = s.Settle(ctx, req, answer, err)
	}()

	answer, err = s.Dispatch(ctx, req)
	return out, true
}

// Reset clears memory and turns. Requests in flight are unaffected.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memory.Reset()
	s.turns = nil
}

// record persists a turn. Transcript failures never reach session state.
func (s *Session) record(ctx context.Context, turn model.Turn) {
	if s.transcript == nil {
		return
	}
	if err := s.transcript.AddTurn(ctx, s.id, turn); err != nil {
		logx.Warn().Err(err).Str("session", s.id).Msg("failed to record transcript turn")
	}
}
