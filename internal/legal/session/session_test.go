package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/kenya-legal-ai/lexclient/internal/core/error"
	"github.com/kenya-legal-ai/lexclient/internal/legal/model"
)

type fakeDispatcher struct {
	mu     sync.Mutex
	calls  []model.ChatQuery
	answer func(q model.ChatQuery) (*model.AnswerPayload, error)
}

func (f *fakeDispatcher) Chat(_ context.Context, q model.ChatQuery) (*model.AnswerPayload, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	f.mu.Unlock()
	if f.answer == nil {
		return &model.AnswerPayload{Text: "answer to " + q.Query}, nil
	}
	return f.answer(q)
}

func (f *fakeDispatcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type recordingRepo struct {
	turns []model.Turn
	err   error
}

func (r *recordingRepo) AddTurn(_ context.Context, _ string, turn model.Turn) error {
	if r.err != nil {
		return r.err
	}
	r.turns = append(r.turns, turn)
	return nil
}

func (r *recordingRepo) LoadTranscript(_ context.Context, id string) (*model.Transcript, error) {
	return &model.Transcript{SessionID: id, Turns: r.turns}, nil
}

func (r *recordingRepo) ClearTranscript(context.Context, string) error { return nil }

func (r *recordingRepo) GetTurnCount(context.Context, string) (int, error) { return len(r.turns), nil }

func TestSubmitQueryAppendsPair(t *testing.T) {
	d := &fakeDispatcher{answer: func(q model.ChatQuery) (*model.AnswerPayload, error) {
		assert.Empty(t, q.History)
		return &model.AnswerPayload{
			Text:      "Article 50 guarantees...",
			Sources:   []model.Source{{Citation: "Const. Art. 50"}},
			FollowUps: []string{"What about Article 49?"},
		}, nil
	}}
	s := New(d)
	assert.True(t, s.IsFirstTurn())

	out, ok := s.SubmitQuery(context.Background(), "  What is Article 50?  ")
	require.True(t, ok)
	require.True(t, out.OK())
	assert.Equal(t, "What is Article 50?", out.Turn.Query)

	mem := s.Memory()
	require.Len(t, mem, 2)
	assert.Equal(t, schema.User, mem[0].Role)
	assert.Equal(t, "What is Article 50?", mem[0].Content)
	assert.Equal(t, schema.Assistant, mem[1].Role)
	assert.Equal(t, "Article 50 guarantees...", mem[1].Content)

	assert.Len(t, s.Turns(), 1)
	assert.Equal(t, model.Idle, s.State())
	assert.Nil(t, s.Pending())
	assert.False(t, s.IsFirstTurn())
}

func TestMemoryBoundedAfterElevenExchanges(t *testing.T) {
	d := &fakeDispatcher{}
	s := New(d)

	for i := 1; i <= 11; i++ {
		_, ok := s.SubmitQuery(context.Background(), fmt.Sprintf("q%d", i))
		require.True(t, ok)

		mem := s.Memory()
		assert.LessOrEqual(t, len(mem), DefaultMemoryLimit)
		assert.Zero(t, len(mem)%2)
	}

	mem := s.Memory()
	require.Len(t, mem, 20)
	assert.Equal(t, "q2", mem[0].Content)
	assert.Equal(t, "answer to q2", mem[1].Content)
	assert.Equal(t, "q11", mem[18].Content)
	assert.Equal(t, "answer to q11", mem[19].Content)

	assert.Len(t, s.Turns(), 11)

	// the eleventh request replayed exactly the ten prior exchanges
	last := d.calls[10]
	require.Len(t, last.History, 20)
	assert.Equal(t, "q1", last.History[0].Content)
}

func TestRejectedSubmissions(t *testing.T) {
	d := &fakeDispatcher{}
	s := New(d)

	_, ok := s.SubmitQuery(context.Background(), "   \n\t")
	assert.False(t, ok)
	assert.Equal(t, model.Idle, s.State())

	req, ok := s.Begin("first")
	require.True(t, ok)
	assert.Equal(t, model.InFlight, s.State())
	assert.Same(t, req, s.Pending())

	_, ok = s.SubmitQuery(context.Background(), "second")
	assert.False(t, ok)
	_, ok = s.Begin("third")
	assert.False(t, ok)
	assert.Zero(t, d.callCount())
	assert.Same(t, req, s.Pending())
	assert.Empty(t, s.Memory())
}

func TestFailureLeavesMemoryUnchanged(t *testing.T) {
	fail := false
	d := &fakeDispatcher{answer: func(q model.ChatQuery) (*model.AnswerPayload, error) {
		if fail {
			return nil, errx.FromResponse(503, []byte(`{"detail": {"error": "GROQ_API_KEY not configured"}}`))
		}
		return &model.AnswerPayload{Text: "ok"}, nil
	}}
	s := New(d)

	_, ok := s.SubmitQuery(context.Background(), "seed")
	require.True(t, ok)
	before := s.Memory()

	fail = true
	out, ok := s.SubmitQuery(context.Background(), "will fail")
	require.True(t, ok)
	assert.False(t, out.OK())
	require.NotNil(t, out.Failure)
	assert.Equal(t, errx.MissingCredential, out.Guidance.Category)

	assert.Equal(t, before, s.Memory())
	assert.Len(t, s.Turns(), 1)
	assert.Equal(t, model.Idle, s.State())
}

func TestForeignErrorIsClassified(t *testing.T) {
	d := &fakeDispatcher{answer: func(model.ChatQuery) (*model.AnswerPayload, error) {
		return nil, errors.New("dial tcp 127.0.0.1:8000: connect: connection refused")
	}}
	s := New(d)

	out, ok := s.SubmitQuery(context.Background(), "hello")
	require.True(t, ok)
	assert.Equal(t, errx.NetworkUnavailable, out.Guidance.Category)
}

func TestNilAnswerIsFailure(t *testing.T) {
	d := &fakeDispatcher{answer: func(model.ChatQuery) (*model.AnswerPayload, error) { return nil, nil }}
	s := New(d)

	out, ok := s.SubmitQuery(context.Background(), "hello")
	require.True(t, ok)
	assert.False(t, out.OK())
	assert.Empty(t, s.Memory())
}

func TestPanicReturnsToIdle(t *testing.T) {
	d := &fakeDispatcher{answer: func(model.ChatQuery) (*model.AnswerPayload, error) {
		panic("boom")
	}}
	s := New(d)

	assert.Panics(t, func() {
		s.SubmitQuery(context.Background(), "hello")
	})
	assert.Equal(t, model.Idle, s.State())
	assert.Nil(t, s.Pending())
	assert.Empty(t, s.Memory())
}

func TestOptionsTravelWithRequestNotMemory(t *testing.T) {
	d := &fakeDispatcher{}
	s := New(d, WithOptions(Options{Mode: model.ModeDrafting}))
	s.SetFilters(model.Filters{DocumentType: "judgment", Court: "Court of Appeal"})

	_, ok := s.SubmitQuery(context.Background(), "draft a notice")
	require.True(t, ok)

	s.SetMode(model.ModeSwahili)
	_, ok = s.SubmitQuery(context.Background(), "eleza")
	require.True(t, ok)

	require.Len(t, d.calls, 2)
	assert.Equal(t, model.ModeDrafting, d.calls[0].Mode)
	assert.Equal(t, "Court of Appeal", d.calls[0].Filters.Court)
	assert.Equal(t, model.ModeSwahili, d.calls[1].Mode)

	for _, m := range s.Memory() {
		assert.NotContains(t, m.Content, "judgment")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New(&fakeDispatcher{})
	_, ok := s.SubmitQuery(context.Background(), "q")
	require.True(t, ok)

	snap := s.Memory()
	snap[0].Content = "mutated"
	assert.Equal(t, "q", s.Memory()[0].Content)
}

func TestTranscriptIsBestEffort(t *testing.T) {
	repo := &recordingRepo{}
	s := New(&fakeDispatcher{}, WithTranscript(repo), WithID("sess-1"))
	assert.Equal(t, "sess-1", s.ID())

	_, ok := s.SubmitQuery(context.Background(), "q1")
	require.True(t, ok)
	require.Len(t, repo.turns, 1)
	assert.Equal(t, "q1", repo.turns[0].Query)

	repo.err = errors.New("redis down")
	out, ok := s.SubmitQuery(context.Background(), "q2")
	require.True(t, ok)
	assert.True(t, out.OK())
	assert.Len(t, s.Turns(), 2)
}

func TestSettleThenBeginAgain(t *testing.T) {
	s := New(&fakeDispatcher{})
	req, ok := s.Begin("one")
	require.True(t, ok)

	out := s.Settle(context.Background(), req, &model.AnswerPayload{Text: "done"}, nil)
	assert.True(t, out.OK())

	_, ok = s.Begin("two")
	assert.True(t, ok)
}

func TestReset(t *testing.T) {
	s := New(&fakeDispatcher{})
	_, _ = s.SubmitQuery(context.Background(), "q")
	s.Reset()
	assert.Empty(t, s.Memory())
	assert.True(t, s.IsFirstTurn())
}

func TestNewMemoryLimits(t *testing.T) {
	assert.Equal(t, DefaultMemoryLimit, NewMemory(0).Limit())
	assert.Equal(t, 6, NewMemory(7).Limit())
	assert.Equal(t, 2, NewMemory(1).Limit())

	m := NewMemory(4)
	for i := 0; i < 5; i++ {
		m.Append(fmt.Sprint(i), "a")
	}
	assert.Equal(t, 4, m.Len())
	assert.Equal(t, "3", m.Snapshot()[0].Content)
}

func TestWithTurnsResumes(t *testing.T) {
	var turns []model.Turn
	for i := 1; i <= 12; i++ {
		turns = append(turns, model.Turn{Query: fmt.Sprintf("q%d", i), Response: model.AnswerPayload{Text: fmt.Sprintf("a%d", i)}})
	}
	s := New(&fakeDispatcher{}, WithMemoryLimit(20), WithTurns(turns))

	assert.Len(t, s.Turns(), 12)
	assert.False(t, s.IsFirstTurn())
	mem := s.Memory()
	require.Len(t, mem, 20)
	assert.Equal(t, "q3", mem[0].Content)
	assert.Equal(t, "a12", mem[19].Content)
}
