package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenya-legal-ai/lexclient/internal/legal/markdown"
	"github.com/kenya-legal-ai/lexclient/internal/legal/model"
	"github.com/kenya-legal-ai/lexclient/internal/legal/render"
	"github.com/kenya-legal-ai/lexclient/internal/legal/session"
)

type countingDispatcher struct{ calls int }

func (d *countingDispatcher) Chat(context.Context, model.ChatQuery) (*model.AnswerPayload, error) {
	d.calls++
	return &model.AnswerPayload{Text: "ok"}, nil
}

type stubResearcher struct {
	results []model.SearchResult
	report  *model.LimitationReport
	err     error
	lastTop int
}

func (r *stubResearcher) Search(_ context.Context, _ string, topK int, _ model.Filters) ([]model.SearchResult, error) {
	r.lastTop = topK
	return r.results, r.err
}

func (r *stubResearcher) LookupConstitution(_ context.Context, _ string, topK int) ([]model.SearchResult, error) {
	r.lastTop = topK
	return r.results, r.err
}

func (r *stubResearcher) LookupLimitation(context.Context, string) (*model.LimitationReport, error) {
	return r.report, r.err
}

func newTestModel(t *testing.T) (Model, *countingDispatcher, *stubResearcher) {
	t.Helper()
	d := &countingDispatcher{}
	r := &stubResearcher{}
	m := New(context.Background(), Config{
		Session:          session.New(d),
		Research:         r,
		SearchTopK:       10,
		ConstitutionTopK: 5,
		BaseURL:          "http://localhost:8000/api/v1",
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), d, r
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestWelcomeStateOnFirstTurn(t *testing.T) {
	m, _, _ := newTestModel(t)
	view := m.View()
	assert.Contains(t, view, "Karibu")
	assert.Contains(t, view, "checking service...")
	assert.Contains(t, view, "mode: research")
}

func TestChatRoundTrip(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, cmd := update(t, m, submitMsg{text: "What is Article 50?"})
	require.NotNil(t, cmd)
	req := m.session.Pending()
	require.NotNil(t, req)
	assert.Equal(t, "What is Article 50?", req.Query)
	assert.Contains(t, m.View(), render.PendingText)

	m, _ = update(t, m, chatSettledMsg{req: req, answer: &model.AnswerPayload{
		Text:      "Article 50 guarantees the right to a fair hearing.",
		Sources:   []model.Source{{Citation: "Const. Art. 50"}},
		FollowUps: []string{"What about Article 49?"},
	}})

	view := m.View()
	assert.Contains(t, view, "Article 50 guarantees the right to a fair hearing.")
	assert.Contains(t, view, "Const. Art. 50")
	assert.Contains(t, view, "1. What about Article 49?")
	assert.NotContains(t, view, render.PendingText)

	assert.Len(t, m.session.Memory(), 2)
	assert.Equal(t, model.Idle, m.session.State())
	assert.Equal(t, []string{"What about Article 49?"}, m.followUps)
}

func TestSubmissionRejectedWhileInFlight(t *testing.T) {
	m, d, _ := newTestModel(t)

	m, _ = update(t, m, submitMsg{text: "first question"})
	first := m.session.Pending()
	logLen := len(m.log)

	m, cmd := update(t, m, submitMsg{text: "second question"})
	assert.Nil(t, cmd)
	assert.Same(t, first, m.session.Pending())
	assert.Equal(t, logLen, len(m.log))
	assert.Equal(t, "Still researching the previous question.", m.notice)
	assert.Zero(t, d.calls)
}

func TestEmptySubmissionIgnored(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, cmd := update(t, m, submitMsg{text: "   "})
	assert.Nil(t, cmd)
	assert.Nil(t, m.session.Pending())
	assert.Empty(t, m.notice)
}

func TestChatFailureIsDisplayOnly(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = update(t, m, submitMsg{text: "hello there"})
	req := m.session.Pending()

	m, _ = update(t, m, chatSettledMsg{req: req, err: errors.New("dial tcp 127.0.0.1:8000: connect: connection refused")})
	assert.Contains(t, m.View(), "Cannot reach the legal research service")
	assert.Empty(t, m.session.Memory())
	assert.Equal(t, model.Idle, m.session.State())
}

func TestDispatchChatCommand(t *testing.T) {
	d := &countingDispatcher{}
	s := session.New(d)
	req, ok := s.Begin("q")
	require.True(t, ok)

	msg := dispatchChat(context.Background(), s, req)()
	settled, ok := msg.(chatSettledMsg)
	require.True(t, ok)
	assert.Same(t, req, settled.req)
	assert.Equal(t, "ok", settled.answer.Text)
	assert.Equal(t, 1, d.calls)
}

func TestModeAndFilterCommands(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = update(t, m, submitMsg{text: "/mode drafting"})
	assert.Equal(t, model.ModeDrafting, m.session.Options().Mode)

	m, _ = update(t, m, submitMsg{text: "/mode poetry"})
	assert.Contains(t, m.notice, "Unknown mode")
	assert.Equal(t, model.ModeDrafting, m.session.Options().Mode)

	m, _ = update(t, m, submitMsg{text: "/court High Court"})
	assert.Equal(t, "High Court", m.session.Options().Filters.Court)
	assert.Contains(t, m.View(), "court: High Court")

	m, _ = update(t, m, submitMsg{text: "/type judgment"})
	assert.Equal(t, "judgment", m.session.Options().Filters.DocumentType)

	m, _ = update(t, m, submitMsg{text: "/court off"})
	assert.Empty(t, m.session.Options().Filters.Court)

	m, _ = update(t, m, submitMsg{text: "/bogus"})
	assert.Contains(t, m.notice, "Unknown command /bogus")
}

func TestFollowCommandResubmits(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.followUps = []string{"What about Article 49?"}

	m, cmd := update(t, m, submitMsg{text: "/follow 1"})
	require.NotNil(t, cmd)
	assert.Equal(t, submitMsg{text: "What about Article 49?"}, cmd())

	_, cmd = update(t, m, submitMsg{text: "/follow 3"})
	assert.Nil(t, cmd)
}

func TestSearchLane(t *testing.T) {
	m, d, r := newTestModel(t)

	m, cmd := update(t, m, submitMsg{text: "/search bail terms"})
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.lookups)
	assert.Nil(t, m.session.Pending())

	msg := dispatchSearch(context.Background(), r, "bail terms", m.searchTopK, model.Filters{})()
	assert.Equal(t, 10, r.lastTop)

	m, _ = update(t, m, msg)
	assert.Zero(t, m.lookups)
	assert.Contains(t, m.View(), render.EmptyResultsText)
	assert.Zero(t, d.calls)
	assert.Empty(t, m.session.Memory())
}

func TestSearchResultsAndErrors(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.lookups = 2

	m, _ = update(t, m, resultsSettledMsg{lane: laneConstitution, results: []model.SearchResult{
		{Score: 0.873, DocumentTitle: "Constitution of Kenya", Section: "Article 49", Text: "An arrested person has the right..."},
	}})
	view := m.View()
	assert.Contains(t, view, "87.3%")
	assert.Contains(t, view, "section: Article 49")

	m, _ = update(t, m, resultsSettledMsg{lane: laneSearch, err: errors.New("connection refused")})
	assert.Contains(t, m.View(), "Cannot reach the legal research service")
	assert.Zero(t, m.lookups)
}

func TestLimitationLane(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.lookups = 1

	m, _ = update(t, m, limitationSettledMsg{cause: "defamation", report: &model.LimitationReport{
		Matches:    []model.LimitationMatch{{CauseOfAction: "Defamation", Period: "12 months", Statute: "Limitation of Actions Act", Section: "s. 4(2)"}},
		TotalFound: 1,
	}})
	view := m.View()
	assert.Contains(t, view, "Period: 12 months")
	assert.Contains(t, view, "Limitation of Actions Act, s. 4(2)")
}

func TestHealthStatusLine(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = update(t, m, healthMsg{snapshot: model.NewHealthSnapshot(true, true, 0)})
	assert.Contains(t, m.View(), "direct · index unavailable")

	m, _ = update(t, m, healthMsg{snapshot: model.NewHealthSnapshot(true, true, 1200)})
	assert.Contains(t, m.View(), "grounded · 1200 documents indexed")

	m, _ = update(t, m, healthMsg{snapshot: model.OfflineSnapshot()})
	assert.Contains(t, m.View(), "offline")
}

func TestHealthFeedKeepsNewest(t *testing.T) {
	ch, listen := HealthFeed()
	listen(model.NewHealthSnapshot(false, false, 0))
	listen(model.NewHealthSnapshot(true, true, 9))

	msg := waitForHealth(ch)()
	hm, ok := msg.(healthMsg)
	require.True(t, ok)
	assert.Equal(t, 9, hm.snapshot.IndexedCount)
	assert.Nil(t, waitForHealth(nil))
}

func TestClearStartsOver(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = update(t, m, submitMsg{text: "hi there"})
	m, _ = update(t, m, chatSettledMsg{req: m.session.Pending(), answer: &model.AnswerPayload{Text: "hello"}})
	require.Len(t, m.session.Memory(), 2)

	m, _ = update(t, m, submitMsg{text: "/clear"})
	assert.Empty(t, m.session.Memory())
	assert.Contains(t, m.View(), "Karibu")
}

func TestPaintDocument(t *testing.T) {
	p := NewPainter(DefaultStyles(), 100)
	out := p.Document(markdown.Parse("## Rights\n- **equality** [Source 1]\n\n1. first"))
	assert.Contains(t, out, "## Rights")
	assert.Contains(t, out, "• equality [Source 1]")
	assert.Contains(t, out, "1. first")
}

func TestPaintUserTurnIsLiteral(t *testing.T) {
	p := NewPainter(DefaultStyles(), 100)
	out := p.Blocks(render.UserTurn("**not bold** <b>"))
	assert.Contains(t, out, "**not bold** <b>")
}
