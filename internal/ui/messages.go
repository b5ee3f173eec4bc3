package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kenya-legal-ai/lexclient/internal/legal/model"
	"github.com/kenya-legal-ai/lexclient/internal/legal/session"
)

// The event taxonomy. Every network call runs inside a tea.Cmd and comes back
// as one of the settled messages; Update handles each to completion.
type (
	submitMsg struct{ text string }

	chatSettledMsg struct {
		req    *session.Request
		answer *model.AnswerPayload
		err    error
	}

	resultsSettledMsg struct {
		lane    string
		query   string
		results []model.SearchResult
		err     error
	}

	limitationSettledMsg struct {
		cause  string
		report *model.LimitationReport
		err    error
	}

	healthMsg struct{ snapshot model.HealthSnapshot }
)

const (
	laneSearch       = "search"
	laneConstitution = "constitution"
)

// Researcher serves the one-shot lookups. They never touch session memory.
type Researcher interface {
	Search(ctx context.Context, query string, topK int, filters model.Filters) ([]model.SearchResult, error)
	LookupConstitution(ctx context.Context, query string, topK int) ([]model.SearchResult, error)
	LookupLimitation(ctx context.Context, cause string) (*model.LimitationReport, error)
}

func submit(text string) tea.Cmd {
	return func() tea.Msg { return submitMsg{text: text} }
}

func dispatchChat(ctx context.Context, s *session.Session, req *session.Request) tea.Cmd {
	return func() tea.Msg {
		answer, err := s.Dispatch(ctx, req)
		return chatSettledMsg{req: req, answer: answer, err: err}
	}
}

func dispatchSearch(ctx context.Context, r Researcher, query string, topK int, filters model.Filters) tea.Cmd {
	return func() tea.Msg {
		results, err := r.Search(ctx, query, topK, filters)
		return resultsSettledMsg{lane: laneSearch, query: query, results: results, err: err}
	}
}

func dispatchConstitution(ctx context.Context, r Researcher, query string, topK int) tea.Cmd {
	return func() tea.Msg {
		results, err := r.LookupConstitution(ctx, query, topK)
		return resultsSettledMsg{lane: laneConstitution, query: query, results: results, err: err}
	}
}

func dispatchLimitation(ctx context.Context, r Researcher, cause string) tea.Cmd {
	return func() tea.Msg {
		report, err := r.LookupLimitation(ctx, cause)
		return limitationSettledMsg{cause: cause, report: report, err: err}
	}
}

func waitForHealth(ch <-chan model.HealthSnapshot) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return healthMsg{snapshot: snap}
	}
}

// HealthFeed returns a channel for the chat program and a monitor listener
// that keeps only the newest snapshot in it.
func HealthFeed() (<-chan model.HealthSnapshot, func(model.HealthSnapshot)) {
	ch := make(chan model.HealthSnapshot, 1)
	return ch, func(s model.HealthSnapshot) {
		for {
			select {
			case ch <- s:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	}
}
