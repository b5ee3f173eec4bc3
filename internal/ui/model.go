package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	errx "github.com/kenya-legal-ai/lexclient/internal/core/error"
	"github.com/kenya-legal-ai/lexclient/internal/legal/model"
	"github.com/kenya-legal-ai/lexclient/internal/legal/render"
	"github.com/kenya-legal-ai/lexclient/internal/legal/session"
	logx "github.com/kenya-legal-ai/lexclient/pkg/logger"
)

// chrome is the number of lines around the transcript: header, pending,
// notice, input and footer.
const chrome = 6

var examples = []string{
	"What does Article 27 of the Constitution say about equality?",
	"What are the grounds for judicial review in Kenya?",
	"How long do I have to sue for breach of contract?",
}

// Config wires the chat program to its collaborators.
type Config struct {
	Session          *session.Session
	Research         Researcher
	Health           <-chan model.HealthSnapshot
	SearchTopK       int
	ConstitutionTopK int
	BaseURL          string
}

// Model is the bubbletea model for one chat session.
type Model struct {
	ctx              context.Context
	session          *session.Session
	research         Researcher
	healthCh         <-chan model.HealthSnapshot
	searchTopK       int
	constitutionTopK int
	baseURL          string

	styles   Styles
	input    textinput.Model
	spin     spinner.Model
	viewport viewport.Model
	width    int
	height   int

	log         []render.Block
	followUps   []string
	health      model.HealthSnapshot
	healthKnown bool
	lookups     int
	notice      string
	showHelp    bool
}

// New builds the chat model. ctx bounds every request it dispatches.
func New(ctx context.Context, cfg Config) Model {
	in := textinput.New()
	in.Placeholder = "Ask a question about Kenyan law"
	in.Prompt = "› "
	in.CharLimit = 2000
	in.Width = defaultWidth - 4
	in.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(Amber)

	m := Model{
		ctx:              ctx,
		session:          cfg.Session,
		research:         cfg.Research,
		healthCh:         cfg.Health,
		searchTopK:       cfg.SearchTopK,
		constitutionTopK: cfg.ConstitutionTopK,
		baseURL:          cfg.BaseURL,
		styles:           DefaultStyles(),
		input:            in,
		spin:             s,
		viewport:         viewport.New(defaultWidth, 20),
		width:            defaultWidth,
		height:           20 + chrome,
	}
	m.refresh()
	return m
}

// Run starts the full-screen program and blocks until it exits.
func Run(ctx context.Context, cfg Config) error {
	p := tea.NewProgram(New(ctx, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("run chat program: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForHealth(m.healthCh))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, minWidth)
		m.height = max(msg.Height, chrome+3)
		m.input.Width = max(m.width-4, 10)
		m.viewport.Width = m.width
		m.viewport.Height = m.height - chrome
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			return m, tea.Quit
		case "enter":
			return m.submit(m.input.Value())
		case "pgup", "pgdown", "ctrl+u", "ctrl+f":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case submitMsg:
		return m.submit(msg.text)

	case chatSettledMsg:
		out := m.session.Settle(m.ctx, msg.req, msg.answer, msg.err)
		if out.OK() {
			m.log = append(m.log, render.AssistantTurn(out.Turn.Response)...)
			m.followUps = nil
			for _, c := range render.FollowUpChips(out.Turn.Response.FollowUps) {
				m.followUps = append(m.followUps, c.Query)
			}
		} else {
			m.log = append(m.log, render.Failure(out.Guidance))
		}
		m.refresh()
		return m, nil

	case resultsSettledMsg:
		m.lookups--
		if msg.err != nil {
			m.log = append(m.log, failureBlock(msg.err))
		} else {
			m.log = append(m.log, render.Results(msg.results)...)
		}
		logx.Debug().Str("lane", msg.lane).Int("results", len(msg.results)).Msg("lookup settled")
		m.refresh()
		return m, nil

	case limitationSettledMsg:
		m.lookups--
		if msg.err != nil {
			m.log = append(m.log, failureBlock(msg.err))
		} else if msg.report != nil {
			m.log = append(m.log, render.Limitation(*msg.report)...)
		}
		m.refresh()
		return m, nil

	case healthMsg:
		m.health = msg.snapshot
		m.healthKnown = true
		return m, waitForHealth(m.healthCh)

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit routes a line to a command or a chat request. A rejected chat
// submission changes nothing but the notice.
func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "/") {
		m.input.SetValue("")
		return m.command(trimmed)
	}

	req, ok := m.session.Begin(text)
	if !ok {
		if trimmed != "" && m.session.State() == model.InFlight {
			m.notice = "Still researching the previous question."
		}
		return m, nil
	}

	m.input.SetValue("")
	m.notice = ""
	m.showHelp = false
	m.log = append(m.log, render.UserTurn(req.Query)...)
	m.refresh()
	return m, tea.Batch(dispatchChat(m.ctx, m.session, req), m.spin.Tick)
}

func (m Model) busy() bool {
	return m.session.State() == model.InFlight || m.lookups > 0
}

func (m *Model) refresh() {
	p := NewPainter(m.styles, m.width)
	if m.session.IsFirstTurn() && len(m.log) == 0 {
		m.viewport.SetContent(m.welcome())
		return
	}
	m.viewport.SetContent(p.Blocks(m.log))
	m.viewport.GotoBottom()
}

func (m Model) welcome() string {
	st := m.styles
	lines := []string{
		st.Header.Render("Karibu. Ask about the Constitution of Kenya 2010, Acts of Parliament and court judgments."),
		"",
		st.Tag.Render("Try:"),
	}
	for _, e := range examples {
		lines = append(lines, "  "+st.FollowUp.Render(e))
	}
	lines = append(lines, "", st.Footer.Render("Type /help for search, constitution and limitation lookups."))
	if m.baseURL != "" {
		lines = append(lines, st.Status.Render("Service: "+m.baseURL))
	}
	return lipgloss.NewStyle().Width(m.width).Render(strings.Join(lines, "\n"))
}

func (m Model) View() string {
	st := m.styles
	var b strings.Builder

	b.WriteString(st.Header.Render("Kenya Legal AI") + "  " + m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	switch {
	case m.session.Pending() != nil:
		b.WriteString(m.spin.View() + " " + st.Pending.Render(render.PendingText))
	case m.lookups > 0:
		b.WriteString(m.spin.View() + " " + st.Pending.Render("Searching..."))
	}
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(st.Footer.Render(helpText))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(st.Notice.Render(m.notice))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(st.Footer.Render("Enter to send · /help for commands · PgUp/PgDn to scroll · Ctrl+C to quit"))
	return b.String()
}

func (m Model) statusLine() string {
	st := m.styles
	opts := m.session.Options()

	parts := make([]string, 0, 4)
	switch {
	case !m.healthKnown:
		parts = append(parts, st.Status.Render("checking service..."))
	case !m.health.APIOnline:
		parts = append(parts, st.Offline.Render("● offline"))
	default:
		parts = append(parts, st.Online.Render("● online"))
		if m.health.Mode == model.RetrievalGrounded {
			parts = append(parts, st.Status.Render(fmt.Sprintf("grounded · %d documents indexed", m.health.IndexedCount)))
		} else {
			parts = append(parts, st.Status.Render("direct · index unavailable"))
		}
	}

	parts = append(parts, st.Status.Render("mode: "+string(opts.Mode)))
	if opts.Filters.Court != "" {
		parts = append(parts, st.Status.Render("court: "+opts.Filters.Court))
	}
	if opts.Filters.DocumentType != "" {
		parts = append(parts, st.Status.Render("type: "+opts.Filters.DocumentType))
	}
	return strings.Join(parts, st.Status.Render("  |  "))
}

func failureBlock(err error) render.Block {
	return render.Failure(errx.Classify(errx.AsFailure(err)))
}
