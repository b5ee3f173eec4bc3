package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kenya-legal-ai/lexclient/internal/legal/model"
	"github.com/kenya-legal-ai/lexclient/internal/legal/render"
)

const helpText = `Commands
  /search <query>        search judgments, acts and the constitution
  /constitution <query>  search the Constitution of Kenya 2010 only
  /limitation <cause>    limitation period for a cause of action
  /mode <mode>           answer mode (research, drafting, swahili, ...)
  /court <name|off>      restrict retrieval to one court
  /type <type|off>       restrict retrieval to constitution, act, judgment or legal_notice
  /follow <n>            ask suggested follow-up n
  /clear                 start a new conversation
  /help                  toggle this help
  /quit                  exit`

func (m Model) command(line string) (tea.Model, tea.Cmd) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	m.notice = ""

	switch strings.ToLower(name) {
	case "/quit", "/exit":
		return m, tea.Quit

	case "/help":
		m.showHelp = !m.showHelp
		return m, nil

	case "/search", "/constitution":
		if arg == "" {
			m.notice = "Usage: " + name + " <query>"
			return m, nil
		}
		m.log = append(m.log, render.UserTurn(line)...)
		m.lookups++
		m.refresh()
		var cmd tea.Cmd
		if strings.EqualFold(name, "/search") {
			cmd = dispatchSearch(m.ctx, m.research, arg, m.searchTopK, m.session.Options().Filters)
		} else {
			cmd = dispatchConstitution(m.ctx, m.research, arg, m.constitutionTopK)
		}
		return m, tea.Batch(cmd, m.spin.Tick)

	case "/limitation":
		if arg == "" {
			m.notice = "Usage: /limitation <cause of action>"
			return m, nil
		}
		m.log = append(m.log, render.UserTurn(line)...)
		m.lookups++
		m.refresh()
		return m, tea.Batch(dispatchLimitation(m.ctx, m.research, arg), m.spin.Tick)

	case "/mode":
		mode, err := model.ParseMode(arg)
		if err != nil {
			m.notice = fmt.Sprintf("Unknown mode %q. Choose one of: %s", arg, modeList())
			return m, nil
		}
		m.session.SetMode(mode)
		m.notice = "Mode set to " + string(mode)
		return m, nil

	case "/court":
		f := m.session.Options().Filters
		f.Court = filterValue(arg)
		m.session.SetFilters(f)
		m.notice = describeFilter("Court", f.Court)
		return m, nil

	case "/type":
		f := m.session.Options().Filters
		f.DocumentType = filterValue(arg)
		m.session.SetFilters(f)
		m.notice = describeFilter("Document type", f.DocumentType)
		return m, nil

	case "/follow":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n > len(m.followUps) {
			m.notice = "No follow-up question with that number."
			return m, nil
		}
		return m, submit(m.followUps[n-1])

	case "/clear":
		m.session.Reset()
		m.log = nil
		m.followUps = nil
		m.refresh()
		return m, nil
	}

	m.notice = fmt.Sprintf("Unknown command %s. Type /help for the list.", name)
	return m, nil
}

func filterValue(arg string) string {
	if strings.EqualFold(arg, "off") || strings.EqualFold(arg, "none") {
		return ""
	}
	return arg
}

func describeFilter(name, value string) string {
	if value == "" {
		return name + " filter cleared"
	}
	return name + " filter set to " + value
}

func modeList() string {
	names := make([]string, len(model.Modes))
	for i, mode := range model.Modes {
		names[i] = string(mode)
	}
	return strings.Join(names, ", ")
}
