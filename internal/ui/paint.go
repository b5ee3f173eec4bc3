package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kenya-legal-ai/lexclient/internal/legal/markdown"
	"github.com/kenya-legal-ai/lexclient/internal/legal/render"
)

const (
	defaultWidth = 80
	minWidth     = 20

	userLabel      = "You"
	assistantLabel = "Kenya Legal AI"
)

// Painter draws display blocks as terminal text. It reads the parsed
// document tree, never the escaped markup.
type Painter struct {
	styles Styles
	width  int
}

func NewPainter(st Styles, width int) Painter {
	if width <= 0 {
		width = defaultWidth
	}
	if width < minWidth {
		width = minWidth
	}
	return Painter{styles: st, width: width}
}

// Blocks paints blocks separated by blank lines.
func (p Painter) Blocks(blocks []render.Block) string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if s := p.Block(b); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n\n")
}

// Block paints one block.
func (p Painter) Block(b render.Block) string {
	st := p.styles
	switch b.Kind {
	case render.KindUser:
		return st.UserLabel.Render(userLabel) + "\n" + p.wrap(st.User, b.Text)
	case render.KindPending:
		return st.Pending.Render(b.Text)
	case render.KindGroundingNotice:
		return st.Notice.Width(p.width - 2).Render(b.Text)
	case render.KindBody:
		return st.AssistantLabel.Render(assistantLabel) + "\n" + p.Document(b.Document)
	case render.KindSources:
		chips := make([]string, len(b.Chips))
		for i, c := range b.Chips {
			chips[i] = st.SourceChip.Render(c.Label)
		}
		return p.wrap(lipgloss.NewStyle(), st.Tag.Render("Sources:")+" "+strings.Join(chips, " "))
	case render.KindFollowUps:
		lines := []string{st.Tag.Render("Follow up (/follow N):")}
		for i, c := range b.Chips {
			lines = append(lines, st.FollowUp.Render(strconv.Itoa(i+1)+". "+c.Label))
		}
		return strings.Join(lines, "\n")
	case render.KindDisclaimer:
		return st.DisclaimerStyle(b.Level).Width(p.width - 2).Render(b.Text)
	case render.KindError:
		return st.Error.Width(p.width - 2).Render(b.Text)
	case render.KindEmpty:
		return p.wrap(st.Empty, b.Text)
	case render.KindResult:
		return p.result(b.Result)
	case render.KindLimitation:
		return p.limitation(b)
	}
	return ""
}

// Document paints a parsed answer body.
func (p Painter) Document(doc markdown.Document) string {
	st := p.styles
	out := make([]string, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		switch b.Kind {
		case markdown.BlockHeading:
			prefix := strings.Repeat("#", b.Level) + " "
			out = append(out, p.wrap(st.Heading, prefix+p.inlines(b.Inlines)))
		case markdown.BlockParagraph:
			out = append(out, p.wrap(st.Body, p.inlines(b.Inlines)))
		case markdown.BlockList:
			items := make([]string, len(b.Items))
			for i, item := range b.Items {
				bullet := "• "
				if b.Ordered {
					bullet = strconv.Itoa(i+1) + ". "
				}
				items[i] = p.wrap(st.Body, "  "+bullet+p.inlines(item))
			}
			out = append(out, strings.Join(items, "\n"))
		}
	}
	return strings.Join(out, "\n\n")
}

func (p Painter) inlines(ins []markdown.Inline) string {
	st := p.styles
	var sb strings.Builder
	for _, in := range ins {
		switch in.Kind {
		case markdown.InlineText:
			sb.WriteString(in.Text)
		case markdown.InlineBreak:
			sb.WriteString("\n")
		case markdown.InlineCitation:
			sb.WriteString(st.Citation.Render("[Source " + strconv.Itoa(in.Index) + "]"))
		case markdown.InlineStrong:
			sb.WriteString(st.Strong.Render(p.inlines(in.Children)))
		case markdown.InlineEmphasis:
			sb.WriteString(st.Emphasis.Render(p.inlines(in.Children)))
		}
	}
	return sb.String()
}

func (p Painter) result(card *render.ResultCard) string {
	if card == nil {
		return ""
	}
	st := p.styles
	title := card.Title
	if title == "" {
		title = "Untitled document"
	}
	head := fmt.Sprintf("%s %s  %s", st.Tag.Render("#"+strconv.Itoa(card.Rank)), st.ResultTitle.Render(title), st.Score.Render(card.Score))

	lines := []string{head}
	if len(card.Tags) > 0 {
		tags := make([]string, len(card.Tags))
		for i, t := range card.Tags {
			tags[i] = t.Name + ": " + t.Value
		}
		lines = append(lines, st.Tag.Render(strings.Join(tags, " · ")))
	}
	lines = append(lines, card.Text)
	return st.Card.Width(p.width - 2).Render(strings.Join(lines, "\n"))
}

func (p Painter) limitation(b render.Block) string {
	m := b.Limitation
	if m == nil {
		return ""
	}
	st := p.styles
	lines := []string{
		st.ResultTitle.Render(m.CauseOfAction),
		st.Score.Render("Period: ") + m.Period,
	}
	statute := m.Statute
	if m.Section != "" {
		statute += ", " + m.Section
	}
	if statute != "" {
		lines = append(lines, st.Tag.Render("Statute: ")+statute)
	}
	if m.Notes != "" {
		lines = append(lines, m.Notes)
	}
	return st.Card.Width(p.width - 2).Render(strings.Join(lines, "\n"))
}

func (p Painter) wrap(style lipgloss.Style, text string) string {
	return style.Width(p.width).Render(text)
}
