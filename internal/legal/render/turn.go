package render

import (
	"strings"

	errx "github.com/kenya-legal-ai/lexclient/internal/core/error"
	"github.com/kenya-legal-ai/lexclient/internal/legal/markdown"
	"github.com/kenya-legal-ai/lexclient/internal/legal/model"
)

// PendingText is shown while a chat request is in flight.
const PendingText = "Researching Kenyan law..."

// UserTurn renders the user's text literally. No markdown is interpreted.
func UserTurn(text string) []Block {
	return []Block{{Kind: KindUser, Text: text, Markup: markdown.Escape(text)}}
}

// Pending is the placeholder for an in-flight request.
func Pending() Block {
	return Block{Kind: KindPending, Text: PendingText, Markup: markdown.Escape(PendingText)}
}

// AssistantTurn renders an answer: grounding notice, body, sources,
// follow-ups, then the disclaimer. Absent parts produce no block.
func AssistantTurn(a model.AnswerPayload) []Block {
	var blocks []Block

	if notice := strings.TrimSpace(a.GroundingNotice); notice != "" {
		blocks = append(blocks, Block{Kind: KindGroundingNotice, Text: notice, Markup: markdown.Escape(notice)})
	}

	doc := markdown.Parse(a.Text)
	blocks = append(blocks, Block{Kind: KindBody, Text: a.Text, Document: doc, Markup: doc.Markup()})

	if chips := SourceChips(a.Sources); len(chips) > 0 {
		blocks = append(blocks, Block{Kind: KindSources, Chips: chips})
	}
	if chips := FollowUpChips(a.FollowUps); len(chips) > 0 {
		blocks = append(blocks, Block{Kind: KindFollowUps, Chips: chips})
	}

	if d := strings.TrimSpace(a.Disclaimer); d != "" {
		level := a.DisclaimerLevel
		if level == "" {
			level = model.DisclaimerResearch
		}
		blocks = append(blocks, Block{Kind: KindDisclaimer, Text: d, Markup: markdown.Escape(d), Level: level})
	}
	return blocks
}

// Turn renders a completed exchange.
func Turn(t model.Turn) []Block {
	return append(UserTurn(t.Query), AssistantTurn(t.Response)...)
}

// Failure renders a display-only error. It never enters memory.
func Failure(g errx.Guidance) Block {
	return Block{Kind: KindError, Text: g.Message, Markup: markdown.Escape(g.Message), Category: g.Category}
}

// SourceChips deduplicates sources by label. Sources with neither citation
// nor title are dropped.
func SourceChips(sources []model.Source) []Chip {
	seen := make(map[string]bool, len(sources))
	var chips []Chip
	for _, s := range sources {
		if !s.HasLabel() {
			continue
		}
		label := s.Label()
		if seen[label] {
			continue
		}
		seen[label] = true
		chips = append(chips, Chip{Label: label})
	}
	return chips
}

// FollowUpChips keeps each question verbatim so it can be resubmitted.
func FollowUpChips(questions []string) []Chip {
	var chips []Chip
	for _, q := range questions {
		if strings.TrimSpace(q) == "" {
			continue
		}
		chips = append(chips, Chip{Label: q, Query: q})
	}
	return chips
}
