package render

import (
	"fmt"
	"strings"

	"github.com/kenya-legal-ai/lexclient/internal/legal/markdown"
	"github.com/kenya-legal-ai/lexclient/internal/legal/model"
)

const (
	EmptyResultsText    = "No matching documents found. Try broader terms or remove filters."
	EmptyLimitationText = "No limitation period matched that cause of action."
)

// FormatScore renders a [0,1] score as a percentage with one decimal.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}

// Results renders ranked search results in the order given. Zero results is
// an explicit empty state.
func Results(results []model.SearchResult) []Block {
	if len(results) == 0 {
		return []Block{empty(EmptyResultsText)}
	}
	blocks := make([]Block, 0, len(results))
	for i, r := range results {
		card := &ResultCard{
			Rank:  i + 1,
			Title: r.DocumentTitle,
			Score: FormatScore(r.Score),
			Tags:  resultTags(r),
			Text:  r.Text,
		}
		blocks = append(blocks, Block{Kind: KindResult, Text: r.Text, Markup: markdown.Escape(r.Text), Result: card})
	}
	return blocks
}

func resultTags(r model.SearchResult) []Tag {
	fields := []Tag{
		{"type", r.DocumentType},
		{"court", r.Court},
		{"date", r.Date},
		{"section", r.Section},
		{"citation", r.Citation},
	}
	var tags []Tag
	for _, f := range fields {
		if v := strings.TrimSpace(f.Value); v != "" {
			tags = append(tags, Tag{Name: f.Name, Value: v})
		}
	}
	return tags
}

// Limitation renders a limitation-period report followed by its disclaimer.
func Limitation(report model.LimitationReport) []Block {
	var blocks []Block
	if len(report.Matches) == 0 {
		blocks = append(blocks, empty(EmptyLimitationText))
	}
	for i := range report.Matches {
		m := report.Matches[i]
		blocks = append(blocks, Block{Kind: KindLimitation, Text: m.CauseOfAction, Markup: markdown.Escape(m.CauseOfAction), Limitation: &m})
	}
	if d := strings.TrimSpace(report.Disclaimer); d != "" {
		blocks = append(blocks, Block{Kind: KindDisclaimer, Text: d, Markup: markdown.Escape(d), Level: model.DisclaimerBorderline})
	}
	return blocks
}

func empty(text string) Block {
	return Block{Kind: KindEmpty, Text: text, Markup: markdown.Escape(text)}
}
