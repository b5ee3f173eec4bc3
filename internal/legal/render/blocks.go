// Package render turns session state into ordered display blocks. It decides
// what is shown and in which order; painting is left to the terminal layer.
package render

import (
	errx "github.com/kenya-legal-ai/lexclient/internal/core/error"
	"github.com/kenya-legal-ai/lexclient/internal/legal/markdown"
	"github.com/kenya-legal-ai/lexclient/internal/legal/model"
)

// Kind identifies a display block.
type Kind int

const (
	KindUser Kind = iota
	KindPending
	KindGroundingNotice
	KindBody
	KindSources
	KindFollowUps
	KindDisclaimer
	KindError
	KindResult
	KindEmpty
	KindLimitation
)

var kindNames = map[Kind]string{
	KindUser:            "user",
	KindPending:         "pending",
	KindGroundingNotice: "grounding_notice",
	KindBody:            "body",
	KindSources:         "sources",
	KindFollowUps:       "follow_ups",
	KindDisclaimer:      "disclaimer",
	KindError:           "error",
	KindResult:          "result",
	KindEmpty:           "empty",
	KindLimitation:      "limitation",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Chip is a compact label. Follow-up chips carry the question to resubmit.
type Chip struct {
	Label string
	Query string
}

// Tag is one present metadata field of a search result.
type Tag struct {
	Name  string
	Value string
}

// ResultCard is one rendered search result.
type ResultCard struct {
	Rank  int
	Title string
	Score string
	Tags  []Tag
	Text  string
}

// Block is one unit of display. Text is always literal; Markup is its safe
// markup form, escaped or translated exactly once.
type Block struct {
	Kind       Kind
	Text       string
	Markup     string
	Document   markdown.Document
	Chips      []Chip
	Level      model.DisclaimerLevel
	Category   errx.Category
	Result     *ResultCard
	Limitation *model.LimitationMatch
}
