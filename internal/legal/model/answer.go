package model

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects how the backend answers a chat query.
type Mode string

const (
	ModeResearch         Mode = "research"
	ModeCaseAnalysis     Mode = "case_analysis"
	ModeDrafting         Mode = "drafting"
	ModeDeepResearch     Mode = "deep_research"
	ModePetitionDrafting Mode = "petition_drafting"
	ModeJudicialReview   Mode = "judicial_review"
	ModeDevolution       Mode = "devolution"
	ModeCrossReference   Mode = "cross_reference"
	ModePlainLanguage    Mode = "plain_language"
	ModeSwahili          Mode = "swahili"
)

// Modes lists every mode the backend accepts, in display order.
var Modes = []Mode{
	ModeResearch, ModeCaseAnalysis, ModeDrafting, ModeDeepResearch, ModePetitionDrafting,
	ModeJudicialReview, ModeDevolution, ModeCrossReference, ModePlainLanguage, ModeSwahili,
}

// ParseMode validates v against the known modes. Empty means research.
func ParseMode(v string) (Mode, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return ModeResearch, nil
	}
	for _, m := range Modes {
		if string(m) == v {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", v)
}

// DisclaimerLevel controls how prominently a legal disclaimer is styled.
type DisclaimerLevel string

const (
	DisclaimerResearch       DisclaimerLevel = "research"
	DisclaimerBorderline     DisclaimerLevel = "borderline"
	DisclaimerSpecificAdvice DisclaimerLevel = "specific_advice"
)

// ParseDisclaimerLevel normalises v; unknown values fall back to research.
func ParseDisclaimerLevel(v string) DisclaimerLevel {
	switch DisclaimerLevel(strings.ToLower(strings.TrimSpace(v))) {
	case DisclaimerBorderline:
		return DisclaimerBorderline
	case DisclaimerSpecificAdvice:
		return DisclaimerSpecificAdvice
	default:
		return DisclaimerResearch
	}
}

// Filters narrow retrieval to a document type and/or court. Empty fields are unset.
type Filters struct {
	DocumentType string `json:"document_type,omitempty"`
	Court        string `json:"court,omitempty"`
}

// SourcePlaceholder labels a source that has neither citation nor title.
const SourcePlaceholder = "Source"

// Source is a document an answer was grounded on.
type Source struct {
	Title          string  `json:"title,omitempty"`
	Section        string  `json:"section,omitempty"`
	Citation       string  `json:"citation,omitempty"`
	Court          string  `json:"court,omitempty"`
	Date           string  `json:"date,omitempty"`
	RelevanceScore float64 `json:"relevance_score,omitempty"`
}

// Label prefers the citation, then the title, then a generic placeholder.
func (s Source) Label() string {
	if c := strings.TrimSpace(s.Citation); c != "" {
		return c
	}
	if t := strings.TrimSpace(s.Title); t != "" {
		return t
	}
	return SourcePlaceholder
}

// HasLabel reports whether the source has a citation or a title to show.
func (s Source) HasLabel() bool {
	return strings.TrimSpace(s.Citation) != "" || strings.TrimSpace(s.Title) != ""
}

// AnswerPayload is a successful chat answer.
type AnswerPayload struct {
	Text            string          `json:"text"`
	Sources         []Source        `json:"sources,omitempty"`
	FollowUps       []string        `json:"follow_ups,omitempty"`
	GroundingNotice string          `json:"grounding_notice,omitempty"`
	Disclaimer      string          `json:"disclaimer,omitempty"`
	DisclaimerLevel DisclaimerLevel `json:"disclaimer_level,omitempty"`
	Mode            Mode            `json:"mode,omitempty"`
	Model           string          `json:"model,omitempty"`
	RAGUsed         bool            `json:"rag_used,omitempty"`
}

// SearchResult is one ranked match from search or constitution lookup.
type SearchResult struct {
	Score         float64 `json:"score"`
	DocumentTitle string  `json:"document_title"`
	DocumentType  string  `json:"document_type,omitempty"`
	Court         string  `json:"court,omitempty"`
	Date          string  `json:"date,omitempty"`
	Section       string  `json:"section,omitempty"`
	Citation      string  `json:"citation,omitempty"`
	Text          string  `json:"text"`
}

// LimitationMatch is one cause of action from the limitation-period lookup.
type LimitationMatch struct {
	CauseOfAction  string `json:"cause_of_action"`
	Period         string `json:"period"`
	Statute        string `json:"statute"`
	Section        string `json:"section"`
	Notes          string `json:"notes,omitempty"`
	RelevanceScore int    `json:"relevance_score"`
}

// LimitationReport is the limitation-period lookup result.
type LimitationReport struct {
	Query      string            `json:"query"`
	Matches    []LimitationMatch `json:"matches"`
	TotalFound int               `json:"total_found"`
	Disclaimer string            `json:"disclaimer,omitempty"`
}

// Turn is one completed query/answer exchange.
type Turn struct {
	Query    string        `json:"query"`
	Response AnswerPayload `json:"response"`
	At       time.Time     `json:"at"`
}
