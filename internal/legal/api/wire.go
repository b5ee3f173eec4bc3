package api

import (
	"github.com/cloudwego/eino/schema"

	"github.com/kenya-legal-ai/lexclient/internal/legal/model"
)

// ================ Wire types ================
// These mirror the /api/v1 JSON bodies. Model types are built from them so
// backend field names never leak past this package.

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Query        string        `json:"query"`
	Mode         string        `json:"mode"`
	DocumentType *string       `json:"document_type,omitempty"`
	Court        *string       `json:"court,omitempty"`
	History      []wireMessage `json:"history"`
}

type chatResponse struct {
	Response          string         `json:"response"`
	Sources           []model.Source `json:"sources"`
	Mode              string         `json:"mode"`
	Model             string         `json:"model"`
	RAGUsed           bool           `json:"rag_used"`
	FollowUpQuestions []string       `json:"follow_up_questions"`
	Disclaimer        string         `json:"disclaimer"`
	DisclaimerLevel   string         `json:"disclaimer_level"`
	GroundingNotice   string         `json:"grounding_notice"`
}

type searchRequest struct {
	Query        string  `json:"query"`
	TopK         int     `json:"top_k"`
	DocumentType *string `json:"document_type,omitempty"`
	Court        *string `json:"court,omitempty"`
}

type searchResponse struct {
	Results []model.SearchResult `json:"results"`
	Total   int                  `json:"total"`
	Query   string               `json:"query"`
}

type vectorDBInfo struct {
	Name         string `json:"name"`
	VectorsCount *int   `json:"vectors_count"`
	PointsCount  *int   `json:"points_count"`
	Status       string `json:"status"`
	Error        string `json:"error"`
}

type healthResponse struct {
	Status   string        `json:"status"`
	AppName  string        `json:"app_name"`
	Version  string        `json:"version"`
	VectorDB *vectorDBInfo `json:"vector_db"`
}

func toWireHistory(history []*schema.Message) []wireMessage {
	out := make([]wireMessage, 0, len(history))
	for _, m := range history {
		if m == nil {
			continue
		}
		if m.Role != schema.User && m.Role != schema.Assistant {
			continue
		}
		out = append(out, wireMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}

func (r chatResponse) toAnswer() *model.AnswerPayload {
	return &model.AnswerPayload{
		Text:            r.Response,
		Sources:         r.Sources,
		FollowUps:       r.FollowUpQuestions,
		GroundingNotice: r.GroundingNotice,
		Disclaimer:      r.Disclaimer,
		DisclaimerLevel: model.ParseDisclaimerLevel(r.DisclaimerLevel),
		Mode:            model.Mode(r.Mode),
		Model:           r.Model,
		RAGUsed:         r.RAGUsed,
	}
}

// snapshot derives index reachability from the vector_db block. An absent
// block or one carrying an error means the index is offline.
func (r healthResponse) snapshot() model.HealthSnapshot {
	db := r.VectorDB
	if db == nil || db.Error != "" {
		return model.NewHealthSnapshot(true, false, 0)
	}
	count := 0
	switch {
	case db.PointsCount != nil:
		count = *db.PointsCount
	case db.VectorsCount != nil:
		count = *db.VectorsCount
	}
	return model.NewHealthSnapshot(true, true, count)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
