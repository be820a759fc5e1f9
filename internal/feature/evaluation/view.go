package evaluation

import (
	"encoding/json"
	"time"

	"sizing-eval/internal/domain"
	"sizing-eval/internal/feature/score"
)

type ScoreView struct {
	Resource  float64 `json:"resource"`
	Technical float64 `json:"technical"`
	Business  float64 `json:"business"`
	Overall   int     `json:"overall"`
}

// Summary is the list row: inputs that identify the run plus its scores.
type Summary struct {
	ID               string     `json:"id"`
	OwnerID          string     `json:"ownerId"`
	Model            string     `json:"model"`
	Hardware         string     `json:"hardware"`
	CardCount        int        `json:"cardCount"`
	BusinessScenario string     `json:"businessScenario"`
	Archived         bool       `json:"archived"`
	ArchivedAt       *time.Time `json:"archivedAt"`
	CreatedAt        time.Time  `json:"createdAt"`
	Scores           ScoreView  `json:"scores"`
}

// Detail adds the remaining inputs and the raw payloads. A payload that is
// not valid JSON is rendered as null.
type Detail struct {
	Summary
	PerformanceQPS         int             `json:"performanceQps"`
	PerformanceConcurrency int             `json:"performanceConcurrency"`
	BusinessDataTypes      []string        `json:"businessDataTypes"`
	BusinessDataQuality    string          `json:"businessDataQuality"`
	BusinessDataVolume     string          `json:"businessDataVolume"`
	ResourceFeasibility    json.RawMessage `json:"resourceFeasibility"`
	TechnicalFeasibility   json.RawMessage `json:"technicalFeasibility"`
	BusinessValue          json.RawMessage `json:"businessValue"`
}

func summarize(e *domain.Evaluation, s score.Scores) Summary {
	return Summary{
		ID:               e.ID,
		OwnerID:          e.OwnerID,
		Model:            e.Model,
		Hardware:         e.Hardware,
		CardCount:        e.CardCount,
		BusinessScenario: e.BusinessScenario,
		Archived:         e.Archived,
		ArchivedAt:       e.ArchivedAt,
		CreatedAt:        e.CreatedAt,
		Scores: ScoreView{
			Resource:  s.Resource.Score,
			Technical: s.Technical.Score,
			Business:  s.Business.Score,
			Overall:   s.Overall,
		},
	}
}

func SummaryOf(e *domain.Evaluation) Summary { return summarize(e, score.ForEvaluation(e)) }

func DetailOf(e *domain.Evaluation) Detail {
	s := score.ForEvaluation(e)
	types := []string(e.BusinessDataTypes)
	if types == nil {
		types = []string{}
	}
	return Detail{
		Summary:                summarize(e, s),
		PerformanceQPS:         e.PerformanceQPS,
		PerformanceConcurrency: e.PerformanceConcurrency,
		BusinessDataTypes:      types,
		BusinessDataQuality:    e.BusinessDataQuality,
		BusinessDataVolume:     e.BusinessDataVolume,
		ResourceFeasibility:    s.Resource.Raw,
		TechnicalFeasibility:   s.Technical.Raw,
		BusinessValue:          s.Business.Raw,
	}
}

func summaries(rows []domain.Evaluation) []Summary {
	out := make([]Summary, 0, len(rows))
	for i := range rows {
		out = append(out, SummaryOf(&rows[i]))
	}
	return out
}
