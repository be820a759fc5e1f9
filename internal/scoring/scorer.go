// Package scoring talks to the external engine that produces feasibility
// payloads. The core treats its output as opaque JSON.
package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNoPayload means the engine answered without a usable technical payload.
	ErrNoPayload = errors.New("scoring: no technical payload")
	// ErrInvalidSupplied means the caller-supplied technical payload is
	// missing or carries no numeric score.
	ErrInvalidSupplied = errors.New("scoring: supplied technical payload missing or unscored")
)

type Input struct {
	Model                  string   `json:"model"`
	Hardware               string   `json:"hardware"`
	CardCount              int      `json:"cardCount"`
	BusinessScenario       string   `json:"businessScenario"`
	PerformanceQPS         int      `json:"performanceQps"`
	PerformanceConcurrency int      `json:"performanceConcurrency"`
	BusinessDataTypes      []string `json:"businessDataTypes"`
	BusinessDataQuality    string   `json:"businessDataQuality"`
	BusinessDataVolume     string   `json:"businessDataVolume"`
}

// Result holds the raw payloads. Business may be nil while the engine has
// not analysed it yet.
type Result struct {
	Resource  string
	Technical string
	Business  *string
}

type Scorer interface {
	Score(ctx context.Context, in Input, supplied *Result) (*Result, error)
}

// Passthrough accepts payloads the client already obtained from the engine.
type Passthrough struct{}

func (Passthrough) Score(_ context.Context, _ Input, supplied *Result) (*Result, error) {
	if supplied == nil || !hasScore(supplied.Technical) {
		return nil, ErrInvalidSupplied
	}
	out := *supplied
	return &out, nil
}

// New picks a scorer by provider name.
func New(provider string, g GeminiOpts) (Scorer, error) {
	switch provider {
	case "", "passthrough":
		return Passthrough{}, nil
	case "gemini":
		return NewGemini(g)
	}
	return nil, fmt.Errorf("unknown scoring provider %q", provider)
}

// hasScore reports whether raw is a JSON object with a numeric score field.
func hasScore(raw string) bool {
	var v struct {
		Score *float64 `json:"score"`
	}
	return json.Unmarshal([]byte(raw), &v) == nil && v.Score != nil
}
