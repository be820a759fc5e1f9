// Package score turns stored feasibility payloads into comparable numbers.
//
// Payloads come from the external scoring engine and are kept as raw JSON.
// Parsing is best effort: a payload that is absent, malformed, or missing a
// numeric score contributes 0 instead of an error, so one bad legacy row
// never breaks a list view.
package score

import (
	"encoding/json"
	"math"

	"sizing-eval/internal/core/metrics"
)

type Dimension string

const (
	Resource  Dimension = "resource"
	Technical Dimension = "technical"
	Business  Dimension = "business"
)

// Payload is one parsed feasibility result. Known fields are lifted out;
// everything else stays in Raw so newer engine schemas survive a round trip.
type Payload struct {
	Dimension Dimension       `json:"-"`
	Score     float64         `json:"score"`
	Summary   string          `json:"summary,omitempty"`
	Level     string          `json:"level,omitempty"`
	Valid     bool            `json:"-"`
	Raw       json.RawMessage `json:"-"`
}

type knownShape struct {
	Score   *float64 `json:"score"`
	Summary string   `json:"summary"`
	Level   string   `json:"level"`
}

// Parse never fails. A nil or empty raw is an absent payload and is not
// counted as a parse fallback. Raw is kept whenever the text is valid JSON.
func Parse(dim Dimension, raw *string) Payload {
	p := Payload{Dimension: dim}
	if raw == nil || *raw == "" || *raw == "null" {
		return p
	}
	b := []byte(*raw)
	if !json.Valid(b) {
		metrics.ScoreParseFallbacks.WithLabelValues(string(dim)).Inc()
		return p
	}
	p.Raw = json.RawMessage(b)

	var k knownShape
	if err := json.Unmarshal(b, &k); err != nil || k.Score == nil ||
		math.IsNaN(*k.Score) || math.IsInf(*k.Score, 0) {
		metrics.ScoreParseFallbacks.WithLabelValues(string(dim)).Inc()
		return p
	}
	p.Score = *k.Score
	p.Summary = k.Summary
	p.Level = k.Level
	p.Valid = true
	return p
}

// ParseText is Parse for a column that is never NULL.
func ParseText(dim Dimension, raw string) Payload { return Parse(dim, &raw) }
