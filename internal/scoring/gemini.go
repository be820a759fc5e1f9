package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type GeminiOpts struct {
	APIKey   string
	Endpoint string
	Models   []string
	Timeout  time.Duration
	Logger   *zap.Logger
}

// Gemini asks a generateContent endpoint for the three payloads, trying
// each configured model in turn.
type Gemini struct {
	opts   GeminiOpts
	client *http.Client
}

func NewGemini(o GeminiOpts) (*Gemini, error) {
	if o.APIKey == "" {
		return nil, errors.New("gemini: api key not set")
	}
	if len(o.Models) == 0 {
		return nil, errors.New("gemini: no models configured")
	}
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return &Gemini{opts: o, client: &http.Client{Timeout: o.Timeout}}, nil
}

const promptTemplate = `You are a capacity planner for LLM inference deployments.
Evaluate the deployment below and return strict JSON only, no markdown:
{
  "resource":  {"score": number 0-100, "level": string, "summary": string, ...},
  "technical": {"score": number 0-100, "level": string, "summary": string, ...},
  "business":  {"score": number 0-100, "level": string, "summary": string, ...}
}

Deployment:
%s`

func (g *Gemini) Score(ctx context.Context, in Input, _ *Result) (*Result, error) {
	details, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": fmt.Sprintf(promptTemplate, details)}}},
		},
		"generationConfig": map[string]any{
			"temperature":      0.1,
			"responseMimeType": "application/json",
		},
	})
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, model := range g.opts.Models {
		text, err := g.generate(ctx, model, body)
		if err == nil {
			var res *Result
			if res, err = decodeResult(text); err == nil {
				return res, nil
			}
		}
		lastErr = err
		g.opts.Logger.Warn("scoring model failed", zap.String("model", model), zap.Error(err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("all scoring models failed: %w", lastErr)
}

func (g *Gemini) generate(ctx context.Context, model string, body []byte) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent", strings.TrimRight(g.opts.Endpoint, "/"), model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.opts.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

func decodeResult(text string) (*Result, error) {
	var parts struct {
		Resource  json.RawMessage `json:"resource"`
		Technical json.RawMessage `json:"technical"`
		Business  json.RawMessage `json:"business"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), &parts); err != nil {
		return nil, fmt.Errorf("decode payloads: %w", err)
	}
	if !hasScore(string(parts.Technical)) {
		return nil, ErrNoPayload
	}
	res := &Result{Resource: string(parts.Resource), Technical: string(parts.Technical)}
	if len(parts.Business) > 0 && string(parts.Business) != "null" {
		b := string(parts.Business)
		res.Business = &b
	}
	return res, nil
}

// cleanJSON strips markdown fences and any prose around the outer object.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	start, end := strings.Index(s, "{"), strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return strings.TrimSpace(s)
}
