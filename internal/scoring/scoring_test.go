package scoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassthrough(t *testing.T) {
	res, err := Passthrough{}.Score(context.Background(), Input{}, &Result{Technical: `{"score":80}`})
	require.NoError(t, err)
	assert.Equal(t, `{"score":80}`, res.Technical)
	assert.Nil(t, res.Business)

	for _, supplied := range []*Result{
		nil,
		{Resource: `{"score":1}`},
		{Technical: "not-json"},
		{Technical: `{"summary":"no score"}`},
	} {
		_, err = Passthrough{}.Score(context.Background(), Input{}, supplied)
		assert.ErrorIs(t, err, ErrInvalidSupplied)
	}
}

func TestNew(t *testing.T) {
	s, err := New("", GeminiOpts{})
	require.NoError(t, err)
	assert.IsType(t, Passthrough{}, s)

	_, err = New("gemini", GeminiOpts{})
	assert.Error(t, err)

	_, err = New("oracle", GeminiOpts{})
	assert.Error(t, err)
}

func geminiReply(text string) []byte {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{"parts": []any{map[string]any{"text": text}}},
		}},
	})
	return b
}

func TestGemini_FallsBackAcrossModels(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "k-1", r.Header.Get("x-goog-api-key"))
		if strings.Contains(r.URL.Path, "broken-model") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(geminiReply("```json\n{\"resource\":{\"score\":60},\"technical\":{\"score\":80,\"summary\":\"fits\"},\"business\":null}\n```"))
	}))
	defer srv.Close()

	g, err := NewGemini(GeminiOpts{APIKey: "k-1", Endpoint: srv.URL, Models: []string{"broken-model", "good-model"}})
	require.NoError(t, err)

	res, err := g.Score(context.Background(), Input{Model: "qwen-72b", Hardware: "A100", CardCount: 8}, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
	assert.JSONEq(t, `{"score":60}`, res.Resource)
	assert.JSONEq(t, `{"score":80,"summary":"fits"}`, res.Technical)
	assert.Nil(t, res.Business)
}

func TestGemini_AllModelsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(geminiReply(`{"resource":{"score":1}}`))
	}))
	defer srv.Close()

	g, err := NewGemini(GeminiOpts{APIKey: "k", Endpoint: srv.URL, Models: []string{"m"}})
	require.NoError(t, err)
	_, err = g.Score(context.Background(), Input{}, nil)
	assert.ErrorIs(t, err, ErrNoPayload)
}

func TestCleanJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanJSON("Here you go:\n```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":{"b":2}}`, cleanJSON(`{"a":{"b":2}}`))
}
