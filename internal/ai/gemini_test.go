package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiGenerate(t *testing.T) {
	var (
		gotPath string
		gotKey  string
		gotBody geminiRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Dear team,"},{"text":" hire me."}]}}]}`))
	}))
	defer srv.Close()

	g := NewGemini(GeminiConfig{APIKey: "g-key", Endpoint: srv.URL}, zerolog.Nop())
	text, err := g.Generate(context.Background(), "write a letter")

	require.NoError(t, err)
	assert.Equal(t, "Dear team, hire me.", text)
	assert.Equal(t, "/"+DefaultGeminiModel+":generateContent", gotPath)
	assert.Equal(t, "g-key", gotKey)
	require.Len(t, gotBody.Contents, 1)
	assert.Equal(t, "write a letter", gotBody.Contents[0].Parts[0].Text)
}

func TestGeminiErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"provider error", http.StatusBadRequest, `{"error":{"message":"API key not valid"}}`, "API key not valid"},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, ErrEmptyCompletion.Error()},
		{"undecodable", http.StatusBadGateway, `<html>`, "decoding model response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := NewGemini(GeminiConfig{APIKey: "k", Endpoint: srv.URL}, zerolog.Nop())
			_, err := g.Generate(context.Background(), "p")
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
