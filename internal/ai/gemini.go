package ai

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

	"github.com/rs/zerolog"
)

const (
	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultGeminiModel    = "gemini-2.5-flash"
)

// ErrEmptyCompletion is returned when the model answers without text.
var ErrEmptyCompletion = errors.New("model returned no text")

type GeminiConfig struct {
	APIKey   string
	Model    string
	Endpoint string
	Client   *http.Client
}

// Gemini generates text with the Gemini generateContent API.
type Gemini struct {
	apiKey string
	url    string
	client *http.Client
	log    zerolog.Logger
}

// NewGemini returns a client for cfg. Zero fields take defaults.
func NewGemini(cfg GeminiConfig, log zerolog.Logger) *Gemini {
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultGeminiEndpoint
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Gemini{
		apiKey: cfg.APIKey,
		url:    strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Model + ":generateContent",
		client: cfg.Client,
		log:    log.With().Str("component", "ai").Str("model", cfg.Model).Logger(),
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends prompt and returns the first candidate's text.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}})
	if err != nil {
		return "", fmt.Errorf("encoding prompt: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling model: %w", err)
	}
	defer resp.Body.Close()

	var out geminiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding model response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := resp.Status
		if out.Error != nil && out.Error.Message != "" {
			reason = out.Error.Message
		}
		return "", fmt.Errorf("model rejected request: %s", reason)
	}

	var b strings.Builder
	if len(out.Candidates) > 0 {
		for _, p := range out.Candidates[0].Content.Parts {
			b.WriteString(p.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrEmptyCompletion
	}

	g.log.Debug().Int("chars", len(text)).Msg("completion received")
	return text, nil
}
