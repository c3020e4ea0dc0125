package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/pagesift/core"
)

const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "llama3"
	defaultTimeout     = 120 * time.Second
)

// OllamaBackend answers prompts with Ollama's generate API.
type OllamaBackend struct {
	BaseURL string
	Model   string
	client  *http.Client
	log     zerolog.Logger
}

// NewOllama creates an OllamaBackend. Empty arguments fall back to the
// local default endpoint and model.
func NewOllama(baseURL, model string, timeout time.Duration, log zerolog.Logger) *OllamaBackend {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &OllamaBackend{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Model:   model,
		client:  &http.Client{Timeout: timeout},
		log:     log.With().Str("backend", "ollama").Str("model", model).Logger(),
	}
}

// ollamaRequest is the request body for the Ollama generate API.
type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// ollamaResponse is the non-streaming response body from the generate API.
type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Complete sends one prompt and returns the model's answer.
func (b *OllamaBackend) Complete(ctx context.Context, prompt string) (string, error) {
	bodyBytes, err := json.Marshal(ollamaRequest{Model: b.Model, Prompt: prompt})
	if err != nil {
		return "", core.BackendErr("complete", fmt.Errorf("marshaling request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL+"/api/generate", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", core.BackendErr("complete", fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := b.client.Do(req)
	if err != nil {
		return "", core.BackendErr("complete", fmt.Errorf("calling Ollama API: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", core.BackendErr("complete", fmt.Errorf("Ollama API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", core.BackendErr("complete", fmt.Errorf("decoding Ollama response: %w", err))
	}
	if out.Error != "" {
		return "", core.BackendErr("complete", fmt.Errorf("Ollama: %s", out.Error))
	}

	b.log.Debug().Dur("took", time.Since(start)).Int("prompt_len", len(prompt)).Msg("completion received")
	return out.Response, nil
}
