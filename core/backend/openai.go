package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/pagesift/core"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIBackend answers prompts through any OpenAI-compatible chat
// completions endpoint (OpenAI, Ollama's /v1, vLLM, OpenRouter).
type OpenAIBackend struct {
	client openai.Client
	model  string
	log    zerolog.Logger
}

// NewOpenAI creates an OpenAIBackend. baseURL may be empty for the
// official API.
func NewOpenAI(apiKey, baseURL, model string, log zerolog.Logger) *OpenAIBackend {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIBackend{
		client: openai.NewClient(opts...),
		model:  model,
		log:    log.With().Str("backend", "openai").Str("model", model).Logger(),
	}
}

// Complete sends the prompt as a single user message.
func (b *OpenAIBackend) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: b.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", core.BackendErr("complete", fmt.Errorf("chat completion: %w", err))
	}
	if len(resp.Choices) == 0 {
		return "", core.BackendErr("complete", errors.New("chat completion returned no choices"))
	}
	b.log.Debug().Int64("total_tokens", resp.Usage.TotalTokens).Msg("completion received")
	return resp.Choices[0].Message.Content, nil
}
