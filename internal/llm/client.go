// Package llm wraps the language model call for hunk review: prompt in,
// structured suggestions out, with failures isolated to the single hunk.
package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/pullscout/internal/retry"
	"github.com/pullscout/pkg/models"
)

// Provider identifies a model provider backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderClaude Provider = "claude"
	ProviderOllama Provider = "ollama"
)

// Options configures the model client.
type Options struct {
	Provider    Provider
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Client invokes the model with fixed sampling configuration chosen to
// favor consistent, parseable output.
type Client struct {
	model       llms.Model
	opts        Options
	retryConfig retry.Config
}

// NewClient creates a model client for the configured provider.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.Model == "" {
		return nil, fmt.Errorf("model identifier is required")
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 700
	}

	log.Debug().
		Str("provider", string(opts.Provider)).
		Str("model", opts.Model).
		Float64("temperature", opts.Temperature).
		Int("max_tokens", opts.MaxTokens).
		Msg("Creating model client")

	var model llms.Model
	var err error
	switch opts.Provider {
	case ProviderOpenAI:
		model, err = createOpenAIModel(opts)
	case ProviderGemini:
		model, err = createGeminiModel(ctx, opts)
	case ProviderClaude:
		model, err = createAnthropicModel(opts)
	case ProviderOllama:
		model, err = createOllamaModel(opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", opts.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create model for provider %s: %w", opts.Provider, err)
	}

	return &Client{
		model:       model,
		opts:        opts,
		retryConfig: retry.ModelConfig(),
	}, nil
}

// Review sends the prompt and parses the response into suggestions. The
// second return value is false when the hunk produced no usable result;
// transport and parse failures never propagate past this boundary.
func (c *Client) Review(ctx context.Context, prompt string) ([]models.Suggestion, bool) {
	var raw string

	result := retry.Do(ctx, c.retryConfig, func() error {
		response, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt, c.callOptions()...)
		if err != nil {
			return err
		}
		raw = response
		return nil
	})

	if !result.Success {
		log.Warn().
			Err(result.LastError).
			Int("attempts", result.Attempts).
			Dur("duration", result.TotalDuration).
			Msg("Model call failed, skipping hunk")
		return nil, false
	}

	suggestions, err := ParseSuggestions(raw)
	if err != nil {
		log.Warn().Err(err).Msg("Unparsable model response, skipping hunk")
		return nil, false
	}

	return suggestions, true
}

// callOptions returns the fixed sampling configuration: low temperature,
// full nucleus mass, no penalties, bounded output length.
func (c *Client) callOptions() []llms.CallOption {
	return []llms.CallOption{
		llms.WithModel(c.opts.Model),
		llms.WithTemperature(c.opts.Temperature),
		llms.WithTopP(1.0),
		llms.WithFrequencyPenalty(0),
		llms.WithPresencePenalty(0),
		llms.WithMaxTokens(c.opts.MaxTokens),
	}
}

func createOpenAIModel(opts Options) (llms.Model, error) {
	o := []openai.Option{
		openai.WithToken(opts.APIKey),
		openai.WithModel(opts.Model),
	}
	if opts.BaseURL != "" {
		o = append(o, openai.WithBaseURL(opts.BaseURL))
	}
	return openai.New(o...)
}

func createGeminiModel(ctx context.Context, opts Options) (llms.Model, error) {
	return googleai.New(ctx,
		googleai.WithAPIKey(opts.APIKey),
		googleai.WithDefaultModel(opts.Model),
		googleai.WithDefaultMaxTokens(opts.MaxTokens),
	)
}

func createAnthropicModel(opts Options) (llms.Model, error) {
	return anthropic.New(
		anthropic.WithToken(opts.APIKey),
		anthropic.WithModel(opts.Model),
	)
}

func createOllamaModel(opts Options) (llms.Model, error) {
	o := []ollama.Option{ollama.WithModel(opts.Model)}
	if opts.BaseURL != "" {
		o = append(o, ollama.WithServerURL(opts.BaseURL))
	}
	return ollama.New(o...)
}
