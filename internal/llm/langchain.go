package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/config"
)

// ChainProvider adapts a langchaingo model to Provider.
type ChainProvider struct {
	name  string
	model llms.Model
}

// NewChainProvider wraps an already-constructed langchaingo model.
func NewChainProvider(name string, model llms.Model) *ChainProvider {
	return &ChainProvider{name: name, model: model}
}

func (p *ChainProvider) Name() string { return p.name }

func (p *ChainProvider) Complete(ctx context.Context, prompt string) (string, error) {
	text, err := llms.GenerateFromSinglePrompt(ctx, p.model, prompt)
	if err != nil {
		return "", fmt.Errorf("%s generate: %w", p.name, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w: empty completion", p.name, ErrInvalidResponse)
	}
	return text, nil
}

var _ Provider = (*ChainProvider)(nil)

func newOllama(cfg config.OllamaConfig) (*ChainProvider, error) {
	model, err := ollama.New(
		ollama.WithModel(cfg.Model),
		ollama.WithServerURL(cfg.BaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama model: %w", err)
	}
	return NewChainProvider("ollama", model), nil
}

// vLLM serves the OpenAI chat completions API; the token is unused but the
// client refuses to start without one.
func newVLLM(cfg config.VLLMConfig) (*ChainProvider, error) {
	model, err := openai.New(
		openai.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/v1"),
		openai.WithModel(cfg.Model),
		openai.WithToken("vllm"),
	)
	if err != nil {
		return nil, fmt.Errorf("create vllm model: %w", err)
	}
	return NewChainProvider("vllm", model), nil
}

func newOpenAI(cfg config.OpenAIConfig) (*ChainProvider, error) {
	model, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("create openai model: %w", err)
	}
	return NewChainProvider("openai", model), nil
}

func newAnthropic(cfg config.AnthropicConfig) (*ChainProvider, error) {
	model, err := anthropic.New(
		anthropic.WithToken(cfg.APIKey),
		anthropic.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("create anthropic model: %w", err)
	}
	return NewChainProvider("anthropic", model), nil
}
