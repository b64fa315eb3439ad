package llm

import (
	"context"
	"fmt"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/config"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/llm/gemini"
)

// NewProvider constructs the configured provider, bounded by the inference
// timeout. Called once at startup. Providers holding connections implement
// io.Closer.
func NewProvider(ctx context.Context, cfg *config.Config) (Provider, error) {
	var (
		p   Provider
		err error
	)

	switch cfg.AI.Provider {
	case "gemini":
		p, err = gemini.New(ctx, cfg.Gemini)
	case "ollama":
		p, err = newOllama(cfg.Ollama)
	case "vllm":
		p, err = newVLLM(cfg.VLLM)
	case "openai":
		p, err = newOpenAI(cfg.OpenAI)
	case "anthropic":
		p, err = newAnthropic(cfg.Anthropic)
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of gemini, ollama, vllm, openai, anthropic", cfg.AI.Provider)
	}
	if err != nil {
		return nil, err
	}

	return WithTimeout(p, cfg.AI.InferenceTimeout), nil
}
