// Package gemini implements text completion on Google's Gemini models.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/config"
)

const defaultModel = "gemini-1.5-flash"

var ErrEmptyResponse = errors.New("gemini returned no text")

// Provider completes prompts with a single Gemini generative model.
type Provider struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

// New dials the Gemini API with the configured key.
func New(ctx context.Context, cfg config.GeminiConfig, opts ...option.ClientOption) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	name := cfg.Model
	if name == "" {
		name = defaultModel
	}

	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Provider{
		client:    client,
		model:     client.GenerativeModel(name),
		modelName: name,
	}, nil
}

func (p *Provider) Name() string { return "gemini" }

// Model returns the configured model name.
func (p *Provider) Model() string { return p.modelName }

func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return responseText(resp)
}

func (p *Provider) Close() error {
	return p.client.Close()
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrEmptyResponse)
	}
	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: finish reason %s", ErrEmptyResponse, cand.FinishReason)
	}

	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("%w: finish reason %s", ErrEmptyResponse, cand.FinishReason)
	}
	return b.String(), nil
}
