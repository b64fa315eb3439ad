package mock

import (
	"context"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/llm"
)

// Provider satisfies llm.Provider for testing.
type Provider struct {
	Name_        string
	CompleteFunc func(ctx context.Context, prompt string) (string, error)
	Prompts      []string
}

func (m *Provider) Name() string { return m.Name_ }

func (m *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}
	return "", nil
}

// NewMockProvider returns a Provider that always answers with text.
func NewMockProvider(text string) *Provider {
	return &Provider{
		Name_: "mock",
		CompleteFunc: func(_ context.Context, _ string) (string, error) {
			return text, nil
		},
	}
}

// NewScriptedProvider answers with the given results in order and repeats the
// last one once the script runs out.
func NewScriptedProvider(results ...Result) *Provider {
	i := 0
	return &Provider{
		Name_: "mock-scripted",
		CompleteFunc: func(_ context.Context, _ string) (string, error) {
			if len(results) == 0 {
				return "", nil
			}
			r := results[min(i, len(results)-1)]
			i++
			return r.Text, r.Err
		},
	}
}

// Result is one scripted completion.
type Result struct {
	Text string
	Err  error
}

// NewFailingProvider returns a Provider that always returns the given error.
func NewFailingProvider(err error) *Provider {
	return &Provider{
		Name_: "mock-failing",
		CompleteFunc: func(_ context.Context, _ string) (string, error) {
			return "", err
		},
	}
}

// NewTimeoutProvider returns a Provider that blocks until context is cancelled.
func NewTimeoutProvider() *Provider {
	return &Provider{
		Name_: "mock-timeout",
		CompleteFunc: func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
}

var _ llm.Provider = (*Provider)(nil)
