// Package llm exposes text-completion language models behind one interface.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Provider completes a prompt into free text.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// timed bounds every completion by a per-call deadline.
type timed struct {
	Provider
	timeout time.Duration
}

// WithTimeout wraps p so each Complete call runs under its own deadline.
// A non-positive timeout returns p unchanged.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return p
	}
	return &timed{Provider: p, timeout: timeout}
}

func (t *timed) Complete(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	text, err := t.Provider.Complete(callCtx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return "", fmt.Errorf("%w: %s after %s", ErrInferenceTimeout, t.Name(), t.timeout)
		}
		return "", err
	}
	return text, nil
}

// Close closes the wrapped provider when it holds a connection.
func (t *timed) Close() error {
	if c, ok := t.Provider.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
