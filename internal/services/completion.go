package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"blackgpt-backend/internal/metrics"
)

// ErrEmptyCompletion is returned when the upstream answered without any text.
var ErrEmptyCompletion = errors.New("upstream returned no completion text")

// Completer turns a single user prompt into a generated reply.
type Completer interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// UpstreamOptions selects and configures the completion provider.
type UpstreamOptions struct {
	Provider           string
	APIKey             string
	BaseURL            string
	Model              string
	Referer            string
	Title              string
	ConcurrentRequests int
}

// NewCompleter builds the provider named in opts and bounds it with a
// concurrency limiter. The returned close func releases provider resources.
func NewCompleter(ctx context.Context, opts UpstreamOptions, log zerolog.Logger) (Completer, func(), error) {
	var (
		inner   Completer
		closeFn = func() {}
	)

	switch opts.Provider {
	case "openrouter", "":
		inner = NewOpenRouterCompleter(opts.APIKey, opts.BaseURL, opts.Model, opts.Referer, opts.Title)
	case "gemini":
		g, err := NewGeminiCompleter(ctx, opts.APIKey, opts.Model, log)
		if err != nil {
			return nil, nil, err
		}
		inner = g
		closeFn = g.Close
	case "openai-compatible":
		l, err := NewLangChainCompleter(opts.BaseURL, opts.APIKey, opts.Model)
		if err != nil {
			return nil, nil, err
		}
		inner = l
	default:
		return nil, nil, fmt.Errorf("unknown upstream provider %q", opts.Provider)
	}

	return NewLimitedCompleter(inner, opts.ConcurrentRequests), closeFn, nil
}

// LimitedCompleter caps in-flight upstream calls with a token bucket and
// records call latency.
type LimitedCompleter struct {
	inner    Completer
	rateChan chan struct{}
}

func NewLimitedCompleter(inner Completer, concurrentReqs int) *LimitedCompleter {
	if concurrentReqs < 1 {
		concurrentReqs = 1
	}

	// Token bucket for rate limiting
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &LimitedCompleter{inner: inner, rateChan: rateChan}
}

func (l *LimitedCompleter) Name() string { return l.inner.Name() }

func (l *LimitedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if err := l.acquireRate(ctx); err != nil {
		return "", err
	}
	defer l.releaseRate()

	start := time.Now()
	reply, err := l.inner.Complete(ctx, prompt)
	metrics.UpstreamDuration.WithLabelValues(l.inner.Name()).Observe(time.Since(start).Seconds())
	return reply, err
}

// acquireRate blocks until a rate slot is available
func (l *LimitedCompleter) acquireRate(ctx context.Context) error {
	select {
	case <-l.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *LimitedCompleter) releaseRate() {
	l.rateChan <- struct{}{}
}
