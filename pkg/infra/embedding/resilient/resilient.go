package resilient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/memorylane/dailyquestion/pkg/domain/embedding"
	"github.com/memorylane/dailyquestion/pkg/infra/httpx"
	"github.com/memorylane/dailyquestion/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

// errCallerDone marks attempts abandoned because the caller's own context
// ended. They say nothing about backend health and never trip the breaker.
var errCallerDone = errors.New("caller context done")

type Options struct {
	// AttemptTimeout bounds a single backend call.
	AttemptTimeout time.Duration
	// MaxRetries is the number of extra attempts after an unavailable error.
	MaxRetries  int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	// BreakerFailures consecutive unavailable errors open the breaker for BreakerTimeout.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

func DefaultOptions() Options {
	return Options{
		AttemptTimeout:  10 * time.Second,
		MaxRetries:      2,
		BaseBackoff:     200 * time.Millisecond,
		MaxBackoff:      2 * time.Second,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
	}
}

// Budget is the longest Embed can run when every attempt times out, backoff
// included. Outer deadlines shorter than this cut retries off.
func (o Options) Budget() time.Duration {
	if o.AttemptTimeout <= 0 {
		return 0
	}
	retries := o.MaxRetries
	if retries < 0 {
		retries = 0
	}
	p := &provider{opts: o}
	total := o.AttemptTimeout * time.Duration(retries+1)
	for attempt := 1; attempt <= retries; attempt++ {
		total += p.backoff(attempt)
	}
	return total
}

type provider struct {
	next    embedding.Provider
	logger  *logrus.Logger
	opts    Options
	breaker httpx.CircuitBreaker
	sleep   func(ctx context.Context, d time.Duration) error
}

func New(next embedding.Provider, logger *logrus.Logger, opts Options) embedding.Provider {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = DefaultOptions().BreakerFailures
	}
	breaker := httpx.NewCircuitBreaker(
		"embedding-"+next.Name(),
		opts.BreakerTimeout,
		opts.BreakerFailures,
		httpx.WithIgnoredErrors(func(err error) bool {
			return errors.Is(err, embedding.ErrEmbeddingRequest) ||
				errors.Is(err, errCallerDone) ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, httpx.ErrRequestCancelled)
		}),
	)
	return &provider{
		next:    next,
		logger:  logger,
		opts:    opts,
		breaker: breaker,
		sleep:   sleepContext,
	}
}

func (p *provider) Name() string {
	return p.next.Name()
}

func (p *provider) Embed(ctx context.Context, text string, dimensions int) (embedding.Vector, error) {
	var lastErr error
	for attempt := 0; attempt <= p.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := p.sleep(ctx, p.backoff(attempt)); err != nil {
				return nil, err
			}
		}

		vec, err := p.attempt(ctx, text, dimensions)
		if err == nil {
			return vec, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !errors.Is(err, embedding.ErrEmbeddingUnavailable) {
			return nil, err
		}
		p.logger.WithFields(logrus.Fields{
			"provider": p.next.Name(),
			"attempt":  attempt + 1,
		}).WithError(err).Debug("embedding attempt failed")
	}
	return nil, lastErr
}

func (p *provider) attempt(ctx context.Context, text string, dimensions int) (embedding.Vector, error) {
	var vec embedding.Vector
	start := time.Now()

	err := p.breaker.Execute(func() error {
		callCtx := ctx
		if p.opts.AttemptTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, p.opts.AttemptTimeout)
			defer cancel()
		}
		v, err := p.next.Embed(callCtx, text, dimensions)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("%w: %w", errCallerDone, ctx.Err())
			}
			if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w: attempt timed out after %s", embedding.ErrEmbeddingUnavailable, p.opts.AttemptTimeout)
			}
			return err
		}
		vec = v
		return nil
	})

	if prometheus.Config.EnableUpstream {
		prometheus.EmbeddingLatency.WithLabelValues(p.next.Name()).Observe(float64(time.Since(start).Milliseconds()))
	}
	if err != nil {
		if httpx.IsOpen(err) {
			err = fmt.Errorf("%w: %v", embedding.ErrEmbeddingUnavailable, err)
		}
		prometheus.EmbeddingFailures.WithLabelValues(p.next.Name(), failureKind(err)).Inc()
		return nil, err
	}
	return vec, nil
}

func (p *provider) backoff(attempt int) time.Duration {
	d := p.opts.BaseBackoff
	for i := 1; i < attempt; i++ {
		d *= 2
		if p.opts.MaxBackoff > 0 && d >= p.opts.MaxBackoff {
			return p.opts.MaxBackoff
		}
	}
	if p.opts.MaxBackoff > 0 && d > p.opts.MaxBackoff {
		return p.opts.MaxBackoff
	}
	return d
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, embedding.ErrEmbeddingRequest):
		return "request"
	case errors.Is(err, embedding.ErrEmbeddingUnavailable):
		return "unavailable"
	default:
		return "other"
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
