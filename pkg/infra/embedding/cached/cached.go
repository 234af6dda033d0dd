package cached

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/memorylane/dailyquestion/pkg/domain/embedding"
	"github.com/memorylane/dailyquestion/pkg/infra/cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// provider serves repeated texts from Redis. Exemplars of a question are
// embedded on every submitted answer, so most calls hit the cache.
type provider struct {
	next   embedding.Provider
	cache  cache.Client
	logger *logrus.Logger
	model  string
	ttl    time.Duration
	// callTimeout bounds the shared backend call, which outlives any one caller.
	callTimeout time.Duration
	sf          singleflight.Group
}

func New(
	next embedding.Provider,
	c cache.Client,
	logger *logrus.Logger,
	model string,
	ttl time.Duration,
	callTimeout time.Duration,
) embedding.Provider {
	return &provider{
		next:        next,
		cache:       c,
		logger:      logger,
		model:       model,
		ttl:         ttl,
		callTimeout: callTimeout,
	}
}

func (p *provider) Name() string {
	return p.next.Name()
}

func (p *provider) Embed(ctx context.Context, text string, dimensions int) (embedding.Vector, error) {
	key := Key(p.next.Name(), p.model, dimensions, text)

	vec, err := p.cache.GetEmbedding(ctx, key)
	if err == nil && vec.Dim() == dimensions {
		return vec, nil
	}
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		p.logger.WithError(err).Debug("embedding cache read failed")
	}

	// Concurrent answers to the same question share one backend call. The call
	// runs detached so a cancelled caller does not fail the others waiting on it.
	ch := p.sf.DoChan(key, func() (interface{}, error) {
		callCtx, cancel := p.sharedContext(ctx)
		defer cancel()
		v, err := p.next.Embed(callCtx, text, dimensions)
		if err != nil {
			return nil, err
		}
		if err := p.cache.SaveEmbedding(callCtx, key, v, p.ttl); err != nil {
			p.logger.WithError(err).Debug("embedding cache write failed")
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(embedding.Vector), nil
	}
}

func (p *provider) sharedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if p.callTimeout <= 0 {
		return context.WithCancel(detached)
	}
	return context.WithTimeout(detached, p.callTimeout)
}

// Key is sha256(provider|model|dimensions|text) in hex.
func Key(provider, model string, dimensions int, text string) string {
	h := sha256.New()
	h.Write([]byte(provider))
	h.Write([]byte{'|'})
	h.Write([]byte(model))
	h.Write([]byte{'|'})
	h.Write([]byte(strconv.Itoa(dimensions)))
	h.Write([]byte{'|'})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
