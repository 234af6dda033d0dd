package scoring

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/memorylane/dailyquestion/pkg/domain/embedding"
	"github.com/memorylane/dailyquestion/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const DefaultCallTimeout = 20 * time.Second

// Question is the part of a stored question the scorer needs.
type Question struct {
	Content   string
	Exemplars []string
}

//go:generate mockery --name=Scorer --dir=. --output=./mocks --filename=scorer_mock.go --case=underscore --with-expecter
type Scorer interface {
	// ScoreAnswer never fails; every problem ends in an unscored Result.
	ScoreAnswer(ctx context.Context, question Question, answerText string) Result
}

type pipeline struct {
	logger      *logrus.Logger
	provider    embedding.Provider
	config      ConfigSource
	callTimeout time.Duration
}

func NewPipeline(
	logger *logrus.Logger,
	provider embedding.Provider,
	config ConfigSource,
	callTimeout time.Duration,
) Scorer {
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}
	return &pipeline{
		logger:      logger,
		provider:    provider,
		config:      config,
		callTimeout: callTimeout,
	}
}

func (p *pipeline) ScoreAnswer(ctx context.Context, question Question, answerText string) Result {
	res := p.score(ctx, question, answerText)
	if res.IsScored() {
		prometheus.ObserveScore(*res.Value)
	} else {
		prometheus.CountUnscored(res.Reason)
	}
	return res
}

func (p *pipeline) score(ctx context.Context, question Question, answerText string) Result {
	cfg := p.config.Current()

	if strings.TrimSpace(answerText) == "" {
		return Unscored(ReasonEmptyAnswer)
	}
	if strings.TrimSpace(question.Content) == "" {
		return Unscored(ReasonEmptyQuestion)
	}
	exemplars := make([]string, 0, len(question.Exemplars))
	for _, e := range question.Exemplars {
		if strings.TrimSpace(e) != "" {
			exemplars = append(exemplars, e)
		}
	}
	if len(exemplars) == 0 {
		return Unscored(ReasonNoExemplars)
	}

	var questionVec, answerVec embedding.Vector
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := p.embed(gctx, question.Content, cfg.EmbeddingDimensions)
		if err != nil {
			return fmt.Errorf("question embedding: %w", err)
		}
		questionVec = v
		return nil
	})
	g.Go(func() error {
		v, err := p.embed(gctx, answerText, cfg.EmbeddingDimensions)
		if err != nil {
			return fmt.Errorf("answer embedding: %w", err)
		}
		answerVec = v
		return nil
	})
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return Unscored(ReasonCancelled)
		}
		p.logger.WithError(err).Warn("semantic scoring skipped: embedding failed")
		return Unscored(ReasonEmbeddingFailed)
	}

	relevant, err := IsRelevant(answerVec, questionVec, cfg.RelevanceThreshold)
	if err != nil {
		p.logger.WithError(err).Warn("semantic scoring skipped: unusable embedding")
		return Unscored(ReasonInvalidEmbedding)
	}
	if !relevant {
		p.logger.Debug("answer is off topic, semantic score set to zero")
		return Scored(0)
	}

	similarities := p.exemplarSimilarities(ctx, answerVec, exemplars, cfg)
	if ctx.Err() != nil {
		return Unscored(ReasonCancelled)
	}

	raw, err := Aggregate(similarities, cfg.TopK)
	if err != nil {
		p.logger.WithError(err).Warn("semantic scoring skipped")
		return Unscored(ReasonNoSimilarities)
	}

	return Scored(Round2(Rescale(raw, cfg.SigmoidK, cfg.SigmoidX0)))
}

// exemplarSimilarities embeds every exemplar with at most cfg.MaxConcurrency
// calls in flight. Exemplars that fail are left out.
func (p *pipeline) exemplarSimilarities(
	ctx context.Context,
	answerVec embedding.Vector,
	exemplars []string,
	cfg Config,
) []float64 {
	sem := semaphore.NewWeighted(int64(cfg.MaxConcurrency))
	sims := make([]float64, len(exemplars))
	ok := make([]bool, len(exemplars))

	var wg sync.WaitGroup
	for i, text := range exemplars {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			defer sem.Release(1)

			v, err := p.embed(ctx, text, cfg.EmbeddingDimensions)
			if err != nil {
				if ctx.Err() == nil {
					p.logger.WithError(err).WithField("exemplar", i).Warn("skipping exemplar: embedding failed")
				}
				return
			}
			s, err := CosineSimilarity(answerVec, v)
			if err != nil {
				p.logger.WithError(err).WithField("exemplar", i).Warn("skipping exemplar: unusable embedding")
				return
			}
			sims[i] = s
			ok[i] = true
		}(i, text)
	}
	wg.Wait()

	out := make([]float64, 0, len(exemplars))
	for i, s := range sims {
		if ok[i] {
			out = append(out, s)
		}
	}
	return out
}

// embed bounds one provider call by callTimeout and checks the vector length.
func (p *pipeline) embed(ctx context.Context, text string, dims int) (embedding.Vector, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()

	v, err := p.provider.Embed(callCtx, text, dims)
	if err != nil {
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: no response within %s", embedding.ErrEmbeddingUnavailable, p.callTimeout)
		}
		return nil, err
	}
	if v.Dim() != dims {
		return nil, fmt.Errorf("%w: requested %d, got %d", ErrDimensionMismatch, dims, v.Dim())
	}
	return v, nil
}
