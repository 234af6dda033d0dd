package question

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/memorylane/dailyquestion/pkg/config"
	"github.com/memorylane/dailyquestion/pkg/domain"
	domainQuestion "github.com/memorylane/dailyquestion/pkg/domain/question"
	"github.com/memorylane/dailyquestion/pkg/infra/cache"
	"github.com/memorylane/dailyquestion/pkg/infra/providers"
	"github.com/memorylane/dailyquestion/pkg/infra/providers/factory"
	"github.com/memorylane/dailyquestion/pkg/infra/services/rag"
	"github.com/memorylane/dailyquestion/pkg/infra/services/stories"
	"github.com/memorylane/dailyquestion/pkg/infra/services/users"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	defaultGenerationTimeout = 15 * time.Second
	defaultPassageLimit      = 3
	ragQuery                 = "최근 일상과 기억에 남는 일"

	DefaultFallbackQuestion = "오늘 하루는 어떠셨나요?"
)

var ErrProviderNotConfigured = errors.New("question provider not configured")

//go:generate mockery --name=DailyGenerator --dir=. --output=./mocks --filename=daily_generator_mock.go --case=underscore --with-expecter
type DailyGenerator interface {
	// DailyQuestion returns the user's question for today, generating and
	// persisting one on the first call of the day.
	DailyQuestion(ctx context.Context, userID int64) (*domainQuestion.Question, error)
}

type DailyConfig struct {
	Provider          string
	Model             string
	MaxTokens         int
	Temperature       float64
	FallbackQuestion  string
	FallbackAnswers   []string
	StoryLimit        int
	PassageLimit      int
	GenerationTimeout time.Duration
}

// DailyConfigFrom maps the question section of the service config.
func DailyConfigFrom(c config.QuestionConfig) DailyConfig {
	return DailyConfig{
		Provider:         c.Provider,
		Model:            c.Model,
		MaxTokens:        c.MaxTokens,
		Temperature:      c.Temperature,
		FallbackQuestion: c.FallbackQuestion,
		FallbackAnswers:  c.FallbackAnswers,
		StoryLimit:       c.StoryLimit,
	}
}

type dailyGenerator struct {
	logger    *logrus.Logger
	users     users.Client
	repo      domainQuestion.Repository
	cache     cache.Client
	stories   stories.Client
	rag       rag.Client
	locator   factory.ProviderLocator
	providers config.ProvidersConfig
	cfg       DailyConfig
	group     singleflight.Group
	now       func() time.Time
}

// NewDailyGenerator builds the daily question flow. storyClient and ragClient
// may be nil when those services are not deployed.
func NewDailyGenerator(
	logger *logrus.Logger,
	usersClient users.Client,
	repo domainQuestion.Repository,
	cacheClient cache.Client,
	storyClient stories.Client,
	ragClient rag.Client,
	locator factory.ProviderLocator,
	providersCfg config.ProvidersConfig,
	cfg DailyConfig,
) DailyGenerator {
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = defaultGenerationTimeout
	}
	if cfg.PassageLimit <= 0 {
		cfg.PassageLimit = defaultPassageLimit
	}
	if cfg.FallbackQuestion == "" {
		cfg.FallbackQuestion = DefaultFallbackQuestion
	}
	return &dailyGenerator{
		logger:    logger,
		users:     usersClient,
		repo:      repo,
		cache:     cacheClient,
		stories:   storyClient,
		rag:       ragClient,
		locator:   locator,
		providers: providersCfg,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (g *dailyGenerator) DailyQuestion(ctx context.Context, userID int64) (*domainQuestion.Question, error) {
	if _, err := g.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	today := g.now()
	key := strconv.FormatInt(userID, 10) + ":" + today.Format("2006-01-02")
	// The shared resolve is detached from any one caller; each caller stops
	// waiting only when its own context ends.
	ch := g.group.DoChan(key, func() (interface{}, error) {
		resolveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.resolveTimeout())
		defer cancel()
		return g.resolve(resolveCtx, userID, today)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domainQuestion.Question), nil
	}
}

// resolveTimeout covers gathering context, the model call and persistence.
func (g *dailyGenerator) resolveTimeout() time.Duration {
	return 2 * g.cfg.GenerationTimeout
}

func (g *dailyGenerator) resolve(ctx context.Context, userID int64, today time.Time) (*domainQuestion.Question, error) {
	log := g.logger.WithField("user_id", userID)

	id, err := g.cache.GetDailyQuestionID(ctx, userID, today)
	switch {
	case err == nil:
		q, err := g.repo.Get(ctx, id)
		if err == nil {
			return q, nil
		}
		if !domain.IsNotFoundError(err) {
			return nil, fmt.Errorf("load daily question: %w", err)
		}
		log.WithField("question_id", id).Warn("cached daily question no longer exists, generating a new one")
	case !errors.Is(err, cache.ErrCacheMiss):
		log.WithError(err).Warn("daily question cache unavailable")
	}

	q := g.generate(ctx, userID)
	if err := g.repo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("persist daily question: %w", err)
	}
	if err := g.cache.SaveDailyQuestionID(ctx, userID, today, q.ID); err != nil {
		log.WithError(err).Warn("failed to cache daily question")
	}

	log.WithFields(logrus.Fields{
		"question_id": q.ID,
		"source":      q.Source,
	}).Info("daily question issued")
	return q, nil
}

// generate never fails; any problem with the model yields the fallback question.
func (g *dailyGenerator) generate(ctx context.Context, userID int64) *domainQuestion.Question {
	userStories, passages := g.gatherContext(ctx, userID)

	q, err := g.ask(ctx, buildPrompt(userStories, passages))
	if err != nil {
		g.logger.WithError(err).WithField("user_id", userID).Warn("question generation failed, using fallback")
		return g.fallback()
	}
	return q
}

func (g *dailyGenerator) gatherContext(ctx context.Context, userID int64) ([]stories.Story, []rag.Passage) {
	var (
		userStories []stories.Story
		passages    []rag.Passage
	)

	var eg errgroup.Group
	if g.stories != nil {
		eg.Go(func() error {
			s, err := g.stories.RecentStories(ctx, userID, g.cfg.StoryLimit)
			if err != nil {
				g.logger.WithError(err).WithField("user_id", userID).Warn("story context unavailable")
				return nil
			}
			userStories = s
			return nil
		})
	}
	if g.rag != nil {
		eg.Go(func() error {
			p, err := g.rag.Retrieve(ctx, userID, ragQuery, g.cfg.PassageLimit)
			if err != nil {
				g.logger.WithError(err).WithField("user_id", userID).Warn("rag context unavailable")
				return nil
			}
			passages = p
			return nil
		})
	}
	_ = eg.Wait()

	return userStories, passages
}

func (g *dailyGenerator) ask(ctx context.Context, prompt string) (*domainQuestion.Question, error) {
	if g.cfg.Provider == "" {
		return nil, ErrProviderNotConfigured
	}
	provCfg, ok := g.providers.Get(g.cfg.Provider)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, g.cfg.Provider)
	}
	client, err := g.locator.Get(g.cfg.Provider)
	if err != nil {
		return nil, err
	}

	model := g.cfg.Model
	if model == "" {
		model = provCfg.DefaultModel
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.GenerationTimeout)
	defer cancel()

	resp, err := client.Ask(ctx, &providers.Config{
		Credentials: providers.Credentials{
			APIKey:  provCfg.APIKey,
			BaseURL: provCfg.BaseURL,
			Region:  provCfg.Region,
		},
		Model:        model,
		MaxTokens:    g.cfg.MaxTokens,
		Temperature:  g.cfg.Temperature,
		SystemPrompt: systemPrompt,
		Options:      provCfg.Options,
	}, prompt)
	if err != nil {
		return nil, fmt.Errorf("ask %s: %w", g.cfg.Provider, err)
	}

	g.logger.WithFields(logrus.Fields{
		"provider":          g.cfg.Provider,
		"model":             resp.Model,
		"completion_tokens": resp.Usage.CompletionTokens,
	}).Debug("question generated")

	return parseGenerated(resp.Response)
}

func (g *dailyGenerator) fallback() *domainQuestion.Question {
	answers := make([]string, len(g.cfg.FallbackAnswers))
	copy(answers, g.cfg.FallbackAnswers)
	return &domainQuestion.Question{
		Content:         g.cfg.FallbackQuestion,
		ExpectedAnswers: answers,
		Source:          domainQuestion.SourceFallback,
	}
}
