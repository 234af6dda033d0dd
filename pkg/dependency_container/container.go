package dependency_container

import (
	"context"
	"fmt"
	"time"

	appAnswer "github.com/memorylane/dailyquestion/pkg/app/answer"
	appQuestion "github.com/memorylane/dailyquestion/pkg/app/question"
	"github.com/memorylane/dailyquestion/pkg/app/scoring"
	"github.com/memorylane/dailyquestion/pkg/config"
	domainEmbedding "github.com/memorylane/dailyquestion/pkg/domain/embedding"
	"github.com/memorylane/dailyquestion/pkg/domain/events"
	handlers "github.com/memorylane/dailyquestion/pkg/handlers/http"
	"github.com/memorylane/dailyquestion/pkg/infra/auth/jwt"
	"github.com/memorylane/dailyquestion/pkg/infra/bedrock"
	"github.com/memorylane/dailyquestion/pkg/infra/cache"
	"github.com/memorylane/dailyquestion/pkg/infra/database"
	"github.com/memorylane/dailyquestion/pkg/infra/embedding/cached"
	embeddingFactory "github.com/memorylane/dailyquestion/pkg/infra/embedding/factory"
	"github.com/memorylane/dailyquestion/pkg/infra/embedding/resilient"
	"github.com/memorylane/dailyquestion/pkg/infra/events/kafka"
	"github.com/memorylane/dailyquestion/pkg/infra/httpx"
	providersFactory "github.com/memorylane/dailyquestion/pkg/infra/providers/factory"
	"github.com/memorylane/dailyquestion/pkg/infra/repository"
	"github.com/memorylane/dailyquestion/pkg/infra/services/rag"
	"github.com/memorylane/dailyquestion/pkg/infra/services/stories"
	"github.com/memorylane/dailyquestion/pkg/infra/services/users"
	"github.com/memorylane/dailyquestion/pkg/infra/services/voice"
	"github.com/memorylane/dailyquestion/pkg/infra/storage"
	"github.com/memorylane/dailyquestion/pkg/infra/transcription"
	"github.com/memorylane/dailyquestion/pkg/middleware"
	"github.com/sirupsen/logrus"
)

const knownUserTTL = 10 * time.Minute

type Container struct {
	Cache               cache.Client
	JWTManager          jwt.Manager
	Publisher           events.Publisher
	ScoringConfig       *scoring.ConfigStore
	Scorer              scoring.Scorer
	HandlerTransport    *handlers.HandlerTransport
	MiddlewareTransport *middleware.Transport
}

type ContainerDI struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	DB     *database.DB
}

func NewContainer(ctx context.Context, di ContainerDI) (*Container, error) {
	cfg := di.Cfg
	logger := di.Logger

	// per-call deadlines come from each client; the shared ceiling is the longest of them
	clientTimeout := cfg.Services.Timeout
	if cfg.Embedding.Timeout > clientTimeout {
		clientTimeout = cfg.Embedding.Timeout
	}
	httpClient := httpx.NewFastHTTPClient(
		httpx.WithTimeout(clientTimeout),
	)
	bedrockClient := bedrock.NewClient()

	cacheInstance, err := cache.NewClient(cache.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	knownUsers := cacheInstance.CreateTTLMap(cache.UserTTLName, knownUserTTL)

	// repositories
	questionRepository := repository.NewQuestionRepository(di.DB.DB)
	answerRepository := repository.NewAnswerRepository(di.DB.DB)

	// embeddings: cache in front of retries in front of the backend
	embeddingLocator := embeddingFactory.NewServiceLocator(logger, httpClient, bedrockClient)
	embeddingBackend, err := embeddingLocator.GetService(domainEmbedding.Config{
		Provider: cfg.Embedding.Provider,
		Model:    cfg.Embedding.Model,
		APIKey:   cfg.Embedding.APIKey,
		BaseURL:  cfg.Embedding.BaseURL,
		Region:   cfg.Embedding.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding provider: %w", err)
	}
	resilientOpts := resilient.DefaultOptions()
	resilientOpts.AttemptTimeout = cfg.Embedding.Timeout
	resilientOpts.MaxRetries = cfg.Embedding.MaxRetries
	// outer layers wait out every retry rather than one attempt
	embeddingBudget := resilientOpts.Budget()
	embeddingProvider := cached.New(
		resilient.New(embeddingBackend, logger, resilientOpts),
		cacheInstance,
		logger,
		cfg.Embedding.Model,
		cfg.Embedding.CacheTTL,
		embeddingBudget,
	)

	// scoring
	scoringConfig, err := scoring.NewConfigStore(scoringConfigFrom(cfg.Scoring, cfg.Embedding.Dimensions))
	if err != nil {
		return nil, fmt.Errorf("invalid scoring config: %w", err)
	}
	config.OnScoringChange(func(sc config.ScoringConfig) {
		if err := scoringConfig.Update(scoringConfigFrom(sc, cfg.Embedding.Dimensions)); err != nil {
			logger.WithError(err).Warn("rejected reloaded scoring config")
			return
		}
		logger.WithFields(logrus.Fields{
			"relevance_threshold": sc.RelevanceThreshold,
			"top_k":               sc.TopK,
			"sigmoid_k":           sc.SigmoidK,
			"sigmoid_x0":          sc.SigmoidX0,
		}).Info("scoring config reloaded")
	})
	scorer := scoring.NewPipeline(logger, embeddingProvider, scoringConfig, embeddingBudget)

	// collaborators
	usersClient := users.NewClient(httpClient, logger, cfg.Services.UserServiceURL, cfg.Services.Timeout, knownUsers)
	var storyClient stories.Client
	if cfg.Services.StoryServiceURL != "" {
		storyClient = stories.NewClient(httpClient, logger, cfg.Services.StoryServiceURL, cfg.Services.Timeout)
	}
	var ragClient rag.Client
	if cfg.Services.RAGWorkflowURL != "" {
		ragClient = rag.NewClient(httpClient, logger, cfg.Services.RAGWorkflowURL, cfg.Services.Timeout)
	}
	var voiceAnalyzer voice.Analyzer
	if cfg.Services.VoiceAnalysisURL != "" {
		voiceAnalyzer = voice.NewAnalyzer(httpClient, logger, cfg.Services.VoiceAnalysisURL, cfg.Services.Timeout)
	} else {
		logger.Warn("voice analysis service not configured, cognitive scores will be empty")
	}

	audioStore, err := storage.NewS3AudioStore(ctx, logger, storage.Config{
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		RoleARN:   cfg.Storage.RoleARN,
		Prefix:    cfg.Storage.Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio storage: %w", err)
	}

	transcriber := transcription.NewWhisperTranscriber(logger, transcriptionConfigFrom(cfg))

	var publisher events.Publisher = kafka.NewNoopPublisher(logger)
	if cfg.Kafka.Host != "" {
		kafkaPublisher, err := kafka.NewPublisher(kafka.Config{
			Host:  cfg.Kafka.Host,
			Port:  cfg.Kafka.Port,
			Topic: cfg.Kafka.Topic,
		}, logger)
		if err != nil {
			logger.WithError(err).Warn("failed to initialize kafka publisher, score updates will not be published")
		} else {
			publisher = kafkaPublisher
		}
	}

	providerLocator := providersFactory.NewProviderLocator(httpClient, bedrockClient)

	// services
	questionService := appQuestion.NewService(logger, questionRepository)
	dailyGenerator := appQuestion.NewDailyGenerator(
		logger,
		usersClient,
		questionRepository,
		cacheInstance,
		storyClient,
		ragClient,
		providerLocator,
		cfg.Providers,
		appQuestion.DailyConfigFrom(cfg.Question),
	)
	answerService := appAnswer.NewService(
		logger,
		answerRepository,
		questionRepository,
		usersClient,
		audioStore,
		transcriber,
		voiceAnalyzer,
		scorer,
		publisher,
	)

	jwtManager := jwt.NewJwtManager(cfg.Server.SecretKey)

	middlewareTransport := &middleware.Transport{
		PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(logger),
		MetricsMiddleware:      middleware.NewMetricsMiddleware(logger),
		AdminAuthMiddleware:    middleware.NewAdminAuthMiddleware(logger, jwtManager),
	}

	handlerTransport := &handlers.HandlerTransport{
		// Questions
		GetDailyQuestionHandler: handlers.NewGetDailyQuestionHandler(logger, dailyGenerator),
		CreateQuestionHandler:   handlers.NewCreateQuestionHandler(logger, questionService),
		ListQuestionsHandler:    handlers.NewListQuestionsHandler(logger, questionService),
		GetQuestionHandler:      handlers.NewGetQuestionHandler(logger, questionService),
		UpdateQuestionHandler:   handlers.NewUpdateQuestionHandler(logger, questionService),
		DeleteQuestionHandler:   handlers.NewDeleteQuestionHandler(logger, questionService),
		// Answers
		SubmitVoiceAnswerHandler: handlers.NewSubmitVoiceAnswerHandler(logger, answerService, handlers.DefaultMaxAudioBytes),
		SubmitTextAnswerHandler:  handlers.NewSubmitTextAnswerHandler(logger, answerService),
		ListAnswersHandler:       handlers.NewListAnswersHandler(logger, answerService),
		GetAnswerHandler:         handlers.NewGetAnswerHandler(logger, answerService),
		DeleteAnswerHandler:      handlers.NewDeleteAnswerHandler(logger, answerService),
		// Scoring
		ScoringPreviewHandler: handlers.NewScoringPreviewHandler(logger, scorer),

		GetVersionHandler: handlers.NewGetVersionHandler(logger),
	}

	return &Container{
		Cache:               cacheInstance,
		JWTManager:          jwtManager,
		Publisher:           publisher,
		ScoringConfig:       scoringConfig,
		Scorer:              scorer,
		HandlerTransport:    handlerTransport,
		MiddlewareTransport: middlewareTransport,
	}, nil
}

// Close releases what the container opened. The database is owned by the caller.
func (c *Container) Close() {
	if c.Publisher != nil {
		c.Publisher.Close()
	}
	if c.Cache != nil {
		_ = c.Cache.RedisClient().Close()
	}
}

func scoringConfigFrom(sc config.ScoringConfig, dimensions int) scoring.Config {
	return scoring.Config{
		RelevanceThreshold:  sc.RelevanceThreshold,
		TopK:                sc.TopK,
		SigmoidK:            sc.SigmoidK,
		SigmoidX0:           sc.SigmoidX0,
		EmbeddingDimensions: dimensions,
		MaxConcurrency:      sc.MaxConcurrency,
	}
}

func transcriptionConfigFrom(cfg *config.Config) transcription.Config {
	out := transcription.Config{
		APIKey:   cfg.Transcription.APIKey,
		BaseURL:  cfg.Transcription.BaseURL,
		Model:    cfg.Transcription.Model,
		Language: cfg.Transcription.Language,
	}
	if out.APIKey == "" {
		if p, ok := cfg.Providers.Get(providersFactory.ProviderOpenAI); ok {
			out.APIKey = p.APIKey
			if out.BaseURL == "" {
				out.BaseURL = p.BaseURL
			}
		}
	}
	return out
}
