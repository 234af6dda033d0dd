package gemini

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/memorylane/dailyquestion/pkg/domain/embedding"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

const (
	ProviderName = "gemini"
	DefaultModel = "gemini-embedding-001"
)

// contentEmbedder is satisfied by *genai.Models.
type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

type embeddingService struct {
	logger *logrus.Logger
	cfg    embedding.Config

	once     sync.Once
	embedder contentEmbedder
	initErr  error
}

func NewGeminiEmbeddingService(logger *logrus.Logger, cfg embedding.Config) embedding.Provider {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &embeddingService{logger: logger, cfg: cfg}
}

func (s *embeddingService) Name() string {
	return ProviderName
}

func (s *embeddingService) client(ctx context.Context) (contentEmbedder, error) {
	s.once.Do(func() {
		if s.embedder != nil {
			return
		}
		if s.cfg.APIKey == "" {
			s.initErr = errors.New("gemini API key not configured")
			return
		}
		c, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  s.cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			s.initErr = err
			return
		}
		s.embedder = c.Models
	})
	return s.embedder, s.initErr
}

func (s *embeddingService) Embed(ctx context.Context, text string, dimensions int) (embedding.Vector, error) {
	if strings.TrimSpace(text) == "" || dimensions < 1 {
		return nil, fmt.Errorf("%w: empty text or invalid dimensions %d", embedding.ErrEmbeddingRequest, dimensions)
	}
	embedder, err := s.client(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", embedding.ErrEmbeddingUnavailable, err)
	}

	dims := int32(dimensions)
	resp, err := embedder.EmbedContent(ctx, s.cfg.Model, genai.Text(text), &genai.EmbedContentConfig{
		TaskType:             "SEMANTIC_SIMILARITY",
		OutputDimensionality: &dims,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.WithError(err).Warn("gemini embedding request failed")
		return nil, classify(err)
	}
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, fmt.Errorf("%w: empty embeddings from gemini", embedding.ErrEmbeddingRequest)
	}

	values := resp.Embeddings[0].Values
	if len(values) != dimensions {
		return nil, fmt.Errorf("%w: gemini returned %d dimensions, want %d",
			embedding.ErrEmbeddingRequest, len(values), dimensions)
	}

	// truncated outputs are not unit length
	vec := make(embedding.Vector, len(values))
	var sum float64
	for i, v := range values {
		vec[i] = float64(v)
		sum += vec[i] * vec[i]
	}
	if norm := math.Sqrt(sum); norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code >= 400 && apiErr.Code < 500 &&
		apiErr.Code != 401 && apiErr.Code != 403 && apiErr.Code != 429 {
		return fmt.Errorf("%w: %v", embedding.ErrEmbeddingRequest, err)
	}
	return fmt.Errorf("%w: %v", embedding.ErrEmbeddingUnavailable, err)
}
