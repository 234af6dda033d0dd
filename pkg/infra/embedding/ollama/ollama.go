package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/memorylane/dailyquestion/pkg/domain/embedding"
	"github.com/memorylane/dailyquestion/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

const (
	ProviderName   = "ollama"
	DefaultModel   = "bge-m3"
	defaultBaseURL = "http://localhost:11434"
	requestTimeout = 60 * time.Second
)

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// embeddingService talks to a local Ollama server. Ollama has no dimensions
// parameter, so longer vectors are cut to the requested size and rescaled to
// unit length. This only preserves meaning for Matryoshka-trained models.
type embeddingService struct {
	client httpx.Doer
	logger *logrus.Logger
	cfg    embedding.Config
}

func NewOllamaEmbeddingService(client httpx.Doer, logger *logrus.Logger, cfg embedding.Config) embedding.Provider {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &embeddingService{client: client, logger: logger, cfg: cfg}
}

func (s *embeddingService) Name() string {
	return ProviderName
}

func (s *embeddingService) Embed(ctx context.Context, text string, dimensions int) (embedding.Vector, error) {
	if strings.TrimSpace(text) == "" || dimensions < 1 {
		return nil, fmt.Errorf("%w: empty text or invalid dimensions %d", embedding.ErrEmbeddingRequest, dimensions)
	}

	payload, err := json.Marshal(embedRequest{Model: s.cfg.Model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", embedding.ErrEmbeddingRequest, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(s.cfg.BaseURL + "/api/embeddings")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(payload)

	if err := httpx.DoWithContext(ctx, s.client, req, resp, requestTimeout); err != nil {
		if errors.Is(err, httpx.ErrRequestCancelled) {
			return nil, err
		}
		s.logger.WithError(err).WithField("base_url", s.cfg.BaseURL).Warn("ollama unreachable")
		return nil, fmt.Errorf("%w: %v", embedding.ErrEmbeddingUnavailable, err)
	}
	if err := httpx.CheckStatus(ProviderName, resp); err != nil {
		if httpx.IsClientError(err) {
			return nil, fmt.Errorf("%w: %w: %v", embedding.ErrEmbeddingRequest, embedding.ErrProviderNonOKResponse, err)
		}
		return nil, fmt.Errorf("%w: %w: %v", embedding.ErrEmbeddingUnavailable, embedding.ErrProviderNonOKResponse, err)
	}

	var out embedResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", embedding.ErrEmbeddingRequest, err)
	}
	if len(out.Embedding) < dimensions {
		return nil, fmt.Errorf("%w: model %s produces %d dimensions, %d requested",
			embedding.ErrEmbeddingRequest, s.cfg.Model, len(out.Embedding), dimensions)
	}
	return truncate(out.Embedding, dimensions), nil
}

func truncate(v []float64, dims int) embedding.Vector {
	out := make(embedding.Vector, dims)
	copy(out, v[:dims])
	var sum float64
	for _, x := range out {
		sum += x * x
	}
	if norm := math.Sqrt(sum); norm > 0 {
		for i := range out {
			out[i] /= norm
		}
	}
	return out
}
