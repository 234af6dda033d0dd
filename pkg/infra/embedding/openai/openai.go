package openai

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
	ProviderName          = "openai"
	DefaultModel          = "text-embedding-3-small"
	defaultBaseURL        = "https://api.openai.com/v1"
	defaultRequestTimeout = 30 * time.Second
)

type embeddingService struct {
	client httpx.Doer
	logger *logrus.Logger
	cfg    embedding.Config
}

type embeddingRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Dimensions     int    `json:"dimensions"`
	EncodingFormat string `json:"encoding_format"`
}

type embeddingData struct {
	Embedding []float64 `json:"embedding"`
	Index     int       `json:"index"`
}

type openAIEmbeddingResponse struct {
	Data []embeddingData `json:"data"`
}

func NewOpenAIEmbeddingService(client httpx.Doer, logger *logrus.Logger, cfg embedding.Config) embedding.Provider {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &embeddingService{
		client: client,
		logger: logger,
		cfg:    cfg,
	}
}

func (s *embeddingService) Name() string {
	return ProviderName
}

// Embed asks /v1/embeddings for a vector shortened server side to dimensions.
func (s *embeddingService) Embed(ctx context.Context, text string, dimensions int) (embedding.Vector, error) {
	if s.cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai API key not configured", embedding.ErrEmbeddingUnavailable)
	}
	if strings.TrimSpace(text) == "" || dimensions < 1 {
		return nil, fmt.Errorf("%w: empty text or invalid dimensions %d", embedding.ErrEmbeddingRequest, dimensions)
	}

	pBytes, err := json.Marshal(embeddingRequest{
		Model:          s.cfg.Model,
		Input:          text,
		Dimensions:     dimensions,
		EncodingFormat: "float",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", embedding.ErrEmbeddingRequest, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(s.cfg.BaseURL + "/embeddings")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept-Encoding", "gzip, br")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.SetBody(pBytes)

	if err := httpx.DoWithContext(ctx, s.client, req, resp, defaultRequestTimeout); err != nil {
		if errors.Is(err, httpx.ErrRequestCancelled) {
			return nil, err
		}
		s.logger.WithError(err).Warn("error performing HTTP request for embeddings")
		return nil, fmt.Errorf("%w: %v", embedding.ErrEmbeddingUnavailable, err)
	}

	if err := httpx.CheckStatus(ProviderName, resp); err != nil {
		return nil, classifyStatus(err)
	}

	body, err := httpx.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", embedding.ErrEmbeddingRequest, err)
	}

	var embResp openAIEmbeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", embedding.ErrEmbeddingRequest, err)
	}
	if len(embResp.Data) == 0 || len(embResp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embeddings from API", embedding.ErrEmbeddingRequest)
	}

	vec := embedding.Vector(embResp.Data[0].Embedding)
	if vec.Dim() != dimensions {
		return nil, fmt.Errorf("%w: model %s returned %d dimensions, want %d",
			embedding.ErrEmbeddingRequest, s.cfg.Model, vec.Dim(), dimensions)
	}
	normalizeVector(vec)
	return vec, nil
}

// classifyStatus maps an HTTP failure onto the embedding error taxonomy.
// Rejected credentials count as a misconfigured, hence unavailable, backend.
func classifyStatus(err error) error {
	var se *httpx.StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("%w: %v", embedding.ErrEmbeddingUnavailable, err)
	}
	switch {
	case se.Retryable(), se.StatusCode == fasthttp.StatusUnauthorized, se.StatusCode == fasthttp.StatusForbidden:
		return fmt.Errorf("%w: %w: %v", embedding.ErrEmbeddingUnavailable, embedding.ErrProviderNonOKResponse, se)
	default:
		return fmt.Errorf("%w: %w: %v", embedding.ErrEmbeddingRequest, embedding.ErrProviderNonOKResponse, se)
	}
}

func normalizeVector(v []float64) {
	var sumSquares float64
	for _, val := range v {
		sumSquares += val * val
	}
	norm := math.Sqrt(sumSquares)
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}
