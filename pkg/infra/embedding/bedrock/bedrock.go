package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
	"github.com/memorylane/dailyquestion/pkg/domain/embedding"
	"github.com/memorylane/dailyquestion/pkg/infra/awsauth"
	infraBedrock "github.com/memorylane/dailyquestion/pkg/infra/bedrock"
	"github.com/sirupsen/logrus"
)

const (
	ProviderName = "bedrock"
	DefaultModel = "amazon.titan-embed-text-v2:0"
)

// Titan v2 only produces these sizes.
var supportedDimensions = map[int]bool{256: true, 512: true, 1024: true}

type titanRequest struct {
	InputText  string `json:"inputText"`
	Dimensions int    `json:"dimensions"`
	Normalize  bool   `json:"normalize"`
}

type titanResponse struct {
	Embedding           []float64 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

type embeddingService struct {
	builder infraBedrock.Client
	logger  *logrus.Logger
	cfg     embedding.Config
	creds   awsauth.Credentials
}

func NewBedrockEmbeddingService(
	builder infraBedrock.Client,
	logger *logrus.Logger,
	cfg embedding.Config,
	creds awsauth.Credentials,
) embedding.Provider {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if creds.Region == "" {
		creds.Region = cfg.Region
	}
	return &embeddingService{
		builder: builder,
		logger:  logger,
		cfg:     cfg,
		creds:   creds,
	}
}

func (s *embeddingService) Name() string {
	return ProviderName
}

func (s *embeddingService) Embed(ctx context.Context, text string, dimensions int) (embedding.Vector, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", embedding.ErrEmbeddingRequest)
	}
	if !supportedDimensions[dimensions] {
		return nil, fmt.Errorf("%w: %s supports 256, 512 or 1024 dimensions, got %d",
			embedding.ErrEmbeddingRequest, s.cfg.Model, dimensions)
	}

	runtime, err := s.builder.BuildClient(ctx, s.creds)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", embedding.ErrEmbeddingUnavailable, err)
	}

	body, err := json.Marshal(titanRequest{InputText: text, Dimensions: dimensions, Normalize: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", embedding.ErrEmbeddingRequest, err)
	}

	out, err := runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(s.cfg.Model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.WithError(err).Warn("bedrock embedding invocation failed")
		return nil, classify(err)
	}

	var resp titanResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding titan response: %v", embedding.ErrEmbeddingRequest, err)
	}
	if len(resp.Embedding) != dimensions {
		return nil, fmt.Errorf("%w: titan returned %d dimensions, want %d",
			embedding.ErrEmbeddingRequest, len(resp.Embedding), dimensions)
	}
	return embedding.Vector(resp.Embedding), nil
}

func classify(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ValidationException", "ModelErrorException":
			return fmt.Errorf("%w: %s: %s", embedding.ErrEmbeddingRequest, apiErr.ErrorCode(), apiErr.ErrorMessage())
		}
	}
	return fmt.Errorf("%w: %v", embedding.ErrEmbeddingUnavailable, err)
}
