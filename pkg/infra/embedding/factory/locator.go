package factory

import (
	"fmt"

	"github.com/memorylane/dailyquestion/pkg/domain/embedding"
	"github.com/memorylane/dailyquestion/pkg/infra/awsauth"
	infraBedrock "github.com/memorylane/dailyquestion/pkg/infra/bedrock"
	"github.com/memorylane/dailyquestion/pkg/infra/embedding/bedrock"
	"github.com/memorylane/dailyquestion/pkg/infra/embedding/gemini"
	"github.com/memorylane/dailyquestion/pkg/infra/embedding/ollama"
	"github.com/memorylane/dailyquestion/pkg/infra/embedding/openai"
	"github.com/memorylane/dailyquestion/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
)

const (
	OpenAIProvider  = openai.ProviderName
	BedrockProvider = bedrock.ProviderName
	GeminiProvider  = gemini.ProviderName
	OllamaProvider  = ollama.ProviderName
)

type EmbeddingServiceLocator struct {
	logger        *logrus.Logger
	httpClient    httpx.Doer
	bedrockClient infraBedrock.Client
}

func NewServiceLocator(logger *logrus.Logger, httpClient httpx.Doer, bedrockClient infraBedrock.Client) *EmbeddingServiceLocator {
	return &EmbeddingServiceLocator{
		logger:        logger,
		httpClient:    httpClient,
		bedrockClient: bedrockClient,
	}
}

func (l *EmbeddingServiceLocator) GetService(cfg embedding.Config) (embedding.Provider, error) {
	switch cfg.Provider {
	case OpenAIProvider:
		return openai.NewOpenAIEmbeddingService(l.httpClient, l.logger, cfg), nil
	case BedrockProvider:
		creds := awsauth.Credentials{Region: cfg.Region}
		return bedrock.NewBedrockEmbeddingService(l.bedrockClient, l.logger, cfg, creds), nil
	case GeminiProvider:
		return gemini.NewGeminiEmbeddingService(l.logger, cfg), nil
	case OllamaProvider:
		return ollama.NewOllamaEmbeddingService(l.httpClient, l.logger, cfg), nil
	default:
		return nil, fmt.Errorf("%w: %s", embedding.ErrUnsupportedProvider, cfg.Provider)
	}
}
