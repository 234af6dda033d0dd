package factory

import (
	"fmt"

	infraBedrock "github.com/memorylane/dailyquestion/pkg/infra/bedrock"
	"github.com/memorylane/dailyquestion/pkg/infra/httpx"
	"github.com/memorylane/dailyquestion/pkg/infra/providers"
	"github.com/memorylane/dailyquestion/pkg/infra/providers/anthropic"
	"github.com/memorylane/dailyquestion/pkg/infra/providers/azure"
	"github.com/memorylane/dailyquestion/pkg/infra/providers/bedrock"
	"github.com/memorylane/dailyquestion/pkg/infra/providers/gemini"
	"github.com/memorylane/dailyquestion/pkg/infra/providers/openai"
)

const (
	ProviderOpenAI    = "openai"
	ProviderGoogle    = "google"
	ProviderAnthropic = "anthropic"
	ProviderBedrock   = "bedrock"
	ProviderAzure     = "azure"
)

//go:generate mockery --name=ProviderLocator --dir=. --output=./mocks --filename=provider_locator_mock.go --case=underscore --with-expecter

type ProviderLocator interface {
	Get(provider string) (providers.Client, error)
}

type providerLocator struct {
	clients map[string]providers.Client
}

// NewProviderLocator builds one client per backend up front; each keeps its
// own pool of SDK clients keyed by credentials.
func NewProviderLocator(httpClient httpx.Doer, bedrockClient infraBedrock.Client) ProviderLocator {
	return &providerLocator{
		clients: map[string]providers.Client{
			ProviderOpenAI:    openai.NewOpenaiClient(),
			ProviderGoogle:    gemini.NewGeminiClient(),
			ProviderAnthropic: anthropic.NewAnthropicClient(),
			ProviderBedrock:   bedrock.NewBedrockClient(bedrockClient),
			ProviderAzure:     azure.NewAzureClient(httpClient),
		},
	}
}

func (f *providerLocator) Get(provider string) (providers.Client, error) {
	if c, ok := f.clients[provider]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s", providers.ErrUnsupported, provider)
}
