package gemini

import (
	"context"
	"fmt"
	"sync"

	"github.com/memorylane/dailyquestion/pkg/infra/providers"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// contentGenerator is satisfied by *genai.Models.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type client struct {
	clientPool *sync.Map
	newModels  func(ctx context.Context, apiKey string) (contentGenerator, error)
}

func NewGeminiClient() providers.Client {
	return &client{
		clientPool: &sync.Map{},
		newModels:  newGenaiModels,
	}
}

func newGenaiModels(ctx context.Context, apiKey string) (contentGenerator, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return genaiClient.Models, nil
}

func (c *client) Ask(
	ctx context.Context,
	config *providers.Config,
	prompt string,
) (*providers.CompletionResponse, error) {
	if config.Credentials.APIKey == "" {
		return nil, providers.ErrMissingAPIKey
	}

	models, err := c.models(ctx, config.Credentials.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := defaultModel
	if config.Model != "" {
		model = config.Model
	}

	genConfig := &genai.GenerateContentConfig{}

	var parts []*genai.Part
	if config.SystemPrompt != "" {
		parts = append(parts, &genai.Part{Text: config.SystemPrompt})
	}
	if len(config.Instructions) > 0 {
		parts = append(parts, &genai.Part{Text: providers.FormatInstructions(config.Instructions)})
	}
	if len(parts) > 0 {
		genConfig.SystemInstruction = &genai.Content{Parts: parts}
	}
	if config.MaxTokens > 0 {
		genConfig.MaxOutputTokens = int32(config.MaxTokens)
	}
	if config.Temperature > 0 {
		genConfig.Temperature = genai.Ptr(float32(config.Temperature))
	}

	result, err := models.GenerateContent(ctx, model, genai.Text(prompt), genConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	responseText := providers.StripCodeFence(result.Text())
	if responseText == "" {
		return nil, providers.ErrEmptyResponse
	}

	resp := &providers.CompletionResponse{
		ID:       result.ResponseID,
		Model:    model,
		Response: responseText,
	}
	if result.UsageMetadata != nil {
		resp.Usage = providers.Usage{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
		}
	}
	return resp, nil
}

func (c *client) models(ctx context.Context, apiKey string) (contentGenerator, error) {
	if v, ok := c.clientPool.Load(apiKey); ok {
		return v.(contentGenerator), nil
	}
	m, err := c.newModels(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	actual, _ := c.clientPool.LoadOrStore(apiKey, m)
	return actual.(contentGenerator), nil
}
