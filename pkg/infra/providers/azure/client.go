package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/memorylane/dailyquestion/pkg/infra/httpx"
	"github.com/memorylane/dailyquestion/pkg/infra/providers"
	"github.com/mitchellh/mapstructure"
	"github.com/valyala/fasthttp"
)

const (
	defaultAPIVersion = "2024-02-15-preview"
	cognitiveScope    = "https://cognitiveservices.azure.com/.default"
	requestTimeout    = 60 * time.Second
)

// azureOptions come from the provider's options block in providers.yaml.
type azureOptions struct {
	APIVersion  string `mapstructure:"api_version"`
	UseIdentity bool   `mapstructure:"use_identity"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type client struct {
	httpClient httpx.Doer
	credential func() (azcore.TokenCredential, error)
}

func NewAzureClient(httpClient httpx.Doer) providers.Client {
	return &client{
		httpClient: httpClient,
		credential: func() (azcore.TokenCredential, error) {
			return azidentity.NewDefaultAzureCredential(nil)
		},
	}
}

// Ask calls an Azure OpenAI chat deployment. Credentials.BaseURL is the
// resource endpoint and Model the deployment name. With use_identity the
// request is authorized by an Entra ID token instead of the API key.
func (c *client) Ask(
	ctx context.Context,
	config *providers.Config,
	prompt string,
) (*providers.CompletionResponse, error) {
	var opts azureOptions
	if len(config.Options) > 0 {
		if err := mapstructure.Decode(config.Options, &opts); err != nil {
			return nil, fmt.Errorf("invalid azure options: %w", err)
		}
	}
	if config.Credentials.BaseURL == "" {
		return nil, fmt.Errorf("azure endpoint is required")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("%w: azure deployment name", providers.ErrMissingModel)
	}
	if !opts.UseIdentity && config.Credentials.APIKey == "" {
		return nil, providers.ErrMissingAPIKey
	}
	if opts.APIVersion == "" {
		opts.APIVersion = defaultAPIVersion
	}

	var messages []chatMessage
	if config.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: config.SystemPrompt})
	}
	if len(config.Instructions) > 0 {
		messages = append(messages, chatMessage{Role: "user", Content: providers.FormatInstructions(config.Instructions)})
	}
	if prompt != "" {
		messages = append(messages, chatMessage{Role: "user", Content: prompt})
	}

	body, err := json.Marshal(chatRequest{
		Messages:    messages,
		Temperature: config.Temperature,
		MaxTokens:   config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(config.Credentials.BaseURL, "/"), config.Model, opts.APIVersion))
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	if opts.UseIdentity {
		token, err := c.token(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	} else {
		req.Header.Set("api-key", config.Credentials.APIKey)
	}

	if err := httpx.DoWithContext(ctx, c.httpClient, req, resp, requestTimeout); err != nil {
		return nil, fmt.Errorf("failed request: %w", err)
	}
	if err := httpx.CheckStatus("azure-openai", resp); err != nil {
		return nil, err
	}

	raw, err := httpx.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return nil, providers.ErrEmptyResponse
	}

	return &providers.CompletionResponse{
		ID:       parsed.ID,
		Model:    config.Model,
		Response: parsed.Choices[0].Message.Content,
		Usage: providers.Usage{
			PromptTokens:     parsed.Usage.PromptTokens,
			CompletionTokens: parsed.Usage.CompletionTokens,
			TotalTokens:      parsed.Usage.TotalTokens,
		},
	}, nil
}

func (c *client) token(ctx context.Context) (string, error) {
	cred, err := c.credential()
	if err != nil {
		return "", fmt.Errorf("failed to create credential: %w", err)
	}
	token, err := cred.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{cognitiveScope},
	})
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}
	return token.Token, nil
}
