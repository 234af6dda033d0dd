package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/memorylane/dailyquestion/pkg/infra/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	model  string
	config *genai.GenerateContentConfig
	resp   *genai.GenerateContentResponse
	err    error
}

func (f *fakeGenerator) GenerateContent(
	_ context.Context,
	model string,
	_ []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	return f.resp, f.err
}

func newTestClient(f *fakeGenerator) *client {
	return &client{
		clientPool: NewGeminiClient().(*client).clientPool,
		newModels: func(context.Context, string) (contentGenerator, error) {
			return f, nil
		},
	}
}

func textResponse(s string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: s}}},
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{TotalTokenCount: 7},
	}
}

func TestAsk_MissingAPIKey(t *testing.T) {
	_, err := NewGeminiClient().Ask(context.Background(), &providers.Config{}, "p")
	assert.ErrorIs(t, err, providers.ErrMissingAPIKey)
}

func TestAsk_StripsFenceAndAppliesConfig(t *testing.T) {
	f := &fakeGenerator{resp: textResponse("```json\n{\"question\":\"q\"}\n```")}

	resp, err := newTestClient(f).Ask(context.Background(), &providers.Config{
		Credentials:  providers.Credentials{APIKey: "k"},
		SystemPrompt: "system",
		MaxTokens:    100,
		Temperature:  0.7,
	}, "prompt")

	require.NoError(t, err)
	assert.Equal(t, `{"question":"q"}`, resp.Response)
	assert.Equal(t, 7, resp.Usage.TotalTokens)
	assert.Equal(t, defaultModel, f.model)
	assert.EqualValues(t, 100, f.config.MaxOutputTokens)
	require.NotNil(t, f.config.SystemInstruction)
	assert.Equal(t, "system", f.config.SystemInstruction.Parts[0].Text)
}

func TestAsk_EmptyText(t *testing.T) {
	f := &fakeGenerator{resp: textResponse("  ")}
	_, err := newTestClient(f).Ask(context.Background(), &providers.Config{
		Credentials: providers.Credentials{APIKey: "k"},
	}, "prompt")
	assert.ErrorIs(t, err, providers.ErrEmptyResponse)
}

func TestAsk_BackendError(t *testing.T) {
	f := &fakeGenerator{err: errors.New("quota")}
	_, err := newTestClient(f).Ask(context.Background(), &providers.Config{
		Credentials: providers.Credentials{APIKey: "k"},
	}, "prompt")
	assert.ErrorContains(t, err, "quota")
}
