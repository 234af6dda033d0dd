package bedrock

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/memorylane/dailyquestion/pkg/infra/awsauth"
	infraBedrock "github.com/memorylane/dailyquestion/pkg/infra/bedrock"
	"github.com/memorylane/dailyquestion/pkg/infra/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuntime struct {
	input *bedrockruntime.ConverseInput
	out   *bedrockruntime.ConverseOutput
	err   error
}

func (f *fakeRuntime) InvokeModel(
	context.Context, *bedrockruntime.InvokeModelInput, ...func(*bedrockruntime.Options),
) (*bedrockruntime.InvokeModelOutput, error) {
	return nil, errors.New("not used")
}

func (f *fakeRuntime) Converse(
	_ context.Context, in *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options),
) (*bedrockruntime.ConverseOutput, error) {
	f.input = in
	return f.out, f.err
}

type fakeBuilder struct {
	rt    infraBedrock.Runtime
	creds awsauth.Credentials
	err   error
}

func (f *fakeBuilder) BuildClient(_ context.Context, creds awsauth.Credentials) (infraBedrock.Runtime, error) {
	f.creds = creds
	return f.rt, f.err
}

func TestAsk_Converse(t *testing.T) {
	rt := &fakeRuntime{out: &bedrockruntime.ConverseOutput{
		Output: &types.ConverseOutputMemberMessage{Value: types.Message{
			Role:    types.ConversationRoleAssistant,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: `{"question":"q"}`}},
		}},
		Usage: &types.TokenUsage{InputTokens: aws.Int32(3), OutputTokens: aws.Int32(4), TotalTokens: aws.Int32(7)},
	}}
	builder := &fakeBuilder{rt: rt}

	resp, err := NewBedrockClient(builder).Ask(context.Background(), &providers.Config{
		Credentials:  providers.Credentials{APIKey: "AKIA", Region: "ap-northeast-2"},
		Options:      map[string]interface{}{"secret_key": "secret"},
		SystemPrompt: "system",
		MaxTokens:    300,
	}, "prompt")

	require.NoError(t, err)
	assert.Equal(t, `{"question":"q"}`, resp.Response)
	assert.Equal(t, 7, resp.Usage.TotalTokens)
	assert.Equal(t, "secret", builder.creds.SecretKey)
	assert.Equal(t, "ap-northeast-2", builder.creds.Region)
	assert.Equal(t, defaultModel, aws.ToString(rt.input.ModelId))
	assert.Equal(t, int32(300), aws.ToInt32(rt.input.InferenceConfig.MaxTokens))
	assert.Len(t, rt.input.System, 1)
}

func TestAsk_EmptyOutput(t *testing.T) {
	rt := &fakeRuntime{out: &bedrockruntime.ConverseOutput{
		Output: &types.ConverseOutputMemberMessage{Value: types.Message{}},
	}}
	_, err := NewBedrockClient(&fakeBuilder{rt: rt}).Ask(context.Background(), &providers.Config{}, "prompt")
	assert.ErrorIs(t, err, providers.ErrEmptyResponse)
}

func TestAsk_BuilderError(t *testing.T) {
	_, err := NewBedrockClient(&fakeBuilder{err: errors.New("no creds")}).Ask(context.Background(), &providers.Config{}, "p")
	assert.ErrorContains(t, err, "no creds")
}
