package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
	"github.com/memorylane/dailyquestion/pkg/domain/embedding"
	"github.com/memorylane/dailyquestion/pkg/infra/awsauth"
	infraBedrock "github.com/memorylane/dailyquestion/pkg/infra/bedrock"
	"github.com/memorylane/dailyquestion/pkg/infra/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuntime struct {
	body  []byte
	err   error
	input *bedrockruntime.InvokeModelInput
}

func (f *fakeRuntime) InvokeModel(
	_ context.Context,
	params *bedrockruntime.InvokeModelInput,
	_ ...func(*bedrockruntime.Options),
) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: f.body}, nil
}

func (f *fakeRuntime) Converse(
	context.Context,
	*bedrockruntime.ConverseInput,
	...func(*bedrockruntime.Options),
) (*bedrockruntime.ConverseOutput, error) {
	return nil, errors.New("not used")
}

type fakeBuilder struct {
	runtime infraBedrock.Runtime
	err     error
}

func (f *fakeBuilder) BuildClient(context.Context, awsauth.Credentials) (infraBedrock.Runtime, error) {
	return f.runtime, f.err
}

func newService(rt *fakeRuntime) embedding.Provider {
	return NewBedrockEmbeddingService(&fakeBuilder{runtime: rt}, logger.NewNopLogger(), embedding.Config{}, awsauth.Credentials{})
}

func vectorOf(n int) []float64 {
	v := make([]float64, n)
	v[0] = 1
	return v
}

func TestEmbed_SendsDimensions(t *testing.T) {
	body, _ := json.Marshal(titanResponse{Embedding: vectorOf(256)})
	rt := &fakeRuntime{body: body}

	vec, err := newService(rt).Embed(context.Background(), "기뻐요", 256)

	require.NoError(t, err)
	assert.Equal(t, 256, vec.Dim())
	assert.Equal(t, DefaultModel, *rt.input.ModelId)

	var sent titanRequest
	require.NoError(t, json.Unmarshal(rt.input.Body, &sent))
	assert.Equal(t, 256, sent.Dimensions)
	assert.True(t, sent.Normalize)
	assert.Equal(t, "기뻐요", sent.InputText)
}

func TestEmbed_UnsupportedDimensions(t *testing.T) {
	rt := &fakeRuntime{}
	_, err := newService(rt).Embed(context.Background(), "hello", 300)

	assert.ErrorIs(t, err, embedding.ErrEmbeddingRequest)
	assert.Nil(t, rt.input)
}

func TestEmbed_ErrorClassification(t *testing.T) {
	validation := &smithy.GenericAPIError{Code: "ValidationException", Message: "too long"}
	throttled := &smithy.GenericAPIError{Code: "ThrottlingException", Message: "slow down"}

	_, err := newService(&fakeRuntime{err: validation}).Embed(context.Background(), "hello", 512)
	assert.ErrorIs(t, err, embedding.ErrEmbeddingRequest)

	_, err = newService(&fakeRuntime{err: throttled}).Embed(context.Background(), "hello", 512)
	assert.ErrorIs(t, err, embedding.ErrEmbeddingUnavailable)
}

func TestEmbed_BuilderFailureIsUnavailable(t *testing.T) {
	svc := NewBedrockEmbeddingService(&fakeBuilder{err: errors.New("no creds")}, logger.NewNopLogger(), embedding.Config{}, awsauth.Credentials{})
	_, err := svc.Embed(context.Background(), "hello", 1024)
	assert.ErrorIs(t, err, embedding.ErrEmbeddingUnavailable)
}

func TestEmbed_LengthMismatch(t *testing.T) {
	body, _ := json.Marshal(titanResponse{Embedding: vectorOf(512)})
	_, err := newService(&fakeRuntime{body: body}).Embed(context.Background(), "hello", 1024)
	assert.ErrorIs(t, err, embedding.ErrEmbeddingRequest)
}
