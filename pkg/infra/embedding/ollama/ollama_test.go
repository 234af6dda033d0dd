package ollama

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/memorylane/dailyquestion/pkg/domain/embedding"
	"github.com/memorylane/dailyquestion/pkg/infra/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type fakeDoer struct {
	status int
	body   []byte
	err    error
	uri    string
	sent   embedRequest
}

func (f *fakeDoer) DoTimeout(req *fasthttp.Request, resp *fasthttp.Response, _ time.Duration) error {
	f.uri = req.URI().String()
	_ = json.Unmarshal(req.Body(), &f.sent)
	if f.err != nil {
		return f.err
	}
	resp.SetStatusCode(f.status)
	resp.SetBody(f.body)
	return nil
}

func newService(d *fakeDoer) embedding.Provider {
	return NewOllamaEmbeddingService(d, logger.NewNopLogger(), embedding.Config{BaseURL: "http://ollama:11434/"})
}

func TestEmbed_TruncatesAndRenormalizes(t *testing.T) {
	d := &fakeDoer{status: 200, body: []byte(`{"embedding":[3,4,12]}`)}

	vec, err := newService(d).Embed(context.Background(), "기뻐요", 2)

	require.NoError(t, err)
	assert.Equal(t, "http://ollama:11434/api/embeddings", d.uri)
	assert.Equal(t, DefaultModel, d.sent.Model)
	assert.Equal(t, "기뻐요", d.sent.Prompt)
	require.Len(t, vec, 2)
	assert.InDelta(t, 0.6, vec[0], 1e-12)
	assert.InDelta(t, 0.8, vec[1], 1e-12)
}

func TestEmbed_TooFewDimensions(t *testing.T) {
	d := &fakeDoer{status: 200, body: []byte(`{"embedding":[1,2]}`)}
	_, err := newService(d).Embed(context.Background(), "text", 3)
	assert.ErrorIs(t, err, embedding.ErrEmbeddingRequest)
}

func TestEmbed_Unreachable(t *testing.T) {
	d := &fakeDoer{err: fasthttp.ErrDialTimeout}
	_, err := newService(d).Embed(context.Background(), "text", 3)
	assert.ErrorIs(t, err, embedding.ErrEmbeddingUnavailable)
}

func TestEmbed_StatusErrors(t *testing.T) {
	_, err := newService(&fakeDoer{status: 404, body: []byte(`model not found`)}).Embed(context.Background(), "text", 3)
	assert.ErrorIs(t, err, embedding.ErrEmbeddingRequest)

	_, err = newService(&fakeDoer{status: 500}).Embed(context.Background(), "text", 3)
	assert.ErrorIs(t, err, embedding.ErrEmbeddingUnavailable)
}
