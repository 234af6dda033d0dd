package voice

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/memorylane/dailyquestion/pkg/infra/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type fakeDoer struct {
	status int
	body   string
	sent   []byte
	uri    string
}

func (f *fakeDoer) DoTimeout(req *fasthttp.Request, resp *fasthttp.Response, _ time.Duration) error {
	f.uri = req.URI().String()
	f.sent = append([]byte(nil), req.Body()...)
	resp.SetStatusCode(f.status)
	resp.SetBodyString(f.body)
	return nil
}

func TestAnalyze(t *testing.T) {
	doer := &fakeDoer{status: 200, body: `{"cognitive_score": 71.5, "details": {"pause_ratio": 0.12, "speech_rate": 3.1}}`}
	a := NewAnalyzer(doer, logger.NewNopLogger(), "http://voice/", time.Second)

	got, err := a.Analyze(context.Background(), Request{UserID: 42, QuestionID: "q", AudioURL: "https://b/a.wav"})

	require.NoError(t, err)
	assert.Equal(t, 71.5, got.CognitiveScore)
	assert.JSONEq(t, `{"pause_ratio":0.12,"speech_rate":3.1}`, string(got.Details))
	assert.Equal(t, "http://voice/analyze", doer.uri)

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal(doer.sent, &sent))
	assert.Equal(t, "https://b/a.wav", sent["audio_url"])
	assert.NotContains(t, sent, "transcript")
}

func TestAnalyze_NestedScore(t *testing.T) {
	doer := &fakeDoer{status: 200, body: `{"result": {"score": 55}}`}
	got, err := NewAnalyzer(doer, logger.NewNopLogger(), "http://voice", time.Second).
		Analyze(context.Background(), Request{UserID: 1})

	require.NoError(t, err)
	assert.Equal(t, 55.0, got.CognitiveScore)
	assert.Nil(t, got.Details)
}

func TestAnalyze_Invalid(t *testing.T) {
	bodies := []string{
		`not json`,
		`{"details": {}}`,
		`{"cognitive_score": "high"}`,
		`{"cognitive_score": 140}`,
	}
	for _, body := range bodies {
		_, err := NewAnalyzer(&fakeDoer{status: 200, body: body}, logger.NewNopLogger(), "http://voice", time.Second).
			Analyze(context.Background(), Request{UserID: 1})
		assert.ErrorIs(t, err, ErrInvalidAnalysis, body)
	}
}

func TestAnalyze_ServerError(t *testing.T) {
	_, err := NewAnalyzer(&fakeDoer{status: 500, body: "boom"}, logger.NewNopLogger(), "http://voice", time.Second).
		Analyze(context.Background(), Request{UserID: 1})
	assert.ErrorContains(t, err, "status 500")
}
