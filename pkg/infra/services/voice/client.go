package voice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/memorylane/dailyquestion/pkg/infra/httpx"
	"github.com/memorylane/dailyquestion/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fastjson"
)

const serviceName = "voice-analysis"

var ErrInvalidAnalysis = errors.New("invalid voice analysis response")

// Analysis is the cognitive assessment of one recorded answer. Details keeps
// the raw per-feature breakdown for storage.
type Analysis struct {
	CognitiveScore float64
	Details        json.RawMessage
}

type Request struct {
	UserID     int64  `json:"user_id"`
	QuestionID string `json:"question_id"`
	AudioURL   string `json:"audio_url"`
	Transcript string `json:"transcript,omitempty"`
}

//go:generate mockery --name=Analyzer --dir=. --output=./mocks --filename=analyzer_mock.go --case=underscore --with-expecter
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (*Analysis, error)
}

type client struct {
	http    httpx.Doer
	baseURL string
	timeout time.Duration
	breaker httpx.CircuitBreaker
	logger  *logrus.Logger
	parsers fastjson.ParserPool
}

func NewAnalyzer(httpClient httpx.Doer, logger *logrus.Logger, baseURL string, timeout time.Duration) Analyzer {
	return &client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		breaker: httpx.NewCircuitBreaker(serviceName, 30*time.Second, 5, httpx.WithIgnoredErrors(func(err error) bool {
			return errors.Is(err, ErrInvalidAnalysis) || httpx.IsClientError(err)
		})),
		logger: logger,
	}
}

func (c *client) Analyze(ctx context.Context, in Request) (*Analysis, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	var out *Analysis
	err = c.breaker.Execute(func() error {
		a, err := c.post(ctx, body)
		out = a
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("voice analysis failed: %w", err)
	}
	return out, nil
}

func (c *client) post(ctx context.Context, body []byte) (*Analysis, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/analyze")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept-Encoding", "gzip, br, zstd")
	req.SetBody(body)

	start := time.Now()
	err := httpx.DoWithContext(ctx, c.http, req, resp, c.timeout)
	prometheus.ObserveUpstream(serviceName, float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, err
	}
	if err := httpx.CheckStatus(serviceName, resp); err != nil {
		return nil, err
	}
	raw, err := httpx.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	return c.parse(raw)
}

// parse accepts {"cognitive_score": n, "details": {...}}; the score may also
// be nested as {"result": {"score": n}} in older deployments.
func (c *client) parse(raw []byte) (*Analysis, error) {
	p := c.parsers.Get()
	defer c.parsers.Put(p)

	v, err := p.ParseBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAnalysis, err)
	}

	score := v.Get("cognitive_score")
	if score == nil {
		score = v.Get("result", "score")
	}
	if score == nil || score.Type() != fastjson.TypeNumber {
		return nil, fmt.Errorf("%w: missing cognitive_score", ErrInvalidAnalysis)
	}
	f, err := score.Float64()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAnalysis, err)
	}
	if f < 0 || f > 100 {
		return nil, fmt.Errorf("%w: cognitive_score %v out of range", ErrInvalidAnalysis, f)
	}

	a := &Analysis{CognitiveScore: f}
	if d := v.Get("details"); d != nil && d.Type() == fastjson.TypeObject {
		a.Details = json.RawMessage(d.MarshalTo(nil))
	}
	return a, nil
}
