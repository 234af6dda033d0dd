package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/memorylane/dailyquestion/pkg/infra/httpx"
	"github.com/memorylane/dailyquestion/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fastjson"
)

const serviceName = "rag-workflow"

// Passage is a retrieved snippet of the user's own history.
type Passage struct {
	Text  string
	Score float64
}

type queryRequest struct {
	UserID int64  `json:"user_id"`
	Query  string `json:"query"`
	TopK   int    `json:"top_k"`
}

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=rag_client_mock.go --case=underscore --with-expecter
type Client interface {
	Retrieve(ctx context.Context, userID int64, query string, topK int) ([]Passage, error)
}

type client struct {
	http    httpx.Doer
	baseURL string
	timeout time.Duration
	breaker httpx.CircuitBreaker
	logger  *logrus.Logger
}

func NewClient(httpClient httpx.Doer, logger *logrus.Logger, baseURL string, timeout time.Duration) Client {
	return &client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		breaker: httpx.NewCircuitBreaker(serviceName, 30*time.Second, 5, httpx.WithIgnoredErrors(httpx.IsClientError)),
		logger:  logger,
	}
}

func (c *client) Retrieve(ctx context.Context, userID int64, query string, topK int) ([]Passage, error) {
	body, err := json.Marshal(queryRequest{UserID: userID, Query: query, TopK: topK})
	if err != nil {
		return nil, err
	}
	var out []Passage
	err = c.breaker.Execute(func() error {
		p, err := c.post(ctx, body)
		out = p
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("rag retrieval failed: %w", err)
	}
	return out, nil
}

func (c *client) post(ctx context.Context, body []byte) ([]Passage, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/query")
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

	v, err := fastjson.ParseBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid rag response: %w", err)
	}
	var passages []Passage
	for _, item := range v.GetArray("passages") {
		text := strings.TrimSpace(string(item.GetStringBytes("text")))
		if text == "" {
			continue
		}
		passages = append(passages, Passage{Text: text, Score: item.GetFloat64("score")})
	}
	return passages, nil
}
