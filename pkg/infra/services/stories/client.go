package stories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/memorylane/dailyquestion/pkg/infra/httpx"
	"github.com/memorylane/dailyquestion/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fastjson"
)

const serviceName = "story-service"

// Story is a life story the user recorded earlier.
type Story struct {
	Title   string
	Content string
}

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=stories_client_mock.go --case=underscore --with-expecter
type Client interface {
	RecentStories(ctx context.Context, userID int64, limit int) ([]Story, error)
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

func (c *client) RecentStories(ctx context.Context, userID int64, limit int) ([]Story, error) {
	var out []Story
	err := c.breaker.Execute(func() error {
		s, err := c.fetch(ctx, userID, limit)
		out = s
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load stories: %w", err)
	}
	return out, nil
}

func (c *client) fetch(ctx context.Context, userID int64, limit int) ([]Story, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fmt.Sprintf("%s/users/%d/stories?limit=%d", c.baseURL, userID, limit))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept-Encoding", "gzip, br")

	start := time.Now()
	err := httpx.DoWithContext(ctx, c.http, req, resp, c.timeout)
	prometheus.ObserveUpstream(serviceName, float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == fasthttp.StatusNotFound {
		return nil, nil
	}
	if err := httpx.CheckStatus(serviceName, resp); err != nil {
		return nil, err
	}
	raw, err := httpx.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	return parseStories(raw, limit)
}

// parseStories accepts a bare array or {"stories": [...]}.
func parseStories(raw []byte, limit int) ([]Story, error) {
	v, err := fastjson.ParseBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid story response: %w", err)
	}
	items := v.GetArray()
	if items == nil {
		items = v.GetArray("stories")
	}

	stories := make([]Story, 0, len(items))
	for _, item := range items {
		content := strings.TrimSpace(string(item.GetStringBytes("content")))
		if content == "" {
			continue
		}
		stories = append(stories, Story{
			Title:   strings.TrimSpace(string(item.GetStringBytes("title"))),
			Content: content,
		})
		if limit > 0 && len(stories) == limit {
			break
		}
	}
	return stories, nil
}
