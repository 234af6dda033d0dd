package users

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/memorylane/dailyquestion/pkg/infra/cache"
	"github.com/memorylane/dailyquestion/pkg/infra/httpx"
	"github.com/memorylane/dailyquestion/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fastjson"
)

const serviceName = "user-service"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrServiceUnavailable = errors.New("user service unavailable")
)

type User struct {
	ID   int64
	Name string
}

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=users_client_mock.go --case=underscore --with-expecter
type Client interface {
	GetUser(ctx context.Context, userID int64) (*User, error)
}

type client struct {
	http    httpx.Doer
	baseURL string
	timeout time.Duration
	breaker httpx.CircuitBreaker
	known   *cache.TTLMap
	logger  *logrus.Logger
}

// NewClient talks to GET <baseURL>/users/{id}. Users that exist are
// remembered in known, so repeated submissions skip the round trip.
func NewClient(httpClient httpx.Doer, logger *logrus.Logger, baseURL string, timeout time.Duration, known *cache.TTLMap) Client {
	return &client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		breaker: httpx.NewCircuitBreaker(serviceName, 30*time.Second, 5, httpx.WithIgnoredErrors(func(err error) bool {
			return errors.Is(err, ErrUserNotFound) || httpx.IsClientError(err)
		})),
		known:  known,
		logger: logger,
	}
}

func (c *client) GetUser(ctx context.Context, userID int64) (*User, error) {
	cacheKey := strconv.FormatInt(userID, 10)
	if c.known != nil {
		if v, ok := c.known.Get(cacheKey); ok {
			if u, ok := v.(*User); ok {
				return u, nil
			}
		}
	}

	var user *User
	err := c.breaker.Execute(func() error {
		u, err := c.fetch(ctx, userID)
		user = u
		return err
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrUserNotFound, userID)
		}
		c.logger.WithField("user_id", userID).WithError(err).Warn("user service call failed")
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	if c.known != nil {
		c.known.Set(cacheKey, user)
	}
	return user, nil
}

func (c *client) fetch(ctx context.Context, userID int64) (*User, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fmt.Sprintf("%s/users/%d", c.baseURL, userID))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, br")

	start := time.Now()
	err := httpx.DoWithContext(ctx, c.http, req, resp, c.timeout)
	prometheus.ObserveUpstream(serviceName, float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == fasthttp.StatusNotFound {
		return nil, ErrUserNotFound
	}
	if err := httpx.CheckStatus(serviceName, resp); err != nil {
		return nil, err
	}

	body, err := httpx.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	user := &User{ID: userID}
	// the body is informational; an empty or non-JSON 200 still proves the user exists
	if v, err := fastjson.ParseBytes(body); err == nil {
		if id := v.GetInt64("id"); id != 0 {
			user.ID = id
		}
		user.Name = string(v.GetStringBytes("name"))
	}
	return user, nil
}
