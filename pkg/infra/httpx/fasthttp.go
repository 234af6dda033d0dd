package httpx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	DefaultTimeout             = 30 * time.Second
	DefaultMaxConnsPerHost     = 512
	DefaultMaxIdleConnDuration = 10 * time.Second
	DefaultReadBufferSize      = 8192
	DefaultMaxResponseBodySize = 32 * 1024 * 1024
)

var ErrRequestCancelled = errors.New("request cancelled")

// Doer is the slice of *fasthttp.Client the outbound clients depend on.
//
//go:generate mockery --name=Doer --dir=. --output=./mocks --filename=doer_mock.go --case=underscore --with-expecter
type Doer interface {
	DoTimeout(req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error
}

type FastHTTPClientOptions struct {
	Timeout             time.Duration
	MaxConnsPerHost     int
	MaxIdleConnDuration time.Duration
	ReadBufferSize      int
	MaxResponseBodySize int
	UserAgent           string
}

type FastHTTPClientOption func(*FastHTTPClientOptions)

func WithTimeout(timeout time.Duration) FastHTTPClientOption {
	return func(o *FastHTTPClientOptions) {
		o.Timeout = timeout
	}
}

func WithMaxConnsPerHost(max int) FastHTTPClientOption {
	return func(o *FastHTTPClientOptions) {
		o.MaxConnsPerHost = max
	}
}

func WithMaxResponseBodySize(size int) FastHTTPClientOption {
	return func(o *FastHTTPClientOptions) {
		o.MaxResponseBodySize = size
	}
}

func WithUserAgent(userAgent string) FastHTTPClientOption {
	return func(o *FastHTTPClientOptions) {
		o.UserAgent = userAgent
	}
}

// NewFastHTTPClient builds the shared outbound client.
func NewFastHTTPClient(opts ...FastHTTPClientOption) *fasthttp.Client {
	options := &FastHTTPClientOptions{
		Timeout:             DefaultTimeout,
		MaxConnsPerHost:     DefaultMaxConnsPerHost,
		MaxIdleConnDuration: DefaultMaxIdleConnDuration,
		ReadBufferSize:      DefaultReadBufferSize,
		MaxResponseBodySize: DefaultMaxResponseBodySize,
		UserAgent:           "dailyquestion",
	}
	for _, opt := range opts {
		opt(options)
	}

	return &fasthttp.Client{
		Name:                options.UserAgent,
		ReadTimeout:         options.Timeout,
		WriteTimeout:        options.Timeout,
		MaxConnsPerHost:     options.MaxConnsPerHost,
		MaxIdleConnDuration: options.MaxIdleConnDuration,
		ReadBufferSize:      options.ReadBufferSize,
		MaxResponseBodySize: options.MaxResponseBodySize,
	}
}

// DoWithContext runs req on client and gives up as soon as ctx is done. The
// effective timeout is the smaller of timeout and the ctx deadline.
func DoWithContext(ctx context.Context, client Doer, req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRequestCancelled, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	// fasthttp keeps using req and resp after we return on cancellation, so it
	// works on private copies
	innerReq := fasthttp.AcquireRequest()
	req.CopyTo(innerReq)
	inner := fasthttp.AcquireResponse()
	errCh := make(chan error, 1)
	go func() {
		errCh <- client.DoTimeout(innerReq, inner, timeout)
	}()

	select {
	case <-ctx.Done():
		go func() {
			<-errCh
			fasthttp.ReleaseRequest(innerReq)
			fasthttp.ReleaseResponse(inner)
		}()
		return fmt.Errorf("%w: %v", ErrRequestCancelled, ctx.Err())
	case err := <-errCh:
		if err == nil {
			inner.CopyTo(resp)
		}
		fasthttp.ReleaseRequest(innerReq)
		fasthttp.ReleaseResponse(inner)
		return err
	}
}

// StatusError is a non-2xx answer from a collaborating service.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s responded with status %d: %s", e.Service, e.StatusCode, e.Body)
}

// Retryable reports whether the same request may succeed later.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == fasthttp.StatusTooManyRequests || e.StatusCode >= 500
}

// CheckStatus returns a *StatusError for any non-2xx response.
func CheckStatus(service string, resp *fasthttp.Response) error {
	code := resp.StatusCode()
	if code >= 200 && code < 300 {
		return nil
	}
	body, _ := ReadBody(resp)
	if len(body) > 512 {
		body = body[:512]
	}
	return &StatusError{Service: service, StatusCode: code, Body: string(body)}
}

// IsClientError reports whether err is a 4xx other than 429.
func IsClientError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && !se.Retryable()
}
