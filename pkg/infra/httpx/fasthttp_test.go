package httpx

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type fakeDoer struct {
	status int
	body   []byte
	delay  time.Duration
	err    error
	got    time.Duration
}

func (f *fakeDoer) DoTimeout(_ *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error {
	f.got = timeout
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return f.err
	}
	resp.SetStatusCode(f.status)
	resp.SetBody(f.body)
	return nil
}

func TestDoWithContext_CopiesResponse(t *testing.T) {
	doer := &fakeDoer{status: fasthttp.StatusOK, body: []byte(`{"ok":true}`)}
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	err := DoWithContext(context.Background(), doer, req, resp, time.Second)

	require.NoError(t, err)
	assert.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	assert.Equal(t, `{"ok":true}`, string(resp.Body()))
	assert.Equal(t, time.Second, doer.got)
}

func TestDoWithContext_HonoursDeadline(t *testing.T) {
	doer := &fakeDoer{status: fasthttp.StatusOK}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	require.NoError(t, DoWithContext(ctx, doer, req, resp, time.Minute))
	assert.LessOrEqual(t, doer.got, 50*time.Millisecond)
}

func TestDoWithContext_Cancelled(t *testing.T) {
	doer := &fakeDoer{status: fasthttp.StatusOK, delay: 200 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	err := DoWithContext(ctx, doer, req, resp, time.Second)
	assert.ErrorIs(t, err, ErrRequestCancelled)
}

func TestDoWithContext_TransportError(t *testing.T) {
	doer := &fakeDoer{err: fasthttp.ErrTimeout}
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	err := DoWithContext(context.Background(), doer, req, resp, time.Second)
	assert.True(t, errors.Is(err, fasthttp.ErrTimeout))
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		status    int
		wantErr   bool
		retryable bool
	}{
		{status: 200},
		{status: 204},
		{status: 400, wantErr: true},
		{status: 404, wantErr: true},
		{status: 429, wantErr: true, retryable: true},
		{status: 503, wantErr: true, retryable: true},
	}
	for _, tt := range tests {
		resp := fasthttp.AcquireResponse()
		resp.SetStatusCode(tt.status)
		resp.SetBodyString("detail")

		err := CheckStatus("users", resp)
		fasthttp.ReleaseResponse(resp)

		if !tt.wantErr {
			assert.NoError(t, err)
			continue
		}
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, tt.status, se.StatusCode)
		assert.Equal(t, "detail", se.Body)
		assert.Equal(t, tt.retryable, se.Retryable())
		assert.Equal(t, !tt.retryable, IsClientError(err))
	}
}

func TestReadBody(t *testing.T) {
	plain := []byte(`{"question":"오늘 하루는 어떠셨나요?"}`)

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, _ = gw.Write(plain)
	_ = gw.Close()

	var br bytes.Buffer
	bw := brotli.NewWriter(&br)
	_, _ = bw.Write(plain)
	_ = bw.Close()

	var zs bytes.Buffer
	zw, _ := zstd.NewWriter(&zs)
	_, _ = zw.Write(plain)
	_ = zw.Close()

	var fl bytes.Buffer
	fw, _ := flate.NewWriter(&fl, flate.DefaultCompression)
	_, _ = fw.Write(plain)
	_ = fw.Close()

	// gzip applied first, then brotli
	var chained bytes.Buffer
	cw := brotli.NewWriter(&chained)
	_, _ = cw.Write(gz.Bytes())
	_ = cw.Close()

	tests := []struct {
		name     string
		encoding string
		body     []byte
	}{
		{name: "identity", encoding: "", body: plain},
		{name: "gzip", encoding: "gzip", body: gz.Bytes()},
		{name: "brotli", encoding: "br", body: br.Bytes()},
		{name: "zstd", encoding: "zstd", body: zs.Bytes()},
		{name: "raw deflate", encoding: "deflate", body: fl.Bytes()},
		{name: "chain", encoding: "gzip, br", body: chained.Bytes()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := fasthttp.AcquireResponse()
			defer fasthttp.ReleaseResponse(resp)
			if tt.encoding != "" {
				resp.Header.Set(fasthttp.HeaderContentEncoding, tt.encoding)
			}
			resp.SetBody(tt.body)

			got, err := ReadBody(resp)
			require.NoError(t, err)
			assert.Equal(t, plain, got)
		})
	}
}

func TestReadBody_UnsupportedEncoding(t *testing.T) {
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)
	resp.Header.Set(fasthttp.HeaderContentEncoding, "lzma")
	resp.SetBodyString("x")

	_, err := ReadBody(resp)
	assert.Error(t, err)
}
