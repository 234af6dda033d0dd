package httpx

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/valyala/fasthttp"
)

type decoder func([]byte) ([]byte, error)

var decoders = map[string]decoder{
	"br": func(b []byte) ([]byte, error) {
		return io.ReadAll(brotli.NewReader(bytes.NewReader(b)))
	},
	"gzip": func(b []byte) ([]byte, error) {
		r, err := gzip.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	},
	"zstd": func(b []byte) ([]byte, error) {
		r, err := zstd.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	},
	"deflate": func(b []byte) ([]byte, error) {
		if r, err := zlib.NewReader(bytes.NewReader(b)); err == nil {
			defer r.Close()
			return io.ReadAll(r)
		}
		r := flate.NewReader(bytes.NewReader(b))
		defer r.Close()
		return io.ReadAll(r)
	},
}

// ReadBody returns a copy of the response body with every Content-Encoding
// undone, last applied first.
func ReadBody(resp *fasthttp.Response) ([]byte, error) {
	body := append([]byte(nil), resp.Body()...)

	ce := string(resp.Header.Peek(fasthttp.HeaderContentEncoding))
	if ce == "" {
		return body, nil
	}
	encodings := strings.Split(ce, ",")
	for i := len(encodings) - 1; i >= 0; i-- {
		enc := strings.TrimSpace(strings.ToLower(encodings[i]))
		if enc == "" || enc == "identity" {
			continue
		}
		decode, ok := decoders[enc]
		if !ok {
			return nil, fmt.Errorf("unsupported content-encoding: %q", enc)
		}
		out, err := decode(body)
		if err != nil {
			return nil, fmt.Errorf("decoding %s body: %w", enc, err)
		}
		body = out
	}
	return body, nil
}
