package embedding

import (
	"errors"
)

var (
	// ErrEmbeddingUnavailable means the backend could not be reached, timed out
	// or is missing credentials.
	ErrEmbeddingUnavailable = errors.New("embedding backend unavailable")
	// ErrEmbeddingRequest means the backend rejected the input or answered with
	// something that is not a usable vector.
	ErrEmbeddingRequest      = errors.New("embedding request rejected")
	ErrProviderNonOKResponse = errors.New("non-OK response from embedding provider")
	ErrUnsupportedProvider   = errors.New("unsupported embedding provider")
)

// Vector is a dense text embedding. Vectors are only comparable when produced
// with the same model and dimensionality.
type Vector []float64

func (v Vector) Dim() int {
	return len(v)
}

// Config describes how to reach an embedding backend.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Region   string
}
