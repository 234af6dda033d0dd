package embedding

import (
	"context"
)

//go:generate mockery --name=Provider --dir=. --output=./mocks --filename=embedding_provider_mock.go --case=underscore --with-expecter

// Provider turns text into a vector of exactly dimensions floats.
type Provider interface {
	Name() string
	Embed(ctx context.Context, text string, dimensions int) (Vector, error)
}
