package resilient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/memorylane/dailyquestion/pkg/domain/embedding"
	"github.com/memorylane/dailyquestion/pkg/domain/embedding/mocks"
	"github.com/memorylane/dailyquestion/pkg/infra/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestProvider(next embedding.Provider, opts Options) *provider {
	p := New(next, logger.NewNopLogger(), opts).(*provider)
	p.sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	return p
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.AttemptTimeout = 50 * time.Millisecond
	return opts
}

func TestEmbed_RetriesUnavailable(t *testing.T) {
	next := mocks.NewProvider(t)
	next.On("Name").Return("openai")
	next.On("Embed", mock.Anything, "a", 2).Return(nil, embedding.ErrEmbeddingUnavailable).Once()
	next.On("Embed", mock.Anything, "a", 2).Return(embedding.Vector{1, 0}, nil).Once()

	vec, err := newTestProvider(next, testOptions()).Embed(context.Background(), "a", 2)

	require.NoError(t, err)
	assert.Equal(t, embedding.Vector{1, 0}, vec)
}

func TestEmbed_GivesUpAfterMaxRetries(t *testing.T) {
	next := mocks.NewProvider(t)
	next.On("Name").Return("openai")
	next.On("Embed", mock.Anything, "a", 2).Return(nil, embedding.ErrEmbeddingUnavailable).Times(3)

	_, err := newTestProvider(next, testOptions()).Embed(context.Background(), "a", 2)

	assert.ErrorIs(t, err, embedding.ErrEmbeddingUnavailable)
}

func TestEmbed_RequestErrorsAreNotRetried(t *testing.T) {
	next := mocks.NewProvider(t)
	next.On("Name").Return("openai")
	next.On("Embed", mock.Anything, "a", 2).Return(nil, embedding.ErrEmbeddingRequest).Once()

	_, err := newTestProvider(next, testOptions()).Embed(context.Background(), "a", 2)

	assert.ErrorIs(t, err, embedding.ErrEmbeddingRequest)
}

func TestEmbed_AttemptTimeoutIsUnavailable(t *testing.T) {
	next := mocks.NewProvider(t)
	next.On("Name").Return("openai")
	next.On("Embed", mock.Anything, "a", 2).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded)

	opts := testOptions()
	opts.MaxRetries = 0
	_, err := newTestProvider(next, opts).Embed(context.Background(), "a", 2)

	assert.ErrorIs(t, err, embedding.ErrEmbeddingUnavailable)
}

func TestEmbed_CallerCancellationStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	next := mocks.NewProvider(t)
	next.On("Name").Return("openai")
	next.On("Embed", mock.Anything, "a", 2).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, embedding.ErrEmbeddingUnavailable).Once()

	_, err := newTestProvider(next, testOptions()).Embed(ctx, "a", 2)

	assert.True(t, errors.Is(err, context.Canceled))
}

func TestEmbed_BreakerOpensOnRepeatedOutage(t *testing.T) {
	next := mocks.NewProvider(t)
	next.On("Name").Return("openai")
	next.On("Embed", mock.Anything, "a", 2).Return(nil, embedding.ErrEmbeddingUnavailable).Times(2)

	opts := testOptions()
	opts.MaxRetries = 0
	opts.BreakerFailures = 2
	opts.BreakerTimeout = time.Minute
	p := newTestProvider(next, opts)

	for i := 0; i < 2; i++ {
		_, err := p.Embed(context.Background(), "a", 2)
		require.ErrorIs(t, err, embedding.ErrEmbeddingUnavailable)
	}

	// the breaker answers without reaching the backend
	_, err := p.Embed(context.Background(), "a", 2)
	assert.ErrorIs(t, err, embedding.ErrEmbeddingUnavailable)
	next.AssertNumberOfCalls(t, "Embed", 2)
}

func TestEmbed_RequestErrorsDoNotTripBreaker(t *testing.T) {
	next := mocks.NewProvider(t)
	next.On("Name").Return("openai")
	next.On("Embed", mock.Anything, "bad", 2).Return(nil, embedding.ErrEmbeddingRequest).Times(3)
	next.On("Embed", mock.Anything, "good", 2).Return(embedding.Vector{0, 1}, nil).Once()

	opts := testOptions()
	opts.BreakerFailures = 2
	p := newTestProvider(next, opts)

	for i := 0; i < 3; i++ {
		_, _ = p.Embed(context.Background(), "bad", 2)
	}
	vec, err := p.Embed(context.Background(), "good", 2)

	require.NoError(t, err)
	assert.Equal(t, embedding.Vector{0, 1}, vec)
}

func TestEmbed_CallerDeadlinesDoNotTripBreaker(t *testing.T) {
	next := mocks.NewProvider(t)
	next.On("Name").Return("openai")
	next.On("Embed", mock.Anything, "slow", 2).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded).Times(3)
	next.On("Embed", mock.Anything, "cancelled", 2).Return(nil, context.Canceled).Times(3)
	next.On("Embed", mock.Anything, "good", 2).Return(embedding.Vector{0, 1}, nil).Once()

	opts := testOptions()
	opts.MaxRetries = 0
	opts.BreakerFailures = 2
	opts.BreakerTimeout = time.Minute
	p := newTestProvider(next, opts)

	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		_, err := p.Embed(ctx, "slow", 2)
		cancel()
		require.ErrorIs(t, err, context.DeadlineExceeded)
	}
	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := p.Embed(ctx, "cancelled", 2)
		require.ErrorIs(t, err, context.Canceled)
	}

	vec, err := p.Embed(context.Background(), "good", 2)
	require.NoError(t, err)
	assert.Equal(t, embedding.Vector{0, 1}, vec)
}

func TestOptions_BudgetCoversEveryAttempt(t *testing.T) {
	opts := Options{
		AttemptTimeout: time.Second,
		MaxRetries:     2,
		BaseBackoff:    100 * time.Millisecond,
		MaxBackoff:     time.Second,
	}
	assert.Equal(t, 3*time.Second+300*time.Millisecond, opts.Budget())

	opts.MaxRetries = 0
	assert.Equal(t, time.Second, opts.Budget())

	assert.Zero(t, Options{}.Budget())
}

func TestBackoff_Capped(t *testing.T) {
	p := &provider{opts: Options{BaseBackoff: 100 * time.Millisecond, MaxBackoff: 300 * time.Millisecond}}
	assert.Equal(t, 100*time.Millisecond, p.backoff(1))
	assert.Equal(t, 200*time.Millisecond, p.backoff(2))
	assert.Equal(t, 300*time.Millisecond, p.backoff(3))
	assert.Equal(t, 300*time.Millisecond, p.backoff(40))
}
