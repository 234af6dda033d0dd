package httpx

import (
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

//go:generate mockery --name=CircuitBreaker --dir=. --output=./mocks --filename=circuit_breaker_mock.go --case=underscore --with-expecter
type CircuitBreaker interface {
	Execute(fn func() error) error
}

type circuitBreakerWrapper struct {
	breaker *gobreaker.CircuitBreaker
}

type BreakerOption func(*gobreaker.Settings)

// WithIgnoredErrors keeps errors matching ignore from counting as failures,
// e.g. a 400 from a healthy backend.
func WithIgnoredErrors(ignore func(error) bool) BreakerOption {
	return func(s *gobreaker.Settings) {
		s.IsSuccessful = func(err error) bool {
			return err == nil || ignore(err)
		}
	}
}

func NewCircuitBreaker(name string, timeout time.Duration, maxFailures uint32, opts ...BreakerOption) CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
	}
	for _, opt := range opts {
		opt(&settings)
	}
	return &circuitBreakerWrapper{
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (g *circuitBreakerWrapper) Execute(fn func() error) error {
	_, err := g.breaker.Execute(func() (res interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic recovered: %v", r)
			}
		}()
		return nil, fn()
	})
	if err != nil {
		return fmt.Errorf("breaker (%s): %w", g.breaker.Name(), err)
	}
	return nil
}

// IsOpen reports whether err was produced by a breaker refusing the call.
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
