package scoring

import (
	"fmt"
	"sync/atomic"
)

type Config struct {
	RelevanceThreshold  float64
	TopK                int
	SigmoidK            float64
	SigmoidX0           float64
	EmbeddingDimensions int
	MaxConcurrency      int
}

func DefaultConfig() Config {
	return Config{
		RelevanceThreshold:  0.2,
		TopK:                3,
		SigmoidK:            0.1,
		SigmoidX0:           50.0,
		EmbeddingDimensions: 1024,
		MaxConcurrency:      4,
	}
}

func (c Config) Validate() error {
	if c.RelevanceThreshold < -1 || c.RelevanceThreshold > 1 {
		return fmt.Errorf("relevance threshold must be within [-1, 1], got %v", c.RelevanceThreshold)
	}
	if c.TopK < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidTopK, c.TopK)
	}
	if c.SigmoidK <= 0 {
		return fmt.Errorf("sigmoid steepness must be positive, got %v", c.SigmoidK)
	}
	if c.EmbeddingDimensions < 1 {
		return fmt.Errorf("embedding dimensions must be positive, got %d", c.EmbeddingDimensions)
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max concurrency must be at least 1, got %d", c.MaxConcurrency)
	}
	return nil
}

//go:generate mockery --name=ConfigSource --dir=. --output=./mocks --filename=config_source_mock.go --case=underscore --with-expecter
type ConfigSource interface {
	Current() Config
}

// ConfigStore holds the active scoring configuration. Each scoring call reads
// one snapshot, so a reload never mixes old and new parameters.
type ConfigStore struct {
	current atomic.Pointer[Config]
}

func NewConfigStore(cfg Config) (*ConfigStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &ConfigStore{}
	s.current.Store(&cfg)
	return s, nil
}

func (s *ConfigStore) Current() Config {
	return *s.current.Load()
}

// Update swaps in cfg. An invalid config is rejected and the previous one kept.
func (s *ConfigStore) Update(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.current.Store(&cfg)
	return nil
}
