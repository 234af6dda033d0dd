package dependency_container

import (
	"testing"

	"github.com/memorylane/dailyquestion/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestScoringConfigFrom(t *testing.T) {
	got := scoringConfigFrom(config.ScoringConfig{
		RelevanceThreshold: 0.25,
		TopK:               5,
		SigmoidK:           0.2,
		SigmoidX0:          60,
		MaxConcurrency:     8,
	}, 512)

	assert.Equal(t, 0.25, got.RelevanceThreshold)
	assert.Equal(t, 5, got.TopK)
	assert.Equal(t, 0.2, got.SigmoidK)
	assert.Equal(t, 60.0, got.SigmoidX0)
	assert.Equal(t, 512, got.EmbeddingDimensions)
	assert.Equal(t, 8, got.MaxConcurrency)
	assert.NoError(t, got.Validate())
}

func TestTranscriptionConfigFrom_FallsBackToOpenAIProvider(t *testing.T) {
	cfg := &config.Config{
		Transcription: config.TranscriptionConfig{Model: "whisper-1", Language: "ko"},
		Providers: config.ProvidersConfig{Providers: map[string]config.ProviderConfig{
			"openai": {Name: "openai", APIKey: "sk-test", BaseURL: "https://proxy.internal/v1"},
		}},
	}

	got := transcriptionConfigFrom(cfg)
	assert.Equal(t, "sk-test", got.APIKey)
	assert.Equal(t, "https://proxy.internal/v1", got.BaseURL)
	assert.Equal(t, "whisper-1", got.Model)

	cfg.Transcription.APIKey = "sk-own"
	got = transcriptionConfigFrom(cfg)
	assert.Equal(t, "sk-own", got.APIKey)
	assert.Empty(t, got.BaseURL)
}
