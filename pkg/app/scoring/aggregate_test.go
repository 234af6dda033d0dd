package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name         string
		similarities []float64
		topK         int
		want         float64
	}{
		{name: "top three of five", similarities: []float64{0.9, 0.1, 0.5, 0.8, -0.2}, topK: 3, want: 86.67},
		{name: "fewer than k", similarities: []float64{0.5, -0.5}, topK: 3, want: 50},
		{name: "single best", similarities: []float64{-1, 1, 0}, topK: 1, want: 100},
		{name: "all negative", similarities: []float64{-1, -1}, topK: 3, want: 0},
		{name: "k larger than input", similarities: []float64{0.2}, topK: 10, want: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Aggregate(tt.similarities, tt.topK)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAggregate_DoesNotReorderInput(t *testing.T) {
	sims := []float64{0.1, 0.9, 0.5}
	_, err := Aggregate(sims, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.9, 0.5}, sims)
}

func TestAggregate_Errors(t *testing.T) {
	_, err := Aggregate(nil, 3)
	assert.ErrorIs(t, err, ErrNoSimilarities)

	_, err = Aggregate([]float64{0.5}, 0)
	assert.ErrorIs(t, err, ErrInvalidTopK)
}

func TestRescale(t *testing.T) {
	assert.Equal(t, 50.0, Rescale(50, 0.1, 50))
	assert.Equal(t, 92.41, Round2(Rescale(75, 0.1, 50)))
	assert.Equal(t, 7.59, Round2(Rescale(25, 0.1, 50)))

	// monotonic and strictly inside (0, 100)
	prev := 0.0
	for score := 0.0; score <= 100; score += 2.5 {
		got := Rescale(score, 0.1, 50)
		assert.Greater(t, got, 0.0)
		assert.Less(t, got, 100.0)
		assert.Greater(t, got, prev)
		prev = got
	}
}

func TestRescale_ShiftedMidpoint(t *testing.T) {
	assert.Equal(t, 50.0, Rescale(70, 0.3, 70))
	assert.Less(t, Rescale(60, 0.3, 70), 50.0)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 86.67, Round2(86.6666))
	assert.Equal(t, 0.0, Round2(0.001))
	assert.Equal(t, 12.35, Round2(12.345001))
}
