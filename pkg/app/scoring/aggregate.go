package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrNoSimilarities = errors.New("no exemplar similarities to aggregate")
	ErrInvalidTopK    = errors.New("top-k must be at least 1")
)

// Aggregate averages the topK highest similarities and maps the mean from
// [-1, 1] onto [0, 100], rounded to two decimals.
func Aggregate(similarities []float64, topK int) (float64, error) {
	if topK < 1 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidTopK, topK)
	}
	if len(similarities) == 0 {
		return 0, ErrNoSimilarities
	}

	sorted := make([]float64, len(similarities))
	copy(sorted, similarities)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	n := min(topK, len(sorted))
	var sum float64
	for _, s := range sorted[:n] {
		sum += s
	}
	mean := sum / float64(n)

	return Round2((mean + 1) / 2 * 100), nil
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
