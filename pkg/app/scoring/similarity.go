package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/memorylane/dailyquestion/pkg/domain/embedding"
)

var (
	ErrDimensionMismatch = errors.New("embedding dimensions do not match")
	ErrDegenerateVector  = errors.New("embedding vector has zero norm or non-finite components")
)

// CosineSimilarity returns the cosine of the angle between a and b, always
// within [-1, 1].
func CosineSimilarity(a, b embedding.Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}

	maxA, ok := maxAbs(a)
	if !ok {
		return 0, ErrDegenerateVector
	}
	maxB, ok := maxAbs(b)
	if !ok {
		return 0, ErrDegenerateVector
	}

	// components are scaled into [-1, 1] first so the sums cannot overflow
	var dot, normA, normB float64
	for i := range a {
		x, y := a[i]/maxA, b[i]/maxB
		dot += x * y
		normA += x * x
		normB += y * y
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) {
		return 0, ErrDegenerateVector
	}
	// rounding can push parallel vectors a hair past 1
	return math.Max(-1, math.Min(1, sim)), nil
}

// maxAbs returns the largest |v[i]|. ok is false for an all-zero vector or one
// holding NaN or an infinity.
func maxAbs(v embedding.Vector) (float64, bool) {
	var m float64
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		if ax := math.Abs(x); ax > m {
			m = ax
		}
	}
	return m, m > 0
}
