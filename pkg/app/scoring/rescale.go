package scoring

import (
	"math"
)

// Rescale passes a 0-100 score through a logistic curve centred on x0 with
// steepness k. The result lies strictly inside (0, 100) and is not rounded.
func Rescale(score, k, x0 float64) float64 {
	return 100 / (1 + math.Exp(-k*(score-x0)))
}
