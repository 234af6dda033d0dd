package scoring

import (
	"github.com/memorylane/dailyquestion/pkg/domain/embedding"
)

// IsRelevant reports whether an answer is on topic for the question: its
// similarity to the question must reach threshold.
func IsRelevant(answer, question embedding.Vector, threshold float64) (bool, error) {
	sim, err := CosineSimilarity(answer, question)
	if err != nil {
		return false, err
	}
	return sim >= threshold, nil
}
