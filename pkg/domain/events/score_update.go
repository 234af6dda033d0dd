package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const ScoreUpdatesTopic = "score-updates"

// ScoreUpdateEvent tells downstream consumers that an answer has been scored.
// Scores are null when the corresponding analysis did not produce one.
type ScoreUpdateEvent struct {
	UserID         int64     `json:"user_id"`
	AnswerID       uuid.UUID `json:"answer_id"`
	QuestionID     uuid.UUID `json:"question_id"`
	CognitiveScore *float64  `json:"cognitive_score"`
	SemanticScore  *float64  `json:"semantic_score"`
	ScoringStatus  string    `json:"scoring_status"`
	Timestamp      time.Time `json:"timestamp"`
}

//go:generate mockery --name=Publisher --dir=. --output=./mocks --filename=publisher_mock.go --case=underscore --with-expecter
type Publisher interface {
	// PublishScoreUpdate enqueues the event and returns without waiting for
	// the broker; delivery failures are only logged.
	PublishScoreUpdate(ctx context.Context, evt ScoreUpdateEvent) error
	Close()
}
