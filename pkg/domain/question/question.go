package question

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/memorylane/dailyquestion/pkg/domain"
	"gorm.io/gorm"
)

const (
	SourceManual    = "manual"
	SourceGenerated = "generated"
	SourceFallback  = "fallback"

	MaxContentLength = 1000
	MaxExpected      = 20
)

// Question is asked to a user once a day. ExpectedAnswers are the exemplar
// phrasings semantic scoring compares an answer with.
type Question struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Content         string         `json:"content" gorm:"type:text;not null"`
	ExpectedAnswers pq.StringArray `json:"expected_answers" gorm:"type:text[]"`
	Source          string         `json:"source" gorm:"type:text;not null;default:'manual'"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	if q.Source == "" {
		q.Source = SourceManual
	}
	return q.Validate()
}

func (q *Question) Validate() error {
	q.Content = strings.TrimSpace(q.Content)
	if q.Content == "" {
		return domain.NewValidationError("content", "is required")
	}
	if len([]rune(q.Content)) > MaxContentLength {
		return domain.NewValidationError("content", "is too long")
	}
	if len(q.ExpectedAnswers) > MaxExpected {
		return domain.NewValidationError("expected_answers", "too many entries")
	}
	switch q.Source {
	case SourceManual, SourceGenerated, SourceFallback:
	default:
		return domain.NewValidationError("source", "must be manual, generated or fallback")
	}
	return nil
}

// Exemplars returns the non-blank expected answers.
func (q *Question) Exemplars() []string {
	out := make([]string, 0, len(q.ExpectedAnswers))
	for _, a := range q.ExpectedAnswers {
		if strings.TrimSpace(a) != "" {
			out = append(out, a)
		}
	}
	return out
}

func (q *Question) TableName() string {
	return "questions"
}
