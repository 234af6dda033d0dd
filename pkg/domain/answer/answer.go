package answer

import (
	"time"

	"github.com/google/uuid"
	"github.com/memorylane/dailyquestion/pkg/domain"
	"gorm.io/gorm"
)

const (
	StatusScored   = "scored"
	StatusUnscored = "unscored"
)

type Answer struct {
	ID              uuid.UUID          `json:"id" gorm:"type:uuid;primaryKey"`
	QuestionID      uuid.UUID          `json:"question_id" gorm:"type:uuid;not null;index"`
	UserID          int64              `json:"user_id" gorm:"not null;index:idx_answers_user_created,priority:1"`
	AudioFileURL    string             `json:"audio_file_url,omitempty" gorm:"type:text"`
	TextContent     *string            `json:"text_content"`
	CognitiveScore  *float64           `json:"cognitive_score"`
	AnalysisDetails domain.DetailsJSON `json:"analysis_details,omitempty" gorm:"type:jsonb"`
	SemanticScore   *float64           `json:"semantic_score"`
	ScoringStatus   string             `json:"scoring_status" gorm:"type:text;not null;default:'unscored'"`
	UnscoredReason  string             `json:"unscored_reason,omitempty" gorm:"type:text"`
	ClientDevice    string             `json:"client_device,omitempty" gorm:"type:text"`
	CreatedAt       time.Time          `json:"created_at" gorm:"index:idx_answers_user_created,priority:2"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.ScoringStatus == "" {
		a.ScoringStatus = StatusUnscored
	}
	return a.Validate()
}

func (a *Answer) Validate() error {
	if a.QuestionID == uuid.Nil {
		return domain.NewValidationError("question_id", "is required")
	}
	if a.UserID <= 0 {
		return domain.NewValidationError("user_id", "must be positive")
	}
	if a.AudioFileURL == "" && a.TextContent == nil {
		return domain.NewValidationError("text_content", "an answer needs audio or text")
	}
	switch a.ScoringStatus {
	case StatusScored:
		if a.SemanticScore == nil {
			return domain.NewValidationError("semantic_score", "scored answer without a score")
		}
	case StatusUnscored:
		if a.SemanticScore != nil {
			return domain.NewValidationError("semantic_score", "unscored answer with a score")
		}
	default:
		return domain.NewValidationError("scoring_status", "must be scored or unscored")
	}
	return nil
}

func (a *Answer) TableName() string {
	return "answers"
}
