package request

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const MaxTextAnswerLength = 5000

type TextAnswerRequest struct {
	QuestionID string `json:"question_id"`
	UserID     int64  `json:"user_id"`
	Text       string `json:"text"`

	UserAgent string `json:"-"`
}

func (r *TextAnswerRequest) Validate() error {
	if _, err := uuid.Parse(r.QuestionID); err != nil {
		return fmt.Errorf("invalid question_id")
	}
	if r.UserID <= 0 {
		return fmt.Errorf("user_id must be positive")
	}
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("text is required")
	}
	if len([]rune(r.Text)) > MaxTextAnswerLength {
		return fmt.Errorf("text exceeds %d characters", MaxTextAnswerLength)
	}
	return nil
}

// VoiceAnswerRequest is assembled from the multipart form of a voice upload.
type VoiceAnswerRequest struct {
	QuestionID  uuid.UUID
	UserID      int64
	Audio       []byte
	Filename    string
	ContentType string
	UserAgent   string
}

func (r *VoiceAnswerRequest) Validate() error {
	if r.QuestionID == uuid.Nil {
		return fmt.Errorf("question_id is required")
	}
	if r.UserID <= 0 {
		return fmt.Errorf("user_id must be positive")
	}
	if len(r.Audio) == 0 {
		return fmt.Errorf("audio_file is empty")
	}
	return nil
}

type ScoringPreviewRequest struct {
	Question  string   `json:"question"`
	Exemplars []string `json:"exemplars"`
	Answer    string   `json:"answer"`
}

func (r *ScoringPreviewRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return fmt.Errorf("question is required")
	}
	if strings.TrimSpace(r.Answer) == "" {
		return fmt.Errorf("answer is required")
	}
	return nil
}
