package request

import (
	"fmt"
	"strings"
)

type CreateQuestionRequest struct {
	Content         string   `json:"content"`
	ExpectedAnswers []string `json:"expected_answers"`
	Source          string   `json:"source,omitempty"`
}

func (r *CreateQuestionRequest) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return fmt.Errorf("content is required")
	}
	for i, a := range r.ExpectedAnswers {
		if strings.TrimSpace(a) == "" {
			return fmt.Errorf("expected_answers[%d] is empty", i)
		}
	}
	return nil
}

// UpdateQuestionRequest replaces only the fields that are present.
type UpdateQuestionRequest struct {
	Content         *string   `json:"content,omitempty"`
	ExpectedAnswers *[]string `json:"expected_answers,omitempty"`
}

func (r *UpdateQuestionRequest) Validate() error {
	if r.Content == nil && r.ExpectedAnswers == nil {
		return fmt.Errorf("nothing to update")
	}
	if r.Content != nil && strings.TrimSpace(*r.Content) == "" {
		return fmt.Errorf("content cannot be empty")
	}
	if r.ExpectedAnswers != nil {
		for i, a := range *r.ExpectedAnswers {
			if strings.TrimSpace(a) == "" {
				return fmt.Errorf("expected_answers[%d] is empty", i)
			}
		}
	}
	return nil
}
