package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/memorylane/dailyquestion/pkg/domain"
	"github.com/memorylane/dailyquestion/pkg/domain/question"
	"gorm.io/gorm"
)

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) question.Repository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, q *question.Question) error {
	if err := r.db.WithContext(ctx).Create(q).Error; err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	return nil
}

func (r *questionRepository) Get(ctx context.Context, id uuid.UUID) (*question.Question, error) {
	var q question.Question
	if err := r.db.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("question", id)
		}
		return nil, fmt.Errorf("get question: %w", err)
	}
	return &q, nil
}

func (r *questionRepository) List(ctx context.Context, offset, limit int) ([]question.Question, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > question.MaxListLimit {
		limit = question.MaxListLimit
	}
	var qs []question.Question
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&qs).Error
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return qs, nil
}

func (r *questionRepository) Update(ctx context.Context, q *question.Question) error {
	if err := q.Validate(); err != nil {
		return err
	}
	q.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).
		Model(&question.Question{ID: q.ID}).
		Select("content", "expected_answers", "source", "updated_at").
		Updates(q)
	if result.Error != nil {
		return fmt.Errorf("update question: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("question", q.ID)
	}
	return nil
}

func (r *questionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&question.Question{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete question: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("question", id)
	}
	return nil
}
