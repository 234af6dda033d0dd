package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/memorylane/dailyquestion/pkg/domain"
	"github.com/memorylane/dailyquestion/pkg/domain/answer"
	"gorm.io/gorm"
)

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) answer.Repository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Create(ctx context.Context, a *answer.Answer) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create answer: %w", err)
	}
	return nil
}

func (r *answerRepository) Get(ctx context.Context, id uuid.UUID) (*answer.Answer, error) {
	var a answer.Answer
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("answer", id)
		}
		return nil, fmt.Errorf("get answer: %w", err)
	}
	return &a, nil
}

func (r *answerRepository) ListByUser(ctx context.Context, userID int64, filter answer.ListFilter) ([]answer.Answer, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}
	var as []answer.Answer
	if err := q.Order("created_at DESC").Find(&as).Error; err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	return as, nil
}

func (r *answerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&answer.Answer{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete answer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("answer", id)
	}
	return nil
}
