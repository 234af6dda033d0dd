package question

import (
	"context"

	"github.com/google/uuid"
)

const MaxListLimit = 100

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=question_repository_mock.go --case=underscore --with-expecter
type Repository interface {
	Create(ctx context.Context, q *Question) error
	Get(ctx context.Context, id uuid.UUID) (*Question, error)
	List(ctx context.Context, offset, limit int) ([]Question, error)
	Update(ctx context.Context, q *Question) error
	Delete(ctx context.Context, id uuid.UUID) error
}
