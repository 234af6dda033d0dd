package answer

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows ListByUser to a creation window. Nil bounds are open.
type ListFilter struct {
	From *time.Time
	To   *time.Time
}

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=answer_repository_mock.go --case=underscore --with-expecter
type Repository interface {
	Create(ctx context.Context, a *Answer) error
	Get(ctx context.Context, id uuid.UUID) (*Answer, error)
	ListByUser(ctx context.Context, userID int64, filter ListFilter) ([]Answer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
