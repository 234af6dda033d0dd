package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/memorylane/dailyquestion/pkg/domain/answer"
	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Create(ctx context.Context, a *answer.Answer) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *Repository) Get(ctx context.Context, id uuid.UUID) (*answer.Answer, error) {
	args := m.Called(ctx, id)
	var a *answer.Answer
	if args.Get(0) != nil {
		a = args.Get(0).(*answer.Answer)
	}
	return a, args.Error(1)
}

func (m *Repository) ListByUser(ctx context.Context, userID int64, filter answer.ListFilter) ([]answer.Answer, error) {
	args := m.Called(ctx, userID, filter)
	var as []answer.Answer
	if args.Get(0) != nil {
		as = args.Get(0).([]answer.Answer)
	}
	return as, args.Error(1)
}

func (m *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func NewRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *Repository {
	m := &Repository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
