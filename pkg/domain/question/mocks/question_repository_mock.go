package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/memorylane/dailyquestion/pkg/domain/question"
	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Create(ctx context.Context, q *question.Question) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *Repository) Get(ctx context.Context, id uuid.UUID) (*question.Question, error) {
	args := m.Called(ctx, id)
	var q *question.Question
	if args.Get(0) != nil {
		q = args.Get(0).(*question.Question)
	}
	return q, args.Error(1)
}

func (m *Repository) List(ctx context.Context, offset, limit int) ([]question.Question, error) {
	args := m.Called(ctx, offset, limit)
	var qs []question.Question
	if args.Get(0) != nil {
		qs = args.Get(0).([]question.Question)
	}
	return qs, args.Error(1)
}

func (m *Repository) Update(ctx context.Context, q *question.Question) error {
	args := m.Called(ctx, q)
	return args.Error(0)
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
