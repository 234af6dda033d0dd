package mocks

import (
	"context"

	"github.com/google/uuid"
	domainQuestion "github.com/memorylane/dailyquestion/pkg/domain/question"
	"github.com/memorylane/dailyquestion/pkg/handlers/http/request"
	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

func (m *Service) Create(ctx context.Context, req *request.CreateQuestionRequest) (*domainQuestion.Question, error) {
	args := m.Called(ctx, req)
	return questionOrNil(args.Get(0)), args.Error(1)
}

func (m *Service) Get(ctx context.Context, id uuid.UUID) (*domainQuestion.Question, error) {
	args := m.Called(ctx, id)
	return questionOrNil(args.Get(0)), args.Error(1)
}

func (m *Service) List(ctx context.Context, skip, limit int) ([]domainQuestion.Question, error) {
	args := m.Called(ctx, skip, limit)
	var qs []domainQuestion.Question
	if args.Get(0) != nil {
		qs = args.Get(0).([]domainQuestion.Question)
	}
	return qs, args.Error(1)
}

func (m *Service) Update(ctx context.Context, id uuid.UUID, req *request.UpdateQuestionRequest) (*domainQuestion.Question, error) {
	args := m.Called(ctx, id, req)
	return questionOrNil(args.Get(0)), args.Error(1)
}

func (m *Service) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func NewService(t interface {
	mock.TestingT
	Cleanup(func())
}) *Service {
	m := &Service{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func questionOrNil(v interface{}) *domainQuestion.Question {
	if v == nil {
		return nil
	}
	return v.(*domainQuestion.Question)
}
