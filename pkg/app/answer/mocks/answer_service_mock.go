package mocks

import (
	"context"

	"github.com/google/uuid"
	domainAnswer "github.com/memorylane/dailyquestion/pkg/domain/answer"
	"github.com/memorylane/dailyquestion/pkg/handlers/http/request"
	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

func (m *Service) SubmitVoiceAnswer(ctx context.Context, req *request.VoiceAnswerRequest) (*domainAnswer.Answer, error) {
	args := m.Called(ctx, req)
	return answerOrNil(args.Get(0)), args.Error(1)
}

func (m *Service) SubmitTextAnswer(ctx context.Context, req *request.TextAnswerRequest) (*domainAnswer.Answer, error) {
	args := m.Called(ctx, req)
	return answerOrNil(args.Get(0)), args.Error(1)
}

func (m *Service) Get(ctx context.Context, id uuid.UUID) (*domainAnswer.Answer, error) {
	args := m.Called(ctx, id)
	return answerOrNil(args.Get(0)), args.Error(1)
}

func (m *Service) ListByUser(ctx context.Context, userID int64, filter domainAnswer.ListFilter) ([]domainAnswer.Answer, error) {
	args := m.Called(ctx, userID, filter)
	var as []domainAnswer.Answer
	if args.Get(0) != nil {
		as = args.Get(0).([]domainAnswer.Answer)
	}
	return as, args.Error(1)
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

func answerOrNil(v interface{}) *domainAnswer.Answer {
	if v == nil {
		return nil
	}
	return v.(*domainAnswer.Answer)
}
