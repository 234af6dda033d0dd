package mocks

import (
	"context"

	domainQuestion "github.com/memorylane/dailyquestion/pkg/domain/question"
	"github.com/stretchr/testify/mock"
)

type DailyGenerator struct {
	mock.Mock
}

func (m *DailyGenerator) DailyQuestion(ctx context.Context, userID int64) (*domainQuestion.Question, error) {
	args := m.Called(ctx, userID)
	return questionOrNil(args.Get(0)), args.Error(1)
}

func NewDailyGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *DailyGenerator {
	m := &DailyGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
