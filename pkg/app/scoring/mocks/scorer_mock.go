package mocks

import (
	"context"

	"github.com/memorylane/dailyquestion/pkg/app/scoring"
	"github.com/stretchr/testify/mock"
)

type Scorer struct {
	mock.Mock
}

func (m *Scorer) ScoreAnswer(ctx context.Context, question scoring.Question, answerText string) scoring.Result {
	args := m.Called(ctx, question, answerText)
	return args.Get(0).(scoring.Result)
}

func NewScorer(t interface {
	mock.TestingT
	Cleanup(func())
}) *Scorer {
	m := &Scorer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
