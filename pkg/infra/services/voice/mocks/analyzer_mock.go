package mocks

import (
	"context"

	"github.com/memorylane/dailyquestion/pkg/infra/services/voice"
	"github.com/stretchr/testify/mock"
)

type Analyzer struct {
	mock.Mock
}

func (m *Analyzer) Analyze(ctx context.Context, req voice.Request) (*voice.Analysis, error) {
	args := m.Called(ctx, req)
	var a *voice.Analysis
	if args.Get(0) != nil {
		a = args.Get(0).(*voice.Analysis)
	}
	return a, args.Error(1)
}

func NewAnalyzer(t interface {
	mock.TestingT
	Cleanup(func())
}) *Analyzer {
	m := &Analyzer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
