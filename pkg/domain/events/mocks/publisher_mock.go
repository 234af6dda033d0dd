package mocks

import (
	"context"

	"github.com/memorylane/dailyquestion/pkg/domain/events"
	"github.com/stretchr/testify/mock"
)

type Publisher struct {
	mock.Mock
}

func (m *Publisher) PublishScoreUpdate(ctx context.Context, evt events.ScoreUpdateEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func (m *Publisher) Close() {
	m.Called()
}

func NewPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *Publisher {
	m := &Publisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
