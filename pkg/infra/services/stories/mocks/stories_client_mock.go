package mocks

import (
	"context"

	"github.com/memorylane/dailyquestion/pkg/infra/services/stories"
	"github.com/stretchr/testify/mock"
)

type Client struct {
	mock.Mock
}

func (m *Client) RecentStories(ctx context.Context, userID int64, limit int) ([]stories.Story, error) {
	args := m.Called(ctx, userID, limit)
	var s []stories.Story
	if args.Get(0) != nil {
		s = args.Get(0).([]stories.Story)
	}
	return s, args.Error(1)
}

func NewClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *Client {
	m := &Client{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
