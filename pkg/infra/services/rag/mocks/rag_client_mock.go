package mocks

import (
	"context"

	"github.com/memorylane/dailyquestion/pkg/infra/services/rag"
	"github.com/stretchr/testify/mock"
)

type Client struct {
	mock.Mock
}

func (m *Client) Retrieve(ctx context.Context, userID int64, query string, topK int) ([]rag.Passage, error) {
	args := m.Called(ctx, userID, query, topK)
	var p []rag.Passage
	if args.Get(0) != nil {
		p = args.Get(0).([]rag.Passage)
	}
	return p, args.Error(1)
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
