package mocks

import (
	"context"

	"github.com/memorylane/dailyquestion/pkg/infra/providers"
	"github.com/stretchr/testify/mock"
)

type Client struct {
	mock.Mock
}

func (m *Client) Ask(ctx context.Context, config *providers.Config, prompt string) (*providers.CompletionResponse, error) {
	args := m.Called(ctx, config, prompt)
	var resp *providers.CompletionResponse
	if args.Get(0) != nil {
		resp = args.Get(0).(*providers.CompletionResponse)
	}
	return resp, args.Error(1)
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
