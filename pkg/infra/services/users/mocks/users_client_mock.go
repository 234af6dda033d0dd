package mocks

import (
	"context"

	"github.com/memorylane/dailyquestion/pkg/infra/services/users"
	"github.com/stretchr/testify/mock"
)

type Client struct {
	mock.Mock
}

func (m *Client) GetUser(ctx context.Context, userID int64) (*users.User, error) {
	args := m.Called(ctx, userID)
	var u *users.User
	if args.Get(0) != nil {
		u = args.Get(0).(*users.User)
	}
	return u, args.Error(1)
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
