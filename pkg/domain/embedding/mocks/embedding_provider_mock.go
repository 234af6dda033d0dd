package mocks

import (
	"context"

	"github.com/memorylane/dailyquestion/pkg/domain/embedding"
	"github.com/stretchr/testify/mock"
)

type Provider struct {
	mock.Mock
}

func (m *Provider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *Provider) Embed(ctx context.Context, text string, dimensions int) (embedding.Vector, error) {
	args := m.Called(ctx, text, dimensions)
	var v embedding.Vector
	if args.Get(0) != nil {
		v = args.Get(0).(embedding.Vector)
	}
	return v, args.Error(1)
}

func NewProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *Provider {
	m := &Provider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
