package mocks

import (
	"github.com/memorylane/dailyquestion/pkg/infra/providers"
	"github.com/stretchr/testify/mock"
)

type ProviderLocator struct {
	mock.Mock
}

func (m *ProviderLocator) Get(provider string) (providers.Client, error) {
	args := m.Called(provider)
	var c providers.Client
	if args.Get(0) != nil {
		c = args.Get(0).(providers.Client)
	}
	return c, args.Error(1)
}

func NewProviderLocator(t interface {
	mock.TestingT
	Cleanup(func())
}) *ProviderLocator {
	m := &ProviderLocator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
