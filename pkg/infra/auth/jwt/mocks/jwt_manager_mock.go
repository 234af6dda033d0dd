package mocks

import (
	"time"

	"github.com/memorylane/dailyquestion/pkg/infra/auth/jwt"
	"github.com/stretchr/testify/mock"
)

type Manager struct {
	mock.Mock
}

func (m *Manager) CreateToken(subject string, role string, ttl time.Duration) (string, error) {
	args := m.Called(subject, role, ttl)
	return args.String(0), args.Error(1)
}

func (m *Manager) ValidateToken(tokenString string) (*jwt.Claims, error) {
	args := m.Called(tokenString)
	return claimsOrNil(args.Get(0)), args.Error(1)
}

func (m *Manager) ValidateAdmin(tokenString string) (*jwt.Claims, error) {
	args := m.Called(tokenString)
	return claimsOrNil(args.Get(0)), args.Error(1)
}

func NewManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *Manager {
	m := &Manager{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func claimsOrNil(v interface{}) *jwt.Claims {
	if v == nil {
		return nil
	}
	return v.(*jwt.Claims)
}
