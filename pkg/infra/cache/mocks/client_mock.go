package mocks

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/memorylane/dailyquestion/pkg/domain/embedding"
	"github.com/memorylane/dailyquestion/pkg/infra/cache"
	"github.com/stretchr/testify/mock"
)

type Client struct {
	mock.Mock
}

func (m *Client) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *Client) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *Client) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *Client) RedisClient() *redis.Client {
	args := m.Called()
	var c *redis.Client
	if args.Get(0) != nil {
		c = args.Get(0).(*redis.Client)
	}
	return c
}

func (m *Client) CreateTTLMap(name string, ttl time.Duration) *cache.TTLMap {
	args := m.Called(name, ttl)
	var tm *cache.TTLMap
	if args.Get(0) != nil {
		tm = args.Get(0).(*cache.TTLMap)
	}
	return tm
}

func (m *Client) GetTTLMap(name string) *cache.TTLMap {
	args := m.Called(name)
	var tm *cache.TTLMap
	if args.Get(0) != nil {
		tm = args.Get(0).(*cache.TTLMap)
	}
	return tm
}

func (m *Client) GetEmbedding(ctx context.Context, key string) (embedding.Vector, error) {
	args := m.Called(ctx, key)
	var v embedding.Vector
	if args.Get(0) != nil {
		v = args.Get(0).(embedding.Vector)
	}
	return v, args.Error(1)
}

func (m *Client) SaveEmbedding(ctx context.Context, key string, vec embedding.Vector, ttl time.Duration) error {
	args := m.Called(ctx, key, vec, ttl)
	return args.Error(0)
}

func (m *Client) GetDailyQuestionID(ctx context.Context, userID int64, day time.Time) (uuid.UUID, error) {
	args := m.Called(ctx, userID, day)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *Client) SaveDailyQuestionID(ctx context.Context, userID int64, day time.Time, questionID uuid.UUID) error {
	args := m.Called(ctx, userID, day, questionID)
	return args.Error(0)
}

func (m *Client) DeleteDailyQuestionID(ctx context.Context, userID int64, day time.Time) error {
	args := m.Called(ctx, userID, day)
	return args.Error(0)
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
