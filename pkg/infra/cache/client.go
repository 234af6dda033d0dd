package cache

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/memorylane/dailyquestion/pkg/domain/embedding"
	"github.com/sirupsen/logrus"
)

const (
	EmbeddingKeyPattern     = "embedding:%s"
	DailyQuestionKeyPattern = "daily_question:%d:%s"

	UserTTLName = "user"

	dayLayout = "2006-01-02"
)

var ErrCacheMiss = errors.New("cache miss")

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=client_mock.go --case=underscore --with-expecter
type Client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	RedisClient() *redis.Client
	CreateTTLMap(name string, ttl time.Duration) *TTLMap
	GetTTLMap(name string) *TTLMap

	GetEmbedding(ctx context.Context, key string) (embedding.Vector, error)
	SaveEmbedding(ctx context.Context, key string, vec embedding.Vector, ttl time.Duration) error
	GetDailyQuestionID(ctx context.Context, userID int64, day time.Time) (uuid.UUID, error)
	SaveDailyQuestionID(ctx context.Context, userID int64, day time.Time, questionID uuid.UUID) error
	DeleteDailyQuestionID(ctx context.Context, userID int64, day time.Time) error
}

type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	TLS      bool
}

type client struct {
	redisClient *redis.Client
	ttlMaps     sync.Map
	now         func() time.Time
}

func NewClient(config Config, logger *logrus.Logger) (Client, error) {
	options := &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	}
	if config.TLS {
		options.TLSConfig = &tls.Config{
			InsecureSkipVerify: true, // #nosec G402
		}
	}
	redisClient := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.WithFields(logrus.Fields{
			"host":  config.Host,
			"port":  config.Port,
			"error": err.Error(),
		}).Error("failed to connect to redis")
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"host": config.Host,
		"port": config.Port,
	}).Info("redis connected successfully")

	return NewClientFromRedis(redisClient), nil
}

// NewClientFromRedis wraps an existing connection without pinging it.
func NewClientFromRedis(redisClient *redis.Client) Client {
	return &client{
		redisClient: redisClient,
		now:         time.Now,
	}
}

func (c *client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.redisClient.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (c *client) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.redisClient.Set(ctx, key, value, expiration).Err()
}

func (c *client) Delete(ctx context.Context, key string) error {
	return c.redisClient.Del(ctx, key).Err()
}

func (c *client) RedisClient() *redis.Client {
	return c.redisClient
}

func (c *client) CreateTTLMap(name string, ttl time.Duration) *TTLMap {
	ttlMap := NewTTLMap(ttl)
	c.ttlMaps.Store(name, ttlMap)
	return ttlMap
}

func (c *client) GetTTLMap(name string) *TTLMap {
	if value, ok := c.ttlMaps.Load(name); ok {
		if ttlMap, ok := value.(*TTLMap); ok {
			return ttlMap
		}
	}
	return nil
}

func (c *client) GetEmbedding(ctx context.Context, key string) (embedding.Vector, error) {
	raw, err := c.redisClient.Get(ctx, fmt.Sprintf(EmbeddingKeyPattern, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return decodeVector(raw)
}

func (c *client) SaveEmbedding(ctx context.Context, key string, vec embedding.Vector, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.redisClient.Set(ctx, fmt.Sprintf(EmbeddingKeyPattern, key), encodeVector(vec), ttl).Err()
}

func (c *client) GetDailyQuestionID(ctx context.Context, userID int64, day time.Time) (uuid.UUID, error) {
	val, err := c.redisClient.Get(ctx, dailyQuestionKey(userID, day)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrCacheMiss
	}
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt daily question entry: %w", err)
	}
	return id, nil
}

// SaveDailyQuestionID keeps the entry until the end of day in day's location.
func (c *client) SaveDailyQuestionID(ctx context.Context, userID int64, day time.Time, questionID uuid.UUID) error {
	ttl := untilEndOfDay(c.now().In(day.Location()))
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.redisClient.Set(ctx, dailyQuestionKey(userID, day), questionID.String(), ttl).Err()
}

func (c *client) DeleteDailyQuestionID(ctx context.Context, userID int64, day time.Time) error {
	return c.redisClient.Del(ctx, dailyQuestionKey(userID, day)).Err()
}

func dailyQuestionKey(userID int64, day time.Time) string {
	return fmt.Sprintf(DailyQuestionKeyPattern, userID, day.Format(dayLayout))
}

func untilEndOfDay(now time.Time) time.Duration {
	y, m, d := now.Date()
	end := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	ttl := end.Sub(now)
	if ttl < time.Minute {
		ttl = time.Minute
	}
	return ttl
}
