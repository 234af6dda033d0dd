package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/google/uuid"
	"github.com/memorylane/dailyquestion/pkg/domain/events"
	"github.com/memorylane/dailyquestion/pkg/infra/logger"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	mu       sync.Mutex
	messages []*kafka.Message
	events   chan kafka.Event
	err      error
	flushed  bool
	closed   bool
}

func newFakeProducer() *fakeProducer {
	return &fakeProducer{events: make(chan kafka.Event, 8)}
}

func (f *fakeProducer) Produce(msg *kafka.Message, _ chan kafka.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeProducer) Events() chan kafka.Event { return f.events }

func (f *fakeProducer) Flush(int) int {
	f.flushed = true
	return 0
}

func (f *fakeProducer) Close() { f.closed = true }

func TestPublishScoreUpdate_KeyedByUser(t *testing.T) {
	fp := newFakeProducer()
	pub := newPublisher(fp, events.ScoreUpdatesTopic, logger.NewNopLogger())
	defer pub.Close()

	score := 81.25
	evt := events.ScoreUpdateEvent{
		UserID:        42,
		AnswerID:      uuid.New(),
		QuestionID:    uuid.New(),
		SemanticScore: &score,
		ScoringStatus: "scored",
		Timestamp:     time.Date(2025, 7, 11, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, pub.PublishScoreUpdate(context.Background(), evt))

	require.Len(t, fp.messages, 1)
	msg := fp.messages[0]
	assert.Equal(t, "42", string(msg.Key))
	assert.Equal(t, events.ScoreUpdatesTopic, *msg.TopicPartition.Topic)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.EqualValues(t, 42, payload["user_id"])
	assert.Equal(t, 81.25, payload["semantic_score"])
	assert.Nil(t, payload["cognitive_score"])
	assert.Contains(t, payload, "cognitive_score")
	assert.Equal(t, "scored", payload["scoring_status"])
}

func TestPublishScoreUpdate_ProduceError(t *testing.T) {
	fp := newFakeProducer()
	fp.err = errors.New("queue full")
	pub := newPublisher(fp, "t", logger.NewNopLogger())
	defer pub.Close()

	err := pub.PublishScoreUpdate(context.Background(), events.ScoreUpdateEvent{UserID: 1})
	assert.ErrorContains(t, err, "queue full")
}

func TestDeliveryFailureIsLogged(t *testing.T) {
	log, hook := test.NewNullLogger()
	fp := newFakeProducer()
	pub := newPublisher(fp, "t", log)

	topic := "t"
	fp.events <- &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Error: errors.New("broker down")},
		Key:            []byte("7"),
	}

	assert.Eventually(t, func() bool {
		for _, e := range hook.AllEntries() {
			if e.Level == logrus.ErrorLevel && e.Message == "score update delivery failed" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)

	pub.Close()
	assert.True(t, fp.flushed)
	assert.True(t, fp.closed)
}

func TestNewPublisher_RequiresHost(t *testing.T) {
	_, err := NewPublisher(Config{}, logger.NewNopLogger())
	assert.Error(t, err)
}
