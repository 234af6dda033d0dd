package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/memorylane/dailyquestion/pkg/domain/events"
	"github.com/memorylane/dailyquestion/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

const flushTimeoutMs = 5000

type Config struct {
	Host  string
	Port  int
	Topic string
}

// producer is the part of *kafka.Producer the publisher uses.
type producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Events() chan kafka.Event
	Flush(timeoutMs int) int
	Close()
}

type Publisher struct {
	producer producer
	topic    string
	logger   *logrus.Logger
	done     chan struct{}
	once     sync.Once
}

func NewPublisher(cfg Config, logger *logrus.Logger) (*Publisher, error) {
	if cfg.Host == "" {
		return nil, errors.New("kafka host is required")
	}
	if cfg.Topic == "" {
		cfg.Topic = events.ScoreUpdatesTopic
	}
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		"acks":              "all",
		"linger.ms":         5,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return newPublisher(p, cfg.Topic, logger), nil
}

func newPublisher(p producer, topic string, logger *logrus.Logger) *Publisher {
	pub := &Publisher{
		producer: p,
		topic:    topic,
		logger:   logger,
		done:     make(chan struct{}),
	}
	go pub.deliveryReports()
	return pub
}

// PublishScoreUpdate keys the message by user_id so one user's updates stay
// ordered within a partition.
func (p *Publisher) PublishScoreUpdate(_ context.Context, evt events.ScoreUpdateEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	err = p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Key:            []byte(strconv.FormatInt(evt.UserID, 10)),
		Value:          data,
	}, nil)
	if err != nil {
		prometheus.EventPublishFailures.WithLabelValues(p.topic).Inc()
		return fmt.Errorf("failed to produce message: %w", err)
	}
	return nil
}

func (p *Publisher) deliveryReports() {
	for {
		select {
		case <-p.done:
			return
		case e, ok := <-p.producer.Events():
			if !ok {
				return
			}
			switch ev := e.(type) {
			case *kafka.Message:
				fields := logrus.Fields{
					"topic": p.topic,
					"key":   string(ev.Key),
				}
				if ev.TopicPartition.Error != nil {
					prometheus.EventPublishFailures.WithLabelValues(p.topic).Inc()
					p.logger.WithFields(fields).WithError(ev.TopicPartition.Error).Error("score update delivery failed")
					continue
				}
				fields["partition"] = ev.TopicPartition.Partition
				fields["offset"] = ev.TopicPartition.Offset.String()
				p.logger.WithFields(fields).Debug("score update delivered")
			case kafka.Error:
				p.logger.WithError(ev).Warn("kafka producer error")
			}
		}
	}
}

func (p *Publisher) Close() {
	p.once.Do(func() {
		if remaining := p.producer.Flush(flushTimeoutMs); remaining > 0 {
			p.logger.WithField("remaining", remaining).Warn("kafka flush timed out")
		}
		close(p.done)
		p.producer.Close()
	})
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct {
	logger *logrus.Logger
}

func NewNoopPublisher(logger *logrus.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger}
}

func (n *NoopPublisher) PublishScoreUpdate(_ context.Context, evt events.ScoreUpdateEvent) error {
	n.logger.WithFields(logrus.Fields{
		"user_id":   evt.UserID,
		"answer_id": evt.AnswerID,
	}).Debug("kafka disabled, score update dropped")
	return nil
}

func (n *NoopPublisher) Close() {}
