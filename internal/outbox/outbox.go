package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/alexandernizov/messageboard/internal/domain"
	"github.com/alexandernizov/messageboard/internal/pkg/logger/sl"
)

var (
	ErrNoConnection = errors.New("can't establish connection to kafka")
	ErrNotPublished = errors.New("event was not published")
)

type Publisher struct {
	log      *slog.Logger
	producer sarama.SyncProducer
	topic    string
}

type ConnectOptions struct {
	Brokers []string
	Topic   string
	Timeout time.Duration
}

// MessageCreatedEvent is the payload written to the topic for every stored
// message, keyed by message id.
type MessageCreatedEvent struct {
	Type    string         `json:"type"`
	Message domain.Message `json:"message"`
}

const eventMessageCreated = "message.created"

func New(log *slog.Logger, producer sarama.SyncProducer, topic string) *Publisher {
	if topic == "" {
		topic = domain.MessageTopic
	}
	return &Publisher{log: log, producer: producer, topic: topic}
}

// maxPublishTimeout bounds how long a create request can wait on the broker.
const maxPublishTimeout = 2 * time.Second

func NewWithOptions(log *slog.Logger, opt ConnectOptions) (*Publisher, error) {
	producer, err := sarama.NewSyncProducer(opt.Brokers, producerConfig(opt))
	if err != nil {
		return nil, fmt.Errorf("can't connect to Kafka: %w", ErrNoConnection)
	}
	return New(log, producer, opt.Topic), nil
}

// producerConfig sends each event once: publishing runs inside the request
// and a lost event is only logged.
func producerConfig(opt ConnectOptions) *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 0
	cfg.Metadata.Retry.Max = 0

	timeout := maxPublishTimeout
	if opt.Timeout > 0 {
		cfg.Net.DialTimeout = opt.Timeout
		timeout = min(opt.Timeout, maxPublishTimeout)
	}
	cfg.Producer.Timeout = timeout
	cfg.Net.ReadTimeout = timeout
	cfg.Net.WriteTimeout = timeout
	return cfg
}

func (p *Publisher) MessageCreated(ctx context.Context, message domain.Message) error {
	const op = "outbox.MessageCreated"
	log := p.log.With(slog.String("op", op))

	value, err := json.Marshal(MessageCreatedEvent{Type: eventMessageCreated, Message: message})
	if err != nil {
		log.Error("can't marshal event", sl.Err(err))
		return fmt.Errorf("%s: %w", op, ErrNotPublished)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(message.ID),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		log.Warn("failed to deliver message", slog.String("topic", p.topic), sl.Err(err))
		return fmt.Errorf("%s: %w", op, ErrNotPublished)
	}

	log.Debug("produced event to topic",
		slog.String("topic", p.topic),
		slog.Int("partition", int(partition)),
		slog.Int64("offset", offset),
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}
