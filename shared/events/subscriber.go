package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type Handler func(ctx context.Context, event Event) error

type Subscriber struct {
	client        *redis.Client
	group         string
	consumer      string
	stream        string
	handler       Handler
	batchSize     int64
	blockDuration time.Duration
	retryInterval time.Duration
}

type SubscriberConfig struct {
	Group         string
	Consumer      string
	Stream        string
	Handler       Handler
	BatchSize     int64
	BlockDuration time.Duration
	// RetryInterval is how often messages this consumer failed to handle
	// are read back from the pending list.
	RetryInterval time.Duration
}

var errInvalidMessage = errors.New("invalid message format")

func NewSubscriber(client *redis.Client, config SubscriberConfig) *Subscriber {
	if config.BatchSize == 0 {
		config.BatchSize = 10
	}
	if config.BlockDuration == 0 {
		config.BlockDuration = 5 * time.Second
	}
	if config.RetryInterval == 0 {
		config.RetryInterval = 30 * time.Second
	}

	return &Subscriber{
		client:        client,
		group:         config.Group,
		consumer:      config.Consumer,
		stream:        config.Stream,
		handler:       config.Handler,
		batchSize:     config.BatchSize,
		blockDuration: config.BlockDuration,
		retryInterval: config.RetryInterval,
	}
}

// Start consumes the stream until ctx is cancelled.
func (s *Subscriber) Start(ctx context.Context) error {
	if err := s.ensureGroup(ctx); err != nil {
		return err
	}

	logger := log.With().Str("stream", s.stream).Str("group", s.group).Str("consumer", s.consumer).Logger()
	logger.Info().Msg("subscriber started")

	// Entries left unacked by a previous run are retried before new ones.
	var lastRetry time.Time
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("subscriber stopping")
			return ctx.Err()
		default:
			if time.Since(lastRetry) >= s.retryInterval {
				if err := s.readPending(ctx); err != nil && ctx.Err() == nil {
					logger.Error().Err(err).Msg("error reading pending messages")
				}
				lastRetry = time.Now()
			}
			if err := s.readMessages(ctx); err != nil {
				if ctx.Err() != nil {
					continue
				}
				logger.Error().Err(err).Msg("error reading messages")
				time.Sleep(time.Second)
			}
		}
	}
}

func (s *Subscriber) ensureGroup(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, s.stream, s.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	return nil
}

func (s *Subscriber) readMessages(ctx context.Context) error {
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.group,
		Consumer: s.consumer,
		Streams:  []string{s.stream, ">"},
		Count:    s.batchSize,
		Block:    s.blockDuration,
	}).Result()

	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read from stream: %w", err)
	}

	for _, stream := range streams {
		s.handleMessages(ctx, stream.Messages)
	}
	return nil
}

// readPending redelivers the messages this consumer read but never acked,
// walking its pending list once in batches.
func (s *Subscriber) readPending(ctx context.Context) error {
	cursor := "0"
	for {
		streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    s.group,
			Consumer: s.consumer,
			Streams:  []string{s.stream, cursor},
			Count:    s.batchSize,
			Block:    -1,
		}).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read pending messages: %w", err)
		}

		var messages []redis.XMessage
		for _, stream := range streams {
			messages = append(messages, stream.Messages...)
		}
		if len(messages) == 0 {
			return nil
		}
		s.handleMessages(ctx, messages)
		cursor = messages[len(messages)-1].ID
	}
}

func (s *Subscriber) handleMessages(ctx context.Context, messages []redis.XMessage) {
	for _, message := range messages {
		if err := s.processMessage(ctx, message); err != nil {
			// Unacked messages stay pending for a retry.
			log.Error().Err(err).Str("message_id", message.ID).Msg("failed to process message")
			continue
		}

		if err := s.client.XAck(ctx, s.stream, s.group, message.ID).Err(); err != nil {
			log.Error().Err(err).Str("message_id", message.ID).Msg("failed to ack message")
		}
	}
}

func (s *Subscriber) processMessage(ctx context.Context, message redis.XMessage) error {
	eventData, ok := message.Values["event"].(string)
	if !ok {
		return errInvalidMessage
	}

	var event Event
	if err := json.Unmarshal([]byte(eventData), &event); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return s.handler(ctx, event)
}
