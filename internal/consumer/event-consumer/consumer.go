package consumer

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	v1 "github.com/muhammadchandra19/ome/domain/event-consumer/v1"
	journalDomain "github.com/muhammadchandra19/ome/domain/journal"
	"github.com/muhammadchandra19/ome/pkg/config"
	"github.com/muhammadchandra19/ome/pkg/errors"
	"github.com/muhammadchandra19/ome/pkg/logger"
)

// EventConsumer reads raw exchange events off Kafka and appends them to the
// journal. Offsets are committed only after the event is durably journaled;
// duplicates on redelivery are absorbed by the journal's id uniqueness.
type EventConsumer struct {
	config         config.ExchangeKafkaConfig
	journalUsecase journalDomain.Usecase
	logger         logger.Interface

	mu          sync.Mutex
	kafkaReader *kafka.Reader
	msgChan     chan kafka.Message
}

// NewEventConsumer creates a new EventConsumer.
func NewEventConsumer(
	config config.ExchangeKafkaConfig,
	journalUsecase journalDomain.Usecase,
	logger logger.Interface,
) *EventConsumer {
	return &EventConsumer{
		config:         config,
		journalUsecase: journalUsecase,
		logger:         logger,
	}
}

// session returns the reader and message channel for the current run. Stop
// closes the reader, so a restarted engine gets a fresh pair here.
func (c *EventConsumer) session() (*kafka.Reader, chan kafka.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kafkaReader == nil {
		c.kafkaReader = kafka.NewReader(kafka.ReaderConfig{
			Brokers:     c.config.Brokers,
			Topic:       c.config.Topic,
			GroupID:     c.config.ConsumerGroup,
			MinBytes:    1,
			MaxBytes:    10e6,
			StartOffset: kafka.LastOffset,
		})
		c.msgChan = make(chan kafka.Message)
	}

	return c.kafkaReader, c.msgChan
}

// Start starts reading from the topic until the context is cancelled or the
// reader is closed by Stop.
func (c *EventConsumer) Start(ctx context.Context) {
	reader, msgs := c.session()

	c.logger.InfoContext(ctx, "starting event consumer", logger.Field{
		Key:   "action",
		Value: "event_consumer_start",
	})

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || pkgerrors.Is(err, io.ErrClosedPipe) {
				c.logger.InfoContext(ctx, "event consumer reader closed", logger.Field{
					Key:   "action",
					Value: "event_consumer_stop",
				})
				return
			}
			c.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "action",
				Value: "read_message",
			})
			continue
		}

		select {
		case msgs <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// Stop closes the current reader. A later Start opens a new one.
func (c *EventConsumer) Stop() error {
	c.mu.Lock()
	reader := c.kafkaReader
	c.kafkaReader = nil
	c.mu.Unlock()

	c.logger.Info("stopping event consumer", logger.Field{
		Key:   "action",
		Value: "event_consumer_stop",
	})

	if reader == nil {
		return nil
	}
	return reader.Close()
}

// Subscribe drains the message channel, journaling each event, until the
// context is cancelled.
func (c *EventConsumer) Subscribe(ctx context.Context) {
	reader, msgs := c.session()

	c.logger.InfoContext(ctx, "subscribing to event consumer", logger.Field{
		Key:   "action",
		Value: "event_consumer_subscribe",
	})

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			var raw v1.RawExchangeEvent
			if err := json.Unmarshal(msg.Value, &raw); err != nil {
				c.logger.ErrorContext(ctx, err, logger.Field{
					Key:   "action",
					Value: "unmarshal_event",
				})
				continue
			}

			if err := c.handleEvent(ctx, &raw); err != nil {
				c.logger.ErrorContext(ctx, err, logger.Field{
					Key:   "action",
					Value: "handle_event",
				})
				continue
			}

			if err := reader.CommitMessages(ctx, msg); err != nil {
				c.logger.ErrorContext(ctx, err, logger.Field{
					Key:   "action",
					Value: "commit_message",
				})
			}
		}
	}
}

func (c *EventConsumer) handleEvent(ctx context.Context, raw *v1.RawExchangeEvent) error {
	event, err := raw.ToJournalEvent()
	if err != nil {
		return err
	}

	_, err = c.journalUsecase.Append(ctx, event)
	if err != nil {
		// Redelivered events are already journaled; committing the offset
		// is the correct outcome.
		if errors.ErrorCodeEquals(err, string(errors.DuplicateEventError)) {
			return nil
		}
		return err
	}

	return nil
}
