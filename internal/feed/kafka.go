package feed

import (
	"context"
	"time"

	"swizzle-client/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaSource consumes push events from the order events topic. It is the
// primary transport; the Redis source covers deployments without a broker.
type KafkaSource struct {
	reader     *kafka.Reader
	dispatcher *Dispatcher
	logger     *zap.Logger
}

// NewKafkaSource creates a consumer on the given topic and group.
func NewKafkaSource(brokers []string, topic, groupID string, dispatcher *Dispatcher) *KafkaSource {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})

	return &KafkaSource{
		reader:     reader,
		dispatcher: dispatcher,
		logger:     util.GetLogger(),
	}
}

// Run consumes until the context is cancelled. Handler errors are logged
// and the message is committed anyway: the board tolerates gaps, and a
// poison message must not wedge the whole feed.
func (s *KafkaSource) Run(ctx context.Context) error {
	s.logger.Info("Starting Kafka feed source",
		zap.String("topic", s.reader.Config().Topic))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Kafka feed source stopping")
			return ctx.Err()
		default:
			msg, err := s.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Error("Error fetching message", zap.Error(err))
				time.Sleep(time.Second)
				continue
			}

			if err := s.dispatcher.HandleRaw(msg.Value); err != nil {
				s.logger.Error("Error handling message", zap.Error(err))
			}

			if err := s.reader.CommitMessages(ctx, msg); err != nil {
				s.logger.Error("Error committing message", zap.Error(err))
			}
		}
	}
}

// Close closes the underlying reader.
func (s *KafkaSource) Close() error {
	return s.reader.Close()
}
