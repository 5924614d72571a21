package feed

import (
	"context"

	"swizzle-client/internal/redisclient"
	"swizzle-client/internal/util"

	"go.uber.org/zap"
)

// OrderEventsChannel is the pub/sub channel carrying push events.
const OrderEventsChannel = "order-events"

// RedisSource consumes push events from a Redis pub/sub channel. Fire and
// forget: messages published while disconnected are gone, which is fine
// because the board re-seeds from the REST list on reconnect.
type RedisSource struct {
	client     *redisclient.Client
	channel    string
	dispatcher *Dispatcher
	logger     *zap.Logger
}

// NewRedisSource creates a pub/sub source on the given channel.
func NewRedisSource(client *redisclient.Client, channel string, dispatcher *Dispatcher) *RedisSource {
	return &RedisSource{
		client:     client,
		channel:    channel,
		dispatcher: dispatcher,
		logger:     util.GetLogger(),
	}
}

// Run consumes until the context is cancelled.
func (s *RedisSource) Run(ctx context.Context) error {
	sub := s.client.Subscribe(ctx, s.channel)
	defer sub.Close()

	s.logger.Info("Starting Redis feed source", zap.String("channel", s.channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Redis feed source stopping")
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := s.dispatcher.HandleRaw([]byte(msg.Payload)); err != nil {
				s.logger.Error("Error handling message", zap.Error(err))
			}
		}
	}
}
