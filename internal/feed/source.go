package feed

import "context"

// Source is a push-channel transport. It delivers raw event payloads to
// its dispatcher until the context is cancelled.
type Source interface {
	Run(ctx context.Context) error
}

var (
	_ Source = (*KafkaSource)(nil)
	_ Source = (*RedisSource)(nil)
)
