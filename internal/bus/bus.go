// Package bus connects to the message bus carrying click events.
package bus

import (
	"context"
	"strings"
)

// Subscriber delivers raw payloads published to a topic. The returned channel is
// closed when ctx is cancelled or the underlying subscription ends.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan []byte, error)
	Close() error
}

// Connect picks the bus implementation from the URL scheme and verifies the
// connection. nats:// selects NATS; redis://, rediss:// and bare host:port select Redis.
func Connect(ctx context.Context, busURL string) (Subscriber, error) {
	if strings.HasPrefix(busURL, "nats://") || strings.HasPrefix(busURL, "tls://") {
		return NewNATSSubscriber(busURL)
	}
	return NewRedisSubscriber(ctx, busURL)
}
