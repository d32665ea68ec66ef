package bus

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisSubscriber struct {
	client *redis.Client
}

// NewRedisSubscriber connects to Redis pub/sub. redisURL may be a redis:// URL or a
// plain host:port.
func NewRedisSubscriber(ctx context.Context, redisURL string) (Subscriber, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		// If URL parsing fails, try as simple host:port
		opt = &redis.Options{
			Addr: redisURL,
			DB:   0,
		}
	}

	client := redis.NewClient(opt)

	// Test connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisSubscriber{client: client}, nil
}

// Subscribe waits for the subscription confirmation, then forwards data messages.
// Confirmation and other control messages never reach the returned channel.
func (r *redisSubscriber) Subscribe(ctx context.Context, topic string) (<-chan []byte, error) {
	pubsub := r.client.Subscribe(ctx, topic)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %q: %w", topic, err)
	}

	out := make(chan []byte)
	go func() {
		defer pubsub.Close()
		forwardMessages(ctx, pubsub.Channel(), out)
	}()

	return out, nil
}

// forwardMessages copies data payloads to out until ctx ends or messages closes,
// then closes out.
func forwardMessages(ctx context.Context, messages <-chan *redis.Message, out chan<- []byte) {
	defer close(out)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			select {
			case out <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}
}

func (r *redisSubscriber) Close() error {
	return r.client.Close()
}
