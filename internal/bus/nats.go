package bus

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

type natsSubscriber struct {
	conn *nats.Conn
}

// NewNATSSubscriber connects to a NATS server; topics map to subjects.
func NewNATSSubscriber(natsURL string) (Subscriber, error) {
	conn, err := nats.Connect(natsURL,
		nats.Name("shortly-analytics"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &natsSubscriber{conn: conn}, nil
}

func (n *natsSubscriber) Subscribe(ctx context.Context, topic string) (<-chan []byte, error) {
	msgs := make(chan *nats.Msg, 64)
	sub, err := n.conn.ChanSubscribe(topic, msgs)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %q: %w", topic, err)
	}
	if err := n.conn.FlushTimeout(5 * time.Second); err != nil {
		sub.Unsubscribe()
		return nil, fmt.Errorf("failed to confirm subscription to %q: %w", topic, err)
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		defer sub.Unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				select {
				case out <- msg.Data:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (n *natsSubscriber) Close() error {
	n.conn.Close()
	return nil
}
