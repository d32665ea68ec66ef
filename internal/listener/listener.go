// Package listener feeds click events from the message bus into the event service.
package listener

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"shortly-analytics/internal/bus"
	"shortly-analytics/internal/logging"
	"shortly-analytics/internal/metrics"
	"shortly-analytics/internal/models"
	"shortly-analytics/internal/service"
)

// Listener consumes one topic for the lifetime of its context. A bad message is
// logged and skipped; it never ends the subscription.
type Listener struct {
	subscriber bus.Subscriber
	events     service.EventService
	topic      string
	log        zerolog.Logger
}

func New(subscriber bus.Subscriber, events service.EventService, topic string) *Listener {
	return &Listener{
		subscriber: subscriber,
		events:     events,
		topic:      topic,
		log:        logging.Component("listener"),
	}
}

// Start runs the listener in the background. The returned channel is closed once
// Run has returned, after any in-flight event has finished processing.
func (l *Listener) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := l.Run(ctx); err != nil {
			l.log.Error().Err(err).Str("topic", l.topic).Msg("Click feed listener stopped")
		}
	}()
	return done
}

// Run subscribes and blocks until ctx is cancelled or the subscription closes.
// There is no reconnect: when the bus goes away, clicks arrive over HTTP only.
func (l *Listener) Run(ctx context.Context) error {
	messages, err := l.subscriber.Subscribe(ctx, l.topic)
	if err != nil {
		return err
	}
	l.log.Info().Str("topic", l.topic).Msg("Subscribed to click events")

	for {
		select {
		case <-ctx.Done():
			return nil
		case payload, ok := <-messages:
			if !ok {
				l.log.Warn().Str("topic", l.topic).Msg("Subscription closed")
				return nil
			}
			if err := l.handle(ctx, payload); err != nil {
				l.log.Error().Err(err).Str("payload", truncate(payload, 256)).Msg("Error processing bus event")
			}
		}
	}
}

func (l *Listener) handle(ctx context.Context, payload []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing event: %v", r)
		}
	}()

	var event models.ClickEventRequest
	if err := json.Unmarshal(payload, &event); err != nil {
		metrics.RecordClickEvent(service.SourceFeed, metrics.OutcomeInvalid)
		return fmt.Errorf("malformed event payload: %w", err)
	}
	return l.events.ProcessClick(ctx, service.SourceFeed, &event)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
