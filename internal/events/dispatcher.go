package events

import (
	"context"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler) error
	// Wait blocks until in-flight asynchronous handlers finish.
	Wait()
}

// busDispatcher delivers events to subscribers asynchronously.
type busDispatcher struct {
	bus    evbus.Bus
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher backed by an in-process event bus.
func NewDispatcher(logger *zap.Logger) Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &busDispatcher{bus: evbus.New(), logger: logger}
}

// Publish fills in the id and timestamp and hands the event to subscribers.
// Handlers receive a context detached from the request's cancellation.
func (d *busDispatcher) Publish(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	d.bus.Publish(string(event.Type), context.WithoutCancel(ctx), event)
	return nil
}

// Subscribe registers an asynchronous handler for the given event type.
// Handler errors and panics are logged and do not reach the publisher.
func (d *busDispatcher) Subscribe(eventType EventType, handler EventHandler) error {
	logger := d.logger
	fn := func(ctx context.Context, event Event) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("event handler panic",
					zap.String("event_type", string(event.Type)),
					zap.Any("panic", r))
			}
		}()
		if err := handler(ctx, event); err != nil {
			logger.Warn("event handler failed",
				zap.String("event_type", string(event.Type)),
				zap.String("event_id", event.ID),
				zap.Error(err))
		}
	}
	return d.bus.SubscribeAsync(string(eventType), fn, false)
}

func (d *busDispatcher) Wait() {
	d.bus.WaitAsync()
}
