package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/portfolio-cms/internal/events"
)

// emit publishes event when a dispatcher is configured. Publication never
// fails the calling operation.
func emit(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("publish event", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
