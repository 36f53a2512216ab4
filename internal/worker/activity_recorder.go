package worker

import (
	"context"
	"fmt"

	"github.com/spec-kit/portfolio-cms/internal/events"
	"github.com/spec-kit/portfolio-cms/internal/service"
)

// StartActivityRecorder subscribes the activity log to every domain event.
// Events are persisted asynchronously; failures are logged by the dispatcher.
func StartActivityRecorder(dispatcher events.Dispatcher, activity *service.ActivityService) error {
	if dispatcher == nil || activity == nil {
		return nil
	}
	for _, eventType := range events.AllEventTypes {
		if err := dispatcher.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			return activity.Record(ctx, event)
		}); err != nil {
			return fmt.Errorf("subscribe %s: %w", eventType, err)
		}
	}
	return nil
}
