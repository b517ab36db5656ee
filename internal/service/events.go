package service

import (
	"context"
	"time"

	"github.com/santu/marketplace/pkg/logging"
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

const publishTimeout = 5 * time.Second

// publish never fails the caller; delivery problems are logged.
func publish(ctx context.Context, p EventPublisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("event_publish_error", "topic", topic, "type", event["type"], "error", err)
	}
}
