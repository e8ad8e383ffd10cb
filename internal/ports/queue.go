package ports

import (
	"context"

	"whatsapp-campaign-engine/internal/domain"
)

// RunPublisher publishes run requests to the queue.
type RunPublisher interface {
	// Publish sends a single domain.RunRequest to the queue.
	Publish(ctx context.Context, req domain.RunRequest) error
}

// RunConsumer consumes run requests from the queue.
type RunConsumer interface {
	// Consume starts delivery of run requests; each is passed to the handler.
	// Blocks until ctx is cancelled or a fatal error occurs.
	Consume(ctx context.Context, handler func(ctx context.Context, req domain.RunRequest) error) error
}
