package ports

import (
	"context"

	"bot-analytics-service/internal/events/core/domain"
)

type EventWriterPort interface {
	AppendEvent(ctx context.Context, e *domain.Event) error

	// AppendEventsBatch persists all events in one storage operation.
	AppendEventsBatch(ctx context.Context, events []*domain.Event) error
}
