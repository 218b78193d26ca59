package ports

import (
	"context"
	"time"

	eventsdomain "bot-analytics-service/internal/events/core/domain"
)

// EventSourcePort reads the recorder's stored output. Scope narrows the
// query: empty WorkspaceID/ChannelID fields match all rows, they do not
// filter for "unset".
type EventSourcePort interface {
	QueryEvents(ctx context.Context, scope eventsdomain.Scope, from, to time.Time) ([]eventsdomain.Event, error)

	// ListActiveTenants returns the tenants with at least one event in the
	// window, for the batch driver.
	ListActiveTenants(ctx context.Context, from, to time.Time) ([]string, error)

	// ListActiveChannels returns the distinct non-empty channel ids a tenant
	// produced events on within the window.
	ListActiveChannels(ctx context.Context, tenantID string, from, to time.Time) ([]string, error)
}
