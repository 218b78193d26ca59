package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bot-analytics-service/internal/events/core/domain"
	"bot-analytics-service/internal/events/core/ports"
)

type EventRepository struct {
	db DB
}

func NewEventRepository(db DB) *EventRepository {
	return &EventRepository{db: db}
}

var _ ports.EventWriterPort = (*EventRepository)(nil)
var _ ports.EventRetentionPort = (*EventRepository)(nil)

// Optional scope fields are stored as empty strings rather than NULLs so the
// composite uniqueness on (tenant, workspace, channel, window) in the
// aggregate tables behaves the same way here.
const eventColumns = `
    id,
    tenant_id,
    workspace_id,
    channel_id,
    kind,
    occurred_at,
    response_time_ms,
    input_tokens,
    output_tokens,
    cost,
    user_id,
    model,
    detail`

const insertEventSQL = `
INSERT INTO bot_events (` + eventColumns + `
) VALUES (
    $1, $2, $3, $4, $5, $6,
    $7, $8, $9, $10, $11, $12, $13
);
`

func (r *EventRepository) AppendEvent(ctx context.Context, e *domain.Event) error {
	_, err := r.db.ExecContext(ctx, insertEventSQL, eventArgs(e)...)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *EventRepository) AppendEventsBatch(ctx context.Context, events []*domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	const fieldsPerRow = 13

	var sb strings.Builder
	sb.WriteString("INSERT INTO bot_events (" + eventColumns + "\n) VALUES ")

	args := make([]any, 0, len(events)*fieldsPerRow)
	for i, e := range events {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for f := 0; f < fieldsPerRow; f++ {
			if f > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*fieldsPerRow+f+1)
		}
		sb.WriteString(")")
		args = append(args, eventArgs(e)...)
	}
	sb.WriteString(";")

	if _, err := r.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert event batch: %w", err)
	}
	return nil
}

const deleteEventsBeforeSQL = `
DELETE FROM bot_events WHERE occurred_at < $1;
`

func (r *EventRepository) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteEventsBeforeSQL, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete events: %w", err)
	}
	return res.RowsAffected()
}

func eventArgs(e *domain.Event) []any {
	var responseTime any
	if e.ResponseTimeMs != nil {
		responseTime = *e.ResponseTimeMs
	}

	return []any{
		e.ID.String(),
		e.Scope.TenantID,
		e.Scope.WorkspaceID,
		e.Scope.ChannelID,
		string(e.Kind),
		e.OccurredAt,
		responseTime,
		e.InputTokens,
		e.OutputTokens,
		e.Cost,
		e.Meta.UserID,
		e.Meta.Model,
		e.Meta.Detail,
	}
}
