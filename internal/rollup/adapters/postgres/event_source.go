package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	eventsdomain "bot-analytics-service/internal/events/core/domain"
	"bot-analytics-service/internal/rollup/core/ports"
)

type EventSource struct {
	db DB
}

func NewEventSource(db DB) *EventSource {
	return &EventSource{db: db}
}

var _ ports.EventSourcePort = (*EventSource)(nil)

func (s *EventSource) QueryEvents(ctx context.Context, scope eventsdomain.Scope, from, to time.Time) ([]eventsdomain.Event, error) {
	query := `
SELECT
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
    detail
FROM bot_events
WHERE tenant_id = $1 AND occurred_at >= $2 AND occurred_at < $3`

	args := []any{scope.TenantID, from, to}
	argIndex := 4

	if scope.WorkspaceID != "" {
		query += fmt.Sprintf(" AND workspace_id = $%d", argIndex)
		args = append(args, scope.WorkspaceID)
		argIndex++
	}
	if scope.ChannelID != "" {
		query += fmt.Sprintf(" AND channel_id = $%d", argIndex)
		args = append(args, scope.ChannelID)
		argIndex++
	}

	query += "\nORDER BY occurred_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []eventsdomain.Event
	for rows.Next() {
		var (
			e            eventsdomain.Event
			id           string
			kind         string
			responseTime sql.NullInt64
		)
		if err := rows.Scan(
			&id,
			&e.Scope.TenantID,
			&e.Scope.WorkspaceID,
			&e.Scope.ChannelID,
			&kind,
			&e.OccurredAt,
			&responseTime,
			&e.InputTokens,
			&e.OutputTokens,
			&e.Cost,
			&e.Meta.UserID,
			&e.Meta.Model,
			&e.Meta.Detail,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		if parsed, err := uuid.Parse(id); err == nil {
			e.ID = parsed
		}
		e.Kind = eventsdomain.EventKind(kind)
		e.OccurredAt = e.OccurredAt.UTC()
		if responseTime.Valid {
			v := responseTime.Int64
			e.ResponseTimeMs = &v
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func (s *EventSource) ListActiveTenants(ctx context.Context, from, to time.Time) ([]string, error) {
	query := `
SELECT DISTINCT tenant_id
FROM bot_events
WHERE occurred_at >= $1 AND occurred_at < $2
ORDER BY tenant_id`

	return s.queryStrings(ctx, query, from, to)
}

func (s *EventSource) ListActiveChannels(ctx context.Context, tenantID string, from, to time.Time) ([]string, error) {
	query := `
SELECT DISTINCT channel_id
FROM bot_events
WHERE tenant_id = $1 AND occurred_at >= $2 AND occurred_at < $3 AND channel_id <> ''
ORDER BY channel_id`

	return s.queryStrings(ctx, query, tenantID, from, to)
}

func (s *EventSource) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
