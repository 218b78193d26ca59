package postgres

import (
	"context"
	"fmt"
	"time"

	"bot-analytics-service/internal/rollup/core/domain"
	"bot-analytics-service/internal/rollup/core/ports"
)

type AggregateStore struct {
	db DB
}

func NewAggregateStore(db DB) *AggregateStore {
	return &AggregateStore{db: db}
}

var _ ports.AggregateStorePort = (*AggregateStore)(nil)

// Both tables key on (tenant_id, workspace_id, channel_id, window-start)
// with empty strings for unset scope fields, so ON CONFLICT DO UPDATE makes
// every upsert a full overwrite of the previous value.
const upsertDailySQL = `
INSERT INTO daily_aggregates (
    tenant_id, workspace_id, channel_id, day,
    messages_in, messages_out,
    conversations_started, conversations_ended,
    handoffs_requested, handoffs_completed,
    errors, feedback_positive, feedback_negative,
    avg_response_ms, p50_response_ms, p95_response_ms, p99_response_ms,
    tokens_in, tokens_out, cost,
    active_users, peak_hour, peak_hour_messages
) VALUES (
    $1, $2, $3, $4,
    $5, $6, $7, $8, $9, $10,
    $11, $12, $13,
    $14, $15, $16, $17,
    $18, $19, $20,
    $21, $22, $23
)
ON CONFLICT (tenant_id, workspace_id, channel_id, day) DO UPDATE SET
    messages_in = EXCLUDED.messages_in,
    messages_out = EXCLUDED.messages_out,
    conversations_started = EXCLUDED.conversations_started,
    conversations_ended = EXCLUDED.conversations_ended,
    handoffs_requested = EXCLUDED.handoffs_requested,
    handoffs_completed = EXCLUDED.handoffs_completed,
    errors = EXCLUDED.errors,
    feedback_positive = EXCLUDED.feedback_positive,
    feedback_negative = EXCLUDED.feedback_negative,
    avg_response_ms = EXCLUDED.avg_response_ms,
    p50_response_ms = EXCLUDED.p50_response_ms,
    p95_response_ms = EXCLUDED.p95_response_ms,
    p99_response_ms = EXCLUDED.p99_response_ms,
    tokens_in = EXCLUDED.tokens_in,
    tokens_out = EXCLUDED.tokens_out,
    cost = EXCLUDED.cost,
    active_users = EXCLUDED.active_users,
    peak_hour = EXCLUDED.peak_hour,
    peak_hour_messages = EXCLUDED.peak_hour_messages;
`

func (s *AggregateStore) UpsertDaily(ctx context.Context, agg *domain.DailyAggregate) error {
	_, err := s.db.ExecContext(ctx, upsertDailySQL,
		agg.Scope.TenantID,
		agg.Scope.WorkspaceID,
		agg.Scope.ChannelID,
		agg.Date,
		agg.MessagesIn,
		agg.MessagesOut,
		agg.ConversationsStarted,
		agg.ConversationsEnded,
		agg.HandoffsRequested,
		agg.HandoffsCompleted,
		agg.Errors,
		agg.FeedbackPositive,
		agg.FeedbackNegative,
		nullableInt64(agg.AvgResponseMs),
		nullableInt64(agg.P50ResponseMs),
		nullableInt64(agg.P95ResponseMs),
		nullableInt64(agg.P99ResponseMs),
		agg.TokensIn,
		agg.TokensOut,
		agg.Cost,
		agg.ActiveUsers,
		nullableInt(agg.PeakHour),
		agg.PeakHourMessages,
	)
	if err != nil {
		return fmt.Errorf("upsert daily aggregate: %w", err)
	}
	return nil
}

const upsertHourlySQL = `
INSERT INTO hourly_aggregates (
    tenant_id, workspace_id, channel_id, hour_start,
    messages_in, messages_out, errors, cost, avg_response_ms
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9
)
ON CONFLICT (tenant_id, workspace_id, channel_id, hour_start) DO UPDATE SET
    messages_in = EXCLUDED.messages_in,
    messages_out = EXCLUDED.messages_out,
    errors = EXCLUDED.errors,
    cost = EXCLUDED.cost,
    avg_response_ms = EXCLUDED.avg_response_ms;
`

func (s *AggregateStore) UpsertHourly(ctx context.Context, agg *domain.HourlyAggregate) error {
	_, err := s.db.ExecContext(ctx, upsertHourlySQL,
		agg.Scope.TenantID,
		agg.Scope.WorkspaceID,
		agg.Scope.ChannelID,
		agg.HourStart,
		agg.MessagesIn,
		agg.MessagesOut,
		agg.Errors,
		agg.Cost,
		nullableInt64(agg.AvgResponseMs),
	)
	if err != nil {
		return fmt.Errorf("upsert hourly aggregate: %w", err)
	}
	return nil
}

const deleteHourlyBeforeSQL = `
DELETE FROM hourly_aggregates WHERE hour_start < $1;
`

func (s *AggregateStore) DeleteHourlyBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, deleteHourlyBeforeSQL, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete hourly aggregates: %w", err)
	}
	return res.RowsAffected()
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
