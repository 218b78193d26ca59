package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	eventsdomain "bot-analytics-service/internal/events/core/domain"
	metricsdomain "bot-analytics-service/internal/metrics/core/domain"
	"bot-analytics-service/internal/metrics/core/ports"
	rollupdomain "bot-analytics-service/internal/rollup/core/domain"
)

type MetricsRepository struct {
	db DB
}

func NewMetricsRepository(db DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

var _ ports.AggregateReaderPort = (*MetricsRepository)(nil)
var _ ports.CostEventReaderPort = (*MetricsRepository)(nil)

const dailyColumns = `
    tenant_id, workspace_id, channel_id, day,
    messages_in, messages_out,
    conversations_started, conversations_ended,
    handoffs_requested, handoffs_completed,
    errors, feedback_positive, feedback_negative,
    avg_response_ms, p50_response_ms, p95_response_ms, p99_response_ms,
    tokens_in, tokens_out, cost,
    active_users, peak_hour, peak_hour_messages`

func (r *MetricsRepository) QueryDailyTenant(ctx context.Context, tenantID string, from, to time.Time) ([]rollupdomain.DailyAggregate, error) {
	query := `
SELECT` + dailyColumns + `
FROM daily_aggregates
WHERE tenant_id = $1 AND workspace_id = '' AND channel_id = ''
  AND day >= $2 AND day <= $3
ORDER BY day`

	return r.queryDaily(ctx, query, tenantID, from, to)
}

func (r *MetricsRepository) QueryDailyByChannel(ctx context.Context, tenantID string, from, to time.Time) ([]rollupdomain.DailyAggregate, error) {
	query := `
SELECT` + dailyColumns + `
FROM daily_aggregates
WHERE tenant_id = $1 AND channel_id <> ''
  AND day >= $2 AND day <= $3
ORDER BY day, channel_id`

	return r.queryDaily(ctx, query, tenantID, from, to)
}

func (r *MetricsRepository) queryDaily(ctx context.Context, query string, args ...any) ([]rollupdomain.DailyAggregate, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily aggregates: %w", err)
	}
	defer rows.Close()

	var out []rollupdomain.DailyAggregate
	for rows.Next() {
		var (
			agg                dailyRow
			avg, p50, p95, p99 sql.NullInt64
			peakHour           sql.NullInt64
		)
		if err := rows.Scan(
			&agg.tenantID, &agg.workspaceID, &agg.channelID, &agg.day,
			&agg.messagesIn, &agg.messagesOut,
			&agg.conversationsStarted, &agg.conversationsEnded,
			&agg.handoffsRequested, &agg.handoffsCompleted,
			&agg.errors, &agg.feedbackPositive, &agg.feedbackNegative,
			&avg, &p50, &p95, &p99,
			&agg.tokensIn, &agg.tokensOut, &agg.cost,
			&agg.activeUsers, &peakHour, &agg.peakHourMessages,
		); err != nil {
			return nil, fmt.Errorf("scan daily aggregate: %w", err)
		}

		da := rollupdomain.DailyAggregate{
			Scope: eventsdomain.Scope{
				TenantID:    agg.tenantID,
				WorkspaceID: agg.workspaceID,
				ChannelID:   agg.channelID,
			},
			Date:                 agg.day.UTC(),
			MessagesIn:           agg.messagesIn,
			MessagesOut:          agg.messagesOut,
			ConversationsStarted: agg.conversationsStarted,
			ConversationsEnded:   agg.conversationsEnded,
			HandoffsRequested:    agg.handoffsRequested,
			HandoffsCompleted:    agg.handoffsCompleted,
			Errors:               agg.errors,
			FeedbackPositive:     agg.feedbackPositive,
			FeedbackNegative:     agg.feedbackNegative,
			TokensIn:             agg.tokensIn,
			TokensOut:            agg.tokensOut,
			Cost:                 agg.cost,
			ActiveUsers:          agg.activeUsers,
			PeakHourMessages:     agg.peakHourMessages,
		}
		da.AvgResponseMs = nullableToPtr(avg)
		da.P50ResponseMs = nullableToPtr(p50)
		da.P95ResponseMs = nullableToPtr(p95)
		da.P99ResponseMs = nullableToPtr(p99)
		if peakHour.Valid {
			h := int(peakHour.Int64)
			da.PeakHour = &h
		}

		out = append(out, da)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily aggregates: %w", err)
	}
	return out, nil
}

// dailyRow is the scan buffer for the non-nullable daily columns.
type dailyRow struct {
	tenantID, workspaceID, channelID string
	day                              time.Time

	messagesIn, messagesOut                    int64
	conversationsStarted, conversationsEnded   int64
	handoffsRequested, handoffsCompleted       int64
	errors, feedbackPositive, feedbackNegative int64
	tokensIn, tokensOut                        int64
	cost                                       float64
	activeUsers, peakHourMessages              int64
}

func (r *MetricsRepository) QueryHourlyTenant(ctx context.Context, tenantID string, from, to time.Time) ([]rollupdomain.HourlyAggregate, error) {
	query := `
SELECT
    tenant_id, workspace_id, channel_id, hour_start,
    messages_in, messages_out, errors, cost, avg_response_ms
FROM hourly_aggregates
WHERE tenant_id = $1 AND workspace_id = '' AND channel_id = ''
  AND hour_start >= $2 AND hour_start < $3
ORDER BY hour_start`

	rows, err := r.db.QueryContext(ctx, query, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query hourly aggregates: %w", err)
	}
	defer rows.Close()

	var out []rollupdomain.HourlyAggregate
	for rows.Next() {
		var (
			ha  rollupdomain.HourlyAggregate
			avg sql.NullInt64
		)
		if err := rows.Scan(
			&ha.Scope.TenantID, &ha.Scope.WorkspaceID, &ha.Scope.ChannelID, &ha.HourStart,
			&ha.MessagesIn, &ha.MessagesOut, &ha.Errors, &ha.Cost, &avg,
		); err != nil {
			return nil, fmt.Errorf("scan hourly aggregate: %w", err)
		}
		ha.HourStart = ha.HourStart.UTC()
		ha.AvgResponseMs = nullableToPtr(avg)
		out = append(out, ha)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hourly aggregates: %w", err)
	}
	return out, nil
}

// CostByModel groups spend-bearing raw events by model over a bounded
// trailing window.
func (r *MetricsRepository) CostByModel(ctx context.Context, tenantID string, from, to time.Time) ([]metricsdomain.ModelCost, error) {
	query := `
SELECT model, SUM(cost) AS cost
FROM bot_events
WHERE tenant_id = $1
  AND occurred_at >= $2 AND occurred_at < $3
  AND kind IN ('message_out', 'specialist_invoked')
  AND model <> ''
GROUP BY model
ORDER BY cost DESC`

	rows, err := r.db.QueryContext(ctx, query, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query cost by model: %w", err)
	}
	defer rows.Close()

	var out []metricsdomain.ModelCost
	for rows.Next() {
		var mc metricsdomain.ModelCost
		if err := rows.Scan(&mc.Model, &mc.Cost); err != nil {
			return nil, fmt.Errorf("scan model cost: %w", err)
		}
		out = append(out, mc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate model costs: %w", err)
	}
	return out, nil
}

func nullableToPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
