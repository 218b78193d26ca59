package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"bot-analytics-service/internal/money"
	rollupdomain "bot-analytics-service/internal/rollup/core/domain"
)

var csvHeader = []string{
	"date",
	"workspace_id",
	"channel_id",
	"messages_in",
	"messages_out",
	"conversations_started",
	"conversations_ended",
	"handoffs_requested",
	"handoffs_completed",
	"errors",
	"feedback_positive",
	"feedback_negative",
	"avg_response_ms",
	"p50_response_ms",
	"p95_response_ms",
	"p99_response_ms",
	"tokens_in",
	"tokens_out",
	"cost",
	"active_users",
	"peak_hour",
	"peak_hour_messages",
}

// ExportCSV flattens every daily-aggregate row in range, tenant-wide and
// per-channel, one row per (date, scope) key. Nil statistics render as
// empty cells, never the string "null" or a zero.
func (uc *MetricsUseCase) ExportCSV(ctx context.Context, tenantID string, from, to time.Time) ([]byte, error) {
	from, to, err := validateRange(tenantID, from, to)
	if err != nil {
		return nil, err
	}

	tenantRows, err := uc.aggregates.QueryDailyTenant(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	channelRows, err := uc.aggregates.QueryDailyByChannel(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	rows := make([]rollupdomain.DailyAggregate, 0, len(tenantRows)+len(channelRows))
	rows = append(rows, tenantRows...)
	rows = append(rows, channelRows...)
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		if rows[i].Scope.WorkspaceID != rows[j].Scope.WorkspaceID {
			return rows[i].Scope.WorkspaceID < rows[j].Scope.WorkspaceID
		}
		return rows[i].Scope.ChannelID < rows[j].Scope.ChannelID
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.Date.Format("2006-01-02"),
			r.Scope.WorkspaceID,
			r.Scope.ChannelID,
			strconv.FormatInt(r.MessagesIn, 10),
			strconv.FormatInt(r.MessagesOut, 10),
			strconv.FormatInt(r.ConversationsStarted, 10),
			strconv.FormatInt(r.ConversationsEnded, 10),
			strconv.FormatInt(r.HandoffsRequested, 10),
			strconv.FormatInt(r.HandoffsCompleted, 10),
			strconv.FormatInt(r.Errors, 10),
			strconv.FormatInt(r.FeedbackPositive, 10),
			strconv.FormatInt(r.FeedbackNegative, 10),
			formatNullableInt64(r.AvgResponseMs),
			formatNullableInt64(r.P50ResponseMs),
			formatNullableInt64(r.P95ResponseMs),
			formatNullableInt64(r.P99ResponseMs),
			strconv.FormatInt(r.TokensIn, 10),
			strconv.FormatInt(r.TokensOut, 10),
			money.Format(r.Cost),
			strconv.FormatInt(r.ActiveUsers, 10),
			formatNullableInt(r.PeakHour),
			strconv.FormatInt(r.PeakHourMessages, 10),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatNullableInt64(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func formatNullableInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
