package ports

import (
	"context"
	"time"

	"bot-analytics-service/internal/rollup/core/domain"
)

type AggregateStorePort interface {
	// UpsertDaily overwrites the daily row for the aggregate's (scope, date)
	// key with the full recomputed value.
	UpsertDaily(ctx context.Context, agg *domain.DailyAggregate) error

	// UpsertHourly overwrites the hourly row for the aggregate's
	// (scope, hour) key.
	UpsertHourly(ctx context.Context, agg *domain.HourlyAggregate) error

	// DeleteHourlyBefore prunes hourly rows older than cutoff and reports
	// how many were removed. Daily rows are never auto-purged.
	DeleteHourlyBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
