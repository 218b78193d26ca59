package ports

import (
	"context"
	"time"

	metricsdomain "bot-analytics-service/internal/metrics/core/domain"
	rollupdomain "bot-analytics-service/internal/rollup/core/domain"
)

// AggregateReaderPort reads the precomputed tiers. The calculator never
// recomputes from full raw-event history.
type AggregateReaderPort interface {
	// QueryDailyTenant returns the tenant-wide daily rows (no workspace,
	// no channel) in [from, to], ordered by date ascending.
	QueryDailyTenant(ctx context.Context, tenantID string, from, to time.Time) ([]rollupdomain.DailyAggregate, error)

	// QueryDailyByChannel returns the per-channel daily rows in [from, to],
	// ordered by date ascending.
	QueryDailyByChannel(ctx context.Context, tenantID string, from, to time.Time) ([]rollupdomain.DailyAggregate, error)

	// QueryHourlyTenant returns the tenant-wide hourly rows in [from, to).
	QueryHourlyTenant(ctx context.Context, tenantID string, from, to time.Time) ([]rollupdomain.HourlyAggregate, error)
}

// CostEventReaderPort is the single place the calculator touches raw events:
// a bounded trailing-window scan grouped by model, because model granularity
// is not preserved in the daily tier.
type CostEventReaderPort interface {
	CostByModel(ctx context.Context, tenantID string, from, to time.Time) ([]metricsdomain.ModelCost, error)
}
