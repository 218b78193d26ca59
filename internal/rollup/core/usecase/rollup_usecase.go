package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	eventsdomain "bot-analytics-service/internal/events/core/domain"
	"bot-analytics-service/internal/money"
	"bot-analytics-service/internal/rollup/core/domain"
	"bot-analytics-service/internal/rollup/core/ports"
)

type RollupUseCase struct {
	events ports.EventSourcePort
	store  ports.AggregateStorePort
}

func NewRollupUseCase(events ports.EventSourcePort, store ports.AggregateStorePort) *RollupUseCase {
	return &RollupUseCase{events: events, store: store}
}

// AggregateDaily recomputes the daily aggregate for (scope, date) from raw
// events and upserts it. When the window has no events nothing is written:
// a missing row means "no activity", not "zero activity recorded".
// Re-running against an unchanged event set produces an identical row.
func (uc *RollupUseCase) AggregateDaily(ctx context.Context, scope eventsdomain.Scope, date time.Time) error {
	from := startOfDay(date)
	to := from.AddDate(0, 0, 1)

	events, err := uc.events.QueryEvents(ctx, scope, from, to)
	if err != nil {
		return fmt.Errorf("query events for daily rollup: %w", err)
	}
	if len(events) == 0 {
		return nil
	}

	agg := computeDaily(scope, from, events)
	if err := uc.store.UpsertDaily(ctx, agg); err != nil {
		return fmt.Errorf("upsert daily aggregate: %w", err)
	}
	return nil
}

// AggregateHourly recomputes the hourly aggregate for (scope, hour). Only
// counts and a mean latency are kept at this tier; a row with zero messages
// and zero errors is not written.
func (uc *RollupUseCase) AggregateHourly(ctx context.Context, scope eventsdomain.Scope, hour time.Time) error {
	from := hour.UTC().Truncate(time.Hour)
	to := from.Add(time.Hour)

	events, err := uc.events.QueryEvents(ctx, scope, from, to)
	if err != nil {
		return fmt.Errorf("query events for hourly rollup: %w", err)
	}

	agg := computeHourly(scope, from, events)
	if agg.MessagesIn == 0 && agg.MessagesOut == 0 && agg.Errors == 0 {
		return nil
	}

	if err := uc.store.UpsertHourly(ctx, agg); err != nil {
		return fmt.Errorf("upsert hourly aggregate: %w", err)
	}
	return nil
}

// AggregateTenantDay aggregates every active channel individually, then the
// tenant as a whole with no channel filter. The tenant-wide row is computed
// independently from raw events rather than by summing channel rows, so
// channel-less events are counted and rounding error never compounds.
func (uc *RollupUseCase) AggregateTenantDay(ctx context.Context, tenantID string, date time.Time) error {
	from := startOfDay(date)
	to := from.AddDate(0, 0, 1)

	channels, err := uc.events.ListActiveChannels(ctx, tenantID, from, to)
	if err != nil {
		return fmt.Errorf("list channels for tenant %s: %w", tenantID, err)
	}

	scope := eventsdomain.Scope{TenantID: tenantID}
	for _, ch := range channels {
		if err := uc.AggregateDaily(ctx, scope.WithChannel(ch), date); err != nil {
			return fmt.Errorf("channel %s: %w", ch, err)
		}
	}

	return uc.AggregateDaily(ctx, scope, date)
}

// AggregateYesterdayForAllTenants is the daily batch entry point, intended
// to be triggered once per day by an external scheduler.
func (uc *RollupUseCase) AggregateYesterdayForAllTenants(ctx context.Context) error {
	yesterday := startOfDay(time.Now().UTC()).AddDate(0, 0, -1)
	return uc.AggregateDateForAllTenants(ctx, yesterday)
}

// AggregateDateForAllTenants iterates active tenants sequentially to bound
// storage load. A failure on one tenant is logged and skipped; the batch
// continues and reports no hard failure for per-tenant errors.
func (uc *RollupUseCase) AggregateDateForAllTenants(ctx context.Context, date time.Time) error {
	from := startOfDay(date)
	to := from.AddDate(0, 0, 1)

	tenants, err := uc.events.ListActiveTenants(ctx, from, to)
	if err != nil {
		return fmt.Errorf("list active tenants: %w", err)
	}

	for _, tenantID := range tenants {
		if err := uc.AggregateTenantDay(ctx, tenantID, date); err != nil {
			log.Err(err).
				Str("tenant_id", tenantID).
				Str("date", from.Format("2006-01-02")).
				Msg("daily rollup failed for tenant, continuing with remaining tenants")
		}
	}
	return nil
}

// AggregateHourForAllTenants runs the hourly tier for every tenant active in
// the hour, per channel and tenant-wide, with the same partial-failure
// contract as the daily driver.
func (uc *RollupUseCase) AggregateHourForAllTenants(ctx context.Context, hour time.Time) error {
	from := hour.UTC().Truncate(time.Hour)
	to := from.Add(time.Hour)

	tenants, err := uc.events.ListActiveTenants(ctx, from, to)
	if err != nil {
		return fmt.Errorf("list active tenants: %w", err)
	}

	for _, tenantID := range tenants {
		if err := uc.aggregateTenantHour(ctx, tenantID, from, to); err != nil {
			log.Err(err).
				Str("tenant_id", tenantID).
				Time("hour", from).
				Msg("hourly rollup failed for tenant, continuing with remaining tenants")
		}
	}
	return nil
}

func (uc *RollupUseCase) aggregateTenantHour(ctx context.Context, tenantID string, from, to time.Time) error {
	channels, err := uc.events.ListActiveChannels(ctx, tenantID, from, to)
	if err != nil {
		return fmt.Errorf("list channels for tenant %s: %w", tenantID, err)
	}

	scope := eventsdomain.Scope{TenantID: tenantID}
	for _, ch := range channels {
		if err := uc.AggregateHourly(ctx, scope.WithChannel(ch), from); err != nil {
			return fmt.Errorf("channel %s: %w", ch, err)
		}
	}
	return uc.AggregateHourly(ctx, scope, from)
}

// CleanupHourly prunes hourly aggregates older than retentionDays. Daily
// aggregates are retained indefinitely as the durable historical record.
func (uc *RollupUseCase) CleanupHourly(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, fmt.Errorf("retention days must be positive")
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	return uc.store.DeleteHourlyBefore(ctx, cutoff)
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func computeDaily(scope eventsdomain.Scope, date time.Time, events []eventsdomain.Event) *domain.DailyAggregate {
	agg := &domain.DailyAggregate{Scope: scope, Date: date}

	var (
		latencies  []int64
		cost       money.Accumulator
		users      = map[string]struct{}{}
		hourCounts [24]int64
	)

	for _, e := range events {
		switch e.Kind {
		case eventsdomain.KindMessageIn:
			agg.MessagesIn++
		case eventsdomain.KindMessageOut:
			agg.MessagesOut++
		case eventsdomain.KindConversationStart:
			agg.ConversationsStarted++
		case eventsdomain.KindConversationEnd:
			agg.ConversationsEnded++
		case eventsdomain.KindHandoffRequested:
			agg.HandoffsRequested++
		case eventsdomain.KindHandoffCompleted:
			agg.HandoffsCompleted++
		case eventsdomain.KindError:
			agg.Errors++
		case eventsdomain.KindFeedbackPositive:
			agg.FeedbackPositive++
		case eventsdomain.KindFeedbackNegative:
			agg.FeedbackNegative++
		}

		if e.Kind == eventsdomain.KindMessageOut && e.ResponseTimeMs != nil {
			latencies = append(latencies, *e.ResponseTimeMs)
		}

		// Token and cost figures come from the events that spend money.
		if e.Kind == eventsdomain.KindMessageOut || e.Kind == eventsdomain.KindSpecialistInvoked {
			agg.TokensIn += e.InputTokens
			agg.TokensOut += e.OutputTokens
			cost.Add(e.Cost)
		}

		if e.Meta.UserID != "" {
			users[e.Meta.UserID] = struct{}{}
		}

		if e.Kind == eventsdomain.KindMessageIn || e.Kind == eventsdomain.KindMessageOut {
			hourCounts[e.OccurredAt.UTC().Hour()]++
		}
	}

	if len(latencies) > 0 {
		sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
		avg := meanRounded(latencies)
		p50 := percentileNearestRank(latencies, 50)
		p95 := percentileNearestRank(latencies, 95)
		p99 := percentileNearestRank(latencies, 99)
		agg.AvgResponseMs = &avg
		agg.P50ResponseMs = &p50
		agg.P95ResponseMs = &p95
		agg.P99ResponseMs = &p99
	}

	agg.Cost = cost.Float64()
	agg.ActiveUsers = int64(len(users))

	// Lowest hour wins ties: replacement only on strictly greater count.
	var peakCount int64
	for hour := 0; hour < 24; hour++ {
		if hourCounts[hour] > peakCount {
			peakCount = hourCounts[hour]
			h := hour
			agg.PeakHour = &h
			agg.PeakHourMessages = peakCount
		}
	}

	return agg
}

func computeHourly(scope eventsdomain.Scope, hour time.Time, events []eventsdomain.Event) *domain.HourlyAggregate {
	agg := &domain.HourlyAggregate{Scope: scope, HourStart: hour}

	var (
		latencies []int64
		cost      money.Accumulator
	)

	for _, e := range events {
		switch e.Kind {
		case eventsdomain.KindMessageIn:
			agg.MessagesIn++
		case eventsdomain.KindMessageOut:
			agg.MessagesOut++
		case eventsdomain.KindError:
			agg.Errors++
		}

		if e.Kind == eventsdomain.KindMessageOut && e.ResponseTimeMs != nil {
			latencies = append(latencies, *e.ResponseTimeMs)
		}
		if e.Kind == eventsdomain.KindMessageOut || e.Kind == eventsdomain.KindSpecialistInvoked {
			cost.Add(e.Cost)
		}
	}

	if len(latencies) > 0 {
		avg := meanRounded(latencies)
		agg.AvgResponseMs = &avg
	}
	agg.Cost = cost.Float64()

	return agg
}
