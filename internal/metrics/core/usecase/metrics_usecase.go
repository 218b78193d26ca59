package usecase

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	metricsdomain "bot-analytics-service/internal/metrics/core/domain"
	"bot-analytics-service/internal/metrics/core/ports"
	"bot-analytics-service/internal/money"
	rollupdomain "bot-analytics-service/internal/rollup/core/domain"
)

var (
	ErrInvalidTenant    = errors.New("tenant id is required")
	ErrInvalidDateRange = errors.New("invalid date range")
)

// Config carries the tunables of the cost calculations.
type Config struct {
	// HumanCostPerMessage is the flat baseline cost assumed for a
	// human-handled message, used for the estimated-savings figure.
	HumanCostPerMessage float64

	// CostModelWindowDays bounds the trailing raw-event scan behind the
	// cost-by-model breakdown.
	CostModelWindowDays int
}

// MetricsUseCase derives all consumer-facing metrics from the aggregate
// tiers. Every method is a pure read; unbounded read concurrency is safe.
type MetricsUseCase struct {
	aggregates ports.AggregateReaderPort
	costEvents ports.CostEventReaderPort
	cfg        Config
	now        func() time.Time
}

func NewMetricsUseCase(aggregates ports.AggregateReaderPort, costEvents ports.CostEventReaderPort, cfg Config) *MetricsUseCase {
	if cfg.CostModelWindowDays <= 0 {
		cfg.CostModelWindowDays = 7
	}
	return &MetricsUseCase{
		aggregates: aggregates,
		costEvents: costEvents,
		cfg:        cfg,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Overview sums the tenant-wide daily rows across the range and derives the
// headline rates. Growth compares against the equal-length immediately
// preceding period.
func (uc *MetricsUseCase) Overview(ctx context.Context, tenantID string, from, to time.Time) (*metricsdomain.OverviewMetrics, error) {
	from, to, err := validateRange(tenantID, from, to)
	if err != nil {
		return nil, err
	}

	rows, err := uc.aggregates.QueryDailyTenant(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	days := int(to.Sub(from).Hours()/24) + 1
	prevTo := from.AddDate(0, 0, -1)
	prevFrom := prevTo.AddDate(0, 0, -(days - 1))

	prevRows, err := uc.aggregates.QueryDailyTenant(ctx, tenantID, prevFrom, prevTo)
	if err != nil {
		return nil, err
	}

	out := &metricsdomain.OverviewMetrics{}
	var cost money.Accumulator
	for _, r := range rows {
		out.MessagesIn += r.MessagesIn
		out.MessagesOut += r.MessagesOut
		out.ConversationsStarted += r.ConversationsStarted
		out.ConversationsEnded += r.ConversationsEnded
		out.HandoffsRequested += r.HandoffsRequested
		out.HandoffsCompleted += r.HandoffsCompleted
		out.Errors += r.Errors
		out.ActiveUsers += r.ActiveUsers
		out.TokensIn += r.TokensIn
		out.TokensOut += r.TokensOut
		cost.Add(r.Cost)
	}
	out.TotalMessages = out.MessagesIn + out.MessagesOut
	out.TotalCost = cost.Float64()

	out.AvgResponseMs = weightedAvgResponse(rows)

	// Percentiles come from the most recent in-range day that has them;
	// they are not meaningfully averaged across days.
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].P50ResponseMs != nil {
			out.P50ResponseMs = rows[i].P50ResponseMs
			out.P95ResponseMs = rows[i].P95ResponseMs
			out.P99ResponseMs = rows[i].P99ResponseMs
			break
		}
	}

	out.ResolutionRate = resolutionRate(out.ConversationsStarted, out.HandoffsRequested)
	out.ErrorRate = errorRate(out.Errors, out.TotalMessages)
	out.SatisfactionScore = satisfactionScore(sumFeedback(rows))

	var prevMessages int64
	var prevCost money.Accumulator
	for _, r := range prevRows {
		prevMessages += r.MessagesIn + r.MessagesOut
		prevCost.Add(r.Cost)
	}
	out.MessageGrowthPct = growthPct(float64(out.TotalMessages), float64(prevMessages))
	out.CostGrowthPct = growthPct(out.TotalCost, prevCost.Float64())

	return out, nil
}

// Trends returns one point per day that has an aggregate, no gap-filling.
func (uc *MetricsUseCase) Trends(ctx context.Context, tenantID string, from, to time.Time) ([]metricsdomain.TrendPoint, error) {
	from, to, err := validateRange(tenantID, from, to)
	if err != nil {
		return nil, err
	}

	rows, err := uc.aggregates.QueryDailyTenant(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	points := make([]metricsdomain.TrendPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, metricsdomain.TrendPoint{
			Date:          r.Date,
			MessagesIn:    r.MessagesIn,
			MessagesOut:   r.MessagesOut,
			Conversations: r.ConversationsStarted,
			Errors:        r.Errors,
			AvgResponseMs: r.AvgResponseMs,
			Cost:          r.Cost,
			ActiveUsers:   r.ActiveUsers,
		})
	}
	return points, nil
}

// Channels aggregates the per-channel rows across the range, sorted
// descending by message volume.
func (uc *MetricsUseCase) Channels(ctx context.Context, tenantID string, from, to time.Time) ([]metricsdomain.ChannelBreakdownRow, error) {
	from, to, err := validateRange(tenantID, from, to)
	if err != nil {
		return nil, err
	}

	rows, err := uc.aggregates.QueryDailyByChannel(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	grouped := map[string][]rollupdomain.DailyAggregate{}
	for _, r := range rows {
		grouped[r.Scope.ChannelID] = append(grouped[r.Scope.ChannelID], r)
	}

	var totalMessages int64
	breakdown := make([]metricsdomain.ChannelBreakdownRow, 0, len(grouped))
	for channelID, channelRows := range grouped {
		row := metricsdomain.ChannelBreakdownRow{ChannelID: channelID}
		var cost money.Accumulator
		for _, r := range channelRows {
			row.Messages += r.MessagesIn + r.MessagesOut
			row.Conversations += r.ConversationsStarted
			cost.Add(r.Cost)
		}
		row.Cost = cost.Float64()
		row.AvgResponseMs = weightedAvgResponse(channelRows)
		totalMessages += row.Messages
		breakdown = append(breakdown, row)
	}

	if totalMessages > 0 {
		for i := range breakdown {
			breakdown[i].SharePct = float64(breakdown[i].Messages) / float64(totalMessages) * 100
		}
	}

	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Messages != breakdown[j].Messages {
			return breakdown[i].Messages > breakdown[j].Messages
		}
		return breakdown[i].ChannelID < breakdown[j].ChannelID
	})

	return breakdown, nil
}

// PeakHours buckets hourly-aggregate message counts by hour of day across
// the whole range, producing a 24-slot histogram.
func (uc *MetricsUseCase) PeakHours(ctx context.Context, tenantID string, from, to time.Time) ([]metricsdomain.PeakHourBucket, error) {
	from, to, err := validateRange(tenantID, from, to)
	if err != nil {
		return nil, err
	}

	rows, err := uc.aggregates.QueryHourlyTenant(ctx, tenantID, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	buckets := make([]metricsdomain.PeakHourBucket, 24)
	for h := range buckets {
		buckets[h].Hour = h
	}
	for _, r := range rows {
		h := r.HourStart.UTC().Hour()
		buckets[h].Messages += r.MessagesIn + r.MessagesOut
	}
	return buckets, nil
}

// Usage summarizes volume and spend for the range.
func (uc *MetricsUseCase) Usage(ctx context.Context, tenantID string, from, to time.Time) (*metricsdomain.UsageSummary, error) {
	from, to, err := validateRange(tenantID, from, to)
	if err != nil {
		return nil, err
	}

	rows, err := uc.aggregates.QueryDailyTenant(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &metricsdomain.UsageSummary{
		From:             from,
		To:               to,
		DaysWithActivity: len(rows),
	}
	var cost money.Accumulator
	for _, r := range rows {
		summary.MessagesIn += r.MessagesIn
		summary.MessagesOut += r.MessagesOut
		summary.TokensIn += r.TokensIn
		summary.TokensOut += r.TokensOut
		summary.ActiveUsers += r.ActiveUsers
		cost.Add(r.Cost)
	}
	summary.TotalCost = cost.Float64()
	return summary, nil
}

// ------------------------------------------------------------
// helpers
// ------------------------------------------------------------

func validateRange(tenantID string, from, to time.Time) (time.Time, time.Time, error) {
	if tenantID == "" {
		return time.Time{}, time.Time{}, ErrInvalidTenant
	}
	if from.IsZero() || to.IsZero() {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	from = startOfDay(from)
	to = startOfDay(to)
	if from.After(to) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return from, to, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// weightedAvgResponse weights each day's average by that day's outgoing
// message count, because days have unequal volume; a naive mean-of-means
// would skew toward quiet days.
func weightedAvgResponse(rows []rollupdomain.DailyAggregate) *int64 {
	var weightedSum, totalWeight int64
	for _, r := range rows {
		if r.AvgResponseMs == nil || r.MessagesOut == 0 {
			continue
		}
		weightedSum += *r.AvgResponseMs * r.MessagesOut
		totalWeight += r.MessagesOut
	}
	if totalWeight == 0 {
		return nil
	}
	avg := int64(math.Round(float64(weightedSum) / float64(totalWeight)))
	return &avg
}

// growthPct is 0 when the previous period had no volume; never a division
// error.
func growthPct(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// resolutionRate defaults to 100 when no conversations started.
func resolutionRate(conversationsStarted, handoffsRequested int64) float64 {
	if conversationsStarted == 0 {
		return 100
	}
	return float64(conversationsStarted-handoffsRequested) / float64(conversationsStarted) * 100
}

func errorRate(errs, totalMessages int64) float64 {
	if totalMessages == 0 {
		return 0
	}
	return float64(errs) / float64(totalMessages) * 100
}

// satisfactionScore is nil when no feedback exists at all: "insufficient
// data" is a distinct signal, not zero.
func satisfactionScore(positive, negative int64) *float64 {
	total := positive + negative
	if total == 0 {
		return nil
	}
	score := float64(positive) / float64(total) * 100
	return &score
}

func sumFeedback(rows []rollupdomain.DailyAggregate) (positive, negative int64) {
	for _, r := range rows {
		positive += r.FeedbackPositive
		negative += r.FeedbackNegative
	}
	return positive, negative
}
