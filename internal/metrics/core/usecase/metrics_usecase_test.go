package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eventsdomain "bot-analytics-service/internal/events/core/domain"
	metricsdomain "bot-analytics-service/internal/metrics/core/domain"
	rollupdomain "bot-analytics-service/internal/rollup/core/domain"
)

// fakeAggregateReader serves canned daily/hourly rows, applying the date
// window the way the storage adapter would.
type fakeAggregateReader struct {
	tenantDaily  []rollupdomain.DailyAggregate
	channelDaily []rollupdomain.DailyAggregate
	hourly       []rollupdomain.HourlyAggregate
}

func (f *fakeAggregateReader) QueryDailyTenant(ctx context.Context, tenantID string, from, to time.Time) ([]rollupdomain.DailyAggregate, error) {
	return filterDaily(f.tenantDaily, tenantID, from, to), nil
}

func (f *fakeAggregateReader) QueryDailyByChannel(ctx context.Context, tenantID string, from, to time.Time) ([]rollupdomain.DailyAggregate, error) {
	return filterDaily(f.channelDaily, tenantID, from, to), nil
}

func (f *fakeAggregateReader) QueryHourlyTenant(ctx context.Context, tenantID string, from, to time.Time) ([]rollupdomain.HourlyAggregate, error) {
	var out []rollupdomain.HourlyAggregate
	for _, r := range f.hourly {
		if r.Scope.TenantID != tenantID {
			continue
		}
		if r.HourStart.Before(from) || !r.HourStart.Before(to) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func filterDaily(rows []rollupdomain.DailyAggregate, tenantID string, from, to time.Time) []rollupdomain.DailyAggregate {
	var out []rollupdomain.DailyAggregate
	for _, r := range rows {
		if r.Scope.TenantID != tenantID {
			continue
		}
		if r.Date.Before(from) || r.Date.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out
}

type fakeCostReader struct {
	models   []metricsdomain.ModelCost
	lastFrom time.Time
	lastTo   time.Time
}

func (f *fakeCostReader) CostByModel(ctx context.Context, tenantID string, from, to time.Time) ([]metricsdomain.ModelCost, error) {
	f.lastFrom, f.lastTo = from, to
	return f.models, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func i64(v int64) *int64 { return &v }

func tenantDay(day time.Time, in, out int64, avg *int64) rollupdomain.DailyAggregate {
	return rollupdomain.DailyAggregate{
		Scope:         eventsdomain.Scope{TenantID: "t1"},
		Date:          day,
		MessagesIn:    in,
		MessagesOut:   out,
		AvgResponseMs: avg,
	}
}

func newTestUC(agg *fakeAggregateReader, cost *fakeCostReader, cfg Config) *MetricsUseCase {
	uc := NewMetricsUseCase(agg, cost, cfg)
	uc.now = func() time.Time { return date(2024, 1, 15) }
	return uc
}

// ------------------------------------------------------------
// OVERVIEW
// ------------------------------------------------------------

func TestOverview_WeightedAverageResponse(t *testing.T) {
	// Day 1: avg 100 over 10 messages; day 2: avg 400 over 30 messages.
	// Weighted: (100*10 + 400*30) / 40 = 325, not the naive 250.
	agg := &fakeAggregateReader{tenantDaily: []rollupdomain.DailyAggregate{
		tenantDay(date(2024, 1, 1), 10, 10, i64(100)),
		tenantDay(date(2024, 1, 2), 30, 30, i64(400)),
	}}
	uc := newTestUC(agg, &fakeCostReader{}, Config{})

	out, err := uc.Overview(context.Background(), "t1", date(2024, 1, 1), date(2024, 1, 7))
	require.NoError(t, err)

	require.NotNil(t, out.AvgResponseMs)
	assert.Equal(t, int64(325), *out.AvgResponseMs)
}

func TestOverview_PercentilesFromMostRecentDayWithData(t *testing.T) {
	withP := tenantDay(date(2024, 1, 2), 5, 5, i64(120))
	withP.P50ResponseMs, withP.P95ResponseMs, withP.P99ResponseMs = i64(100), i64(200), i64(300)

	newerWithoutP := tenantDay(date(2024, 1, 3), 2, 0, nil)

	agg := &fakeAggregateReader{tenantDaily: []rollupdomain.DailyAggregate{
		tenantDay(date(2024, 1, 1), 1, 1, i64(50)),
		withP,
		newerWithoutP,
	}}
	uc := newTestUC(agg, &fakeCostReader{}, Config{})

	out, err := uc.Overview(context.Background(), "t1", date(2024, 1, 1), date(2024, 1, 7))
	require.NoError(t, err)

	require.NotNil(t, out.P50ResponseMs)
	assert.Equal(t, int64(100), *out.P50ResponseMs)
	assert.Equal(t, int64(200), *out.P95ResponseMs)
	assert.Equal(t, int64(300), *out.P99ResponseMs)
}

func TestOverview_GrowthAgainstPreviousPeriod(t *testing.T) {
	agg := &fakeAggregateReader{tenantDaily: []rollupdomain.DailyAggregate{
		// previous week: 50 messages
		tenantDay(date(2024, 1, 1), 25, 25, nil),
		// current week: 75 messages
		tenantDay(date(2024, 1, 8), 40, 35, nil),
	}}
	uc := newTestUC(agg, &fakeCostReader{}, Config{})

	out, err := uc.Overview(context.Background(), "t1", date(2024, 1, 8), date(2024, 1, 14))
	require.NoError(t, err)

	assert.Equal(t, int64(75), out.TotalMessages)
	assert.InDelta(t, 50.0, out.MessageGrowthPct, 1e-9)
}

func TestOverview_GrowthZeroWhenNoPreviousActivity(t *testing.T) {
	agg := &fakeAggregateReader{tenantDaily: []rollupdomain.DailyAggregate{
		tenantDay(date(2024, 1, 8), 100, 100, nil),
	}}
	uc := newTestUC(agg, &fakeCostReader{}, Config{})

	out, err := uc.Overview(context.Background(), "t1", date(2024, 1, 8), date(2024, 1, 14))
	require.NoError(t, err)

	assert.Equal(t, float64(0), out.MessageGrowthPct)
	assert.Equal(t, float64(0), out.CostGrowthPct)
}

func TestOverview_ResolutionRateDefaults(t *testing.T) {
	day := tenantDay(date(2024, 1, 1), 0, 0, nil)
	day.ConversationsStarted = 10
	day.HandoffsRequested = 3
	agg := &fakeAggregateReader{tenantDaily: []rollupdomain.DailyAggregate{day}}
	uc := newTestUC(agg, &fakeCostReader{}, Config{})

	out, err := uc.Overview(context.Background(), "t1", date(2024, 1, 1), date(2024, 1, 1))
	require.NoError(t, err)
	assert.InDelta(t, 70.0, out.ResolutionRate, 1e-9)

	// No conversations at all -> 100, not a division error.
	empty := newTestUC(&fakeAggregateReader{}, &fakeCostReader{}, Config{})
	out2, err := empty.Overview(context.Background(), "t1", date(2024, 1, 1), date(2024, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, float64(100), out2.ResolutionRate)
	assert.Equal(t, float64(0), out2.ErrorRate)
}

func TestOverview_SatisfactionScore(t *testing.T) {
	day := tenantDay(date(2024, 1, 1), 1, 1, nil)
	day.FeedbackPositive = 3
	day.FeedbackNegative = 1
	agg := &fakeAggregateReader{tenantDaily: []rollupdomain.DailyAggregate{day}}
	uc := newTestUC(agg, &fakeCostReader{}, Config{})

	out, err := uc.Overview(context.Background(), "t1", date(2024, 1, 1), date(2024, 1, 1))
	require.NoError(t, err)
	require.NotNil(t, out.SatisfactionScore)
	assert.InDelta(t, 75.0, *out.SatisfactionScore, 1e-9)
	assert.GreaterOrEqual(t, *out.SatisfactionScore, 0.0)
	assert.LessOrEqual(t, *out.SatisfactionScore, 100.0)
}

func TestOverview_SatisfactionNilWithoutFeedback(t *testing.T) {
	agg := &fakeAggregateReader{tenantDaily: []rollupdomain.DailyAggregate{
		tenantDay(date(2024, 1, 1), 5, 5, nil),
	}}
	uc := newTestUC(agg, &fakeCostReader{}, Config{})

	out, err := uc.Overview(context.Background(), "t1", date(2024, 1, 1), date(2024, 1, 1))
	require.NoError(t, err)
	assert.Nil(t, out.SatisfactionScore)
}

func TestOverview_InvalidInput(t *testing.T) {
	uc := newTestUC(&fakeAggregateReader{}, &fakeCostReader{}, Config{})

	_, err := uc.Overview(context.Background(), "", date(2024, 1, 1), date(2024, 1, 2))
	assert.ErrorIs(t, err, ErrInvalidTenant)

	_, err = uc.Overview(context.Background(), "t1", date(2024, 1, 5), date(2024, 1, 1))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

// ------------------------------------------------------------
// TRENDS
// ------------------------------------------------------------

func TestTrends_NoGapFilling(t *testing.T) {
	// 3-day range, aggregates for only 2 days.
	agg := &fakeAggregateReader{tenantDaily: []rollupdomain.DailyAggregate{
		tenantDay(date(2024, 1, 1), 5, 5, i64(100)),
		tenantDay(date(2024, 1, 3), 2, 2, nil),
	}}
	uc := newTestUC(agg, &fakeCostReader{}, Config{})

	points, err := uc.Trends(context.Background(), "t1", date(2024, 1, 1), date(2024, 1, 3))
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, date(2024, 1, 1), points[0].Date)
	assert.Equal(t, date(2024, 1, 3), points[1].Date)
	assert.Nil(t, points[1].AvgResponseMs)
}

// ------------------------------------------------------------
// CHANNELS
// ------------------------------------------------------------

func channelDay(day time.Time, channel string, in, out int64, avg *int64, cost float64) rollupdomain.DailyAggregate {
	agg := rollupdomain.DailyAggregate{
		Scope:       eventsdomain.Scope{TenantID: "t1", ChannelID: channel},
		Date:        day,
		MessagesIn:  in,
		MessagesOut: out,
		Cost:        cost,
	}
	agg.AvgResponseMs = avg
	return agg
}

func TestChannels_SharesSumToHundred(t *testing.T) {
	agg := &fakeAggregateReader{channelDaily: []rollupdomain.DailyAggregate{
		channelDay(date(2024, 1, 1), "web", 30, 30, i64(100), 1.0),
		channelDay(date(2024, 1, 2), "web", 10, 10, i64(200), 0.5),
		channelDay(date(2024, 1, 1), "telegram", 10, 10, i64(300), 0.2),
		channelDay(date(2024, 1, 1), "slack", 5, 5, nil, 0.1),
	}}
	uc := newTestUC(agg, &fakeCostReader{}, Config{})

	rows, err := uc.Channels(context.Background(), "t1", date(2024, 1, 1), date(2024, 1, 7))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Sorted descending by volume.
	assert.Equal(t, "web", rows[0].ChannelID)
	assert.Equal(t, int64(80), rows[0].Messages)

	var shareSum float64
	for _, r := range rows {
		shareSum += r.SharePct
	}
	assert.InDelta(t, 100.0, shareSum, 1e-9)

	// web weighted avg: (100*30 + 200*10) / 40 = 125
	require.NotNil(t, rows[0].AvgResponseMs)
	assert.Equal(t, int64(125), *rows[0].AvgResponseMs)

	// slack has no latency data at all
	for _, r := range rows {
		if r.ChannelID == "slack" {
			assert.Nil(t, r.AvgResponseMs)
		}
	}
}

func TestChannels_EmptyRange(t *testing.T) {
	uc := newTestUC(&fakeAggregateReader{}, &fakeCostReader{}, Config{})

	rows, err := uc.Channels(context.Background(), "t1", date(2024, 1, 1), date(2024, 1, 7))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// ------------------------------------------------------------
// PEAK HOURS
// ------------------------------------------------------------

func TestPeakHours_HistogramAcrossDays(t *testing.T) {
	mk := func(day time.Time, hour int, in, out int64) rollupdomain.HourlyAggregate {
		return rollupdomain.HourlyAggregate{
			Scope:       eventsdomain.Scope{TenantID: "t1"},
			HourStart:   day.Add(time.Duration(hour) * time.Hour),
			MessagesIn:  in,
			MessagesOut: out,
		}
	}
	agg := &fakeAggregateReader{hourly: []rollupdomain.HourlyAggregate{
		mk(date(2024, 1, 1), 9, 3, 3),
		mk(date(2024, 1, 2), 9, 2, 2),
		mk(date(2024, 1, 2), 14, 1, 1),
	}}
	uc := newTestUC(agg, &fakeCostReader{}, Config{})

	buckets, err := uc.PeakHours(context.Background(), "t1", date(2024, 1, 1), date(2024, 1, 7))
	require.NoError(t, err)
	require.Len(t, buckets, 24)

	assert.Equal(t, int64(10), buckets[9].Messages)
	assert.Equal(t, int64(2), buckets[14].Messages)
	assert.Equal(t, int64(0), buckets[0].Messages)
	assert.Equal(t, 23, buckets[23].Hour)
}

// ------------------------------------------------------------
// USAGE
// ------------------------------------------------------------

func TestUsage_Summary(t *testing.T) {
	d1 := tenantDay(date(2024, 1, 1), 10, 8, nil)
	d1.TokensIn, d1.TokensOut, d1.Cost, d1.ActiveUsers = 1000, 500, 0.25, 3
	d2 := tenantDay(date(2024, 1, 2), 5, 4, nil)
	d2.TokensIn, d2.TokensOut, d2.Cost, d2.ActiveUsers = 400, 200, 0.1, 2

	agg := &fakeAggregateReader{tenantDaily: []rollupdomain.DailyAggregate{d1, d2}}
	uc := newTestUC(agg, &fakeCostReader{}, Config{})

	summary, err := uc.Usage(context.Background(), "t1", date(2024, 1, 1), date(2024, 1, 7))
	require.NoError(t, err)

	assert.Equal(t, int64(15), summary.MessagesIn)
	assert.Equal(t, int64(12), summary.MessagesOut)
	assert.Equal(t, int64(1400), summary.TokensIn)
	assert.Equal(t, int64(700), summary.TokensOut)
	assert.InDelta(t, 0.35, summary.TotalCost, 1e-9)
	assert.Equal(t, 2, summary.DaysWithActivity)
}
