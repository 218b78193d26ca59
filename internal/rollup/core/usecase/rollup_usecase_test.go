package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eventsdomain "bot-analytics-service/internal/events/core/domain"
	"bot-analytics-service/internal/rollup/core/domain"
	"bot-analytics-service/internal/rollup/core/usecase"
)

// fakeEventSource serves a fixed event set, applying scope and window
// filters the way the storage adapter would.
type fakeEventSource struct {
	events    []eventsdomain.Event
	queryErr  error
	perTenant map[string]error // AggregateTenantDay failure injection
}

func (f *fakeEventSource) QueryEvents(ctx context.Context, scope eventsdomain.Scope, from, to time.Time) ([]eventsdomain.Event, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if f.perTenant != nil {
		if err, ok := f.perTenant[scope.TenantID]; ok {
			return nil, err
		}
	}

	var out []eventsdomain.Event
	for _, e := range f.events {
		if e.Scope.TenantID != scope.TenantID {
			continue
		}
		if scope.WorkspaceID != "" && e.Scope.WorkspaceID != scope.WorkspaceID {
			continue
		}
		if scope.ChannelID != "" && e.Scope.ChannelID != scope.ChannelID {
			continue
		}
		if e.OccurredAt.Before(from) || !e.OccurredAt.Before(to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEventSource) ListActiveTenants(ctx context.Context, from, to time.Time) ([]string, error) {
	seen := map[string]bool{}
	var tenants []string
	for _, e := range f.events {
		if !seen[e.Scope.TenantID] {
			seen[e.Scope.TenantID] = true
			tenants = append(tenants, e.Scope.TenantID)
		}
	}
	return tenants, nil
}

func (f *fakeEventSource) ListActiveChannels(ctx context.Context, tenantID string, from, to time.Time) ([]string, error) {
	seen := map[string]bool{}
	var channels []string
	for _, e := range f.events {
		if e.Scope.TenantID != tenantID || e.Scope.ChannelID == "" {
			continue
		}
		if e.OccurredAt.Before(from) || !e.OccurredAt.Before(to) {
			continue
		}
		if !seen[e.Scope.ChannelID] {
			seen[e.Scope.ChannelID] = true
			channels = append(channels, e.Scope.ChannelID)
		}
	}
	return channels, nil
}

type fakeAggregateStore struct {
	daily     []*domain.DailyAggregate
	hourly    []*domain.HourlyAggregate
	upsertErr error
}

func (f *fakeAggregateStore) UpsertDaily(ctx context.Context, agg *domain.DailyAggregate) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.daily = append(f.daily, agg)
	return nil
}

func (f *fakeAggregateStore) UpsertHourly(ctx context.Context, agg *domain.HourlyAggregate) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.hourly = append(f.hourly, agg)
	return nil
}

func (f *fakeAggregateStore) DeleteHourlyBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 7, nil
}

func outMsg(tenant, channel, user string, at time.Time, latencyMs int64, cost float64) eventsdomain.Event {
	return eventsdomain.Event{
		ID:             uuid.New(),
		Scope:          eventsdomain.Scope{TenantID: tenant, ChannelID: channel},
		Kind:           eventsdomain.KindMessageOut,
		OccurredAt:     at,
		ResponseTimeMs: &latencyMs,
		Cost:           cost,
		Meta:           eventsdomain.Metadata{UserID: user},
	}
}

func plainEvent(tenant, channel string, kind eventsdomain.EventKind, at time.Time) eventsdomain.Event {
	return eventsdomain.Event{
		ID:         uuid.New(),
		Scope:      eventsdomain.Scope{TenantID: tenant, ChannelID: channel},
		Kind:       kind,
		OccurredAt: at,
	}
}

var day = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// ------------------------------------------------------------
// DAILY
// ------------------------------------------------------------

func TestAggregateDaily_TwoOutgoingMessages(t *testing.T) {
	source := &fakeEventSource{events: []eventsdomain.Event{
		outMsg("t1", "web", "u1", day.Add(10*time.Hour), 100, 0.01),
		outMsg("t1", "web", "u2", day.Add(11*time.Hour), 300, 0.02),
	}}
	store := &fakeAggregateStore{}
	uc := usecase.NewRollupUseCase(source, store)

	err := uc.AggregateDaily(context.Background(), eventsdomain.Scope{TenantID: "t1"}, day)
	require.NoError(t, err)
	require.Len(t, store.daily, 1)

	agg := store.daily[0]
	assert.Equal(t, int64(2), agg.MessagesOut)
	require.NotNil(t, agg.AvgResponseMs)
	assert.Equal(t, int64(200), *agg.AvgResponseMs)
	require.NotNil(t, agg.P50ResponseMs)
	assert.Equal(t, int64(100), *agg.P50ResponseMs) // index = ceil(0.5*2)-1 = 0
	require.NotNil(t, agg.P95ResponseMs)
	assert.Equal(t, int64(300), *agg.P95ResponseMs)
	assert.InDelta(t, 0.03, agg.Cost, 1e-9)
	assert.Equal(t, int64(2), agg.ActiveUsers)
}

func TestAggregateDaily_NoEventsWritesNothing(t *testing.T) {
	source := &fakeEventSource{}
	store := &fakeAggregateStore{}
	uc := usecase.NewRollupUseCase(source, store)

	err := uc.AggregateDaily(context.Background(), eventsdomain.Scope{TenantID: "t1"}, day)
	require.NoError(t, err)
	assert.Empty(t, store.daily)
}

func TestAggregateDaily_NoLatenciesYieldsNilStats(t *testing.T) {
	source := &fakeEventSource{events: []eventsdomain.Event{
		plainEvent("t1", "web", eventsdomain.KindMessageIn, day.Add(9*time.Hour)),
		plainEvent("t1", "web", eventsdomain.KindError, day.Add(9*time.Hour)),
	}}
	store := &fakeAggregateStore{}
	uc := usecase.NewRollupUseCase(source, store)

	require.NoError(t, uc.AggregateDaily(context.Background(), eventsdomain.Scope{TenantID: "t1"}, day))
	require.Len(t, store.daily, 1)

	agg := store.daily[0]
	assert.Nil(t, agg.AvgResponseMs)
	assert.Nil(t, agg.P50ResponseMs)
	assert.Nil(t, agg.P95ResponseMs)
	assert.Nil(t, agg.P99ResponseMs)
	assert.Equal(t, int64(1), agg.MessagesIn)
	assert.Equal(t, int64(1), agg.Errors)
}

func TestAggregateDaily_KindCounts(t *testing.T) {
	at := day.Add(12 * time.Hour)
	source := &fakeEventSource{events: []eventsdomain.Event{
		plainEvent("t1", "", eventsdomain.KindConversationStart, at),
		plainEvent("t1", "", eventsdomain.KindConversationStart, at),
		plainEvent("t1", "", eventsdomain.KindConversationEnd, at),
		plainEvent("t1", "", eventsdomain.KindHandoffRequested, at),
		plainEvent("t1", "", eventsdomain.KindHandoffCompleted, at),
		plainEvent("t1", "", eventsdomain.KindFeedbackPositive, at),
		plainEvent("t1", "", eventsdomain.KindFeedbackNegative, at),
		plainEvent("t1", "", eventsdomain.KindFeedbackNegative, at),
	}}
	store := &fakeAggregateStore{}
	uc := usecase.NewRollupUseCase(source, store)

	require.NoError(t, uc.AggregateDaily(context.Background(), eventsdomain.Scope{TenantID: "t1"}, day))
	require.Len(t, store.daily, 1)

	agg := store.daily[0]
	assert.Equal(t, int64(2), agg.ConversationsStarted)
	assert.Equal(t, int64(1), agg.ConversationsEnded)
	assert.Equal(t, int64(1), agg.HandoffsRequested)
	assert.Equal(t, int64(1), agg.HandoffsCompleted)
	assert.Equal(t, int64(1), agg.FeedbackPositive)
	assert.Equal(t, int64(2), agg.FeedbackNegative)
}

func TestAggregateDaily_PeakHourTieGoesToLowestHour(t *testing.T) {
	source := &fakeEventSource{events: []eventsdomain.Event{
		plainEvent("t1", "", eventsdomain.KindMessageIn, day.Add(9*time.Hour)),
		plainEvent("t1", "", eventsdomain.KindMessageIn, day.Add(9*time.Hour).Add(5*time.Minute)),
		plainEvent("t1", "", eventsdomain.KindMessageIn, day.Add(15*time.Hour)),
		plainEvent("t1", "", eventsdomain.KindMessageIn, day.Add(15*time.Hour).Add(5*time.Minute)),
	}}
	store := &fakeAggregateStore{}
	uc := usecase.NewRollupUseCase(source, store)

	require.NoError(t, uc.AggregateDaily(context.Background(), eventsdomain.Scope{TenantID: "t1"}, day))
	require.Len(t, store.daily, 1)

	agg := store.daily[0]
	require.NotNil(t, agg.PeakHour)
	assert.Equal(t, 9, *agg.PeakHour)
	assert.Equal(t, int64(2), agg.PeakHourMessages)
}

func TestAggregateDaily_SpecialistCostCounted(t *testing.T) {
	specialist := eventsdomain.Event{
		ID:           uuid.New(),
		Scope:        eventsdomain.Scope{TenantID: "t1"},
		Kind:         eventsdomain.KindSpecialistInvoked,
		OccurredAt:   day.Add(8 * time.Hour),
		InputTokens:  500,
		OutputTokens: 100,
		Cost:         0.05,
	}
	source := &fakeEventSource{events: []eventsdomain.Event{
		specialist,
		outMsg("t1", "", "u1", day.Add(8*time.Hour), 120, 0.01),
	}}
	store := &fakeAggregateStore{}
	uc := usecase.NewRollupUseCase(source, store)

	require.NoError(t, uc.AggregateDaily(context.Background(), eventsdomain.Scope{TenantID: "t1"}, day))
	require.Len(t, store.daily, 1)

	agg := store.daily[0]
	assert.Equal(t, int64(500), agg.TokensIn)
	assert.Equal(t, int64(100), agg.TokensOut)
	assert.InDelta(t, 0.06, agg.Cost, 1e-9)
}

func TestAggregateDaily_Idempotent(t *testing.T) {
	source := &fakeEventSource{events: []eventsdomain.Event{
		outMsg("t1", "web", "u1", day.Add(10*time.Hour), 100, 0.01),
		outMsg("t1", "web", "u1", day.Add(11*time.Hour), 300, 0.02),
		plainEvent("t1", "web", eventsdomain.KindConversationStart, day.Add(10*time.Hour)),
	}}
	store := &fakeAggregateStore{}
	uc := usecase.NewRollupUseCase(source, store)

	scope := eventsdomain.Scope{TenantID: "t1"}
	require.NoError(t, uc.AggregateDaily(context.Background(), scope, day))
	require.NoError(t, uc.AggregateDaily(context.Background(), scope, day))
	require.Len(t, store.daily, 2)

	assert.Equal(t, store.daily[0], store.daily[1])
}

// ------------------------------------------------------------
// HOURLY
// ------------------------------------------------------------

func TestAggregateHourly_CountsAndMean(t *testing.T) {
	hour := day.Add(14 * time.Hour)
	source := &fakeEventSource{events: []eventsdomain.Event{
		plainEvent("t1", "web", eventsdomain.KindMessageIn, hour.Add(time.Minute)),
		outMsg("t1", "web", "u1", hour.Add(2*time.Minute), 100, 0.01),
		outMsg("t1", "web", "u1", hour.Add(3*time.Minute), 301, 0.02),
	}}
	store := &fakeAggregateStore{}
	uc := usecase.NewRollupUseCase(source, store)

	require.NoError(t, uc.AggregateHourly(context.Background(), eventsdomain.Scope{TenantID: "t1"}, hour))
	require.Len(t, store.hourly, 1)

	agg := store.hourly[0]
	assert.Equal(t, int64(1), agg.MessagesIn)
	assert.Equal(t, int64(2), agg.MessagesOut)
	require.NotNil(t, agg.AvgResponseMs)
	assert.Equal(t, int64(201), *agg.AvgResponseMs) // round(200.5)
	assert.InDelta(t, 0.03, agg.Cost, 1e-9)
	assert.Equal(t, hour, agg.HourStart)
}

func TestAggregateHourly_AllZeroCountsWritesNothing(t *testing.T) {
	hour := day.Add(3 * time.Hour)
	source := &fakeEventSource{events: []eventsdomain.Event{
		plainEvent("t1", "web", eventsdomain.KindFeedbackPositive, hour.Add(time.Minute)),
	}}
	store := &fakeAggregateStore{}
	uc := usecase.NewRollupUseCase(source, store)

	require.NoError(t, uc.AggregateHourly(context.Background(), eventsdomain.Scope{TenantID: "t1"}, hour))
	assert.Empty(t, store.hourly)
}

// ------------------------------------------------------------
// BATCH DRIVER
// ------------------------------------------------------------

func TestAggregateTenantDay_ChannelsThenTenantWide(t *testing.T) {
	source := &fakeEventSource{events: []eventsdomain.Event{
		outMsg("t1", "web", "u1", day.Add(10*time.Hour), 100, 0.01),
		outMsg("t1", "telegram", "u2", day.Add(11*time.Hour), 200, 0.02),
		// Tenant-level event with no channel: only visible tenant-wide.
		plainEvent("t1", "", eventsdomain.KindConversationStart, day.Add(10*time.Hour)),
	}}
	store := &fakeAggregateStore{}
	uc := usecase.NewRollupUseCase(source, store)

	require.NoError(t, uc.AggregateTenantDay(context.Background(), "t1", day))
	require.Len(t, store.daily, 3)

	byChannel := map[string]*domain.DailyAggregate{}
	for _, agg := range store.daily {
		byChannel[agg.Scope.ChannelID] = agg
	}

	assert.Equal(t, int64(1), byChannel["web"].MessagesOut)
	assert.Equal(t, int64(1), byChannel["telegram"].MessagesOut)

	tenantWide := byChannel[""]
	require.NotNil(t, tenantWide)
	assert.Equal(t, int64(2), tenantWide.MessagesOut)
	assert.Equal(t, int64(1), tenantWide.ConversationsStarted)
}

// When every event carries a channel, the independently computed tenant-wide
// row must equal the sum of the per-channel rows.
func TestAggregateTenantDay_TenantWideConsistentWithChannelSum(t *testing.T) {
	source := &fakeEventSource{events: []eventsdomain.Event{
		outMsg("t1", "web", "u1", day.Add(9*time.Hour), 100, 0.01),
		outMsg("t1", "web", "u1", day.Add(10*time.Hour), 150, 0.01),
		outMsg("t1", "telegram", "u2", day.Add(11*time.Hour), 200, 0.02),
		plainEvent("t1", "web", eventsdomain.KindMessageIn, day.Add(9*time.Hour)),
		plainEvent("t1", "telegram", eventsdomain.KindMessageIn, day.Add(11*time.Hour)),
	}}
	store := &fakeAggregateStore{}
	uc := usecase.NewRollupUseCase(source, store)

	require.NoError(t, uc.AggregateTenantDay(context.Background(), "t1", day))

	var tenantWide *domain.DailyAggregate
	var channelIn, channelOut int64
	var channelCost float64
	for _, agg := range store.daily {
		if agg.Scope.ChannelID == "" {
			tenantWide = agg
			continue
		}
		channelIn += agg.MessagesIn
		channelOut += agg.MessagesOut
		channelCost += agg.Cost
	}

	require.NotNil(t, tenantWide)
	assert.Equal(t, channelIn, tenantWide.MessagesIn)
	assert.Equal(t, channelOut, tenantWide.MessagesOut)
	assert.InDelta(t, channelCost, tenantWide.Cost, 1e-9)
}

func TestAggregateDateForAllTenants_ContinuesPastTenantFailure(t *testing.T) {
	source := &fakeEventSource{
		events: []eventsdomain.Event{
			outMsg("bad-tenant", "web", "u1", day.Add(10*time.Hour), 100, 0.01),
			outMsg("good-tenant", "web", "u2", day.Add(10*time.Hour), 200, 0.02),
		},
		perTenant: map[string]error{"bad-tenant": errors.New("storage down")},
	}
	store := &fakeAggregateStore{}
	uc := usecase.NewRollupUseCase(source, store)

	err := uc.AggregateDateForAllTenants(context.Background(), day)
	require.NoError(t, err, "per-tenant failures must not surface as batch failure")

	require.NotEmpty(t, store.daily)
	for _, agg := range store.daily {
		assert.Equal(t, "good-tenant", agg.Scope.TenantID)
	}
}

// ------------------------------------------------------------
// RETENTION
// ------------------------------------------------------------

func TestCleanupHourly(t *testing.T) {
	uc := usecase.NewRollupUseCase(&fakeEventSource{}, &fakeAggregateStore{})

	removed, err := uc.CleanupHourly(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, int64(7), removed)
}

func TestCleanupHourly_InvalidRetention(t *testing.T) {
	uc := usecase.NewRollupUseCase(&fakeEventSource{}, &fakeAggregateStore{})

	_, err := uc.CleanupHourly(context.Background(), 0)
	assert.Error(t, err)
}
