package domain

import (
	"time"

	eventsdomain "bot-analytics-service/internal/events/core/domain"
)

// HourlyAggregate is the cheap partial-visibility tier: counts and a mean
// latency for one (scope, hour) key. Upserting the same key overwrites the
// row with a full recomputation, never an incremental delta.
type HourlyAggregate struct {
	Scope     eventsdomain.Scope
	HourStart time.Time // UTC, truncated to the hour

	MessagesIn  int64
	MessagesOut int64
	Errors      int64
	Cost        float64

	// AvgResponseMs is nil when no outgoing message carried a latency.
	AvgResponseMs *int64
}

// DailyAggregate is the durable historical tier, keyed by (scope, date).
// Nil statistic pointers mean "no data", which is distinct from zero.
type DailyAggregate struct {
	Scope eventsdomain.Scope
	Date  time.Time // UTC midnight

	MessagesIn           int64
	MessagesOut          int64
	ConversationsStarted int64
	ConversationsEnded   int64
	HandoffsRequested    int64
	HandoffsCompleted    int64
	Errors               int64
	FeedbackPositive     int64
	FeedbackNegative     int64

	AvgResponseMs *int64
	P50ResponseMs *int64
	P95ResponseMs *int64
	P99ResponseMs *int64

	TokensIn  int64
	TokensOut int64
	Cost      float64

	ActiveUsers int64

	// PeakHour is the UTC hour-of-day with the most messages; nil when the
	// day had no messages at all.
	PeakHour         *int
	PeakHourMessages int64
}
