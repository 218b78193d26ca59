package domain

import "time"

// OverviewMetrics summarizes a tenant's activity over a date range. Nil
// pointer fields mean "insufficient data" and are never coerced to zero.
type OverviewMetrics struct {
	TotalMessages        int64
	MessagesIn           int64
	MessagesOut          int64
	ConversationsStarted int64
	ConversationsEnded   int64
	HandoffsRequested    int64
	HandoffsCompleted    int64
	Errors               int64
	ActiveUsers          int64

	AvgResponseMs *int64
	P50ResponseMs *int64
	P95ResponseMs *int64
	P99ResponseMs *int64

	ResolutionRate    float64
	ErrorRate         float64
	SatisfactionScore *float64

	TokensIn  int64
	TokensOut int64
	TotalCost float64

	MessageGrowthPct float64
	CostGrowthPct    float64
}

// TrendPoint is one day's worth of activity. Days without an aggregate are
// simply absent from a trend series, never zero-filled.
type TrendPoint struct {
	Date          time.Time
	MessagesIn    int64
	MessagesOut   int64
	Conversations int64
	Errors        int64
	AvgResponseMs *int64
	Cost          float64
	ActiveUsers   int64
}

type ChannelBreakdownRow struct {
	ChannelID     string
	Messages      int64
	SharePct      float64
	Conversations int64
	AvgResponseMs *int64
	Cost          float64
}

// PeakHourBucket is one bucket of the 24-slot hour-of-day histogram.
type PeakHourBucket struct {
	Hour     int
	Messages int64
}

type ModelCost struct {
	Model string
	Cost  float64
}

type ChannelCost struct {
	ChannelID string
	Cost      float64
	SharePct  float64
}

type CostBreakdown struct {
	TotalCost        float64
	CostByChannel    []ChannelCost
	CostByModel      []ModelCost
	EstimatedSavings float64
}

type UsageSummary struct {
	From             time.Time
	To               time.Time
	MessagesIn       int64
	MessagesOut      int64
	TokensIn         int64
	TokensOut        int64
	TotalCost        float64
	ActiveUsers      int64
	DaysWithActivity int
}
