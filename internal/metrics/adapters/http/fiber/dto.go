package fiber

import (
	metricsdomain "bot-analytics-service/internal/metrics/core/domain"
)

// OverviewResponse is the headline metrics payload. Nullable fields carry
// JSON null when there is not enough data to compute them.
type OverviewResponse struct {
	TotalMessages        int64 `json:"total_messages"`
	MessagesIn           int64 `json:"messages_in"`
	MessagesOut          int64 `json:"messages_out"`
	ConversationsStarted int64 `json:"conversations_started"`
	ConversationsEnded   int64 `json:"conversations_ended"`
	HandoffsRequested    int64 `json:"handoffs_requested"`
	HandoffsCompleted    int64 `json:"handoffs_completed"`
	Errors               int64 `json:"errors"`
	ActiveUsers          int64 `json:"active_users"`

	AvgResponseMs *int64 `json:"avg_response_ms"`
	P50ResponseMs *int64 `json:"p50_response_ms"`
	P95ResponseMs *int64 `json:"p95_response_ms"`
	P99ResponseMs *int64 `json:"p99_response_ms"`

	ResolutionRate    float64  `json:"resolution_rate"`
	ErrorRate         float64  `json:"error_rate"`
	SatisfactionScore *float64 `json:"satisfaction_score"`

	TokensIn  int64   `json:"tokens_in"`
	TokensOut int64   `json:"tokens_out"`
	TotalCost float64 `json:"total_cost"`

	MessageGrowthPct float64 `json:"message_growth_pct"`
	CostGrowthPct    float64 `json:"cost_growth_pct"`
}

type TrendPointResponse struct {
	Date          string  `json:"date"`
	MessagesIn    int64   `json:"messages_in"`
	MessagesOut   int64   `json:"messages_out"`
	Conversations int64   `json:"conversations"`
	Errors        int64   `json:"errors"`
	AvgResponseMs *int64  `json:"avg_response_ms"`
	Cost          float64 `json:"cost"`
	ActiveUsers   int64   `json:"active_users"`
}

type TrendsResponse struct {
	Points []TrendPointResponse `json:"points"`
}

type ChannelBreakdownResponse struct {
	ChannelID     string  `json:"channel_id"`
	Messages      int64   `json:"messages"`
	SharePct      float64 `json:"share_pct"`
	Conversations int64   `json:"conversations"`
	AvgResponseMs *int64  `json:"avg_response_ms"`
	Cost          float64 `json:"cost"`
}

type ChannelsResponse struct {
	Channels []ChannelBreakdownResponse `json:"channels"`
}

type PeakHourBucketResponse struct {
	Hour     int   `json:"hour"`
	Messages int64 `json:"messages"`
}

type PeakHoursResponse struct {
	Buckets []PeakHourBucketResponse `json:"buckets"`
}

type ChannelCostResponse struct {
	ChannelID string  `json:"channel_id"`
	Cost      float64 `json:"cost"`
	SharePct  float64 `json:"share_pct"`
}

type ModelCostResponse struct {
	Model string  `json:"model"`
	Cost  float64 `json:"cost"`
}

type CostsResponse struct {
	TotalCost        float64               `json:"total_cost"`
	CostByChannel    []ChannelCostResponse `json:"cost_by_channel"`
	CostByModel      []ModelCostResponse   `json:"cost_by_model"`
	EstimatedSavings float64               `json:"estimated_savings"`
}

type UsageResponse struct {
	From             string  `json:"from"`
	To               string  `json:"to"`
	MessagesIn       int64   `json:"messages_in"`
	MessagesOut      int64   `json:"messages_out"`
	TokensIn         int64   `json:"tokens_in"`
	TokensOut        int64   `json:"tokens_out"`
	TotalCost        float64 `json:"total_cost"`
	ActiveUsers      int64   `json:"active_users"`
	DaysWithActivity int     `json:"days_with_activity"`
}

type RollupJobResponse struct {
	Status string `json:"status"`
	Date   string `json:"date"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_query"`
	Message string `json:"message,omitempty" example:"tenant_id is required"`
}

func toOverviewResponse(m *metricsdomain.OverviewMetrics) OverviewResponse {
	return OverviewResponse{
		TotalMessages:        m.TotalMessages,
		MessagesIn:           m.MessagesIn,
		MessagesOut:          m.MessagesOut,
		ConversationsStarted: m.ConversationsStarted,
		ConversationsEnded:   m.ConversationsEnded,
		HandoffsRequested:    m.HandoffsRequested,
		HandoffsCompleted:    m.HandoffsCompleted,
		Errors:               m.Errors,
		ActiveUsers:          m.ActiveUsers,
		AvgResponseMs:        m.AvgResponseMs,
		P50ResponseMs:        m.P50ResponseMs,
		P95ResponseMs:        m.P95ResponseMs,
		P99ResponseMs:        m.P99ResponseMs,
		ResolutionRate:       m.ResolutionRate,
		ErrorRate:            m.ErrorRate,
		SatisfactionScore:    m.SatisfactionScore,
		TokensIn:             m.TokensIn,
		TokensOut:            m.TokensOut,
		TotalCost:            m.TotalCost,
		MessageGrowthPct:     m.MessageGrowthPct,
		CostGrowthPct:        m.CostGrowthPct,
	}
}
