package usecase

import (
	"context"
	"time"

	metricsdomain "bot-analytics-service/internal/metrics/core/domain"
	"bot-analytics-service/internal/money"
)

// Costs combines the channel-level cost split over the requested range with
// a model-level split from a short trailing raw-event window, plus the
// estimated savings against the human-handling baseline.
func (uc *MetricsUseCase) Costs(ctx context.Context, tenantID string, from, to time.Time) (*metricsdomain.CostBreakdown, error) {
	from, to, err := validateRange(tenantID, from, to)
	if err != nil {
		return nil, err
	}

	rows, err := uc.aggregates.QueryDailyTenant(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	var totalCost money.Accumulator
	var messagesOut int64
	for _, r := range rows {
		totalCost.Add(r.Cost)
		messagesOut += r.MessagesOut
	}

	channels, err := uc.Channels(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	var channelTotal money.Accumulator
	for _, ch := range channels {
		channelTotal.Add(ch.Cost)
	}

	byChannel := make([]metricsdomain.ChannelCost, 0, len(channels))
	for _, ch := range channels {
		cc := metricsdomain.ChannelCost{ChannelID: ch.ChannelID, Cost: ch.Cost}
		if t := channelTotal.Float64(); t > 0 {
			cc.SharePct = ch.Cost / t * 100
		}
		byChannel = append(byChannel, cc)
	}

	// Model granularity is not preserved in the daily tier, so this is the
	// one bounded raw-event read the calculator performs.
	now := uc.now()
	byModel, err := uc.costEvents.CostByModel(ctx, tenantID, now.AddDate(0, 0, -uc.cfg.CostModelWindowDays), now)
	if err != nil {
		return nil, err
	}

	return &metricsdomain.CostBreakdown{
		TotalCost:        totalCost.Float64(),
		CostByChannel:    byChannel,
		CostByModel:      byModel,
		EstimatedSavings: estimatedSavings(uc.cfg.HumanCostPerMessage, messagesOut, totalCost.Float64()),
	}, nil
}

// estimatedSavings is floored at zero: a bot that costs more than the
// assumed human alternative reports 0, not a negative number.
func estimatedSavings(humanCostPerMessage float64, messagesOut int64, actualCost float64) float64 {
	baseline := money.Mul(humanCostPerMessage, float64(messagesOut))
	savings := baseline - actualCost
	if savings < 0 {
		return 0
	}
	return savings
}
