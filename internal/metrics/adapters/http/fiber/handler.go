package fiber

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	metricsdomain "bot-analytics-service/internal/metrics/core/domain"
	"bot-analytics-service/internal/metrics/core/usecase"
)

const dateLayout = "2006-01-02"

type MetricsQueryUseCase interface {
	Overview(ctx context.Context, tenantID string, from, to time.Time) (*metricsdomain.OverviewMetrics, error)
	Trends(ctx context.Context, tenantID string, from, to time.Time) ([]metricsdomain.TrendPoint, error)
	Channels(ctx context.Context, tenantID string, from, to time.Time) ([]metricsdomain.ChannelBreakdownRow, error)
	PeakHours(ctx context.Context, tenantID string, from, to time.Time) ([]metricsdomain.PeakHourBucket, error)
	Costs(ctx context.Context, tenantID string, from, to time.Time) (*metricsdomain.CostBreakdown, error)
	Usage(ctx context.Context, tenantID string, from, to time.Time) (*metricsdomain.UsageSummary, error)
	ExportCSV(ctx context.Context, tenantID string, from, to time.Time) ([]byte, error)
}

type RollupTriggerUseCase interface {
	AggregateDateForAllTenants(ctx context.Context, date time.Time) error
}

type MetricsHandler struct {
	metricsUC MetricsQueryUseCase
	rollupUC  RollupTriggerUseCase
}

func NewMetricsHandler(metricsUC MetricsQueryUseCase, rollupUC RollupTriggerUseCase) *MetricsHandler {
	return &MetricsHandler{metricsUC: metricsUC, rollupUC: rollupUC}
}

// GetOverview godoc
// @Summary Tenant activity overview
// @Description Headline metrics over a date range with growth against the preceding equal-length period
// @Tags Metrics
// @Produce json
// @Param tenant_id query string true "Tenant ID"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} OverviewResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /metrics/overview [get]
func (h *MetricsHandler) GetOverview(c *fiber.Ctx) error {
	tenantID, from, to, err := parseQuery(c)
	if err != nil {
		return badRequest(c, err)
	}

	res, err := h.metricsUC.Overview(c.UserContext(), tenantID, from, to)
	if err != nil {
		return usecaseError(c, err)
	}

	return c.Status(http.StatusOK).JSON(toOverviewResponse(res))
}

// GetTrends godoc
// @Summary Daily trend series
// @Description One point per day with recorded activity; days without data are absent, not zero-filled
// @Tags Metrics
// @Produce json
// @Param tenant_id query string true "Tenant ID"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} TrendsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /metrics/trends [get]
func (h *MetricsHandler) GetTrends(c *fiber.Ctx) error {
	tenantID, from, to, err := parseQuery(c)
	if err != nil {
		return badRequest(c, err)
	}

	points, err := h.metricsUC.Trends(c.UserContext(), tenantID, from, to)
	if err != nil {
		return usecaseError(c, err)
	}

	resp := TrendsResponse{Points: make([]TrendPointResponse, 0, len(points))}
	for _, p := range points {
		resp.Points = append(resp.Points, TrendPointResponse{
			Date:          p.Date.Format(dateLayout),
			MessagesIn:    p.MessagesIn,
			MessagesOut:   p.MessagesOut,
			Conversations: p.Conversations,
			Errors:        p.Errors,
			AvgResponseMs: p.AvgResponseMs,
			Cost:          p.Cost,
			ActiveUsers:   p.ActiveUsers,
		})
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// GetChannels godoc
// @Summary Per-channel breakdown
// @Description Channel activity over the range, sorted by message volume
// @Tags Metrics
// @Produce json
// @Param tenant_id query string true "Tenant ID"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} ChannelsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /metrics/channels [get]
func (h *MetricsHandler) GetChannels(c *fiber.Ctx) error {
	tenantID, from, to, err := parseQuery(c)
	if err != nil {
		return badRequest(c, err)
	}

	rows, err := h.metricsUC.Channels(c.UserContext(), tenantID, from, to)
	if err != nil {
		return usecaseError(c, err)
	}

	resp := ChannelsResponse{Channels: make([]ChannelBreakdownResponse, 0, len(rows))}
	for _, r := range rows {
		resp.Channels = append(resp.Channels, ChannelBreakdownResponse{
			ChannelID:     r.ChannelID,
			Messages:      r.Messages,
			SharePct:      r.SharePct,
			Conversations: r.Conversations,
			AvgResponseMs: r.AvgResponseMs,
			Cost:          r.Cost,
		})
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// GetPeakHours godoc
// @Summary Hour-of-day activity histogram
// @Description 24 buckets of message volume by hour of day across the range
// @Tags Metrics
// @Produce json
// @Param tenant_id query string true "Tenant ID"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} PeakHoursResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /metrics/peak-hours [get]
func (h *MetricsHandler) GetPeakHours(c *fiber.Ctx) error {
	tenantID, from, to, err := parseQuery(c)
	if err != nil {
		return badRequest(c, err)
	}

	buckets, err := h.metricsUC.PeakHours(c.UserContext(), tenantID, from, to)
	if err != nil {
		return usecaseError(c, err)
	}

	resp := PeakHoursResponse{Buckets: make([]PeakHourBucketResponse, 0, len(buckets))}
	for _, b := range buckets {
		resp.Buckets = append(resp.Buckets, PeakHourBucketResponse{Hour: b.Hour, Messages: b.Messages})
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// GetCosts godoc
// @Summary Cost breakdown
// @Description Total spend, per-channel and per-model splits, and estimated savings
// @Tags Metrics
// @Produce json
// @Param tenant_id query string true "Tenant ID"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} CostsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /metrics/costs [get]
func (h *MetricsHandler) GetCosts(c *fiber.Ctx) error {
	tenantID, from, to, err := parseQuery(c)
	if err != nil {
		return badRequest(c, err)
	}

	res, err := h.metricsUC.Costs(c.UserContext(), tenantID, from, to)
	if err != nil {
		return usecaseError(c, err)
	}

	resp := CostsResponse{
		TotalCost:        res.TotalCost,
		CostByChannel:    make([]ChannelCostResponse, 0, len(res.CostByChannel)),
		CostByModel:      make([]ModelCostResponse, 0, len(res.CostByModel)),
		EstimatedSavings: res.EstimatedSavings,
	}
	for _, ch := range res.CostByChannel {
		resp.CostByChannel = append(resp.CostByChannel, ChannelCostResponse{
			ChannelID: ch.ChannelID,
			Cost:      ch.Cost,
			SharePct:  ch.SharePct,
		})
	}
	for _, m := range res.CostByModel {
		resp.CostByModel = append(resp.CostByModel, ModelCostResponse{Model: m.Model, Cost: m.Cost})
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// GetUsage godoc
// @Summary Usage summary
// @Description Volume and spend totals for the range
// @Tags Metrics
// @Produce json
// @Param tenant_id query string true "Tenant ID"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} UsageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /metrics/usage [get]
func (h *MetricsHandler) GetUsage(c *fiber.Ctx) error {
	tenantID, from, to, err := parseQuery(c)
	if err != nil {
		return badRequest(c, err)
	}

	res, err := h.metricsUC.Usage(c.UserContext(), tenantID, from, to)
	if err != nil {
		return usecaseError(c, err)
	}

	return c.Status(http.StatusOK).JSON(UsageResponse{
		From:             res.From.Format(dateLayout),
		To:               res.To.Format(dateLayout),
		MessagesIn:       res.MessagesIn,
		MessagesOut:      res.MessagesOut,
		TokensIn:         res.TokensIn,
		TokensOut:        res.TokensOut,
		TotalCost:        res.TotalCost,
		ActiveUsers:      res.ActiveUsers,
		DaysWithActivity: res.DaysWithActivity,
	})
}

// ExportMetrics godoc
// @Summary Export daily aggregates as CSV
// @Description Tenant-wide and per-channel daily rows for the range, one CSV row each
// @Tags Metrics
// @Produce text/csv
// @Param tenant_id query string true "Tenant ID"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {string} string "CSV payload"
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /metrics/export [get]
func (h *MetricsHandler) ExportMetrics(c *fiber.Ctx) error {
	tenantID, from, to, err := parseQuery(c)
	if err != nil {
		return badRequest(c, err)
	}

	raw, err := h.metricsUC.ExportCSV(c.UserContext(), tenantID, from, to)
	if err != nil {
		return usecaseError(c, err)
	}

	filename := fmt.Sprintf("metrics_%s_%s_%s.csv", tenantID, from.Format(dateLayout), to.Format(dateLayout))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Status(http.StatusOK).Send(raw)
}

// TriggerRollup godoc
// @Summary Run the rollup batch for a date
// @Description Aggregates the given date (default: yesterday, UTC) for all active tenants
// @Tags Jobs
// @Produce json
// @Param date query string false "Date to aggregate (YYYY-MM-DD)"
// @Success 200 {object} RollupJobResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /jobs/rollup [post]
func (h *MetricsHandler) TriggerRollup(c *fiber.Ctx) error {
	date := time.Now().UTC().AddDate(0, 0, -1)
	if raw := c.Query("date", ""); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return badRequest(c, errors.New("invalid 'date' parameter"))
		}
		date = parsed
	}

	if err := h.rollupUC.AggregateDateForAllTenants(c.UserContext(), date); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}

	return c.Status(http.StatusOK).JSON(RollupJobResponse{
		Status: "completed",
		Date:   date.Format(dateLayout),
	})
}

func parseQuery(c *fiber.Ctx) (string, time.Time, time.Time, error) {
	tenantID := c.Query("tenant_id", "")
	if tenantID == "" {
		return "", time.Time{}, time.Time{}, errors.New("tenant_id is required")
	}

	fromStr := c.Query("from", "")
	toStr := c.Query("to", "")
	if fromStr == "" || toStr == "" {
		return "", time.Time{}, time.Time{}, errors.New("from and to are required")
	}

	from, err := time.Parse(dateLayout, fromStr)
	if err != nil {
		return "", time.Time{}, time.Time{}, errors.New("invalid 'from' parameter")
	}
	to, err := time.Parse(dateLayout, toStr)
	if err != nil {
		return "", time.Time{}, time.Time{}, errors.New("invalid 'to' parameter")
	}
	return tenantID, from, to, nil
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Error:   "invalid_query",
		Message: err.Error(),
	})
}

func usecaseError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidTenant),
		errors.Is(err, usecase.ErrInvalidDateRange):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}
