package fiber

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"bot-analytics-service/internal/events/core/usecase"
)

type RecordEventUseCase interface {
	Record(ctx context.Context, in usecase.RecordEventInput)
	RecordBatch(ctx context.Context, ins []usecase.RecordEventInput)
}

type EventHandler struct {
	recordUC RecordEventUseCase
}

func NewEventHandler(recordUC RecordEventUseCase) *EventHandler {
	return &EventHandler{recordUC: recordUC}
}

// RecordEvent godoc
// @Summary Record an analytics event
// @Description Accepts a single event. Recording is fire-and-forget: the response never reflects persistence failures.
// @Tags Events
// @Accept json
// @Produce json
// @Param request body RecordEventRequest true "Event payload"
// @Success 202 {object} RecordEventResponse
// @Failure 400 {object} ErrorResponse
// @Router /events [post]
func (h *EventHandler) RecordEvent(c *fiber.Ctx) error {
	var req RecordEventRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	h.recordUC.Record(c.UserContext(), toInput(req))

	return c.Status(http.StatusAccepted).JSON(RecordEventResponse{
		Status: "accepted",
	})
}

// BulkRecordEvents godoc
// @Summary Record a batch of analytics events
// @Description Accepts a list of events and persists them in one operation.
// @Tags Events
// @Accept json
// @Produce json
// @Param request body BulkRecordEventsRequest true "Bulk event payload"
// @Success 202 {object} BulkRecordEventsResponse
// @Failure 400 {object} ErrorResponse
// @Router /events/bulk [post]
func (h *EventHandler) BulkRecordEvents(c *fiber.Ctx) error {
	var req BulkRecordEventsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	if len(req.Events) == 0 {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "events_list_required",
		})
	}

	inputs := make([]usecase.RecordEventInput, len(req.Events))
	for i, e := range req.Events {
		inputs[i] = toInput(e)
	}

	h.recordUC.RecordBatch(c.UserContext(), inputs)

	return c.Status(http.StatusAccepted).JSON(BulkRecordEventsResponse{
		Accepted: len(inputs),
	})
}

func toInput(req RecordEventRequest) usecase.RecordEventInput {
	return usecase.RecordEventInput{
		TenantID:       req.TenantID,
		WorkspaceID:    req.WorkspaceID,
		ChannelID:      req.ChannelID,
		Kind:           req.Kind,
		OccurredAt:     req.OccurredAt,
		ResponseTimeMs: req.ResponseTimeMs,
		InputTokens:    req.InputTokens,
		OutputTokens:   req.OutputTokens,
		Cost:           req.Cost,
		UserID:         req.UserID,
		Model:          req.Model,
		Detail:         req.Detail,
	}
}
