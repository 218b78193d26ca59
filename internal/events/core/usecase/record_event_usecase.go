package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"bot-analytics-service/internal/events/core/domain"
	"bot-analytics-service/internal/events/core/ports"
)

type RecordEventUseCase struct {
	writer ports.EventWriterPort
}

func NewRecordEventUseCase(writer ports.EventWriterPort) *RecordEventUseCase {
	return &RecordEventUseCase{writer: writer}
}

type RecordEventInput struct {
	TenantID    string
	WorkspaceID string
	ChannelID   string
	Kind        string
	OccurredAt  int64 // unix second; zero means "now"

	ResponseTimeMs *int64
	InputTokens    int64
	OutputTokens   int64
	Cost           float64

	UserID string
	Model  string
	Detail string
}

// Record appends a single event. It is fire-and-forget: a persistence
// failure or an unknown kind is logged and swallowed so the caller's
// primary workflow can never be aborted by analytics.
func (uc *RecordEventUseCase) Record(ctx context.Context, in RecordEventInput) {
	e, ok := buildEvent(in)
	if !ok {
		return
	}

	if err := uc.writer.AppendEvent(ctx, e); err != nil {
		log.Err(err).
			Str("tenant_id", in.TenantID).
			Str("kind", in.Kind).
			Msg("failed to record event")
	}
}

// RecordBatch appends many events in one storage operation. Inputs with an
// unknown kind are dropped; a persistence failure is logged and swallowed.
func (uc *RecordEventUseCase) RecordBatch(ctx context.Context, ins []RecordEventInput) {
	events := make([]*domain.Event, 0, len(ins))
	for _, in := range ins {
		if e, ok := buildEvent(in); ok {
			events = append(events, e)
		}
	}

	if len(events) == 0 {
		return
	}

	if err := uc.writer.AppendEventsBatch(ctx, events); err != nil {
		log.Err(err).
			Int("count", len(events)).
			Msg("failed to record event batch")
	}
}

func buildEvent(in RecordEventInput) (*domain.Event, bool) {
	kind := domain.EventKind(in.Kind)
	if in.TenantID == "" || !kind.Valid() {
		log.Warn().
			Str("tenant_id", in.TenantID).
			Str("kind", in.Kind).
			Msg("dropping event with missing tenant or unknown kind")
		return nil, false
	}

	occurredAt := time.Now().UTC()
	if in.OccurredAt > 0 {
		occurredAt = time.Unix(in.OccurredAt, 0).UTC()
	}

	return &domain.Event{
		ID: uuid.New(),
		Scope: domain.Scope{
			TenantID:    in.TenantID,
			WorkspaceID: in.WorkspaceID,
			ChannelID:   in.ChannelID,
		},
		Kind:           kind,
		OccurredAt:     occurredAt,
		ResponseTimeMs: in.ResponseTimeMs,
		InputTokens:    in.InputTokens,
		OutputTokens:   in.OutputTokens,
		Cost:           in.Cost,
		Meta: domain.Metadata{
			UserID: in.UserID,
			Model:  in.Model,
			Detail: in.Detail,
		},
	}, true
}
