package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"bot-analytics-service/internal/events/core/usecase"
)

// Recorder is the slice of RecordEventUseCase the consumer needs.
type Recorder interface {
	RecordBatch(ctx context.Context, ins []usecase.RecordEventInput)
}

// messageReader abstracts *kafka.Reader so the consume loop is testable.
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// eventEnvelope is the JSON wire format of an event on the ingest topic.
// It mirrors the HTTP ingestion DTO.
type eventEnvelope struct {
	TenantID    string `json:"tenant_id"`
	WorkspaceID string `json:"workspace_id,omitempty"`
	ChannelID   string `json:"channel_id,omitempty"`
	Kind        string `json:"kind"`
	OccurredAt  int64  `json:"occurred_at,omitempty"`

	ResponseTimeMs *int64  `json:"response_time_ms,omitempty"`
	InputTokens    int64   `json:"input_tokens,omitempty"`
	OutputTokens   int64   `json:"output_tokens,omitempty"`
	Cost           float64 `json:"cost,omitempty"`

	UserID string `json:"user_id,omitempty"`
	Model  string `json:"model,omitempty"`
	Detail string `json:"detail,omitempty"`
}

type Consumer struct {
	reader     messageReader
	recorder   Recorder
	batchSize  int
	flushEvery time.Duration
}

// NewConsumer creates a consumer reading event envelopes from the given topic.
func NewConsumer(brokers []string, topic, groupID string, recorder Recorder) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	return &Consumer{
		reader:     reader,
		recorder:   recorder,
		batchSize:  100,
		flushEvery: 2 * time.Second,
	}
}

// Run consumes until ctx is cancelled. Malformed messages are logged and
// dropped; the fire-and-forget contract of the recorder extends to the
// transport, so nothing here ever propagates an ingestion error upstream.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	type readResult struct {
		msg kafka.Message
		err error
	}

	reads := make(chan readResult)
	go func() {
		for {
			msg, err := c.reader.ReadMessage(ctx)
			select {
			case reads <- readResult{msg: msg, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil && ctx.Err() != nil {
				return
			}
		}
	}()

	buf := make([]usecase.RecordEventInput, 0, c.batchSize)
	ticker := time.NewTicker(c.flushEvery)
	defer ticker.Stop()

	flush := func() {
		if len(buf) == 0 {
			return
		}
		c.recorder.RecordBatch(ctx, buf)
		buf = buf[:0]
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return ctx.Err()

		case <-ticker.C:
			flush()

		case r := <-reads:
			if r.err != nil {
				if ctx.Err() != nil {
					flush()
					return ctx.Err()
				}
				log.Warn().Err(r.err).Msg("kafka read error")
				continue
			}

			in, err := decodeEnvelope(r.msg.Value)
			if err != nil {
				log.Warn().Err(err).
					Str("topic", r.msg.Topic).
					Int64("offset", r.msg.Offset).
					Msg("dropping malformed event envelope")
				continue
			}

			buf = append(buf, in)
			if len(buf) >= c.batchSize {
				flush()
			}
		}
	}
}

func decodeEnvelope(raw []byte) (usecase.RecordEventInput, error) {
	var env eventEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return usecase.RecordEventInput{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.TenantID == "" {
		return usecase.RecordEventInput{}, fmt.Errorf("envelope missing tenant_id")
	}

	return usecase.RecordEventInput{
		TenantID:       env.TenantID,
		WorkspaceID:    env.WorkspaceID,
		ChannelID:      env.ChannelID,
		Kind:           env.Kind,
		OccurredAt:     env.OccurredAt,
		ResponseTimeMs: env.ResponseTimeMs,
		InputTokens:    env.InputTokens,
		OutputTokens:   env.OutputTokens,
		Cost:           env.Cost,
		UserID:         env.UserID,
		Model:          env.Model,
		Detail:         env.Detail,
	}, nil
}
