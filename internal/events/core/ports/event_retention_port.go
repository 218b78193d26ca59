package ports

import (
	"context"
	"time"
)

type EventRetentionPort interface {
	// DeleteEventsBefore removes raw events older than cutoff and reports
	// how many rows were removed.
	DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
