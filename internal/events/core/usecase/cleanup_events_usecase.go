package usecase

import (
	"context"
	"errors"
	"time"

	"bot-analytics-service/internal/events/core/ports"
)

var ErrInvalidRetention = errors.New("retention days must be positive")

type CleanupEventsUseCase struct {
	retention ports.EventRetentionPort
}

func NewCleanupEventsUseCase(retention ports.EventRetentionPort) *CleanupEventsUseCase {
	return &CleanupEventsUseCase{retention: retention}
}

// Execute deletes raw events older than retentionDays and returns the number
// removed. Safe to re-run: a second run simply deletes nothing further.
func (uc *CleanupEventsUseCase) Execute(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, ErrInvalidRetention
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	return uc.retention.DeleteEventsBefore(ctx, cutoff)
}
