package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/biyeshadi/matrimony-system/internal/core/ports"
)

// ViewCounter abstracts the per-biodata view counters (Redis).
type ViewCounter interface {
	Incr(ctx context.Context, number string, day time.Time) error
	Count(ctx context.Context, number string, day time.Time) (int64, error)
}

type viewStatsService struct {
	counter ViewCounter
	log     zerolog.Logger
}

// NewViewStatsService returns a ViewStatsService implementation backed by the
// given counter store.
func NewViewStatsService(counter ViewCounter, log zerolog.Logger) ports.ViewStatsService {
	return &viewStatsService{counter: counter, log: log}
}

// Process folds one profile-view event into the day's counter. Stats are
// best-effort: failures are logged and dropped, never retried.
func (s *viewStatsService) Process(ctx context.Context, event ports.ProfileViewEvent) error {
	if err := s.counter.Incr(ctx, event.Number, event.ViewedAt); err != nil {
		return fmt.Errorf("count profile view: %w", err)
	}
	s.log.Debug().Str("number", event.Number).Msg("profile view counted")
	return nil
}
