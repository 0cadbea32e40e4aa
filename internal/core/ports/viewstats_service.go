package ports

import (
	"context"
	"time"
)

// ProfileViewEvent is emitted whenever a non-owner views a profile page.
// Processed asynchronously; losing one under load is acceptable.
type ProfileViewEvent struct {
	Number   string // biodata number
	ViewerID string // empty for anonymous browsers
	ViewedAt time.Time
}

// ViewStatsService processes profile-view events into counters.
type ViewStatsService interface {
	Process(ctx context.Context, event ProfileViewEvent) error
}
