package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counters roll over daily and expire after counterTTL; the dashboard only
// shows recent interest, not lifetime totals.
const counterTTL = 48 * time.Hour

// ViewCounter tracks per-biodata profile views in Redis.
// Key format: views:<biodata_number>:<yyyy-mm-dd>
type ViewCounter struct {
	client *redis.Client
}

// NewViewCounter creates a ViewCounter wrapping the given Redis client.
func NewViewCounter(client *redis.Client) *ViewCounter {
	return &ViewCounter{client: client}
}

// Incr adds one view to the biodata's counter for the given day.
func (v *ViewCounter) Incr(ctx context.Context, number string, day time.Time) error {
	key := v.key(number, day)
	pipe := v.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, counterTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("incr view counter: %w", err)
	}
	return nil
}

// Count returns the biodata's view count for the given day. A missing key
// counts as zero.
func (v *ViewCounter) Count(ctx context.Context, number string, day time.Time) (int64, error) {
	n, err := v.client.Get(ctx, v.key(number, day)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read view counter: %w", err)
	}
	return n, nil
}

func (v *ViewCounter) key(number string, day time.Time) string {
	return fmt.Sprintf("views:%s:%s", number, day.UTC().Format("2006-01-02"))
}
