package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/biyeshadi/matrimony-system/internal/api/metrics"
	"github.com/biyeshadi/matrimony-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes profile-view events to a fixed set of workers using
// consistent hashing on the biodata number, so counters for one profile are
// always applied in order by the same worker.
type Dispatcher struct {
	workers []chan ports.ProfileViewEvent
	service ports.ViewStatsService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ViewStatsService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ProfileViewEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ProfileViewEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an event for the worker responsible for its biodata.
// When that worker's buffer is full the event is dropped: view stats are
// best-effort and must never block a profile request.
func (d *Dispatcher) Record(event ports.ProfileViewEvent) {
	idx := d.shardIndex(event.Number)
	select {
	case d.workers[idx] <- event:
	default:
		metrics.ViewEventsDroppedTotal.Inc()
		d.log.Warn().Str("number", event.Number).Int("worker_id", idx).Msg("view event dropped, worker buffer full")
	}
}

// shardIndex maps a biodata number deterministically to a worker index.
func (d *Dispatcher) shardIndex(number string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(number))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ProfileViewEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Process(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("number", event.Number).
					Int("worker_id", id).
					Msg("view event processing failed")
			}
		}
	}
}
