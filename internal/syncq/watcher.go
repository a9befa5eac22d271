package syncq

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sethvargo/go-retry"
)

// Watcher triggers a silent sync pass on each offline-to-online transition,
// replacing the browser's online event with periodic connectivity probes.
type Watcher struct {
	queue *Queue

	// ProbeInterval is the base probe cadence while online; while offline
	// the probe backs off along a fibonacci schedule capped at MaxBackoff.
	ProbeInterval time.Duration
	MaxBackoff    time.Duration
}

// NewWatcher builds a watcher over the queue's transport.
func NewWatcher(q *Queue) *Watcher {
	return &Watcher{
		queue:         q,
		ProbeInterval: 15 * time.Second,
		MaxBackoff:    5 * time.Minute,
	}
}

var errStillOffline = errors.New("still offline")

// Run blocks until ctx is done, probing connectivity and flushing the queue
// whenever the link comes back.
func (w *Watcher) Run(ctx context.Context) {
	online := w.queue.transport.Online(ctx)
	for {
		if ctx.Err() != nil {
			return
		}
		if online {
			// Cheap steady-state poll until the link drops.
			if !w.sleep(ctx, w.ProbeInterval) {
				return
			}
			online = w.queue.transport.Online(ctx)
			continue
		}

		// Offline: back off between probes until connectivity returns.
		backoff := retry.WithCappedDuration(w.MaxBackoff, retry.NewFibonacci(w.ProbeInterval))
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			if w.queue.transport.Online(ctx) {
				return nil
			}
			return retry.RetryableError(errStillOffline)
		})
		if err != nil {
			return // context cancelled
		}
		online = true
		w.flush(ctx)
	}
}

func (w *Watcher) flush(ctx context.Context) {
	report, err := w.queue.Sync(ctx, ModeSilent)
	if err != nil {
		if !errors.Is(err, ErrSyncInFlight) {
			log.Printf("syncq watcher: sync: %v", err)
		}
		return
	}
	if report.Delivered > 0 || report.Failed > 0 {
		log.Printf("syncq watcher: flushed queue: delivered=%d failed=%d", report.Delivered, report.Failed)
	}
}

func (w *Watcher) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
