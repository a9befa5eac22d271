package syncq

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/vigiahq/vigia/internal/models"
	"github.com/vigiahq/vigia/internal/store"
)

// Mode controls whether a sync pass is user-visible.
type Mode string

const (
	// ModeSilent suppresses caller-facing reporting; internal counters
	// still update.
	ModeSilent Mode = "silent"
	// ModeInteractive surfaces the pass report to the caller.
	ModeInteractive Mode = "interactive"
)

// Status summarizes one sync pass.
type Status string

const (
	// StatusIdle means there was nothing to deliver.
	StatusIdle Status = "idle"
	// StatusOffline means the transport reported no connectivity; the
	// pass aborted without side effects.
	StatusOffline Status = "offline"
	// StatusComplete means every attempted record was delivered.
	StatusComplete Status = "complete"
	// StatusPartial means at least one record failed and stays pending.
	StatusPartial Status = "partial"
)

// Report is the outcome of one sync pass.
type Report struct {
	Status    Status
	Mode      Mode
	Delivered int
	Failed    int
}

// ErrSyncInFlight rejects a sync call while another pass is running.
// Serialization, not queuing: the caller retries later.
var ErrSyncInFlight = errors.New("syncq: a sync pass is already running")

// Sync runs one serialized delivery pass. Records are attempted in the
// store's listing order, strictly sequentially; each attempt fully resolves
// (acknowledge-and-delete, or leave pending) before the next begins, so a
// mid-pass crash leaves at most one record's delivery status ambiguous.
// One record's failure never aborts the batch.
func (q *Queue) Sync(ctx context.Context, mode Mode) (*Report, error) {
	if !q.syncMu.TryLock() {
		return nil, ErrSyncInFlight
	}
	defer q.syncMu.Unlock()

	report := &Report{Mode: mode}

	entries, err := q.store.ListAll(store.NamespaceQueue, q.scanLimit)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		report.Status = StatusIdle
		return report, nil
	}
	if !q.transport.Online(ctx) {
		report.Status = StatusOffline
		return report, nil
	}

	for _, e := range entries {
		var rec models.SubmissionRecord
		if err := json.Unmarshal(e.Value, &rec); err != nil {
			// Undecodable entries stay put and count as failures so
			// they are never silently dropped.
			log.Printf("syncq: decode pending record %s: %v", e.Key, err)
			report.Failed++
			continue
		}
		if err := q.transport.Submit(ctx, rec); err != nil {
			log.Printf("syncq: deliver %s: %v", rec.ID, err)
			report.Failed++
			continue
		}
		if err := q.store.Delete(store.NamespaceQueue, rec.ID); err != nil {
			// Delivered but not deleted: the idempotency key makes the
			// inevitable retry a safe no-op on the server.
			log.Printf("syncq: delete delivered record %s: %v", rec.ID, err)
			report.Failed++
			continue
		}
		report.Delivered++
	}

	if report.Failed > 0 {
		report.Status = StatusPartial
	} else {
		report.Status = StatusComplete
	}

	now := q.now()
	q.statsMu.Lock()
	q.totalDelivered += report.Delivered
	q.totalFailed += report.Failed
	q.lastSync = now
	q.statsMu.Unlock()

	if err := q.store.Put(store.NamespaceCache, lastSyncKey, []byte(now.Format(time.RFC3339))); err != nil {
		log.Printf("syncq: persist last sync time: %v", err)
	}

	return report, nil
}
