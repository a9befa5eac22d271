// Package syncq orchestrates the offline-durable submission pipeline:
// record creation (validate, classify, persist) and the serialized sync
// pass that reconciles pending records with the remote endpoint under an
// idempotent at-least-once delivery model.
package syncq

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vigiahq/vigia/internal/eligibility"
	"github.com/vigiahq/vigia/internal/models"
	"github.com/vigiahq/vigia/internal/semaforo"
	"github.com/vigiahq/vigia/internal/store"
	"github.com/vigiahq/vigia/internal/transport"
)

// RecordStore is the slice of the durable store the queue needs. Only this
// package writes to the queue namespace.
type RecordStore interface {
	Put(ns store.Namespace, key string, value []byte) error
	Get(ns store.Namespace, key string) ([]byte, error)
	Delete(ns store.Namespace, key string) error
	ListAll(ns store.Namespace, limit int) ([]store.Entry, error)
	Count(ns store.Namespace) (int, error)
}

// lastSyncKey is the cache entry recording when the last sync pass ran,
// persisted so a fresh process can report it.
const lastSyncKey = "last_sync"

// ErrNoSession rejects record creation without an authenticated session.
var ErrNoSession = errors.New("syncq: no active session")

// Queue owns the queue namespace of the durable store and runs sync passes
// against the transport.
type Queue struct {
	store     RecordStore
	transport transport.Transport

	now   func() time.Time
	idGen func() string

	scanLimit int

	syncMu sync.Mutex // serializes sync passes

	statsMu        sync.Mutex
	totalDelivered int
	totalFailed    int
	lastSync       time.Time
}

// New builds a queue over the store and transport.
func New(st RecordStore, tr transport.Transport) *Queue {
	return &Queue{
		store:     st,
		transport: tr,
		now:       func() time.Time { return time.Now().UTC() },
		idGen:     uuid.NewString,
		scanLimit: 500,
	}
}

// CreateRecord validates and classifies the response, freezes it into a
// pending SubmissionRecord under a fresh identifier, and persists it. It
// never attempts delivery; an incomplete response is rejected with the full
// ValidationErrors list.
func (q *Queue) CreateRecord(r models.SurveyResponse, sess models.Session) (*models.SubmissionRecord, error) {
	if sess.Token == "" {
		return nil, ErrNoSession
	}
	r.Signals = eligibility.NormalizeSignals(r.Signals)
	if errs := eligibility.Validate(r); len(errs) > 0 {
		return nil, errs
	}
	if r.CapturedAt.IsZero() {
		r.CapturedAt = q.now()
	}
	rec := models.SubmissionRecord{
		ID:        q.idGen(),
		CreatedAt: q.now(),
		Status:    models.StatusPending,
		Token:     sess.Token,
		Response:  r,
		Result:    semaforo.Classify(r),
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	if err := q.store.Put(store.NamespaceQueue, rec.ID, b); err != nil {
		return nil, err
	}
	return &rec, nil
}

// PendingCount reports how many records await delivery.
func (q *Queue) PendingCount() (int, error) {
	return q.store.Count(store.NamespaceQueue)
}

// Stats returns the lifetime delivery tallies and the last sync time.
func (q *Queue) Stats() (delivered, failed int, last time.Time) {
	q.statsMu.Lock()
	defer q.statsMu.Unlock()
	return q.totalDelivered, q.totalFailed, q.lastSync
}

// LastSync reads the persisted time of the last sync pass. The zero time
// means no pass has run against this store yet.
func (q *Queue) LastSync() (time.Time, error) {
	b, err := q.store.Get(store.NamespaceCache, lastSyncKey)
	if errors.Is(err, store.ErrNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, string(b))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse last sync time: %w", err)
	}
	return t, nil
}
