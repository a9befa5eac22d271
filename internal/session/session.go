// Package session persists the authenticated session in the durable
// store's cache namespace, so a restart while offline keeps the credential.
package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vigiahq/vigia/internal/models"
	"github.com/vigiahq/vigia/internal/store"
)

const cacheKey = "session"

// Cache loads and saves the session blob. It never touches the queue
// namespace, so clearing a session has no effect on pending records.
type Cache struct {
	store *store.Store
}

// NewCache binds the session cache to a durable store.
func NewCache(st *store.Store) *Cache {
	return &Cache{store: st}
}

// Save persists the session, replacing any previous one.
func (c *Cache) Save(s models.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return c.store.Put(store.NamespaceCache, cacheKey, b)
}

// Load returns the persisted session, or nil when none is stored.
// Storage failures are surfaced, not treated as absence.
func (c *Cache) Load() (*models.Session, error) {
	b, err := c.store.Get(store.NamespaceCache, cacheKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var s models.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Token == "" {
		return nil, nil
	}
	return &s, nil
}

// Clear removes the persisted session. Clearing when none exists is fine.
func (c *Cache) Clear() error {
	return c.store.Delete(store.NamespaceCache, cacheKey)
}
