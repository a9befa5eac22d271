package api

import (
	"sync"
	"time"

	"github.com/vigiahq/vigia/internal/models"
)

// StoredSubmission is one accepted record on the server side.
type StoredSubmission struct {
	ID         string                      `json:"id"`
	ReceivedAt time.Time                   `json:"received_at"`
	By         string                      `json:"by"`
	Response   models.SurveyResponse       `json:"response"`
	Result     models.ClassificationResult `json:"semaforo"`
}

// memoryStore keeps accepted submissions keyed by the client-generated id.
// Server-side durability is out of core scope; idempotency is not.
type memoryStore struct {
	mu          sync.RWMutex
	submissions map[string]*StoredSubmission
	order       []string // insertion order for stable listings
}

func newMemoryStore() *memoryStore {
	return &memoryStore{submissions: map[string]*StoredSubmission{}}
}

// add stores the submission unless the id was already accepted; the second
// return reports a duplicate.
func (s *memoryStore) add(sub *StoredSubmission) (stored bool, duplicate bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.submissions[sub.ID]; ok {
		return false, true
	}
	s.submissions[sub.ID] = sub
	s.order = append(s.order, sub.ID)
	return true, false
}

func (s *memoryStore) list() []*StoredSubmission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*StoredSubmission, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.submissions[id])
	}
	return out
}

func (s *memoryStore) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.submissions)
}
