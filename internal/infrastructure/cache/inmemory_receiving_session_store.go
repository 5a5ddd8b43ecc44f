package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/purchasing"
	"github.com/retailcore/backend/internal/domain/shared"
)

// sessionEntry is a stored session with expiration
type sessionEntry struct {
	payload   []byte
	expiresAt time.Time
}

// InMemoryReceivingSessionStore keeps in-flight receiving events in an
// in-memory map. This is suitable for single-instance deployments and
// testing. Sessions are stored as JSON so callers get their own copy,
// matching the Redis store's isolation semantics.
type InMemoryReceivingSessionStore struct {
	mu        sync.RWMutex
	entries   map[string]sessionEntry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryReceivingSessionStore creates an in-memory session store.
// It starts a background goroutine to clean up expired sessions.
func NewInMemoryReceivingSessionStore(ttl time.Duration) *InMemoryReceivingSessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	store := &InMemoryReceivingSessionStore{
		entries:  make(map[string]sessionEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Put stores the event, refreshing its TTL
func (s *InMemoryReceivingSessionStore) Put(ctx context.Context, event *purchasing.ReceivingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[s.key(event.TenantID, event.ID)] = sessionEntry{
		payload:   payload,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

// Get loads an event; expired or unknown sessions surface as not found
func (s *InMemoryReceivingSessionStore) Get(ctx context.Context, tenantID, eventID uuid.UUID) (*purchasing.ReceivingEvent, error) {
	s.mu.RLock()
	entry, exists := s.entries[s.key(tenantID, eventID)]
	s.mu.RUnlock()

	if !exists || time.Now().After(entry.expiresAt) {
		return nil, shared.ErrNotFound
	}

	var event purchasing.ReceivingEvent
	if err := json.Unmarshal(entry.payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (s *InMemoryReceivingSessionStore) Delete(ctx context.Context, tenantID, eventID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, s.key(tenantID, eventID))
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryReceivingSessionStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// Size returns the number of stored sessions (for testing/monitoring)
func (s *InMemoryReceivingSessionStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *InMemoryReceivingSessionStore) key(tenantID, eventID uuid.UUID) string {
	return tenantID.String() + ":" + eventID.String()
}

// cleanupLoop periodically removes expired sessions
func (s *InMemoryReceivingSessionStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryReceivingSessionStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
}

// Ensure InMemoryReceivingSessionStore implements ReceivingSessionStore
var _ purchasing.ReceivingSessionStore = (*InMemoryReceivingSessionStore)(nil)
