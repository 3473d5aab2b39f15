package storage

import (
	"sync"

	"github.com/fotocoach/coachd/internal/models"
)

// MemoryStore keeps the overlay in memory. Used in tests and when no overlay
// path is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	overlay models.Overlay
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (models.Overlay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyOverlay(s.overlay), nil
}

func (s *MemoryStore) Save(overlay models.Overlay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay = copyOverlay(overlay)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func copyOverlay(o models.Overlay) models.Overlay {
	return models.Overlay{
		Obstacle:   append([]string(nil), o.Obstacle...),
		Outcome:    append([]string(nil), o.Outcome...),
		Reflection: append([]string(nil), o.Reflection...),
	}
}
