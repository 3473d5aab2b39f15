package storage

import "github.com/fotocoach/coachd/internal/models"

// OverlayStore persists the learned-keyword overlay for one install.
// Load is called once at startup; Save after every learning event, so
// implementations must be safe to call repeatedly with the same data.
type OverlayStore interface {
	Load() (models.Overlay, error)
	Save(overlay models.Overlay) error
	Close() error
}
