package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/fotocoach/coachd/internal/models"
)

// overlayKey is the single fixed key the overlay lives under.
var overlayKey = []byte("classifier:overlay")

// BadgerStore is the durable overlay store backed by a local badger database.
type BadgerStore struct {
	db     *badger.DB
	logger *zap.Logger
}

func NewBadgerStore(path string, logger *zap.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("error opening overlay store: %w", err)
	}
	return &BadgerStore{db: db, logger: logger}, nil
}

// Load returns the stored overlay. A missing key or malformed value yields an
// empty overlay rather than an error: losing learned keywords must never take
// the classifier down.
func (s *BadgerStore) Load() (models.Overlay, error) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(overlayKey)
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return models.Overlay{}, nil
	}
	if err != nil {
		return models.Overlay{}, fmt.Errorf("error loading overlay: %w", err)
	}

	var overlay models.Overlay
	if err := json.Unmarshal(raw, &overlay); err != nil {
		s.logger.Warn("Stored overlay is malformed, starting empty", zap.Error(err))
		return models.Overlay{}, nil
	}
	return overlay, nil
}

func (s *BadgerStore) Save(overlay models.Overlay) error {
	raw, err := json.Marshal(overlay)
	if err != nil {
		return fmt.Errorf("error encoding overlay: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(overlayKey, raw)
	})
	if err != nil {
		return fmt.Errorf("error saving overlay: %w", err)
	}
	return nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
