package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sudios1xx/time-keeper-pro-sub000/internal/model"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/store"

	"github.com/sirupsen/logrus"
)

// DefaultKey holds the whole mock database as one JSON document.
const DefaultKey = "tkp.mock-db"

type Snapshot struct {
	Users   []model.User   `json:"usuarios"`
	Players []model.Player `json:"jogadores"`
	Games   []model.Game   `json:"jogos"`
	Events  []model.Event  `json:"eventos"`
	News    []model.News   `json:"noticias"`
}

// Repository loads and persists the snapshot as a unit. There are no partial
// writes: callers load, change one collection and save the whole snapshot.
type Repository interface {
	Load(ctx context.Context) Snapshot
	// LoadForUpdate is Load for read-modify-write callers: a failed read is
	// returned instead of replaced by the seed.
	LoadForUpdate(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	Reset(ctx context.Context) error
}

type Store struct {
	kv  store.Store
	key string
	log logrus.FieldLogger
}

func NewStore(kv store.Store, log logrus.FieldLogger) *Store {
	return NewStoreWithKey(kv, DefaultKey, log)
}

func NewStoreWithKey(kv store.Store, key string, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{kv: kv, key: key, log: log.WithField("key", key)}
}

// Load returns the stored snapshot. A missing, unreadable or malformed value
// yields the seed, which is not written back.
func (s *Store) Load(ctx context.Context) Snapshot {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.log.WithError(err).Warn("snapshot read failed, using seed")
		return Seed()
	}
	if !ok {
		return Seed()
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.log.WithError(err).Warn("snapshot is not valid json, using seed")
		return Seed()
	}
	return snap
}

// LoadForUpdate fails when the store cannot be read, so a save that follows
// never replaces stored collections with seed data. Missing or malformed
// values still yield the seed.
func (s *Store) LoadForUpdate(ctx context.Context) (Snapshot, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.log.WithError(err).Error("snapshot read failed before write")
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	if !ok {
		return Seed(), nil
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.log.WithError(err).Warn("snapshot is not valid json, writing over seed")
		return Seed(), nil
	}
	return snap, nil
}

// Save writes the full snapshot. Failures are logged and returned.
func (s *Store) Save(ctx context.Context, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		s.log.WithError(err).Error("snapshot marshal failed")
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		s.log.WithError(err).WithField("bytes", len(raw)).Error("snapshot write failed")
		return fmt.Errorf("write snapshot: %w", err)
	}
	s.log.WithField("bytes", len(raw)).Debug("snapshot saved")
	return nil
}

func (s *Store) Reset(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		s.log.WithError(err).Error("snapshot reset failed")
		return fmt.Errorf("reset snapshot: %w", err)
	}
	return nil
}
