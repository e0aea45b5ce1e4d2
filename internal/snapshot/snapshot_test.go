package snapshot

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/sudios1xx/time-keeper-pro-sub000/internal/logging"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/model"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/store"
)

func newTestStore(kv store.Store) *Store {
	return NewStore(kv, logging.Discard())
}

func TestLoadWithoutKeyReturnsSeed(t *testing.T) {
	kv := store.NewMemoryStore(store.MemoryOptions{})
	snap := newTestStore(kv).Load(context.Background())

	if len(snap.Users) != 2 {
		t.Fatalf("expected 2 seeded users, got %d", len(snap.Users))
	}
	var admin *model.User
	for i := range snap.Users {
		if snap.Users[i].Role == model.RoleAdmin {
			admin = &snap.Users[i]
		}
	}
	if admin == nil || admin.Email != "admin@time.com" {
		t.Fatalf("expected admin user admin@time.com, got %+v", admin)
	}
	if len(snap.Players) == 0 || len(snap.Games) == 0 || len(snap.Events) == 0 || len(snap.News) == 0 {
		t.Fatalf("expected every seeded collection to be populated, got %+v", snap)
	}
	if _, ok, _ := kv.Get(context.Background(), DefaultKey); ok {
		t.Fatal("loading the seed must not write it back")
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	s := newTestStore(store.NewMemoryStore(store.MemoryOptions{}))
	ctx := context.Background()

	snap := s.Load(ctx)
	snap.Players = []model.Player{{ID: "9", Name: "Novo", Position: "Goleiro", Trophies: []string{}, Medals: []string{}}}
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded := s.Load(ctx)
	if !reflect.DeepEqual(loaded.Players, snap.Players) {
		t.Fatalf("expected saved players, got %+v", loaded.Players)
	}
	if len(loaded.Users) != len(snap.Users) {
		t.Fatalf("expected other collections untouched, got %d users", len(loaded.Users))
	}
}

func TestResetRestoresSeed(t *testing.T) {
	s := newTestStore(store.NewMemoryStore(store.MemoryOptions{}))
	ctx := context.Background()

	if err := s.Save(ctx, Snapshot{Players: []model.Player{{ID: "x"}}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got, want := s.Load(ctx), Seed(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected seed after reset, got %+v", got)
	}
}

func TestLoadMalformedValueReturnsSeed(t *testing.T) {
	kv := store.NewMemoryStore(store.MemoryOptions{})
	if err := kv.Set(context.Background(), DefaultKey, []byte("{not json")); err != nil {
		t.Fatalf("set: %v", err)
	}
	snap := newTestStore(kv).Load(context.Background())
	if !reflect.DeepEqual(snap, Seed()) {
		t.Fatalf("expected seed for malformed snapshot, got %+v", snap)
	}
}

func TestSaveReportsQuotaFailure(t *testing.T) {
	s := newTestStore(store.NewMemoryStore(store.MemoryOptions{MaxValueBytes: 16}))
	err := s.Save(context.Background(), Seed())
	if !errors.Is(err, store.ErrValueTooLarge) {
		t.Fatalf("expected quota error to surface, got %v", err)
	}
}

func TestSeedReturnsIndependentCopies(t *testing.T) {
	a := Seed()
	a.Players[0].Name = "changed"
	a.Players[0].Trophies[0] = "changed"
	b := Seed()
	if b.Players[0].Name == "changed" || b.Players[0].Trophies[0] == "changed" {
		t.Fatal("expected Seed to return a fresh copy each call")
	}
}

var errReadFailed = errors.New("read failed")

type unreadableStore struct {
	store.Store
}

func (unreadableStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, errReadFailed
}

func TestLoadForUpdateReturnsReadError(t *testing.T) {
	s := newTestStore(unreadableStore{store.NewMemoryStore(store.MemoryOptions{})})
	if _, err := s.LoadForUpdate(context.Background()); !errors.Is(err, errReadFailed) {
		t.Fatalf("expected read error, got %v", err)
	}
	if snap := s.Load(context.Background()); !reflect.DeepEqual(snap, Seed()) {
		t.Fatal("expected plain Load to keep falling back to the seed")
	}
}

func TestLoadForUpdateMissingKeyReturnsSeed(t *testing.T) {
	snap, err := newTestStore(store.NewMemoryStore(store.MemoryOptions{})).LoadForUpdate(context.Background())
	if err != nil {
		t.Fatalf("load for update: %v", err)
	}
	if !reflect.DeepEqual(snap, Seed()) {
		t.Fatalf("expected seed, got %+v", snap)
	}
}
