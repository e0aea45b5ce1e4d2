package datasource

import (
	"context"

	"github.com/sudios1xx/time-keeper-pro-sub000/internal/model"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/snapshot"
)

// MockSource serves collections out of the persisted snapshot.
type MockSource struct {
	snapshots snapshot.Repository
}

func NewMockSource(snapshots snapshot.Repository) *MockSource {
	return &MockSource{snapshots: snapshots}
}

func (s *MockSource) GetPlayers(ctx context.Context) ([]model.Player, error) {
	return s.snapshots.Load(ctx).Players, nil
}

func (s *MockSource) SetPlayers(ctx context.Context, players []model.Player) error {
	snap, err := s.snapshots.LoadForUpdate(ctx)
	if err != nil {
		return err
	}
	snap.Players = players
	return s.snapshots.Save(ctx, snap)
}

func (s *MockSource) GetGames(ctx context.Context) ([]model.Game, error) {
	return s.snapshots.Load(ctx).Games, nil
}

func (s *MockSource) SetGames(ctx context.Context, games []model.Game) error {
	snap, err := s.snapshots.LoadForUpdate(ctx)
	if err != nil {
		return err
	}
	snap.Games = games
	return s.snapshots.Save(ctx, snap)
}

func (s *MockSource) GetEvents(ctx context.Context) ([]model.Event, error) {
	return s.snapshots.Load(ctx).Events, nil
}

func (s *MockSource) SetEvents(ctx context.Context, events []model.Event) error {
	snap, err := s.snapshots.LoadForUpdate(ctx)
	if err != nil {
		return err
	}
	snap.Events = events
	return s.snapshots.Save(ctx, snap)
}

func (s *MockSource) GetNews(ctx context.Context) ([]model.News, error) {
	return s.snapshots.Load(ctx).News, nil
}

// FindUserByEmail matches the address exactly, including case.
func (s *MockSource) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range s.snapshots.Load(ctx).Users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

// Reset drops the stored snapshot so the next read starts from the seed.
func (s *MockSource) Reset(ctx context.Context) error {
	return s.snapshots.Reset(ctx)
}
