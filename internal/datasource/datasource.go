// Package datasource routes collection reads and writes either to the local
// snapshot or to a remote HTTP API, depending on the configured mode.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sudios1xx/time-keeper-pro-sub000/internal/model"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/snapshot"

	"github.com/sirupsen/logrus"
)

type Mode string

const (
	ModeMock Mode = "mock"
	ModeAPI  Mode = "api"
	// ModeSupabase is reserved for a hosted backend and has no implementation.
	ModeSupabase Mode = "supabase"
)

var ErrModeNotImplemented = errors.New("data source mode not implemented")

// Source is the single entry point for entity collections. Every call takes a
// context so both modes share one calling contract.
type Source interface {
	GetPlayers(ctx context.Context) ([]model.Player, error)
	SetPlayers(ctx context.Context, players []model.Player) error
	GetGames(ctx context.Context) ([]model.Game, error)
	SetGames(ctx context.Context, games []model.Game) error
	GetEvents(ctx context.Context) ([]model.Event, error)
	SetEvents(ctx context.Context, events []model.Event) error
	GetNews(ctx context.Context) ([]model.News, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type Config struct {
	Mode       Mode
	BaseURL    string
	HTTPClient *http.Client
	Snapshots  snapshot.Repository
	Logger     logrus.FieldLogger
}

func New(cfg Config) (Source, error) {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	switch Mode(strings.ToLower(strings.TrimSpace(string(cfg.Mode)))) {
	case ModeMock, "":
		if cfg.Snapshots == nil {
			return nil, errors.New("mock mode requires a snapshot repository")
		}
		return NewMockSource(cfg.Snapshots), nil
	case ModeAPI:
		if strings.TrimSpace(cfg.BaseURL) == "" {
			return nil, errors.New("api mode requires a base url")
		}
		return NewAPISource(cfg.BaseURL, cfg.HTTPClient, log), nil
	case ModeSupabase:
		return nil, fmt.Errorf("%w: %s", ErrModeNotImplemented, cfg.Mode)
	}
	return nil, fmt.Errorf("unknown data source mode %q", cfg.Mode)
}
