package web

import (
	"context"
	"net/http"

	"github.com/sudios1xx/time-keeper-pro-sub000/internal/datasource"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/model"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/push"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/session"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/state"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// resetter is implemented by sources backed by the local snapshot.
type resetter interface {
	Reset(ctx context.Context) error
}

type Server struct {
	source   datasource.Source
	sessions *session.Keys
	push     *push.Service
	players  *state.Container[[]model.Player]
	log      logrus.FieldLogger
}

// NewServer wires the API. pushService may be nil when VAPID keys are absent.
func NewServer(source datasource.Source, sessions *session.Keys, pushService *push.Service, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		source:   source,
		sessions: sessions,
		push:     pushService,
		players:  state.New[[]model.Player](nil),
		log:      log.WithField("component", "web"),
	}
	s.players.Subscribe(func(players []model.Player) {
		s.log.WithField("players", len(players)).Debug("roster refreshed")
	})
	return s
}

// Players exposes the last roster read or written through the API.
func (s *Server) Players() *state.Container[[]model.Player] {
	return s.players
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/players", s.handlePlayers)
	r.Put("/players", s.handlePlayersPut)
	r.Get("/players/filter", s.handlePlayersFilter)
	r.Get("/players/stats", s.handlePlayersStats)
	r.Get("/games", s.handleGames)
	r.Put("/games", s.handleGamesPut)
	r.Get("/events", s.handleEvents)
	r.Put("/events", s.handleEventsPut)
	r.Get("/news", s.handleNews)
	r.Get("/users/by-email", s.handleUserByEmail)

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/role", s.handleRole)
	r.Get("/auth/me", s.handleMe)
	r.Post("/auth/logout", s.handleLogout)

	r.With(requireAdmin(s.sessions)).Post("/admin/reset", s.handleReset)
	r.Post("/sync", s.handleSync)

	r.Get("/push/vapid-public-key", s.handleVAPIDKey)
	r.Post("/push/subscribe", s.handleSubscribe)
	r.Post("/push/unsubscribe", s.handleUnsubscribe)

	return r
}
