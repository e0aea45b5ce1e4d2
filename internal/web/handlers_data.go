package web

import (
	"net/http"
	"strings"

	"github.com/sudios1xx/time-keeper-pro-sub000/internal/model"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/roster"

	"github.com/google/uuid"
)

func (s *Server) loadPlayers(r *http.Request) ([]model.Player, error) {
	players, err := s.source.GetPlayers(r.Context())
	if err != nil {
		return nil, err
	}
	s.players.Set(players)
	return players, nil
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.loadPlayers(r)
	if err != nil {
		s.writeSourceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(players))
}

func (s *Server) handlePlayersPut(w http.ResponseWriter, r *http.Request) {
	var players []model.Player
	if err := decodeJSON(r, &players); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	for i := range players {
		if strings.TrimSpace(players[i].ID) == "" {
			players[i].ID = uuid.NewString()
		}
	}
	if err := s.source.SetPlayers(r.Context(), players); err != nil {
		s.writeSourceError(w, r, err)
		return
	}
	s.players.Set(players)
	writeJSON(w, http.StatusOK, nonNil(players))
}

func (s *Server) handlePlayersFilter(w http.ResponseWriter, r *http.Request) {
	players, err := s.loadPlayers(r)
	if err != nil {
		s.writeSourceError(w, r, err)
		return
	}
	q := r.URL.Query()
	filtered := roster.Filter(players, roster.Criteria{
		Search:   q.Get("busca"),
		Position: q.Get("posicao"),
		SortBy:   roster.SortKey(q.Get("ordenar")),
	})
	writeJSON(w, http.StatusOK, filtered)
}

func (s *Server) handlePlayersStats(w http.ResponseWriter, r *http.Request) {
	players, err := s.loadPlayers(r)
	if err != nil {
		s.writeSourceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roster.Compute(players))
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.source.GetGames(r.Context())
	if err != nil {
		s.writeSourceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(games))
}

func (s *Server) handleGamesPut(w http.ResponseWriter, r *http.Request) {
	var games []model.Game
	if err := decodeJSON(r, &games); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	for i := range games {
		if strings.TrimSpace(games[i].ID) == "" {
			games[i].ID = uuid.NewString()
		}
	}
	if err := s.source.SetGames(r.Context(), games); err != nil {
		s.writeSourceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(games))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.source.GetEvents(r.Context())
	if err != nil {
		s.writeSourceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(events))
}

func (s *Server) handleEventsPut(w http.ResponseWriter, r *http.Request) {
	var events []model.Event
	if err := decodeJSON(r, &events); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	for i := range events {
		if strings.TrimSpace(events[i].ID) == "" {
			events[i].ID = uuid.NewString()
		}
		if events[i].Type != "" && !model.ValidEventType(events[i].Type) {
			writeError(w, http.StatusBadRequest, "invalid event type "+string(events[i].Type))
			return
		}
	}
	if err := s.source.SetEvents(r.Context(), events); err != nil {
		s.writeSourceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(events))
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	news, err := s.source.GetNews(r.Context())
	if err != nil {
		s.writeSourceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(news))
}

func (s *Server) handleUserByEmail(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	user, err := s.source.FindUserByEmail(r.Context(), email)
	if err != nil {
		s.writeSourceError(w, r, err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user.Public())
}

// nonNil keeps empty collections encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
