package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/sudios1xx/time-keeper-pro-sub000/internal/push"
)

type syncRequest struct {
	Timestamp int64 `json:"timestamp"`
}

type syncResponse struct {
	Synced     bool      `json:"synced"`
	ReceivedAt time.Time `json:"receivedAt"`
}

type unsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	src, ok := s.source.(resetter)
	if !ok {
		writeError(w, http.StatusConflict, "reset is only available in mock mode")
		return
	}
	if err := src.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if _, err := s.loadPlayers(r); err != nil {
		s.log.WithError(err).Warn("reload roster after reset")
	}
	s.log.Info("snapshot reset to seed data")
	w.WriteHeader(http.StatusNoContent)
}

// handleSync receives background sync pings from the offline worker.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Timestamp <= 0 {
		writeError(w, http.StatusBadRequest, "timestamp is required")
		return
	}
	if _, err := s.loadPlayers(r); err != nil {
		s.writeSourceError(w, r, err)
		return
	}
	s.log.WithField("client_time", time.UnixMilli(req.Timestamp).UTC()).Info("sync received")
	writeJSON(w, http.StatusOK, syncResponse{Synced: true, ReceivedAt: time.Now().UTC()})
}

func (s *Server) handleVAPIDKey(w http.ResponseWriter, r *http.Request) {
	if s.push == nil {
		writeError(w, http.StatusServiceUnavailable, "push notifications are not configured")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"publicKey": s.push.PublicKey()})
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	if s.push == nil {
		writeError(w, http.StatusServiceUnavailable, "push notifications are not configured")
		return
	}
	var sub push.Subscription
	if err := decodeJSON(r, &sub); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.push.Subscribe(r.Context(), sub); err != nil {
		if errors.Is(err, push.ErrInvalidSubscription) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	if s.push == nil {
		writeError(w, http.StatusServiceUnavailable, "push notifications are not configured")
		return
	}
	var req unsubscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.push.Unsubscribe(r.Context(), req.Endpoint); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
