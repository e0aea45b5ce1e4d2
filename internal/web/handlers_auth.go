package web

import (
	"net/http"
	"strings"

	"github.com/sudios1xx/time-keeper-pro-sub000/internal/model"

	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type roleRequest struct {
	Role model.UserRole `json:"role"`
}

type sessionResponse struct {
	User       model.User `json:"user"`
	RoleChosen bool       `json:"roleChosen"`
}

// handleLogin simulates sign-in: the user is looked up by email and, when both
// a password and a stored hash exist, the password is checked.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	email := strings.TrimSpace(req.Email)
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
		writeError(w, http.StatusUnauthorized, "usuário não encontrado")
		return
	}
	if req.Password != "" && user.PasswordHash != "" && !checkPassword(user.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "senha inválida")
		return
	}

	ctx := r.Context()
	if err := s.sessions.SetCurrentUser(ctx, *user); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.sessions.SetRoleChosen(ctx, false); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.log.WithField("user_id", user.ID).Info("user signed in")
	writeJSON(w, http.StatusOK, sessionResponse{User: user.Public()})
}

// handleRole records which role the signed-in user acts as. Only admins may
// pick the admin role.
func (s *Server) handleRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !model.ValidRole(req.Role) {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}
	ctx := r.Context()
	user, err := s.sessions.CurrentUser(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	if req.Role == model.RoleAdmin && !user.IsAdmin() {
		writeError(w, http.StatusForbidden, "admin role not allowed for this user")
		return
	}
	user.Role = req.Role
	if err := s.sessions.SetCurrentUser(ctx, *user); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.sessions.SetRoleChosen(ctx, true); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{User: *user, RoleChosen: true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := s.sessions.CurrentUser(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	chosen, err := s.sessions.RoleChosen(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{User: *user, RoleChosen: chosen})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Logout(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func checkPassword(hash string, password string) bool {
	if hash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
