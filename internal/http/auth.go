package httpserver

import (
	"net/http"

	"github.com/Clark-Hu/cinecraze/internal/auth"
	"github.com/Clark-Hu/cinecraze/internal/domain"
)

type sessionResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    domain.User `json:"user"`
}

type userResponse struct {
	Success bool        `json:"success"`
	User    domain.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in auth.RegisterInput
	if err := decodeJSONBody(w, r, &in); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	session, err := s.deps.Accounts.Register(r.Context(), in)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, sessionResponse{Success: true, Token: session.Token, User: session.User})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in auth.LoginInput
	if err := decodeJSONBody(w, r, &in); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	session, err := s.deps.Accounts.Login(r.Context(), in)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, sessionResponse{Success: true, Token: session.Token, User: session.User})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	user, err := s.deps.Accounts.Me(r.Context(), userID)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, userResponse{Success: true, User: user})
}
