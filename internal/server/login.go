package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sfrestrepo/bookshop-pos/internal/auth"
	"github.com/sfrestrepo/bookshop-pos/internal/repository"
)

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

type userView struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "bad_request", Message: "email and password are required"})
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		// misma respuesta que una contraseña mala: no filtrar qué emails existen
		s.writeError(w, auth.ErrInvalidCredentials)
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.writeError(w, auth.ErrInvalidCredentials)
		return
	}

	token, err := s.auth.Token(user.ID, user.Email, user.Role)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResp{
		Token: token,
		User:  userView{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role},
	})
}
