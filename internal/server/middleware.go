package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/sfrestrepo/bookshop-pos/internal/auth"
)

type claimsKey struct{}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("dur", time.Since(start)).
			Msg("http")
	})
}

// requireAuth exige "Authorization: Bearer <token>" y deja los claims en el
// contexto de la petición.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Code: "unauthorized", Message: "missing bearer token"})
			return
		}
		claims, err := s.auth.Verify(token)
		if err != nil {
			writeJSON(w, http.StatusForbidden, errorBody{Code: "forbidden", Message: "invalid or expired token"})
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := r.Context().Value(claimsKey{}).(*auth.Claims)
		if claims == nil || claims.Role != auth.RoleAdmin {
			writeJSON(w, http.StatusForbidden, errorBody{Code: "forbidden", Message: "admins only"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
