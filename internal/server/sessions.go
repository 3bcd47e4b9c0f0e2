package server

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/sfrestrepo/bookshop-pos/internal/pos"
)

const sessionCookie = "sid"

// Un carrito por sesión del navegador; la cookie sid es el identificador.
// Cada carrito tiene un solo actor lógico; los distintos carritos compiten
// sólo en el inventario.
type sessionRegistry struct {
	mu    sync.Mutex
	carts map[string]*pos.Cart
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{carts: make(map[string]*pos.Cart)}
}

func (r *sessionRegistry) cart(id string) *pos.Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[id]
	if !ok {
		c = pos.NewCart()
		r.carts[id] = c
	}
	return c
}

// sessionCart resuelve el carrito de la petición, sembrando la cookie en la
// primera visita.
func (s *Server) sessionCart(w http.ResponseWriter, r *http.Request) *pos.Cart {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return s.sessions.cart(c.Value)
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
	})
	return s.sessions.cart(id)
}
