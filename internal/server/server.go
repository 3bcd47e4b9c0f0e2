// API HTTP del punto de venta.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/sfrestrepo/bookshop-pos/internal/auth"
	"github.com/sfrestrepo/bookshop-pos/internal/config"
	"github.com/sfrestrepo/bookshop-pos/internal/events"
	"github.com/sfrestrepo/bookshop-pos/internal/pos"
	"github.com/sfrestrepo/bookshop-pos/internal/repository"
)

type Server struct {
	log       zerolog.Logger
	store     *repository.Store
	committer *pos.Committer
	auth      *auth.Service
	pub       *events.Publisher
	sessions  *sessionRegistry

	// Cache corto sobre las lecturas de catálogo. El checkout nunca pasa
	// por acá: el commit valida contra el stock vivo de la base.
	cache *expirable.LRU[string, []byte]

	corsOrigins []string
}

func New(log zerolog.Logger, store *repository.Store, committer *pos.Committer,
	authSvc *auth.Service, pub *events.Publisher, cfg config.Config) *Server {
	return &Server{
		log:         log,
		store:       store,
		committer:   committer,
		auth:        authSvc,
		pub:         pub,
		sessions:    newSessionRegistry(),
		cache:       expirable.NewLRU[string, []byte](cfg.CatalogCacheSize, nil, cfg.CatalogCacheTTL),
		corsOrigins: cfg.CORSOrigins,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)

		r.Get("/books", s.handleListBooks)
		r.Get("/books/{id}", s.handleGetBook)

		// Mutaciones de catálogo y consulta de ventas: solo admin.
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth, s.requireAdmin)
			r.Post("/books", s.handleCreateBook)
			r.Put("/books/{id}", s.handleUpdateBook)
			r.Delete("/books/{id}", s.handleDeleteBook)
			r.Get("/sales/{id}", s.handleGetSale)
		})

		r.Get("/cart", s.handleGetCart)
		r.Post("/cart/items", s.handleAddItem)
		r.Put("/cart/items/{id}", s.handleSetQuantity)
		r.Delete("/cart/items/{id}", s.handleRemoveItem)
		r.Delete("/cart", s.handleClearCart)

		r.Post("/checkout", s.handleCheckout)
		r.Get("/receipt", s.handleReceipt)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}
