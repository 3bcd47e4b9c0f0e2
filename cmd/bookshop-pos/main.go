package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sfrestrepo/bookshop-pos/internal/auth"
	"github.com/sfrestrepo/bookshop-pos/internal/config"
	"github.com/sfrestrepo/bookshop-pos/internal/events"
	"github.com/sfrestrepo/bookshop-pos/internal/pos"
	"github.com/sfrestrepo/bookshop-pos/internal/repository"
	"github.com/sfrestrepo/bookshop-pos/internal/server"
)

func main() {
	// Logger
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	_ = godotenv.Load()
	cfg := config.Load()
	log.Info().
		Str("addr", cfg.HTTPAddr).
		Str("db", cfg.DBPath).
		Bool("rabbit", cfg.RabbitURL != "").
		Msg("starting bookshop-pos")

	store, err := repository.Open(cfg.DBPath)
	must(err)
	defer store.Close()

	if cfg.SeedOnStart {
		must(store.Seed(context.Background()))
		hash, err := auth.HashPassword(cfg.AdminPassword)
		must(err)
		must(store.EnsureUser(context.Background(), &repository.User{
			Email:        cfg.AdminEmail,
			Name:         "Administrator",
			PasswordHash: hash,
			Role:         auth.RoleAdmin,
		}))
		log.Info().Msg("seeded catalog and admin user")
	}

	// Broker opcional para eventos de venta
	var pub *events.Publisher
	if cfg.RabbitURL != "" {
		pub, err = events.NewPublisher(cfg.RabbitURL, cfg.QSaleCommitted)
		must(err)
		defer pub.Close()
		log.Info().Str("queue", cfg.QSaleCommitted).Msg("sale events enabled")
	}

	committer := pos.NewCommitter(store, store, log.Logger)
	authSvc := auth.NewService(cfg.JWTSecret, cfg.TokenTTL)
	srv := server.New(log.Logger, store, committer, authSvc, pub, cfg)

	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Routes(),
	}

	// Señales para apagado limpio
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		log.Warn().Msg("shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownGrace)
		defer cancel()
		_ = httpSrv.Shutdown(ctx)
	}()

	log.Info().Msg("HTTP listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server")
	}
}

func must(err error) {
	if err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}
