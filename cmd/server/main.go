package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm/logger"

	"github.com/broomstones/loaners/internal/auth"
	"github.com/broomstones/loaners/internal/config"
	"github.com/broomstones/loaners/internal/db"
	"github.com/broomstones/loaners/internal/handlers"
	"github.com/broomstones/loaners/internal/logging"
	"github.com/broomstones/loaners/internal/metrics"
	"github.com/broomstones/loaners/internal/services"
	"github.com/broomstones/loaners/internal/views"
	"github.com/broomstones/loaners/internal/web"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("env")
	}
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("config")
	}
	log := logging.New(cfg.LogLevel, cfg.Production())
	if cfg.EphemeralCookieKey {
		log.Warn().Msg("COOKIE_SECRET not set; coordinator sessions will not survive a restart")
	}

	gormLog := logger.Default.LogMode(logger.Warn)
	if cfg.LogLevel == "debug" {
		gormLog = logger.Default.LogMode(logger.Info)
	}
	conn, err := db.Open(cfg.DatabasePath, gormLog)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("db open")
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	v, err := views.New(cfg.Location)
	if err != nil {
		log.Fatal().Err(err).Msg("templates")
	}
	gate := auth.NewGate(cfg.CoordinatorPasswordHash, cfg.CookieHashKey, cfg.Production())
	m := metrics.New()
	h := handlers.New(services.NewStore(conn), gate, m, log, v, cfg.PublicURL)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.Router(h, gate, m, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("env", cfg.Environment).Msg("loaners listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
