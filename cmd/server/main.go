// Command server runs the Slack archive backend: the Events API endpoint,
// the archive read API, and the scheduled reconciliation jobs, all in one
// process.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nvoss/slack-archive-backend/internal/config"
	httpapi "github.com/nvoss/slack-archive-backend/internal/http"
	"github.com/nvoss/slack-archive-backend/internal/jobs"
	"github.com/nvoss/slack-archive-backend/internal/observability"
	"github.com/nvoss/slack-archive-backend/internal/queue"
	"github.com/nvoss/slack-archive-backend/internal/repo"
	"github.com/nvoss/slack-archive-backend/internal/services"
	"github.com/nvoss/slack-archive-backend/internal/slack"
	"github.com/nvoss/slack-archive-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("opentelemetry setup failed")
	}
	defer func() {
		if err := shutdownOTel(context.Background()); err != nil {
			log.Warn().Err(err).Msg("opentelemetry shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open record store failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate record store failed")
	}

	slackOpts := []slack.Option{
		slack.WithRateLimit(cfg.Slack.RateRPS, cfg.Slack.Burst),
	}
	if cfg.Slack.APIBase != "" {
		slackOpts = append(slackOpts, slack.WithBaseURL(cfg.Slack.APIBase))
	}
	sc, err := slack.New(cfg.Slack.Token, slackOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("slack client setup failed")
	}

	lock := repo.NewRowLock(cfg.Slack.LockWait)
	q := queue.New(db)

	reconcile := &services.ReconcileService{DB: db, Slack: sc, Lock: lock}
	drain := &services.DrainService{DB: db, Slack: sc, Lock: lock, Queue: q}

	go jobs.New(reconcile, drain, cfg.Jobs).Start(ctx)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, q, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
