// cmd/server/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/Arena/internal/config"
	appdb "github.com/codr1/Arena/internal/db"
	"github.com/codr1/Arena/internal/email"
	"github.com/codr1/Arena/internal/live"
	"github.com/codr1/Arena/internal/ratelimit"
	"github.com/codr1/Arena/internal/scheduler"
	"github.com/codr1/Arena/internal/storage"
)

const shutdownTimeout = 30 * time.Second

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Features.EnableDebug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func configPath() string {
	path := flag.String("config", "", "Path to the YAML configuration file")
	flag.Parse()
	if *path != "" {
		return *path
	}
	if env := os.Getenv("ARENA_CONFIG"); env != "" {
		return env
	}
	return "config/app.yaml"
}

func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	database, err := appdb.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	store, err := storage.NewFromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	var sender email.EmailSender
	if cfg.EmailEnabled() {
		ses, err := email.NewSESClient(
			cfg.Notifications.SESAccessKeyID,
			cfg.Notifications.SESSecretAccessKey,
			cfg.Notifications.SESRegion,
			cfg.Notifications.SESSender,
		)
		if err != nil {
			return fmt.Errorf("init email: %w", err)
		}
		sender = email.NewBreakerSender(ses, email.DefaultBreakerSettings())
	} else {
		log.Info().Msg("Email notifications disabled")
	}

	limiter := ratelimit.New(&ratelimit.Config{
		LoginMaxAttempts:         cfg.RateLimit.LoginMaxAttempts,
		LoginWindow:              cfg.RateLimit.LoginLockout,
		LoginLockout:             cfg.RateLimit.LoginLockout,
		RegistrationMaxIPPerHour: cfg.RateLimit.RegistrationsPerHour,
	})
	defer limiter.Close()

	hub := live.NewHub()

	sched, err := newScheduler(cfg, database, hub)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	server := newServer(cfg, serverDeps{
		DB:      database,
		Store:   store,
		Sender:  sender,
		Limiter: limiter,
		Hub:     hub,
	})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	g.Go(func() error {
		sched.Start()
		<-ctx.Done()
		log.Info().Msg("Stopping scheduler")
		return sched.Stop()
	})

	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func newScheduler(cfg *config.Config, database *appdb.DB, hub *live.Hub) (*scheduler.Service, error) {
	sched, err := scheduler.NewService()
	if err != nil {
		return nil, err
	}

	if err := scheduler.RegisterKickoffJob(sched, database.Queries, hub, cfg.Scheduler.KickoffCron); err != nil {
		return nil, err
	}

	deadline, ok, err := cfg.RegistrationDeadline()
	if err != nil {
		return nil, err
	}
	if ok {
		if err := scheduler.RegisterDeadlineJob(sched, database.Queries, deadline, cfg.Scheduler.DeadlineCron); err != nil {
			return nil, err
		}
		log.Info().Time("deadline", deadline).Msg("Registration deadline job scheduled")
	}

	return sched, nil
}
