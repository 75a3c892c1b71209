package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/99minutos/event-console/internal/console"
	"github.com/99minutos/event-console/internal/core/service"
	"github.com/99minutos/event-console/internal/infrastructure/config"
	"github.com/99minutos/event-console/internal/infrastructure/db"
	"github.com/99minutos/event-console/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	envFile := flag.String("env", ".env", "optional dotenv file loaded before the environment")
	flag.Parse()

	if err := run(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, "event-console:", err)
		os.Exit(1)
	}
}

func run(envFile string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, envFile)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDevelopment(),
	})
	log.Info().Str("env", cfg.Env).Str("store", cfg.Store.Driver).Msg("starting event console")

	stores, err := db.Open(ctx, cfg, logger.Component("store"))
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := stores.Close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("failed to close store")
		}
	}()

	clock := service.WithClock(func() time.Time { return time.Now().UTC() })

	users, err := service.NewUserManager(ctx, stores.Users, logger.Component("users"),
		clock, service.WithHashCost(cfg.BcryptCost))
	if err != nil {
		return err
	}
	events, err := service.NewEventManager(ctx, stores.Events, logger.Component("events"), clock)
	if err != nil {
		return err
	}

	app := console.New(users, events, console.NewTextPresenter(os.Stdout), logger.Component("console"),
		console.WithPrompt("> "),
		console.WithMetricsTextfile(cfg.MetricsTextfile),
	)
	fmt.Fprintln(os.Stdout, "event console ready, type help for commands")

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx, os.Stdin) }()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("interrupted, unsaved changes are discarded")
	}
	return nil
}
