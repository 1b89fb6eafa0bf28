package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookstore/cmd"
	httpin "bookstore/internal/adapters/in/http"
	"bookstore/internal/adapters/out/postgres"
	"bookstore/internal/adapters/out/postgres/migrations"
	"bookstore/internal/pkg/logger"

	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs, err := cmd.LoadConfig(".env", ".")
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	l, err := logger.New(configs.Environment, configs.LogLevel)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() { _ = l.Sync() }()

	if err := run(configs, l); err != nil {
		l.Error("application stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(configs cmd.Config, l *zap.Logger) error {
	if configs.DBMigrate {
		if err := migrations.Up(configs.DatabaseURL(), l); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}

	gormDB, err := postgres.Open(configs.DatabaseURL(), l)
	if err != nil {
		return err
	}
	if sqlDB, dbErr := gormDB.DB(); dbErr == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, l)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.Shutdown(shutdownCtx); err != nil {
			l.Error("flush traces", zap.Error(err))
		}
	}()

	jobManager, err := app.CreateJobManager()
	if err != nil {
		return err
	}
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return startWebServer(ctx, app, configs.HTTPPort, l)
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string, l *zap.Logger) error {
	server, err := app.CreateServer()
	if err != nil {
		return err
	}

	e := httpin.NewEcho(l)
	server.Register(e)

	errCh := make(chan error, 1)
	go func() {
		l.Info("http server listening", zap.String("port", port))
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	l.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
