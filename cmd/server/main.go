// Command server runs the Employee Manager HTTP API.
//
// @title                      Employee Manager API
// @version                    1.0
// @description                Employees, projects and tasks with row-level permissions.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
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

	"github.com/empresatop10/employee-manager/internal/api"
	"github.com/empresatop10/employee-manager/internal/app"
	"github.com/empresatop10/employee-manager/internal/infrastructure/config"
	"github.com/empresatop10/employee-manager/internal/seed"
	"github.com/empresatop10/employee-manager/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "employee-manager",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("close connections")
		}
	}()

	if cfg.App.SeedOnStart {
		if err := seedOnStart(ctx, a, log); err != nil {
			return err
		}
	}

	e := api.NewRouter(api.Deps{
		Accounts:  a.Accounts,
		Directory: a.Directory,
		Tokens:    a.Tokens,
		Checks:    a.Checks,
		Log:       logger.For("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func seedOnStart(ctx context.Context, a *app.App, log zerolog.Logger) error {
	fixture := seed.Default()
	if path := a.Config.App.SeedFile; path != "" {
		f, err := seed.FromFile(path)
		if err != nil {
			return err
		}
		fixture = f
	}
	res, err := seed.Apply(ctx, a.Repos, a.Accounts, fixture, logger.For("seed"))
	if err != nil {
		return err
	}
	log.Info().Int("created", res.Created()).Int("entries", len(res.Entries)).Msg("seed applied")
	return nil
}
