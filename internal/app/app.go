// Package app assembles the service graph from configuration. Both the HTTP
// server and the admin CLI start from Build.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/empresatop10/employee-manager/internal/api/handler"
	"github.com/empresatop10/employee-manager/internal/core/ports"
	"github.com/empresatop10/employee-manager/internal/core/service"
	"github.com/empresatop10/employee-manager/internal/infrastructure/config"
	"github.com/empresatop10/employee-manager/internal/infrastructure/db/memory"
	"github.com/empresatop10/employee-manager/internal/infrastructure/db/mongo"
	"github.com/empresatop10/employee-manager/internal/infrastructure/db/redis"
	"github.com/empresatop10/employee-manager/internal/infrastructure/mail"
)

// devSecret signs credentials in development when JWT_SECRET is unset.
const devSecret = "development-only-secret"

// App is the wired service graph.
type App struct {
	Config    *config.Config
	Log       zerolog.Logger
	Repos     ports.Repositories
	Tokens    ports.TokenIssuer
	Accounts  ports.AccountService
	Directory ports.DirectoryService
	// Checks are the readiness checks of every external dependency.
	Checks map[string]handler.PingFunc

	closers []func(context.Context) error
}

// Build connects the store, the session store and the mailer, then wires the
// services on top of them. On error everything opened so far is closed.
func Build(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *App, err error) {
	a := &App{Config: cfg, Log: log, Checks: map[string]handler.PingFunc{}}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	if err := a.openStore(ctx); err != nil {
		return nil, err
	}
	sessions, err := a.openSessions(ctx)
	if err != nil {
		return nil, err
	}
	mailer, err := a.newMailer()
	if err != nil {
		return nil, err
	}

	secret := cfg.JWTSecret
	if secret == "" {
		log.Warn().Msg("JWT_SECRET not set, using the development secret")
		secret = devSecret
	}
	a.Tokens = service.NewTokenIssuer(secret, cfg.TokenTTL, sessions, a.Repos.Employees)
	a.Accounts = service.NewAccountService(a.Repos, a.Tokens, sessions, mailer, service.AccountOptions{
		AppName:      cfg.App.Name,
		ResetBaseURL: cfg.App.ResetBaseURL,
		ResetTTL:     cfg.App.ResetTTL,
		DefaultGroup: cfg.App.DefaultGroup,
		ContactEmail: cfg.Mail.ContactEmail,
	}, log.With().Str("component", "accounts").Logger())
	a.Directory = service.NewDirectoryService(a.Repos, log.With().Str("component", "directory").Logger())

	if _, err := a.Repos.Groups.Ensure(ctx, cfg.App.DefaultGroup); err != nil {
		return nil, fmt.Errorf("ensure default group: %w", err)
	}
	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	if a.Config.StoreDriver == config.DriverMemory {
		store := memory.New()
		a.Repos = store.Repositories()
		a.Checks["store"] = store.Ping
		a.Log.Warn().Msg("using the in-memory store, data is lost on exit")
		return nil
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: a.Config.Mongo.URI, Database: a.Config.Mongo.Database})
	if err != nil {
		return err
	}
	a.closers = append(a.closers, client.Disconnect)

	store := mongo.NewStore(client, db)
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}
	a.Repos = store.Repositories()
	a.Checks["mongo"] = store.Ping
	a.Log.Info().Str("database", a.Config.Mongo.Database).Msg("connected to mongo")
	return nil
}

func (a *App) openSessions(ctx context.Context) (ports.SessionStore, error) {
	if a.Config.Redis.Addr == "" {
		a.Log.Warn().Msg("REDIS_ADDR not set, session revocation is local to this process")
		return memory.NewSessionStore(), nil
	}

	client, err := redis.Connect(ctx, redis.Config{
		Addr:     a.Config.Redis.Addr,
		Password: a.Config.Redis.Password,
		DB:       a.Config.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func(context.Context) error { return client.Close() })
	a.Checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	a.Log.Info().Str("addr", a.Config.Redis.Addr).Msg("connected to redis")
	return redis.NewSessionStore(client), nil
}

func (a *App) newMailer() (ports.Mailer, error) {
	if a.Config.Mail.Host == "" {
		a.Log.Warn().Msg("SMTP_HOST not set, mail is logged instead of sent")
		return mail.NewLogMailer(a.Log.With().Str("component", "mail").Logger()), nil
	}
	m, err := mail.NewSMTPMailer(mail.Config{
		Host:     a.Config.Mail.Host,
		Port:     a.Config.Mail.Port,
		Username: a.Config.Mail.Username,
		Password: a.Config.Mail.Password,
		From:     a.Config.Mail.From,
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Close releases every connection Build opened, newest first.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	a.closers = nil
	return errors.Join(errs...)
}
