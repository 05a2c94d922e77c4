// Package app wires configuration, storage, services and the HTTP router
// into a runnable back-office server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/fieldworks/backoffice/internal/api"
	"github.com/fieldworks/backoffice/internal/api/handler"
	"github.com/fieldworks/backoffice/internal/core/catalog"
	"github.com/fieldworks/backoffice/internal/core/domain"
	"github.com/fieldworks/backoffice/internal/core/listing"
	"github.com/fieldworks/backoffice/internal/core/service"
	"github.com/fieldworks/backoffice/internal/infrastructure/config"
	"github.com/fieldworks/backoffice/internal/infrastructure/queue"
	"github.com/fieldworks/backoffice/internal/infrastructure/seed"
)

const shutdownTimeout = 10 * time.Second

// Option customises an App.
type Option func(*App)

// WithRegistry sends HTTP metrics to reg instead of the default registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(a *App) {
		a.registerer = reg
		a.gatherer = reg
	}
}

// App is a fully wired back-office server.
type App struct {
	cfg *config.Config
	log zerolog.Logger

	store      *storage
	registry   *service.Registry
	auth       *service.AuthService
	dispatcher *queue.Dispatcher
	mounters   []handler.Mounter

	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer

	Echo *echo.Echo
}

// New connects to the configured backends and builds every resource service.
// The change-event dispatcher is started; Close stops it.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts ...Option) (*App, error) {
	a := &App{cfg: cfg, log: log, registry: service.NewRegistry()}
	for _, opt := range opts {
		opt(a)
	}

	st, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage, err)
	}
	a.store = st

	if err := a.wire(ctx); err != nil {
		_ = st.close(ctx)
		return nil, err
	}
	a.dispatcher.Start()

	if _, err := a.auth.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("ensure admin: %w", err)
	}

	a.Echo = api.NewRouter(api.Deps{
		Log:        log,
		JWTSecret:  cfg.JWTSecret,
		Auth:       a.auth,
		Resources:  a.mounters,
		Health:     st.pingers,
		Registerer: a.registerer,
		Gatherer:   a.gatherer,
	})
	return a, nil
}

func (a *App) wire(ctx context.Context) error {
	changes, err := repository(ctx, a.store, catalog.Changes)
	if err != nil {
		return err
	}
	a.dispatcher = queue.NewDispatcher(a.cfg.EventWorkers,
		service.NewChangeLog(changes, a.store.sequencer),
		a.log.With().Str("component", "change-dispatcher").Logger())

	deps := service.Deps{
		Sequencer:       a.store.sequencer,
		Idempotency:     a.store.idempotency,
		Feed:            a.dispatcher,
		Registry:        a.registry,
		DefaultPageSize: a.cfg.List.DefaultPageSize,
		MaxPageSize:     a.cfg.List.MaxPageSize,
	}

	steps := []func() error{
		func() error { return register(ctx, a, catalog.Jobs, deps) },
		func() error { return register(ctx, a, catalog.Labor, deps) },
		func() error { return register(ctx, a, catalog.LeadLabour, deps) },
		func() error { return register(ctx, a, catalog.Suppliers, deps) },
		func() error { return register(ctx, a, catalog.Staff, deps) },
		func() error { return register(ctx, a, catalog.Users, deps) },
		func() error { return register(ctx, a, catalog.Orders, deps) },
		func() error { return register(ctx, a, catalog.Approvals, deps) },
		func() error { return register(ctx, a, catalog.Timesheets, deps) },
		func() error { return register(ctx, a, catalog.Materials, deps) },
		func() error { return register(ctx, a, catalog.TimeLogs, deps) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	feedDeps := deps
	feedDeps.Feed = nil
	feedDeps.ReadOnly = true
	feed := service.NewResourceService(catalog.Changes, changes, feedDeps, a.log)
	a.mounters = append(a.mounters, handler.NewReadOnlyHandler(catalog.Changes, feed))

	a.auth = service.NewAuthService(a.store.accounts, a.cfg.JWTSecret, a.cfg.TokenTTL, a.log)
	return nil
}

// register builds the service and handler of one resource.
func register[T domain.Record](ctx context.Context, a *App, schema listing.Schema[T], deps service.Deps) error {
	repo, err := repository(ctx, a.store, schema)
	if err != nil {
		return err
	}
	svc := service.NewResourceService(schema, repo, deps, a.log)
	a.registry.Register(svc)
	a.mounters = append(a.mounters, handler.NewResourceHandler(schema, svc))
	return nil
}

// Seed imports a YAML fixture file.
func (a *App) Seed(ctx context.Context, path string) (seed.Result, error) {
	return seed.NewSeeder(a.registry, catalog.Order, a.log).LoadFile(ctx, path)
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.SeedFile != "" {
		if _, err := a.Seed(ctx, a.cfg.SeedFile); err != nil {
			err = fmt.Errorf("seed %s: %w", a.cfg.SeedFile, err)
			return errors.Join(err, a.Close(ctx))
		}
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("port", a.cfg.Port).Str("storage", a.cfg.Storage).Msg("server starting")
		if err := a.Echo.Start(":" + a.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			_ = a.Close(context.Background())
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("http shutdown")
	}
	return a.Close(shutdownCtx)
}

// Close drains pending change events and releases storage connections.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.dispatcher != nil {
		if err := a.dispatcher.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop dispatcher: %w", err))
		}
	}
	if err := a.store.close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	return errors.Join(errs...)
}
