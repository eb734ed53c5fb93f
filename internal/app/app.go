// Package app wires configuration, storage, use cases and the HTTP delivery
// layer into a running data-url or location service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/httplog/v2"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/nhood/internal/adapter/repository/memory"
	"github.com/vadimbarashkov/nhood/internal/adapter/repository/postgres"
	"github.com/vadimbarashkov/nhood/internal/config"
	"github.com/vadimbarashkov/nhood/internal/entity"
	"github.com/vadimbarashkov/nhood/internal/usecase"
	"github.com/vadimbarashkov/nhood/pkg/middleware/metrics"
	"github.com/vadimbarashkov/nhood/pkg/middleware/ratelimit"
	"golang.org/x/sync/errgroup"

	delivery "github.com/vadimbarashkov/nhood/internal/adapter/delivery/http"
	pgpkg "github.com/vadimbarashkov/nhood/pkg/postgres"
)

// Service selects which resource a process serves.
type Service string

const (
	DataURLService  Service = "data-url"
	LocationService Service = "location"
)

// helloLocation is created by the location service on an empty store when seeding is enabled.
var helloLocation = entity.Location{
	Message:   "Hello!",
	Latitude:  50.049683,
	Longitude: 19.944544,
}

func Run(ctx context.Context, cfg *config.Config, svc Service) error {
	const op = "app.Run"

	logger := NewLogger(cfg)

	var db *sqlx.DB
	if cfg.Storage == config.StoragePostgres {
		var err error

		db, err = openDatabase(ctx, cfg, svc, logger)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		defer db.Close()
	}

	handler, err := newHandler(ctx, cfg, svc, db, logger)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        handler,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", slog.String("addr", server.Addr), slog.String("service", string(svc)))

		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down server")

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}

// NewLogger returns the process logger: JSON in prod, concise text in dev.
func NewLogger(cfg *config.Config) *httplog.Logger {
	level := slog.LevelInfo
	if cfg.Env == config.EnvDev {
		level = slog.LevelDebug
	}

	return httplog.NewLogger(cfg.Name, httplog.Options{
		LogLevel: level,
		JSON:     cfg.Env == config.EnvProd,
		Concise:  cfg.Env == config.EnvDev,
		Tags: map[string]string{
			"version": cfg.Version,
			"env":     cfg.Env,
		},
	})
}

func openDatabase(ctx context.Context, cfg *config.Config, svc Service, logger *httplog.Logger) (*sqlx.DB, error) {
	const op = "app.openDatabase"

	db, err := pgpkg.New(
		ctx,
		cfg.Postgres.DSN(),
		pgpkg.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		pgpkg.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		pgpkg.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		pgpkg.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}

	source := cfg.MigrationsPath
	if source == "" {
		source = "file://migrations/" + string(svc)
	}

	version, err := pgpkg.RunMigrations(source, cfg.Postgres.DSN())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	logger.Info("database ready", slog.String("migrations", source), slog.Uint64("schema_version", uint64(version)))

	return db, nil
}

// newHandler builds the HTTP handler of svc. db may be nil when cfg selects
// the memory storage.
func newHandler(ctx context.Context, cfg *config.Config, svc Service, db *sqlx.DB, logger *httplog.Logger) (http.Handler, error) {
	const op = "app.newHandler"

	resource, err := newResource(ctx, cfg, svc, db, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	namespace := "nhood"
	if cfg.Name != "" {
		namespace = strings.ReplaceAll(cfg.Name, "-", "_")
	}
	collector := metrics.New(namespace)

	opts := []delivery.RouterOption{
		resource,
		delivery.WithMetrics(collector.Handler()),
		delivery.WithMiddlewares(collector.Middleware()),
	}

	if cfg.RateLimit.Enabled() {
		limiter := ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		opts = append(opts, delivery.WithMiddlewares(limiter.Middleware()))
	}

	if cfg.DocsFile != "" {
		opts = append(opts, delivery.WithDocs(cfg.DocsFile))
	}

	info := delivery.ServiceInfo{Name: cfg.Name, Version: cfg.Version}

	return delivery.NewRouter(logger, info, opts...), nil
}

func newResource(ctx context.Context, cfg *config.Config, svc Service, db *sqlx.DB, logger *httplog.Logger) (delivery.RouterOption, error) {
	const op = "app.newResource"

	switch svc {
	case DataURLService:
		var uc *usecase.EntryUseCase[entity.DataURL]

		if cfg.Storage == config.StorageMemory {
			uc = usecase.NewDataURLUseCase(memory.NewDataURLRepository())
		} else {
			uc = usecase.NewDataURLUseCase(postgres.NewDataURLRepository(db))
		}

		return delivery.WithDataURLs(uc), nil

	case LocationService:
		var uc *usecase.EntryUseCase[entity.Location]

		if cfg.Storage == config.StorageMemory {
			uc = usecase.NewLocationUseCase(memory.NewLocationRepository())
		} else {
			uc = usecase.NewLocationUseCase(postgres.NewLocationRepository(db))
		}

		if cfg.Seed {
			hello := helloLocation

			created, err := uc.Seed(ctx, &hello)
			if err != nil {
				return nil, fmt.Errorf("%s: failed to seed locations: %w", op, err)
			}

			if created {
				logger.Info("seeded empty location store")
			}
		}

		return delivery.WithLocations(uc), nil
	}

	return nil, fmt.Errorf("%s: unknown service %q", op, svc)
}
