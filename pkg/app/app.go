// Package app boots stockroom: it connects the store, cache and log sink,
// wires repositories, services and controllers, and runs the servers.
//
//	a, err := app.Boot(ctx)
//	if err != nil { ... }
//	defer a.Shutdown(context.Background())
//	return a.Serve(ctx)
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shashiranjanraj/stockroom/app/controllers"
	"github.com/shashiranjanraj/stockroom/app/listeners"
	"github.com/shashiranjanraj/stockroom/app/models"
	"github.com/shashiranjanraj/stockroom/app/repositories"
	"github.com/shashiranjanraj/stockroom/app/services"
	"github.com/shashiranjanraj/stockroom/config"
	"github.com/shashiranjanraj/stockroom/database/seeders"
	"github.com/shashiranjanraj/stockroom/internal/kernel"
	"github.com/shashiranjanraj/stockroom/internal/server"
	"github.com/shashiranjanraj/stockroom/pkg/cache"
	"github.com/shashiranjanraj/stockroom/pkg/database"
	"github.com/shashiranjanraj/stockroom/pkg/event"
	"github.com/shashiranjanraj/stockroom/pkg/grpc"
	"github.com/shashiranjanraj/stockroom/pkg/logger"
	"github.com/shashiranjanraj/stockroom/pkg/middleware"
	"github.com/shashiranjanraj/stockroom/pkg/migration"
	"github.com/shashiranjanraj/stockroom/pkg/workerpool"
)

// healthInterval is how often the gRPC health service probes MongoDB.
const healthInterval = 15 * time.Second

// Application holds every long-lived component.
type Application struct {
	Products *services.ProductService
	Kernel   *kernel.HTTPKernel

	repo    *repositories.ProductRepository
	cache   *cache.Redis
	pool    *workerpool.Pool
	logSink *logger.MongoHandler
}

// Connect loads config and opens the MongoDB connection. Commands that only
// touch the database (migrate, seed) stop here.
func Connect(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := database.Connect(ctx); err != nil {
		return err
	}
	logger.Info("Connected to MongoDB", "database", config.MongoDatabase())
	return nil
}

// Boot connects every backing service and wires the application.
// Redis is optional: without it products are always read from MongoDB.
func Boot(ctx context.Context) (*Application, error) {
	if err := Connect(ctx); err != nil {
		return nil, err
	}

	a := &Application{}

	if name := config.LogMongoCollection(); name != "" {
		a.logSink = logger.NewMongoHandler(database.DB.Collection(name), slog.LevelInfo)
		logger.Attach(a.logSink)
	}

	redis, err := cache.Connect(ctx, config.RedisAddr(), config.RedisPassword(), "stockroom:")
	if err != nil {
		logger.Warn("Redis unavailable, running without cache", "error", err)
	}
	a.cache = redis

	a.pool = workerpool.New(config.HookWorkers(), workerpool.WithPanicHandler(func(v any) {
		logger.Error("workerpool: task panicked", "panic", v)
	}))
	bus := event.NewBus(a.pool)
	listeners.Register(bus)

	a.repo = repositories.NewProductRepository(database.DB.Collection(models.ProductCollection))
	a.Products = services.NewProductService(a.repo, a.cache, bus, config.CacheTTL())

	proxies, err := middleware.ParseTrustedProxies(config.TrustedProxies())
	if err != nil {
		return nil, errors.Join(fmt.Errorf("config: %w", err), a.Shutdown(ctx))
	}

	a.Kernel = kernel.NewHTTPKernel(
		controllers.NewProductController(a.Products),
		controllers.NewHomeController(),
		config.RateLimitPerMinute(),
		proxies...,
	)

	return a, nil
}

// Serve runs the HTTP server, and the gRPC health server when GRPC_PORT is
// set, until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	var health *grpc.Server
	if port := config.GRPCPort(); port != "" {
		srv, err := grpc.Start(":"+port, a.repo, healthInterval)
		if err != nil {
			return err
		}
		health = srv
	}
	defer health.Stop()

	return server.Run(ctx, ":"+config.Port(), a.Kernel.Handler())
}

// Shutdown releases everything Boot acquired, in reverse order.
func (a *Application) Shutdown(ctx context.Context) error {
	if a.Kernel != nil {
		a.Kernel.Close()
	}
	if a.pool != nil {
		a.pool.Shutdown()
	}

	var errs []error
	if err := a.cache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("cache: close: %w", err))
	}
	if a.logSink != nil {
		logger.Detach()
		a.logSink.Close()
	}
	if err := database.Disconnect(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Migrate runs pending migrations, reporting progress to out.
func Migrate(ctx context.Context, out io.Writer) error {
	return migration.New(database.DB, out).Run(ctx)
}

// Rollback reverses the last migration batch.
func Rollback(ctx context.Context, out io.Writer) error {
	return migration.New(database.DB, out).Rollback(ctx)
}

// MigrationStatus prints every migration and whether it ran.
func MigrationStatus(ctx context.Context, out io.Writer) error {
	return migration.New(database.DB, out).Status(ctx)
}

// Seed inserts sample products through the validating service.
func (a *Application) Seed(ctx context.Context, out io.Writer) error {
	return seeders.RunAll(ctx, a.Products, out)
}
