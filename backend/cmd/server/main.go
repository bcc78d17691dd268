package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"socialgraph/backend/internal/api"
	"socialgraph/backend/internal/events"
	"socialgraph/backend/internal/facade"
	"socialgraph/backend/internal/fixtures"
	"socialgraph/backend/internal/graph"
	"socialgraph/backend/internal/integrity"
	"socialgraph/backend/internal/metrics"
	"socialgraph/backend/internal/resolver"
	"socialgraph/backend/internal/store"
	"socialgraph/backend/pkg/config"
	"socialgraph/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting social graph server...", zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("Server failed", zap.Error(err))
	}
	log.Info("Server exited")
}

// app is the wired service
type app struct {
	facade  *facade.Facade
	router  *gin.Engine
	bus     *events.Bus
	closers []func(context.Context) error
}

// newApp wires store, integrity, resolver, facade and transport. External
// sinks are connected only when configured.
func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	a := &app{}
	m := metrics.New()

	var sinks []events.Sink
	if cfg.NATSEnabled() {
		conn, err := events.ConnectNATS(cfg.NATSURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		sinks = append(sinks, events.NewNATSSink(conn, cfg.NATSSubjectPrefix))
		a.closers = append(a.closers, func(context.Context) error { return conn.Drain() })
		log.Info("NATS sink enabled", zap.String("url", cfg.NATSURL))
	}
	if cfg.ProjectionEnabled() {
		driver, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
		if err != nil {
			a.close(ctx, log)
			return nil, err
		}
		projector := graph.NewProjector(driver)
		a.closers = append(a.closers, projector.Close)
		if err := projector.Migrate(ctx, false); err != nil {
			a.close(ctx, log)
			return nil, fmt.Errorf("failed to migrate graph schema: %w", err)
		}
		sinks = append(sinks, projector)
		log.Info("Neo4j projection enabled", zap.String("uri", cfg.Neo4jURI))
	}

	db := store.NewDB()
	a.bus = events.NewBus(cfg.EventBuffer, m, sinks...)
	a.facade = facade.New(
		db,
		integrity.NewEnforcer(db, a.bus),
		resolver.New(db, resolver.WithConcurrency(cfg.AggregateConcurrency)),
		m,
	)
	a.router = api.NewRouter(a.facade, m, log, cfg.IsProduction())
	return a, nil
}

// seed applies SEED_FILE, or the embedded default tiers when unset
func (a *app) seed(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	fx, err := loadFixture(cfg.SeedFile)
	if err != nil {
		return err
	}
	applied, err := fx.Apply(ctx, a.facade)
	if err != nil {
		return fmt.Errorf("failed to apply seed fixture: %w", err)
	}
	log.Info("Seed data loaded",
		zap.String("file", cfg.SeedFile),
		zap.Int("membership_tiers", len(applied.Tiers)),
		zap.Int("accounts", len(applied.Accounts)),
	)
	return nil
}

func loadFixture(path string) (*fixtures.Fixture, error) {
	if path == "" {
		return fixtures.Default()
	}
	return fixtures.Load(path)
}

func (a *app) close(ctx context.Context, log *zap.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			log.Warn("Failed to close sink", zap.Error(err))
		}
	}
}

// run serves until ctx is cancelled, then shuts the server down and drains
// the event bus
func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: a.router,
	}

	g, gctx := errgroup.WithContext(ctx)

	// Sink calls must outlive the signal so the buffer can drain
	g.Go(func() error {
		return a.bus.Run(context.WithoutCancel(gctx))
	})

	if err := a.seed(gctx, cfg, log); err != nil {
		a.bus.Close()
		_ = g.Wait()
		a.close(context.Background(), log)
		return err
	}

	g.Go(func() error {
		log.Info("Server started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeout)*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown", zap.Error(err))
		}

		a.bus.Close()
		if err := a.bus.Wait(shutdownCtx); err != nil {
			log.Warn("Event bus did not drain before timeout", zap.Error(err))
		}
		a.close(shutdownCtx, log)
		return nil
	})

	return g.Wait()
}
