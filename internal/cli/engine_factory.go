package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/kiosk"
	"github.com/aretw0/kiosk/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/kiosk/pkg/adapters/redis"
	"github.com/aretw0/kiosk/pkg/config"
	"github.com/aretw0/kiosk/pkg/ids"
	"github.com/aretw0/kiosk/pkg/observability"
	"github.com/aretw0/kiosk/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Runtime bundles an engine with the resources the CLI has to expose or release.
type Runtime struct {
	Engine   *kiosk.Engine
	Metrics  *observability.Metrics
	Registry *prometheus.Registry
	Logger   *slog.Logger

	closers []func() error
}

// Close releases backend connections.
func (r *Runtime) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// BuildEngine initializes a Kiosk engine from configuration with standard CLI conventions.
func BuildEngine(cfg *config.Config, logger *slog.Logger, debug bool) (*Runtime, error) {
	rt := &Runtime{
		Registry: prometheus.NewRegistry(),
		Logger:   logger,
	}

	metrics, err := observability.NewMetrics(rt.Registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	rt.Metrics = metrics

	hooks := metrics.Hooks()
	if debug {
		hooks = observability.Chain(hooks, observability.LoggingHooks(logger))
	}

	opts := []kiosk.Option{
		kiosk.WithLogger(logger),
		kiosk.WithLifecycleHooks(hooks),
		kiosk.WithInitialLists(cfg.Board.InitialLists),
		kiosk.WithIDGenerator(newIDGenerator(cfg.Board.IDs)),
	}

	// 1. Catalog: a Loam path wins over inline items.
	if cfg.Catalog.Path == "" && len(cfg.Catalog.Items) > 0 {
		opts = append(opts, kiosk.WithCatalog(memory.NewLoader(cfg.Catalog.Items...)))
	}

	// 2. Board store
	switch cfg.Store.Backend {
	case config.BackendRedis:
		store := redisAdapter.New(cfg.Store.RedisAddr, cfg.Store.RedisPassword, cfg.Store.RedisDB,
			redisAdapter.WithTTL(cfg.Store.TTL),
			redisAdapter.WithPrefix(cfg.Store.Prefix),
		)
		rt.closers = append(rt.closers, store.Close)
		opts = append(opts,
			kiosk.WithStore(store),
			kiosk.WithLocker(redisAdapter.NewLocker(store.Client(), store.Prefix())),
			kiosk.WithLockTTL(cfg.Store.LockTTL),
		)
		logger.Debug("Using Redis board store", "addr", cfg.Store.RedisAddr, "prefix", cfg.Store.Prefix)
	default:
		opts = append(opts, kiosk.WithStore(memory.NewStore()))
	}

	engine, err := kiosk.New(cfg.Catalog.Path, opts...)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	rt.Engine = engine
	return rt, nil
}

func newIDGenerator(scheme string) ports.IDGenerator {
	if scheme == config.IDsSequence {
		return ids.NewSequence("id")
	}
	return ids.UUID{}
}
