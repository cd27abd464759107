// Package bootstrap assembles the console from configuration. Both binaries use it.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-console/internal/config"
	"github.com/xavierca1/lead-console/internal/infra/cache"
	"github.com/xavierca1/lead-console/internal/infra/database"
	"github.com/xavierca1/lead-console/internal/infra/remote"
	"github.com/xavierca1/lead-console/internal/storage"
	"github.com/xavierca1/lead-console/internal/usecase"
)

// Pinger reports the health of a networked backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StateStore is the opened store plus what the caller needs to monitor and close it.
type StateStore struct {
	Store   *storage.Store
	Backend string
	Pinger  Pinger // nil for memory and file backends
	close   func() error
}

func (s *StateStore) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStore opens the backend selected by cfg.StoreBackend.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*StateStore, error) {
	out := &StateStore{Backend: cfg.StoreBackend}

	var backend storage.Backend
	switch cfg.StoreBackend {
	case config.BackendMemory:
		backend = storage.NewMemoryBackend()

	case config.BackendFile:
		fb, err := storage.NewFileBackend(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		backend = fb

	case config.BackendRedis:
		rb, err := cache.NewRedisBackend(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		backend, out.Pinger, out.close = rb, rb, rb.Close

	case config.BackendPostgres, config.BackendSQLite:
		driver, dsn := database.DriverPostgres, cfg.DatabaseURL
		if cfg.StoreBackend == config.BackendSQLite {
			driver, dsn = database.DriverSQLite, cfg.SQLitePath
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
		db, err := database.NewDBConnection(driver, dsn)
		if err != nil {
			return nil, err
		}
		repo := database.NewStateRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		backend, out.Pinger, out.close = repo, repo, db.Close

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	out.Store = storage.New(backend, logger.Named("store"))
	logger.Info("State store opened", zap.String("backend", cfg.StoreBackend))
	return out, nil
}

// NewRemote builds the round-trip simulator. Deletes take three fifths of the
// configured delay, every other operation the full delay.
func NewRemote(cfg *config.Config) *remote.Simulator {
	d := cfg.RemoteDelay
	return remote.NewSimulator(map[string]remote.Profile{
		remote.OpLeadUpdate:        {Delay: d, FailureRate: cfg.LeadUpdateFailureRate},
		remote.OpOpportunityCreate: {Delay: d},
		remote.OpOpportunityUpdate: {Delay: d},
		remote.OpOpportunityDelete: {Delay: d * 3 / 5},
	}, cfg.RemoteSeed)
}

// Console is the set of managers and use cases behind every front end.
type Console struct {
	Leads         *usecase.LeadManager
	Opportunities *usecase.OpportunityManager
	Convert       *usecase.ConvertLeadUseCase
}

func NewConsole(ctx context.Context, cfg *config.Config, store *storage.Store, rt usecase.Remote, notifier usecase.Notifier, metrics usecase.Metrics, logger *zap.Logger) *Console {
	leads := usecase.NewLeadManager(ctx, store, rt,
		usecase.WithLeadNotifier(notifier),
		usecase.WithLeadMetrics(metrics),
		usecase.WithLeadLogger(logger.Named("leads")),
		usecase.WithSearchDebounce(cfg.SearchDebounce),
		usecase.WithImportDelay(cfg.ImportDelay),
	)
	opps := usecase.NewOpportunityManager(ctx, store, rt,
		usecase.WithOpportunityMetrics(metrics),
		usecase.WithOpportunityLogger(logger.Named("opportunities")),
		usecase.WithClock(time.Now),
	)

	return &Console{
		Leads:         leads,
		Opportunities: opps,
		Convert:       usecase.NewConvertLeadUseCase(leads, opps, notifier, logger.Named("convert")),
	}
}

func (c *Console) Close() {
	c.Leads.Close()
}
