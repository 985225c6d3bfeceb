package catalog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/config"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/repository"
)

const syncInterval = 10 * time.Minute

var destinationSyncMu sync.Mutex

// RunDestinationSyncOnce fetches destinations from the catalog service and
// upserts them. Does nothing when the service is not configured; logs and
// returns on failure so the database copy (or the hardcoded fallback) keeps
// serving reads.
func RunDestinationSyncOnce(ctx context.Context, cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) {
	if cfg.Catalog.BaseURL == "" {
		logger.Debug("Destination sync skipped: CATALOG_URL not set")
		return
	}

	client := NewClient(cfg.Catalog.BaseURL, cfg.Catalog.ServiceKey, logger)
	destinations, err := client.FetchDestinations(ctx)
	if err != nil {
		logger.Warn("Destination sync: fetch failed", zap.Error(err))
		return
	}
	if len(destinations) == 0 {
		logger.Debug("Destination sync: catalog returned no destinations")
		return
	}

	if err := repos.Destination.UpsertBatch(ctx, destinations); err != nil {
		logger.Warn("Destination sync: upsert failed", zap.Error(err))
		return
	}
	logger.Info("Destination sync: synced destinations", zap.Int("count", len(destinations)))
}

// RunDestinationSyncLoop runs sync once, then every syncInterval. Call from a goroutine.
func RunDestinationSyncLoop(ctx context.Context, cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) {
	destinationSyncMu.Lock()
	RunDestinationSyncOnce(ctx, cfg, repos, logger)
	destinationSyncMu.Unlock()

	ticker := time.NewTicker(syncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			destinationSyncMu.Lock()
			RunDestinationSyncOnce(ctx, cfg, repos, logger)
			destinationSyncMu.Unlock()
		}
	}
}
