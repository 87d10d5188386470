package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/dankservices/blog-site/internal/index"
	"github.com/dankservices/blog-site/internal/logger"
)

// DefaultGCThreshold is how long a removed document stays servable.
const DefaultGCThreshold = 72 * time.Hour

// GarbageCollector purges documents that have been disabled for longer than
// the threshold, from the index and from Redis.
type GarbageCollector struct {
	store     DocumentStore
	index     *index.MemoryIndex
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	stopCh    chan struct{}
	stopOnce  sync.Once
	now       func() time.Time
}

func NewGarbageCollector(
	store DocumentStore,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *GarbageCollector {
	if threshold <= 0 {
		threshold = DefaultGCThreshold
	}

	return &GarbageCollector{
		store:     store,
		index:     idx,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		stopCh:    make(chan struct{}),
		now:       time.Now,
	}
}

// Start runs one collection, then collects every interval.
func (gc *GarbageCollector) Start(ctx context.Context) {
	gc.Collect(ctx)

	if gc.interval <= 0 {
		return
	}

	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				gc.Collect(ctx)
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (gc *GarbageCollector) Stop() {
	gc.stopOnce.Do(func() { close(gc.stopCh) })
}

// Collect removes expired disabled documents and returns how many went.
func (gc *GarbageCollector) Collect(ctx context.Context) int {
	now := gc.now()
	deleted := 0

	for _, e := range gc.index.All() {
		if !e.Disabled || e.UpdatedAt.IsZero() {
			continue
		}
		age := now.Sub(e.UpdatedAt)
		if age < gc.threshold {
			continue
		}

		addr := e.Doc.Address
		if !gc.index.DeleteIfDisabled(addr, now.Add(-gc.threshold)) {
			continue
		}

		if gc.store != nil {
			if err := gc.store.DeleteDocument(ctx, addr); err != nil {
				gc.logger.Warn("failed to delete document from redis",
					logger.String("address", addr.String()),
					logger.Error(err))
			}
		}

		gc.logger.Info("garbage collected removed document",
			logger.String("address", addr.String()),
			logger.Duration("disabled_for", age))
		deleted++
	}

	if deleted == 0 {
		gc.logger.Debug("no documents to garbage collect")
	}
	return deleted
}
