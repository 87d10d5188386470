package scheduler

import (
	"context"
	"time"

	"github.com/dankservices/blog-site/internal/index"
	"github.com/dankservices/blog-site/internal/logger"
)

// RedisSyncer warms the memory index from Redis snapshots on startup,
// before the first content load.
type RedisSyncer struct {
	store  DocumentStore
	index  *index.MemoryIndex
	logger logger.Logger
}

func NewRedisSyncer(store DocumentStore, idx *index.MemoryIndex, log logger.Logger) *RedisSyncer {
	return &RedisSyncer{store: store, index: idx, logger: log}
}

// Sync copies every snapshot into the index. It never overwrites a
// non-empty index.
func (rs *RedisSyncer) Sync(ctx context.Context) error {
	if rs.index.Count() > 0 {
		return nil
	}

	docs, err := rs.store.GetAllDocuments(ctx)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		rs.logger.Info("no document snapshots in redis")
		return nil
	}

	now := time.Now()
	entries := make([]*index.Entry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, &index.Entry{Doc: d, FirstSeen: now, UpdatedAt: now})
	}
	rs.index.Update(entries)

	rs.logger.Info("warmed index from redis", logger.Int("documents", len(docs)))
	return nil
}
