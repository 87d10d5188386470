package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dankservices/blog-site/internal/content"
	"github.com/dankservices/blog-site/internal/index"
	"github.com/dankservices/blog-site/internal/logger"
)

// DocumentStore is the optional persistence behind the index.
// A nil DocumentStore disables persistence.
type DocumentStore interface {
	SaveDocumentsMany(ctx context.Context, docs []*content.Document) error
	GetAllDocuments(ctx context.Context) ([]*content.Document, error)
	DeleteDocument(ctx context.Context, addr content.Address) error
}

// ContentLoader is what the reloader needs from the content tree.
type ContentLoader interface {
	LoadAll() ([]*content.Document, error)
}

// ContentReloader keeps the memory index in sync with the content tree.
// Reloads happen on a ticker, on manual trigger and on watcher events;
// they are serialized.
type ContentReloader struct {
	loader        ContentLoader
	store         DocumentStore
	index         *index.MemoryIndex
	logger        logger.Logger
	interval      time.Duration
	manualTrigger <-chan struct{}

	mu       sync.Mutex
	stopCh   chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

func NewContentReloader(
	loader ContentLoader,
	store DocumentStore,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger <-chan struct{},
) *ContentReloader {
	return &ContentReloader{
		loader:        loader,
		store:         store,
		index:         idx,
		logger:        log,
		interval:      interval,
		manualTrigger: manualTrigger,
		stopCh:        make(chan struct{}),
		now:           time.Now,
	}
}

// Start loads the content tree once, then keeps reloading in the background.
// A failed first load is fatal unless the index was already warmed from Redis.
func (cr *ContentReloader) Start(ctx context.Context) error {
	if err := cr.Reload(ctx); err != nil {
		if cr.index.Count() == 0 {
			return fmt.Errorf("initial content load failed: %w", err)
		}
		cr.logger.Warn("initial content load failed, serving snapshot from redis",
			logger.Int("documents", cr.index.Count()),
			logger.Error(err))
	}

	go cr.loop(ctx)
	return nil
}

func (cr *ContentReloader) loop(ctx context.Context) {
	// A zero interval disables periodic reloads; a nil channel never fires.
	var tick <-chan time.Time
	if cr.interval > 0 {
		ticker := time.NewTicker(cr.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-tick:
			cr.reloadAndLog(ctx, "interval")
		case <-cr.manualTrigger:
			cr.reloadAndLog(ctx, "trigger")
		case <-cr.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (cr *ContentReloader) reloadAndLog(ctx context.Context, reason string) {
	cr.logger.Info("content reload triggered", logger.String("reason", reason))
	if err := cr.Reload(ctx); err != nil {
		cr.logger.Error("failed to reload content, keeping previous index", logger.Error(err))
	}
}

// Stop ends the background loop. It is safe to call more than once.
func (cr *ContentReloader) Stop() {
	cr.stopOnce.Do(func() { close(cr.stopCh) })
}

// Reload rebuilds the index from disk. On failure the index is left as-is.
// Documents that vanished are kept but marked disabled so the garbage
// collector can remove them later.
func (cr *ContentReloader) Reload(ctx context.Context) error {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	docs, err := cr.loader.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}

	now := cr.now()
	fresh := make(map[content.Address]bool, len(docs))
	entries := make([]*index.Entry, 0, len(docs))

	for _, d := range docs {
		fresh[d.Address] = true
		e := &index.Entry{Doc: d, FirstSeen: now, UpdatedAt: now}
		if prev, ok := cr.index.Get(d.Address); ok && !prev.FirstSeen.IsZero() {
			e.FirstSeen = prev.FirstSeen
		}
		entries = append(entries, e)
	}

	disabled := 0
	for _, prev := range cr.index.All() {
		if fresh[prev.Doc.Address] {
			continue
		}
		gone := *prev
		if !gone.Disabled {
			gone.Disabled = true
			gone.UpdatedAt = now
			disabled++
		}
		entries = append(entries, &gone)
	}

	cr.index.Update(entries)

	cr.logger.Info("content reloaded",
		logger.Int("documents", len(docs)),
		logger.Int("newly_disabled", disabled))

	if cr.store != nil {
		if err := cr.store.SaveDocumentsMany(ctx, docs); err != nil {
			cr.logger.Warn("failed to save documents to redis", logger.Error(err))
		}
	}

	return nil
}
