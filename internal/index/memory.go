package index

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dankservices/blog-site/internal/content"
)

// Entry is one indexed document plus its lifecycle state.
type Entry struct {
	Doc *content.Document

	// FirstSeen is when the document first appeared in a reload.
	FirstSeen time.Time

	// UpdatedAt is bumped whenever a reload touches the entry.
	UpdatedAt time.Time

	// Disabled marks a document that vanished from disk. It is no longer
	// served, but stays indexed until garbage-collected so a returning file
	// keeps its FirstSeen.
	Disabled bool
}

// MemoryIndex holds the rendered content tree for the HTTP layer.
type MemoryIndex struct {
	mu         sync.RWMutex
	entries    map[content.Address]*Entry
	lastReload time.Time
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		entries: make(map[content.Address]*Entry),
	}
}

// Update replaces every entry and records the reload time.
func (idx *MemoryIndex) Update(entries []*Entry) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.entries = make(map[content.Address]*Entry, len(entries))
	for _, e := range entries {
		idx.entries[e.Doc.Address] = e
	}
	idx.lastReload = time.Now()
}

// Add inserts or replaces a single entry.
func (idx *MemoryIndex) Add(e *Entry) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.entries[e.Doc.Address] = e
}

func (idx *MemoryIndex) Get(addr content.Address) (*Entry, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	e, ok := idx.entries[addr]
	return e, ok
}

// DeleteIfDisabled removes the entry at addr only if it is still disabled
// and was last updated no later than cutoff. A reload that restored the
// document in the meantime wins.
func (idx *MemoryIndex) DeleteIfDisabled(addr content.Address, cutoff time.Time) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	e, ok := idx.entries[addr]
	if !ok || !e.Disabled || e.UpdatedAt.IsZero() || e.UpdatedAt.After(cutoff) {
		return false
	}
	delete(idx.entries, addr)
	return true
}

// All returns every entry, disabled ones included, in address order.
func (idx *MemoryIndex) All() []*Entry {
	idx.mu.RLock()
	out := make([]*Entry, 0, len(idx.entries))
	for _, e := range idx.entries {
		out = append(out, e)
	}
	idx.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Entry) int { return compareAddr(a.Doc.Address, b.Doc.Address) })
	return out
}

// Addresses returns the addresses of active documents, in address order.
func (idx *MemoryIndex) Addresses() []content.Address {
	all := idx.All()
	out := make([]content.Address, 0, len(all))
	for _, e := range all {
		if !e.Disabled {
			out = append(out, e.Doc.Address)
		}
	}
	return out
}

// Count returns the number of entries, disabled ones included.
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.entries)
}

func (idx *MemoryIndex) LastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}

func compareAddr(a, b content.Address) int {
	if c := strings.Compare(a.Slug, b.Slug); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}
