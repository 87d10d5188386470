package page

import (
	"context"
	"sync"
)

// State is where a page is in its single fetch cycle.
type State int

const (
	Loading State = iota
	Error
	Loaded
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Error:
		return "error"
	case Loaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Page drives one page render: it starts in Loading and moves to Error or
// Loaded when its single fetch completes. It never goes back to Loading and
// never retries; a new Page is needed for another attempt.
type Page[T any] struct {
	fetch func(context.Context) (T, error)

	once  sync.Once
	mu    sync.RWMutex
	state State
	data  T
	err   error
}

func New[T any](fetch func(context.Context) (T, error)) *Page[T] {
	return &Page[T]{fetch: fetch}
}

// Load runs the fetch the first time it is called and returns the terminal
// state. Later calls return the same state without fetching again.
func (p *Page[T]) Load(ctx context.Context) State {
	p.once.Do(func() {
		data, err := p.fetch(ctx)

		p.mu.Lock()
		defer p.mu.Unlock()
		if err != nil {
			p.state, p.err = Error, err
			return
		}
		p.state, p.data = Loaded, data
	})
	return p.State()
}

func (p *Page[T]) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Data returns the fetched value; ok is false unless the page is Loaded.
func (p *Page[T]) Data() (data T, ok bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.data, p.state == Loaded
}

// Err returns the fetch error of a page in the Error state.
func (p *Page[T]) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.err
}
