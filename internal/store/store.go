package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Fetcher is the transport a store talks through. *api.Client implements it.
type Fetcher interface {
	Get(ctx context.Context, path string, dest any) error
	Post(ctx context.Context, path string, body, dest any) error
}

// State is a point-in-time copy of a store.
type State[T any] struct {
	Items               []T
	Loading             bool
	Err                 *ErrorInfo
	UpdatedAt           time.Time
	// ConsecutiveFailures counts failed loads since the last successful
	// load. Appends never touch it.
	ConsecutiveFailures int
}

// HasError reports whether the last completed operation failed.
func (s State[T]) HasError() bool {
	return s.Err != nil
}

// Options configure a store.
type Options struct {
	Logger  zerolog.Logger
	Metrics *Metrics
	// Label is the human name used in error messages ("portfolio").
	Label string
}

// Store holds one backend collection together with its loading flag and last
// error. Load replaces the collection with the server's answer.
//
// Overlapping Load calls are not deduplicated or sequenced: whichever response
// settles last determines the final state, even if it was issued first. The
// loading flag drops as soon as any of them settles.
type Store[T any] struct {
	name    string
	path    string
	label   string
	fetcher Fetcher
	logger  zerolog.Logger
	metrics *Metrics

	mu    sync.RWMutex
	state State[T]
}

// New builds an empty store for the collection served at path.
func New[T any](name, path string, fetcher Fetcher, opts Options) *Store[T] {
	label := opts.Label
	if label == "" {
		label = name
	}
	return &Store[T]{
		name:    name,
		path:    path,
		label:   label,
		fetcher: fetcher,
		logger:  opts.Logger.With().Str("component", "store").Str("resource", name).Logger(),
		metrics: opts.Metrics,
		state:   State[T]{Items: []T{}},
	}
}

// Name returns the resource name.
func (s *Store[T]) Name() string { return s.name }

// Path returns the endpoint path.
func (s *Store[T]) Path() string { return s.path }

// Load fetches the collection and replaces the stored items. Failures are
// recorded in the state and logged, never returned.
func (s *Store[T]) Load(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	start := time.Now()
	var items []T
	err := s.fetch(ctx, &items)
	s.metrics.observe(s.name, opLoad, start, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failLocked(newErrorInfo(LoadFailed, "Failed to load "+s.label, err))
		s.state.ConsecutiveFailures++
		s.logger.Error().Err(err).Str("op", opLoad).Int("status", s.state.Err.Status).Msg("load failed")
		return
	}
	if items == nil {
		items = []T{}
	}
	s.state.Items = items
	s.succeedLocked()
	s.state.ConsecutiveFailures = 0
	s.metrics.setItems(s.name, len(items))
	s.logger.Debug().Str("op", opLoad).Int("items", len(items)).Msg("loaded")
}

// fetch wraps the transport call so a panicking Fetcher cannot leave the
// store stuck in the loading state.
func (s *Store[T]) fetch(ctx context.Context, dest *[]T) (err error) {
	if s.fetcher == nil {
		return errNoFetcher
	}
	defer func() {
		if r := recover(); r != nil {
			err = panicError{value: r}
		}
	}()
	return s.fetcher.Get(ctx, s.path, dest)
}

// Snapshot returns a copy of the current state.
func (s *Store[T]) Snapshot() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.state
	snap.Items = cloneItems(s.state.Items)
	if s.state.Err != nil {
		errCopy := *s.state.Err
		snap.Err = &errCopy
	}
	return snap
}

func (s *Store[T]) setLoading(v bool) {
	s.mu.Lock()
	s.state.Loading = v
	s.mu.Unlock()
}

func (s *Store[T]) succeedLocked() {
	s.state.Err = nil
	s.state.UpdatedAt = time.Now()
}

func (s *Store[T]) failLocked(info *ErrorInfo) {
	s.state.Err = info
	s.state.UpdatedAt = time.Now()
}

func cloneItems[T any](items []T) []T {
	if items == nil {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}
