package store

import (
	"context"
	"time"
)

// AppendStore is a Store whose backend also accepts new items by POST.
type AppendStore[T any] struct {
	*Store[T]
}

// NewAppendable builds an empty append-capable store.
func NewAppendable[T any](name, path string, fetcher Fetcher, opts Options) *AppendStore[T] {
	return &AppendStore[T]{Store: New[T](name, path, fetcher, opts)}
}

// Append posts item and, once the backend accepts it, adds it verbatim to the
// end of the collection. Nothing is added before the request settles, and the
// loading flag is left alone. A rejected item is dropped; the failure is
// recorded in the state and logged.
func (s *AppendStore[T]) Append(ctx context.Context, item T) {
	s.TryAppend(ctx, item)
}

// TryAppend is Append that also returns the failure it recorded, or nil when
// the item was added. The result belongs to this call alone, so a load
// settling right after cannot change it.
func (s *AppendStore[T]) TryAppend(ctx context.Context, item T) *ErrorInfo {
	start := time.Now()
	err := s.post(ctx, item)
	s.metrics.observe(s.name, opAppend, start, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		info := newErrorInfo(AppendFailed, "Failed to add "+singular(s.label), err)
		s.failLocked(info)
		s.logger.Error().Err(err).Str("op", opAppend).Int("status", info.Status).Msg("append failed")
		result := *info
		return &result
	}
	s.state.Items = append(s.state.Items, item)
	s.succeedLocked()
	s.metrics.setItems(s.name, len(s.state.Items))
	s.logger.Debug().Str("op", opAppend).Int("items", len(s.state.Items)).Msg("appended")
	return nil
}

func (s *AppendStore[T]) post(ctx context.Context, item T) (err error) {
	if s.fetcher == nil {
		return errNoFetcher
	}
	defer func() {
		if r := recover(); r != nil {
			err = panicError{value: r}
		}
	}()
	return s.fetcher.Post(ctx, s.path, item, nil)
}

// singular turns "transactions" into "transaction" for messages.
func singular(label string) string {
	if n := len(label); n > 1 && label[n-1] == 's' {
		return label[:n-1]
	}
	return label
}
