package store

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/five82/folio/internal/api"
)

// Endpoint paths of the backend collections.
const (
	PortfolioPath    = "/portfolio"
	SecuritiesPath   = "/securities"
	TransactionsPath = "/transactions"
)

// Set is the single instance of every store, built once at startup and
// handed to whichever layer needs it.
type Set struct {
	Portfolio    *Store[api.Holding]
	Securities   *Store[api.Security]
	Transactions *AppendStore[api.Transaction]
}

// NewSet builds the three stores on top of fetcher.
func NewSet(fetcher Fetcher, opts Options) *Set {
	with := func(label string) Options {
		o := opts
		o.Label = label
		return o
	}
	return &Set{
		Portfolio:    New[api.Holding]("portfolio", PortfolioPath, fetcher, with("portfolio")),
		Securities:   New[api.Security]("securities", SecuritiesPath, fetcher, with("securities")),
		Transactions: NewAppendable[api.Transaction]("transactions", TransactionsPath, fetcher, with("transactions")),
	}
}

// LoadAll loads every store concurrently and waits for all of them to settle.
func (s *Set) LoadAll(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error { s.Portfolio.Load(ctx); return nil })
	g.Go(func() error { s.Securities.Load(ctx); return nil })
	g.Go(func() error { s.Transactions.Load(ctx); return nil })
	_ = g.Wait()
}

// Failures returns the errors currently recorded across the set.
func (s *Set) Failures() []*ErrorInfo {
	var out []*ErrorInfo
	if err := s.Portfolio.Snapshot().Err; err != nil {
		out = append(out, err)
	}
	if err := s.Securities.Snapshot().Err; err != nil {
		out = append(out, err)
	}
	if err := s.Transactions.Snapshot().Err; err != nil {
		out = append(out, err)
	}
	return out
}

// MaxConsecutiveFailures is the worst failure streak across the set.
func (s *Set) MaxConsecutiveFailures() int {
	return max(
		s.Portfolio.Snapshot().ConsecutiveFailures,
		s.Securities.Snapshot().ConsecutiveFailures,
		s.Transactions.Snapshot().ConsecutiveFailures,
	)
}
