package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/folio/internal/api"
)

// fakeFetcher answers each call by waiting on the next scripted reply.
type fakeFetcher struct {
	mu      sync.Mutex
	replies []chan reply
	calls   int
	posted  []any
}

type reply struct {
	body string
	err  error
}

func newFakeFetcher(n int) *fakeFetcher {
	f := &fakeFetcher{}
	for i := 0; i < n; i++ {
		f.replies = append(f.replies, make(chan reply, 1))
	}
	return f
}

func (f *fakeFetcher) next() chan reply {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := f.replies[f.calls]
	f.calls++
	return ch
}

func (f *fakeFetcher) started() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeFetcher) Get(ctx context.Context, _ string, dest any) error {
	select {
	case r := <-f.next():
		if r.err != nil {
			return r.err
		}
		return json.Unmarshal([]byte(r.body), dest)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeFetcher) Post(ctx context.Context, _ string, body, _ any) error {
	f.mu.Lock()
	f.posted = append(f.posted, body)
	f.mu.Unlock()
	select {
	case r := <-f.next():
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func testOptions() Options {
	return Options{Logger: zerolog.Nop()}
}

func newBackend(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c, err := api.NewClient(server.URL)
	require.NoError(t, err)
	return c
}

func marshal(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return string(raw)
}

func TestNewSet_StartsEmpty(t *testing.T) {
	set := NewSet(newFakeFetcher(0), testOptions())

	p := set.Portfolio.Snapshot()
	assert.Empty(t, p.Items)
	assert.False(t, p.Loading)
	assert.Nil(t, p.Err)

	s := set.Securities.Snapshot()
	assert.Empty(t, s.Items)
	assert.False(t, s.Loading)
	assert.Nil(t, s.Err)

	tx := set.Transactions.Snapshot()
	assert.Empty(t, tx.Items)
	assert.False(t, tx.Loading)
	assert.Nil(t, tx.Err)

	assert.Equal(t, PortfolioPath, set.Portfolio.Path())
	assert.Equal(t, SecuritiesPath, set.Securities.Path())
	assert.Equal(t, TransactionsPath, set.Transactions.Path())
}

func TestLoad_PortfolioScenario(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PortfolioPath, r.URL.Path)
		_, _ = w.Write([]byte(`[{"ticker":"AAPL","qty":10}]`))
	})
	set := NewSet(client, testOptions())

	set.Portfolio.Load(context.Background())

	snap := set.Portfolio.Snapshot()
	assert.JSONEq(t, `[{"ticker":"AAPL","qty":10}]`, marshal(t, snap.Items))
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.Err)
}

func TestLoad_ReplacesPreviousCollection(t *testing.T) {
	bodies := []string{
		`[{"ticker":"AAPL","qty":10},{"ticker":"MSFT","qty":5}]`,
		`[{"ticker":"VOO","qty":1}]`,
	}
	var calls int
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(bodies[calls]))
		calls++
	})
	s := New[api.Holding]("portfolio", PortfolioPath, client, testOptions())

	s.Load(context.Background())
	require.Len(t, s.Snapshot().Items, 2)

	s.Load(context.Background())
	snap := s.Snapshot()
	assert.JSONEq(t, `[{"ticker":"VOO","qty":1}]`, marshal(t, snap.Items))
	assert.Nil(t, snap.Err)
	assert.False(t, snap.Loading)
}

func TestLoad_ServerErrorKeepsCollection(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	})
	set := NewSet(client, testOptions())

	set.Transactions.Load(context.Background())

	snap := set.Transactions.Snapshot()
	assert.Empty(t, snap.Items)
	assert.False(t, snap.Loading)
	require.NotNil(t, snap.Err)
	assert.Equal(t, LoadFailed, snap.Err.Kind)
	assert.Equal(t, "Failed to load transactions", snap.Err.Message)
	assert.Equal(t, http.StatusInternalServerError, snap.Err.Status)
	assert.Contains(t, snap.Err.Detail(), "returned status 500")
	assert.Equal(t, 1, snap.ConsecutiveFailures)
}

func TestLoad_FailureAfterSuccessLeavesStaleData(t *testing.T) {
	f := newFakeFetcher(3)
	s := New[api.Holding]("portfolio", PortfolioPath, f, testOptions())

	f.replies[0] <- reply{body: `[{"ticker":"AAPL","qty":10}]`}
	s.Load(context.Background())
	before := s.Snapshot().Items

	f.replies[1] <- reply{body: `{not-json`}
	s.Load(context.Background())
	snap := s.Snapshot()
	assert.Equal(t, marshal(t, before), marshal(t, snap.Items))
	require.NotNil(t, snap.Err)
	assert.Equal(t, LoadFailed, snap.Err.Kind)
	assert.Zero(t, snap.Err.Status)
	assert.False(t, snap.Loading)

	f.replies[2] <- reply{body: `[]`}
	s.Load(context.Background())
	snap = s.Snapshot()
	assert.Nil(t, snap.Err, "success clears the previous error")
	assert.Empty(t, snap.Items)
	assert.Zero(t, snap.ConsecutiveFailures)
}

func TestLoad_LoadingTrueWhileInFlight(t *testing.T) {
	for _, tc := range []struct {
		name  string
		reply reply
	}{
		{"success", reply{body: `[]`}},
		{"failure", reply{err: errors.New("connection refused")}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakeFetcher(1)
			s := New[api.Security]("securities", SecuritiesPath, f, testOptions())

			done := make(chan struct{})
			go func() {
				s.Load(context.Background())
				close(done)
			}()

			require.Eventually(t, func() bool { return s.Snapshot().Loading }, time.Second, time.Millisecond)

			f.replies[0] <- tc.reply
			<-done
			assert.False(t, s.Snapshot().Loading)
		})
	}
}

func TestLoad_ContextCancelledIsLoadFailed(t *testing.T) {
	f := newFakeFetcher(1)
	s := New[api.Holding]("portfolio", PortfolioPath, f, testOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Load(ctx)

	snap := s.Snapshot()
	require.NotNil(t, snap.Err)
	assert.Equal(t, LoadFailed, snap.Err.Kind)
	assert.ErrorIs(t, snap.Err, context.Canceled)
	assert.False(t, snap.Loading)
}

type panickingFetcher struct{}

func (panickingFetcher) Get(context.Context, string, any) error {
	panic("transport exploded")
}

func (panickingFetcher) Post(context.Context, string, any, any) error {
	panic("transport exploded")
}

func TestOperations_PanickingTransportNeverEscapes(t *testing.T) {
	s := NewAppendable[api.Transaction]("transactions", TransactionsPath, panickingFetcher{}, testOptions())

	require.NotPanics(t, func() { s.Load(context.Background()) })
	snap := s.Snapshot()
	require.NotNil(t, snap.Err)
	assert.Equal(t, LoadFailed, snap.Err.Kind)
	assert.False(t, snap.Loading)

	require.NotPanics(t, func() { s.Append(context.Background(), api.Transaction{ID: "1"}) })
	snap = s.Snapshot()
	require.NotNil(t, snap.Err)
	assert.Equal(t, AppendFailed, snap.Err.Kind)
	assert.Empty(t, snap.Items)
}

func TestLoad_OverlappingLastSettledWins(t *testing.T) {
	f := newFakeFetcher(2)
	s := New[api.Holding]("portfolio", PortfolioPath, f, testOptions())

	first := make(chan struct{})
	go func() {
		s.Load(context.Background())
		close(first)
	}()
	require.Eventually(t, func() bool { return f.started() == 1 }, time.Second, time.Millisecond)

	second := make(chan struct{})
	go func() {
		s.Load(context.Background())
		close(second)
	}()
	require.Eventually(t, func() bool { return f.started() == 2 }, time.Second, time.Millisecond)

	// The second request settles first, then the first one.
	f.replies[1] <- reply{body: `[{"ticker":"NEW","qty":2}]`}
	<-second
	f.replies[0] <- reply{body: `[{"ticker":"OLD","qty":1}]`}
	<-first

	snap := s.Snapshot()
	assert.JSONEq(t, `[{"ticker":"OLD","qty":1}]`, marshal(t, snap.Items))
	assert.False(t, snap.Loading)
}

func TestSnapshot_IsIndependentCopy(t *testing.T) {
	f := newFakeFetcher(1)
	s := New[api.Holding]("portfolio", PortfolioPath, f, testOptions())
	f.replies[0] <- reply{body: `[{"ticker":"AAPL","qty":10}]`}
	s.Load(context.Background())

	snap := s.Snapshot()
	snap.Items[0].Ticker = "MUTATED"
	assert.Equal(t, "AAPL", s.Snapshot().Items[0].Ticker)
}

func TestLoad_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	opts := testOptions()
	opts.Metrics = NewMetrics(reg)

	f := newFakeFetcher(2)
	s := New[api.Holding]("portfolio", PortfolioPath, f, opts)
	f.replies[0] <- reply{body: `[{"ticker":"AAPL","qty":10},{"ticker":"MSFT","qty":3}]`}
	s.Load(context.Background())
	f.replies[1] <- reply{err: errors.New("down")}
	s.Load(context.Background())

	assert.Equal(t, 1.0, testutil.ToFloat64(opts.Metrics.operations.WithLabelValues("portfolio", "load", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(opts.Metrics.operations.WithLabelValues("portfolio", "load", "failure")))
	assert.Equal(t, 2.0, testutil.ToFloat64(opts.Metrics.items.WithLabelValues("portfolio")))
}

func TestSet_LoadAllAndFailures(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PortfolioPath:
			_, _ = w.Write([]byte(`[{"ticker":"AAPL","qty":10}]`))
		case SecuritiesPath:
			_, _ = w.Write([]byte(`[{"ticker":"AAPL","history":[{"date":"2024-01-02","close":185.6}]}]`))
		default:
			http.Error(w, "nope", http.StatusBadGateway)
		}
	})
	set := NewSet(client, testOptions())

	set.LoadAll(context.Background())

	assert.Len(t, set.Portfolio.Snapshot().Items, 1)
	require.Len(t, set.Securities.Snapshot().Items, 1)
	assert.Len(t, set.Securities.Snapshot().Items[0].History, 1)

	failures := set.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, LoadFailed, failures[0].Kind)
	assert.Equal(t, http.StatusBadGateway, failures[0].Status)
	assert.Equal(t, 1, set.MaxConsecutiveFailures())
}
