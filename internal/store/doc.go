// Package store holds the client-side state of each backend collection.
//
// # Overview
//
// A Store owns one remote collection (holdings, securities or transactions)
// together with a loading flag and the error of the last completed operation.
// Views never talk to the backend directly; they trigger store operations and
// render whatever Snapshot returns.
//
//	Caller (poller, view, CLI):       Reader (UI refresh loop):
//	┌─────────────────────┐           ┌──────────────────────┐
//	│ store.Load(ctx)     │           │                      │
//	│   Loading = true    │──────────→│ store.Snapshot()     │
//	│   GET /portfolio    │  (mutex)  │   Items/Loading/Err  │
//	│   Items or Err      │           │        ↓             │
//	│   Loading = false   │           │   render view        │
//	└─────────────────────┘           └──────────────────────┘
//
// # Core Types
//
//   - Store[T]: load-only collection (portfolio, securities)
//   - AppendStore[T]: Store[T] plus Append and TryAppend (transactions)
//   - State[T]: copy of Items, Loading, Err, UpdatedAt, ConsecutiveFailures
//   - ErrorInfo: Kind (LoadFailed or AppendFailed), Message, Status, Err
//   - Set: the one instance of each store, constructed at startup
//   - Metrics: optional Prometheus collectors
//
// # Load Semantics
//
//	store.Load(ctx)
//	→ Loading = true (visible immediately)
//	→ GET path
//	→ success: Items = response (full replace), Err = nil
//	→ failure: Items unchanged, Err = LoadFailed, logged
//	→ Loading = false (deferred, on every path)
//
// # Append Semantics
//
//	store.Append(ctx, item)
//	→ POST path with item as the JSON body (Loading untouched)
//	→ success: Items = Items + item (verbatim, response ignored), Err = nil
//	→ failure: Items unchanged, Err = AppendFailed, logged, item dropped
//
// Neither operation returns an error. Callers observe the outcome through
// Snapshot. Err is sticky until the next completed operation of either kind.
//
// # Concurrency Model
//
// State is guarded by a sync.RWMutex that is never held across the network
// call. Overlapping Load calls are independent requests: the response that
// settles last wins, regardless of issue order, and the first settlement
// clears Loading. Every operation takes a context; cancelling it aborts the
// request and records a failure.
//
// # Defensive Copying
//
// Snapshot clones the item slice and the ErrorInfo so a view can never mutate
// store state. Items are copied by value, so nested slices such as a
// security's price history are shared and must be treated as read-only.
package store
