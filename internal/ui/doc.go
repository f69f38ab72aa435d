// Package ui is folio's Bubble Tea terminal interface.
//
// # Views
//
// Four views are reachable through the router and one is local to the UI:
//
//   - Home (/): a glamour-rendered overview with totals per currency,
//     activity counts and the state of every store
//   - Portfolio (/portfolio): holdings with value, P/L and totals; enter
//     opens the selected ticker's history
//   - Transactions (/transactions): store order, newest appends last; "a"
//     opens the add form
//   - Instrument (/instrument/:ticker): one security's closes, newest first,
//     with range, change and the held position
//   - Logs: the tail of folio's own zerolog file, decoded by logtail
//
// Keys 1-4 switch views, ":" accepts any router path and esc steps back.
//
// # Data Flow
//
// The model never holds store state of its own. A refresh tick copies
// Snapshot() from each store of the shared store.Set; rendering reads those
// copies only. Entering a view issues Load for the stores it reads, which is
// how views mount. Loads and appends run as tea.Cmds so the update loop never
// blocks on the network:
//
//	key "2" ──> navigate("/portfolio") ──> loadCmd(Portfolio.Load)
//	                                            │
//	tick ──> readSnapshots() <── loadedMsg <────┘
//
// The poller in internal/app performs the first load, so Init only starts
// the tick.
//
// # Loading and Errors
//
// The header carries one indicator per store: item count, "…" while a
// request is in flight and "!" when the last operation failed. Views keep
// rendering stale items under an error; only an empty store shows the error
// in place of the table. A failed append is reported in the command bar and
// the typed transaction is not added.
//
// # Preferences
//
// Theme cycling (T) and the last routed view are written back to the prefs
// file, so the next session starts where this one ended.
package ui
