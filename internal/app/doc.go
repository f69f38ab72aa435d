// Package app is folio's composition root.
//
// # Overview
//
// Bootstrap turns configuration into a Runtime: a zerolog logger, the
// api.Client pointed at the resolved base URL, a Prometheus registry and the
// one store.Set the rest of the process shares. Non-interactive CLI commands
// stop there and drive the stores directly. Run goes further and starts the
// TUI.
//
// # Startup
//
//	Run()
//	  │
//	  ├──> Bootstrap()
//	  │      ├──> config.Load() + Overrides.Apply()   file < env < flags
//	  │      ├──> logging.New()                       file when interactive
//	  │      ├──> api.NewClient()
//	  │      └──> store.NewSet()                      metrics on the registry
//	  ├──> prefs.Load()                               theme, last route
//	  ├──> ServeMetrics()                             only with metrics_addr
//	  ├──> StartPoller()                              LoadAll now and every poll
//	  └──> ui.Run()                                   blocks until quit
//
// # Poller
//
// The poller calls store.Set.LoadAll, waits for every store to settle and then
// sleeps. The wait is the poll interval while loads succeed and doubles per
// consecutive failure (the worst streak across the set) up to maxBackoff. The
// poller never appends; a failed Append stays failed until the user retries.
//
// Cancelling the context passed to Run stops the poller, aborts in-flight
// requests and shuts the metrics listener down.
package app
