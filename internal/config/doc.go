// Package config resolves folio's runtime settings.
//
// # Resolution Order
//
// Each value is resolved once at startup, highest precedence first:
//
//  1. Command-line flags (applied by cmd/folio after Load returns)
//  2. Environment variables (FOLIO_API_URL, FOLIO_HTTP_TIMEOUT, ...)
//  3. The TOML config file (~/.config/folio/config.toml or --config)
//  4. Built-in defaults
//
// A missing config file is not an error. The resulting Config is treated as
// immutable for the rest of the process.
//
// # Default Values
//
//   - API URL: http://127.0.0.1:8000
//   - HTTP timeout: 10s
//   - Poll interval: 30s
//   - Log file: ~/.local/state/folio/folio.log
//   - Log level: info
//   - Metrics address: none (metrics endpoint disabled)
//
// # TOML Format
//
//	api_url = "https://portfolio.example.com/api"
//	timeout = "5s"
//	poll_interval = "1m"
//	log_file = "~/folio.log"
//	log_level = "debug"
//	metrics_addr = "127.0.0.1:9464"
//
// Durations use Go syntax. Environment durations also accept whole seconds
// ("FOLIO_POLL_INTERVAL=15"). Invalid durations in the file are an error;
// invalid values in the environment fall back to the file or default value.
//
// # Path Expansion
//
// The config path and log_file accept "~" and relative paths; both are made
// absolute.
package config
