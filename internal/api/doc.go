// Package api provides the HTTP client and record types for the portfolio backend.
//
// # Overview
//
// The backend exposes three JSON collections under a single base URL:
//
//   - GET  /portfolio     holdings currently in the portfolio
//   - GET  /securities    instruments with their closing price history
//   - GET  /transactions  the transaction ledger
//   - POST /transactions  appends one transaction (response body ignored)
//
// The package is split into three files:
//
//   - client.go: HTTP plumbing, base URL handling and StatusError
//   - types.go: Holding, Security, PricePoint, Transaction and the JSON helpers
//   - money.go: currency-aware formatting for views and the CLI
//
// # Client Usage
//
//	client, err := api.NewClient("http://127.0.0.1:8000", api.WithTimeout(5*time.Second))
//	if err != nil {
//		return err
//	}
//	var holdings []api.Holding
//	if err := client.Get(ctx, "/portfolio", &holdings); err != nil {
//		log.Printf("portfolio fetch failed: %v", err)
//	}
//
// # Base URL
//
// The base accepts a bare host:port ("127.0.0.1:8000" becomes
// http://127.0.0.1:8000). A path prefix such as https://host/api is kept and
// request paths are joined under it.
//
// # Error Handling
//
//   - Transport failures: "execute request: ..."
//   - Non-2xx answers: *StatusError, e.g. "api GET /portfolio returned status 500"
//   - Malformed bodies: "decode response: ..."
//
// StatusCode(err) extracts the HTTP status for diagnostics.
//
// # Numbers
//
// Quantities and prices use Number, a shopspring decimal that accepts JSON
// numbers, numeric strings and null, and always encodes as a JSON number.
// Identifiers use ID, which accepts integers or strings.
//
// # Thread Safety
//
// Client is safe for concurrent use; the underlying http.Client pools connections.
package api
