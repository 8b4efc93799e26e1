// Package dashboard provides the read-only HTTP server for browsing
// recorded water-quality data.
//
// It serves a small JSON API over the reading store plus a static file
// directory for the web UI. Nothing exposed here mutates state: the
// sampling loop is the only writer, and the dashboard is a read-only
// collaborator over the same store.
//
// The server follows the same lifecycle pattern as the other
// infrastructure components:
//
//	srv, err := dashboard.New(deps)
//	srv.Start(ctx)
//	defer srv.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple
// goroutines.
package dashboard
