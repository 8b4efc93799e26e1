package dashboard

import (
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bluegrove/aquamon-core/internal/store"
	"github.com/bluegrove/aquamon-core/internal/summary"
)

// Default query windows.
const (
	defaultRecentDays  = 7
	defaultSummaryDays = 30
	maxQueryDays       = 365
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)

	// API v1 routes (read-only)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/readings/recent", s.handleRecentReadings)
		r.Get("/stats", s.handleStats)
		r.Get("/summaries/daily", s.handleDailySummaries)
	})

	// Static web UI, served when the directory exists
	if s.cfg.StaticDir != "" {
		if info, err := os.Stat(s.cfg.StaticDir); err == nil && info.IsDir() {
			r.Handle("/*", http.FileServer(http.Dir(s.cfg.StaticDir)))
		} else {
			s.logger.Warn("static directory not found, UI disabled", "dir", s.cfg.StaticDir)
		}
	}

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

// handleRecentReadings returns readings from the last N days.
//
// Query parameters:
//   - days: Window size in days (default 7, max 365)
func (s *Server) handleRecentReadings(w http.ResponseWriter, r *http.Request) {
	days, ok := parseDays(w, r, defaultRecentDays)
	if !ok {
		return
	}

	readings := s.store.Recent(days)
	if readings == nil {
		readings = store.Series{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"days":     days,
		"count":    len(readings),
		"readings": readings,
	})
}

// handleStats returns store statistics.
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats())
}

// handleDailySummaries returns per-day metric averages.
//
// When the SQLite archive is available the aggregation runs in SQL,
// otherwise it is computed from the JSON store in memory. Both paths
// produce the same shape and rounding.
//
// Query parameters:
//   - days: Window size in days (default 30, max 365)
func (s *Server) handleDailySummaries(w http.ResponseWriter, r *http.Request) {
	days, ok := parseDays(w, r, defaultSummaryDays)
	if !ok {
		return
	}

	var (
		summaries []summary.DailySummary
		err       error
	)
	if s.archive != nil {
		summaries, err = s.archive.DailySummaries(r.Context(), days)
		if err != nil {
			s.logger.Error("archive summary query failed", "error", err)
			writeInternalError(w, "summary query failed")
			return
		}
	} else {
		summaries = summary.Daily(s.store.Recent(days))
	}
	if summaries == nil {
		summaries = []summary.DailySummary{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"days":      days,
		"summaries": summaries,
	})
}

// parseDays reads the days query parameter, applying the default when
// absent. Writes a 400 response and returns false on invalid input.
func parseDays(w http.ResponseWriter, r *http.Request, def int) (int, bool) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return def, true
	}

	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > maxQueryDays {
		writeBadRequest(w, "days must be an integer between 1 and 365")
		return 0, false
	}
	return days, true
}
