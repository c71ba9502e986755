package web

import (
	"net/http"
	"strconv"
	"time"

	"planning/internal/domain/outbox"
)

// outboxListLimit parses ?limit=, defaulting to 50 and capped at 100.
func outboxListLimit(r *http.Request) int {
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 && n <= 100 {
		return n
	}
	return 50
}

// handleListOutbox lists outbox entries: failed ones by default,
// ?status=pending for entries awaiting delivery, ?type= to filter by action type.
// Route: GET /admin/outbox
func handleListOutbox(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := outboxListLimit(r)
	status := r.URL.Query().Get("status")
	actionType := r.URL.Query().Get("type")

	var entries []outbox.Entry
	var err error
	switch {
	case actionType != "":
		entries, err = stores.OutboxStore.ListByActionType(ctx, actionType, status, limit)
	case status == outbox.StatusPending:
		entries, err = stores.OutboxStore.ListPending(ctx, limit)
	case status == "" || status == outbox.StatusFailed:
		entries, err = stores.OutboxStore.ListFailed(ctx, limit)
	default:
		http.Error(w, "unknown status filter", http.StatusBadRequest)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleRetryOutbox resets a failed or abandoned entry and delivers it now.
// Route: POST /admin/outbox/{id}/retry
func handleRetryOutbox(w http.ResponseWriter, r *http.Request) {
	entry, err := processor.Retry(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleAbandonOutbox stops delivery attempts for an entry.
// Route: POST /admin/outbox/{id}/abandon
func handleAbandonOutbox(w http.ResponseWriter, r *http.Request) {
	entry, err := processor.Abandon(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleAdminPerf serves aggregated request and query timings.
// Route: GET /admin/perf?window=15m&top=10
func handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		http.Error(w, "performance collection disabled", http.StatusNotFound)
		return
	}
	window := 15 * time.Minute
	if raw := r.URL.Query().Get("window"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			http.Error(w, "invalid window", http.StatusBadRequest)
			return
		}
		window = d
	}
	top := 10
	if n, err := strconv.Atoi(r.URL.Query().Get("top")); err == nil && n > 0 {
		top = n
	}
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(timeNow().Add(-window), top))
}
