package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"planning/internal/application/projections"
)

// writeEvent writes one server-sent event.
func writeEvent(w io.Writer, name string, id uint64, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\nid: %d\ndata: %s\n\n", name, id, data)
	return err
}

// handleTrainerWeekEvents streams the trainer's week: once on connect, then
// re-arbitrated from scratch on every command that concerns the trainer.
// Loads triggered in quick succession cancel each other; only the most
// recently triggered one is written.
// Route: GET /planning/trainers/{id}/events?date=YYYY-MM-DD
func handleTrainerWeekEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	trainerID := r.PathValue("id")
	anchor, err := anchorDate(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := stores.TrainerStore.GetByID(ctx, trainerID); err != nil {
		writeError(w, err)
		return
	}

	commands, err := broker.Subscribe(ctx)
	if err != nil {
		logger.Warn("sse_subscribe_failed", zap.Error(err))
		http.Error(w, "notifications unavailable", http.StatusServiceUnavailable)
		return
	}

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	log := logger.With(zap.String("trainer_id", trainerID))
	query := projections.GetTrainerWeekQuery{TrainerID: trainerID, Anchor: anchor}
	loader := projections.NewWeekLoader(weekDeps())

	var (
		wg      sync.WaitGroup
		writeMu sync.Mutex
	)
	defer wg.Wait()
	defer loader.Close()

	reload := func() {
		wg.Go(func() {
			tw, token, err := loader.Load(ctx, query)
			writeMu.Lock()
			defer writeMu.Unlock()
			if !loader.IsCurrent(token) || ctx.Err() != nil {
				return
			}
			if err != nil {
				log.Warn("sse_week_load_failed", zap.Error(err))
				err = writeEvent(w, "error", token, map[string]string{"error": "week unavailable"})
			} else {
				err = writeEvent(w, "week", token, tw)
			}
			if err == nil {
				err = rc.Flush()
			}
			if err != nil {
				log.Debug("sse_write_failed", zap.Error(err))
			}
		})
	}

	log.Debug("sse_connected")
	reload()

	keepAlive := time.NewTicker(sseKeepAlive)
	defer keepAlive.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Debug("sse_disconnected")
			return
		case cmd, ok := <-commands:
			if !ok {
				return
			}
			if cmd.Concerns(trainerID) {
				log.Debug("sse_reload", zap.String("action", cmd.Action))
				reload()
			}
		case <-keepAlive.C:
			writeMu.Lock()
			_, err := io.WriteString(w, ": keep-alive\n\n")
			if err == nil {
				err = rc.Flush()
			}
			writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
