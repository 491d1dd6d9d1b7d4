package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tanzeem/pickup/internal/handler/render"
)

const pingInterval = 30 * time.Second

// events streams the state as Server-Sent Events: one "state" event on
// connect and one after every applied mutation.
func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		render.Error(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	changes, release := h.store.Subscribe()
	defer release()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	send := func(kind string) bool {
		st, version := h.store.Snapshot()
		data, err := json.Marshal(StateEvent{Type: kind, Version: version, State: st})
		if err != nil {
			h.logger.Error("encoding state event", "error", err)
			return false
		}
		if _, err := fmt.Fprintf(w, "event: state\ndata: %s\n\n", data); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send("snapshot") {
		return
	}

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case c, ok := <-changes:
			if !ok || !send(c.Kind) {
				return
			}
		case <-ping.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}
