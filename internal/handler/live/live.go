// Package live pushes pickup state to WebSocket clients.
package live

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/tanzeem/pickup/internal/handler/api"
	"github.com/tanzeem/pickup/internal/pickup"
)

const (
	writeTimeout = 5 * time.Second
	maxSession   = 10 * time.Minute
)

type Handler struct {
	store  *pickup.Store
	logger *slog.Logger
}

func NewHandler(store *pickup.Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/state", h.state)
	return r
}

// state sends the current state on connect and again after every change.
// Client messages are ignored.
func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.logger.Error("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	changes, release := h.store.Subscribe()
	defer release()

	ctx, cancel := context.WithTimeout(r.Context(), maxSession)
	defer cancel()
	ctx = conn.CloseRead(ctx)

	if err := h.push(ctx, conn, "snapshot"); err != nil {
		h.logger.Debug("websocket write failed", "error", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			if err := h.push(ctx, conn, c.Kind); err != nil {
				h.logger.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}

func (h *Handler) push(ctx context.Context, conn *websocket.Conn, kind string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	st, version := h.store.Snapshot()
	return wsjson.Write(ctx, conn, api.StateEvent{
		Type:    kind,
		Version: version,
		State:   st,
	})
}
