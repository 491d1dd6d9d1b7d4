// Package api serves the parent app and ops dashboard JSON API on top of the
// pickup store.
package api

import (
	"cmp"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tanzeem/pickup/internal/handler/render"
	"github.com/tanzeem/pickup/internal/pickup"
	"github.com/tanzeem/pickup/internal/tanzeem"
)

const (
	overrunRecordedEvent = "On-site overrun recorded"
	zoneSelectedPrefix   = "Zone selected: "

	defaultLadderTiers = 7
	maxLadderTiers     = 50
)

type Handler struct {
	store  *pickup.Store
	ops    tanzeem.OpsConfig
	logger *slog.Logger
}

func NewHandler(store *pickup.Store, ops tanzeem.OpsConfig, logger *slog.Logger) *Handler {
	return &Handler{store: store, ops: ops, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/state", h.getState)
	r.Post("/mode", h.setMode)
	r.Post("/zones/select", h.selectZone)

	r.Get("/overruns", h.listOverruns)
	r.Post("/overruns", h.recordOverrun)
	r.Get("/fees/next", h.nextFee)
	r.Get("/fees/ladder", h.feeLadder)

	r.Route("/pickup", func(r chi.Router) {
		r.Post("/status", h.setStatus)
		r.Post("/verify", h.verifyQR)
		r.Post("/complete", h.complete)
		r.Get("/progress", h.progress)
	})

	r.Get("/timeline", h.timeline)
	r.Post("/timeline", h.addTimelineEvent)

	r.Post("/van/subscribe", h.subscribeVan)
	r.Get("/carpool", h.carpool)
	r.Post("/carpool/requests", h.requestCarpool)
	r.Post("/carpool/join", h.joinCarpool)

	r.Get("/ops/metrics", h.opsMetrics)
	r.Post("/demo/reset", h.resetDemo)

	r.Get("/events", h.events)
	return r
}

// commandFailed maps a store error to a response. It returns a warning when
// the mutation was applied but not persisted, and stop=true when an error
// response has already been written.
func (h *Handler) commandFailed(w http.ResponseWriter, r *http.Request, err error) (warning string, stop bool) {
	var perr *pickup.PersistenceError
	switch {
	case err == nil:
		return "", false
	case errors.As(err, &perr):
		h.logger.Warn("state applied but not saved", "path", r.URL.Path, "error", err)
		return "state was updated but could not be saved", false
	case errors.Is(err, pickup.ErrZoneUnavailable), errors.Is(err, pickup.ErrAlreadyLocked):
		render.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, pickup.ErrInvalidStatus), errors.Is(err, pickup.ErrInvalidMode):
		render.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("command failed", "path", r.URL.Path, "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")
	}
	return "", true
}

func (h *Handler) stateResponse(warning string) StateResponse {
	st, version := h.store.Snapshot()
	return StateResponse{
		State:    st,
		Version:  version,
		NextFee:  tanzeem.NextFee(st.OverrunCount),
		Progress: tanzeem.Progress(st.PickupStatus),
		Warning:  warning,
	}
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, h.stateResponse(""))
}

func (h *Handler) setMode(w http.ResponseWriter, r *http.Request) {
	var req ModeRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	warning, stop := h.commandFailed(w, r, h.store.SetMode(r.Context(), req.Mode))
	if stop {
		return
	}
	render.JSON(w, http.StatusOK, h.stateResponse(warning))
}

func (h *Handler) selectZone(w http.ResponseWriter, r *http.Request) {
	var req SelectZoneRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	zone, err := h.store.SelectZone(r.Context(), req.ZoneID)
	warning, stop := h.commandFailed(w, r, err)
	if stop {
		return
	}

	_, err = h.store.AddTimelineEvent(r.Context(), zoneSelectedPrefix+zone.Name, false)
	followup, stop := h.commandFailed(w, r, err)
	if stop {
		return
	}
	warning = cmp.Or(warning, followup)

	render.JSON(w, http.StatusOK, h.stateResponse(warning))
}

func (h *Handler) listOverruns(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, h.store.OverrunHistory())
}

func (h *Handler) recordOverrun(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.RecordOverrun(r.Context())
	warning, stop := h.commandFailed(w, r, err)
	if stop {
		return
	}

	_, err = h.store.AddTimelineEvent(r.Context(), overrunRecordedEvent, false)
	followup, stop := h.commandFailed(w, r, err)
	if stop {
		return
	}
	warning = cmp.Or(warning, followup)

	render.JSON(w, http.StatusCreated, OverrunResponse{
		Overrun:       rec,
		StateResponse: h.stateResponse(warning),
	})
}

func (h *Handler) nextFee(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, h.store.NextFee())
}

func (h *Handler) feeLadder(w http.ResponseWriter, r *http.Request) {
	tiers := defaultLadderTiers
	if raw := r.URL.Query().Get("tiers"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLadderTiers {
			render.Error(w, http.StatusBadRequest, "tiers must be between 1 and "+strconv.Itoa(maxLadderTiers))
			return
		}
		tiers = n
	}
	render.JSON(w, http.StatusOK, tanzeem.FeeLadder(tiers))
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ev, err := h.store.SetPickupStatus(r.Context(), req.Status)
	warning, stop := h.commandFailed(w, r, err)
	if stop {
		return
	}
	render.JSON(w, http.StatusOK, EventResponse{Event: ev, StateResponse: h.stateResponse(warning)})
}

func (h *Handler) verifyQR(w http.ResponseWriter, r *http.Request) {
	ev, err := h.store.VerifyQR(r.Context())
	warning, stop := h.commandFailed(w, r, err)
	if stop {
		return
	}
	render.JSON(w, http.StatusOK, EventResponse{Event: ev, StateResponse: h.stateResponse(warning)})
}

// complete is the "scan QR" action: verify, then mark the pickup complete.
func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	_, err := h.store.VerifyQR(r.Context())
	warning, stop := h.commandFailed(w, r, err)
	if stop {
		return
	}

	ev, err := h.store.SetPickupStatus(r.Context(), tanzeem.StatusComplete)
	followup, stop := h.commandFailed(w, r, err)
	if stop {
		return
	}
	warning = cmp.Or(warning, followup)

	render.JSON(w, http.StatusOK, EventResponse{Event: ev, StateResponse: h.stateResponse(warning)})
}

func (h *Handler) progress(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, h.store.Progress())
}

func (h *Handler) timeline(w http.ResponseWriter, r *http.Request) {
	switch order := r.URL.Query().Get("order"); order {
	case "", "oldest":
		render.JSON(w, http.StatusOK, h.store.Timeline())
	case "newest":
		render.JSON(w, http.StatusOK, h.store.TimelineNewestFirst())
	default:
		render.Error(w, http.StatusBadRequest, "order must be oldest or newest")
	}
}

func (h *Handler) addTimelineEvent(w http.ResponseWriter, r *http.Request) {
	var req TimelineRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ev, err := h.store.AddTimelineEvent(r.Context(), req.Event, req.Verified)
	warning, stop := h.commandFailed(w, r, err)
	if stop {
		return
	}
	render.JSON(w, http.StatusCreated, EventResponse{Event: ev, StateResponse: h.stateResponse(warning)})
}

func (h *Handler) subscribeVan(w http.ResponseWriter, r *http.Request) {
	warning, stop := h.commandFailed(w, r, h.store.SubscribeVan(r.Context()))
	if stop {
		return
	}
	render.JSON(w, http.StatusOK, h.stateResponse(warning))
}

func (h *Handler) carpool(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, h.store.Carpool())
}

func (h *Handler) requestCarpool(w http.ResponseWriter, r *http.Request) {
	var req CarpoolRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	warning, stop := h.commandFailed(w, r, h.store.RequestCarpool(r.Context(), req.FamilyID))
	if stop {
		return
	}
	render.JSON(w, http.StatusOK, h.stateResponse(warning))
}

func (h *Handler) joinCarpool(w http.ResponseWriter, r *http.Request) {
	warning, stop := h.commandFailed(w, r, h.store.JoinCarpoolGroup(r.Context()))
	if stop {
		return
	}
	render.JSON(w, http.StatusOK, h.stateResponse(warning))
}

func (h *Handler) opsMetrics(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, h.store.OpsMetrics(h.ops))
}

func (h *Handler) resetDemo(w http.ResponseWriter, r *http.Request) {
	warning, stop := h.commandFailed(w, r, h.store.ResetDemo(r.Context()))
	if stop {
		return
	}
	h.logger.Info("demo reset", "request_id", middleware.GetReqID(r.Context()))
	render.JSON(w, http.StatusOK, h.stateResponse(warning))
}
