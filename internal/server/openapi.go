package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/tanzeem/pickup/internal/handler/api"
	"github.com/tanzeem/pickup/internal/handler/health"
	"github.com/tanzeem/pickup/internal/handler/render"
	"github.com/tanzeem/pickup/internal/pickup"
	"github.com/tanzeem/pickup/internal/tanzeem"
)

type operation struct {
	method, path string
	summary      string
	description  string
	req          any
	resp         any
	status       int
	errors       []int
	contentType  string
}

type ladderQuery struct {
	Tiers int `query:"tiers" minimum:"1" maximum:"50" default:"7"`
}

type timelineQuery struct {
	Order string `query:"order" enum:"oldest,newest" default:"oldest"`
}

var operations = []operation{
	{method: http.MethodGet, path: "/healthz", summary: "Health check",
		description: "Reports whether the snapshot slot is reachable.",
		resp:        health.Response{}, status: http.StatusOK, errors: []int{http.StatusServiceUnavailable}},
	{method: http.MethodGet, path: "/api/state", summary: "Get state",
		description: "Returns the family's pickup state with the next fee and the status stepper.",
		resp:        api.StateResponse{}, status: http.StatusOK},
	{method: http.MethodPost, path: "/api/mode", summary: "Set pickup mode",
		req: api.ModeRequest{}, resp: api.StateResponse{}, status: http.StatusOK,
		errors: []int{http.StatusBadRequest}},
	{method: http.MethodPost, path: "/api/zones/select", summary: "Select pickup zone",
		description: "Reserves a place in the zone and locks the choice for the semester.",
		req:         api.SelectZoneRequest{}, resp: api.StateResponse{}, status: http.StatusOK,
		errors: []int{http.StatusBadRequest, http.StatusConflict}},
	{method: http.MethodGet, path: "/api/overruns", summary: "List overruns",
		resp: []tanzeem.OverrunRecord{}, status: http.StatusOK},
	{method: http.MethodPost, path: "/api/overruns", summary: "Record overrun",
		description: "Records an on-site overrun. The first three are warnings, then fees grow by AED 20.",
		resp:        api.OverrunResponse{}, status: http.StatusCreated},
	{method: http.MethodGet, path: "/api/fees/next", summary: "Next fee",
		resp: tanzeem.FeePreview{}, status: http.StatusOK},
	{method: http.MethodGet, path: "/api/fees/ladder", summary: "Fee ladder",
		req: ladderQuery{}, resp: []tanzeem.FeeTier{}, status: http.StatusOK,
		errors: []int{http.StatusBadRequest}},
	{method: http.MethodPost, path: "/api/pickup/status", summary: "Set pickup status",
		req: api.StatusRequest{}, resp: api.EventResponse{}, status: http.StatusOK,
		errors: []int{http.StatusBadRequest}},
	{method: http.MethodPost, path: "/api/pickup/verify", summary: "Verify QR code",
		resp: api.EventResponse{}, status: http.StatusOK},
	{method: http.MethodPost, path: "/api/pickup/complete", summary: "Scan QR and complete",
		description: "Verifies the QR code and marks the pickup complete.",
		resp:        api.EventResponse{}, status: http.StatusOK},
	{method: http.MethodGet, path: "/api/pickup/progress", summary: "Pickup progress",
		resp: []tanzeem.Step{}, status: http.StatusOK},
	{method: http.MethodGet, path: "/api/timeline", summary: "Timeline",
		req: timelineQuery{}, resp: []tanzeem.TimelineEvent{}, status: http.StatusOK,
		errors: []int{http.StatusBadRequest}},
	{method: http.MethodPost, path: "/api/timeline", summary: "Add timeline event",
		req: api.TimelineRequest{}, resp: api.EventResponse{}, status: http.StatusCreated,
		errors: []int{http.StatusBadRequest}},
	{method: http.MethodPost, path: "/api/van/subscribe", summary: "Subscribe to van service",
		resp: api.StateResponse{}, status: http.StatusOK},
	{method: http.MethodGet, path: "/api/carpool", summary: "Carpool matches",
		resp: pickup.Carpool{}, status: http.StatusOK},
	{method: http.MethodPost, path: "/api/carpool/requests", summary: "Request carpool",
		req: api.CarpoolRequest{}, resp: api.StateResponse{}, status: http.StatusOK,
		errors: []int{http.StatusBadRequest}},
	{method: http.MethodPost, path: "/api/carpool/join", summary: "Join carpool group",
		resp: api.StateResponse{}, status: http.StatusOK},
	{method: http.MethodGet, path: "/api/ops/metrics", summary: "Ops metrics",
		description: "Pilot dashboard figures including the live family.",
		resp:        tanzeem.OpsMetrics{}, status: http.StatusOK},
	{method: http.MethodPost, path: "/api/demo/reset", summary: "Reset demo",
		description: "Restores the initial demo state.",
		resp:        api.StateResponse{}, status: http.StatusOK},
	{method: http.MethodGet, path: "/api/events", summary: "SSE state stream",
		description: "Server-Sent Events stream with a state event on connect and after every change.",
		status:      http.StatusOK, contentType: "text/event-stream"},
	{method: http.MethodGet, path: "/ws/state", summary: "WebSocket state stream",
		description: "Upgrades to a WebSocket that pushes the state as JSON after every change.",
		status:      http.StatusSwitchingProtocols, contentType: "application/json"},
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "TANZEEM Pickup API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("School pickup state for the parent app and the ops dashboard.")

	for _, op := range operations {
		oc, err := r.NewOperationContext(op.method, op.path)
		if err != nil {
			continue
		}
		oc.SetSummary(op.summary)
		if op.description != "" {
			oc.SetDescription(op.description)
		}
		if op.req != nil {
			oc.AddReqStructure(op.req)
		}
		if op.contentType != "" {
			oc.AddRespStructure(nil, openapi.WithHTTPStatus(op.status), openapi.WithContentType(op.contentType))
		} else {
			oc.AddRespStructure(op.resp, openapi.WithHTTPStatus(op.status))
		}
		for _, code := range op.errors {
			oc.AddRespStructure(render.ErrorResponse{}, openapi.WithHTTPStatus(code))
		}
		if op.method == http.MethodPost {
			oc.AddRespStructure(render.ErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
		}
		_ = r.AddOperation(oc)
	}

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
