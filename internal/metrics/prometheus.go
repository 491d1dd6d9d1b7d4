// Package metrics exports pickup store activity to Prometheus.
package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements pickup.Recorder. A nil recorder is a no-op.
type PrometheusRecorder struct {
	commands      *prom.CounterVec
	zoneRemaining *prom.GaugeVec
}

// NewPrometheusRecorder constructs and registers the store metrics on reg
// (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		commands: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "tanzeem",
			Name:      "store_commands_total",
			Help:      "Store commands by name and outcome",
		}, []string{"command", "outcome"}),
		zoneRemaining: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "tanzeem",
			Name:      "zone_remaining_places",
			Help:      "Places left in each pickup zone",
		}, []string{"zone"}),
	}
	reg.MustRegister(pr.commands, pr.zoneRemaining)
	return pr
}

func (p *PrometheusRecorder) IncCommand(command, outcome string) {
	if p == nil {
		return
	}
	p.commands.WithLabelValues(command, outcome).Inc()
}

func (p *PrometheusRecorder) SetZoneRemaining(zoneID string, remaining int) {
	if p == nil {
		return
	}
	p.zoneRemaining.WithLabelValues(zoneID).Set(float64(remaining))
}

// NewRegistry returns a registry carrying the Go runtime and process
// collectors.
func NewRegistry() *prom.Registry {
	reg := prom.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves reg in the Prometheus text format.
func Handler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
