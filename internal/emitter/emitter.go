// Package emitter exposes scan results as Prometheus metrics for watch mode.
package emitter

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relicscan/relic/analyzer"
	"github.com/relicscan/relic/cost"
	"github.com/relicscan/relic/pkg/inventory"
)

// Emitter converts one scan cycle into gauges. Each Record call replaces
// the previous cycle's values.
type Emitter struct {
	registry *prometheus.Registry

	resourceCount *prometheus.GaugeVec
	monthlyCost   *prometheus.GaugeVec
	totalCost     prometheus.Gauge
	wasteCount    *prometheus.GaugeVec
	failureCount  prometheus.Gauge
	scansTotal    prometheus.Counter
}

// New builds an emitter with its own registry.
func New() *Emitter {
	reg := prometheus.NewRegistry()
	return &Emitter{
		registry: reg,
		resourceCount: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "relic_resources",
			Help: "Resources inventoried in the last scan cycle",
		}, []string{"kind"}),
		monthlyCost: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "relic_monthly_cost_dollars",
			Help: "Estimated monthly cost per resource kind",
		}, []string{"kind"}),
		totalCost: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "relic_monthly_cost_total_dollars",
			Help: "Estimated total monthly cost",
		}),
		wasteCount: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "relic_waste_resources",
			Help: "Resources flagged as likely waste",
		}, []string{"category"}),
		failureCount: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "relic_scan_failures",
			Help: "Partial scan failures in the last cycle",
		}),
		scansTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "relic_scans_total",
			Help: "Completed scan cycles",
		}),
	}
}

// Record publishes the outcome of one scan cycle.
func (e *Emitter) Record(session *inventory.Session, costs cost.Summary, waste analyzer.Waste) {
	for _, kind := range inventory.AllKinds() {
		e.resourceCount.WithLabelValues(string(kind)).Set(float64(len(session.Collection(kind))))
		e.monthlyCost.WithLabelValues(string(kind)).Set(costs.PerKind[kind].InexactFloat64())
	}
	e.totalCost.Set(costs.Total.InexactFloat64())

	e.wasteCount.WithLabelValues("stopped_compute").Set(float64(len(waste.StoppedCompute)))
	e.wasteCount.WithLabelValues("detached_volumes").Set(float64(len(waste.DetachedVolumes)))
	e.wasteCount.WithLabelValues("unassociated_ips").Set(float64(len(waste.UnassociatedIPs)))

	e.failureCount.Set(float64(len(session.Failures())))
	e.scansTotal.Inc()
}

// Handler serves the metrics endpoint for this emitter's registry.
func (e *Emitter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}
