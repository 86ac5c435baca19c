// Package metrics records run statistics in a prometheus registry and
// exports them in the node_exporter textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JonMunkholm/salonsite/internal/core"
)

const namespace = "salonsite"

// Recorder holds the metrics of a single run.
type Recorder struct {
	registry *prometheus.Registry

	entities     *prometheus.GaugeVec
	unresolved   *prometheus.GaugeVec
	phaseSeconds *prometheus.GaugeVec
	filesWritten prometheus.Counter
	lastSuccess  prometheus.Gauge
}

// NewRecorder returns a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		entities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entities",
			Help:      "Projected entities by kind.",
		}, []string{"kind"}),
		unresolved: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unresolved_links",
			Help:      "References that could not be resolved, by kind.",
		}, []string{"kind"}),
		phaseSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Wall time of each build phase.",
		}, []string{"phase"}),
		filesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_written_total",
			Help:      "Output files written.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful build.",
		}),
	}
	r.registry.MustRegister(r.entities, r.unresolved, r.phaseSeconds, r.filesWritten, r.lastSuccess)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveDataset records entity counts.
func (r *Recorder) ObserveDataset(ds *core.Dataset) {
	r.entities.WithLabelValues("salon").Set(float64(len(ds.Salons)))
	r.entities.WithLabelValues("city").Set(float64(len(ds.Cities)))
	r.entities.WithLabelValues("state").Set(float64(len(ds.States)))
	r.entities.WithLabelValues("category").Set(float64(len(ds.Categories)))
}

// ObserveLinks records the link report.
func (r *Recorder) ObserveLinks(lr core.LinkReport) {
	r.unresolved.WithLabelValues("salon_city").Set(float64(lr.SalonsWithoutCity))
	r.unresolved.WithLabelValues("salon_state").Set(float64(lr.SalonsWithoutState))
	r.unresolved.WithLabelValues("category_ref").Set(float64(lr.UnknownCategoryRefs))
	r.unresolved.WithLabelValues("city_state").Set(float64(lr.CitiesWithoutState))
}

// ObservePhase records how long a phase took.
func (r *Recorder) ObservePhase(phase string, d time.Duration) {
	r.phaseSeconds.WithLabelValues(phase).Set(d.Seconds())
}

// FileWritten counts one output file. Safe for concurrent use.
func (r *Recorder) FileWritten() {
	r.filesWritten.Inc()
}

// MarkSuccess records the completion time of the run.
func (r *Recorder) MarkSuccess(t time.Time) {
	r.lastSuccess.Set(float64(t.Unix()))
}

// WriteTextfile writes all metrics to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
