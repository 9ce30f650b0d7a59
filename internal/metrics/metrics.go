// Package metrics exposes the outcome of an import run in the Prometheus text
// format, for node_exporter's textfile collector.
package metrics

import (
	"time"

	"github.com/municipales2026/importer/pkg/importer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "municipales_import"

// Recorder implements importer.MetricsRecorder on a private registry.
type Recorder struct {
	registry *prometheus.Registry
	now      func() time.Time

	stageDuration *prometheus.GaugeVec
	rows          *prometheus.GaugeVec
	repaired      prometheus.Gauge
	sourceRows    prometheus.Gauge
	elapsed       prometheus.Gauge
	lastSuccess   prometheus.Gauge
	source        *prometheus.GaugeVec
}

// NewRecorder creates a Recorder with all series registered.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		now:      time.Now,
		stageDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time spent in each pipeline stage during the last run.",
		}, []string{"stage"}),
		rows: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows",
			Help:      "Rows loaded per table by the last successful run.",
		}, []string{"table"}),
		repaired: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "head_of_list_repaired_rows",
			Help:      "Candidates flagged head of list by the repair pass.",
		}),
		sourceRows: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_rows",
			Help:      "Data rows read from the source file.",
		}),
		elapsed: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "duration_seconds",
			Help:      "Total wall time of the last successful run.",
		}),
		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time at which the last successful run finished.",
		}),
		source: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_info",
			Help:      "Always 1; labels identify the file imported by the last successful run.",
		}, []string{"sha256", "encoding"}),
	}
}

// ObserveStage records how long a stage took.
func (r *Recorder) ObserveStage(stage string, seconds float64) {
	r.stageDuration.WithLabelValues(stage).Set(seconds)
}

// RecordSummary records the counts of a successful run.
func (r *Recorder) RecordSummary(summary *importer.Summary) {
	r.rows.WithLabelValues(importer.TableDistricts).Set(float64(summary.Districts))
	r.rows.WithLabelValues(importer.TableLists).Set(float64(summary.Lists))
	r.rows.WithLabelValues(importer.TableCandidates).Set(float64(summary.Candidates))
	r.repaired.Set(float64(summary.Repaired))
	r.sourceRows.Set(float64(summary.SourceRows))
	r.elapsed.Set(summary.Elapsed.Seconds())
	r.lastSuccess.Set(float64(r.now().Unix()))

	r.source.Reset()
	r.source.WithLabelValues(summary.Checksum, summary.Encoding).Set(1)
}

// WriteFile atomically writes every series to path in the text format.
func (r *Recorder) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

// Gatherer exposes the registry, mostly for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}
