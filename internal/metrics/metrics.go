// Package metrics counts conversions, declarations and errors produced by a
// generation run. Every Recorder has its own registry, so independent runs
// (and tests) never share counters.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the counters of one generation run.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	conversions   *prometheus.CounterVec
	declarations  *prometheus.CounterVec
	errors        *prometheus.CounterVec
	buildDuration prometheus.Histogram
}

// NewRecorder creates a Recorder on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		conversions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hlsdecl_conversions_total",
			Help: "Total number of types converted to a dialect",
		}, []string{"dialect", "form"}),
		declarations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hlsdecl_declarations_total",
			Help: "Total number of variable declarations rendered",
		}, []string{"kind"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hlsdecl_errors_total",
			Help: "Total number of conversion errors by code",
		}, []string{"code"}),
		buildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "hlsdecl_build_duration_seconds",
			Help:    "Duration of manifest builds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Registry returns the registry backing r, for exposition.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// RecordConversion counts one type converted to dialect with the given form.
func (r *Recorder) RecordConversion(dialect, form string) {
	if r == nil {
		return
	}
	r.conversions.WithLabelValues(dialect, form).Inc()
}

// RecordDeclaration counts one rendered declaration of kind.
func (r *Recorder) RecordDeclaration(kind string) {
	if r == nil {
		return
	}
	r.declarations.WithLabelValues(kind).Inc()
}

// RecordError counts one error. An empty code is recorded as "UNKNOWN".
func (r *Recorder) RecordError(code string) {
	if r == nil {
		return
	}
	if code == "" {
		code = "UNKNOWN"
	}
	r.errors.WithLabelValues(code).Inc()
}

// RecordBuild observes the duration of one manifest build.
func (r *Recorder) RecordBuild(d time.Duration) {
	if r == nil {
		return
	}
	r.buildDuration.Observe(d.Seconds())
}

// WriteTextfile writes all metrics in the Prometheus text format, for the
// node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
