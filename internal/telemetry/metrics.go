// Package telemetry wires Prometheus counters and an OpenTelemetry stdout
// tracer, matching the teacher's metrics.go/telemetry.go pattern.
package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lcalzada-xor/probesentinel/internal/core/domain"
)

var (
	SightingsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "probesentinel_sightings_total",
		Help: "Sightings successfully written to the store.",
	})
	TrustedFilteredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "probesentinel_trusted_filtered_total",
		Help: "Probe requests discarded as trusted-device hits before any write.",
	})
	DecodeErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "probesentinel_decode_errors_total",
		Help: "Frames dropped by per-frame panic recovery; frames the decoder rejects are not counted.",
	})
	StoreErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "probesentinel_store_errors_total",
		Help: "LogSighting calls that failed.",
	})
	NotifierErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "probesentinel_notifier_errors_total",
		Help: "Outbound notifier calls that failed.",
	})
	ArrivalsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "probesentinel_arrivals_total",
		Help: "Arrival gate decisions by kind.",
	}, []string{"kind"})
)

var registerOnce sync.Once

// InitMetrics registers every counter with the default registerer exactly
// once; safe to call from multiple entry points (main, tests).
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			SightingsTotal,
			TrustedFilteredTotal,
			DecodeErrorsTotal,
			StoreErrorsTotal,
			NotifierErrorsTotal,
			ArrivalsTotal,
		)
	})
}

// Counters adapts the package-level Prometheus metrics to
// ingest.Metrics, so the ingest pipeline depends on a narrow interface
// rather than this package directly.
type Counters struct{}

func (Counters) IncSightings()       { SightingsTotal.Inc() }
func (Counters) IncTrustedFiltered() { TrustedFilteredTotal.Inc() }
func (Counters) IncDecodeErrors()    { DecodeErrorsTotal.Inc() }
func (Counters) IncStoreErrors()     { StoreErrorsTotal.Inc() }
func (Counters) IncNotifierErrors()  { NotifierErrorsTotal.Inc() }
func (Counters) IncArrivals(kind domain.NotificationKind) {
	ArrivalsTotal.WithLabelValues(string(kind)).Inc()
}
