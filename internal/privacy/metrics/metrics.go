// Package metrics holds the Prometheus collectors for the privacy-scope
// pipeline. All counters are fire-and-forget and never block resolution.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for consent decoding, geolocation, and
// scope-resolution outcomes.
type Metrics struct {
	ConsentMissing  prometheus.Counter
	ConsentInvalid  prometheus.Counter
	ConsentRequests *prometheus.CounterVec
	GeoLookups      *prometheus.CounterVec
	ScopeOutcomes   *prometheus.CounterVec
	ResolveLatency  prometheus.Histogram
}

// New registers the collectors on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the collectors on the given registerer. Tests pass a
// private registry so repeated construction does not collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ConsentMissing: factory.NewCounter(prometheus.CounterOpts{
			Name: "bidscope_tcf_consent_missing_total",
			Help: "Total number of requests arriving without a consent string",
		}),
		ConsentInvalid: factory.NewCounter(prometheus.CounterOpts{
			Name: "bidscope_tcf_consent_invalid_total",
			Help: "Total number of consent strings that failed to decode",
		}),
		ConsentRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bidscope_tcf_requests_total",
			Help: "Total number of decoded consent strings, labeled by TCF version",
		}, []string{"version"}),
		GeoLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bidscope_geo_lookups_total",
			Help: "Total number of geolocation lookups, labeled by result",
		}, []string{"result"}),
		ScopeOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bidscope_tcf_scope_outcomes_total",
			Help: "Geography-derived scope decisions, labeled by TCF version and EEA membership",
		}, []string{"version", "in_eea"}),
		ResolveLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bidscope_scope_resolve_latency_seconds",
			Help:    "Latency of full scope resolutions in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementConsentMissing() {
	m.ConsentMissing.Inc()
}

func (m *Metrics) IncrementConsentInvalid() {
	m.ConsentInvalid.Inc()
}

// IncrementConsentRequests counts one decoded consent string for its version.
func (m *Metrics) IncrementConsentRequests(version uint8) {
	m.ConsentRequests.WithLabelValues(strconv.Itoa(int(version))).Inc()
}

// IncrementGeoLookup counts one geolocation lookup outcome.
func (m *Metrics) IncrementGeoLookup(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	m.GeoLookups.WithLabelValues(result).Inc()
}

// IncrementScopeOutcome records a geography-derived scope decision. inEEA is
// tri-state: nil means the country was unknown.
func (m *Metrics) IncrementScopeOutcome(version uint8, inEEA *bool) {
	eea := "unknown"
	if inEEA != nil {
		eea = strconv.FormatBool(*inEEA)
	}
	m.ScopeOutcomes.WithLabelValues(strconv.Itoa(int(version)), eea).Inc()
}

// ObserveResolveLatency records the duration of one full resolution.
func (m *Metrics) ObserveResolveLatency(seconds float64) {
	m.ResolveLatency.Observe(seconds)
}
