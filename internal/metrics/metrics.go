// Package metrics exposes the service's Prometheus collectors. Recorder
// implements the observer interfaces of the live processor, the aggregator,
// the session manager and the websocket hub.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

const namespace = "game_results"

// Recorder holds the service's collectors
type Recorder struct {
	registry       *prometheus.Registry
	eventsConsumed *prometheus.CounterVec
	gamesFinalized *prometheus.CounterVec
	narratives     *prometheus.CounterVec
	activeSessions prometheus.Gauge
	wsClients      prometheus.Gauge
}

// NewRecorder registers the collectors on a fresh registry, along with the
// Go runtime and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		eventsConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_events_consumed_total",
			Help:      "Play-by-play events applied to live box scores.",
		}, []string{"sport", "kind"}),
		gamesFinalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finalized_total",
			Help:      "Games written by the aggregator.",
		}, []string{"sport", "outcome"}),
		narratives: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "narrative_events_total",
			Help:      "Narrative events delivered to the sink.",
		}, []string{"type"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_sessions_active",
			Help:      "Live sessions still being played back.",
		}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Connected websocket viewers.",
		}),
	}

	r.registry.MustRegister(
		r.eventsConsumed,
		r.gamesFinalized,
		r.narratives,
		r.activeSessions,
		r.wsClients,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) EventConsumed(sportKey string, kind models.EventKind) {
	r.eventsConsumed.WithLabelValues(sportKey, string(kind)).Inc()
}

func (r *Recorder) GameFinalized(sportKey, outcome string) {
	r.gamesFinalized.WithLabelValues(sportKey, outcome).Inc()
}

func (r *Recorder) NarrativeEmitted(eventType models.LogEventType) {
	r.narratives.WithLabelValues(string(eventType)).Inc()
}

func (r *Recorder) SessionsActive(n int) {
	r.activeSessions.Set(float64(n))
}

func (r *Recorder) ClientsConnected(n int) {
	r.wsClients.Set(float64(n))
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
