package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus instruments shared across the service.
type Metrics struct {
	// WebSocket hub
	HubConnections *prometheus.GaugeVec
	HubMessages    *prometheus.CounterVec
	Broadcasts     *prometheus.CounterVec

	// Session lifecycle
	LifecycleOps *prometheus.CounterVec
}

// New creates the instruments and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HubConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "websocket_hub_connections_active",
			Help: "Active WebSocket hub connections",
		}, []string{"state"}),
		HubMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "websocket_hub_messages_total",
			Help: "WebSocket hub messages by direction",
		}, []string{"type", "direction"}),
		Broadcasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "realtime_broadcasts_total",
			Help: "Broadcast events fanned out to subscribers",
		}, []string{"event_type", "resource"}),
		LifecycleOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_lifecycle_operations_total",
			Help: "Session lifecycle operations by outcome",
		}, []string{"operation", "outcome"}),
	}
	reg.MustRegister(m.HubConnections, m.HubMessages, m.Broadcasts, m.LifecycleOps)
	return m
}

// NewForTest builds an unshared instance backed by its own registry.
func NewForTest() *Metrics {
	return New(prometheus.NewRegistry())
}
