package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks server runtime statistics as Prometheus collectors,
// registered against a private registry so /metrics exposes exactly
// this process's counters and nothing pulled in transitively.
type Metrics struct {
	startTime time.Time
	registry  *prometheus.Registry

	ConnectionsTotal  prometheus.Counter
	ConnectionsActive prometheus.Gauge
	DisconnectsTotal  prometheus.Counter
	AuthSuccessTotal  prometheus.Counter
	AuthFailureTotal  prometheus.Counter

	MessagesRelayedTotal prometheus.Counter
	ChannelsCreatedTotal prometheus.Counter
	ChannelsDeletedTotal prometheus.Counter

	KicksTotal prometheus.Counter
	BansTotal  prometheus.Counter
}

// NewMetrics creates and registers the server's Prometheus collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		startTime: time.Now(),
		registry:  reg,
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "darkrelay_connections_total",
			Help: "Lifetime TLS connections accepted.",
		}),
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "darkrelay_connections_active",
			Help: "Current active connections.",
		}),
		DisconnectsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "darkrelay_disconnects_total",
			Help: "Total client disconnects.",
		}),
		AuthSuccessTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "darkrelay_auth_success_total",
			Help: "Successful register/login attempts.",
		}),
		AuthFailureTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "darkrelay_auth_failure_total",
			Help: "Failed register/login attempts.",
		}),
		MessagesRelayedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "darkrelay_messages_relayed_total",
			Help: "Total channel messages relayed.",
		}),
		ChannelsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "darkrelay_channels_created_total",
			Help: "Channels created.",
		}),
		ChannelsDeletedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "darkrelay_channels_deleted_total",
			Help: "Channels deleted.",
		}),
		KicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "darkrelay_kicks_total",
			Help: "Users kicked.",
		}),
		BansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "darkrelay_bans_total",
			Help: "Users banned.",
		}),
	}

	reg.MustRegister(
		m.ConnectionsTotal, m.ConnectionsActive, m.DisconnectsTotal,
		m.AuthSuccessTotal, m.AuthFailureTotal, m.MessagesRelayedTotal,
		m.ChannelsCreatedTotal, m.ChannelsDeletedTotal, m.KicksTotal, m.BansTotal,
	)

	return m
}

// Uptime returns how long the server has been running.
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}
