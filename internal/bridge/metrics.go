package bridge

import "github.com/prometheus/client_golang/prometheus"

// Metrics is an optional set of counters/gauges a caller can register so
// the bridge's command traffic is observable from outside. Registration is
// optional (a bridge with no Metrics attached skips all updates; a non-nil
// Metrics must have every field set) since this core does not
// own an HTTP /metrics endpoint itself (that belongs to the excluded
// service shell).
type Metrics struct {
	CommandsSent     prometheus.Counter
	RepliesTimedOut  prometheus.Counter
	WatchdogEvicted  prometheus.Counter
	SchedulerQueueDepth prometheus.Gauge
}

// NewMetrics registers a standard set of dome bridge metrics on reg and
// returns them. reg may be a fresh *prometheus.Registry owned by the
// caller; this core never touches the default global registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		CommandsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "domebridge_commands_sent_total",
			Help: "Total commands transmitted to the dome controller or plant.",
		}),
		RepliesTimedOut: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "domebridge_reply_timeouts_total",
			Help: "Total command replies that exceeded COMMAND_REPLY_TIMEOUT.",
		}),
		WatchdogEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "domebridge_watchdog_evictions_total",
			Help: "Total outstanding-command entries evicted by the reply watchdog.",
		}),
		SchedulerQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "domebridge_scheduler_queue_depth",
			Help: "Current depth of the PowerScheduler priority queue.",
		}),
	}
	reg.MustRegister(m.CommandsSent, m.RepliesTimedOut, m.WatchdogEvicted, m.SchedulerQueueDepth)
	return m
}
