package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "firehose"

// Dispatch results used as the "result" label of EventsDispatched.
const (
	ResultHandled   = "handled"
	ResultFailed    = "failed"
	ResultUnhandled = "unhandled"
)

// Collectors holds all consumer metrics.
type Collectors struct {
	ConnectionState   prometheus.Gauge
	ConnectsTotal     prometheus.Counter
	ConnectFailures   prometheus.Counter
	HeartbeatsSent    prometheus.Counter
	HeartbeatFailures prometheus.Counter
	BatchesReceived   prometheus.Counter
	DuplicateBatches  prometheus.Counter
	AcksSent          prometheus.Counter
	AckFailures       prometheus.Counter
	DecodeFailures    prometheus.Counter
	ErrorFrames       prometheus.Counter
	EventsDispatched  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
// A nil reg creates unregistered collectors.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		ConnectionState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "connection",
			Name:      "state",
			Help:      "Supervisor state (0=disconnected, 1=connecting, 2=connected, 3=draining)",
		}),
		ConnectsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "connection",
			Name:      "connects_total",
			Help:      "Total successful connections to the feed",
		}),
		ConnectFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "connection",
			Name:      "connect_failures_total",
			Help:      "Total failed connection attempts",
		}),
		HeartbeatsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "heartbeat",
			Name:      "sent_total",
			Help:      "Total keepalive frames written",
		}),
		HeartbeatFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "heartbeat",
			Name:      "failed_total",
			Help:      "Total keepalive frames that could not be written",
		}),
		BatchesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batches",
			Name:      "received_total",
			Help:      "Total batches decoded from the feed",
		}),
		DuplicateBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batches",
			Name:      "duplicates_total",
			Help:      "Total batches whose AUID was already acknowledged",
		}),
		AcksSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "acks",
			Name:      "sent_total",
			Help:      "Total acknowledgment frames written",
		}),
		AckFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "acks",
			Name:      "failed_total",
			Help:      "Total acknowledgment frames that could not be written",
		}),
		DecodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "frames",
			Name:      "decode_failures_total",
			Help:      "Total frames dropped because they could not be decoded",
		}),
		ErrorFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "frames",
			Name:      "error_frames_total",
			Help:      "Total error frames reported by the feed",
		}),
		EventsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "dispatched_total",
			Help:      "Total events dispatched by type and result",
		}, []string{"type", "result"}),
	}

	if reg != nil {
		reg.MustRegister(
			c.ConnectionState,
			c.ConnectsTotal,
			c.ConnectFailures,
			c.HeartbeatsSent,
			c.HeartbeatFailures,
			c.BatchesReceived,
			c.DuplicateBatches,
			c.AcksSent,
			c.AckFailures,
			c.DecodeFailures,
			c.ErrorFrames,
			c.EventsDispatched,
		)
	}

	return c
}

// SetState records the supervisor state.
func (c *Collectors) SetState(state int) {
	if c == nil {
		return
	}
	c.ConnectionState.Set(float64(state))
}

// Connected records a successful connection.
func (c *Collectors) Connected() {
	if c == nil {
		return
	}
	c.ConnectsTotal.Inc()
}

// ConnectFailed records a failed connection attempt.
func (c *Collectors) ConnectFailed() {
	if c == nil {
		return
	}
	c.ConnectFailures.Inc()
}

// HeartbeatSent records a written keepalive frame.
func (c *Collectors) HeartbeatSent() {
	if c == nil {
		return
	}
	c.HeartbeatsSent.Inc()
}

// HeartbeatFailed records a keepalive frame that could not be written.
func (c *Collectors) HeartbeatFailed() {
	if c == nil {
		return
	}
	c.HeartbeatFailures.Inc()
}

// BatchReceived records a decoded batch.
func (c *Collectors) BatchReceived() {
	if c == nil {
		return
	}
	c.BatchesReceived.Inc()
}

// DuplicateBatch records a batch whose AUID was already acknowledged.
func (c *Collectors) DuplicateBatch() {
	if c == nil {
		return
	}
	c.DuplicateBatches.Inc()
}

// AckSent records a written acknowledgment.
func (c *Collectors) AckSent() {
	if c == nil {
		return
	}
	c.AcksSent.Inc()
}

// AckFailed records an acknowledgment that could not be written.
func (c *Collectors) AckFailed() {
	if c == nil {
		return
	}
	c.AckFailures.Inc()
}

// DecodeFailed records a dropped frame.
func (c *Collectors) DecodeFailed() {
	if c == nil {
		return
	}
	c.DecodeFailures.Inc()
}

// ErrorFrame records a server error frame.
func (c *Collectors) ErrorFrame() {
	if c == nil {
		return
	}
	c.ErrorFrames.Inc()
}

// Event records one dispatched event.
func (c *Collectors) Event(eventType, result string) {
	if c == nil {
		return
	}
	c.EventsDispatched.WithLabelValues(eventType, result).Inc()
}
