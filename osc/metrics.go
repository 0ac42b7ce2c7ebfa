package osc

import (
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the packet counters shared by Client and Server. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	PacketsTotal     *prometheus.CounterVec
	PacketSizeBytes  *prometheus.HistogramVec
	DecodeErrorTotal *prometheus.CounterVec
	SendErrorsTotal  prometheus.Counter
}

// NewMetrics creates the OSC metrics and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PacketsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oscwire",
			Name:      "packets_total",
			Help:      "Total number of OSC packets by kind and direction",
		}, []string{"kind", "direction"}),

		PacketSizeBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "oscwire",
			Name:      "packet_size_bytes",
			Help:      "Size of OSC packets in bytes",
			Buckets:   prometheus.ExponentialBuckets(16, 2, 10),
		}, []string{"direction"}),

		DecodeErrorTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oscwire",
			Name:      "decode_errors_total",
			Help:      "Total number of received datagrams that failed to decode",
		}, []string{"reason"}),

		SendErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "oscwire",
			Name:      "send_errors_total",
			Help:      "Total number of failed sends",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.PacketsTotal, m.PacketSizeBytes, m.DecodeErrorTotal, m.SendErrorsTotal)
	}

	return m
}

func (m *Metrics) observePacket(p Packet, direction string, size int) {
	if m == nil {
		return
	}
	m.PacketsTotal.WithLabelValues(packetKind(p), direction).Inc()
	m.PacketSizeBytes.WithLabelValues(direction).Observe(float64(size))
}

func (m *Metrics) observeDecodeError(err error) {
	if m == nil {
		return
	}
	m.DecodeErrorTotal.WithLabelValues(errorReason(err)).Inc()
}

func (m *Metrics) observeSendError() {
	if m == nil {
		return
	}
	m.SendErrorsTotal.Inc()
}

func packetKind(p Packet) string {
	switch p.(type) {
	case *Message:
		return "message"
	case *Bundle:
		return "bundle"
	}
	return "unknown"
}

// errorReason maps a decode error onto a low cardinality label.
func errorReason(err error) string {
	switch {
	case errors.Is(err, ErrMalformedAddress):
		return "malformed_address"
	case errors.Is(err, ErrUnsupportedTypeTag):
		return "unsupported_type_tag"
	case errors.Is(err, ErrBufferTruncated):
		return "buffer_truncated"
	case errors.Is(err, ErrMalformedBundle):
		return "malformed_bundle"
	}
	return "other"
}
