package observability

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	framesEncoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "craftwire",
			Subsystem: "frame",
			Name:      "encoded_total",
			Help:      "Frames encoded, by compression state.",
		},
		[]string{"compressed"},
	)
	framesDecoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "craftwire",
			Subsystem: "frame",
			Name:      "decoded_total",
			Help:      "Frames decoded, by compression state.",
		},
		[]string{"compressed"},
	)
	frameBodyBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "craftwire",
			Subsystem: "frame",
			Name:      "body_bytes",
			Help:      "Uncompressed frame body size in bytes.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		},
		[]string{"direction"},
	)
	decodeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "craftwire",
			Subsystem: "frame",
			Name:      "decode_errors_total",
			Help:      "Frame or packet decode failures, by error kind.",
		},
		[]string{"kind"},
	)
	dispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "craftwire",
			Subsystem: "dispatch",
			Name:      "handlers_total",
			Help:      "Packet handler invocations, by packet and outcome.",
		},
		[]string{"packet", "success"},
	)
)

// Collectors lists every codec collector, for callers using their own registry.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{framesEncoded, framesDecoded, frameBodyBytes, decodeErrors, dispatched}
}

// RegisterMetrics registers the collectors with the default registry once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(Collectors()...)
	})
}

func RecordFrameEncoded(bodyLen int, compressed bool) {
	framesEncoded.WithLabelValues(strconv.FormatBool(compressed)).Inc()
	frameBodyBytes.WithLabelValues("encode").Observe(float64(bodyLen))
}

func RecordFrameDecoded(bodyLen int, compressed bool) {
	framesDecoded.WithLabelValues(strconv.FormatBool(compressed)).Inc()
	frameBodyBytes.WithLabelValues("decode").Observe(float64(bodyLen))
}

func RecordDecodeError(kind string) {
	decodeErrors.WithLabelValues(kind).Inc()
}

func RecordDispatch(packet string, success bool) {
	dispatched.WithLabelValues(packet, strconv.FormatBool(success)).Inc()
}
