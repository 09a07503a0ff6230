package observability

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danmuck/ndefkit/internal/protocol/ndef"
	"github.com/danmuck/ndefkit/internal/protocol/tlv"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ndef",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ndef",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	codecOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ndef",
			Subsystem: "codec",
			Name:      "operations_total",
			Help:      "Message encode/decode operations by result.",
		},
		[]string{"op", "result"},
	)
	codecBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ndef",
			Subsystem: "codec",
			Name:      "message_bytes",
			Help:      "Encoded message size in bytes.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		},
		[]string{"op"},
	)
	codecRecords = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ndef",
			Subsystem: "codec",
			Name:      "message_records",
			Help:      "Records per successfully processed message.",
			Buckets:   []float64{1, 2, 4, 8, 16, 32},
		},
		[]string{"op"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, codecOperations, codecBytes, codecRecords)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordCodec counts one encode or decode. size and records are only
// observed on success.
func RecordCodec(op string, size, records int, err error) {
	RegisterMetrics()
	result := ErrorKind(err)
	codecOperations.WithLabelValues(op, result).Inc()
	if err != nil {
		return
	}
	codecBytes.WithLabelValues(op).Observe(float64(size))
	codecRecords.WithLabelValues(op).Observe(float64(records))
}

// ErrorKind maps codec errors onto a bounded label set.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ndef.ErrSliceTooShort):
		return "slice_too_short"
	case errors.Is(err, ndef.ErrBufferTooSmall):
		return "buffer_too_small"
	case errors.Is(err, ndef.ErrUnsupportedTypeNameFormat):
		return "unsupported_tnf"
	case errors.Is(err, ndef.ErrUnsupportedRecordType):
		return "unsupported_record_type"
	case errors.Is(err, ndef.ErrInvalidExternalType):
		return "invalid_external_type"
	case errors.Is(err, ndef.ErrInvalidUTF8):
		return "invalid_utf8"
	case errors.Is(err, ndef.ErrInvalidUTF16), errors.Is(err, ndef.ErrUTF16OddLength):
		return "invalid_utf16"
	case errors.Is(err, ndef.ErrInvalidLanguage):
		return "invalid_language"
	case errors.Is(err, ndef.ErrLanguageTooLong), errors.Is(err, ndef.ErrFieldTooLong):
		return "field_too_long"
	case errors.Is(err, tlv.ErrShortBlockHeader), errors.Is(err, tlv.ErrShortBlockValue),
		errors.Is(err, tlv.ErrNoNDEF), errors.Is(err, tlv.ErrValueTooLarge):
		return "tlv"
	default:
		return "other"
	}
}
