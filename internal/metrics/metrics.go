// Package metrics — метрики архиватора в Prometheus.
package metrics

import (
	"errors"
	"time"

	"github.com/dukestreet/JRAW/pkg/databind"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jraw"

// Результаты обращения к API.
const (
	ResultOK       = "ok"
	ResultCacheHit = "cache_hit"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Metrics — набор коллекторов архиватора.
type Metrics struct {
	APIRequests     *prometheus.CounterVec
	APILatency      prometheus.Histogram
	ArchiveRuns     *prometheus.CounterVec
	ArchiveDuration prometheus.Histogram
	ArchivedNodes   *prometheus.CounterVec
	DecodeErrors    *prometheus.CounterVec
}

// New регистрирует коллекторы в reg. nil — prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	f := promauto.With(reg)

	return &Metrics{
		APIRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of Reddit API requests by result",
		}, []string{"result"}),
		APILatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Reddit API request latency in seconds (cache hits excluded)",
			Buckets:   prometheus.DefBuckets,
		}),
		ArchiveRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_runs_total",
			Help:      "Total number of thread archive runs by result",
		}, []string{"result"}),
		ArchiveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "archive_duration_seconds",
			Help:      "Thread archive run duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		ArchivedNodes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archived_nodes_total",
			Help:      "Total number of archived comment tree nodes by kind",
		}, []string{"kind"}),
		DecodeErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "Total number of wire decode failures by reason",
		}, []string{"reason"}),
	}
}

// ObserveAPI фиксирует результат одного обращения к API.
func (m *Metrics) ObserveAPI(result string, start time.Time) {
	if m == nil {
		return
	}

	m.APIRequests.WithLabelValues(result).Inc()
	if result != ResultCacheHit {
		m.APILatency.Observe(time.Since(start).Seconds())
	}
}

// ObserveArchive фиксирует результат архивирования треда.
func (m *Metrics) ObserveArchive(err error, start time.Time) {
	if m == nil {
		return
	}

	result := ResultOK
	if err != nil {
		result = ResultError
	}

	m.ArchiveRuns.WithLabelValues(result).Inc()
	m.ArchiveDuration.Observe(time.Since(start).Seconds())
}

// AddNodes увеличивает счётчик заархивированных узлов kind.
func (m *Metrics) AddNodes(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}

	m.ArchivedNodes.WithLabelValues(kind).Add(float64(n))
}

// ObserveDecodeError классифицирует ошибку декодирования и увеличивает счётчик.
// Ошибки не из databind игнорируются.
func (m *Metrics) ObserveDecodeError(err error) {
	if m == nil {
		return
	}

	if reason := DecodeReason(err); reason != "" {
		m.DecodeErrors.WithLabelValues(reason).Inc()
	}
}

// DecodeReason возвращает метку для ошибки декодирования или "" для прочих ошибок.
func DecodeReason(err error) string {
	var de *databind.DecodeError
	if !errors.As(err, &de) {
		return ""
	}

	switch de.Kind {
	case databind.ErrUnknownKind:
		return "unknown_kind"
	case databind.ErrMissingRequiredField:
		return "missing_field"
	case databind.ErrInvalidTimestamp:
		return "invalid_timestamp"
	case databind.ErrMalformedEnvelope:
		return "malformed_envelope"
	case databind.ErrTypeMismatch:
		return "type_mismatch"
	default:
		return "other"
	}
}
