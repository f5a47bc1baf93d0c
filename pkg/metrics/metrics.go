package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/announcer/pkg/types"
)

// Outcome label values.
const (
	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
)

// errWriteTextfile indicates a failure to write the metrics textfile.
var errWriteTextfile = errors.New("failed to write metrics textfile")

// Metric holds data points from one announcement delivery.
type Metric struct {
	Sent     bool          // Whether the webhook accepted the announcement.
	Attempts int           // Number of requests made.
	Duration time.Duration // Time spent delivering, retries included.
	At       time.Time     // Completion time.
}

// Metrics holds the announcement collectors.
type Metrics struct {
	registry    *prometheus.Registry
	outcomes    *prometheus.CounterVec // Counter for announcements by outcome.
	attempts    prometheus.Counter     // Counter for webhook requests.
	lastSuccess prometheus.Gauge       // Gauge for the last successful delivery time.
	duration    prometheus.Histogram   // Histogram for delivery duration.
}

// NewMetric builds a metric from a delivery report and its error.
//
// Parameters:
//   - report: Delivery report returned by the webhook sender.
//   - err: Delivery error, nil on success.
//
// Returns:
//   - *Metric: Data points for the delivery.
func NewMetric(report types.DeliveryReport, err error) *Metric {
	return &Metric{
		Sent:     err == nil && report.Succeeded(),
		Attempts: report.Attempts,
		Duration: report.Duration,
		At:       time.Now(),
	}
}

// New creates the announcement metrics on a dedicated registry.
//
// Returns:
//   - *Metrics: Metrics handler.
//   - error: Non-nil if registration fails.
func New() (*Metrics, error) {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry creates the announcement metrics on the given registry.
//
// Parameters:
//   - registry: Prometheus registry to register and later gather from.
//
// Returns:
//   - *Metrics: Metrics handler.
//   - error: Non-nil if a collector is already registered.
func NewWithRegistry(registry *prometheus.Registry) (*Metrics, error) {
	metrics := &Metrics{
		registry: registry,
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "announcer_announcements_total",
			Help: "Number of release announcements by outcome",
		}, []string{"outcome"}),
		attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "announcer_delivery_attempts_total",
			Help: "Number of webhook requests made, retries included",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "announcer_last_success_timestamp_seconds",
			Help: "Unix time of the last announcement accepted by the webhook",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "announcer_delivery_duration_seconds",
			Help:    "Time spent delivering an announcement",
			Buckets: prometheus.DefBuckets,
		}),
	}

	for _, m := range []prometheus.Collector{
		metrics.outcomes,
		metrics.attempts,
		metrics.lastSuccess,
		metrics.duration,
	} {
		err := registry.Register(m)
		if err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}

	// Both outcomes are exported from the first run.
	metrics.outcomes.WithLabelValues(OutcomeSent)
	metrics.outcomes.WithLabelValues(OutcomeFailed)

	return metrics, nil
}

// RegisterAnnouncement records one delivery.
func (m *Metrics) RegisterAnnouncement(metric *Metric) {
	if metric == nil {
		return
	}

	m.attempts.Add(float64(metric.Attempts))
	m.duration.Observe(metric.Duration.Seconds())

	if metric.Sent {
		m.outcomes.WithLabelValues(OutcomeSent).Inc()
		m.lastSuccess.Set(float64(metric.At.Unix()))

		return
	}

	m.outcomes.WithLabelValues(OutcomeFailed).Inc()
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
//
// Parameters:
//   - path: Target file, replaced atomically.
//
// Returns:
//   - error: Non-nil if gathering or writing fails.
func (m *Metrics) WriteTextfile(path string) error {
	err := prometheus.WriteToTextfile(path, m.registry)
	if err != nil {
		return fmt.Errorf("%w: %w", errWriteTextfile, err)
	}

	logrus.WithField("path", path).Debug("Wrote metrics textfile")

	return nil
}
