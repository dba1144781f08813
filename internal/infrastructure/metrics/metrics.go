package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transfer metrics
	TransfersExecuted prometheus.Counter
	TransferDuration  prometheus.Histogram
	TransferAmount    prometheus.Histogram
	TransferErrors    *prometheus.CounterVec

	// Account metrics
	AccountsCreated prometheus.Counter

	// Notification metrics
	NotificationFailures prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates all Prometheus metrics and registers them with reg.
// A nil reg registers with the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Transfer metrics
		TransfersExecuted: factory.NewCounter(prometheus.CounterOpts{
			Name: "gotransfer_transfers_executed_total",
			Help: "Total number of transfers committed",
		}),
		TransferDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gotransfer_transfer_duration_seconds",
			Help:    "Duration of transfer operations",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gotransfer_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		TransferErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gotransfer_transfer_errors_total",
				Help: "Total number of rejected transfers by reason",
			},
			[]string{"reason"},
		),

		// Account metrics
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gotransfer_accounts_created_total",
			Help: "Total number of accounts created",
		}),

		// Notification metrics
		NotificationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "gotransfer_notification_failures_total",
			Help: "Total number of notifications that could not be delivered",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gotransfer_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gotransfer_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gotransfer_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}

// AccountCreated records a newly opened account.
func (m *Metrics) AccountCreated() {
	m.AccountsCreated.Inc()
}

// TransferSucceeded records a committed transfer.
func (m *Metrics) TransferSucceeded(amount decimal.Decimal, elapsed time.Duration) {
	m.TransfersExecuted.Inc()
	m.TransferDuration.Observe(elapsed.Seconds())
	m.TransferAmount.Observe(amount.InexactFloat64())
}

// TransferFailed records a rejected transfer.
func (m *Metrics) TransferFailed(reason string) {
	m.TransferErrors.WithLabelValues(reason).Inc()
}

// NotificationFailed records a notification that could not be delivered.
func (m *Metrics) NotificationFailed() {
	m.NotificationFailures.Inc()
}
