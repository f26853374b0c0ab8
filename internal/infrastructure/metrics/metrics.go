package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transfer metrics
	TransfersCompleted prometheus.Counter
	TransferDuration   prometheus.Histogram
	TransferAmount     prometheus.Histogram
	TransferErrors     *prometheus.CounterVec

	// Account metrics
	AccountsCreated prometheus.Counter

	// Idempotency metrics
	IdempotentReplays prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Ledger metrics
	ConservationChecks *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		TransfersCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletd_transfers_completed_total",
			Help: "Total number of completed transfers",
		}),
		TransferDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "walletd_transfer_duration_seconds",
			Help:    "Duration of transfer operations",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "walletd_transfer_amount",
			Help:    "Transfer amounts in minor units",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		TransferErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletd_transfer_errors_total",
				Help: "Total number of failed transfers by reason",
			},
			[]string{"reason"},
		),
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletd_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		IdempotentReplays: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletd_idempotent_replays_total",
			Help: "Total number of requests answered from the idempotency store",
		}),
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletd_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "walletd_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		ConservationChecks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletd_conservation_checks_total",
				Help: "Total number of conservation checks by result",
			},
			[]string{"result"},
		),
	}
}
