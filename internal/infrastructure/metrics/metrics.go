package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Wallet metrics
	ChargesCreated    prometheus.Counter
	ChargeAmount      prometheus.Histogram
	ConversionsMade   prometheus.Counter
	ConversionPoints  prometheus.Histogram
	TransfersCreated  prometheus.Counter
	TransferPoints    prometheus.Histogram
	WalletErrors      *prometheus.CounterVec
	CacheLookups      *prometheus.CounterVec

	// Account metrics
	AccountsCreated     prometheus.Counter
	AccountsProvisioned prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates all Prometheus metrics registered against reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Wallet metrics
		ChargesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "pointswallet_charges_created_total",
			Help: "Total number of wallet charges",
		}),
		ChargeAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pointswallet_charge_amount",
			Help:    "Charge amounts in cash units",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 10000},
		}),
		ConversionsMade: factory.NewCounter(prometheus.CounterOpts{
			Name: "pointswallet_conversions_total",
			Help: "Total number of cash to points conversions",
		}),
		ConversionPoints: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pointswallet_conversion_points",
			Help:    "Points credited per conversion",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 100000},
		}),
		TransfersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "pointswallet_transfers_created_total",
			Help: "Total number of point transfers",
		}),
		TransferPoints: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pointswallet_transfer_points",
			Help:    "Points moved per transfer",
			Buckets: []float64{10, 100, 500, 1000, 5000, 10000, 100000},
		}),
		WalletErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pointswallet_wallet_errors_total",
				Help: "Total number of wallet operation errors by type",
			},
			[]string{"operation", "error_type"},
		),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pointswallet_cache_lookups_total",
				Help: "Wallet cache lookups by outcome",
			},
			[]string{"outcome"},
		),

		// Account metrics
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "pointswallet_accounts_created_total",
			Help: "Total number of accounts created via signup",
		}),
		AccountsProvisioned: factory.NewCounter(prometheus.CounterOpts{
			Name: "pointswallet_accounts_provisioned_total",
			Help: "Total number of accounts provisioned for unknown transfer recipients",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pointswallet_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pointswallet_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Authentication metrics
		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pointswallet_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pointswallet_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
