package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Vault metrics
	VaultCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vault_engine_vault_count",
		Help: "Total number of vaults managed by the engine",
	})

	// Quote metrics
	QuoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_engine_quote_requests_total",
			Help: "Total number of quote requests",
		},
		[]string{"status"},
	)

	QuoteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vault_engine_quote_duration_seconds",
		Help:    "Quote computation duration in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.002, 0.005, 0.01, 0.02, 0.05},
	})

	EffectiveFeeBps = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vault_engine_effective_fee_bps",
		Help:    "Effective fee rate of computed quotes in basis points",
		Buckets: []float64{0, 10, 30, 50, 100, 300, 500, 1000, 5000, 10000},
	})

	// Swap metrics
	SwapVolume = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vault_engine_swap_volume_units_total",
		Help: "Total input volume swapped, in base units",
	})

	SwapFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_engine_swap_failures_total",
			Help: "Total number of rejected swaps",
		},
		[]string{"reason"},
	)

	LpFeesCollected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vault_engine_lp_fees_units_total",
		Help: "Total fees credited to liquidity providers, in base units",
	})

	ProtocolFeesCollected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vault_engine_protocol_fees_units_total",
		Help: "Total fees credited to the protocol treasury, in base units",
	})

	// Staking metrics
	StakeVolume = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vault_engine_stake_volume_units_total",
		Help: "Total principal staked, in base units",
	})

	UnstakeVolume = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vault_engine_unstake_volume_units_total",
		Help: "Total principal paid out by unstakes, in base units",
	})

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_engine_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vault_engine_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
