package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the application.
// Following the explicit dependency injection pattern, this struct
// is passed to all components that need to record metrics.
type Metrics struct {
	// Solana RPC Metrics
	solanaRPCCallsTotal        *prometheus.CounterVec
	solanaRPCCallDuration      *prometheus.HistogramVec
	solanaRPCRateLimitHits     *prometheus.CounterVec
	solanaRPCRetries           *prometheus.CounterVec
	solanaRPCSignaturesPerCall *prometheus.HistogramVec

	// Scan Metrics
	transactionsScannedTotal *prometheus.CounterVec
	transactionsSkippedTotal *prometheus.CounterVec
	burnEventsTotal          *prometheus.CounterVec
	scanPagesTotal           *prometheus.CounterVec

	// Price Metrics
	priceFetchesTotal  *prometheus.CounterVec
	priceFetchDuration *prometheus.HistogramVec

	// Snapshot Metrics
	snapshotWritesTotal *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance and registers all collectors.
// If registry is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		// Solana RPC Metrics
		solanaRPCCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solana_rpc_calls_total",
				Help: "Total number of Solana RPC calls by method and status",
			},
			[]string{"method", "status", "endpoint"},
		),
		solanaRPCCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solana_rpc_call_duration_seconds",
				Help:    "Duration of Solana RPC calls in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"method", "endpoint"},
		),
		solanaRPCRateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solana_rpc_rate_limit_hits_total",
				Help: "Total number of Solana RPC rate limit hits (429 errors)",
			},
			[]string{"endpoint"},
		),
		solanaRPCRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solana_rpc_retries_total",
				Help: "Total number of Solana RPC retry attempts",
			},
			[]string{"method", "reason"},
		),
		solanaRPCSignaturesPerCall: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solana_rpc_signatures_per_call",
				Help:    "Number of signatures fetched per GetSignaturesForAddress call",
				Buckets: []float64{1, 10, 50, 100, 250, 500, 1000},
			},
			[]string{"endpoint"},
		),

		// Scan Metrics
		transactionsScannedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_scanned_total",
				Help: "Total number of transactions scanned for burn instructions",
			},
			[]string{"wallet_address", "status"},
		),
		transactionsSkippedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_skipped_total",
				Help: "Total number of transactions skipped",
			},
			[]string{"wallet_address", "reason"},
		),
		burnEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "burn_events_total",
				Help: "Total number of burn instructions extracted",
			},
			[]string{"mint"},
		),
		scanPagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scan_pages_total",
				Help: "Total number of signature pages fetched",
			},
			[]string{"wallet_address"},
		),

		// Price Metrics
		priceFetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "price_fetches_total",
				Help: "Total number of price fetch attempts by provider and status",
			},
			[]string{"provider", "status"},
		),
		priceFetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "price_fetch_duration_seconds",
				Help:    "Duration of price fetch requests in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"provider"},
		),

		// Snapshot Metrics
		snapshotWritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "snapshot_writes_total",
				Help: "Total number of snapshot files written",
			},
			[]string{"file", "status"},
		),
	}
}

// Solana RPC metric helpers

// RecordRPCCall records a Solana RPC call with duration.
func (m *Metrics) RecordRPCCall(method, status, endpoint string, duration float64) {
	m.solanaRPCCallsTotal.WithLabelValues(method, status, endpoint).Inc()
	m.solanaRPCCallDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordRateLimitHit records a 429 rate limit response from the RPC endpoint.
func (m *Metrics) RecordRateLimitHit(endpoint string) {
	m.solanaRPCRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordRPCRetry records a retry attempt for an RPC method.
func (m *Metrics) RecordRPCRetry(method, reason string) {
	m.solanaRPCRetries.WithLabelValues(method, reason).Inc()
}

// RecordRPCSignaturesPerCall records how many signatures a page fetch returned.
func (m *Metrics) RecordRPCSignaturesPerCall(endpoint string, count float64) {
	m.solanaRPCSignaturesPerCall.WithLabelValues(endpoint).Observe(count)
}

// Scan metric helpers

// RecordTransactionScanned records one transaction scanned for burns.
func (m *Metrics) RecordTransactionScanned(walletAddress, status string) {
	m.transactionsScannedTotal.WithLabelValues(walletAddress, status).Inc()
}

// RecordTransactionsSkipped records transactions skipped with a reason.
func (m *Metrics) RecordTransactionsSkipped(walletAddress, reason string, count int) {
	m.transactionsSkippedTotal.WithLabelValues(walletAddress, reason).Add(float64(count))
}

// RecordBurnEvents records burn instructions extracted for a mint.
func (m *Metrics) RecordBurnEvents(mint string, count int) {
	m.burnEventsTotal.WithLabelValues(mint).Add(float64(count))
}

// RecordScanPage records one signature page fetched for a wallet.
func (m *Metrics) RecordScanPage(walletAddress string) {
	m.scanPagesTotal.WithLabelValues(walletAddress).Inc()
}

// Price metric helpers

// RecordPriceFetch records a price fetch attempt with duration.
func (m *Metrics) RecordPriceFetch(provider, status string, duration float64) {
	m.priceFetchesTotal.WithLabelValues(provider, status).Inc()
	m.priceFetchDuration.WithLabelValues(provider).Observe(duration)
}

// Snapshot metric helpers

// RecordSnapshotWrite records a snapshot file write.
func (m *Metrics) RecordSnapshotWrite(file, status string) {
	m.snapshotWritesTotal.WithLabelValues(file, status).Inc()
}
