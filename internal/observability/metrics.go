package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	httpDurationHistogram  *prometheus.HistogramVec
	idempotencyCounter     *prometheus.CounterVec
	conversionCounter      *prometheus.CounterVec
	rateCorrectionCounter  *prometheus.CounterVec
	commissionQuoteCounter *prometheus.CounterVec
	rateFindingsGauge      *prometheus.GaugeVec
	snapshotCacheCounter   *prometheus.CounterVec
	workerRunCounter       *prometheus.CounterVec
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		httpDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"})

		idempotencyCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "idempotency_events_total",
			Help: "Idempotency middleware outcomes",
		}, []string{"outcome"})

		conversionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fx_conversions_total",
			Help: "Conversion quotes by resolution path",
		}, []string{"path"})

		rateCorrectionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fx_rate_corrections_total",
			Help: "Suspect per-currency rates replaced by a configured alternate",
		}, []string{"leg"})

		commissionQuoteCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "commission_quotes_total",
			Help: "Commission quotes by schedule and tier outcome",
		}, []string{"kind", "tier"})

		rateFindingsGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rate_config_findings",
			Help: "Rate configuration problems found by the last audit run",
		}, []string{"kind"})

		snapshotCacheCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_snapshot_cache_total",
			Help: "Rate snapshot cache lookups",
		}, []string{"result"})

		workerRunCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_runs_total",
			Help: "Background worker run outcomes",
		}, []string{"worker", "result"})

		prometheus.MustRegister(
			httpDurationHistogram,
			idempotencyCounter,
			conversionCounter,
			rateCorrectionCounter,
			commissionQuoteCounter,
			rateFindingsGauge,
			snapshotCacheCounter,
			workerRunCounter,
		)
	})
}

func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if httpDurationHistogram == nil {
		return
	}
	httpDurationHistogram.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

func IncrementIdempotencyEvent(outcome string) {
	if idempotencyCounter == nil {
		return
	}
	idempotencyCounter.WithLabelValues(outcome).Inc()
}

// IncrementConversion records a quote; path is "unresolved" when no rate applied.
func IncrementConversion(path string) {
	if conversionCounter == nil {
		return
	}
	conversionCounter.WithLabelValues(path).Inc()
}

func IncrementRateCorrection(leg string) {
	if rateCorrectionCounter == nil {
		return
	}
	rateCorrectionCounter.WithLabelValues(leg).Inc()
}

func IncrementCommissionQuote(kind string, tierFound bool) {
	if commissionQuoteCounter == nil {
		return
	}
	tier := "matched"
	if !tierFound {
		tier = "none"
	}
	commissionQuoteCounter.WithLabelValues(kind, tier).Inc()
}

// SetRateFindings replaces the gauge values with the latest audit counts.
func SetRateFindings(counts map[string]int) {
	if rateFindingsGauge == nil {
		return
	}
	rateFindingsGauge.Reset()
	for kind, n := range counts {
		rateFindingsGauge.WithLabelValues(kind).Set(float64(n))
	}
}

func IncrementSnapshotCache(result string) {
	if snapshotCacheCounter == nil {
		return
	}
	snapshotCacheCounter.WithLabelValues(result).Inc()
}

func IncrementWorkerRun(worker, result string) {
	if workerRunCounter == nil {
		return
	}
	workerRunCounter.WithLabelValues(worker, result).Inc()
}
