// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bazaar_flipper"

// Label names
const (
	LabelStatus  = "status"
	LabelReason  = "reason"
	LabelResult  = "result"
	LabelMethod  = "method"
	LabelPattern = "pattern"
)

// Label values
const (
	StatusOK    = "ok"
	StatusError = "error"

	ReasonUnavailable = "unavailable"
	ReasonBelowVolume = "below_volume"
	ReasonUnpriced    = "unpriced"

	ResultHit  = "hit"
	ResultMiss = "miss"
)

// Scan metrics
var (
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Total number of ranking passes by outcome",
		},
		[]string{LabelStatus},
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Wall time of one fetch and rank cycle",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	RankedProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ranked_products",
			Help:      "Number of products in the most recent ranking",
		},
	)

	SkippedProducts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_products_total",
			Help:      "Candidate products left out of a ranking, by reason",
		},
		[]string{LabelReason},
	)
)

// Bazaar fetch metrics
var (
	SnapshotFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_fetch_duration_seconds",
			Help:      "Latency of bazaar snapshot downloads",
			Buckets:   prometheus.DefBuckets,
		},
	)

	SnapshotFetchErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_fetch_errors_total",
			Help:      "Failed bazaar snapshot downloads",
		},
	)

	SnapshotCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_cache_lookups_total",
			Help:      "Snapshot cache lookups by result",
		},
		[]string{LabelResult},
	)
)

// HTTP metrics
var (
	RankingCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ranking_cache_lookups_total",
			Help:      "API ranking cache lookups by result",
		},
		[]string{LabelResult},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{LabelMethod, LabelPattern, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{LabelMethod, LabelPattern},
	)
)
