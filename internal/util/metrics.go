package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StockAdjustmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_adjustments_total",
		Help: "Total number of stock adjustments committed",
	}, []string{"role"})

	LowStockAlertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "low_stock_alerts_total",
		Help: "Total number of low-stock alerts dispatched",
	}, []string{"severity"})

	AlertDispatchFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alert_dispatch_failed_total",
		Help: "Total number of alert dispatch failures",
	})

	SheetSyncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sheet_sync_total",
		Help: "Total number of remote sheet sync attempts",
	}, []string{"result"})

	SheetSyncLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sheet_sync_latency_seconds",
		Help:    "Latency of remote sheet fetches",
		Buckets: prometheus.DefBuckets,
	})

	BridgePushesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_pushes_total",
		Help: "Total number of remote write-bridge pushes",
	}, []string{"result"})

	InsightRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_requests_total",
		Help: "Total number of AI insight generations",
	}, []string{"result"})

	CSVExportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "csv_exports_total",
		Help: "Total number of CSV report exports",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
