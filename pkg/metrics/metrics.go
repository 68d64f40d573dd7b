// Package metrics 提供基于Prometheus的指标采集
//
// # 指标类型
//
//   - Counter: 只增不减（请求总数、变更结果数）
//   - Gauge: 可增可减（正在处理的请求数）
//   - Histogram: 分布统计（请求耗时、事务耗时）
//
// # 指标清单
//
//	http_requests_total{method,path,status}
//	http_request_duration_seconds{method,path}
//	http_requests_in_progress
//	catalog_mutations_total{entity,operation,outcome}
//	catalog_mutation_duration_seconds{entity,operation}
//	catalog_cascaded_rows_total{relation}
//	rate_limit_rejected_total{backend}
//
// 标签值必须是有限集合：path使用gin路由模板（/api/v1/books/:id），
// 不能使用原始URL，否则会造成基数爆炸。
//
// # 使用
//
//	metrics.InitMetrics()
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// once 防止重复注册（promauto注册到默认Registry，重复注册会panic）
	once sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 目录业务指标

	// CatalogMutationsTotal 变更操作结果计数
	// 标签：entity（country/author/...）、operation（create/update/delete）、
	// outcome（ok/invalid/not_found/duplicate/conflict/storage_failure）
	CatalogMutationsTotal *prometheus.CounterVec

	// CatalogMutationDuration 变更操作耗时（含事务）
	CatalogMutationDuration *prometheus.HistogramVec

	// CatalogCascadedRowsTotal 级联删除的子行数
	// 标签：relation（book->review）
	CatalogCascadedRowsTotal *prometheus.CounterVec

	// 限流指标

	// RateLimitRejectedTotal 被限流拒绝的请求数
	// 标签：backend（redis/memory）
	RateLimitRejectedTotal *prometheus.CounterVec
)

// InitMetrics 注册全部指标（幂等）
func InitMetrics() {
	once.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP请求耗时（秒）",
				// 1ms、10ms、100ms、500ms、1s、5s、10s
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		CatalogMutationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_mutations_total",
				Help: "目录变更操作总数（按结果分类）",
			},
			[]string{"entity", "operation", "outcome"},
		)

		CatalogMutationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "catalog_mutation_duration_seconds",
				Help: "目录变更操作耗时（秒）",
				// 单事务通常在毫秒级
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"entity", "operation"},
		)

		CatalogCascadedRowsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_cascaded_rows_total",
				Help: "级联删除的子行总数",
			},
			[]string{"relation"},
		)

		RateLimitRejectedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limit_rejected_total",
				Help: "被限流拒绝的请求总数",
			},
			[]string{"backend"},
		)
	})
}

// ObserveMutation 记录一次目录变更的结果与耗时
func ObserveMutation(entity, operation, outcome string, elapsed time.Duration) {
	InitMetrics()
	CatalogMutationsTotal.WithLabelValues(entity, operation, outcome).Inc()
	CatalogMutationDuration.WithLabelValues(entity, operation).Observe(elapsed.Seconds())
}

// ObserveCascade 记录级联删除的子行数
func ObserveCascade(relation string, rows int) {
	InitMetrics()
	CatalogCascadedRowsTotal.WithLabelValues(relation).Add(float64(rows))
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
