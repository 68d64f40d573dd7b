package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitMetrics 指标初始化（可重复调用）
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics()

	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsInProgress)
	assert.NotNil(t, CatalogMutationsTotal)
	assert.NotNil(t, CatalogMutationDuration)
	assert.NotNil(t, CatalogCascadedRowsTotal)
	assert.NotNil(t, RateLimitRejectedTotal)
}

// TestInitMetricsConcurrent 并发初始化不会重复注册
func TestInitMetricsConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			InitMetrics()
		}()
	}
	wg.Wait()
	assert.NotNil(t, CatalogMutationsTotal)
}

func TestObserveMutation(t *testing.T) {
	InitMetrics()
	before := getCounterVecValue(t, CatalogMutationsTotal, map[string]string{
		"entity": "country", "operation": "create", "outcome": "duplicate",
	})

	ObserveMutation("country", "create", "duplicate", 3*time.Millisecond)
	ObserveMutation("country", "create", "duplicate", 5*time.Millisecond)
	ObserveMutation("country", "create", "ok", time.Millisecond)

	after := getCounterVecValue(t, CatalogMutationsTotal, map[string]string{
		"entity": "country", "operation": "create", "outcome": "duplicate",
	})
	assert.Equal(t, before+2, after)

	count := getHistogramVecCount(t, CatalogMutationDuration, map[string]string{
		"entity": "country", "operation": "create",
	})
	assert.GreaterOrEqual(t, count, uint64(3))
}

func TestObserveCascade(t *testing.T) {
	InitMetrics()
	labels := map[string]string{"relation": "book->review"}
	before := getCounterVecValue(t, CatalogCascadedRowsTotal, labels)

	ObserveCascade("book->review", 3)

	assert.Equal(t, before+3, getCounterVecValue(t, CatalogCascadedRowsTotal, labels))
}

// TestHTTPScenario 模拟HTTP请求处理
func TestHTTPScenario(t *testing.T) {
	InitMetrics()
	HTTPRequestsInProgress.Set(0)

	labels := map[string]string{"method": "POST", "path": "/api/v1/countries", "status": "201"}
	before := getCounterVecValue(t, HTTPRequestsTotal, labels)

	for i := 0; i < 5; i++ {
		IncGauge(HTTPRequestsInProgress)
		ObserveHistogramVec(HTTPRequestDuration, map[string]string{
			"method": "POST",
			"path":   "/api/v1/countries",
		}, 0.002)
		IncCounterVec(HTTPRequestsTotal, labels)
		DecGauge(HTTPRequestsInProgress)
	}

	assert.Equal(t, float64(0), getGaugeValue(t, HTTPRequestsInProgress))
	assert.Equal(t, before+5, getCounterVecValue(t, HTTPRequestsTotal, labels))
}

func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels map[string]string) float64 {
	var metric dto.Metric
	require.NoError(t, counterVec.With(labels).Write(&metric))
	return metric.Counter.GetValue()
}

func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	var metric dto.Metric
	require.NoError(t, gauge.Write(&metric))
	return metric.Gauge.GetValue()
}

func getHistogramVecCount(t *testing.T, histogramVec *prometheus.HistogramVec, labels map[string]string) uint64 {
	var metric dto.Metric
	observer := histogramVec.With(labels)
	require.NoError(t, observer.(prometheus.Histogram).Write(&metric))
	return metric.Histogram.GetSampleCount()
}
