package metrics

import (
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MetricsCollector interface for collecting metrics
type MetricsCollector interface {
	IncrementCounter(name string, labels map[string]string)
	RecordHistogram(name string, value float64, labels map[string]string)
	SetGauge(name string, value float64, labels map[string]string)
	RecordDuration(name string, duration time.Duration, labels map[string]string)
}

// SimpleMetricsCollector is a basic in-memory metrics collector
type SimpleMetricsCollector struct {
	mu         sync.Mutex
	counters   map[string]float64
	histograms map[string][]float64
	gauges     map[string]float64
	logger     *zap.Logger
}

// NewSimpleMetricsCollector creates a new simple metrics collector
func NewSimpleMetricsCollector(logger *zap.Logger) *SimpleMetricsCollector {
	return &SimpleMetricsCollector{
		counters:   make(map[string]float64),
		histograms: make(map[string][]float64),
		gauges:     make(map[string]float64),
		logger:     logger,
	}
}

// IncrementCounter increments a counter metric
func (smc *SimpleMetricsCollector) IncrementCounter(name string, labels map[string]string) {
	key := buildMetricKey(name, labels)
	smc.mu.Lock()
	smc.counters[key]++
	value := smc.counters[key]
	smc.mu.Unlock()

	smc.logger.Debug("Counter incremented",
		zap.String("metric", name),
		zap.Any("labels", labels),
		zap.Float64("value", value))
}

// RecordHistogram records a histogram value
func (smc *SimpleMetricsCollector) RecordHistogram(name string, value float64, labels map[string]string) {
	key := buildMetricKey(name, labels)
	smc.mu.Lock()
	smc.histograms[key] = append(smc.histograms[key], value)
	smc.mu.Unlock()

	smc.logger.Debug("Histogram recorded",
		zap.String("metric", name),
		zap.Any("labels", labels),
		zap.Float64("value", value))
}

// SetGauge sets a gauge metric value
func (smc *SimpleMetricsCollector) SetGauge(name string, value float64, labels map[string]string) {
	key := buildMetricKey(name, labels)
	smc.mu.Lock()
	smc.gauges[key] = value
	smc.mu.Unlock()

	smc.logger.Debug("Gauge set",
		zap.String("metric", name),
		zap.Any("labels", labels),
		zap.Float64("value", value))
}

// RecordDuration records a duration metric
func (smc *SimpleMetricsCollector) RecordDuration(name string, duration time.Duration, labels map[string]string) {
	smc.RecordHistogram(name+"_duration_seconds", duration.Seconds(), labels)
}

// buildMetricKey builds a unique key for a metric with labels
func buildMetricKey(name string, labels map[string]string) string {
	key := name
	for k, v := range labels {
		key += "_" + k + "_" + v
	}
	return key
}

// ApplicationMetrics holds all application-specific metrics
type ApplicationMetrics struct {
	collector MetricsCollector
	logger    *zap.Logger
}

// NewApplicationMetrics creates a new application metrics instance
func NewApplicationMetrics(collector MetricsCollector, logger *zap.Logger) *ApplicationMetrics {
	return &ApplicationMetrics{
		collector: collector,
		logger:    logger,
	}
}

// RecordHTTPRequest records one handled HTTP request.
func (am *ApplicationMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	labels := map[string]string{
		"method": method,
		"path":   path,
		"status": strconv.Itoa(statusCode),
	}

	am.collector.IncrementCounter("http_requests_total", labels)
	am.collector.RecordDuration("http_request_duration", duration, labels)
}

// RecordFeedFetch records a market-data download attempt.
func (am *ApplicationMetrics) RecordFeedFetch(provider, symbol string, success bool, duration time.Duration) {
	labels := map[string]string{
		"provider": provider,
		"symbol":   symbol,
		"success":  strconv.FormatBool(success),
	}

	am.collector.IncrementCounter("feed_fetches_total", labels)
	am.collector.RecordDuration("feed_fetch_duration", duration, labels)
}

// RecordCacheLookup records an insight cache hit or miss.
func (am *ApplicationMetrics) RecordCacheLookup(kind string, hit bool) {
	am.collector.IncrementCounter("cache_lookups_total", map[string]string{
		"kind": kind,
		"hit":  strconv.FormatBool(hit),
	})
}

// RecordScrapeJob records a completed ratings scrape job.
func (am *ApplicationMetrics) RecordScrapeJob(symbol string, success bool, duration time.Duration) {
	labels := map[string]string{
		"symbol":  symbol,
		"success": strconv.FormatBool(success),
	}

	am.collector.IncrementCounter("scrape_jobs_total", labels)
	am.collector.RecordDuration("scrape_job_duration", duration, labels)
}

// SetWatchlistSize publishes the current watchlist gauge.
func (am *ApplicationMetrics) SetWatchlistSize(size int) {
	am.collector.SetGauge("watchlist_size", float64(size), nil)
}
