package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Crawl outcomes.
const (
	OutcomeSucceeded     = "succeeded"
	OutcomeFailed        = "failed"
	OutcomePersistFailed = "persist_failed"
)

var (
	crawlsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkchecker_crawls_total",
			Help: "Total crawls by outcome",
		},
		[]string{"outcome"},
	)

	crawlDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "linkchecker_crawl_duration_seconds",
			Help:    "Time from submission to recorded crawl session",
			Buckets: []float64{0.1, 0.5, 1, 2, 3, 5, 10, 30},
		},
		[]string{"outcome"},
	)

	visitorsDesc = prometheus.NewDesc(
		"linkchecker_active_visitors",
		"Visitors with a loaded crawl history",
		nil, nil,
	)

	sessionsDesc = prometheus.NewDesc(
		"linkchecker_history_sessions",
		"Crawl sessions held in loaded histories",
		nil, nil,
	)
)

// StatsSource reports how many visitors and sessions are loaded.
type StatsSource interface {
	Stats() (visitors, sessions int)
}

// WorkspaceCollector is a custom Prometheus collector that reads workspace
// stats on each scrape.
type WorkspaceCollector struct {
	source StatsSource
}

// Describe sends the metric descriptors to the channel.
func (c *WorkspaceCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- visitorsDesc
	ch <- sessionsDesc
}

// Collect emits the current workspace gauges.
func (c *WorkspaceCollector) Collect(ch chan<- prometheus.Metric) {
	visitors, sessions := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(visitorsDesc, prometheus.GaugeValue, float64(visitors))
	ch <- prometheus.MustNewConstMetric(sessionsDesc, prometheus.GaugeValue, float64(sessions))
}

var initOnce sync.Once

// Init registers the crawl metrics and the workspace collector.
// Must be called once at startup.
func Init(source StatsSource) {
	initOnce.Do(func() {
		prometheus.MustRegister(crawlsTotal, crawlDuration)
		if source != nil {
			prometheus.MustRegister(&WorkspaceCollector{source: source})
		}
	})
}

// RecordCrawl counts one crawl and observes its duration.
func RecordCrawl(outcome string, d time.Duration) {
	crawlsTotal.WithLabelValues(outcome).Inc()
	crawlDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
