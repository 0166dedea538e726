package metrics

import (
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry        *prom.Registry
	stageDuration   *prom.HistogramVec
	buildDuration   prom.Histogram
	stageResults    *prom.CounterVec
	buildOutcome    *prom.CounterVec
	pagesWritten    prom.Counter
	docsScanned     prom.Counter
	describeResults *prom.CounterVec
	httpRequests    *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg
// (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}

	pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "sitegen",
		Name:      "stage_duration_seconds",
		Help:      "Duration of individual build stages",
		Buckets:   prom.DefBuckets,
	}, []string{"stage"})
	pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: "sitegen",
		Name:      "build_duration_seconds",
		Help:      "Total build duration",
		Buckets:   prom.DefBuckets,
	})
	pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "sitegen",
		Name:      "stage_results_total",
		Help:      "Stage result counts by outcome",
	}, []string{"stage", "result"})
	pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "sitegen",
		Name:      "build_outcomes_total",
		Help:      "Build outcomes by final status",
	}, []string{"outcome"})
	pr.pagesWritten = prom.NewCounter(prom.CounterOpts{
		Namespace: "sitegen",
		Name:      "pages_written_total",
		Help:      "Pages written across builds",
	})
	pr.docsScanned = prom.NewCounter(prom.CounterOpts{
		Namespace: "sitegen",
		Name:      "documents_scanned_total",
		Help:      "Documents discovered across scans",
	})
	pr.describeResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "sitegen",
		Name:      "describe_results_total",
		Help:      "Description provider call results",
	}, []string{"result"})
	pr.httpRequests = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "sitegen",
		Name:      "http_requests_total",
		Help:      "Development server requests by status code",
	}, []string{"code"})

	reg.MustRegister(
		pr.stageDuration,
		pr.buildDuration,
		pr.stageResults,
		pr.buildOutcome,
		pr.pagesWritten,
		pr.docsScanned,
		pr.describeResults,
		pr.httpRequests,
	)
	return pr
}

func (pr *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	pr.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	pr.buildDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	pr.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (pr *PrometheusRecorder) IncBuildOutcome(outcome string) {
	pr.buildOutcome.WithLabelValues(outcome).Inc()
}

func (pr *PrometheusRecorder) AddPagesWritten(n int) {
	pr.pagesWritten.Add(float64(n))
}

func (pr *PrometheusRecorder) AddDocumentsScanned(n int) {
	pr.docsScanned.Add(float64(n))
}

func (pr *PrometheusRecorder) IncDescribeResult(success bool) {
	label := "success"
	if !success {
		label = "failure"
	}
	pr.describeResults.WithLabelValues(label).Inc()
}

func (pr *PrometheusRecorder) IncHTTPRequest(status int) {
	pr.httpRequests.WithLabelValues(strconv.Itoa(status)).Inc()
}

// HTTPHandler returns an http.Handler serving this recorder's registry.
func (pr *PrometheusRecorder) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(pr.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
