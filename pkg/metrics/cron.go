package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// CronJobMetrics tracks the maintenance jobs of the cron worker. The last
// success gauge lets alerts catch a deal sweep that silently stopped.
type CronJobMetrics struct {
	duration    *prometheus.HistogramVec
	runs        *prometheus.CounterVec
	lastSuccess *prometheus.GaugeVec
}

// NewCronJobMetrics registers the cron job metrics on reg. A nil reg yields
// a no-op collector.
func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_cron_job_duration_seconds",
		Help:    "Duration of cron jobs in seconds.",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"job"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cron_job_runs_total",
		Help: "Cron job executions by outcome.",
	}, []string{"job", "outcome"})
	lastSuccess := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "storefront_cron_job_last_success_timestamp_seconds",
		Help: "Unix time of the last successful run per job.",
	}, []string{"job"})
	reg.MustRegister(duration, runs, lastSuccess)
	return &CronJobMetrics{
		duration:    duration,
		runs:        runs,
		lastSuccess: lastSuccess,
	}
}

// ObserveRun records one execution of job that took took and ended with err.
func (c *CronJobMetrics) ObserveRun(job string, took time.Duration, err error) {
	if c == nil || c.runs == nil {
		return
	}
	label := normalizeLabel(job)
	c.duration.WithLabelValues(label).Observe(took.Seconds())
	if err != nil {
		c.runs.WithLabelValues(label, outcomeFailure).Inc()
		return
	}
	c.runs.WithLabelValues(label, outcomeSuccess).Inc()
	c.lastSuccess.WithLabelValues(label).SetToCurrentTime()
}

// normalizeLabel keeps label cardinality predictable: lower case, no spaces.
func normalizeLabel(value string) string {
	value = strings.Join(strings.Fields(strings.ToLower(value)), "_")
	if value == "" {
		return "unknown"
	}
	return value
}
