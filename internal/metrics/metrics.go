// Package metrics exposes run and collection counters for the serve mode's
// /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomycgitntnx/Automation/internal/models"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alert_report_runs_total",
		Help: "Completed report runs, by outcome.",
	}, []string{"outcome"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "alert_report_run_duration_seconds",
		Help:    "Wall time of report runs.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	})

	endpointFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alert_report_endpoint_failures_total",
		Help: "Endpoint queries that exhausted every API version and filter.",
	}, []string{"endpoint"})

	alertsCollected = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "alert_report_alerts",
		Help: "Alerts in the most recent report, by severity.",
	}, []string{"severity"})

	lastRunTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "alert_report_last_run_timestamp_seconds",
		Help: "Unix time of the most recent successful run.",
	})
)

// ObserveRun records a completed run and the severity mix of its report.
func ObserveRun(run *models.ReportRun) {
	runsTotal.WithLabelValues("success").Inc()
	runDuration.Observe(run.Duration.Seconds())
	lastRunTimestamp.Set(float64(run.GeneratedAt.Unix()))
	alertsCollected.WithLabelValues("critical").Set(float64(run.Totals.Critical))
	alertsCollected.WithLabelValues("warning").Set(float64(run.Totals.Warning))
	alertsCollected.WithLabelValues("info").Set(float64(run.Totals.Info))
	alertsCollected.WithLabelValues("other").Set(float64(run.Totals.Other))
}

// ObserveRunFailure records a run that aborted before producing a report.
func ObserveRunFailure() {
	runsTotal.WithLabelValues("failure").Inc()
}

// ObserveEndpointFailure records one endpoint the run could not collect from.
func ObserveEndpointFailure(endpoint string) {
	endpointFailures.WithLabelValues(endpoint).Inc()
}
