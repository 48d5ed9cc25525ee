package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	model "github.com/tigerroll/riptide/pkg/batch/core/domain/model"
	metrics "github.com/tigerroll/riptide/pkg/batch/core/metrics"
	logger "github.com/tigerroll/riptide/pkg/batch/support/util/logger"
)

// outcomeLabel maps a job outcome to a metric label value.
func outcomeLabel(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// PrometheusRecorder is a Prometheus implementation of the
// metrics.MetricRecorder interface. All metrics live in a private registry
// exposed via GetRegistry, so applications decide how to serve them.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	// Job Metrics
	jobDurationSeconds *prometheus.HistogramVec
	jobRunsTotal       *prometheus.CounterVec

	// Step Metrics
	stepDurationSeconds *prometheus.HistogramVec
	stepRunsTotal       *prometheus.CounterVec

	// Item Metrics
	itemReadTotal    *prometheus.CounterVec
	itemProcessTotal *prometheus.CounterVec
	itemWriteTotal   *prometheus.CounterVec
	itemSkipTotal    *prometheus.CounterVec
}

// NewPrometheusRecorder creates a new instance of PrometheusRecorder.
func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()

	// Register Go standard metrics and process/OS metrics.
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &PrometheusRecorder{
		registry: registry,
		jobDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "batch_job_duration_seconds",
			Help:    "Duration of batch job runs.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job_name", "outcome"}),
		jobRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_job_runs_total",
			Help: "Total number of batch job runs by outcome.",
		}, []string{"job_name", "outcome"}),
		stepDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "batch_step_duration_seconds",
			Help:    "Duration of batch step executions.",
			Buckets: prometheus.DefBuckets,
		}, []string{"step_name", "status"}),
		stepRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_step_runs_total",
			Help: "Total number of batch step executions by final status.",
		}, []string{"step_name", "status"}),
		itemReadTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_item_read_total",
			Help: "Total items read by step.",
		}, []string{"step_name"}),
		itemProcessTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_item_process_total",
			Help: "Total items processed by step.",
		}, []string{"step_name"}),
		itemWriteTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_item_write_total",
			Help: "Total items written by step.",
		}, []string{"step_name"}),
		itemSkipTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_item_skip_total",
			Help: "Total tolerated item-level errors by step and phase.",
		}, []string{"step_name", "phase"}),
	}

	registry.MustRegister(r.jobDurationSeconds)
	registry.MustRegister(r.jobRunsTotal)
	registry.MustRegister(r.stepDurationSeconds)
	registry.MustRegister(r.stepRunsTotal)
	registry.MustRegister(r.itemReadTotal)
	registry.MustRegister(r.itemProcessTotal)
	registry.MustRegister(r.itemWriteTotal)
	registry.MustRegister(r.itemSkipTotal)

	return r
}

// GetRegistry returns the Prometheus registry holding all recorder metrics.
func (r *PrometheusRecorder) GetRegistry() *prometheus.Registry {
	return r.registry
}

// RecordJobStart records the start of a job run.
func (r *PrometheusRecorder) RecordJobStart(ctx context.Context, jobName string) {
	logger.Debugf("Metrics: Job '%s' started.", jobName)
}

// RecordJobEnd records the end of a job run.
func (r *PrometheusRecorder) RecordJobEnd(ctx context.Context, jobName string, duration time.Duration, err error) {
	outcome := outcomeLabel(err)
	r.jobRunsTotal.WithLabelValues(jobName, outcome).Inc()
	r.jobDurationSeconds.WithLabelValues(jobName, outcome).Observe(duration.Seconds())
	logger.Debugf("Metrics: Job '%s' ended. Outcome: %s, Duration: %.3fs", jobName, outcome, duration.Seconds())
}

// RecordStepStart records the start of a StepExecution.
func (r *PrometheusRecorder) RecordStepStart(ctx context.Context, execution *model.StepExecution) {
	logger.Debugf("Metrics: Step '%s' started.", execution.StepName)
}

// RecordStepEnd records the end of a StepExecution with its final status.
func (r *PrometheusRecorder) RecordStepEnd(ctx context.Context, execution *model.StepExecution) {
	status := execution.Status.String()
	r.stepRunsTotal.WithLabelValues(execution.StepName, status).Inc()
	if execution.EndTime != nil {
		duration := execution.EndTime.Sub(execution.StartTime).Seconds()
		r.stepDurationSeconds.WithLabelValues(execution.StepName, status).Observe(duration)
	}
	logger.Debugf("Metrics: Step '%s' ended with status %s.", execution.StepName, status)
}

// RecordItemRead records a successful item read.
func (r *PrometheusRecorder) RecordItemRead(ctx context.Context, stepName string) {
	r.itemReadTotal.WithLabelValues(stepName).Inc()
}

// RecordItemProcess records a successful item processing.
func (r *PrometheusRecorder) RecordItemProcess(ctx context.Context, stepName string) {
	r.itemProcessTotal.WithLabelValues(stepName).Inc()
}

// RecordItemWrite records successfully written items.
func (r *PrometheusRecorder) RecordItemWrite(ctx context.Context, stepName string, count int) {
	r.itemWriteTotal.WithLabelValues(stepName).Add(float64(count))
}

// RecordItemSkip records a tolerated item-level error.
func (r *PrometheusRecorder) RecordItemSkip(ctx context.Context, stepName string, phase string) {
	r.itemSkipTotal.WithLabelValues(stepName, phase).Inc()
}

var _ metrics.MetricRecorder = (*PrometheusRecorder)(nil)
