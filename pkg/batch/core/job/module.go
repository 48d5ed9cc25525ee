package job

import (
	"go.uber.org/fx"

	port "github.com/tigerroll/riptide/pkg/batch/core/application/port"
	metrics "github.com/tigerroll/riptide/pkg/batch/core/metrics"
)

// JobParams defines dependencies for assembling a Job from the Fx graph.
// Steps and listeners are collected from value groups so applications can
// contribute them independently.
type JobParams struct {
	fx.In
	JobName               string                      `name:"jobName"`
	Steps                 []port.Step                 `group:"steps"`
	JobExecutionListeners []port.JobExecutionListener `group:"jobExecutionListeners"`
	MetricRecorder        metrics.MetricRecorder
	Tracer                metrics.Tracer
}

// ProvideJob constructs the Job from its Fx-collected dependencies.
func ProvideJob(p JobParams) (*Job, error) {
	return NewJob(p.JobName, p.Steps, p.JobExecutionListeners, p.MetricRecorder, p.Tracer)
}

// Module provides the Job assembled from the application's steps.
var Module = fx.Options(
	fx.Provide(ProvideJob),
)
