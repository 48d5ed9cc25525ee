package support

import (
	"go.uber.org/fx"

	config "github.com/tigerroll/riptide/pkg/batch/core/config"
	metrics "github.com/tigerroll/riptide/pkg/batch/core/metrics"
)

// JobFactoryParams defines dependencies for the JobFactory.
type JobFactoryParams struct {
	fx.In
	Config         *config.Config
	MetricRecorder metrics.MetricRecorder
	Tracer         metrics.Tracer
}

// ProvideJobFactory constructs the JobFactory from its Fx dependencies.
func ProvideJobFactory(p JobFactoryParams) *JobFactory {
	return NewJobFactory(p.Config, p.MetricRecorder, p.Tracer)
}

// Module provides the JobFactory.
var Module = fx.Options(
	fx.Provide(ProvideJobFactory),
)
