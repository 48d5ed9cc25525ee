package metrics

import (
	"go.uber.org/fx"
)

// Module is an Fx module that provides fallback metrics components.
// Concrete backends (e.g. the Prometheus recorder or OpenTelemetry tracer in
// the infrastructure layer) take precedence when provided.
var Module = fx.Options(
	fx.Provide(fx.Annotate(
		NewNoOpMetricRecorder,
		fx.As(new(MetricRecorder)),
	)),
	fx.Provide(fx.Annotate(
		NewNoOpTracer,
		fx.As(new(Tracer)),
	)),
)
