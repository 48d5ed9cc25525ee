package logging

import (
	"go.uber.org/fx"

	config "github.com/tigerroll/riptide/pkg/batch/core/config"
	support "github.com/tigerroll/riptide/pkg/batch/core/config/support"
	"github.com/tigerroll/riptide/pkg/batch/support/util/logger"
)

// NewLoggingJobListenerBuilder creates a ComponentBuilder for LoggingJobListener.
func NewLoggingJobListenerBuilder() support.ComponentBuilder {
	return func(_ *config.Config, _ map[string]string) (interface{}, error) {
		return NewLoggingJobListener(), nil
	}
}

// NewLoggingStepListenerBuilder creates a ComponentBuilder for LoggingStepListener.
func NewLoggingStepListenerBuilder() support.ComponentBuilder {
	return func(_ *config.Config, _ map[string]string) (interface{}, error) {
		return NewLoggingStepListener(), nil
	}
}

// NewLoggingSkipListenerBuilder creates a ComponentBuilder for LoggingSkipListener.
func NewLoggingSkipListenerBuilder() support.ComponentBuilder {
	return func(_ *config.Config, _ map[string]string) (interface{}, error) {
		return NewLoggingSkipListener(), nil
	}
}

// allListenerBuilders is a struct to receive all listener builders from Fx.
type allListenerBuilders struct {
	fx.In
	JobListenerBuilder  support.ComponentBuilder `name:"loggingJobListener"`
	StepListenerBuilder support.ComponentBuilder `name:"loggingStepListener"`
	SkipListenerBuilder support.ComponentBuilder `name:"loggingSkipListener"`
}

// RegisterAllListeners registers all logging listener builders with the JobFactory.
func RegisterAllListeners(jf *support.JobFactory, builders allListenerBuilders) {
	jf.RegisterComponentBuilder("loggingJobListener", builders.JobListenerBuilder)
	jf.RegisterComponentBuilder("loggingStepListener", builders.StepListenerBuilder)
	jf.RegisterComponentBuilder("loggingSkipListener", builders.SkipListenerBuilder)
	logger.Debugf("All logging listeners registered with JobFactory.")
}

// Module aggregates all listener components provided by this package.
var Module = fx.Options(
	fx.Provide(fx.Annotate(NewLoggingJobListenerBuilder, fx.ResultTags(`name:"loggingJobListener"`))),
	fx.Provide(fx.Annotate(NewLoggingStepListenerBuilder, fx.ResultTags(`name:"loggingStepListener"`))),
	fx.Provide(fx.Annotate(NewLoggingSkipListenerBuilder, fx.ResultTags(`name:"loggingSkipListener"`))),

	fx.Invoke(RegisterAllListeners),
)
