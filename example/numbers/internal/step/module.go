package step

import (
	"go.uber.org/fx"

	config "github.com/tigerroll/riptide/pkg/batch/core/config"
	support "github.com/tigerroll/riptide/pkg/batch/core/config/support"
	logger "github.com/tigerroll/riptide/pkg/batch/support/util/logger"
)

// NewRangeReaderBuilder creates a ComponentBuilder for the range reader.
func NewRangeReaderBuilder() support.ComponentBuilder {
	return func(_ *config.Config, properties map[string]string) (interface{}, error) {
		return NewRangeReaderFromProperties(properties)
	}
}

// NewDoubleProcessorBuilder creates a ComponentBuilder for the doubling processor.
func NewDoubleProcessorBuilder() support.ComponentBuilder {
	return func(_ *config.Config, _ map[string]string) (interface{}, error) {
		return NewDoubleProcessor(), nil
	}
}

// NewLogWriterBuilder creates a ComponentBuilder for the log writer.
func NewLogWriterBuilder() support.ComponentBuilder {
	return func(_ *config.Config, _ map[string]string) (interface{}, error) {
		return NewLogWriter(), nil
	}
}

// NewReportTaskletBuilder creates a ComponentBuilder for the report tasklet.
func NewReportTaskletBuilder() support.ComponentBuilder {
	return func(_ *config.Config, _ map[string]string) (interface{}, error) {
		return NewReportTasklet(), nil
	}
}

// numbersBuilders is a struct to receive the example's component builders from Fx.
type numbersBuilders struct {
	fx.In
	RangeReaderBuilder     support.ComponentBuilder `name:"rangeReader"`
	DoubleProcessorBuilder support.ComponentBuilder `name:"doubleProcessor"`
	LogWriterBuilder       support.ComponentBuilder `name:"logWriter"`
	ReportTaskletBuilder   support.ComponentBuilder `name:"reportTasklet"`
}

// RegisterNumbersBuilders registers the example's component builders with the JobFactory.
func RegisterNumbersBuilders(jf *support.JobFactory, builders numbersBuilders) {
	jf.RegisterComponentBuilder("rangeReader", builders.RangeReaderBuilder)
	jf.RegisterComponentBuilder("doubleProcessor", builders.DoubleProcessorBuilder)
	jf.RegisterComponentBuilder("logWriter", builders.LogWriterBuilder)
	jf.RegisterComponentBuilder("reportTasklet", builders.ReportTaskletBuilder)
	logger.Debugf("Numbers example components registered with JobFactory.")
}

// Module provides the example's components to the JobFactory.
var Module = fx.Options(
	fx.Provide(fx.Annotate(NewRangeReaderBuilder, fx.ResultTags(`name:"rangeReader"`))),
	fx.Provide(fx.Annotate(NewDoubleProcessorBuilder, fx.ResultTags(`name:"doubleProcessor"`))),
	fx.Provide(fx.Annotate(NewLogWriterBuilder, fx.ResultTags(`name:"logWriter"`))),
	fx.Provide(fx.Annotate(NewReportTaskletBuilder, fx.ResultTags(`name:"reportTasklet"`))),
	fx.Invoke(RegisterNumbersBuilders),
)
