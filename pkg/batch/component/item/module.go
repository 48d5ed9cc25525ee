// Package item provides generic item components for chunk-oriented steps:
// an in-memory slice reader, a pass-through processor, a collecting writer
// and no-op reader/writer variants.
package item

import (
	"go.uber.org/fx"

	config "github.com/tigerroll/riptide/pkg/batch/core/config"
	support "github.com/tigerroll/riptide/pkg/batch/core/config/support"
	"github.com/tigerroll/riptide/pkg/batch/support/util/logger"
)

// NewNoOpItemReaderComponentBuilder creates a support.ComponentBuilder for a No-Op ItemReader.
func NewNoOpItemReaderComponentBuilder() support.ComponentBuilder {
	return func(_ *config.Config, _ map[string]string) (interface{}, error) {
		return NewNoOpItemReader[any](), nil
	}
}

// NewPassThroughItemProcessorComponentBuilder creates a support.ComponentBuilder for a Pass-Through ItemProcessor.
func NewPassThroughItemProcessorComponentBuilder() support.ComponentBuilder {
	return func(_ *config.Config, _ map[string]string) (interface{}, error) {
		return NewPassThroughItemProcessor[any](), nil
	}
}

// NewNoOpItemWriterComponentBuilder creates a support.ComponentBuilder for a No-Op ItemWriter.
func NewNoOpItemWriterComponentBuilder() support.ComponentBuilder {
	return func(_ *config.Config, _ map[string]string) (interface{}, error) {
		return NewNoOpItemWriter[any](), nil
	}
}

// NewCollectingItemWriterComponentBuilder creates a support.ComponentBuilder for a CollectingItemWriter.
func NewCollectingItemWriterComponentBuilder() support.ComponentBuilder {
	return func(_ *config.Config, _ map[string]string) (interface{}, error) {
		return NewCollectingItemWriter[any](), nil
	}
}

// genericItemBuilders is a struct to receive all generic component builders from Fx.
type genericItemBuilders struct {
	fx.In
	NoOpReaderBuilder       support.ComponentBuilder `name:"noOpItemReader"`
	PassThroughProcBuilder  support.ComponentBuilder `name:"passThroughItemProcessor"`
	NoOpWriterBuilder       support.ComponentBuilder `name:"noOpItemWriter"`
	CollectingWriterBuilder support.ComponentBuilder `name:"collectingItemWriter"`
}

// RegisterGenericItemBuilders registers all generic component builders with the JobFactory.
func RegisterGenericItemBuilders(jf *support.JobFactory, builders genericItemBuilders) {
	jf.RegisterComponentBuilder("noOpItemReader", builders.NoOpReaderBuilder)
	jf.RegisterComponentBuilder("passThroughItemProcessor", builders.PassThroughProcBuilder)
	jf.RegisterComponentBuilder("noOpItemWriter", builders.NoOpWriterBuilder)
	jf.RegisterComponentBuilder("collectingItemWriter", builders.CollectingWriterBuilder)
	logger.Debugf("Generic item components (noOpItemReader, passThroughItemProcessor, noOpItemWriter, collectingItemWriter) were registered with JobFactory.")
}

// Module defines Fx options for generic item-related components provided by the framework.
var Module = fx.Options(
	fx.Provide(fx.Annotate(
		NewNoOpItemReaderComponentBuilder,
		fx.ResultTags(`name:"noOpItemReader"`),
	)),
	fx.Provide(fx.Annotate(
		NewPassThroughItemProcessorComponentBuilder,
		fx.ResultTags(`name:"passThroughItemProcessor"`),
	)),
	fx.Provide(fx.Annotate(
		NewNoOpItemWriterComponentBuilder,
		fx.ResultTags(`name:"noOpItemWriter"`),
	)),
	fx.Provide(fx.Annotate(
		NewCollectingItemWriterComponentBuilder,
		fx.ResultTags(`name:"collectingItemWriter"`),
	)),
	fx.Invoke(RegisterGenericItemBuilders),
)
