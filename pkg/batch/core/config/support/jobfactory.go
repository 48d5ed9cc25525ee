// Package support assembles runnable jobs from JSL definitions. Components
// (readers, processors, writers, tasklets, listeners) are registered under
// stable handles and instantiated on demand when a job is created.
package support

import (
	"fmt"

	port "github.com/tigerroll/riptide/pkg/batch/core/application/port"
	config "github.com/tigerroll/riptide/pkg/batch/core/config"
	jsl "github.com/tigerroll/riptide/pkg/batch/core/config/jsl"
	job "github.com/tigerroll/riptide/pkg/batch/core/job"
	metrics "github.com/tigerroll/riptide/pkg/batch/core/metrics"
	"github.com/tigerroll/riptide/pkg/batch/engine/step/item"
	"github.com/tigerroll/riptide/pkg/batch/engine/step/skip"
	"github.com/tigerroll/riptide/pkg/batch/engine/step/tasklet"
	exception "github.com/tigerroll/riptide/pkg/batch/support/util/exception"
	logger "github.com/tigerroll/riptide/pkg/batch/support/util/logger"
)

const moduleName = "job_factory"

// ComponentBuilder constructs a component instance from the application
// configuration and the property bag of the referencing JSL element.
type ComponentBuilder func(cfg *config.Config, properties map[string]string) (interface{}, error)

// JobFactory builds runnable jobs from JSL definitions using registered
// component builders.
type JobFactory struct {
	cfg               *config.Config
	componentBuilders map[string]ComponentBuilder

	metricRecorder metrics.MetricRecorder
	tracer         metrics.Tracer
}

// NewJobFactory creates a new JobFactory.
// metricRecorder and tracer may be nil; no-op implementations are substituted.
func NewJobFactory(cfg *config.Config, metricRecorder metrics.MetricRecorder, tracer metrics.Tracer) *JobFactory {
	if metricRecorder == nil {
		metricRecorder = metrics.NewNoOpMetricRecorder()
	}
	if tracer == nil {
		tracer = metrics.NewNoOpTracer()
	}
	return &JobFactory{
		cfg:               cfg,
		componentBuilders: make(map[string]ComponentBuilder),
		metricRecorder:    metricRecorder,
		tracer:            tracer,
	}
}

// RegisterComponentBuilder registers a builder under the given handle.
// A later registration under the same handle replaces the earlier one.
func (f *JobFactory) RegisterComponentBuilder(name string, builder ComponentBuilder) {
	if _, exists := f.componentBuilders[name]; exists {
		logger.Warnf("JobFactory: component builder '%s' is being replaced.", name)
	}
	f.componentBuilders[name] = builder
	logger.Debugf("JobFactory: component builder '%s' registered.", name)
}

// buildComponent instantiates the component the given ref points at.
func (f *JobFactory) buildComponent(ref jsl.ComponentRef) (interface{}, error) {
	builder, ok := f.componentBuilders[ref.Ref]
	if !ok {
		return nil, exception.NewBatchErrorf(moduleName, "component '%s' is not registered", ref.Ref)
	}
	component, err := builder(f.cfg, ref.Properties)
	if err != nil {
		return nil, exception.NewBatchError(moduleName, fmt.Sprintf("failed to build component '%s'", ref.Ref), err)
	}
	return component, nil
}

// CreateJob assembles a runnable Job from the given JSL definition.
func (f *JobFactory) CreateJob(jobDef jsl.Job) (*job.Job, error) {
	steps := make([]port.Step, 0, len(jobDef.Steps))
	for _, stepDef := range jobDef.Steps {
		var (
			step port.Step
			err  error
		)
		if stepDef.IsTasklet() {
			step, err = f.createTaskletStep(stepDef)
		} else {
			step, err = f.createChunkStep(stepDef)
		}
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}

	jobListeners, err := f.buildJobListeners(jobDef)
	if err != nil {
		return nil, err
	}

	return job.NewJob(jobDef.Name, steps, jobListeners, f.metricRecorder, f.tracer)
}

// createChunkStep builds a chunk-oriented step from its JSL definition.
// Components from the registry are untyped, so the step is assembled with
// interface{} item types.
func (f *JobFactory) createChunkStep(stepDef jsl.Step) (port.Step, error) {
	readerComponent, err := f.buildComponent(stepDef.Reader)
	if err != nil {
		return nil, err
	}
	reader, ok := readerComponent.(port.ItemReader[any])
	if !ok {
		return nil, exception.NewBatchErrorf(moduleName, "step '%s': component '%s' is not an ItemReader", stepDef.ID, stepDef.Reader.Ref)
	}

	var processor port.ItemProcessor[any, any]
	if stepDef.Processor.Ref != "" {
		processorComponent, err := f.buildComponent(stepDef.Processor)
		if err != nil {
			return nil, err
		}
		processor, ok = processorComponent.(port.ItemProcessor[any, any])
		if !ok {
			return nil, exception.NewBatchErrorf(moduleName, "step '%s': component '%s' is not an ItemProcessor", stepDef.ID, stepDef.Processor.Ref)
		}
	}

	writerComponent, err := f.buildComponent(stepDef.Writer)
	if err != nil {
		return nil, err
	}
	writer, ok := writerComponent.(port.ItemWriter[any])
	if !ok {
		return nil, exception.NewBatchErrorf(moduleName, "step '%s': component '%s' is not an ItemWriter", stepDef.ID, stepDef.Writer.Ref)
	}

	chunkSize := f.cfg.Riptide.Batch.ChunkSize
	skipLimit := f.cfg.Riptide.Batch.SkipLimit
	if stepDef.Chunk != nil {
		if stepDef.Chunk.ItemCount > 0 {
			chunkSize = stepDef.Chunk.ItemCount
		}
		if stepDef.Chunk.SkipLimit > 0 {
			skipLimit = stepDef.Chunk.SkipLimit
		}
	}

	policy, err := skip.NewLimitPolicy(skipLimit)
	if err != nil {
		return nil, err
	}

	stepListeners, skipListeners, err := f.buildStepListeners(stepDef)
	if err != nil {
		return nil, err
	}

	return item.NewChunkStep[any, any](stepDef.ID, reader, processor, writer, chunkSize, policy,
		stepListeners, skipListeners, f.metricRecorder, f.tracer)
}

// createTaskletStep builds a tasklet-oriented step from its JSL definition.
func (f *JobFactory) createTaskletStep(stepDef jsl.Step) (port.Step, error) {
	taskletComponent, err := f.buildComponent(stepDef.Tasklet)
	if err != nil {
		return nil, err
	}
	work, ok := taskletComponent.(port.Tasklet)
	if !ok {
		return nil, exception.NewBatchErrorf(moduleName, "step '%s': component '%s' is not a Tasklet", stepDef.ID, stepDef.Tasklet.Ref)
	}

	stepListeners, _, err := f.buildStepListeners(stepDef)
	if err != nil {
		return nil, err
	}

	return tasklet.NewTaskletStep(stepDef.ID, work, stepListeners, f.metricRecorder, f.tracer)
}

// buildStepListeners instantiates the step and skip listeners referenced by a
// step definition.
func (f *JobFactory) buildStepListeners(stepDef jsl.Step) ([]port.StepExecutionListener, []port.SkipListener, error) {
	var stepListeners []port.StepExecutionListener
	for _, ref := range stepDef.Listeners {
		component, err := f.buildComponent(ref)
		if err != nil {
			return nil, nil, err
		}
		listener, ok := component.(port.StepExecutionListener)
		if !ok {
			return nil, nil, exception.NewBatchErrorf(moduleName, "step '%s': component '%s' is not a StepExecutionListener", stepDef.ID, ref.Ref)
		}
		stepListeners = append(stepListeners, listener)
	}

	var skipListeners []port.SkipListener
	for _, ref := range stepDef.SkipListeners {
		component, err := f.buildComponent(ref)
		if err != nil {
			return nil, nil, err
		}
		listener, ok := component.(port.SkipListener)
		if !ok {
			return nil, nil, exception.NewBatchErrorf(moduleName, "step '%s': component '%s' is not a SkipListener", stepDef.ID, ref.Ref)
		}
		skipListeners = append(skipListeners, listener)
	}
	return stepListeners, skipListeners, nil
}

// buildJobListeners instantiates the job listeners referenced by a job
// definition.
func (f *JobFactory) buildJobListeners(jobDef jsl.Job) ([]port.JobExecutionListener, error) {
	var jobListeners []port.JobExecutionListener
	for _, ref := range jobDef.Listeners {
		component, err := f.buildComponent(ref)
		if err != nil {
			return nil, err
		}
		listener, ok := component.(port.JobExecutionListener)
		if !ok {
			return nil, exception.NewBatchErrorf(moduleName, "job '%s': component '%s' is not a JobExecutionListener", jobDef.ID, ref.Ref)
		}
		jobListeners = append(jobListeners, listener)
	}
	return jobListeners, nil
}
