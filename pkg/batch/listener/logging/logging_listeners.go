// Package logging provides listener implementations that report job, step and
// skip events through the engine's logger.
package logging

import (
	"context"

	port "github.com/tigerroll/riptide/pkg/batch/core/application/port"
	model "github.com/tigerroll/riptide/pkg/batch/core/domain/model"
	logger "github.com/tigerroll/riptide/pkg/batch/support/util/logger"
)

// --- Job Execution Listener ---

type LoggingJobListener struct{}

func NewLoggingJobListener() port.JobExecutionListener {
	return &LoggingJobListener{}
}

func (l *LoggingJobListener) BeforeJob(ctx context.Context, jobName string) {
	logger.Infof("JobExecutionListener: BeforeJob - JobName: %s", jobName)
}

func (l *LoggingJobListener) AfterJob(ctx context.Context, jobName string, err error) {
	if err != nil {
		logger.Errorf("JobExecutionListener: AfterJob - JobName: %s, Error: %v", jobName, err)
		return
	}
	logger.Infof("JobExecutionListener: AfterJob - JobName: %s, completed successfully", jobName)
}

var _ port.JobExecutionListener = (*LoggingJobListener)(nil)

// --- Step Execution Listener ---

type LoggingStepListener struct{}

func NewLoggingStepListener() port.StepExecutionListener {
	return &LoggingStepListener{}
}

func (l *LoggingStepListener) BeforeStep(ctx context.Context, stepExecution *model.StepExecution) {
	logger.Infof("StepExecutionListener: BeforeStep - StepName: %s, ID: %s", stepExecution.StepName, stepExecution.ID)
}

func (l *LoggingStepListener) AfterStep(ctx context.Context, stepExecution *model.StepExecution) {
	logger.Infof("StepExecutionListener: AfterStep - StepName: %s, Status: %s, Read: %d, Write: %d, Errors: %d",
		stepExecution.StepName, stepExecution.Status, stepExecution.ReadCount, stepExecution.WriteCount, stepExecution.TotalErrorCount())
}

var _ port.StepExecutionListener = (*LoggingStepListener)(nil)

// --- Skip Listener ---

type LoggingSkipListener struct{}

func NewLoggingSkipListener() port.SkipListener {
	return &LoggingSkipListener{}
}

func (l *LoggingSkipListener) OnSkipRead(ctx context.Context, err error) {
	logger.Warnf("SkipListener: OnSkipRead - Skipping item due to error: %v", err)
}

func (l *LoggingSkipListener) OnSkipProcess(ctx context.Context, item interface{}, err error) {
	logger.Warnf("SkipListener: OnSkipProcess - Skipping item: %+v, Error: %v", item, err)
}

func (l *LoggingSkipListener) OnSkipWrite(ctx context.Context, items interface{}, err error) {
	logger.Warnf("SkipListener: OnSkipWrite - Skipping batch: %+v, Error: %v", items, err)
}

var _ port.SkipListener = (*LoggingSkipListener)(nil)
