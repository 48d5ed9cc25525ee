package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "embed"

	"go.uber.org/fx"

	jsl "github.com/tigerroll/riptide/pkg/batch/core/config/jsl"
	support "github.com/tigerroll/riptide/pkg/batch/core/config/support"
	logger "github.com/tigerroll/riptide/pkg/batch/support/util/logger"
)

// embeddedConfig holds the application YAML configuration.
//
//go:embed resources/application.yaml
var embeddedConfig []byte

// embeddedJSL holds the job definition.
//
//go:embed resources/job.yaml
var embeddedJSL []byte

// startJobExecution is an Fx hook that runs the embedded job once and then
// requests application shutdown.
func startJobExecution(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	factory *support.JobFactory,
	jslBytes jsl.JSLDefinitionBytes,
	appCtx context.Context,
) {
	lc.Append(fx.Hook{
		OnStart: onStartJobExecution(factory, jslBytes, shutdowner, appCtx),
		OnStop:  onStopApplication(),
	})
}

// onStartJobExecution launches the job in a goroutine so Fx startup is not
// blocked, and shuts the application down once the job finishes.
func onStartJobExecution(
	factory *support.JobFactory,
	jslBytes jsl.JSLDefinitionBytes,
	shutdowner fx.Shutdowner,
	appCtx context.Context,
) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Errorf("Panic recovered in job execution: %v", r)
				}
				logger.Infof("Requesting application shutdown after job completion.")

				if err := shutdowner.Shutdown(); err != nil {
					logger.Errorf("Failed to shutdown application: %v", err)
				}
			}()

			jobDef, err := jsl.LoadJobDefinitionFromBytes(jslBytes)
			if err != nil {
				logger.Errorf("Failed to load job definition: %v", err)
				return
			}

			batchJob, err := factory.CreateJob(jobDef)
			if err != nil {
				logger.Errorf("Failed to assemble job '%s': %v", jobDef.Name, err)
				return
			}

			logger.Infof("Starting job '%s'...", jobDef.Name)
			execution, err := batchJob.Run(appCtx)
			if err != nil {
				logger.Errorf("Job '%s' failed: %v", jobDef.Name, err)
				for _, stepDef := range jobDef.Steps {
					if stepExecution, ok := batchJob.StepExecution(stepDef.ID); ok {
						logger.Infof("Step '%s' ended with status %s (read=%d, write=%d, errors=%d)",
							stepExecution.StepName, stepExecution.Status,
							stepExecution.ReadCount, stepExecution.WriteCount, stepExecution.TotalErrorCount())
					}
				}
				return
			}
			logger.Infof("Job '%s' completed successfully in %v.", execution.JobName, execution.Duration)
		}()
		return nil
	}
}

// onStopApplication logs the application shutdown.
func onStopApplication() func(ctx context.Context) error {
	return func(ctx context.Context) error {
		logger.Infof("Application is shutting down.")
		return nil
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Warnf("Received signal '%v'. Attempting to stop the job...", sig)
		cancel()
	}()

	envFilePath := os.Getenv("ENV_FILE_PATH")
	if envFilePath == "" {
		envFilePath = ".env"
	}

	fxApp := fx.New(GetApplicationOptions(ctx, envFilePath, embeddedConfig, embeddedJSL)...)
	fxApp.Run()
	if fxApp.Err() != nil {
		logger.Fatalf("Application run failed: %v", fxApp.Err())
	}
	os.Exit(0)
}
