package main

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	numbersstep "github.com/tigerroll/riptide/example/numbers/internal/step"
	item "github.com/tigerroll/riptide/pkg/batch/component/item"
	config "github.com/tigerroll/riptide/pkg/batch/core/config"
	jsl "github.com/tigerroll/riptide/pkg/batch/core/config/jsl"
	supportConfig "github.com/tigerroll/riptide/pkg/batch/core/config/support"
	inframetrics "github.com/tigerroll/riptide/pkg/batch/infrastructure/metrics"
	logginglistener "github.com/tigerroll/riptide/pkg/batch/listener/logging"
	logger "github.com/tigerroll/riptide/pkg/batch/support/util/logger"
)

// GetApplicationOptions builds the uber-fx options for the numbers example.
func GetApplicationOptions(appCtx context.Context, envFilePath string, embeddedConfig config.EmbeddedConfig, embeddedJSL jsl.JSLDefinitionBytes) []fx.Option {
	cfg, err := config.LoadConfig(envFilePath, embeddedConfig)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	logger.SetLogLevel(cfg.Riptide.System.Logging.Level)
	logger.Infof("Log level set to: %s", cfg.Riptide.System.Logging.Level)

	var options []fx.Option

	options = append(options, fx.Supply(
		embeddedConfig,
		embeddedJSL,
		fx.Annotate(envFilePath, fx.ResultTags(`name:"envFilePath"`)),
		cfg,
		fx.Annotate(appCtx, fx.As(new(context.Context)), fx.ResultTags(`name:"appCtx"`)),
	))
	options = append(options, logger.Module)
	options = append(options, fx.Provide(func() trace.TracerProvider { return otel.GetTracerProvider() }))
	options = append(options, inframetrics.Module)
	options = append(options, supportConfig.Module)
	options = append(options, item.Module)
	options = append(options, logginglistener.Module)
	options = append(options, numbersstep.Module)
	options = append(options, fx.Invoke(fx.Annotate(startJobExecution, fx.ParamTags("", "", "", "", `name:"appCtx"`))))

	return options
}
