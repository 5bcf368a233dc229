package main

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/xlog"
)

// runner is a command body, it owns no resource beyond the logger.
type runner func(ctx context.Context, logger xlog.XLogger, cfg *config) error

func newXLogger(cfg *config) xlog.XLogger {
	enc := xlog.JSON
	if cfg.logFormat == "text" {
		enc = xlog.PlainText
	}
	return xlog.NewXLogger(
		xlog.WithXLoggerLevelName(cfg.logLevel),
		xlog.WithXLoggerEncoder(enc),
	)
}

func newFxOptions(cfg *config, run runner, logger *xlog.XLogger, runErr *error) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(newXLogger),
		fx.Populate(logger),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Invoke(func(lc fx.Lifecycle, logger xlog.XLogger, cfg *config) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					*runErr = run(ctx, logger, cfg)
					return nil
				},
				OnStop: func(ctx context.Context) error {
					// Syncing a terminal stdout may fail with EINVAL.
					_ = logger.Sync()
					return nil
				},
			})
		}),
	)
}

// runWithFx runs the command body inside the start hook, so the timeout
// flag bounds it through the start context.
func runWithFx(cfg *config, run runner) error {
	var (
		logger xlog.XLogger
		runErr error
	)
	app := fx.New(
		newFxOptions(cfg, run, &logger, &runErr),
		fx.StartTimeout(cfg.timeout),
	)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), cfg.timeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		logger.Error(err, "fx application start failed")
		return err
	}
	if err := app.Stop(context.Background()); err != nil {
		logger.Warn("fx application stop failed", zap.Error(err))
	}
	return runErr
}
