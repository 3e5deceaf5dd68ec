// Package bootstrap runs a vpgbench command with a uniform lifecycle.
//
// NewApp applies config defaults, validates, and initializes logging.
// RunTask then sets up telemetry, runs the start hooks, prints the startup
// summary, and executes the task with a context that SIGINT and SIGTERM
// cancel. Stop hooks and the telemetry shutdown run afterwards whatever the
// task returned.
//
//	app, err := bootstrap.NewApp(&cfg, bootstrap.WithTelemetry(cfg.Observability))
//	if err != nil {
//	    return err
//	}
//	return app.RunTask(ctx, func(ctx context.Context) error {
//	    return runner.RunAll(ctx, cases)
//	})
package bootstrap
