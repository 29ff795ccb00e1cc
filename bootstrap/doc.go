// Package bootstrap runs an ntfywatch process: it applies config defaults,
// validates, initializes the logger, starts registered components in order,
// waits for SIGINT or SIGTERM and stops components in reverse order within a
// graceful timeout.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(hubComponent)
//	app.RegisterComponent(subscriptionComponent)
//	app.OnReady(func(ctx context.Context) error {
//	    app.Logger.Info("watching")
//	    return nil
//	})
//	err = app.Run(ctx)
package bootstrap
