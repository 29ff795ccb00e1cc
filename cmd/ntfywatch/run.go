package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/ntfywatch/api"
	"github.com/kbukum/ntfywatch/bootstrap"
	"github.com/kbukum/ntfywatch/component"
	"github.com/kbukum/ntfywatch/httpclient"
	"github.com/kbukum/ntfywatch/logger"
	"github.com/kbukum/ntfywatch/notify"
	"github.com/kbukum/ntfywatch/observability"
	"github.com/kbukum/ntfywatch/resilience"
	"github.com/kbukum/ntfywatch/server"
	"github.com/kbukum/ntfywatch/sse"
	"github.com/kbukum/ntfywatch/subscription"
)

const eventsPath = "/api/v1/events"

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start watching the configured topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			app, err := buildApp(cfg)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}
}

// buildApp wires every component. Registration order is start order:
// observability, event hub, subscriptions, then the HTTP server. Shutdown
// runs in reverse, so the server stops taking requests before the registry
// closes.
func buildApp(cfg *Config, opts ...bootstrap.Option) (*bootstrap.App[*Config], error) {
	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}

	obs := observability.NewComponent(cfg.Observability, cfg.Name, cfg.Version, cfg.Environment)
	metrics, err := observability.NewSubscriptionMetrics(observability.Meter(serviceName + "/subscription"))
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	events := sse.NewComponent(eventsPath)

	client, err := httpclient.New(cfg.Ntfy.ClientConfig())
	if err != nil {
		return nil, fmt.Errorf("ntfy client: %w", err)
	}
	dispatcher := subscription.NewDispatcher(
		notify.New(cfg.Notify),
		events.Emitter(),
		subscription.WithBrokerLabel(cfg.Ntfy.BrokerLabel),
		subscription.WithDispatchMetrics(metrics),
	)
	registry := subscription.NewRegistry(client, dispatcher,
		subscription.WithBackoff(resilience.NewFixedBackoff(cfg.Ntfy.Backoff)),
		subscription.WithMetrics(metrics),
	)

	for _, c := range []component.Component{obs, events, subscription.NewComponent(registry, cfg.Ntfy.Subscriptions)} {
		if err := app.RegisterComponent(c); err != nil {
			return nil, err
		}
	}

	if cfg.Server.Enabled {
		srv := server.New(cfg.Server, app.Logger)
		srv.ApplyDefaults(cfg.Name, app.Components.HealthAll)
		api.NewHandler(registry, events.Hub()).Register(srv.GinEngine())
		if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
			return nil, err
		}
	}

	app.OnReady(func(context.Context) error {
		// Without topics or a control API nothing could ever be subscribed.
		if registry.Len() == 0 && !cfg.Server.Enabled {
			return errNothingToWatch
		}
		app.Logger.Info("watching", logger.Fields("subscriptions", registry.Len(), "api", cfg.Server.Enabled))
		return nil
	})
	app.OnStop(func(context.Context) error {
		app.Logger.Info("releasing subscriptions", logger.Fields("active", registry.Len()))
		return nil
	})
	return app, nil
}

var errNothingToWatch = errors.New("no subscriptions configured and the control API is disabled")
