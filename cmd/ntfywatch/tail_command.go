package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbukum/ntfywatch/httpclient"
)

func newTailCommand(ctx *commandContext) *cobra.Command {
	var addr string
	var filter string

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print UI events from a running watcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				cfg.Server.ApplyDefaults()
				addr = cfg.Server.Address()
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return tailEvents(runCtx, "http://"+addr+eventsPath, filter, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Control API address host:port (defaults to server.host:server.port)")
	cmd.Flags().StringVar(&filter, "filter", "", "Glob over event channels, e.g. new-message")
	return cmd
}

// tailEvents copies events from the stream at url to out until the stream
// ends or ctx is canceled.
func tailEvents(ctx context.Context, url, filter string, out io.Writer) error {
	cfg := httpclient.Config{}
	cfg.ApplyDefaults()
	client, err := httpclient.New(cfg)
	if err != nil {
		return err
	}

	req := httpclient.Request{URL: url}
	if filter != "" {
		req.Query = map[string]string{"filter": filter}
	}
	resp, err := client.DoStream(ctx, req)
	if err != nil {
		if httpclient.IsCanceled(err) {
			return nil
		}
		return fmt.Errorf("connect to %s: %w", url, err)
	}
	defer resp.Close()

	for {
		ev, err := resp.Events.Next()
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read events: %w", err)
		}
		if _, err := fmt.Fprintf(out, "%s %s\n", ev.Event, ev.Data); err != nil {
			return err
		}
	}
}
