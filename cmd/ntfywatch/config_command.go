package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

//go:embed config.yml
var sampleConfig []byte

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load, default and validate the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg.ApplyDefaults()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration invalid: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Configuration valid")
			fmt.Fprintf(out, "  environment:   %s\n", cfg.Environment)
			fmt.Fprintf(out, "  subscriptions: %d\n", len(cfg.Ntfy.Subscriptions))
			for _, t := range cfg.Ntfy.Subscriptions {
				fmt.Fprintf(out, "    - %s/%s\n", strings.TrimRight(t.Server, "/"), t.Topic)
			}
			fmt.Fprintf(out, "  backoff:       %s\n", cfg.Ntfy.Backoff)
			fmt.Fprintf(out, "  notifications: %t\n", cfg.Notify.Enabled)
			if cfg.Server.Enabled {
				fmt.Fprintf(out, "  control api:   %s\n", cfg.Server.Address())
			} else {
				fmt.Fprintln(out, "  control api:   disabled")
			}
			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				dir, err := os.UserConfigDir()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = filepath.Join(dir, serviceName, "config.yml")
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := os.WriteFile(target, sampleConfig, 0o644); err != nil {
				return fmt.Errorf("write sample config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing file")
	return cmd
}
