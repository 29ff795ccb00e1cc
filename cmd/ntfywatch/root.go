package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Watch ntfy topics and raise desktop notifications",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newTailCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
