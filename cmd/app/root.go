package main

import (
	"context"
	"io"

	"limitup_go/internal/app"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "configs/config.yaml"

// execute runs the CLI with args and logs a metrics snapshot when done,
// whether the command succeeded or not.
func execute(ctx context.Context, args []string, out io.Writer) error {
	bootstrap := app.NewBootstrap()
	root := newRootCmd(bootstrap)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)

	err := root.ExecuteContext(ctx)
	bootstrap.LogMetrics()
	return err
}

func newRootCmd(bootstrap *app.Bootstrap) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "limitup",
		Short:         "A-share limit-up price calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return bootstrap.Initialize(configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "path to YAML config")

	root.AddCommand(segmentsCmd())
	root.AddCommand(quoteCmd(bootstrap))
	return root
}
