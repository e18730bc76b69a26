package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/funaging/themestudio/internal/gateway"
)

type rootFlags struct {
	gateway gateway.Config
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{gateway: gateway.DefaultConfig()}

	cmd := &cobra.Command{
		Use:           "themectl",
		Short:         "Inspect and manage themes on a themestudio server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.gateway.BaseURL, "base-url", flags.gateway.BaseURL, "Theme API root including /api/v1")
	cmd.PersistentFlags().DurationVar(&flags.gateway.Timeout, "timeout", flags.gateway.Timeout, "Per-request timeout")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log API calls to stderr")

	cmd.AddCommand(newActiveCmd(flags))
	cmd.AddCommand(newListCmd(flags, false))
	cmd.AddCommand(newListCmd(flags, true))
	cmd.AddCommand(newApplyCmd(flags))
	cmd.AddCommand(newExportCmd(flags))
	cmd.AddCommand(newImportCmd(flags))
	cmd.AddCommand(newCSSCmd(flags))
	cmd.AddCommand(newEditCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func (f *rootFlags) logger() (*zap.Logger, error) {
	if !f.verbose {
		return zap.NewNop(), nil
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return logger.Named("themectl"), nil
}

func (f *rootFlags) client() (*gateway.Client, error) {
	logger, err := f.logger()
	if err != nil {
		return nil, err
	}
	return gateway.NewClient(f.gateway, logger.Named("gateway")), nil
}
