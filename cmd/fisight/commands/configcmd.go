package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fisight/fisight/internal/config"
)

// defaultStarterPath is where config init writes when no path is given.
const defaultStarterPath = ".fisight.yaml"

// NewConfigCommand creates the config command group.
func NewConfigCommand(globals *Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the fisight configuration",
	}

	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigShowCommand(globals))

	return cmd
}

func newConfigInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultStarterPath
			if len(args) > 0 {
				path = args[0]
			}

			if err := config.WriteStarter(path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)

			return nil
		},
	}
}

func newConfigShowCommand(globals *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(globals.ConfigPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "lists:    %v\n", cfg.Data.ListNos)
			fmt.Fprintf(out, "term:     %s\n", cfg.Data.Term)
			fmt.Fprintf(out, "range:    %s .. %s\n", cfg.Data.StartMonth, cfg.Data.EndMonth)
			fmt.Fprintf(out, "column:   %s\n", cfg.Data.ColumnID)
			fmt.Fprintf(out, "targets:  %v\n", cfg.Firms.Targets)
			fmt.Fprintf(out, "market:   %v\n", cfg.Firms.Market)
			fmt.Fprintf(out, "groups:   %d\n", len(cfg.Firms.Groups))
			fmt.Fprintf(out, "overlays: %d\n", len(cfg.Views.Overlays))
			fmt.Fprintf(out, "cache:    %s\n", cfg.Cache.Dir)

			return nil
		},
	}
}
