// Package main provides the entry point for the fisight CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fisight/fisight/cmd/fisight/commands"
	"github.com/fisight/fisight/pkg/version"
)

func main() {
	globals := &commands.Globals{}

	rootCmd := &cobra.Command{
		Use:   "fisight",
		Short: "Fisight Financial Statement Analysis - market share and composition over FISIS data",
		Long: `Fisight analyzes financial statement figures fetched from the FSS FISIS OpenAPI.

Commands:
  fetch     Fetch statement facts into the local cache
  level     Show statement composition at a hierarchy level
  shares    Rank market shares across the configured market
  overlay   Evaluate overlay expressions across statements`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globals.ConfigPath, "config", "c", "", "config file path (default: .fisight.yaml in CWD or $HOME)")
	rootCmd.PersistentFlags().BoolVarP(&globals.Verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&globals.Quiet, "quiet", "q", false, "suppress output")

	// Add commands.
	rootCmd.AddCommand(commands.NewFetchCommand(globals))
	rootCmd.AddCommand(commands.NewLevelCommand(globals))
	rootCmd.AddCommand(commands.NewSharesCommand(globals))
	rootCmd.AddCommand(commands.NewOverlayCommand(globals))
	rootCmd.AddCommand(commands.NewConfigCommand(globals))
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "fisight %s\n", version.String())
		},
	}
}
