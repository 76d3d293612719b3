// Package main provides the entry point for the erlfang CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/erlfang/cmd/erlfang/commands"
	"github.com/Sumatoshi-tech/erlfang/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	err := newRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "erlfang",
		Short: "erlfang - Erlang source metrics and checks",
		Long: `erlfang parses Erlang sources, builds a project/package/file/module/function
index with aggregated metrics, and runs coding-rule checks against it.

Commands:
  scan      Scan sources and render the metrics and issues
  parse     Print the syntax tree of one file
  rules     List the available checks`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewScanCommand())
	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewRulesCommand())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "erlfang %s\n", version.String())
		},
	}
}
