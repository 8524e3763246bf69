package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cleanviews",
		Short: "Extensionless URL routing for view templates",
		Long: `cleanviews serves directories of view templates under clean,
extensionless URLs.

Templates placed in WEB-INF/faces-views/ are routed with zero
configuration; additional scan roots, exclusions, and MultiViews
path parameters come from the scan-paths syntax:

  /*.xhtml        scan everything under / with the .xhtml extension
  /foo/*.xhtml/*  scan /foo for .xhtml files, with MultiViews enabled
  !/legacy        exclude everything under /legacy`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		scanCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}
