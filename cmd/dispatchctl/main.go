package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"maverick/dispatch/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dispatchctl",
		Short: "Operator tooling for the sortie dispatch service",
		Long: `dispatchctl talks to the dispatch database directly, using the same
environment configuration as the server (DB_DRIVER, PG_*, SQLITE_PATH, REDIS_*).`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cli.MigrateCmd())
	rootCmd.AddCommand(cli.IngestCmd())
	rootCmd.AddCommand(cli.AnnotateCmd())
	rootCmd.AddCommand(cli.LatestCmd())
	rootCmd.AddCommand(cli.TokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
