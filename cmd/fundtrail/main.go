package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/fundtrail/internal/interfaces/cli/migrate"
	"github.com/orris-inc/fundtrail/internal/interfaces/cli/server"
	"github.com/orris-inc/fundtrail/internal/interfaces/cli/summary"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fundtrail",
		Short: "Fundtrail - settlement and allocation ledger",
		Long:  `Fundtrail records donations settled on the ledger network, allocates them to projects and reconciles both views.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		summary.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
