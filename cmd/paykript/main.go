package main

import (
	"os"

	"github.com/spf13/cobra"

	"paykript/internal/interfaces/cli/migrate"
	"paykript/internal/interfaces/cli/server"
	"paykript/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "paykript",
		Short:   "PayKript - a TRON USDT payment gateway",
		Long:    `PayKript watches merchant deposit addresses on TRON, confirms incoming USDT transfers, and delivers signed webhooks.`,
		Version: version.Current,
	}

	// Enable -v as short flag for --version
	rootCmd.Flags().BoolP("version", "v", false, "version for paykript")

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
