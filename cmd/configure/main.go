package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brainindex/brainindex-api/cmd/configure/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "brainindex-configure",
		Short: "Configuration tool for the Brain Index API",
		Long:  "CLI tool for configuring OIDC providers, CORS, rate limits, roles and maintenance tasks",
	}

	rootCmd.AddCommand(commands.NewOIDCCmd())
	rootCmd.AddCommand(commands.NewListCmd())
	rootCmd.AddCommand(commands.NewCorsCmd())
	rootCmd.AddCommand(commands.NewRatelimitCmd())
	rootCmd.AddCommand(commands.NewRolesCmd())
	rootCmd.AddCommand(commands.NewCacheCmd())
	rootCmd.AddCommand(commands.NewWeeklySummaryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
