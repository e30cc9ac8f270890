package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	client := &apiClient{}

	rootCmd := &cobra.Command{
		Use:           "exchangeledger-cli",
		Short:         "Exchange ledger CLI tool",
		Long:          `A command line interface for interacting with the exchange ledger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&client.baseURL, "url", "http://localhost:8080", "Base URL of the exchange ledger API")
	rootCmd.PersistentFlags().DurationVar(&client.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&client.actor, "actor", os.Getenv("USER"), "Operator recorded on emitted events")

	rootCmd.AddCommand(
		transactionCmd(client),
		balanceCmd(client),
		earningsCmd(client),
		ledgerCmd(client),
		migrateCmd(),
	)

	return rootCmd
}
