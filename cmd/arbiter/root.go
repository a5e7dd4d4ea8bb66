package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "arbiter",
	Short: "Arbiter - admission-control and forensic-accounting runtime",
	Long: `Arbiter scores inbound requests against a weighted policy vector and
enforces the consequences: requests that diverge from the vector incur
tiered fee mandates, chargeable events land in a hash-chained royalty
ledger with underreporting detection, and the fee escalation clock is
guarded against local clock tampering through external time sources.

Privileged operations (audit export, grace resets, critical upgrades)
require authority signatures checked against configured keys.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "arbiter.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
