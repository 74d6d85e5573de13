package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "custodian",
	Short: "Schema versioning service for custodian data integrations",
	Long: `Custodian stores versioned data schemas, compares versions,
and imports and exports portable schema documents.

Quick start:
  custodian init      # Create a starter configuration file
  custodian serve     # Start the HTTP API server

Management:
  custodian users     # Manage user accounts
  custodian validate  # Validate configuration`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "custodian.yaml", "config file path")
}
