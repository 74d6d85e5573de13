package main

import (
	"fmt"
	"os"

	"github.com/codybmenefee/custodian-integration-tool/bootstrap"
	"github.com/codybmenefee/custodian-integration-tool/config"
	"github.com/spf13/cobra"
)

var (
	hotReload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the custodian API server.

The server will:
  - Load configuration from custodian.yaml (or --config)
  - Or load configuration from CUSTODIAN_* environment variables
  - Connect to the database and run migrations
  - Serve the schema, comparison, import/export, and document APIs

Environment variables (for Docker deployments):
  CUSTODIAN_DATABASE_DSN       - Database path (default: custodian.db)
  CUSTODIAN_SERVER_PORT        - Server port (default: 8080)
  CUSTODIAN_AUTH_JWT_SECRET    - JWT signing secret
  CUSTODIAN_LOG_LEVEL          - Log level: debug, info, warn, error
  CUSTODIAN_BOOTSTRAP_EMAIL    - Initial account email for first run
  CUSTODIAN_BOOTSTRAP_PASSWORD - Initial account password for first run

Examples:
  custodian serve
  custodian serve --config /etc/custodian/config.yaml
  custodian serve --hot-reload=false`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true, "enable hot reload of configuration")
}

func runServe(cmd *cobra.Command, args []string) error {
	hasConfigFile := false
	if _, err := os.Stat(cfgFile); err == nil {
		hasConfigFile = true
	}

	if !hasConfigFile && !config.HasEnvConfig() {
		fmt.Println("No configuration found, starting with defaults.")
		fmt.Println()
		fmt.Printf("Run 'custodian init' to create %s, or set CUSTODIAN_* variables.\n", cfgFile)
		fmt.Println()
	}

	opts := bootstrap.Options{WatchConfig: hotReload}
	if hasConfigFile {
		opts.ConfigPath = cfgFile
	}

	app, err := bootstrap.New(opts)
	if err != nil {
		return err
	}
	return app.Run()
}
