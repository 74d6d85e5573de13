package main

import (
	"fmt"
	"os"

	"github.com/codybmenefee/custodian-integration-tool/adapters/auth"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter configuration file",
	Long: `Initialize custodian with a starter configuration file.

This will:
  1. Generate a JWT signing secret
  2. Write a commented configuration file
  3. Optionally configure a bootstrap account

Examples:
  custodian init
  custodian init --config /etc/custodian/config.yaml --admin-email ops@example.com`,
	RunE: runInit,
}

var (
	initDatabase      string
	initAdminEmail    string
	initAdminPassword string
	initForce         bool
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initDatabase, "database", "custodian.db", "database file path")
	initCmd.Flags().StringVar(&initAdminEmail, "admin-email", "", "bootstrap account email")
	initCmd.Flags().StringVar(&initAdminPassword, "admin-password", "", "bootstrap account password (generated if not provided)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfgFile); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgFile)
	}

	secret := auth.GenerateSecret()

	bootstrapSection := ""
	if initAdminEmail != "" {
		password := initAdminPassword
		if password == "" {
			password = auth.GenerateSecret()[:16]
			fmt.Printf("%s Generated bootstrap password: %s\n", checkMark, password)
		}
		bootstrapSection = fmt.Sprintf("  bootstrap_email: %s\n  bootstrap_password: %s\n", initAdminEmail, password)
	}

	content := fmt.Sprintf(`# Custodian integration service configuration.
server:
  host: 0.0.0.0
  port: 8080

database:
  driver: sqlite
  dsn: %s

auth:
  jwt_secret: %s
  token_expiry: 24h
%s
uploads:
  max_bytes: 16777216

logging:
  level: info
  format: json

metrics:
  enabled: true
`, initDatabase, secret, bootstrapSection)

	if err := os.WriteFile(cfgFile, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("%s Wrote %s\n", checkMark, cfgFile)
	fmt.Println()
	fmt.Println("Start the server with: custodian serve")
	return nil
}
