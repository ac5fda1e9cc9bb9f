package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/artpar/themedesigner/bootstrap"
	"github.com/artpar/themedesigner/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the admin API server",
	Long: `Start the themedesigner HTTP server.

The server will:
  - Load configuration from themedesigner.yaml (or --config)
  - Or load configuration from THEMEDESIGNER_* environment variables
  - Open the database and apply migrations
  - Serve the admin API under /admin when admin.password_hash is set
  - Reload field managers and admin credentials when the file changes or on SIGHUP

Environment variables (for container deployments):
  THEMEDESIGNER_DATABASE_DRIVER       - sqlite, postgres or memory
  THEMEDESIGNER_DATABASE_DSN          - Database path or URL
  THEMEDESIGNER_SERVER_PORT           - Server port (default: 8080)
  THEMEDESIGNER_ADMIN_PASSWORD_HASH   - bcrypt hash of the admin password
  THEMEDESIGNER_LOG_LEVEL             - debug, info, warn, error

Examples:
  themedesigner serve
  themedesigner serve --config /etc/themedesigner/config.yaml
  THEMEDESIGNER_DATABASE_DRIVER=memory themedesigner serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfgFile); err != nil && !config.HasEnvConfig() {
		fmt.Println("No configuration found.")
		fmt.Println()
		fmt.Printf("Option 1: Copy themedesigner.example.yaml to %s\n", cfgFile)
		fmt.Println("Option 2: Set THEMEDESIGNER_DATABASE_DSN or THEMEDESIGNER_DATABASE_DRIVER")
		fmt.Println()
		fmt.Println("Example (env vars):")
		fmt.Println("  THEMEDESIGNER_DATABASE_DSN=themes.db themedesigner serve")
		return nil
	}

	a, err := bootstrap.New(bootstrap.Options{ConfigPath: cfgFile})
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	return a.Run()
}
