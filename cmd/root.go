package cmd

import (
	"fmt"
	"os"
	"strings"

	"expenses/config"

	"github.com/spf13/cobra"
)

// Version reported by --version
var Version = "1.0.0"

var (
	flagConfig string
	flagPort   string
)

var rootCmd = &cobra.Command{
	Use:          "expenses",
	Short:        "Rastreador de despesas pessoais",
	Long:         "Serve the expense tracker page and its REST API backed by MySQL, PostgreSQL or SQLite.",
	Version:      Version,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate("expenses v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "External config file (optional)")
	rootCmd.Flags().StringVarP(&flagPort, "port", "p", "", "Listen port, e.g. 8080 or :8080")
}

// loadConfig reads config, applies the --port override and validates the result
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(flagConfig)
	if err != nil {
		return nil, err
	}

	if flagPort != "" {
		port := flagPort
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
