// Package cmd contains CLI command definitions.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/convergehq/statecheck/internal/agent"
	"github.com/convergehq/statecheck/internal/agent/builtin"
	"github.com/convergehq/statecheck/internal/check"
	"github.com/convergehq/statecheck/internal/config"
)

var (
	// Logger is the shared logger instance for all commands.
	Logger *logrus.Logger

	envFile string
	verbose bool

	rootCmd = &cobra.Command{
		Use:   "statecheck",
		Short: "Statecheck - declarative tests for managed hosts",
		Long: `Statecheck runs declarative tests against the modules of a
configuration-management agent.

Run without arguments to launch interactive mode, or use subcommands for direct operations.`,
		Args:              cobra.NoArgs,
		PersistentPreRunE: applyPersistentFlags,
		Run: func(_ *cobra.Command, _ []string) {
			runInteractive()
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Initialize the shared logger
	Logger = logrus.New()

	// Set log level from environment variable
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		fmt.Printf("Invalid LOG_LEVEL '%s', defaulting to 'info'\n", logLevel)
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)

	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Environment file to load over the ambient environment")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
}

// applyPersistentFlags loads an explicit --env file and raises the log
// level for --verbose before any command runs.
func applyPersistentFlags(_ *cobra.Command, _ []string) error {
	if envFile != "" {
		if err := godotenv.Overload(envFile); err != nil {
			return fmt.Errorf("loading env file %q: %w", envFile, err)
		}
	}

	if verbose {
		Logger.SetLevel(logrus.DebugLevel)
	}

	return nil
}

// loadConfig resolves the configuration from the environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return cfg, nil
}

// newAgent builds a local agent with the builtin modules registered.
func newAgent(log logrus.FieldLogger) (*agent.Local, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	registry := agent.NewRegistry()
	if err := builtin.Register(registry); err != nil {
		return nil, fmt.Errorf("registering builtin modules: %w", err)
	}

	return agent.NewLocal(log, cfg, registry), nil
}

// newHarness builds a check harness over a local agent. The agent is
// returned alongside for commands that query it directly.
func newHarness(log logrus.FieldLogger, concurrency int) (*check.Harness, *agent.Local, error) {
	local, err := newAgent(log)
	if err != nil {
		return nil, nil, err
	}

	harness := check.NewHarness(&check.HarnessConfig{
		Logger:      log,
		Agent:       local,
		Concurrency: concurrency,
	})

	return harness, local, nil
}
