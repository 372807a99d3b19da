package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/convergehq/statecheck/internal/check"
	"github.com/convergehq/statecheck/internal/output"
)

var (
	runAll         bool
	runConcurrency int
	runTimeout     time.Duration
	runJSON        bool
)

var runCmd = &cobra.Command{
	Use:   "run [unit]...",
	Short: "Run declared tests for one or more units",
	Long: `Run the declared tests for named configuration units, or for every
active unit from the top file with --all.

Each unit keeps its test files in a statecheck-tests directory, one
declaration per mapping key, files ending in .tst:

  apache/
  ├── init.yaml
  └── statecheck-tests/
      ├── 10_install.tst
      └── 20_config.tst

Compound names like apache.vhosts collapse to their top-level unit.

Examples:
  statecheck run apache
  statecheck run apache nginx
  statecheck run --all --concurrency 4`,
	Args: cobra.ArbitraryArgs,
	RunE: runTests,
}

func init() {
	runCmd.Flags().BoolVar(&runAll, "all", false, "Run tests for every active unit from the top file")
	runCmd.Flags().IntVar(&runConcurrency, "concurrency", 1, "Number of units to test in parallel")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 5*time.Minute, "Whole-run timeout")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Emit the report as JSON")
	rootCmd.AddCommand(runCmd)
}

func runTests(_ *cobra.Command, args []string) error {
	if !runAll && len(args) == 0 {
		return errors.New("name at least one unit or pass --all")
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	harness, _, err := newHarness(Logger, runConcurrency)
	if err != nil {
		return err
	}

	var report *check.Report
	if runAll {
		report, err = harness.RunAll(ctx)
	} else {
		report, err = harness.RunUnits(ctx, check.NormalizeUnits(args))
	}

	if err != nil {
		return fmt.Errorf("running tests: %w", err)
	}

	formatter := output.NewFormatter(os.Stdout, runJSON)
	if err := formatter.PrintReport(report); err != nil {
		return err
	}

	if report.HasFailures() {
		return errors.New("some tests failed")
	}

	return nil
}
