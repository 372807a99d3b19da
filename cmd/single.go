package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/convergehq/statecheck/internal/check"
	"github.com/convergehq/statecheck/internal/check/testdef"
	"github.com/convergehq/statecheck/internal/output"
)

var (
	singleName    string
	singleTimeout time.Duration
	singleJSON    bool
)

var singleCmd = &cobra.Command{
	Use:   "single [declaration]",
	Short: "Run one ad-hoc test declaration",
	Long: `Run a single test declaration given as YAML or JSON, without any
test files on disk.

Examples:
  statecheck single '{"module_and_function": "test.echo", "args": ["hello"], "assertion": "assertEqual", "expected-return": "hello"}'
  statecheck single "$(cat ping.tst)" --name ping_check`,
	Args: cobra.ExactArgs(1),
	RunE: runSingle,
}

func init() {
	singleCmd.Flags().StringVar(&singleName, "name", "", "Name for the test in the report (defaults to cli)")
	singleCmd.Flags().DurationVar(&singleTimeout, "timeout", time.Minute, "Test timeout")
	singleCmd.Flags().BoolVar(&singleJSON, "json", false, "Emit the report as JSON")
	rootCmd.AddCommand(singleCmd)
}

func runSingle(_ *cobra.Command, args []string) error {
	decl, err := testdef.ParseDeclaration([]byte(args[0]))
	if err != nil {
		return fmt.Errorf("parsing declaration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), singleTimeout)
	defer cancel()

	harness, _, err := newHarness(Logger, 1)
	if err != nil {
		return err
	}

	result := harness.RunSingle(ctx, singleName, decl)

	report := &check.UnitReport{
		Unit:     "single",
		Results:  []*check.Result{result},
		Duration: result.Duration,
	}

	formatter := output.NewFormatter(os.Stdout, singleJSON)
	if err := formatter.PrintUnitReport(report); err != nil {
		return err
	}

	if report.HasFailures() {
		return errors.New("test failed")
	}

	return nil
}
