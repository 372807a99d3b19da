// Package output renders check reports as terminal tables or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/convergehq/statecheck/internal/check"
)

// Formatter renders check reports for terminal consumption.
type Formatter interface {
	PrintReport(report *check.Report) error
	PrintUnitReport(unit *check.UnitReport) error
}

type formatter struct {
	writer   io.Writer
	jsonOut  bool
	renderer Renderer
	colors   *ColorHelper
}

// NewFormatter creates a report formatter writing to w. When jsonOut is
// set, reports are encoded as JSON instead of tables.
func NewFormatter(w io.Writer, jsonOut bool) Formatter {
	return &formatter{
		writer:   w,
		jsonOut:  jsonOut,
		renderer: NewRenderer(),
		colors:   NewColorHelper(),
	}
}

// PrintReport renders every unit in the report followed by the run summary.
func (f *formatter) PrintReport(report *check.Report) error {
	if f.jsonOut {
		return f.encode(report)
	}

	if len(report.Units) == 0 {
		fmt.Fprintln(f.writer, f.colors.Muted("No tests executed"))
		return nil
	}

	for _, unit := range report.Units {
		f.printUnit(unit)
	}

	f.printSummary(report.Summary())

	return nil
}

// PrintUnitReport renders a single unit's results without a run summary.
func (f *formatter) PrintUnitReport(unit *check.UnitReport) error {
	if f.jsonOut {
		return f.encode(unit)
	}

	f.printUnit(unit)

	return nil
}

func (f *formatter) encode(v any) error {
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	return nil
}

func (f *formatter) printUnit(unit *check.UnitReport) {
	fmt.Fprintf(f.writer, "\n%s\n", f.colors.Header("▸ "+unit.Unit))

	if unit.Error != "" {
		fmt.Fprintf(f.writer, "\n%s %s\n", f.colors.Failure("✗"), unit.Error)
		return
	}

	for _, warning := range unit.Warnings {
		fmt.Fprintf(f.writer, "%s %s\n", f.colors.Warning("⚠"), warning)
	}

	if len(unit.Results) == 0 {
		fmt.Fprintf(f.writer, "\n%s\n", f.colors.Muted("no tests found"))
		return
	}

	var (
		headers = []string{"Test", "Status", "Duration", "Detail"}
		rows    = make([][]string, 0, len(unit.Results))
		failed  = make([]*check.Result, 0)
	)

	for _, result := range unit.Results {
		var detail string

		if !result.Passed {
			failed = append(failed, result)
			detail = f.colors.Muted(truncate(result.Detail, 60))
		}

		rows = append(rows, []string{
			result.Name,
			f.colors.FormatStatus(result.Passed),
			Duration(result.Duration),
			detail,
		})
	}

	fmt.Fprintf(f.writer, "\n%s", f.renderer.RenderToString(headers, rows))

	if len(failed) > 0 {
		fmt.Fprint(f.writer, f.formatFailureDetails(failed))
	}
}

// formatFailureDetails creates a section showing each failed test with its
// full expected and actual values.
func (f *formatter) formatFailureDetails(failed []*check.Result) string {
	var builder strings.Builder

	builder.WriteString("\n" + f.colors.Header("▸ Failure Details") + "\n\n")

	for i, result := range failed {
		if i > 0 {
			builder.WriteString("\n")
		}

		builder.WriteString(fmt.Sprintf("%s %s (%s)\n",
			f.colors.Failure("✗"),
			f.colors.Bold(result.Name),
			Duration(result.Duration)))

		if result.Expected != nil {
			builder.WriteString(fmt.Sprintf("    %s: %v\n", f.colors.Info("Expected"), result.Expected))
		}

		if result.Actual != nil {
			builder.WriteString(fmt.Sprintf("    %s: %v\n", f.colors.Warning("Actual"), result.Actual))
		}

		builder.WriteString(fmt.Sprintf("    %s: %s\n", f.colors.Failure("Detail"), result.Detail))
	}

	return builder.String()
}

func (f *formatter) printSummary(summary check.Summary) {
	var passRate, failRate float64
	if summary.Tests > 0 {
		passRate = float64(summary.Passed) / float64(summary.Tests) * 100.0
		failRate = float64(summary.Failed) / float64(summary.Tests) * 100.0
	}

	passedValue := fmt.Sprintf("%d (%s)", summary.Passed, f.colors.FormatPercentage(passRate))
	if summary.Passed == summary.Tests {
		passedValue = f.colors.Success(fmt.Sprintf("%d (%.1f%%)", summary.Passed, passRate))
	}

	failedValue := fmt.Sprintf("%d (%.1f%%)", summary.Failed, failRate)
	if summary.Failed > 0 {
		failedValue = f.colors.Failure(failedValue)
	} else {
		failedValue = f.colors.Success(failedValue)
	}

	var (
		headers = []string{"Metric", "Value"}
		rows    = [][]string{
			{"Units", fmt.Sprintf("%d", summary.Units)},
			{"Tests", f.colors.Bold(fmt.Sprintf("%d", summary.Tests))},
			{"Passed", passedValue},
			{"Failed", failedValue},
			{"Duration", Duration(summary.Duration)},
		}
	)

	fmt.Fprintf(f.writer, "\n%s\n\n%s", f.colors.Header("▸ Summary"), f.renderer.RenderToString(headers, rows))
}

// truncate shortens s for table cells, keeping the full text for the
// failure details section.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	return s[:limit-3] + "..."
}
