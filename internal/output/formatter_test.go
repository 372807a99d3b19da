package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convergehq/statecheck/internal/check"
)

func sampleReport() *check.Report {
	return &check.Report{
		Units: []*check.UnitReport{
			{
				Unit: "apache",
				Results: []*check.Result{
					{Name: "echo_check", Passed: true, Duration: 120 * time.Microsecond},
					{
						Name:     "version_check",
						Passed:   false,
						Detail:   "2.2 is not equal to 2.4",
						Expected: "2.4",
						Actual:   "2.2",
						Duration: 3 * time.Millisecond,
					},
				},
				Duration: 4 * time.Millisecond,
			},
		},
		Duration: 4 * time.Millisecond,
	}
}

func TestPrintReportTable(t *testing.T) {
	color.NoColor = true

	buf := &bytes.Buffer{}
	formatter := NewFormatter(buf, false)

	err := formatter.PrintReport(sampleReport())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "▸ apache")
	assert.Contains(t, out, "echo_check")
	assert.Contains(t, out, "✓ PASS")
	assert.Contains(t, out, "✗ FAIL")
	assert.Contains(t, out, "▸ Failure Details")
	assert.Contains(t, out, "Expected: 2.4")
	assert.Contains(t, out, "Actual: 2.2")
	assert.Contains(t, out, "▸ Summary")
	assert.Contains(t, out, "1 (50.0%)")
}

func TestPrintReportJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := NewFormatter(buf, true)

	err := formatter.PrintReport(sampleReport())
	require.NoError(t, err)

	var decoded check.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Units, 1)
	assert.Equal(t, "apache", decoded.Units[0].Unit)
	require.Len(t, decoded.Units[0].Results, 2)
	assert.Equal(t, "version_check", decoded.Units[0].Results[1].Name)
	assert.False(t, decoded.Units[0].Results[1].Passed)
}

func TestPrintUnitReport(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name     string
		unit     *check.UnitReport
		contains []string
	}{
		{
			name: "unit error",
			unit: &check.UnitReport{
				Unit:  "nginx",
				Error: "gathering test files: permission denied",
			},
			contains: []string{"▸ nginx", "✗ gathering test files"},
		},
		{
			name: "warnings shown before results",
			unit: &check.UnitReport{
				Unit:     "nginx",
				Warnings: []string{"skipped broken.tst: parsing test file: yaml: line 1"},
				Results: []*check.Result{
					{Name: "ping_check", Passed: true, Duration: time.Millisecond},
				},
			},
			contains: []string{"⚠ skipped broken.tst", "ping_check", "✓ PASS"},
		},
		{
			name:     "no tests found",
			unit:     &check.UnitReport{Unit: "nginx"},
			contains: []string{"▸ nginx", "no tests found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := NewFormatter(buf, false)

			require.NoError(t, formatter.PrintUnitReport(tt.unit))

			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestPrintReportEmpty(t *testing.T) {
	color.NoColor = true

	buf := &bytes.Buffer{}
	formatter := NewFormatter(buf, false)

	require.NoError(t, formatter.PrintReport(&check.Report{}))
	assert.Contains(t, buf.String(), "No tests executed")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "aaaaaaa...", truncate("aaaaaaaaaaaaaaa", 10))
}
