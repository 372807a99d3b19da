package check

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReportSummary(t *testing.T) {
	report := &Report{
		Units: []*UnitReport{
			{
				Unit: "apache",
				Results: []*Result{
					{Name: "a", Passed: true},
					{Name: "b", Passed: false},
				},
			},
			{
				Unit: "nginx",
				Results: []*Result{
					{Name: "c", Passed: true},
				},
			},
		},
		Duration: 3 * time.Second,
	}

	summary := report.Summary()
	assert.Equal(t, 2, summary.Units)
	assert.Equal(t, 3, summary.Tests)
	assert.Equal(t, 2, summary.Passed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 3*time.Second, summary.Duration)
	assert.True(t, report.HasFailures())
}

func TestReportUnitErrorCountsAsFailure(t *testing.T) {
	unit := &UnitReport{Unit: "apache", Error: "walk failed"}
	assert.True(t, unit.HasFailures())

	report := &Report{Units: []*UnitReport{unit}}
	assert.True(t, report.HasFailures())
	assert.Equal(t, 0, report.Summary().Tests)
}

func TestReportAllPassing(t *testing.T) {
	report := &Report{
		Units: []*UnitReport{
			{Unit: "apache", Results: []*Result{{Name: "a", Passed: true}}},
		},
	}

	assert.False(t, report.HasFailures())
	assert.Equal(t, 1, report.Summary().Passed)
}
