// Package check implements the self-test harness: discovery, validation,
// execution and reporting of declared tests.
package check

import "time"

// Result is the outcome of one test declaration. Detail is empty for a
// pass; for a failure it holds the assertion diagnostic or the validation
// error that kept the test from running.
type Result struct {
	Name     string        `json:"name"`
	Passed   bool          `json:"passed"`
	Detail   string        `json:"detail,omitempty"`
	Expected any           `json:"expected,omitempty"`
	Actual   any           `json:"actual,omitempty"`
	Duration time.Duration `json:"duration"`
}

// UnitReport aggregates one configuration unit's test run. Results keep
// declaration order. Warnings record test files that were skipped as
// unparseable. Error is set only when the unit itself could not be
// processed; a unit with no test directory yields an empty report instead.
type UnitReport struct {
	Unit     string        `json:"unit"`
	Results  []*Result     `json:"results"`
	Warnings []string      `json:"warnings,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Counts returns the number of passed and failed results.
func (r *UnitReport) Counts() (passed, failed int) {
	for _, result := range r.Results {
		if result.Passed {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// HasFailures reports whether any test failed or the unit errored.
func (r *UnitReport) HasFailures() bool {
	if r.Error != "" {
		return true
	}
	_, failed := r.Counts()
	return failed > 0
}

// Report aggregates a whole run, units in stable order.
type Report struct {
	Units    []*UnitReport `json:"units"`
	Duration time.Duration `json:"duration"`
}

// Summary holds the run totals derived from a report.
type Summary struct {
	Units    int
	Tests    int
	Passed   int
	Failed   int
	Duration time.Duration
}

// Summary derives the run totals.
func (r *Report) Summary() Summary {
	s := Summary{
		Units:    len(r.Units),
		Duration: r.Duration,
	}

	for _, unit := range r.Units {
		passed, failed := unit.Counts()
		s.Tests += passed + failed
		s.Passed += passed
		s.Failed += failed
	}

	return s
}

// HasFailures reports whether any unit failed.
func (r *Report) HasFailures() bool {
	for _, unit := range r.Units {
		if unit.HasFailures() {
			return true
		}
	}
	return false
}
