package check

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/convergehq/statecheck/internal/agent"
	"github.com/convergehq/statecheck/internal/check/assertion"
	"github.com/convergehq/statecheck/internal/check/testdef"
)

// Runner executes one declaration end to end: validate, dispatch, coerce,
// evaluate. Every failure mode lands in the Result; Run never returns an
// error and never panics.
type Runner struct {
	log       logrus.FieldLogger
	agent     agent.Caller
	validator *Validator
}

// NewRunner creates a runner over the given agent.
func NewRunner(log logrus.FieldLogger, caller agent.Caller) *Runner {
	return &Runner{
		log:       log.WithField("component", "check_runner"),
		agent:     caller,
		validator: NewValidator(log, caller),
	}
}

// Run executes a single declaration and reports its outcome. An invalid
// declaration is reported as a failure, not executed. A dispatch error
// becomes the actual value so the assertion fails with the error text in
// its diagnostic instead of aborting the run.
func (r *Runner) Run(ctx context.Context, decl *testdef.Declaration) *Result {
	start := time.Now()
	result := &Result{Name: decl.Name}

	if err := r.validator.Validate(ctx, decl); err != nil {
		result.Detail = fmt.Sprintf("invalid test %s: %v", decl.Name, err)
		result.Duration = time.Since(start)

		r.log.WithFields(logrus.Fields{
			"test":   decl.Name,
			"reason": err,
		}).Debug("declaration failed validation")

		return result
	}

	// Validate guarantees the kind parses.
	kind, _ := assertion.ParseKind(decl.Assertion)

	actual, err := r.agent.Call(ctx, decl.ModuleAndFunction, decl.Args, decl.Kwargs)
	if err != nil {
		actual = err.Error()

		r.log.WithFields(logrus.Fields{
			"test":     decl.Name,
			"function": decl.ModuleAndFunction,
		}).WithError(err).Debug("dispatch returned error, asserting against error text")
	}

	expected := decl.ExpectedReturn
	if decl.HasExpected() {
		coerced, ok := assertion.Coerce(expected, actual)
		if !ok {
			r.log.WithFields(logrus.Fields{
				"test":     decl.Name,
				"expected": expected,
				"actual":   actual,
			}).Debug("unable to align expected value with returned type")
		}
		expected = coerced
	}

	outcome := assertion.Evaluate(kind, expected, actual)

	result.Passed = outcome.Passed
	result.Detail = outcome.Detail
	result.Expected = expected
	result.Actual = actual
	result.Duration = time.Since(start)

	r.log.WithFields(logrus.Fields{
		"test":     decl.Name,
		"passed":   result.Passed,
		"duration": result.Duration,
	}).Debug("test executed")

	return result
}
