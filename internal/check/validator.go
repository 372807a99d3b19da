package check

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/convergehq/statecheck/internal/agent"
	"github.com/convergehq/statecheck/internal/check/assertion"
	"github.com/convergehq/statecheck/internal/check/testdef"
)

var (
	// ErrMissingFunction is returned when a declaration has no module_and_function.
	ErrMissingFunction = errors.New("module_and_function is required")
	// ErrMalformedFunction is returned when the name does not split into module.function.
	ErrMalformedFunction = errors.New("module_and_function must be module.function")
	// ErrUnknownModule is returned when the agent does not provide the module.
	ErrUnknownModule = errors.New("module is not available")
	// ErrUnknownFunction is returned when the module exists but the function does not.
	ErrUnknownFunction = errors.New("function is not available")
	// ErrMissingAssertion is returned when a declaration has no assertion.
	ErrMissingAssertion = errors.New("assertion is required")
	// ErrMissingExpected is returned when a two-operand assertion has no expected-return.
	ErrMissingExpected = errors.New("expected-return is required")
)

// Validator decides whether a declaration is executable against the agent.
// Module and function listings are fetched lazily and memoized, so a unit
// with hundreds of tests queries the agent once per module at most.
type Validator struct {
	log   logrus.FieldLogger
	agent agent.Caller

	mu        sync.Mutex
	modules   map[string]struct{}
	functions map[string]map[string]struct{}
}

// NewValidator creates a validator over the given agent.
func NewValidator(log logrus.FieldLogger, caller agent.Caller) *Validator {
	return &Validator{
		log:       log.WithField("component", "check_validator"),
		agent:     caller,
		functions: make(map[string]map[string]struct{}),
	}
}

// Validate returns nil when the declaration can be dispatched and asserted.
// Every condition is checked in order and the first failure is returned.
func (v *Validator) Validate(ctx context.Context, decl *testdef.Declaration) error {
	if decl.ModuleAndFunction == "" {
		return ErrMissingFunction
	}

	module, function, found := strings.Cut(decl.ModuleAndFunction, ".")
	if !found || module == "" || function == "" {
		return fmt.Errorf("%w: %q", ErrMalformedFunction, decl.ModuleAndFunction)
	}

	modules, err := v.moduleSet(ctx)
	if err != nil {
		return err
	}
	if _, ok := modules[module]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownModule, module)
	}

	functions, err := v.functionSet(ctx, module)
	if err != nil {
		return err
	}
	if _, ok := functions[decl.ModuleAndFunction]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFunction, decl.ModuleAndFunction)
	}

	if decl.Assertion == "" {
		return ErrMissingAssertion
	}
	kind, err := assertion.ParseKind(decl.Assertion)
	if err != nil {
		return err
	}

	if kind.NeedsExpected() && !decl.HasExpected() {
		return fmt.Errorf("%w for %s", ErrMissingExpected, kind)
	}

	return nil
}

// moduleSet returns the agent's module names, fetched once.
func (v *Validator) moduleSet(ctx context.Context) (map[string]struct{}, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.modules == nil {
		names, err := v.agent.ListModules(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing modules: %w", err)
		}

		v.modules = make(map[string]struct{}, len(names))
		for _, name := range names {
			v.modules[name] = struct{}{}
		}

		v.log.WithField("modules", len(names)).Debug("cached module listing")
	}

	return v.modules, nil
}

// functionSet returns one module's qualified function names, fetched once
// per module.
func (v *Validator) functionSet(ctx context.Context, module string) (map[string]struct{}, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	set, ok := v.functions[module]
	if !ok {
		names, err := v.agent.ListFunctions(ctx, module)
		if err != nil {
			return nil, fmt.Errorf("listing functions for %s: %w", module, err)
		}

		set = make(map[string]struct{}, len(names))
		for _, name := range names {
			set[name] = struct{}{}
		}
		v.functions[module] = set
	}

	return set, nil
}
