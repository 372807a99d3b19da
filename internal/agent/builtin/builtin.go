// Package builtin provides the execution modules shipped with the agent.
package builtin

import (
	"fmt"

	"github.com/convergehq/statecheck/internal/agent"
)

// Register wires the builtin execution modules into a registry.
func Register(reg *agent.Registry) error {
	tables := map[string]map[string]agent.Func{
		"test": testModule(),
		"file": fileModule(),
		"host": hostModule(),
	}

	for module, fns := range tables {
		if err := reg.RegisterModule(module, fns); err != nil {
			return fmt.Errorf("registering builtin module %s: %w", module, err)
		}
	}

	return nil
}

// stringArg extracts a required positional string argument.
func stringArg(args []any, i int, name string) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("missing required argument %q", name)
	}

	s, ok := args[i].(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string, got %T", name, args[i])
	}

	return s, nil
}

// numberArg extracts a required positional numeric argument.
func numberArg(args []any, i int, name string) (float64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing required argument %q", name)
	}

	switch v := args[i].(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("argument %q must be a number, got %T", name, args[i])
	}
}
