package builtin

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/convergehq/statecheck/internal/agent"
)

// fileModule returns filesystem probes for asserting on managed files.
func fileModule() map[string]agent.Func {
	return map[string]agent.Func{
		"exists":   fileExists,
		"contains": fileContains,
	}
}

// fileExists reports whether a path exists.
func fileExists(_ context.Context, args []any, _ map[string]any) (any, error) {
	path, err := stringArg(args, 0, "path")
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}

	return true, nil
}

// fileContains reports whether a file's content includes the given text.
func fileContains(_ context.Context, args []any, _ map[string]any) (any, error) {
	path, err := stringArg(args, 0, "path")
	if err != nil {
		return nil, err
	}
	text, err := stringArg(args, 1, "text")
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return strings.Contains(string(data), text), nil
}
