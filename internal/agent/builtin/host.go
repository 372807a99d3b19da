package builtin

import (
	"context"
	"os"
	"runtime"

	"github.com/convergehq/statecheck/internal/agent"
)

// hostModule returns basic host facts.
func hostModule() map[string]agent.Func {
	return map[string]agent.Func{
		"hostname": hostHostname,
		"os":       hostOS,
		"arch":     hostArch,
		"nproc":    hostNproc,
	}
}

func hostHostname(_ context.Context, _ []any, _ map[string]any) (any, error) {
	return os.Hostname()
}

func hostOS(_ context.Context, _ []any, _ map[string]any) (any, error) {
	return runtime.GOOS, nil
}

func hostArch(_ context.Context, _ []any, _ map[string]any) (any, error) {
	return runtime.GOARCH, nil
}

func hostNproc(_ context.Context, _ []any, _ map[string]any) (any, error) {
	return runtime.NumCPU(), nil
}
