package builtin

import (
	"context"
	"time"

	"github.com/convergehq/statecheck/internal/agent"
	"github.com/convergehq/statecheck/internal/config"
)

// testModule returns the connectivity and echo functions used to verify the
// dispatch path itself.
func testModule() map[string]agent.Func {
	return map[string]agent.Func{
		"echo":    testEcho,
		"ping":    testPing,
		"version": testVersion,
		"arg":     testArg,
		"sleep":   testSleep,
	}
}

// testEcho returns its first argument unchanged.
func testEcho(_ context.Context, args []any, kwargs map[string]any) (any, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if text, ok := kwargs["text"]; ok {
		return text, nil
	}

	return nil, nil
}

func testPing(_ context.Context, _ []any, _ map[string]any) (any, error) {
	return true, nil
}

func testVersion(_ context.Context, _ []any, _ map[string]any) (any, error) {
	return config.Version, nil
}

// testArg echoes both argument forms so declarations can assert on how
// arguments arrive.
func testArg(_ context.Context, args []any, kwargs map[string]any) (any, error) {
	if args == nil {
		args = []any{}
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}

	return map[string]any{
		"args":   args,
		"kwargs": kwargs,
	}, nil
}

// testSleep pauses for the given number of seconds, honoring cancellation.
func testSleep(ctx context.Context, args []any, _ map[string]any) (any, error) {
	seconds, err := numberArg(args, 0, "length")
	if err != nil {
		return nil, err
	}

	select {
	case <-time.After(time.Duration(seconds * float64(time.Second))):
		return true, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
