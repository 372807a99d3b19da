package builtin

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convergehq/statecheck/internal/agent"
	"github.com/convergehq/statecheck/internal/config"
)

func newRegistry(t *testing.T) *agent.Registry {
	t.Helper()

	reg := agent.NewRegistry()
	require.NoError(t, Register(reg))

	return reg
}

func TestRegisterProvidesExpectedModules(t *testing.T) {
	reg := newRegistry(t)
	assert.Equal(t, []string{"file", "host", "test"}, reg.Modules())
}

func TestTestModule(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		fun      string
		args     []any
		kwargs   map[string]any
		expected any
	}{
		{name: "echo arg", fun: "test.echo", args: []any{"hello"}, expected: "hello"},
		{name: "echo kwarg", fun: "test.echo", kwargs: map[string]any{"text": "hi"}, expected: "hi"},
		{name: "echo nothing", fun: "test.echo", expected: nil},
		{name: "echo number", fun: "test.echo", args: []any{42}, expected: 42},
		{name: "ping", fun: "test.ping", expected: true},
		{name: "version", fun: "test.version", expected: config.Version},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := reg.Call(ctx, tt.fun, tt.args, tt.kwargs)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestTestArgEchoesBothForms(t *testing.T) {
	reg := newRegistry(t)

	result, err := reg.Call(context.Background(), "test.arg", []any{"a", 1}, map[string]any{"k": "v"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"args":   []any{"a", 1},
		"kwargs": map[string]any{"k": "v"},
	}, result)
}

func TestTestSleepRejectsBadLength(t *testing.T) {
	reg := newRegistry(t)

	_, err := reg.Call(context.Background(), "test.sleep", []any{"soon"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "length")
}

func TestFileModule(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "motd")
	require.NoError(t, os.WriteFile(path, []byte("welcome to the machine"), 0o644))

	exists, err := reg.Call(ctx, "file.exists", []any{path}, nil)
	require.NoError(t, err)
	assert.Equal(t, true, exists)

	exists, err = reg.Call(ctx, "file.exists", []any{path + ".nope"}, nil)
	require.NoError(t, err)
	assert.Equal(t, false, exists)

	contains, err := reg.Call(ctx, "file.contains", []any{path, "machine"}, nil)
	require.NoError(t, err)
	assert.Equal(t, true, contains)

	contains, err = reg.Call(ctx, "file.contains", []any{path, "absent"}, nil)
	require.NoError(t, err)
	assert.Equal(t, false, contains)

	_, err = reg.Call(ctx, "file.contains", []any{path}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text")
}

func TestHostModule(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	osName, err := reg.Call(ctx, "host.os", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, runtime.GOOS, osName)

	arch, err := reg.Call(ctx, "host.arch", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, runtime.GOARCH, arch)

	nproc, err := reg.Call(ctx, "host.nproc", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, runtime.NumCPU(), nproc)
}
