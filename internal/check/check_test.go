package check

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

func newTestLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)
	log.SetOutput(os.Stderr)

	return log
}

// fakeCaller is a scripted agent for exercising validation and dispatch
// paths without a real module registry.
type fakeCaller struct {
	mu sync.Mutex

	functions map[string][]string
	handlers  map[string]func(args []any, kwargs map[string]any) (any, error)
	topUnits  []string
	topErr    error
	listErr   error
	roots     []string

	listModuleCalls int
	refreshCalls    int
}

func (f *fakeCaller) Call(_ context.Context, fun string, args []any, kwargs map[string]any) (any, error) {
	f.mu.Lock()
	handler, ok := f.handlers[fun]
	f.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("no handler for %s", fun)
	}

	return handler(args, kwargs)
}

func (f *fakeCaller) ListModules(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listModuleCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}

	modules := make([]string, 0, len(f.functions))
	for module := range f.functions {
		modules = append(modules, module)
	}
	sort.Strings(modules)

	return modules, nil
}

func (f *fakeCaller) ListFunctions(_ context.Context, module string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fns, ok := f.functions[module]
	if !ok {
		return nil, fmt.Errorf("module not found: %s", module)
	}

	return fns, nil
}

func (f *fakeCaller) TopUnits(_ context.Context) ([]string, error) {
	return f.topUnits, f.topErr
}

func (f *fakeCaller) SearchRoots() []string {
	return f.roots
}

func (f *fakeCaller) RefreshCache(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.refreshCalls++

	return nil
}

// newFakeCaller provides a test module with echo and ping handlers.
func newFakeCaller(t *testing.T) *fakeCaller {
	t.Helper()

	return &fakeCaller{
		functions: map[string][]string{
			"test": {"test.echo", "test.fail", "test.ping"},
		},
		handlers: map[string]func(args []any, kwargs map[string]any) (any, error){
			"test.echo": func(args []any, _ map[string]any) (any, error) {
				if len(args) == 0 {
					return nil, nil
				}
				return args[0], nil
			},
			"test.ping": func(_ []any, _ map[string]any) (any, error) {
				return true, nil
			},
			"test.fail": func(_ []any, _ map[string]any) (any, error) {
				return nil, fmt.Errorf("connection refused")
			},
		},
	}
}
