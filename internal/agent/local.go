package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/convergehq/statecheck/internal/config"
	"github.com/convergehq/statecheck/internal/fileserver"
)

// Local is the in-process agent. It dispatches through a module registry,
// resolves units from the synced file cache and owns the per-call timeout
// policy so the check harness never has to.
type Local struct {
	log      logrus.FieldLogger
	cfg      *config.Config
	registry *Registry
	cache    *fileserver.Cache
}

// NewLocal creates a local agent over the given registry. The sys module is
// registered automatically unless the registry already provides one.
func NewLocal(log logrus.FieldLogger, cfg *config.Config, registry *Registry) *Local {
	l := &Local{
		log:      log.WithField("component", "local_agent"),
		cfg:      cfg,
		registry: registry,
		cache:    fileserver.New(log, cfg.CacheDir, cfg.Environment, cfg.FileRoots),
	}

	if !registry.Has("sys") {
		l.registerSysModule()
	}

	return l
}

// Registry exposes the agent's module registry.
func (l *Local) Registry() *Registry {
	return l.registry
}

// Call dispatches a qualified function name, bounded by the configured call
// timeout. The dispatch runs in its own goroutine so a function that never
// returns cannot wedge the harness past the deadline.
func (l *Local) Call(ctx context.Context, fun string, args []any, kwargs map[string]any) (any, error) {
	if l.cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.cfg.CallTimeout)
		defer cancel()
	}

	l.log.WithFields(logrus.Fields{
		"function": fun,
		"args":     len(args),
		"kwargs":   len(kwargs),
	}).Debug("dispatching function")

	type callResult struct {
		value any
		err   error
	}

	done := make(chan callResult, 1)
	go func() {
		value, err := l.registry.Call(ctx, fun, args, kwargs)
		done <- callResult{value: value, err: err}
	}()

	select {
	case res := <-done:
		return res.value, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("dispatching %s: %w", fun, ctx.Err())
	}
}

// ListModules returns all registered module names, sorted.
func (l *Local) ListModules(_ context.Context) ([]string, error) {
	return l.registry.Modules(), nil
}

// ListFunctions returns one module's qualified function names, sorted.
func (l *Local) ListFunctions(_ context.Context, module string) ([]string, error) {
	return l.registry.Functions(module)
}

// TopUnits returns the active units for the agent's environment from the
// first top file found in the search roots. A missing top file yields an
// empty list.
func (l *Local) TopUnits(_ context.Context) ([]string, error) {
	for _, root := range l.SearchRoots() {
		path := filepath.Join(root, config.TopFileName)

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading top file %s: %w", path, err)
		}

		return l.parseTopFile(path, data)
	}

	l.log.Warn("no top file found in any search root")

	return []string{}, nil
}

// parseTopFile extracts the unit list for the agent's environment, falling
// back to base when the environment has no entry.
func (l *Local) parseTopFile(path string, data []byte) ([]string, error) {
	var top map[string][]string
	if err := yaml.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("parsing top file %s: %w", path, err)
	}

	env := l.cfg.Environment
	if env == "" {
		env = config.BaseEnvironment
	}

	units, ok := top[env]
	if !ok && env != config.BaseEnvironment {
		l.log.WithFields(logrus.Fields{
			"environment": env,
			"top_file":    path,
		}).Debug("environment not in top file, falling back to base")
		units = top[config.BaseEnvironment]
	}

	if units == nil {
		units = []string{}
	}

	return units, nil
}

// SearchRoots returns the cache directories to search for unit trees, the
// configured environment before base.
func (l *Local) SearchRoots() []string {
	base := filepath.Join(l.cfg.CacheDir, config.FilesDirname, config.BaseEnvironment)

	if l.cfg.Environment == "" || l.cfg.Environment == config.BaseEnvironment {
		return []string{base}
	}

	return []string{
		filepath.Join(l.cfg.CacheDir, config.FilesDirname, l.cfg.Environment),
		base,
	}
}

// RefreshCache re-syncs the file cache from the configured roots.
func (l *Local) RefreshCache(ctx context.Context) error {
	if _, err := l.cache.Sync(ctx); err != nil {
		return fmt.Errorf("refreshing file cache: %w", err)
	}
	return nil
}

// registerSysModule wires the registry's own listing functions in as the
// sys module so declarations can introspect the agent like any other call.
func (l *Local) registerSysModule() {
	l.registry.MustRegister("sys", "list_modules", func(_ context.Context, _ []any, _ map[string]any) (any, error) {
		return l.registry.Modules(), nil
	})

	l.registry.MustRegister("sys", "list_functions", func(_ context.Context, args []any, _ map[string]any) (any, error) {
		if len(args) > 0 {
			module, ok := args[0].(string)
			if !ok {
				return nil, fmt.Errorf("%w: module name must be a string", ErrInvalidFunctionName)
			}
			return l.registry.Functions(module)
		}

		all := make([]string, 0)
		for _, module := range l.registry.Modules() {
			fns, err := l.registry.Functions(module)
			if err != nil {
				return nil, err
			}
			all = append(all, fns...)
		}

		return all, nil
	})
}
