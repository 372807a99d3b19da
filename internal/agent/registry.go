package agent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrModuleNotFound is returned when a module is not registered.
	ErrModuleNotFound = errors.New("module not found")
	// ErrFunctionNotFound is returned when a module exists but the function does not.
	ErrFunctionNotFound = errors.New("function not found")
	// ErrAlreadyRegistered is returned when registering a duplicate function.
	ErrAlreadyRegistered = errors.New("function already registered")
	// ErrInvalidFunctionName is returned when a name does not split into module.function.
	ErrInvalidFunctionName = errors.New("invalid function name, expected module.function")
)

// Func is the signature of a callable module function.
type Func func(ctx context.Context, args []any, kwargs map[string]any) (any, error)

// Registry holds the agent's execution modules and provides lookup and
// dispatch. It is thread-safe and supports registration at runtime.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]map[string]Func
}

// NewRegistry creates a new empty module registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]map[string]Func),
	}
}

// Register adds a function under a module name.
// Returns an error if the same module.function is already registered.
func (r *Registry) Register(module, function string, fn Func) error {
	if module == "" || function == "" || fn == nil {
		return fmt.Errorf("%w: empty module, function or nil func", ErrInvalidFunctionName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	fns, ok := r.modules[module]
	if !ok {
		fns = make(map[string]Func)
		r.modules[module] = fns
	}

	if _, exists := fns[function]; exists {
		return fmt.Errorf("%w: %s.%s", ErrAlreadyRegistered, module, function)
	}
	fns[function] = fn

	return nil
}

// MustRegister registers a function and panics on error.
// Use this for static module registration at construction time.
func (r *Registry) MustRegister(module, function string, fn Func) {
	if err := r.Register(module, function, fn); err != nil {
		panic(fmt.Sprintf("failed to register %s.%s: %v", module, function, err))
	}
}

// RegisterModule registers a whole function table under one module name.
func (r *Registry) RegisterModule(module string, fns map[string]Func) error {
	for function, fn := range fns {
		if err := r.Register(module, function, fn); err != nil {
			return err
		}
	}
	return nil
}

// Has returns true if a module with the given name is registered.
func (r *Registry) Has(module string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.modules[module]
	return ok
}

// Modules returns all registered module names, sorted.
func (r *Registry) Modules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Functions returns the qualified "module.function" names of one module,
// sorted. Returns ErrModuleNotFound for an unknown module.
func (r *Registry) Functions(module string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fns, ok := r.modules[module]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, module)
	}

	names := make([]string, 0, len(fns))
	for name := range fns {
		names = append(names, module+"."+name)
	}
	sort.Strings(names)

	return names, nil
}

// Lookup resolves a qualified "module.function" name.
func (r *Registry) Lookup(fun string) (Func, error) {
	module, function, ok := splitFunctionName(fun)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFunctionName, fun)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	fns, ok := r.modules[module]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, module)
	}
	fn, ok := fns[function]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, fun)
	}

	return fn, nil
}

// Call dispatches a qualified function name. A panic inside the function is
// recovered and returned as an error so a misbehaving module cannot take
// down the caller.
func (r *Registry) Call(ctx context.Context, fun string, args []any, kwargs map[string]any) (result any, err error) {
	fn, err := r.Lookup(fun)
	if err != nil {
		return nil, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = fmt.Errorf("panic in %s: %v", fun, rec)
		}
	}()

	return fn(ctx, args, kwargs)
}

// splitFunctionName splits "module.function" on the first dot. Function
// names may themselves contain dots; module names may not.
func splitFunctionName(fun string) (module, function string, ok bool) {
	module, function, found := strings.Cut(fun, ".")
	if !found || module == "" || function == "" {
		return "", "", false
	}
	return module, function, true
}
