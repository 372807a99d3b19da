// Package agent defines the interface to the configuration-management agent
// and an in-process implementation backed by a module registry.
package agent

import "context"

// Caller is the surface of the agent the check harness depends on.
// A remote implementation would proxy these over the agent's transport;
// Local executes everything in process.
type Caller interface {
	// Call dispatches a qualified "module.function" name with positional
	// and keyword arguments and returns the function's result.
	Call(ctx context.Context, fun string, args []any, kwargs map[string]any) (any, error)

	// ListModules returns the names of all available modules, sorted.
	ListModules(ctx context.Context) ([]string, error)

	// ListFunctions returns the qualified "module.function" names of one
	// module, sorted. It errors if the module is unknown.
	ListFunctions(ctx context.Context, module string) ([]string, error)

	// TopUnits returns the active configuration units for the agent's
	// environment, in declaration order. Names may be compound
	// ("unit.sub_component").
	TopUnits(ctx context.Context) ([]string, error)

	// SearchRoots returns the directories to search for unit trees, in
	// priority order.
	SearchRoots() []string

	// RefreshCache re-syncs the agent's file cache from its file roots.
	RefreshCache(ctx context.Context) error
}
