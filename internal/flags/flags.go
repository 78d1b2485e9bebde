// Package flags provides feature flags that tune command dispatch.
// Flags are read-only after initialization and fall back to built-in defaults.
package flags

import (
	"maps"
	"sort"

	"github.com/zjrosen/arcroute/internal/log"
)

// Flag name constants for type-safe flag access.
const (
	// FlagStrictCommands disables prefix and spelling resolution; only exact
	// names and aliases resolve.
	FlagStrictCommands = "strict-commands"

	// FlagAliasNotices echoes "[alias: ...]" notices to stderr in addition to
	// the debug log.
	FlagAliasNotices = "alias-notices"

	// FlagShellAliases allows aliases that start with "!" to run shell
	// commands. When disabled a shell alias resolves like an unknown command.
	FlagShellAliases = "shell-aliases"
)

// Defaults returns the value of every known flag when config is silent.
func Defaults() map[string]bool {
	return map[string]bool{
		FlagStrictCommands: false,
		FlagAliasNotices:   false,
		FlagShellAliases:   true,
	}
}

// Registry holds feature flag state.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from config values layered over Defaults().
func New(configured map[string]bool) *Registry {
	merged := Defaults()
	maps.Copy(merged, configured)

	r := &Registry{flags: merged}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(merged), "flags", r.All())
	return r
}

// Enabled returns true if the named flag is enabled.
// Unknown flags are false, and a nil registry reports defaults.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return Defaults()[name]
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "Unknown flag accessed", "flag", name, "result", false)
		return false
	}
	return value
}

// All returns a copy of all flags.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return Defaults()
	}
	result := make(map[string]bool, len(r.flags))
	maps.Copy(result, r.flags)
	return result
}

// Names returns every flag name, sorted.
func (r *Registry) Names() []string {
	all := r.All()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
