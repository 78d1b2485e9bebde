package workflow

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zjrosen/arcroute/internal/log"
)

// Registry errors
var (
	ErrDuplicateName = errors.New("duplicate workflow name")
	ErrEmptyName     = errors.New("workflow name cannot be empty")
	ErrNilFactory    = errors.New("workflow factory cannot be nil")
	ErrNameMismatch  = errors.New("workflow reports a different name than its registration")
)

// Special command tokens rewritten before lookup.
const (
	HelpFlag    = "--help"
	VersionFlag = "--version"
	HelpName    = "help"
	VersionName = "version"
)

// Registration binds a command name to a workflow factory.
type Registration struct {
	Name    string
	Factory Factory
}

// Provider defines read-only access to registered workflows.
type Provider interface {
	// Build returns a fresh workflow for name, or false when name is unknown.
	Build(name string) (Workflow, bool)

	// Names returns all registered names, sorted alphabetically.
	Names() []string
}

// Compile-time check that Registry implements Provider.
var _ Provider = (*Registry)(nil)

// Registry is an immutable name to Registration mapping.
type Registry struct {
	byName map[string]Registration
	names  []string
}

// NewRegistry builds a registry from regs. It fails on the first empty name,
// nil factory, name mismatch or duplicate name.
func NewRegistry(regs ...Registration) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]Registration, len(regs)),
		names:  make([]string, 0, len(regs)),
	}

	for _, reg := range regs {
		if reg.Name == "" {
			return nil, ErrEmptyName
		}
		if reg.Factory == nil {
			return nil, fmt.Errorf("%w: %s", ErrNilFactory, reg.Name)
		}
		if _, exists := r.byName[reg.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, reg.Name)
		}
		probe := reg.Factory()
		if probe == nil {
			return nil, fmt.Errorf("%w: %s returned nil", ErrNilFactory, reg.Name)
		}
		if got := probe.Name(); got != reg.Name {
			return nil, fmt.Errorf("%w: registered %q, reports %q", ErrNameMismatch, reg.Name, got)
		}

		r.byName[reg.Name] = reg
		r.names = append(r.names, reg.Name)
	}

	sort.Strings(r.names)
	log.Debug(log.CatRegistry, "Workflow registry built", "count", len(r.names))
	return r, nil
}

// Build returns a fresh workflow for name. It never normalizes name.
func (r *Registry) Build(name string) (Workflow, bool) {
	reg, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return reg.Factory(), true
}

// BuildAll returns a fresh instance of every registered workflow, keyed by name.
func (r *Registry) BuildAll() map[string]Workflow {
	all := make(map[string]Workflow, len(r.byName))
	for name, reg := range r.byName {
		all[name] = reg.Factory()
	}
	return all
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// IsValid reports whether command, after normalization, names a workflow.
func (r *Registry) IsValid(command string) bool {
	return r.Has(Normalize(command))
}

// Names returns all registered names, sorted alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Normalize rewrites --help and --version to their workflow names.
func Normalize(command string) string {
	switch command {
	case HelpFlag:
		return HelpName
	case VersionFlag:
		return VersionName
	default:
		return command
	}
}
