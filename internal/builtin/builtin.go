// Package builtin provides the workflows every arc binary registers: help,
// version and alias.
package builtin

import (
	"context"
	"errors"

	"github.com/zjrosen/arcroute/internal/alias"
	"github.com/zjrosen/arcroute/internal/arguments"
	"github.com/zjrosen/arcroute/internal/workflow"
)

// Errors returned by built-in workflows.
var (
	ErrNoSuchCommand   = errors.New("no such command")
	ErrShadowsCommand  = errors.New("alias would shadow a command")
	ErrAliasesReadOnly = errors.New("aliases are read-only")
	ErrUsage           = errors.New("usage")
)

// AliasWriter persists a complete alias table.
type AliasWriter interface {
	SaveAliases(ctx context.Context, table alias.Table) error
}

// ArgumentSource supplies host-defined flags for a command.
type ArgumentSource interface {
	CustomArguments(command string) map[string]*arguments.FlagSpec
}

// Env is shared by the built-in workflows of one process. Registry is filled
// in after the registry that contains these workflows has been built.
type Env struct {
	Program  string
	Version  string
	Registry workflow.Provider
	Custom   ArgumentSource
	Aliases  alias.Store
	Writer   AliasWriter
}

func (e *Env) program() string {
	if e.Program == "" {
		return "arc"
	}
	return e.Program
}

// Registrations returns the built-in workflows bound to env.
func Registrations(env *Env) []workflow.Registration {
	return []workflow.Registration{
		{Name: workflow.HelpName, Factory: func() workflow.Workflow { return &Help{env: env} }},
		{Name: workflow.VersionName, Factory: func() workflow.Workflow { return &Version{env: env} }},
		{Name: alias.ReservedName, Factory: func() workflow.Workflow { return &Alias{env: env} }},
	}
}
