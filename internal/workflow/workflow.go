package workflow

import (
	"context"

	"github.com/zjrosen/arcroute/internal/arguments"
	"github.com/zjrosen/arcroute/internal/console"
)

// Workflow is a named handler for one command.
type Workflow interface {
	// Name returns the command name the workflow is registered under.
	Name() string

	// Summary returns a one-line description for help output.
	Summary() string

	// Arguments returns the workflow's own flag grammar.
	Arguments() []*arguments.FlagSpec

	// Run executes the workflow and returns its exit code.
	Run(ctx context.Context, inv *Invocation) (int, error)
}

// Factory builds a fresh Workflow instance.
type Factory func() Workflow

// Invocation carries the effective command line into a workflow run.
type Invocation struct {
	// Command is the effective command (after alias, prefix or spelling resolution).
	Command string

	// Args is the effective raw argument list.
	Args []string

	// Flags is Args parsed against the workflow's merged grammar.
	Flags *arguments.Parsed

	// Console is where the workflow writes user-facing output.
	Console *console.Console
}
