package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zjrosen/arcroute/internal/arguments"
	"github.com/zjrosen/arcroute/internal/workflow"
)

// Kind identifies an Outcome variant.
type Kind int

const (
	// Resolved means a workflow was selected.
	Resolved Kind = iota + 1
	// ShellExited means a shell alias ran and the invocation is over.
	ShellExited
)

func (k Kind) String() string {
	switch k {
	case Resolved:
		return "resolved"
	case ShellExited:
		return "shell-exited"
	default:
		return "invalid"
	}
}

// Stage names the resolution step that produced an Outcome.
type Stage string

const (
	StageExact      Stage = "exact"
	StageAlias      Stage = "alias"
	StageShellAlias Stage = "shell-alias"
	StagePrefix     Stage = "prefix"
	StageSpelling   Stage = "spelling"
)

// Outcome is the result of a successful Resolve.
type Outcome struct {
	Kind Kind

	// Via is the stage that resolved the command.
	Via Stage

	// Workflow is a fresh instance (Resolved only).
	Workflow workflow.Workflow

	// Command is the effective command name. For ShellExited it is the alias.
	Command string

	// Args are the effective arguments.
	Args []string

	// Alias is the alias that was applied, if any.
	Alias string

	// CustomArguments are the host's extra flags for Command (Resolved only).
	CustomArguments map[string]*arguments.FlagSpec

	// ExitCode is the shell alias exit status (ShellExited only).
	ExitCode int
}

// ErrUnknownCommand matches every *UnknownCommandError via errors.Is.
var ErrUnknownCommand = errors.New("unknown command")

// UnknownCommandError reports a command that matched nothing uniquely.
type UnknownCommandError struct {
	// Command is the command as typed.
	Command string

	// Candidates are suggested names, sorted alphabetically. Two or more
	// means the input was ambiguous.
	Candidates []string

	// Program is the executable name used in the help hint.
	Program string
}

func (e *UnknownCommandError) Error() string {
	program := e.Program
	if program == "" {
		program = DefaultProgram
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Unknown command '%s'. Try '%s help'.", e.Command, program)
	if len(e.Candidates) > 0 {
		b.WriteString("\n\nDid you mean:\n")
		for _, name := range e.Candidates {
			b.WriteString("    ")
			b.WriteString(name)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Is reports whether target is ErrUnknownCommand.
func (e *UnknownCommandError) Is(target error) bool {
	return target == ErrUnknownCommand
}

// Ambiguous reports whether more than one candidate matched.
func (e *UnknownCommandError) Ambiguous() bool {
	return len(e.Candidates) > 1
}
