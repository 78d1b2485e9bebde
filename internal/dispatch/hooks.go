package dispatch

import (
	"context"
	"maps"

	"github.com/zjrosen/arcroute/internal/arguments"
	"github.com/zjrosen/arcroute/internal/log"
	"github.com/zjrosen/arcroute/internal/workflow"
)

// Hooks lets a host observe and extend workflow execution.
type Hooks interface {
	// WillRun is called immediately before wf runs.
	WillRun(ctx context.Context, command string, wf workflow.Workflow)

	// DidRun is called after wf returns normally.
	DidRun(ctx context.Context, command string, wf workflow.Workflow, exitCode int)

	// DidAbort is called when wf fails with an error or panics.
	DidAbort(ctx context.Context, command string, wf workflow.Workflow, err error)

	// CustomArguments returns extra flags to merge into command's grammar.
	CustomArguments(command string) map[string]*arguments.FlagSpec
}

// NopHooks implements Hooks with no behavior.
type NopHooks struct{}

var _ Hooks = NopHooks{}

func (NopHooks) WillRun(context.Context, string, workflow.Workflow)         {}
func (NopHooks) DidRun(context.Context, string, workflow.Workflow, int)     {}
func (NopHooks) DidAbort(context.Context, string, workflow.Workflow, error) {}
func (NopHooks) CustomArguments(string) map[string]*arguments.FlagSpec      { return nil }

// StaticArguments supplies custom flags from a fixed command to flags table.
type StaticArguments struct {
	NopHooks
	Flags map[string]map[string]*arguments.FlagSpec
}

// CustomArguments returns the flags configured for command.
func (s StaticArguments) CustomArguments(command string) map[string]*arguments.FlagSpec {
	return s.Flags[command]
}

// LoggingHooks writes hook calls to the debug log.
type LoggingHooks struct {
	NopHooks
}

func (LoggingHooks) WillRun(_ context.Context, command string, wf workflow.Workflow) {
	log.Debug(log.CatHooks, "Workflow starting", "command", command, "workflow", wf.Name())
}

func (LoggingHooks) DidRun(_ context.Context, command string, wf workflow.Workflow, exitCode int) {
	log.Debug(log.CatHooks, "Workflow finished", "command", command, "workflow", wf.Name(), "code", exitCode)
}

func (LoggingHooks) DidAbort(_ context.Context, command string, wf workflow.Workflow, err error) {
	log.ErrorErr(log.CatHooks, "Workflow aborted", err, "command", command, "workflow", wf.Name())
}

// Chain runs each hook in order. CustomArguments merges every hook's flags;
// a later hook wins on a name collision.
type Chain []Hooks

var _ Hooks = Chain(nil)

func (c Chain) WillRun(ctx context.Context, command string, wf workflow.Workflow) {
	for _, h := range c {
		h.WillRun(ctx, command, wf)
	}
}

func (c Chain) DidRun(ctx context.Context, command string, wf workflow.Workflow, exitCode int) {
	for _, h := range c {
		h.DidRun(ctx, command, wf, exitCode)
	}
}

func (c Chain) DidAbort(ctx context.Context, command string, wf workflow.Workflow, err error) {
	for _, h := range c {
		h.DidAbort(ctx, command, wf, err)
	}
}

func (c Chain) CustomArguments(command string) map[string]*arguments.FlagSpec {
	var merged map[string]*arguments.FlagSpec
	for _, h := range c {
		extra := h.CustomArguments(command)
		if len(extra) == 0 {
			continue
		}
		if merged == nil {
			merged = make(map[string]*arguments.FlagSpec, len(extra))
		}
		maps.Copy(merged, extra)
	}
	return merged
}
