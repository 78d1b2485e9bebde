package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/zjrosen/arcroute/internal/arguments"
	"github.com/zjrosen/arcroute/internal/workflow"
)

// Help lists commands, or the flags of one command.
type Help struct {
	env *Env
}

func (h *Help) Name() string { return workflow.HelpName }

func (h *Help) Summary() string { return "Show available commands, or the flags of one command." }

func (h *Help) Arguments() []*arguments.FlagSpec { return nil }

func (h *Help) Run(_ context.Context, inv *workflow.Invocation) (int, error) {
	if h.env.Registry == nil {
		return 1, fmt.Errorf("help: no registry")
	}

	positional := inv.Flags.Positional()
	if len(positional) == 0 {
		h.list(inv)
		return 0, nil
	}
	return h.describe(inv, workflow.Normalize(positional[0]))
}

func (h *Help) list(inv *workflow.Invocation) {
	c := inv.Console
	names := h.env.Registry.Names()

	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	c.Printf("%s %s <command> [flags] [args]\n\n", c.Heading("usage:"), h.env.program())
	c.Printf("%s\n", c.Heading("commands:"))
	for _, name := range names {
		wf, ok := h.env.Registry.Build(name)
		if !ok {
			continue
		}
		pad := strings.Repeat(" ", width-len(name))
		c.Printf("  %s%s  %s\n", c.Name(name), pad, wf.Summary())
	}
	c.Printf("\nRun '%s help <command>' for the flags of one command.\n", h.env.program())
}

func (h *Help) describe(inv *workflow.Invocation, name string) (int, error) {
	wf, ok := h.env.Registry.Build(name)
	if !ok {
		return 1, fmt.Errorf("help: %w: %q", ErrNoSuchCommand, name)
	}

	var custom map[string]*arguments.FlagSpec
	if h.env.Custom != nil {
		custom = h.env.Custom.CustomArguments(name)
	}
	fs, err := arguments.NewFlagSet(name, wf.Arguments(), custom)
	if err != nil {
		return 1, fmt.Errorf("help: %w", err)
	}

	c := inv.Console
	c.Printf("%s %s %s\n\n  %s\n", c.Heading("usage:"), h.env.program(), name, wf.Summary())
	if usage := fs.FlagUsages(); usage != "" {
		c.Printf("\n%s\n%s", c.Heading("flags:"), usage)
	}
	return 0, nil
}
