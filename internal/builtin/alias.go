package builtin

import (
	"context"
	"fmt"

	"github.com/zjrosen/arcroute/internal/alias"
	"github.com/zjrosen/arcroute/internal/arguments"
	"github.com/zjrosen/arcroute/internal/log"
	"github.com/zjrosen/arcroute/internal/workflow"
)

const flagRemove = "remove"

// Alias lists, shows, sets and removes user aliases.
//
//	arc alias                      list
//	arc alias <name>               show
//	arc alias <name> -- <tokens>   set
//	arc alias --remove <name>      remove
type Alias struct {
	env *Env
}

func (a *Alias) Name() string { return alias.ReservedName }

func (a *Alias) Summary() string { return "List, show, set or remove command aliases." }

func (a *Alias) Arguments() []*arguments.FlagSpec {
	return []*arguments.FlagSpec{
		arguments.MustFlagSpec(flagRemove, "r", arguments.FlagTypeBool, "remove the named alias", ""),
	}
}

func (a *Alias) Run(ctx context.Context, inv *workflow.Invocation) (int, error) {
	if a.env.Aliases == nil {
		return 1, fmt.Errorf("alias: no alias store")
	}
	table, err := a.env.Aliases.LoadAliases(ctx)
	if err != nil {
		return 1, fmt.Errorf("alias: %w", err)
	}

	positional := inv.Flags.Positional()
	if inv.Flags.Bool(flagRemove) {
		if len(positional) != 1 {
			return 1, fmt.Errorf("alias: %w: %s alias --remove <name>", ErrUsage, a.env.program())
		}
		return a.remove(ctx, inv, table, positional[0])
	}

	switch len(positional) {
	case 0:
		a.list(inv, table)
		return 0, nil
	case 1:
		return a.show(inv, table, positional[0]), nil
	default:
		return a.set(ctx, inv, table, positional[0], alias.Entry(positional[1:]))
	}
}

func (a *Alias) list(inv *workflow.Invocation, table alias.Table) {
	if len(table) == 0 {
		inv.Console.Printf("You haven't defined any aliases yet.\n")
		return
	}
	for _, name := range table.Names() {
		inv.Console.Printf("  %s -> %s\n", inv.Console.Name(a.quoted(name)), a.describe(table[name]))
	}
}

func (a *Alias) show(inv *workflow.Invocation, table alias.Table, name string) int {
	entry, ok := table[name]
	if !ok {
		inv.Console.Printf("'%s' is not an alias.\n", name)
		return 1
	}
	inv.Console.Printf("%s -> %s\n", a.quoted(name), a.describe(entry))
	return 0
}

func (a *Alias) set(ctx context.Context, inv *workflow.Invocation, table alias.Table, name string, entry alias.Entry) (int, error) {
	if a.env.Writer == nil {
		return 1, fmt.Errorf("alias: %w", ErrAliasesReadOnly)
	}
	if a.env.Registry != nil {
		if _, exists := a.env.Registry.Build(name); exists {
			return 1, fmt.Errorf("alias: %w: '%s %s' always runs that command", ErrShadowsCommand, a.env.program(), name)
		}
	}
	if err := table.Set(name, entry); err != nil {
		return 1, fmt.Errorf("alias: %w", err)
	}
	if err := a.env.Writer.SaveAliases(ctx, table); err != nil {
		return 1, fmt.Errorf("alias: saving: %w", err)
	}

	log.Info(log.CatAlias, "Alias saved", "alias", name, "target", entry.String())
	inv.Console.Printf("Aliased %s to %s.\n", a.quoted(name), a.describe(entry))
	return 0, nil
}

func (a *Alias) remove(ctx context.Context, inv *workflow.Invocation, table alias.Table, name string) (int, error) {
	if a.env.Writer == nil {
		return 1, fmt.Errorf("alias: %w", ErrAliasesReadOnly)
	}
	if err := table.Remove(name); err != nil {
		return 1, fmt.Errorf("alias: %w", err)
	}
	if err := a.env.Writer.SaveAliases(ctx, table); err != nil {
		return 1, fmt.Errorf("alias: saving: %w", err)
	}

	log.Info(log.CatAlias, "Alias removed", "alias", name)
	inv.Console.Printf("Removed alias %s.\n", a.quoted(name))
	return 0, nil
}

func (a *Alias) quoted(name string) string {
	return fmt.Sprintf("'%s %s'", a.env.program(), name)
}

func (a *Alias) describe(e alias.Entry) string {
	if alias.IsShellAlias(e) {
		return "$ " + e.ShellLine()
	}
	return fmt.Sprintf("'%s %s'", a.env.program(), e.String())
}
