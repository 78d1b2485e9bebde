package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/zjrosen/arcroute/internal/alias"
	"github.com/zjrosen/arcroute/internal/builtin"
	"github.com/zjrosen/arcroute/internal/config"
	"github.com/zjrosen/arcroute/internal/console"
	"github.com/zjrosen/arcroute/internal/dispatch"
	"github.com/zjrosen/arcroute/internal/flags"
	"github.com/zjrosen/arcroute/internal/log"
	"github.com/zjrosen/arcroute/internal/shell"
	"github.com/zjrosen/arcroute/internal/tracing"
	"github.com/zjrosen/arcroute/internal/workflow"
)

var extraWorkflows []workflow.Registration

// RegisterWorkflows adds workflows to every registry built afterwards.
// Binaries embedding arc call it from main before Execute.
func RegisterWorkflows(regs ...workflow.Registration) {
	extraWorkflows = append(extraWorkflows, regs...)
}

// app holds the objects one invocation needs.
type app struct {
	dispatcher *dispatch.Dispatcher
	tracing    *tracing.Provider
}

// newApp wires one invocation. The dispatcher and the alias workflow share
// one alias store, so an alias listed by `arc alias` is the alias that
// resolves.
func newApp(cfg config.Config, configPath string, c *console.Console, globals *globalFlags) (*app, error) {
	file := config.AliasFile{Path: configPath}
	var store alias.Store = alias.StaticStore(cfg.AliasTable())
	if configPath != "" {
		store = file
	}

	custom := dispatch.StaticArguments{Flags: cfg.CustomArgumentFlags()}
	env := &builtin.Env{
		Program: dispatch.DefaultProgram,
		Version: version,
		Custom:  custom,
		Aliases: store,
	}
	if configPath != "" {
		env.Writer = file
	}

	regs := append(builtin.Registrations(env), extraWorkflows...)
	registry, err := workflow.NewRegistry(regs...)
	if err != nil {
		log.ErrorErr(log.CatRegistry, "Workflow registry invalid", err)
		return nil, fmt.Errorf("building workflow registry: %w", err)
	}
	env.Registry = registry
	log.Debug(log.CatRegistry, "Workflows registered", "names", registry.Names())

	configured := cfg.Flags
	if globals.trace {
		configured = make(map[string]bool, len(cfg.Flags)+1)
		for k, v := range cfg.Flags {
			configured[k] = v
		}
		configured[flags.FlagAliasNotices] = true
	}

	tp, err := tracing.NewProvider(cfg.TracingSettings())
	if err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}

	runner := &shell.Runner{
		Shell:  shell.DefaultShell,
		Stdin:  os.Stdin,
		Stdout: c.Out(),
		Stderr: c.Err(),
	}

	d := dispatch.New(registry, store,
		dispatch.WithConsole(c),
		dispatch.WithHooks(dispatch.Chain{custom, dispatch.LoggingHooks{}}),
		dispatch.WithShellRunner(runner),
		dispatch.WithFlags(flags.New(configured)),
		dispatch.WithTracer(tp.Tracer()),
	)
	return &app{dispatcher: d, tracing: tp}, nil
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.tracing.Shutdown(ctx); err != nil {
		log.ErrorErr(log.CatTrace, "Tracing shutdown failed", err)
	}
}
