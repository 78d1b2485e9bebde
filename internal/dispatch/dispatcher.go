package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/arcroute/internal/alias"
	"github.com/zjrosen/arcroute/internal/console"
	"github.com/zjrosen/arcroute/internal/flags"
	"github.com/zjrosen/arcroute/internal/log"
	"github.com/zjrosen/arcroute/internal/shell"
	"github.com/zjrosen/arcroute/internal/suggest"
	"github.com/zjrosen/arcroute/internal/tracing"
	"github.com/zjrosen/arcroute/internal/workflow"
)

// DefaultProgram is the executable name used in user-facing messages.
const DefaultProgram = "arc"

// ShellRunner runs a shell alias and returns its exit status.
type ShellRunner interface {
	Run(ctx context.Context, line string, args []string) (int, error)
}

var _ ShellRunner = (*shell.Runner)(nil)

// Dispatcher resolves commands against a workflow registry and an alias store.
type Dispatcher struct {
	registry  workflow.Provider
	aliases   alias.Store
	hooks     Hooks
	console   *console.Console
	shell     ShellRunner
	corrector suggest.Corrector
	tracer    trace.Tracer
	flags     *flags.Registry
	program   string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithHooks sets the host hooks. Nil keeps NopHooks.
func WithHooks(h Hooks) Option {
	return func(d *Dispatcher) {
		if h != nil {
			d.hooks = h
		}
	}
}

// WithConsole sets where notices and workflow output go.
func WithConsole(c *console.Console) Option {
	return func(d *Dispatcher) {
		if c != nil {
			d.console = c
		}
	}
}

// WithShellRunner replaces the process runner used for shell aliases.
func WithShellRunner(r ShellRunner) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.shell = r
		}
	}
}

// WithCorrector replaces the spelling corrector.
func WithCorrector(c suggest.Corrector) Option {
	return func(d *Dispatcher) {
		if c != nil {
			d.corrector = c
		}
	}
}

// WithTracer records resolve and run spans on t.
func WithTracer(t trace.Tracer) Option {
	return func(d *Dispatcher) {
		if t != nil {
			d.tracer = t
		}
	}
}

// WithFlags sets the feature flags consulted during resolution.
func WithFlags(f *flags.Registry) Option {
	return func(d *Dispatcher) {
		d.flags = f
	}
}

// WithProgram sets the executable name shown in messages.
func WithProgram(name string) Option {
	return func(d *Dispatcher) {
		if name != "" {
			d.program = name
		}
	}
}

// New creates a Dispatcher. A nil alias store behaves as an empty table.
func New(registry workflow.Provider, aliases alias.Store, opts ...Option) *Dispatcher {
	if aliases == nil {
		aliases = alias.StaticStore(nil)
	}
	d := &Dispatcher{
		registry:  registry,
		aliases:   aliases,
		hooks:     NopHooks{},
		console:   console.Stdio(),
		shell:     shell.New(),
		corrector: suggest.NewCommandCorrector(),
		tracer:    noop.NewTracerProvider().Tracer(tracing.DefaultServiceName),
		program:   DefaultProgram,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Resolve maps command and args to an Outcome.
//
// Resolution is deterministic for a fixed registry, alias table and
// corrector. The only side effects are notices on the console and, for a
// shell alias, the child process.
func (d *Dispatcher) Resolve(ctx context.Context, command string, args []string) (Outcome, error) {
	invocation := uuid.NewString()
	ctx, span := d.tracer.Start(ctx, tracing.SpanResolve, trace.WithAttributes(
		attribute.String(tracing.AttrInvocationID, invocation),
		attribute.String(tracing.AttrCommand, command),
	))
	defer span.End()

	out, err := d.resolve(ctx, span, invocation, command, args)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool(tracing.AttrResolved, false))
		return Outcome{}, err
	}

	span.SetAttributes(
		attribute.Bool(tracing.AttrResolved, true),
		attribute.String(tracing.AttrStage, string(out.Via)),
		attribute.String(tracing.AttrEffective, out.Command),
	)
	return out, nil
}

func (d *Dispatcher) resolve(ctx context.Context, span trace.Span, invocation, command string, args []string) (Outcome, error) {
	// Only the typed command is normalized; alias targets are taken as written.
	command = workflow.Normalize(command)

	if wf, ok := d.registry.Build(command); ok {
		log.Debug(log.CatResolve, "Resolved exactly", "invocation", invocation, "command", command)
		return d.resolved(StageExact, wf, command, args, ""), nil
	}

	table, err := d.aliases.LoadAliases(ctx)
	if err != nil {
		log.ErrorErr(log.CatAlias, "Alias load failed", err, "invocation", invocation)
		return Outcome{}, fmt.Errorf("loading aliases: %w", err)
	}

	exp := alias.Expand(table, command, args)
	switch exp.Kind {
	case alias.KindShell:
		if d.flags.Enabled(flags.FlagShellAliases) {
			return d.runShellAlias(ctx, span, invocation, exp)
		}
		log.Warn(log.CatAlias, "Shell alias ignored", "invocation", invocation, "alias", exp.Alias)

	case alias.KindCommand:
		if wf, ok := d.registry.Build(exp.Command); ok {
			d.aliasNotice("[alias: '%s %s' -> '%s %s']", d.program, exp.Alias, d.program, exp.Target)
			span.AddEvent(tracing.EventAliasApplied, trace.WithAttributes(
				attribute.String(tracing.AttrAlias, exp.Alias),
			))
			log.Info(log.CatAlias, "Alias applied", "invocation", invocation, "alias", exp.Alias, "target", exp.Target)
			return d.resolved(StageAlias, wf, exp.Command, exp.Args, exp.Alias), nil
		}
		// Aliases never chain; an unresolvable target falls through to
		// suggestions for the command as typed.
		log.Debug(log.CatAlias, "Alias target unresolved", "invocation", invocation, "alias", exp.Alias, "target", exp.Command)
	}

	if d.flags.Enabled(flags.FlagStrictCommands) {
		return Outcome{}, d.unknown(command, nil)
	}

	names := d.registry.Names()

	prefixed := suggest.ByPrefix(command, names)
	switch len(prefixed) {
	case 1:
		wf, ok := d.registry.Build(prefixed[0])
		if !ok {
			return Outcome{}, d.unknown(command, nil)
		}
		log.Debug(log.CatResolve, "Resolved by prefix", "invocation", invocation, "command", command, "name", prefixed[0])
		return d.resolved(StagePrefix, wf, prefixed[0], args, ""), nil
	case 0:
	default:
		// Ambiguous prefixes are reported as-is; spelling is not consulted.
		span.SetAttributes(attribute.StringSlice(tracing.AttrCandidates, prefixed))
		return Outcome{}, d.unknown(command, prefixed)
	}

	corrected := suggest.BySpelling(d.corrector, command, names)
	if len(corrected) == 1 {
		wf, ok := d.registry.Build(corrected[0])
		if !ok {
			return Outcome{}, d.unknown(command, nil)
		}
		d.console.Notice("(Assuming '%s' is the British spelling of '%s'.)", command, corrected[0])
		span.AddEvent(tracing.EventSpellingAssumed)
		log.Info(log.CatResolve, "Spelling corrected", "invocation", invocation, "typed", command, "name", corrected[0])
		return d.resolved(StageSpelling, wf, corrected[0], args, ""), nil
	}

	if len(corrected) > 0 {
		span.SetAttributes(attribute.StringSlice(tracing.AttrCandidates, corrected))
	}
	return Outcome{}, d.unknown(command, corrected)
}

func (d *Dispatcher) runShellAlias(ctx context.Context, span trace.Span, invocation string, exp alias.Expansion) (Outcome, error) {
	d.aliasNotice("[alias: '%s %s' -> $ %s]", d.program, exp.Alias, strings.TrimSpace(exp.ShellLine))
	span.AddEvent(tracing.EventShellAlias, trace.WithAttributes(
		attribute.String(tracing.AttrAlias, exp.Alias),
	))
	log.Info(log.CatExec, "Running shell alias", "invocation", invocation, "alias", exp.Alias, "line", exp.ShellLine)

	code, err := d.shell.Run(ctx, exp.ShellLine, exp.Args)
	if err != nil {
		return Outcome{}, fmt.Errorf("running shell alias %q: %w", exp.Alias, err)
	}

	span.SetAttributes(attribute.Int(tracing.AttrExitCode, code))
	log.Debug(log.CatExec, "Shell alias exited", "invocation", invocation, "alias", exp.Alias, "code", code)
	return Outcome{
		Kind:     ShellExited,
		Via:      StageShellAlias,
		Command:  exp.Alias,
		Args:     exp.Args,
		Alias:    exp.Alias,
		ExitCode: code,
	}, nil
}

func (d *Dispatcher) resolved(via Stage, wf workflow.Workflow, command string, args []string, aliasName string) Outcome {
	return Outcome{
		Kind:            Resolved,
		Via:             via,
		Workflow:        wf,
		Command:         command,
		Args:            args,
		Alias:           aliasName,
		CustomArguments: d.hooks.CustomArguments(command),
	}
}

func (d *Dispatcher) unknown(command string, candidates []string) error {
	log.Debug(log.CatResolve, "Unknown command", "command", command, "candidates", candidates)
	return &UnknownCommandError{Command: command, Candidates: candidates, Program: d.program}
}

// aliasNotice always logs; it reaches stderr only with FlagAliasNotices.
func (d *Dispatcher) aliasNotice(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Debug(log.CatAlias, msg)
	if d.flags.Enabled(flags.FlagAliasNotices) {
		d.console.Notice("%s", msg)
	}
}
