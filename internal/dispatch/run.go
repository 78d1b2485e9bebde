package dispatch

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/arcroute/internal/arguments"
	"github.com/zjrosen/arcroute/internal/log"
	"github.com/zjrosen/arcroute/internal/tracing"
	"github.com/zjrosen/arcroute/internal/workflow"
)

// Run resolves command and executes the result. It returns the process exit
// status the caller should use; a non-nil error always comes with a non-zero
// status.
func (d *Dispatcher) Run(ctx context.Context, command string, args []string) (int, error) {
	out, err := d.Resolve(ctx, command, args)
	if err != nil {
		return 1, err
	}
	if out.Kind == ShellExited {
		return out.ExitCode, nil
	}
	return d.Execute(ctx, out)
}

// Execute runs a Resolved outcome: it parses the effective arguments against
// the workflow's grammar plus the host's custom arguments, then runs the
// workflow between the WillRun and DidRun hooks. A failing or panicking
// workflow triggers DidAbort; a panic is re-raised after the hook returns.
func (d *Dispatcher) Execute(ctx context.Context, out Outcome) (code int, err error) {
	if out.Kind != Resolved || out.Workflow == nil {
		return 1, fmt.Errorf("execute: outcome %s has no workflow", out.Kind)
	}
	wf := out.Workflow

	parsed, err := arguments.Parse(out.Command, wf.Arguments(), out.CustomArguments, out.Args)
	if err != nil {
		return 1, err
	}

	ctx, span := d.tracer.Start(ctx, tracing.SpanRun, trace.WithAttributes(
		attribute.String(tracing.AttrEffective, out.Command),
	))
	defer span.End()

	if parsed.HelpRequested() {
		span.AddEvent(tracing.EventHelpRequested)
		d.printUsage(wf, out.Command, parsed)
		return 0, nil
	}

	inv := &workflow.Invocation{
		Command: out.Command,
		Args:    out.Args,
		Flags:   parsed,
		Console: d.console,
	}

	d.hooks.WillRun(ctx, out.Command, wf)

	defer func() {
		if r := recover(); r != nil {
			perr := fmt.Errorf("workflow %s panicked: %v", wf.Name(), r)
			span.AddEvent(tracing.EventWorkflowAborted)
			span.SetStatus(codes.Error, perr.Error())
			log.Error(log.CatExec, "Workflow panicked", "command", out.Command, "panic", r)
			d.hooks.DidAbort(ctx, out.Command, wf, perr)
			panic(r)
		}
	}()

	code, err = wf.Run(ctx, inv)
	if err != nil {
		if code == 0 {
			code = 1
		}
		span.AddEvent(tracing.EventWorkflowAborted)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Int(tracing.AttrExitCode, code))
		d.hooks.DidAbort(ctx, out.Command, wf, err)
		return code, err
	}

	span.SetAttributes(attribute.Int(tracing.AttrExitCode, code))
	d.hooks.DidRun(ctx, out.Command, wf, code)
	return code, nil
}

func (d *Dispatcher) printUsage(wf workflow.Workflow, command string, parsed *arguments.Parsed) {
	d.console.Printf("%s %s %s\n", d.console.Heading("usage:"), d.program, command)
	if summary := wf.Summary(); summary != "" {
		d.console.Printf("\n  %s\n", summary)
	}
	if usage := parsed.Usage(); usage != "" {
		d.console.Printf("\n%s\n%s", d.console.Heading("flags:"), usage)
	}
}
