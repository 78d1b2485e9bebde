package tracing

// Span names.
const (
	SpanResolve = "dispatch.resolve"
	SpanRun     = "dispatch.run"
)

// Span attribute keys.
const (
	AttrInvocationID = "arc.invocation"
	AttrCommand      = "arc.command"
	AttrEffective    = "arc.effective_command"
	AttrStage        = "arc.stage"
	AttrResolved     = "arc.resolved"
	AttrCandidates   = "arc.candidates"
	AttrExitCode     = "arc.exit_code"
	AttrAlias        = "arc.alias"
)

// Span event names.
const (
	EventAliasApplied    = "alias.applied"
	EventShellAlias      = "alias.shell"
	EventSpellingAssumed = "spelling.assumed"
	EventWorkflowAborted = "workflow.aborted"
	EventHelpRequested   = "workflow.help"
)
