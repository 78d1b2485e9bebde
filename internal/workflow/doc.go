// Package workflow defines the Workflow contract and the process-wide
// registry of named workflows.
//
// # Registration
//
// Workflows are registered explicitly. Each Registration pairs a unique name
// with a Factory that returns a fresh Workflow. NewRegistry validates the whole
// table at once and refuses duplicates, so a bad table fails at startup before
// any command is resolved.
//
// # Fresh instances
//
// Registry.Build calls the factory on every lookup. Workflows may keep
// per-invocation state in their fields without leaking it into a later
// resolution of the same name.
//
// # Normalization
//
// Normalize rewrites the literal tokens --help and --version to help and
// version. The dispatcher applies it exactly once, to the typed command only.
package workflow
