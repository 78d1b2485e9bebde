// Package dispatch resolves a typed command to a workflow and runs it.
//
// # Resolution order
//
// Resolve tries, in order, and stops at the first success:
//
//  1. exact name (after rewriting --help and --version),
//  2. user alias: a shell alias runs a child process and ends the
//     invocation; a command alias is looked up exactly, once,
//  3. unique prefix of a registered name,
//  4. unique spelling correction, only when no name has the prefix.
//
// Anything else is an *UnknownCommandError carrying the sorted candidates of
// whichever suggestion stage produced some.
//
// # Outcomes
//
// A successful Resolve returns an Outcome that is either Resolved (a fresh
// workflow plus the effective command and arguments) or ShellExited (the exit
// status of a shell alias). The dispatcher never exits the process; the
// caller that owns the process turns ShellExited into an exit status.
//
// # Hooks
//
// Hosts customize dispatch by passing a Hooks implementation. Embed NopHooks
// to override only some methods.
package dispatch
