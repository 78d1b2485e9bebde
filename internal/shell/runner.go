// Package shell runs shell-alias command lines as child processes that
// inherit the caller's standard streams.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/zjrosen/arcroute/internal/log"
)

// DefaultShell interprets alias command lines.
const DefaultShell = "/bin/sh"

// Runner executes command lines through a POSIX shell.
type Runner struct {
	Shell  string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns a runner bound to the process's standard streams.
func New() *Runner {
	return &Runner{
		Shell:  DefaultShell,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes line with args appended as quoted words, waits for the child
// and returns its exit status. While the child runs the caller ignores
// interrupts, which the terminal already delivers to the child's process
// group, and forwards terminate signals to the child.
// The error is non-nil only when the child could not be started.
func (r *Runner) Run(ctx context.Context, line string, args []string) (int, error) {
	full := CommandLine(line, args)
	sh := r.Shell
	if sh == "" {
		sh = DefaultShell
	}

	cmd := exec.CommandContext(ctx, sh, "-c", full) //nolint:gosec // G204: running the user's own alias is the point
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	log.Debug(log.CatExec, "Starting shell alias", "shell", sh, "line", full)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	if err := cmd.Start(); err != nil {
		log.ErrorErr(log.CatExec, "Failed to start shell alias", err, "line", full)
		return 1, fmt.Errorf("starting %q: %w", full, err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case sig := <-sigs:
				if forwarded(sig) {
					_ = cmd.Process.Signal(sig)
				}
			case <-done:
				return
			}
		}
	}()

	code := exitCode(cmd.Wait())
	log.Debug(log.CatExec, "Shell alias exited", "line", full, "code", code)
	return code, nil
}

// forwarded reports whether sig is passed on to the child. SIGINT is not:
// a Ctrl-C reaches the whole foreground process group, child included.
func forwarded(sig os.Signal) bool {
	return sig != os.Interrupt
}

// exitCode maps a Wait result to a process status. A child killed by a
// signal reports 128+signal, as shells do.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return 128 + int(status.Signal())
		}
		return exitErr.ExitCode()
	}
	return 1
}

// CommandLine appends each arg to line as a single-quoted shell word.
func CommandLine(line string, args []string) string {
	if len(args) == 0 {
		return line
	}
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = Quote(a)
	}
	return line + " " + strings.Join(quoted, " ")
}

// Quote wraps s in single quotes and escapes any embedded single quotes for
// POSIX shells.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
