// Package console is the output sink shared by the dispatcher and workflows.
// Styling is applied through a lipgloss renderer bound to each stream, so
// output written to files, pipes or test buffers stays plain text.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette colors.
var (
	NoticeColor  = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BBBBBB"}
	ErrorColor   = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF8787"}
	HeadingColor = lipgloss.AdaptiveColor{Light: "#0055AA", Dark: "#54A0FF"}
)

// Console writes user-facing output to an out and an err stream.
type Console struct {
	out io.Writer
	err io.Writer

	noticeStyle  lipgloss.Style
	errorStyle   lipgloss.Style
	headingStyle lipgloss.Style
	nameStyle    lipgloss.Style
}

// New creates a console over the given streams.
func New(out, err io.Writer) *Console {
	outR := lipgloss.NewRenderer(out)
	errR := lipgloss.NewRenderer(err)

	return &Console{
		out:          out,
		err:          err,
		noticeStyle:  errR.NewStyle().Foreground(NoticeColor),
		errorStyle:   errR.NewStyle().Foreground(ErrorColor).Bold(true),
		headingStyle: outR.NewStyle().Foreground(HeadingColor).Bold(true),
		nameStyle:    outR.NewStyle().Bold(true),
	}
}

// Stdio returns a console bound to the process streams.
func Stdio() *Console {
	return New(os.Stdout, os.Stderr)
}

// Discard returns a console that drops everything.
func Discard() *Console {
	return New(io.Discard, io.Discard)
}

// Out returns the standard output stream.
func (c *Console) Out() io.Writer {
	return c.out
}

// Err returns the error stream.
func (c *Console) Err() io.Writer {
	return c.err
}

// Printf writes formatted text to the output stream.
func (c *Console) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

// Println writes a line to the output stream.
func (c *Console) Println(args ...any) {
	_, _ = fmt.Fprintln(c.out, args...)
}

// Notice writes an informational line to the error stream.
func (c *Console) Notice(format string, args ...any) {
	_, _ = fmt.Fprintln(c.err, c.noticeStyle.Render(fmt.Sprintf(format, args...)))
}

// Error writes an error message to the error stream, ending it with exactly
// one newline.
func (c *Console) Error(msg string) {
	_, _ = fmt.Fprintln(c.err, c.errorStyle.Render(strings.TrimSuffix(msg, "\n")))
}

// Heading renders s as a section heading for the output stream.
func (c *Console) Heading(s string) string {
	return c.headingStyle.Render(s)
}

// Name renders a command or flag name for the output stream.
func (c *Console) Name(s string) string {
	return c.nameStyle.Render(s)
}
