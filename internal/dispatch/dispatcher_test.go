package dispatch

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/arcroute/internal/alias"
	"github.com/zjrosen/arcroute/internal/arguments"
	"github.com/zjrosen/arcroute/internal/console"
	"github.com/zjrosen/arcroute/internal/flags"
	"github.com/zjrosen/arcroute/internal/shell"
	"github.com/zjrosen/arcroute/internal/suggest"
	"github.com/zjrosen/arcroute/internal/workflow"
)

type testWorkflow struct {
	name string
	args []*arguments.FlagSpec
	run  func(ctx context.Context, inv *workflow.Invocation) (int, error)
}

func (w *testWorkflow) Name() string                     { return w.name }
func (w *testWorkflow) Summary() string                  { return "test " + w.name }
func (w *testWorkflow) Arguments() []*arguments.FlagSpec { return w.args }
func (w *testWorkflow) Run(ctx context.Context, inv *workflow.Invocation) (int, error) {
	if w.run == nil {
		return 0, nil
	}
	return w.run(ctx, inv)
}

func reg(name string) workflow.Registration {
	return workflow.Registration{Name: name, Factory: func() workflow.Workflow { return &testWorkflow{name: name} }}
}

func newRegistry(t testing.TB, names ...string) *workflow.Registry {
	t.Helper()
	regs := make([]workflow.Registration, 0, len(names))
	for _, n := range names {
		regs = append(regs, reg(n))
	}
	r, err := workflow.NewRegistry(regs...)
	require.NoError(t, err)
	return r
}

type recordingShell struct {
	calls []string
	args  [][]string
	code  int
	err   error
}

func (s *recordingShell) Run(_ context.Context, line string, args []string) (int, error) {
	s.calls = append(s.calls, line)
	s.args = append(s.args, args)
	return s.code, s.err
}

type countingCorrector struct {
	calls  int
	result []string
}

func (c *countingCorrector) Correct(string, []string) []string {
	c.calls++
	return c.result
}

type failingStore struct{}

func (failingStore) LoadAliases(context.Context) (alias.Table, error) {
	return nil, errors.New("config unreadable")
}

func quietConsole() (*console.Console, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return console.New(&out, &errOut), &out, &errOut
}

func newDispatcher(t testing.TB, names []string, table alias.Table, opts ...Option) *Dispatcher {
	t.Helper()
	c, _, _ := quietConsole()
	base := []Option{WithConsole(c), WithShellRunner(&recordingShell{})}
	return New(newRegistry(t, names...), alias.StaticStore(table), append(base, opts...)...)
}

var defaultNames = []string{"diff", "help", "land", "version"}

func TestResolve_ExactReturnsFreshInstances(t *testing.T) {
	d := newDispatcher(t, defaultNames, nil)

	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.SampledFrom(defaultNames).Draw(rt, "name")

		first, err := d.Resolve(context.Background(), name, nil)
		require.NoError(rt, err)
		second, err := d.Resolve(context.Background(), name, nil)
		require.NoError(rt, err)

		require.Equal(rt, Resolved, first.Kind)
		require.Equal(rt, StageExact, first.Via)
		require.Equal(rt, name, first.Command)
		require.NotSame(rt, first.Workflow, second.Workflow)
	})
}

func TestResolve_HelpAndVersionFlagsNormalize(t *testing.T) {
	d := newDispatcher(t, defaultNames, nil)

	rapid.Check(t, func(rt *rapid.T) {
		pair := rapid.SampledFrom([][2]string{{"--help", "help"}, {"--version", "version"}}).Draw(rt, "pair")
		args := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,5}`), 0, 3).Draw(rt, "args")

		flagged, err := d.Resolve(context.Background(), pair[0], args)
		require.NoError(rt, err)
		plain, err := d.Resolve(context.Background(), pair[1], args)
		require.NoError(rt, err)

		require.Equal(rt, plain.Kind, flagged.Kind)
		require.Equal(rt, plain.Via, flagged.Via)
		require.Equal(rt, plain.Command, flagged.Command)
		require.Equal(rt, plain.Args, flagged.Args)
		require.Equal(rt, plain.Workflow.Name(), flagged.Workflow.Name())
	})
}

func TestResolve_ExactBeatsAlias(t *testing.T) {
	sh := &recordingShell{}
	d := newDispatcher(t, defaultNames, alias.Table{
		"land": {"diff"},
		"diff": {"!echo shadowed"},
	}, WithShellRunner(sh))

	out, err := d.Resolve(context.Background(), "land", []string{"x"})
	require.NoError(t, err)
	require.Equal(t, StageExact, out.Via)
	require.Equal(t, "land", out.Command)
	require.Equal(t, []string{"x"}, out.Args)

	out, err = d.Resolve(context.Background(), "diff", nil)
	require.NoError(t, err)
	require.Equal(t, Resolved, out.Kind)
	require.Empty(t, sh.calls)
}

func TestResolve_UniquePrefix(t *testing.T) {
	tests := []struct {
		name     string
		names    []string
		input    string
		expected string
	}{
		{name: "d among four", names: defaultNames, input: "d", expected: "diff"},
		{name: "l among two", names: []string{"diff", "land"}, input: "l", expected: "land"},
		{name: "longer prefix", names: []string{"land", "lint"}, input: "li", expected: "lint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDispatcher(t, tt.names, nil)
			out, err := d.Resolve(context.Background(), tt.input, []string{"--flag"})
			require.NoError(t, err)
			require.Equal(t, StagePrefix, out.Via)
			require.Equal(t, tt.expected, out.Command)
			require.Equal(t, tt.expected, out.Workflow.Name())
			require.Equal(t, []string{"--flag"}, out.Args)
		})
	}
}

func TestResolve_UnknownWithoutCandidates(t *testing.T) {
	d := newDispatcher(t, []string{"diff", "land"}, nil)

	_, err := d.Resolve(context.Background(), "xyz", nil)
	require.ErrorIs(t, err, ErrUnknownCommand)

	var unknown *UnknownCommandError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "xyz", unknown.Command)
	require.Empty(t, unknown.Candidates)
	require.False(t, unknown.Ambiguous())
	require.Equal(t, "Unknown command 'xyz'. Try 'arc help'.", err.Error())
}

func TestResolve_ShellAlias(t *testing.T) {
	sh := &recordingShell{}
	d := newDispatcher(t, defaultNames, alias.Table{"foo": {"!echo", "ok"}}, WithShellRunner(sh))

	out, err := d.Resolve(context.Background(), "foo", []string{"bar"})
	require.NoError(t, err)
	require.Equal(t, ShellExited, out.Kind)
	require.Equal(t, StageShellAlias, out.Via)
	require.Equal(t, 0, out.ExitCode)
	require.Nil(t, out.Workflow)

	require.Equal(t, []string{"echo ok"}, sh.calls)
	require.Equal(t, [][]string{{"bar"}}, sh.args)
	require.Equal(t, "echo ok 'bar'", shell.CommandLine(sh.calls[0], sh.args[0]))
}

func TestResolve_ShellAliasExitCode(t *testing.T) {
	sh := &recordingShell{code: 3}
	d := newDispatcher(t, defaultNames, alias.Table{"st": {"!git status"}}, WithShellRunner(sh))

	code, err := d.Run(context.Background(), "st", nil)
	require.NoError(t, err)
	require.Equal(t, 3, code)
}

func TestResolve_ShellAliasStartFailure(t *testing.T) {
	sh := &recordingShell{code: 1, err: errors.New("no shell")}
	d := newDispatcher(t, defaultNames, alias.Table{"st": {"!git status"}}, WithShellRunner(sh))

	_, err := d.Resolve(context.Background(), "st", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), `"st"`)
}

func TestResolve_ShellAliasesDisabled(t *testing.T) {
	sh := &recordingShell{}
	d := newDispatcher(t, defaultNames, alias.Table{"foo": {"!echo ok"}},
		WithShellRunner(sh),
		WithCorrector(&countingCorrector{}),
		WithFlags(flags.New(map[string]bool{flags.FlagShellAliases: false})),
	)

	_, err := d.Resolve(context.Background(), "foo", nil)
	require.ErrorIs(t, err, ErrUnknownCommand)
	require.Empty(t, sh.calls)
}

func TestResolve_CommandAlias(t *testing.T) {
	d := newDispatcher(t, defaultNames, alias.Table{
		"dh": {"diff", "--help"},
		"ll": {"land", "--onto", "main"},
	})

	out, err := d.Resolve(context.Background(), "dh", nil)
	require.NoError(t, err)
	require.Equal(t, StageAlias, out.Via)
	require.Equal(t, "diff", out.Command)
	require.Equal(t, "dh", out.Alias)
	require.Equal(t, []string{"--help"}, out.Args)

	out, err = d.Resolve(context.Background(), "ll", []string{"--keep"})
	require.NoError(t, err)
	require.Equal(t, "land", out.Command)
	require.Equal(t, []string{"--onto", "main", "--keep"}, out.Args)
}

func TestResolve_AliasTargetIsNotChained(t *testing.T) {
	corrector := &countingCorrector{}
	d := newDispatcher(t, defaultNames, alias.Table{
		"a": {"b"},
		"b": {"diff"},
	}, WithCorrector(corrector))

	_, err := d.Resolve(context.Background(), "a", nil)
	require.ErrorIs(t, err, ErrUnknownCommand)

	// The target is looked up exactly; "dif" is not prefix-resolved.
	d = newDispatcher(t, defaultNames, alias.Table{"x": {"dif"}}, WithCorrector(corrector))
	_, err = d.Resolve(context.Background(), "x", nil)
	require.ErrorIs(t, err, ErrUnknownCommand)
}

func TestResolve_AliasTargetIsNotNormalized(t *testing.T) {
	d := newDispatcher(t, defaultNames, alias.Table{"hh": {"--help"}}, WithCorrector(&countingCorrector{}))

	_, err := d.Resolve(context.Background(), "hh", nil)
	require.ErrorIs(t, err, ErrUnknownCommand)
}

func TestResolve_AliasNotice(t *testing.T) {
	c, _, errOut := quietConsole()
	d := newDispatcher(t, defaultNames, alias.Table{"dh": {"diff", "--help"}},
		WithConsole(c),
		WithFlags(flags.New(map[string]bool{flags.FlagAliasNotices: true})),
	)

	_, err := d.Resolve(context.Background(), "dh", nil)
	require.NoError(t, err)
	require.Contains(t, errOut.String(), "[alias: 'arc dh' -> 'arc diff --help']")
}

func TestResolve_AliasNoticeQuietByDefault(t *testing.T) {
	c, _, errOut := quietConsole()
	d := newDispatcher(t, defaultNames, alias.Table{"dh": {"diff"}}, WithConsole(c))

	_, err := d.Resolve(context.Background(), "dh", nil)
	require.NoError(t, err)
	require.Empty(t, errOut.String())
}

func TestResolve_AliasLoadError(t *testing.T) {
	c, _, _ := quietConsole()
	d := New(newRegistry(t, defaultNames...), failingStore{}, WithConsole(c))

	// Exact names never touch the alias store.
	_, err := d.Resolve(context.Background(), "diff", nil)
	require.NoError(t, err)

	_, err = d.Resolve(context.Background(), "dh", nil)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUnknownCommand)
	require.Contains(t, err.Error(), "config unreadable")
}

func TestResolve_SpellingCorrection(t *testing.T) {
	c, _, errOut := quietConsole()
	d := newDispatcher(t, defaultNames, nil, WithConsole(c))

	out, err := d.Resolve(context.Background(), "hlep", []string{"diff"})
	require.NoError(t, err)
	require.Equal(t, StageSpelling, out.Via)
	require.Equal(t, "help", out.Command)
	require.Equal(t, []string{"diff"}, out.Args)
	require.Contains(t, errOut.String(), "(Assuming 'hlep' is the British spelling of 'help'.)")
}

func TestResolve_AmbiguousPrefixSkipsSpelling(t *testing.T) {
	corrector := &countingCorrector{result: []string{"h1"}}
	d := newDispatcher(t, []string{"h1", "h2"}, nil, WithCorrector(corrector))

	_, err := d.Resolve(context.Background(), "h", nil)

	var unknown *UnknownCommandError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, []string{"h1", "h2"}, unknown.Candidates)
	require.True(t, unknown.Ambiguous())
	require.Zero(t, corrector.calls)
}

func TestResolve_SpellingOnlyWithoutPrefixCandidates(t *testing.T) {
	corrector := &countingCorrector{result: []string{"help"}}
	d := newDispatcher(t, defaultNames, nil, WithCorrector(corrector))

	out, err := d.Resolve(context.Background(), "hlep", nil)
	require.NoError(t, err)
	require.Equal(t, "help", out.Command)
	require.Equal(t, 1, corrector.calls)
}

func TestResolve_AmbiguousSpelling(t *testing.T) {
	corrector := &countingCorrector{result: []string{"lint", "land"}}
	d := newDispatcher(t, []string{"diff", "land", "lint"}, nil, WithCorrector(corrector))

	_, err := d.Resolve(context.Background(), "lant", nil)

	var unknown *UnknownCommandError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, []string{"land", "lint"}, unknown.Candidates)
	require.Equal(t, "Unknown command 'lant'. Try 'arc help'.\n\nDid you mean:\n    land\n    lint\n", err.Error())
}

func TestResolve_StrictCommands(t *testing.T) {
	corrector := &countingCorrector{result: []string{"diff"}}
	d := newDispatcher(t, defaultNames, alias.Table{"dd": {"diff"}},
		WithCorrector(corrector),
		WithFlags(flags.New(map[string]bool{flags.FlagStrictCommands: true})),
	)

	out, err := d.Resolve(context.Background(), "dd", nil)
	require.NoError(t, err)
	require.Equal(t, "diff", out.Command)

	_, err = d.Resolve(context.Background(), "d", nil)
	var unknown *UnknownCommandError
	require.ErrorAs(t, err, &unknown)
	require.Empty(t, unknown.Candidates)
	require.Zero(t, corrector.calls)
}

func TestResolve_IsDeterministic(t *testing.T) {
	d := newDispatcher(t, []string{"diff", "help", "land", "lint", "version"}, alias.Table{"dh": {"diff", "--help"}})

	rapid.Check(t, func(rt *rapid.T) {
		command := rapid.StringMatching(`[a-z]{0,6}`).Draw(rt, "command")

		first, firstErr := d.Resolve(context.Background(), command, nil)
		second, secondErr := d.Resolve(context.Background(), command, nil)

		require.Equal(rt, firstErr, secondErr)
		require.Equal(rt, first.Kind, second.Kind)
		require.Equal(rt, first.Command, second.Command)
		require.Equal(rt, first.Args, second.Args)
	})
}

func TestResolve_CustomArguments(t *testing.T) {
	spec := arguments.MustFlagSpec("ticket", "", arguments.FlagTypeString, "ticket id", "")
	hooks := StaticArguments{Flags: map[string]map[string]*arguments.FlagSpec{
		"diff": {"ticket": spec},
	}}
	d := newDispatcher(t, defaultNames, nil, WithHooks(hooks))

	out, err := d.Resolve(context.Background(), "dif", nil)
	require.NoError(t, err)
	require.Equal(t, map[string]*arguments.FlagSpec{"ticket": spec}, out.CustomArguments)

	out, err = d.Resolve(context.Background(), "land", nil)
	require.NoError(t, err)
	require.Nil(t, out.CustomArguments)
}

func TestSpellingCorrectorIsDefault(t *testing.T) {
	d := New(newRegistry(t, "diff"), nil)
	_, ok := d.corrector.(*suggest.SpellingCorrector)
	require.True(t, ok)
}
