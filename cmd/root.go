package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zjrosen/arcroute/internal/console"
	"github.com/zjrosen/arcroute/internal/log"
	"github.com/zjrosen/arcroute/internal/workflow"
)

var version = "dev"

// ExitError carries a non-zero exit status out of the root command. Err is
// nil when the status alone is the result (a failing workflow or shell alias
// that already reported to the user).
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// globalFlags are parsed before the command name. Parsing stops at the first
// non-flag so everything after the command belongs to the workflow.
type globalFlags struct {
	fs       *pflag.FlagSet
	cfgFile  string
	debug    bool
	trace    bool
	help     bool
	showVers bool
}

func newGlobalFlags() *globalFlags {
	g := &globalFlags{fs: pflag.NewFlagSet("arc", pflag.ContinueOnError)}
	g.fs.SetInterspersed(false)
	g.fs.SetOutput(io.Discard)

	g.fs.StringVarP(&g.cfgFile, "config", "c", "", "config file (default: ./.arc/config.yaml, then ~/.config/arc/config.yaml)")
	g.fs.BoolVarP(&g.debug, "debug", "d", false, "write a debug log (also "+log.EnvDebug+"=1)")
	g.fs.BoolVar(&g.trace, "trace", false, "print alias notices while resolving the command")
	g.fs.BoolVarP(&g.help, "help", "h", false, "show help")
	g.fs.BoolVar(&g.showVers, "version", false, "show version")
	return g
}

// command splits the remaining arguments into the typed command and its
// arguments. --help and --version before the command become the command.
func (g *globalFlags) command() (string, []string) {
	rest := g.fs.Args()
	switch {
	case g.help:
		return workflow.HelpFlag, rest
	case g.showVers:
		return workflow.VersionFlag, rest
	case len(rest) == 0:
		return workflow.HelpName, nil
	default:
		return rest[0], rest[1:]
	}
}

func newRootCmd(c *console.Console) *cobra.Command {
	root := &cobra.Command{
		Use:   "arc [global flags] <command> [args]",
		Short: "Resolve and run arc workflows",
		Long: `arc resolves the typed command to a workflow, trying in order an exact
name, a user alias, a unique prefix and a spelling correction, then runs it.

Global flags:
` + newGlobalFlags().fs.FlagUsages(),
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDispatch(cmd.Context(), c, args)
		},
	}
	root.SetOut(c.Out())
	root.SetErr(c.Err())
	return root
}

func runDispatch(ctx context.Context, c *console.Console, args []string) error {
	globals := newGlobalFlags()
	if err := globals.fs.Parse(args); err != nil {
		return &ExitError{Code: 2, Err: fmt.Errorf("%w\nRun '%s help' for usage", err, "arc")}
	}

	cfg, configPath, err := loadConfig(globals.cfgFile)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	envs, err := parseEnv()
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	if envs.debugEnabled() || globals.debug {
		cleanup, err := log.Init(envs.logPath(cfg.Log.Path))
		if err != nil {
			return &ExitError{Code: 1, Err: fmt.Errorf("initializing logging: %w", err)}
		}
		defer cleanup()
		log.SetMinLevel(log.ParseLevel(cfg.Log.Level))
		log.Info(log.CatConfig, "arc starting", "version", version, "config", configPath)
	}

	app, err := newApp(cfg, configPath, c, globals)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}
	defer app.close()

	command, rest := globals.command()
	code, err := app.dispatcher.Run(ctx, command, rest)
	if err != nil || code != 0 {
		return &ExitError{Code: code, Err: err}
	}
	return nil
}

// Execute runs arc with the process arguments and returns the exit status.
// main is the only caller that exits the process.
func Execute() int {
	return ExecuteArgs(context.Background(), os.Args[1:], console.Stdio())
}

// ExecuteArgs runs arc with args, writing to c.
func ExecuteArgs(ctx context.Context, args []string, c *console.Console) int {
	root := newRootCmd(c)
	root.SetArgs(args)
	return exitStatus(c, root.ExecuteContext(ctx))
}

func exitStatus(c *console.Console, err error) int {
	if err == nil {
		return 0
	}

	code := 1
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
		err = exitErr.Err
	}
	if err != nil {
		c.Error(err.Error())
	}
	if code == 0 {
		code = 1
	}
	return code
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
}
