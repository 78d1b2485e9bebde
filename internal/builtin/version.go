package builtin

import (
	"context"

	"github.com/zjrosen/arcroute/internal/arguments"
	"github.com/zjrosen/arcroute/internal/workflow"
)

// Version prints the build version.
type Version struct {
	env *Env
}

func (v *Version) Name() string { return workflow.VersionName }

func (v *Version) Summary() string { return "Print the version." }

func (v *Version) Arguments() []*arguments.FlagSpec { return nil }

func (v *Version) Run(_ context.Context, inv *workflow.Invocation) (int, error) {
	version := v.env.Version
	if version == "" {
		version = "dev"
	}
	inv.Console.Printf("%s %s\n", v.env.program(), version)
	return 0, nil
}
