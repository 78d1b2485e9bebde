package arguments

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// ErrFlagConflict is returned when a custom flag redefines a workflow flag.
var ErrFlagConflict = errors.New("custom flag conflicts with workflow flag")

// Parsed is the result of parsing an argument list.
type Parsed struct {
	fs            *pflag.FlagSet
	helpRequested bool
}

// NewFlagSet builds the merged flag set for command. Custom flags are added in
// name order after the workflow's own flags and may not reuse their names or
// shorthands.
func NewFlagSet(command string, own []*FlagSpec, custom map[string]*FlagSpec) (*pflag.FlagSet, error) {
	fs := pflag.NewFlagSet(command, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = true

	for _, spec := range own {
		if err := define(fs, spec); err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, len(custom))
	for name := range custom {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := custom[name]
		if spec == nil {
			continue
		}
		if err := define(fs, spec); err != nil {
			return nil, err
		}
	}

	return fs, nil
}

func define(fs *pflag.FlagSet, spec *FlagSpec) error {
	if fs.Lookup(spec.Name()) != nil {
		return fmt.Errorf("%w: --%s", ErrFlagConflict, spec.Name())
	}
	if spec.Shorthand() != "" && fs.ShorthandLookup(spec.Shorthand()) != nil {
		return fmt.Errorf("%w: -%s", ErrFlagConflict, spec.Shorthand())
	}

	switch spec.Type() {
	case FlagTypeBool:
		def, _ := strconv.ParseBool(spec.DefaultValue())
		fs.BoolP(spec.Name(), spec.Shorthand(), def, spec.Usage())
	case FlagTypeString:
		fs.StringP(spec.Name(), spec.Shorthand(), spec.DefaultValue(), spec.Usage())
	case FlagTypeInt:
		def, _ := strconv.Atoi(spec.DefaultValue())
		fs.IntP(spec.Name(), spec.Shorthand(), def, spec.Usage())
	case FlagTypeStrings:
		var def []string
		if spec.DefaultValue() != "" {
			def = strings.Split(spec.DefaultValue(), ",")
		}
		fs.StringSliceP(spec.Name(), spec.Shorthand(), def, spec.Usage())
	default:
		return fmt.Errorf("flag --%s: %w", spec.Name(), ErrFlagInvalidType)
	}
	return nil
}

// Parse parses args for command against the merged grammar.
// A -h/--help that the grammar does not define marks the result as a help
// request instead of failing.
func Parse(command string, own []*FlagSpec, custom map[string]*FlagSpec, args []string) (*Parsed, error) {
	fs, err := NewFlagSet(command, own, custom)
	if err != nil {
		return nil, err
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return &Parsed{fs: fs, helpRequested: true}, nil
		}
		return nil, fmt.Errorf("%s: %w", command, err)
	}
	return &Parsed{fs: fs}, nil
}

// HelpRequested reports whether -h/--help was passed.
func (p *Parsed) HelpRequested() bool {
	return p.helpRequested
}

// Positional returns the non-flag arguments.
func (p *Parsed) Positional() []string {
	return p.fs.Args()
}

// Changed reports whether the flag was set on the command line.
func (p *Parsed) Changed(name string) bool {
	return p.fs.Changed(name)
}

// Bool returns a bool flag value, false if undefined.
func (p *Parsed) Bool(name string) bool {
	v, _ := p.fs.GetBool(name)
	return v
}

// String returns a string flag value, "" if undefined.
func (p *Parsed) String(name string) string {
	v, _ := p.fs.GetString(name)
	return v
}

// Int returns an int flag value, 0 if undefined.
func (p *Parsed) Int(name string) int {
	v, _ := p.fs.GetInt(name)
	return v
}

// Strings returns a list flag value, nil if undefined.
func (p *Parsed) Strings(name string) []string {
	v, _ := p.fs.GetStringSlice(name)
	return v
}

// Usage renders the flag table of the merged grammar.
func (p *Parsed) Usage() string {
	return p.fs.FlagUsages()
}
