package alias

// Kind identifies the result of an expansion.
type Kind int

const (
	// KindNone means no alias applied; Args are the original args.
	KindNone Kind = iota
	// KindShell means the alias is a shell command line.
	KindShell
	// KindCommand means the alias rewrites to another command.
	KindCommand
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindShell:
		return "shell"
	case KindCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Expansion is the result of Expand.
type Expansion struct {
	Kind Kind

	// Alias is the name that was expanded.
	Alias string

	// Target is the full alias text, marker included, for notices.
	Target string

	// Command is the replacement command (KindCommand).
	Command string

	// ShellLine is the command line to run (KindShell).
	ShellLine string

	// Args are the effective arguments. For KindCommand the alias tokens come
	// first, then the original args. For KindShell and KindNone they are the
	// original args.
	Args []string
}

// Expand looks command up in table. Expansion is single-hop: the result is
// never expanded again.
func Expand(table Table, command string, args []string) Expansion {
	passthrough := Expansion{Kind: KindNone, Args: args}

	if command == ReservedName {
		return passthrough
	}
	e, ok := table[command]
	if !ok || len(e) == 0 {
		return passthrough
	}

	if IsShellAlias(e) {
		return Expansion{
			Kind:      KindShell,
			Alias:     command,
			Target:    e.String(),
			ShellLine: e.ShellLine(),
			Args:      args,
		}
	}

	expanded := make([]string, 0, len(e)-1+len(args))
	expanded = append(expanded, e[1:]...)
	expanded = append(expanded, args...)

	return Expansion{
		Kind:    KindCommand,
		Alias:   command,
		Target:  e.String(),
		Command: e[0],
		Args:    expanded,
	}
}
