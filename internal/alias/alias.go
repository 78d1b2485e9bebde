// Package alias expands user-defined command aliases.
//
// An alias maps a name to an ordered token list. When the first token starts
// with ShellMarker the alias is a shell alias and the remaining text is a
// command line for the system shell; otherwise the tokens are a replacement
// command followed by arguments to prepend.
package alias

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ShellMarker prefixes the first token of a shell alias.
const ShellMarker = "!"

// ReservedName is the alias-editing command. An alias with this name is
// never expanded.
const ReservedName = "alias"

// Alias errors
var (
	ErrEmptyName    = errors.New("alias name cannot be empty")
	ErrReservedName = errors.New("alias name is reserved")
	ErrEmptyEntry   = errors.New("alias must expand to at least one token")
	ErrEmptyShell   = errors.New("shell alias has no command line")
	ErrNotFound     = errors.New("alias not found")
)

// Entry is an alias target: [command, arg1, arg2, ...] or a shell line whose
// first token carries ShellMarker.
type Entry []string

// String joins the tokens with spaces, marker included.
func (e Entry) String() string {
	return strings.Join(e, " ")
}

// ShellLine returns the shell command line without the marker.
func (e Entry) ShellLine() string {
	return strings.TrimPrefix(e.String(), ShellMarker)
}

// IsShellAlias reports whether e is a shell alias.
func IsShellAlias(e Entry) bool {
	return len(e) > 0 && strings.HasPrefix(e[0], ShellMarker)
}

// Validate checks that name and e form a usable alias.
func Validate(name string, e Entry) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if name == ReservedName {
		return fmt.Errorf("%w: %q", ErrReservedName, name)
	}
	if len(e) == 0 || strings.TrimSpace(e[0]) == "" {
		return fmt.Errorf("alias %q: %w", name, ErrEmptyEntry)
	}
	if IsShellAlias(e) && strings.TrimSpace(e.ShellLine()) == "" {
		return fmt.Errorf("alias %q: %w", name, ErrEmptyShell)
	}
	return nil
}

// Table is a snapshot of alias name to Entry.
type Table map[string]Entry

// Names returns the alias names, sorted alphabetically.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of t.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for name, e := range t {
		out[name] = append(Entry(nil), e...)
	}
	return out
}

// Set validates and stores an alias, replacing any previous entry.
func (t Table) Set(name string, e Entry) error {
	if err := Validate(name, e); err != nil {
		return err
	}
	t[name] = append(Entry(nil), e...)
	return nil
}

// Remove deletes an alias. It returns ErrNotFound if name is not defined.
func (t Table) Remove(name string) error {
	if _, ok := t[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	delete(t, name)
	return nil
}

// Store is an external source of aliases. The dispatcher reads one snapshot
// per invocation.
type Store interface {
	LoadAliases(ctx context.Context) (Table, error)
}

// StaticStore serves a fixed table.
type StaticStore Table

// LoadAliases returns a copy of the static table.
func (s StaticStore) LoadAliases(context.Context) (Table, error) {
	return Table(s).Clone(), nil
}
