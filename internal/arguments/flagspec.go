// Package arguments describes workflow flags and parses an argument list
// against a workflow's own flags merged with host-supplied custom flags.
package arguments

import (
	"errors"
	"strconv"
	"strings"
)

// FlagType defines the value kind of a flag.
type FlagType string

const (
	// FlagTypeBool is a boolean switch (--force).
	FlagTypeBool FlagType = "bool"
	// FlagTypeString is a single string value (--ticket T123).
	FlagTypeString FlagType = "string"
	// FlagTypeInt is an integer value (--limit 5).
	FlagTypeInt FlagType = "int"
	// FlagTypeStrings is a repeatable or comma-separated list (--reviewer a,b).
	FlagTypeStrings FlagType = "strings"
)

// IsValid returns true if the flag type is a known type.
func (t FlagType) IsValid() bool {
	switch t {
	case FlagTypeBool, FlagTypeString, FlagTypeInt, FlagTypeStrings:
		return true
	default:
		return false
	}
}

// FlagSpec errors
var (
	ErrFlagEmptyName      = errors.New("flag name cannot be empty")
	ErrFlagInvalidName    = errors.New("flag name cannot start with '-' or contain spaces")
	ErrFlagInvalidType    = errors.New("flag type must be bool, string, int, or strings")
	ErrFlagBadShorthand   = errors.New("flag shorthand must be a single character")
	ErrFlagInvalidDefault = errors.New("flag default does not match its type")
)

// FlagSpec is one flag in a workflow's argument grammar.
type FlagSpec struct {
	name         string
	shorthand    string
	flagType     FlagType
	usage        string
	defaultValue string
}

// NewFlagSpec creates a validated FlagSpec. An empty flagType means bool.
func NewFlagSpec(name, shorthand string, flagType FlagType, usage, defaultValue string) (*FlagSpec, error) {
	if name == "" {
		return nil, ErrFlagEmptyName
	}
	if strings.HasPrefix(name, "-") || strings.ContainsAny(name, " \t") {
		return nil, ErrFlagInvalidName
	}
	if flagType == "" {
		flagType = FlagTypeBool
	}
	if !flagType.IsValid() {
		return nil, ErrFlagInvalidType
	}
	if len([]rune(shorthand)) > 1 || shorthand == "-" {
		return nil, ErrFlagBadShorthand
	}
	if defaultValue != "" {
		switch flagType {
		case FlagTypeBool:
			if _, err := strconv.ParseBool(defaultValue); err != nil {
				return nil, ErrFlagInvalidDefault
			}
		case FlagTypeInt:
			if _, err := strconv.Atoi(defaultValue); err != nil {
				return nil, ErrFlagInvalidDefault
			}
		}
	}

	return &FlagSpec{
		name:         name,
		shorthand:    shorthand,
		flagType:     flagType,
		usage:        usage,
		defaultValue: defaultValue,
	}, nil
}

// MustFlagSpec is NewFlagSpec for statically known flags; it panics on error.
func MustFlagSpec(name, shorthand string, flagType FlagType, usage, defaultValue string) *FlagSpec {
	spec, err := NewFlagSpec(name, shorthand, flagType, usage, defaultValue)
	if err != nil {
		panic("arguments: flag " + name + ": " + err.Error())
	}
	return spec
}

// Name returns the long flag name without dashes.
func (f *FlagSpec) Name() string {
	return f.name
}

// Shorthand returns the single-letter alias, or "".
func (f *FlagSpec) Shorthand() string {
	return f.shorthand
}

// Type returns the value kind.
func (f *FlagSpec) Type() FlagType {
	return f.flagType
}

// Usage returns the help text.
func (f *FlagSpec) Usage() string {
	return f.usage
}

// DefaultValue returns the raw default value.
func (f *FlagSpec) DefaultValue() string {
	return f.defaultValue
}
