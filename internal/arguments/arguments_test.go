package arguments

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFlagSpec_Validation(t *testing.T) {
	tests := []struct {
		name      string
		flag      string
		shorthand string
		flagType  FlagType
		def       string
		wantErr   error
	}{
		{name: "empty name", flag: "", flagType: FlagTypeBool, wantErr: ErrFlagEmptyName},
		{name: "leading dash", flag: "--ticket", flagType: FlagTypeString, wantErr: ErrFlagInvalidName},
		{name: "space in name", flag: "my flag", flagType: FlagTypeString, wantErr: ErrFlagInvalidName},
		{name: "invalid type", flag: "ticket", flagType: "float", wantErr: ErrFlagInvalidType},
		{name: "long shorthand", flag: "ticket", shorthand: "tk", flagType: FlagTypeString, wantErr: ErrFlagBadShorthand},
		{name: "bad bool default", flag: "force", flagType: FlagTypeBool, def: "maybe", wantErr: ErrFlagInvalidDefault},
		{name: "bad int default", flag: "limit", flagType: FlagTypeInt, def: "ten", wantErr: ErrFlagInvalidDefault},
		{name: "valid string", flag: "ticket", shorthand: "t", flagType: FlagTypeString, def: "T-1"},
		{name: "valid strings", flag: "reviewer", flagType: FlagTypeStrings, def: "a,b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := NewFlagSpec(tt.flag, tt.shorthand, tt.flagType, "usage", tt.def)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, spec)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.flag, spec.Name())
			require.Equal(t, tt.shorthand, spec.Shorthand())
			require.Equal(t, tt.flagType, spec.Type())
			require.Equal(t, tt.def, spec.DefaultValue())
			require.Equal(t, "usage", spec.Usage())
		})
	}
}

func TestNewFlagSpec_EmptyTypeDefaultsToBool(t *testing.T) {
	spec, err := NewFlagSpec("force", "", "", "", "")
	require.NoError(t, err)
	require.Equal(t, FlagTypeBool, spec.Type())
}

func TestMustFlagSpec_PanicsOnInvalid(t *testing.T) {
	require.Panics(t, func() { MustFlagSpec("", "", FlagTypeBool, "", "") })
}

func TestParse_MergesOwnAndCustomFlags(t *testing.T) {
	own := []*FlagSpec{
		MustFlagSpec("force", "f", FlagTypeBool, "skip checks", ""),
		MustFlagSpec("limit", "", FlagTypeInt, "max items", "5"),
	}
	custom := map[string]*FlagSpec{
		"ticket":   MustFlagSpec("ticket", "t", FlagTypeString, "ticket to attach", ""),
		"reviewer": MustFlagSpec("reviewer", "", FlagTypeStrings, "reviewers", ""),
	}

	parsed, err := Parse("diff", own, custom, []string{"-f", "--ticket", "T-9", "--reviewer", "ann,bo", "HEAD~1"})
	require.NoError(t, err)

	require.True(t, parsed.Bool("force"))
	require.Equal(t, 5, parsed.Int("limit"))
	require.False(t, parsed.Changed("limit"))
	require.Equal(t, "T-9", parsed.String("ticket"))
	require.Equal(t, []string{"ann", "bo"}, parsed.Strings("reviewer"))
	require.Equal(t, []string{"HEAD~1"}, parsed.Positional())
	require.False(t, parsed.HelpRequested())
	require.Contains(t, parsed.Usage(), "--ticket")
}

func TestParse_CustomConflictsWithOwn(t *testing.T) {
	own := []*FlagSpec{MustFlagSpec("force", "f", FlagTypeBool, "", "")}

	_, err := Parse("diff", own, map[string]*FlagSpec{
		"force": MustFlagSpec("force", "", FlagTypeBool, "", ""),
	}, nil)
	require.ErrorIs(t, err, ErrFlagConflict)

	_, err = Parse("diff", own, map[string]*FlagSpec{
		"fast": MustFlagSpec("fast", "f", FlagTypeBool, "", ""),
	}, nil)
	require.ErrorIs(t, err, ErrFlagConflict)
}

func TestParse_HelpIsReportedNotFailed(t *testing.T) {
	parsed, err := Parse("diff", nil, nil, []string{"--help"})
	require.NoError(t, err)
	require.True(t, parsed.HelpRequested())
}

func TestParse_UnknownFlagFails(t *testing.T) {
	_, err := Parse("diff", nil, nil, []string{"--nope"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "diff:")
}

func TestParse_NilCustomEntrySkipped(t *testing.T) {
	parsed, err := Parse("land", nil, map[string]*FlagSpec{"x": nil}, []string{"a"})
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, parsed.Positional())
}
