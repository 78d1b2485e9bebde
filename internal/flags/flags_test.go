package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		registry *Registry
		flag     string
		expected bool
	}{
		{
			name:     "configured flag overrides default",
			registry: New(map[string]bool{FlagStrictCommands: true}),
			flag:     FlagStrictCommands,
			expected: true,
		},
		{
			name:     "default applies when config is silent",
			registry: New(nil),
			flag:     FlagShellAliases,
			expected: true,
		},
		{
			name:     "config can disable a default-on flag",
			registry: New(map[string]bool{FlagShellAliases: false}),
			flag:     FlagShellAliases,
			expected: false,
		},
		{
			name:     "unknown flag returns false",
			registry: New(map[string]bool{"feature-a": true}),
			flag:     "unknown-flag",
			expected: false,
		},
		{
			name:     "extra configured flag is kept",
			registry: New(map[string]bool{"feature-a": true}),
			flag:     "feature-a",
			expected: true,
		},
		{
			name:     "nil registry reports defaults",
			registry: nil,
			flag:     FlagShellAliases,
			expected: true,
		},
		{
			name:     "nil registry unknown flag",
			registry: nil,
			flag:     "any-flag",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.registry.Enabled(tt.flag))
		})
	}
}

func TestRegistry_All_ReturnsCopy(t *testing.T) {
	r := New(map[string]bool{FlagAliasNotices: true})

	all := r.All()
	all[FlagAliasNotices] = false

	require.True(t, r.Enabled(FlagAliasNotices), "mutating All() must not change the registry")
}

func TestNew_DoesNotMutateInput(t *testing.T) {
	configured := map[string]bool{FlagStrictCommands: true}
	_ = New(configured)
	require.Len(t, configured, 1)
}

func TestRegistry_Names(t *testing.T) {
	r := New(map[string]bool{"zeta": true})
	require.Equal(t, []string{FlagAliasNotices, FlagShellAliases, FlagStrictCommands, "zeta"}, r.Names())

	var nilReg *Registry
	require.Len(t, nilReg.Names(), 3)
}
