package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/arcroute/internal/alias"
	"github.com/zjrosen/arcroute/internal/arguments"
	"github.com/zjrosen/arcroute/internal/flags"
	"github.com/zjrosen/arcroute/internal/tracing"
)

func TestDefaults_AreValid(t *testing.T) {
	require.NoError(t, Validate(Defaults()))
}

func TestDefaults_Values(t *testing.T) {
	cfg := Defaults()
	assert.Empty(t, cfg.Aliases)
	assert.Equal(t, flags.Defaults(), cfg.Flags)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, tracing.ExporterFile, cfg.Tracing.Exporter)
	assert.Equal(t, "localhost:4317", cfg.Tracing.OTLPEndpoint)
	assert.InDelta(t, 1.0, cfg.Tracing.SampleRate, 0.0001)
}

func TestValidateAliases(t *testing.T) {
	tests := []struct {
		name    string
		aliases map[string][]string
		wantErr error
	}{
		{name: "empty", aliases: nil},
		{name: "command alias", aliases: map[string][]string{"dh": {"diff", "--help"}}},
		{name: "shell alias", aliases: map[string][]string{"st": {"!git status"}}},
		{name: "reserved name", aliases: map[string][]string{"alias": {"diff"}}, wantErr: alias.ErrReservedName},
		{name: "empty entry", aliases: map[string][]string{"x": {}}, wantErr: alias.ErrEmptyEntry},
		{name: "bare marker", aliases: map[string][]string{"x": {"!"}}, wantErr: alias.ErrEmptyShell},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAliases(tt.aliases)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			require.Contains(t, err.Error(), "aliases.")
		})
	}
}

func TestValidateCustomArguments(t *testing.T) {
	valid := map[string][]ArgumentConfig{
		"diff": {
			{Name: "ticket", Type: "string", Usage: "ticket to attach"},
			{Name: "draft"},
		},
	}
	require.NoError(t, ValidateCustomArguments(valid))

	badType := map[string][]ArgumentConfig{"diff": {{Name: "ticket", Type: "float"}}}
	err := ValidateCustomArguments(badType)
	require.ErrorIs(t, err, arguments.ErrFlagInvalidType)
	require.Contains(t, err.Error(), "custom_arguments.diff[0]")

	dup := map[string][]ArgumentConfig{"land": {{Name: "keep"}, {Name: "keep"}}}
	err = ValidateCustomArguments(dup)
	require.Error(t, err)
	require.Contains(t, err.Error(), `duplicate flag "keep"`)
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name    string
		cfg     TracingConfig
		wantErr string
	}{
		{name: "defaults", cfg: Defaults().Tracing},
		{name: "sample rate too high", cfg: TracingConfig{SampleRate: 1.5}, wantErr: "sample_rate"},
		{name: "negative sample rate", cfg: TracingConfig{SampleRate: -0.1}, wantErr: "sample_rate"},
		{name: "unknown exporter", cfg: TracingConfig{Exporter: "zipkin"}, wantErr: "tracing.exporter"},
		{name: "otlp without endpoint", cfg: TracingConfig{Enabled: true, Exporter: "otlp"}, wantErr: "otlp_endpoint"},
		{name: "otlp disabled without endpoint", cfg: TracingConfig{Exporter: "otlp"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTracing(tt.cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfig_AliasTable_Copies(t *testing.T) {
	cfg := Config{Aliases: map[string][]string{"dh": {"diff", "--help"}}}

	table := cfg.AliasTable()
	table["dh"][0] = "land"

	assert.Equal(t, "diff", cfg.Aliases["dh"][0])
}

func TestConfig_CustomArgumentFlags(t *testing.T) {
	cfg := Config{CustomArguments: map[string][]ArgumentConfig{
		"diff": {
			{Name: "ticket", Shorthand: "t", Type: "string"},
			{Name: "-bad"},
		},
	}}

	specs := cfg.CustomArgumentFlags()
	require.Len(t, specs["diff"], 1)
	require.Equal(t, "t", specs["diff"]["ticket"].Shorthand())
	require.Equal(t, arguments.FlagTypeString, specs["diff"]["ticket"].Type())
}

func TestConfig_TracingSettings(t *testing.T) {
	cfg := Defaults()
	cfg.Tracing.Enabled = true
	cfg.Tracing.FilePath = "/tmp/traces.jsonl"
	cfg.Tracing.SampleRate = 0.5

	tc := cfg.TracingSettings()
	assert.True(t, tc.Enabled)
	assert.Equal(t, tracing.ExporterFile, tc.Exporter)
	assert.Equal(t, "/tmp/traces.jsonl", tc.FilePath)
	assert.InDelta(t, 0.5, tc.SampleRate, 0.0001)
	assert.Equal(t, tracing.DefaultServiceName, tc.ServiceName)
}

func TestDefaultConfigTemplate_LoadsThroughViper(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, WriteDefaultConfig(configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	v := viper.New()
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	require.NoError(t, Validate(cfg))
	assert.Empty(t, cfg.Aliases)
	assert.True(t, cfg.Flags[flags.FlagShellAliases])
	assert.Equal(t, "file", cfg.Tracing.Exporter)
}

func TestWriteDefaultConfig_CreatesDirectory(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", DirName, FileName)
	require.NoError(t, WriteDefaultConfig(configPath))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# arc configuration")
}
