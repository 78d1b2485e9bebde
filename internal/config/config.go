// Package config provides configuration types, defaults, and persistence for arc.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/zjrosen/arcroute/internal/alias"
	"github.com/zjrosen/arcroute/internal/arguments"
	"github.com/zjrosen/arcroute/internal/flags"
	"github.com/zjrosen/arcroute/internal/log"
	"github.com/zjrosen/arcroute/internal/paths"
	"github.com/zjrosen/arcroute/internal/tracing"
)

const (
	// DirName is the per-project config directory.
	DirName = paths.ProjectDir
	// FileName is the config file inside a config directory.
	FileName = "config.yaml"
)

// ArgumentConfig declares one custom flag for a command.
type ArgumentConfig struct {
	Name      string `mapstructure:"name" yaml:"name"`
	Shorthand string `mapstructure:"shorthand" yaml:"shorthand,omitempty"`
	Type      string `mapstructure:"type" yaml:"type,omitempty"` // bool (default), string, int, strings
	Usage     string `mapstructure:"usage" yaml:"usage,omitempty"`
	Default   string `mapstructure:"default" yaml:"default,omitempty"`
}

// Config holds all arc configuration.
type Config struct {
	// Aliases maps an alias name to its tokens. A first token starting with
	// "!" makes it a shell alias. Filled by Sections.Apply, not by viper.
	Aliases map[string][]string `mapstructure:"-"`

	// CustomArguments maps a command name to extra flags merged into its
	// grammar. Filled by Sections.Apply, not by viper.
	CustomArguments map[string][]ArgumentConfig `mapstructure:"-"`

	// Flags overrides feature flag defaults.
	Flags map[string]bool `mapstructure:"flags"`

	Tracing TracingConfig `mapstructure:"tracing"`
	Log     LogConfig     `mapstructure:"log"`
}

// TracingConfig holds distributed tracing configuration for dispatch.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/arc/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// LogConfig controls the debug log.
type LogConfig struct {
	// Path is the debug log file. Empty means ./debug.log when debug is on.
	Path string `mapstructure:"path"`

	// Level is the minimum level written: debug, info, warn, error.
	Level string `mapstructure:"level"`
}

// HomeDir returns ~/.config/arc, or "" if the home dir is unavailable.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "arc")
}

// DefaultPath returns the user config file path.
func DefaultPath() string {
	dir := HomeDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, FileName)
}

// DefaultTracesFilePath returns ~/.config/arc/traces/traces.jsonl or "".
func DefaultTracesFilePath() string {
	dir := HomeDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Aliases:         map[string][]string{},
		CustomArguments: map[string][]ArgumentConfig{},
		Flags:           flags.Defaults(),
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     tracing.ExporterFile,
			FilePath:     "", // Derived from the config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Log: LogConfig{
			Level: "debug",
		},
	}
}

// Validate checks the whole config.
func Validate(c Config) error {
	if err := ValidateAliases(c.Aliases); err != nil {
		return err
	}
	if err := ValidateCustomArguments(c.CustomArguments); err != nil {
		return err
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		return err
	}
	ValidateFlags(c.Flags)
	return nil
}

// ValidateAliases checks every alias entry.
func ValidateAliases(aliases map[string][]string) error {
	for _, name := range sortedKeys(aliases) {
		if err := alias.Validate(name, alias.Entry(aliases[name])); err != nil {
			return fmt.Errorf("aliases.%s: %w", name, err)
		}
	}
	return nil
}

// ValidateCustomArguments checks that each custom flag is well formed and
// that no command declares the same flag twice.
func ValidateCustomArguments(custom map[string][]ArgumentConfig) error {
	for _, command := range sortedKeys(custom) {
		seen := make(map[string]bool, len(custom[command]))
		for i, ac := range custom[command] {
			spec, err := ac.FlagSpec()
			if err != nil {
				return fmt.Errorf("custom_arguments.%s[%d]: %w", command, i, err)
			}
			if seen[spec.Name()] {
				return fmt.Errorf("custom_arguments.%s[%d]: duplicate flag %q", command, i, spec.Name())
			}
			seen[spec.Name()] = true
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(t TracingConfig) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}

	if t.Exporter != "" {
		switch t.Exporter {
		case tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
		}
	}

	if t.Enabled && t.Exporter == tracing.ExporterOTLP && t.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// ValidateFlags logs flag names arc does not know. Unknown flags are kept so
// newer configs still load.
func ValidateFlags(configured map[string]bool) {
	known := flags.Defaults()
	for _, name := range sortedKeys(configured) {
		if _, ok := known[name]; !ok {
			log.Warn(log.CatConfig, "Unknown feature flag in config", "flag", name)
		}
	}
}

// FlagSpec converts the config entry to an argument spec.
func (a ArgumentConfig) FlagSpec() (*arguments.FlagSpec, error) {
	return arguments.NewFlagSpec(a.Name, a.Shorthand, arguments.FlagType(a.Type), a.Usage, a.Default)
}

// AliasTable returns the configured aliases as a table.
func (c Config) AliasTable() alias.Table {
	table := make(alias.Table, len(c.Aliases))
	for name, tokens := range c.Aliases {
		table[name] = append(alias.Entry(nil), tokens...)
	}
	return table
}

// CustomArgumentFlags converts CustomArguments into command -> flag name ->
// spec. Call Validate first; invalid entries are skipped here.
func (c Config) CustomArgumentFlags() map[string]map[string]*arguments.FlagSpec {
	result := make(map[string]map[string]*arguments.FlagSpec, len(c.CustomArguments))
	for command, list := range c.CustomArguments {
		specs := make(map[string]*arguments.FlagSpec, len(list))
		for _, ac := range list {
			spec, err := ac.FlagSpec()
			if err != nil {
				log.Warn(log.CatConfig, "Skipping invalid custom argument", "command", command, "name", ac.Name, "error", err)
				continue
			}
			specs[spec.Name()] = spec
		}
		result[command] = specs
	}
	return result
}

// TracingSettings converts the tracing section for tracing.NewProvider.
func (c Config) TracingSettings() tracing.Config {
	tc := tracing.DefaultConfig()
	tc.Enabled = c.Tracing.Enabled
	if c.Tracing.Exporter != "" {
		tc.Exporter = c.Tracing.Exporter
	}
	tc.FilePath = c.Tracing.FilePath
	if tc.FilePath == "" {
		tc.FilePath = DefaultTracesFilePath()
	}
	if c.Tracing.OTLPEndpoint != "" {
		tc.OTLPEndpoint = c.Tracing.OTLPEndpoint
	}
	tc.SampleRate = c.Tracing.SampleRate
	return tc
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# arc configuration

# Aliases rewrite a typed command. The first token is a command name, or a
# shell command line when it starts with "!". Extra arguments are appended.
aliases: {}
  # dh: [diff, --help]
  # ll: [land, --onto, main]
  # st: ["!git status --short"]

# Extra flags merged into a command's own flags.
custom_arguments: {}
  # diff:
  #   - name: ticket
  #     type: string        # bool (default), string, int, strings
  #     usage: Ticket to attach

# Feature flags
flags:
  strict-commands: false  # Only exact names and aliases resolve
  alias-notices: false    # Print "[alias: ...]" notices to stderr
  shell-aliases: true     # Allow "!" aliases to run shell commands

# Tracing of command resolution
tracing:
  enabled: false
  exporter: file          # none, file, stdout, otlp
  # file_path: ~/.config/arc/traces/traces.jsonl
  # otlp_endpoint: localhost:4317
  sample_rate: 1.0

# Debug log (written only with --debug or ARC_DEBUG=1)
log:
  # path: debug.log
  level: debug
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
