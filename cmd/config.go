package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/zjrosen/arcroute/internal/config"
	"github.com/zjrosen/arcroute/internal/log"
	"github.com/zjrosen/arcroute/internal/paths"
)

// loadConfig reads configuration into a fresh viper instance. It returns the
// decoded config and the path alias edits should be written to.
//
// Lookup order:
//  1. --config
//  2. .arc/config.yaml in the current directory or the nearest parent
//  3. ~/.config/arc/config.yaml (user config, created with defaults if missing)
func loadConfig(cfgFile string) (config.Config, string, error) {
	v := viper.New()
	setDefaults(v)

	projectPath := paths.FindProjectConfig(".", config.FileName)
	switch {
	case cfgFile != "":
		v.SetConfigFile(cfgFile)
	case projectPath != "":
		v.SetConfigFile(projectPath)
	default:
		if dir := config.HomeDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config.Config{}, "", fmt.Errorf("reading config: %w", err)
		}
		// No config anywhere: seed the user config and keep going with
		// defaults if that fails.
		if defaultPath := config.DefaultPath(); defaultPath != "" {
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				v.SetConfigFile(defaultPath)
				_ = v.ReadInConfig()
			}
		}
	}

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return config.Config{}, "", fmt.Errorf("decoding config: %w", err)
	}

	path := v.ConfigFileUsed()
	if path == "" {
		path = config.DefaultPath()
	}
	sections, err := config.ReadSections(path)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("decoding config: %w", err)
	}
	sections.Apply(&cfg)

	if err := config.Validate(cfg); err != nil {
		return config.Config{}, "", fmt.Errorf("invalid configuration: %w", err)
	}
	log.Debug(log.CatConfig, "Config loaded", "path", path, "aliases", len(cfg.Aliases))
	return cfg, path, nil
}

func setDefaults(v *viper.Viper) {
	defaults := config.Defaults()
	for name, enabled := range defaults.Flags {
		v.SetDefault("flags."+name, enabled)
	}
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	v.SetDefault("log.level", defaults.Log.Level)
}
