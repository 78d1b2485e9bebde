package cmd

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvLog overrides the debug log path.
const EnvLog = "ARC_LOG"

// envSettings holds the process environment arc reads before config.
type envSettings struct {
	// Debug turns on the debug log when non-empty.
	Debug string `env:"ARC_DEBUG"`
	// LogPath takes precedence over log.path in the config file.
	LogPath string `env:"ARC_LOG"`
}

func parseEnv() (envSettings, error) {
	var s envSettings
	if err := env.Parse(&s); err != nil {
		return envSettings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

func (s envSettings) debugEnabled() bool {
	return s.Debug != ""
}

// logPath picks the debug log path: environment, then config, then ./debug.log.
func (s envSettings) logPath(configured string) string {
	switch {
	case s.LogPath != "":
		return s.LogPath
	case configured != "":
		return configured
	default:
		return "debug.log"
	}
}
