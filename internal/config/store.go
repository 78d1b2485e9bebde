package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/arcroute/internal/log"
)

// Sections holds the config sections whose keys are user-chosen names:
// alias names and command names. Viper folds keys to lower case, reads "." as
// a key path and splits scalars on commas, so these sections are decoded from
// the file with yaml.v3 and keep names and tokens exactly as written.
type Sections struct {
	Aliases         map[string]aliasEntry       `yaml:"aliases"`
	CustomArguments map[string][]ArgumentConfig `yaml:"custom_arguments"`
}

// ReadSections decodes the name-keyed sections of the config file at path.
// A missing file yields empty sections.
func ReadSections(path string) (Sections, error) {
	if path == "" {
		return Sections{}, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Sections{}, nil
	}
	if err != nil {
		return Sections{}, fmt.Errorf("reading config: %w", err)
	}

	var s Sections
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Sections{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	log.Debug(log.CatConfig, "Read config sections", "path", path,
		"aliases", len(s.Aliases), "custom_arguments", len(s.CustomArguments))
	return s, nil
}

// Apply copies the sections into c, replacing its aliases and custom
// arguments.
func (s Sections) Apply(c *Config) {
	c.Aliases = make(map[string][]string, len(s.Aliases))
	for name, tokens := range s.Aliases {
		c.Aliases[name] = append([]string(nil), tokens...)
	}
	c.CustomArguments = make(map[string][]ArgumentConfig, len(s.CustomArguments))
	for command, list := range s.CustomArguments {
		c.CustomArguments[command] = append([]ArgumentConfig(nil), list...)
	}
}
