package generator

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultConfigName is the preset used when none is selected.
const DefaultConfigName = "default"

// Config is a named generator preset.
type Config struct {
	Name string `yaml:"-" json:"name"`
	// TriesPerTarget caps the candidates a generator returns per target.
	// Zero means no cap.
	TriesPerTarget int            `yaml:"triesPerTarget" json:"triesPerTarget"`
	Options        map[string]any `yaml:"options" json:"options"`
}

// Map renders the config for mutant metadata.
func (c Config) Map() map[string]any {
	out := map[string]any{"triesPerTarget": c.TriesPerTarget}
	if len(c.Options) > 0 {
		out["options"] = c.Options
	}

	return out
}

// StringOption returns the string option key or def.
func (c Config) StringOption(key, def string) string {
	if v, ok := c.Options[key].(string); ok {
		return v
	}

	return def
}

// StringsOption returns the list option key. YAML lists decode as []any.
func (c Config) StringsOption(key string) []string {
	switch v := c.Options[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}

		return out
	default:
		return nil
	}
}

// Configs is a set of presets keyed by name.
type Configs map[string]Config

// DefaultConfigs returns the built-in presets.
func DefaultConfigs() Configs {
	return Configs{
		DefaultConfigName: {Name: DefaultConfigName},
		"single":          {Name: "single", TriesPerTarget: 1},
	}
}

type configFile struct {
	Configs map[string]Config `yaml:"configs"`
}

// LoadConfigs reads presets from a YAML file of the form
//
//	configs:
//	  name:
//	    triesPerTarget: 4
//	    options: {...}
//
// on top of the defaults. An empty path returns the defaults.
func LoadConfigs(path string) (Configs, error) {
	configs := DefaultConfigs()
	if path == "" {
		return configs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read generator configs: %w", err)
	}

	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse generator configs %s: %w", path, err)
	}

	for name, cfg := range file.Configs {
		cfg.Name = name
		configs[name] = cfg
	}

	return configs, nil
}

// Get returns the preset called name.
func (c Configs) Get(name string) (Config, error) {
	cfg, ok := c[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", ErrConfigNotFound, name)
	}

	return cfg, nil
}

// Names lists the presets in lexical order.
func (c Configs) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
