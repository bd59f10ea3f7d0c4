package depot

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config fixes the capacities of one engine for its whole lifetime.
type Config struct {
	MaxEntities   int           `toml:"max_entities" yaml:"max_entities"`
	MaxComponents int           `toml:"max_components" yaml:"max_components"`
	MaxSystems    int           `toml:"max_systems" yaml:"max_systems"`
	Logging       LoggingConfig `toml:"logging" yaml:"logging"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

func DefaultConfig() Config {
	return Config{
		MaxEntities:   1000,
		MaxComponents: 32,
		MaxSystems:    64,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig reads a TOML or YAML file, picked by extension, over the
// defaults and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = toml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.MaxEntities < 1 {
		return errors.Errorf("max_entities must be positive, got %d", c.MaxEntities)
	}
	if c.MaxComponents < 1 || c.MaxComponents > MaxSignatureWidth {
		return errors.Errorf("max_components must be in [1, %d], got %d", MaxSignatureWidth, c.MaxComponents)
	}
	if c.MaxSystems < 1 {
		return errors.Errorf("max_systems must be positive, got %d", c.MaxSystems)
	}
	return nil
}
