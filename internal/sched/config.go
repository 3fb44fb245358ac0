package sched

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	yaml "github.com/goccy/go-yaml"
	"github.com/sirupsen/logrus"
)

// Config mirrors a scheme file such as:
//
//	scheme: 2
//	levels:
//	  - policy: rr
//	    quantum: 2
//	  - policy: stcf
//
// A non-empty Levels list takes precedence over Scheme.
type Config struct {
	Scheme int         `yaml:"scheme"`
	Levels []LevelSpec `yaml:"levels"`
}

// defaultConfig selects the built-in default scheme with no custom levels.
func defaultConfig() Config {
	return Config{
		Scheme: DefaultSchemeID,
	}
}

// Load reads a scheme file over the defaults. An empty path or a missing file
// yields the defaults; unreadable or malformed YAML is an error.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logrus.Warnf("config %s not found, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve returns the scheme the config selects. Unknown scheme ids fall back
// to DefaultSchemeID.
func (c Config) Resolve() Scheme {
	if len(c.Levels) > 0 {
		return Scheme{Name: "custom", Levels: append([]LevelSpec(nil), c.Levels...)}
	}
	if s, ok := SchemeByID(c.Scheme); ok {
		return s
	}
	logrus.Warnf("unknown scheme %d, using scheme %d", c.Scheme, DefaultSchemeID)
	s, _ := SchemeByID(DefaultSchemeID)
	return s
}
