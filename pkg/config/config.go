// Package config loads YAML configuration files into generic key/value
// structures and builds loggers from a logging section.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML file into a generic map.
func Load(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read config file %s", path)
	}

	out := map[string]any{}
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrapf(err, "unable to parse config file %s", path)
	}

	return out, nil
}
