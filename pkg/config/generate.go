package config

import (
	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

// ToTOML renders the effective configuration for `aka --show-config`.
func (c *Config) ToTOML() (string, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return string(out), nil
}
