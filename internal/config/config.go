// Package config loads the settings of the mfdump command.
//
// Values come from defaults, an optional YAML file and MFDUMP_ environment variables,
// in increasing order of precedence. A .env file in the working directory is loaded
// into the environment first when present.
package config

import (
	"encoding/hex"
	"fmt"

	"github.com/gregLibert/mifare-dump/pkg/mifare"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration.
type Config struct {
	Log    LogConfig    `mapstructure:"log" validate:"required"`
	Output OutputConfig `mapstructure:"output" validate:"required"`
	Reader ReaderConfig `mapstructure:"reader" validate:"required"`
}

// LogConfig contains the logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// OutputConfig contains where exported files are written.
type OutputConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

// ReaderConfig contains the PC/SC acquisition settings.
type ReaderConfig struct {
	Index    int      `mapstructure:"index" validate:"gte=0"`
	Keys     []string `mapstructure:"keys" validate:"required,min=1,dive,hexadecimal,len=12"`
	CardSize string   `mapstructure:"card_size" validate:"required,oneof=auto 1K 4K"`
}

// LogLevel returns the logrus level matching Log.Level.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// DecodeKeys decodes the configured reader keys.
func (r ReaderConfig) DecodeKeys() ([][6]byte, error) {
	keys := make([][6]byte, 0, len(r.Keys))
	for _, s := range r.Keys {
		raw, err := hex.DecodeString(s)
		if err != nil || len(raw) != 6 {
			return nil, fmt.Errorf("invalid reader key %q: expected 6 bytes in hex", s)
		}
		var key [6]byte
		copy(key[:], raw)
		keys = append(keys, key)
	}
	return keys, nil
}

// Geometry returns the forced card size, or zero when it must be detected.
func (r ReaderConfig) Geometry() mifare.Geometry {
	switch r.CardSize {
	case "1K":
		return mifare.Geometry1K
	case "4K":
		return mifare.Geometry4K
	default:
		return 0
	}
}
