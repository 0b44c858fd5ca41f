package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "MFDUMP"

// DefaultKeys are the reader keys used when none are configured.
var DefaultKeys = []string{
	"FFFFFFFFFFFF",
	"A0A1A2A3A4A5",
	"D3F7D3F7D3F7",
	"000000000000",
}

// Load reads the configuration from environment variables and, when configFile is not
// empty, from that YAML file. Environment variables take precedence over the file.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("output.dir", ".")
	v.SetDefault("reader.index", 0)
	v.SetDefault("reader.keys", DefaultKeys)
	v.SetDefault("reader.card_size", "auto")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
