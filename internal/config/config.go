// Package config loads client settings. Values come, in increasing
// priority, from built-in defaults, an optional lumiere.yaml, a .env file,
// LUMIERE_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hammamikhairi/lumiere/internal/api"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "LUMIERE"

// Storage backends for the session record.
const (
	StorageFile    = "file"
	StorageKeyring = "keyring"
	StorageMemory  = "memory"
)

// Config is the resolved client configuration.
type Config struct {
	APIURL   string        `mapstructure:"api_url" validate:"required,url"`
	Locale   string        `mapstructure:"locale" validate:"required"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Storage  string        `mapstructure:"storage" validate:"oneof=file keyring memory"`
	DataDir  string        `mapstructure:"data_dir"`
	LogLevel string        `mapstructure:"log_level" validate:"oneof=off quiet none normal info verbose debug"`
	LogFile  string        `mapstructure:"log_file"`
	JSON     bool          `mapstructure:"json"`
}

// flagKeys maps config keys to the flag names that override them.
var flagKeys = map[string]string{
	"api_url":   "api-url",
	"locale":    "locale",
	"timeout":   "timeout",
	"storage":   "storage",
	"data_dir":  "data-dir",
	"log_level": "log-level",
	"log_file":  "log-file",
	"json":      "json",
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none
// are named) into the environment. Missing files are ignored and existing
// variables are never overwritten.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// Load resolves the configuration. configPath names an explicit config
// file; when empty, lumiere.yaml is looked up in the working directory and
// the user config directory, and its absence is not an error. flags may be
// nil; only flags the user actually set take precedence over other sources.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("lumiere")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "lumiere"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_url", api.DefaultBaseURL)
	v.SetDefault("locale", api.DefaultLocale)
	v.SetDefault("timeout", "90s")
	v.SetDefault("storage", StorageFile)
	v.SetDefault("data_dir", "")
	v.SetDefault("log_level", "normal")
	v.SetDefault("log_file", filepath.Join(".lumiere-logs", "lumiere.log"))
	v.SetDefault("json", false)
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "lumiere")
	}
	return ".lumiere"
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s: failed %q check (got %v)", strings.ToLower(fe.Field()), fe.Tag(), fe.Value())
		}
		return err
	}
	return nil
}
