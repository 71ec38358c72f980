// Package config loads runtime settings from flags, BOOKHUB_* environment
// variables and an optional bookhub.yaml, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const EnvPrefix = "BOOKHUB"

// Keys shared by viper, flags and the config file.
const (
	KeyConfigFile = "config"
	KeyDataDir    = "data_dir"
	KeyDBFile     = "db_file"
	KeyExportDir  = "export_dir"
	KeyBcryptCost = "bcrypt_cost"
	KeyLogLevel   = "log_level"
	KeyLogFormat  = "log_format"
)

type Config struct {
	DataDir    string
	DBFile     string
	ExportDir  string
	BcryptCost int
	LogLevel   string
	LogFormat  string // console or json
}

// DBPath is the database file location.
func (c *Config) DBPath() string { return filepath.Join(c.DataDir, c.DBFile) }

// SetDefaults registers the defaults. They keep the database and the exports
// in the working directory.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDataDir, ".")
	v.SetDefault(KeyDBFile, "library.db")
	v.SetDefault(KeyExportDir, ".")
	v.SetDefault(KeyBcryptCost, bcrypt.DefaultCost)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// Load reads the configuration out of v. Flags must already be bound.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString(KeyConfigFile); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName("bookhub")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{
		DataDir:    v.GetString(KeyDataDir),
		DBFile:     v.GetString(KeyDBFile),
		ExportDir:  v.GetString(KeyExportDir),
		BcryptCost: v.GetInt(KeyBcryptCost),
		LogLevel:   v.GetString(KeyLogLevel),
		LogFormat:  v.GetString(KeyLogFormat),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.DBFile) == "" {
		return errors.New("db_file must not be empty")
	}
	if filepath.Base(c.DBFile) != c.DBFile {
		return fmt.Errorf("db_file %q must be a file name, use data_dir for the directory", c.DBFile)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt_cost %d out of range [%d, %d]", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format %q: want console or json", c.LogFormat)
	}
	return nil
}
