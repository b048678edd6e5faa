package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/guichet-numerique/carrousel/pkg/helper"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var envPattern = regexp.MustCompile(`\$\{(\w+)(?::([^}]*))?\}`)

// LoggerConfig represents the logger configuration
type LoggerConfig struct {
	Level      string `yaml:"level"`       // debug, info, warn, error
	Format     string `yaml:"format"`      // json, console
	Output     string `yaml:"output"`      // stdout, file
	FilePath   string `yaml:"file_path"`   // path to log file when output is file
	MaxSize    int    `yaml:"max_size"`    // max size of log file in MB
	MaxBackups int    `yaml:"max_backups"` // max number of backup files
	MaxAge     int    `yaml:"max_age"`     // max age of backup files in days
	Compress   bool   `yaml:"compress"`    // whether to compress backup files
	Color      bool   `yaml:"color"`       // whether to use color in console output
	Stacktrace bool   `yaml:"stacktrace"`  // whether to include stacktrace in error logs
	TimeZone   string `yaml:"time_zone"`   // e.g. "Europe/Paris", default is local
	TimeFormat string `yaml:"time_format"` // default is "2006-01-02 15:04:05"
}

// LoadConfig reads the API server configuration. ${VAR:default} placeholders
// are expanded from the environment (and an optional .env file) before the
// YAML is decoded. Defaults are applied and the result is validated.
func LoadConfig(filename string) (*APIServerConfig, string, error) {
	_ = godotenv.Load()

	cfgPath := helper.GetCfgPath(filename)
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, cfgPath, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, cfgPath, fmt.Errorf("%s: %w", cfgPath, err)
	}
	return cfg, cfgPath, nil
}

// Parse decodes raw YAML into a validated configuration.
func Parse(data []byte) (*APIServerConfig, error) {
	var cfg APIServerConfig
	if err := yaml.Unmarshal(resolveEnv(data), &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveEnv replaces environment variable placeholders in YAML content
func resolveEnv(content []byte) []byte {
	return envPattern.ReplaceAllFunc(content, func(match []byte) []byte {
		m := envPattern.FindSubmatch(match)
		if value, ok := os.LookupEnv(string(m[1])); ok {
			return []byte(value)
		}
		if len(m) > 2 {
			return m[2]
		}
		return nil
	})
}
