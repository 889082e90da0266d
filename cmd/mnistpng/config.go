package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the mnistpng configuration file
// (~/.config/mnistpng/config.yaml). Pointer fields distinguish "not set"
// from zero values.
type Config struct {
	OutputDir string `yaml:"output_dir"`
	Randomise *bool  `yaml:"randomise"`
	Number    *int64 `yaml:"number"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	ServerAddress string `yaml:"server_address"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mnistpng", "config.yaml")
}

// LoadConfig reads the config file. Returns a zero Config if the file
// doesn't exist or cannot be parsed.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// applyConvertConfig applies config file defaults to convert command
// variables when the corresponding CLI flag was not explicitly set.
func applyConvertConfig(c *cli.Command, cfg Config) {
	if cfg.OutputDir != "" && !c.IsSet("output") {
		outputPath = cfg.OutputDir
	}
	if cfg.Randomise != nil && !c.IsSet("randomise") {
		randomise = *cfg.Randomise
	}
	if cfg.Number != nil && !c.IsSet("number") {
		limit = *cfg.Number
	}
	applyLoggingConfig(c, cfg)
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	applyLoggingConfig(c, cfg)
}

func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}
