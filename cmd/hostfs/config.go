package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/hostfs/host"
)

// config describes the hostfs YAML configuration.
type config struct {
	Root       string `yaml:"root"`
	Mountpoint string `yaml:"mountpoint"`
	Platform   string `yaml:"platform"`
	LogLevel   string `yaml:"log_level"`
	Allocator  string `yaml:"allocator"`
	Metrics    struct {
		Addr      string `yaml:"addr"`
		Path      string `yaml:"path"`
		Namespace string `yaml:"namespace"`
	} `yaml:"metrics"`
}

// loadConfig reads the configuration file. An empty path yields the defaults.
func loadConfig(path string) (config, error) {
	var cfg config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if cfg.Mountpoint == "" {
		cfg.Mountpoint = "/"
	}
	if cfg.Platform == "" {
		cfg.Platform = "auto"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Allocator == "" {
		cfg.Allocator = "heap"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "hostfs"
	}
	return cfg, nil
}

// validate checks the configuration after flags have been applied.
func (c config) validate() error {
	if c.Root == "" {
		return fmt.Errorf("root is required")
	}
	if _, ok := host.ParsePlatform(c.Platform); !ok {
		return fmt.Errorf("unknown platform %q", c.Platform)
	}
	switch c.Allocator {
	case "heap", "linear":
	default:
		return fmt.Errorf("unknown allocator %q", c.Allocator)
	}
	return nil
}
