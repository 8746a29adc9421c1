package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	modeStream  = "stream"
	modeCapture = "capture"

	defaultRecursionLimit = 10000
	defaultPrompt         = "sun> "
)

// cliConfig is the optional YAML file accepted by -config. Flags given on
// the command line take precedence over it.
type cliConfig struct {
	Mode           string `yaml:"mode"`
	RecursionLimit int    `yaml:"recursion_limit"`
	Log            bool   `yaml:"log"`
	Prompt         string `yaml:"prompt"`
}

func defaultConfig() cliConfig {
	return cliConfig{
		Mode:           modeStream,
		RecursionLimit: defaultRecursionLimit,
		Prompt:         defaultPrompt,
	}
}

func loadConfig(path string) (cliConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return cfg, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return cfg, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", absPath, err)
	}
	return cfg, nil
}

func (c cliConfig) validate() error {
	switch c.Mode {
	case modeStream, modeCapture:
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", modeStream, modeCapture, c.Mode)
	}
	if c.RecursionLimit < 0 {
		return fmt.Errorf("recursion_limit must not be negative")
	}
	return nil
}
