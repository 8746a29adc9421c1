package main

import (
	"strings"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg != defaultConfig() {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Mode != modeStream || cfg.Prompt != defaultPrompt {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigReadsFile(t *testing.T) {
	path := writeFile(t, "sun.yaml", "mode: capture\nrecursion_limit: 50\nlog: true\nprompt: \"> \"\n")
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	want := cliConfig{Mode: modeCapture, RecursionLimit: 50, Log: true, Prompt: "> "}
	if cfg != want {
		t.Fatalf("loadConfig = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfigKeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeFile(t, "sun.yaml", "log: true\n")
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if !cfg.Log || cfg.Mode != modeStream || cfg.RecursionLimit != defaultRecursionLimit {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfigAcceptsEmptyFile(t *testing.T) {
	path := writeFile(t, "sun.yaml", "")
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg != defaultConfig() {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{name: "unknown key", content: "colour: red\n", message: "field colour not found"},
		{name: "bad mode", content: "mode: batch\n", message: `mode must be "stream" or "capture"`},
		{name: "negative limit", content: "recursion_limit: -2\n", message: "recursion_limit must not be negative"},
		{name: "malformed", content: "mode: [\n", message: "config: parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "sun.yaml", tt.content)
			_, err := loadConfig(path)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Fatalf("error %q does not mention %q", err.Error(), tt.message)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig("/nonexistent/sun.yaml")
	if err == nil || !strings.Contains(err.Error(), "config: open") {
		t.Fatalf("expected open error, got %v", err)
	}
}
