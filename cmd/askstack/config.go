package main

import (
	"os"
	"path/filepath"

	// Packages
	yaml "gopkg.in/yaml.v3"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Config holds the persisted defaults for the chat pipeline. Absent fields
// fall back to sensible values, so a missing file is not an error.
type Config struct {
	DefaultAssistant string  `yaml:"default_assistant,omitempty"`
	SmoothTyping     bool    `yaml:"smooth_typing"`
	TypingSpeed      float64 `yaml:"typing_speed"`
	MockStreaming    bool    `yaml:"mock_streaming,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const configFile = "config.yaml"

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// LoadConfig reads the configuration under dir, creating the directory if
// needed. A missing file yields the defaults.
func LoadConfig(dir string) (*Config, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	config := &Config{
		SmoothTyping: true,
		TypingSpeed:  1.0,
	}

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if os.IsNotExist(err) {
		return config, nil
	} else if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	if config.TypingSpeed < 0 {
		config.TypingSpeed = 0
	}
	return config, nil
}
