// Package config loads the simulator settings file.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"localization-field/internal/agent"
)

type Config struct {
	LogLevel    string          `yaml:"log_level"`
	LogEncoding string          `yaml:"log_encoding"`
	Window      WindowConfig    `yaml:"window"`
	Scenario    string          `yaml:"scenario"`
	Landmarks   int             `yaml:"seed_landmarks"`
	Localizer   LocalizerConfig `yaml:"localizer"`
}

type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type LocalizerConfig struct {
	PositionStep float64 `yaml:"position_step"`
	HeadingStep  float64 `yaml:"heading_step"`
	Workers      int     `yaml:"workers"`
}

// Agent converts the section into the localizer's own config.
func (l LocalizerConfig) Agent() agent.Config {
	return agent.Config{
		PositionStep: l.PositionStep,
		HeadingStep:  l.HeadingStep,
		Workers:      l.Workers,
	}
}

func Default() Config {
	return Config{
		LogLevel:    "info",
		LogEncoding: "console",
		Window: WindowConfig{
			Width:  1100,
			Height: 800,
		},
		Scenario:  "assets/field.yaml",
		Landmarks: 3,
		Localizer: LocalizerConfig{
			PositionStep: agent.DefaultPositionStep,
			HeadingStep:  agent.DefaultHeadingStep,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		return cfg, errors.Errorf("window size %dx%d must be positive", cfg.Window.Width, cfg.Window.Height)
	}
	return cfg, nil
}
