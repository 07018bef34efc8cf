package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTarget = "python"
	DefaultOrder  = "tsp"
	DefaultDelta  = 1e-8
)

// Config carries code generation options for the CLI. It mirrors the
// generation entry points: target language, argument order, requested
// schemes and the Rush-Larsen parameters.
type Config struct {
	Target      string   `yaml:"target"`
	Order       string   `yaml:"order"`
	Schemes     []string `yaml:"schemes"`
	StiffStates []string `yaml:"stiff_states"`
	Delta       float64  `yaml:"delta"`
	Output      string   `yaml:"output"`
}

func DefaultConfig() *Config {
	return &Config{
		Target:  DefaultTarget,
		Order:   DefaultOrder,
		Schemes: []string{"forward_explicit_euler"},
		Delta:   DefaultDelta,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
