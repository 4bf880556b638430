package config

import (
	"fmt"
	"os"

	"github.com/san-kum/primal/internal/primal"
	"gopkg.in/yaml.v3"
)

const (
	DefaultOut     = "primal_results.csv"
	DefaultWorkers = 4
)

// Config describes one sweep: the perturbation grid and the per-model run
// settings. The zero flags CLI runs DefaultConfig unchanged.
type Config struct {
	Out     string        `yaml:"out"`
	Workers int           `yaml:"workers"`
	Modes   []string      `yaml:"modes"`
	Alphas  []float64     `yaml:"alphas"`
	Lambdas []float64     `yaml:"lambdas"`
	Models  []ModelConfig `yaml:"models"`
}

// ModelConfig fixes one model's initial state and integration settings for
// every run in the sweep.
type ModelConfig struct {
	Name   string             `yaml:"name"`
	Init   []float64          `yaml:"init"`
	Dt     float64            `yaml:"dt"`
	Steps  int                `yaml:"steps"`
	Params map[string]float64 `yaml:"params"`
}

func DefaultConfig() *Config {
	return &Config{
		Out:     DefaultOut,
		Workers: DefaultWorkers,
		Modes:   []string{"residual", "parammod", "control", "timewarp"},
		Alphas:  []float64{0, 0.05, 0.1},
		Lambdas: []float64{0.5, 1.0, 2.0},
		Models: []ModelConfig{
			{Name: "mm", Init: []float64{1.0, 0.0}, Dt: 1e-3, Steps: 10000},
			{Name: "sir", Init: []float64{999, 1, 0}, Dt: 1e-2, Steps: 10000},
			{Name: "fhn", Init: []float64{-1.0, 1.0}, Dt: 1e-2, Steps: 5000},
			{Name: "nernst", Init: []float64{0.0}, Dt: 1e-3, Steps: 5000},
			{Name: "poiseuille", Init: []float64{0.0}, Dt: 1e-4, Steps: 5000},
		},
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

// ParsedModes resolves the mode names into the closed mode set.
func (c *Config) ParsedModes() ([]primal.Mode, error) {
	modes := make([]primal.Mode, 0, len(c.Modes))
	for _, name := range c.Modes {
		m, err := primal.ParseMode(name)
		if err != nil {
			return nil, err
		}
		modes = append(modes, m)
	}
	return modes, nil
}

// Validate catches config mistakes before a long sweep starts.
func (c *Config) Validate() error {
	if len(c.Modes) == 0 || len(c.Alphas) == 0 || len(c.Lambdas) == 0 {
		return fmt.Errorf("config: empty perturbation grid")
	}
	if len(c.Models) == 0 {
		return fmt.Errorf("config: no models to sweep")
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1, got %d", c.Workers)
	}
	for _, m := range c.Models {
		if m.Steps < 0 {
			return fmt.Errorf("config: model %s has negative step count", m.Name)
		}
	}
	if _, err := c.ParsedModes(); err != nil {
		return err
	}
	return nil
}
