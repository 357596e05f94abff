// Package config loads the YAML-configurable ambient settings for a
// mbpconv run: logging verbosity, optional Kafka fan-out, and optional
// Prometheus metrics exposition.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Logging controls the process-wide logger.
type Logging struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Output controls where the primary CSV sink writes, used only when the
// CLI's output_file positional argument is omitted.
type Output struct {
	Path string `yaml:"path"`
}

// Kafka controls the optional streaming fan-out sink.
type Kafka struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Metrics controls the optional Prometheus exposition endpoint.
type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Config is the top-level shape of a mbpconv config file.
type Config struct {
	Logging Logging `yaml:"logging"`
	Output  Output  `yaml:"output"`
	Kafka   Kafka   `yaml:"kafka"`
	Metrics Metrics `yaml:"metrics"`
}

// Default returns the configuration a run gets with no config file: info
// logging, output to mbp_output.csv, no Kafka fan-out, no metrics
// endpoint.
func Default() Config {
	return Config{
		Logging: Logging{Level: "info", Pretty: false},
		Output:  Output{Path: "mbp_output.csv"},
		Kafka:   Kafka{Brokers: []string{"localhost:9092"}, Topic: "mbp10"},
		Metrics: Metrics{Addr: ":9090"},
	}
}

// Load reads and parses the YAML config file at path, starting from
// Default so an omitted section keeps its default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
