package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	"chash/pkg/routeerrors"
)

// Config - корневая структура конфигурации приложения
// yaml и validate теги для парсинга и валидации

type Config struct {
	Logger    LoggerConfig    `yaml:"logger" validate:"required"`
	Benchmark BenchmarkConfig `yaml:"benchmark" validate:"required"`
	Estimator EstimatorConfig `yaml:"estimator"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`
	JSON  bool   `yaml:"json"`
}

// BenchmarkConfig describes the comparison run: a router over Nodes is
// compared against routers with 1..MaxRemoved nodes removed.
type BenchmarkConfig struct {
	Hash         string   `yaml:"hash" validate:"required,oneof=shiftmult murmur3 xxhash identity"`
	Nodes        int      `yaml:"nodes" validate:"required,min=2"`
	Segments     int      `yaml:"segments" validate:"required,min=1"`
	Keys         int      `yaml:"keys" validate:"required,min=1"`
	Distribution string   `yaml:"distribution" validate:"required,oneof=sequential uniform normal"`
	Seed         uint64   `yaml:"seed"`
	MaxRemoved   int      `yaml:"max_removed" validate:"required,min=1,ltfield=Nodes"`
	Strategies   []string `yaml:"strategies" validate:"required,min=1,dive,oneof=consistent rendezvous modulo jump bounded"`
}

type EstimatorConfig struct {
	Workers   int `yaml:"workers" validate:"min=0"`
	BatchSize int `yaml:"batch_size" validate:"min=0"`
}

type MetricsConfig struct {
	// Textfile is where the Prometheus text exposition is written. Empty disables it.
	Textfile string `yaml:"textfile"`
}

// Default returns the fixed demonstration run.
func Default() Config {
	return Config{
		Logger: LoggerConfig{
			Level: "INFO",
			JSON:  false,
		},
		Benchmark: BenchmarkConfig{
			Hash:         "shiftmult",
			Nodes:        100,
			Segments:     64,
			Keys:         1_000_000,
			Distribution: "sequential",
			Seed:         42,
			MaxRemoved:   5,
			Strategies:   []string{"consistent", "rendezvous"},
		},
		Estimator: EstimatorConfig{
			BatchSize: 1 << 16,
		},
	}
}

// Load reads a YAML file over Default(). A missing file yields Default().
func Load(path string) (Config, bool, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, false, nil
		}
		return cfg, false, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, true, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, true, err
	}
	return cfg, true, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", routeerrors.ErrInvalidConfig, err)
	}
	return nil
}
