// Package config holds the import pipeline configuration: worker count,
// adjacency compression strategy, page geometry, and builder provisioning.
// Configuration is loaded from YAML and validated with struct tags before
// anything is built.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/patmonardo/graphcore/pkg/adjacency"
)

var validate = validator.New()

// Provider kinds for local builder provisioning.
const (
	ProviderPooled      = "pooled"
	ProviderThreadLocal = "thread-local"
)

// Config is the import pipeline configuration.
type Config struct {
	// Concurrency is the fixed worker pool size.
	Concurrency int `yaml:"concurrency" validate:"required,min=1,max=1024"`
	// AdjacencyStrategy selects the compression strategy for adjacency lists.
	AdjacencyStrategy string `yaml:"adjacency_strategy" validate:"required,oneof=compressed uncompressed packed mixed"`
	// PageShift is log2 of the page size for paged adjacency storage.
	PageShift uint `yaml:"page_shift" validate:"required,min=3,max=30"`
	// BuilderProvider selects pooled or thread-local builder provisioning,
	// based on expected batch size and duration, not detected at runtime.
	BuilderProvider string `yaml:"builder_provider" validate:"required,oneof=pooled thread-local"`
	// BatchSize is the number of node records a local builder accumulates
	// before flushing.
	BatchSize int `yaml:"batch_size" validate:"required,min=1,max=1000000"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Concurrency:       4,
		AdjacencyStrategy: adjacency.StrategyCompressed.String(),
		PageShift:         12,
		BuilderProvider:   ProviderThreadLocal,
		BatchSize:         10000,
	}
}

// Load reads and validates a YAML configuration file. Missing fields fall
// back to defaults before validation.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// Strategy returns the parsed adjacency strategy.
func (c Config) Strategy() adjacency.Strategy {
	strategy, err := adjacency.ParseStrategy(c.AdjacencyStrategy)
	if err != nil {
		// Validate rejects unknown strategies before this point
		return adjacency.StrategyCompressed
	}
	return strategy
}

// PageSize returns the page size in elements derived from PageShift.
func (c Config) PageSize() int {
	return 1 << c.PageShift
}

// formatValidationError converts validator errors into readable messages.
func formatValidationError(err error) error {
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return err
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s: required", fe.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s: must be at least %s", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s: must be at most %s", fe.Field(), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: must be one of [%s]", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
