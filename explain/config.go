// SPDX-License-Identifier: MIT
// Package: gnnwalk/explain
//
// config.go - YAML configuration for an Explainer.
//
// Contract:
//   - ParseConfig starts from DefaultConfig, so omitted keys keep their defaults.
//   - Validation runs after decoding; failures wrap ErrInvalidConfig.
//   - Config.Options converts to functional options; WithConfig applies them.

package explain

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/katalvlaran/gnnwalk/relevance"
	"gopkg.in/yaml.v3"
)

var validate = newValidator()

// newValidator registers the "finite" tag, which rejects NaN and ±Inf.
func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()

		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}); err != nil {
		panic(err)
	}

	return v
}

// Config mirrors Options in a serializable form.
//
//	method: gnn_gi
//	num_classes: 2
//	sparsity: 0.7
//	gamma: [2, 1, 1]
//	time_limit: 30s
type Config struct {
	Method             string        `yaml:"method" validate:"required,oneof=gnn_lrp gnn_gi"`
	NumClasses         int           `yaml:"num_classes" validate:"gte=0"`
	Sparsity           float64       `yaml:"sparsity" validate:"gte=0,lte=1"`
	Epsilon            float64       `yaml:"epsilon" validate:"gte=0,finite"`
	Gamma              []float64     `yaml:"gamma" validate:"omitempty,dive,gte=0,finite"`
	Parallelism        int           `yaml:"parallelism" validate:"gte=0,lte=1024"`
	WholeGraph         bool          `yaml:"whole_graph"`
	Crop               bool          `yaml:"crop"`
	DepthNormalization bool          `yaml:"depth_normalization"`
	TimeLimit          time.Duration `yaml:"time_limit" validate:"gte=0"`
	LogLevel           string        `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns the configuration equivalent to DefaultOptions.
func DefaultConfig() Config {
	return Config{
		Method:      string(DefaultMethod),
		Sparsity:    DefaultSparsity,
		Epsilon:     relevance.DefaultEpsilon,
		Gamma:       relevance.DefaultGamma(),
		Parallelism: relevance.DefaultParallelism,
		TimeLimit:   DefaultTimeLimit,
	}
}

// LoadConfig reads and validates a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadConfig: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("LoadConfig %s: %w", path, err)
	}

	return cfg, nil
}

// ParseConfig decodes and validates YAML. Unknown keys are rejected.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("ParseConfig: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s=%s)", fe.Field(), fe.Tag(), fe.Param()))
			}

			return fmt.Errorf("Validate: %s: %w", strings.Join(fields, ", "), ErrInvalidConfig)
		}

		return fmt.Errorf("Validate: %v: %w", err, ErrInvalidConfig)
	}

	return nil
}

// Options converts the configuration into Explainer options.
func (c *Config) Options() []Option {
	opts := []Option{
		WithMethod(Method(c.Method)),
		WithSparsity(c.Sparsity),
		WithEpsilon(c.Epsilon),
		WithParallelism(c.Parallelism),
		WithWholeGraph(c.WholeGraph),
		WithCrop(c.Crop),
		WithDepthNormalization(c.DepthNormalization),
		WithTimeLimit(c.TimeLimit),
	}
	if c.NumClasses > 0 {
		opts = append(opts, WithNumClasses(c.NumClasses))
	}
	if c.Gamma != nil {
		opts = append(opts, WithGamma(c.Gamma...))
	}

	return opts
}

// WithConfig applies every option derived from c, which should have passed
// Validate. When c.LogLevel is set, the logger configured so far is replaced by
// a derived copy at that level; the caller's logger keeps its own level.
func WithConfig(c Config) Option {
	opts := c.Options()

	return func(o *Options) {
		for _, fn := range opts {
			fn(o)
		}
		if c.LogLevel != "" {
			if lvl, err := log.ParseLevel(c.LogLevel); err == nil {
				derived := o.Logger.With()
				derived.SetLevel(lvl)
				o.Logger = derived
			}
		}
	}
}
