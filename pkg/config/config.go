// Package config loads and validates the engine's run configuration from
// YAML, and materializes the pieces other packages consume.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/XiaoConstantine/genetics-go/pkg/genetics"
	"github.com/XiaoConstantine/genetics-go/pkg/logging"
)

// Config is the complete configuration for an evolutionary run.
type Config struct {
	// Engine configuration
	Engine EngineConfig `yaml:"engine" validate:"required"`

	// Operator set configuration
	Operators OperatorConfig `yaml:"operators" validate:"required"`

	// Archive configuration
	Archive ArchiveConfig `yaml:"archive,omitempty" validate:"omitempty"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging,omitempty" validate:"omitempty"`
}

// EngineConfig holds population-level settings.
type EngineConfig struct {
	// Number of oracle samples when generating the initial population.
	SampleCount int `yaml:"sample_count" validate:"min=1"`

	// Seed for all randomized behavior; 0 means time-based.
	Seed int64 `yaml:"seed,omitempty"`

	// Bound on concurrent metric calls in the batch evaluator.
	MaxGoroutines int `yaml:"max_goroutines,omitempty" validate:"omitempty,min=1"`
}

// OperatorConfig holds the operator set settings.
type OperatorConfig struct {
	// Gene alphabet; duplicates collapse.
	Genes []string `yaml:"genes" validate:"min=1,dive,required"`

	// Candidates drawn per tournament.
	TournamentSize int `yaml:"tournament_size" validate:"min=1"`

	// Probability that parent1 contributes the crossover prefix.
	CrossoverProbability float64 `yaml:"crossover_probability" validate:"gte=0,lte=1"`

	// Loci mutated per Mutate call.
	MutationLoci int `yaml:"mutation_loci" validate:"min=1"`

	// Reserved offspring-replacement tag.
	Strategy string `yaml:"strategy" validate:"oneof=comma plus"`
}

// ArchiveConfig holds run-journal settings.
type ArchiveConfig struct {
	Path      string `yaml:"path,omitempty"`
	EnableWAL bool   `yaml:"enable_wal,omitempty"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Severity string `yaml:"severity,omitempty" validate:"omitempty,oneof=DEBUG INFO WARN ERROR FATAL"`
	UseColor bool   `yaml:"use_color,omitempty"`
}

// DefaultConfig returns the configuration a run starts from when no file is
// supplied. The gene alphabet has no meaningful default and must be set.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			SampleCount:   genetics.DefaultSampleCount,
			MaxGoroutines: genetics.DefaultMaxGoroutines,
		},
		Operators: OperatorConfig{
			TournamentSize:       5,
			CrossoverProbability: 0.5,
			MutationLoci:         1,
			Strategy:             string(genetics.StrategyComma),
		},
		Logging: LoggingConfig{
			Severity: "INFO",
			UseColor: true,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// GeneticConfig materializes the operator-set configuration.
func (c *Config) GeneticConfig() genetics.GeneticConfig {
	genes := make([]genetics.Gene, 0, len(c.Operators.Genes))
	for _, g := range c.Operators.Genes {
		genes = append(genes, genetics.Gene(g))
	}
	return genetics.GeneticConfig{
		Alphabet:             genetics.NewAlphabet(genes...),
		TournamentSize:       c.Operators.TournamentSize,
		CrossoverProbability: c.Operators.CrossoverProbability,
		Strategy:             genetics.Strategy(c.Operators.Strategy),
		Seed:                 c.Engine.Seed,
	}
}

// Logger materializes a logger from the logging section.
func (c *Config) Logger() *logging.Logger {
	severity := logging.ParseSeverity(c.Logging.Severity)
	return logging.NewLogger(logging.Config{
		Severity: severity,
		Outputs: []logging.Output{
			logging.NewConsoleOutput(false, logging.WithColor(c.Logging.UseColor)),
		},
	})
}
