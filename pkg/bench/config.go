package bench

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Scenario names accepted in BENCH_SCENARIOS
const (
	ScenarioAdd    = "add"
	ScenarioMatch  = "match"
	ScenarioCancel = "cancel"
	ScenarioSweep  = "sweep"
	ScenarioQuery  = "query"
)

// Config holds all configuration for the benchmark harness
type Config struct {
	// Number of timed operations per scenario
	Operations int

	// Number of distinct price levels the book is spread across
	PriceLevels int

	// Price levels consumed by one market sweep
	SweepLevels int

	// Seed for the deterministic order stream
	Seed int64

	// Scenarios to run, in order
	Scenarios []string

	// Logging
	LogLevel  string
	LogPretty bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("BENCH_OPERATIONS", 100000)
	v.SetDefault("BENCH_PRICE_LEVELS", 100)
	v.SetDefault("BENCH_SWEEP_LEVELS", 3)
	v.SetDefault("BENCH_SEED", 42)
	v.SetDefault("BENCH_SCENARIOS", "add,match,cancel,sweep,query")
	v.SetDefault("BENCH_LOG_LEVEL", "info")
	v.SetDefault("BENCH_LOG_PRETTY", true)

	v.AutomaticEnv()

	cfg := &Config{
		Operations:  v.GetInt("BENCH_OPERATIONS"),
		PriceLevels: v.GetInt("BENCH_PRICE_LEVELS"),
		SweepLevels: v.GetInt("BENCH_SWEEP_LEVELS"),
		Seed:        v.GetInt64("BENCH_SEED"),
		Scenarios:   splitScenarios(v.GetString("BENCH_SCENARIOS")),
		LogLevel:    v.GetString("BENCH_LOG_LEVEL"),
		LogPretty:   v.GetBool("BENCH_LOG_PRETTY"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid benchmark config: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration values
func (c *Config) Validate() error {
	if c.Operations <= 0 {
		return fmt.Errorf("operations must be positive, got %d", c.Operations)
	}
	if c.PriceLevels <= 0 {
		return fmt.Errorf("price levels must be positive, got %d", c.PriceLevels)
	}
	if c.SweepLevels <= 0 || c.SweepLevels > c.PriceLevels {
		return fmt.Errorf("sweep levels must be in [1, %d], got %d", c.PriceLevels, c.SweepLevels)
	}
	if len(c.Scenarios) == 0 {
		return fmt.Errorf("at least one scenario is required")
	}
	for _, name := range c.Scenarios {
		switch name {
		case ScenarioAdd, ScenarioMatch, ScenarioCancel, ScenarioSweep, ScenarioQuery:
		default:
			return fmt.Errorf("unknown scenario %q", name)
		}
	}
	return nil
}

func splitScenarios(s string) []string {
	parts := strings.Split(s, ",")
	scenarios := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			scenarios = append(scenarios, trimmed)
		}
	}
	return scenarios
}
