package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sarchlab/smmu/smmu"
)

// Environment variable names Load reads.
const (
	envTLBCapacity          = "SMMU_TLB_CAPACITY"
	envCommandQueueCapacity = "SMMU_CMDQ_CAPACITY"
	envEventQueueCapacity   = "SMMU_EVENTQ_CAPACITY"
)

// Config holds the construction parameters for an smmu.SMMU.
type Config struct {
	TLBCapacity          int
	CommandQueueCapacity int
	EventQueueCapacity   int
}

// Default returns a Config matching the package's built-in defaults.
func Default() Config {
	return Config{
		TLBCapacity:          smmu.DefaultTLBCapacity,
		CommandQueueCapacity: smmu.DefaultCommandQueueCapacity,
		EventQueueCapacity:   smmu.DefaultEventQueueCapacity,
	}
}

// Load reads a .env file at path if present — a missing file is not an
// error, matching godotenv's own recommended usage for optional local
// overrides — then overlays any of the three SMMU_* environment
// variables found over the package defaults.
func Load(path string) (Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return Config{}, err
		}
	}

	cfg := Default()

	if v, ok := os.LookupEnv(envTLBCapacity); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, err
		}
		cfg.TLBCapacity = n
	}

	if v, ok := os.LookupEnv(envCommandQueueCapacity); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, err
		}
		cfg.CommandQueueCapacity = n
	}

	if v, ok := os.LookupEnv(envEventQueueCapacity); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, err
		}
		cfg.EventQueueCapacity = n
	}

	return cfg, nil
}

// ApplyTo overlays the Config's sizes onto a smmu.Builder, returning the
// updated Builder for further chaining.
func (c Config) ApplyTo(b smmu.Builder) smmu.Builder {
	return b.
		WithTLBCapacity(c.TLBCapacity).
		WithCommandQueueCapacity(c.CommandQueueCapacity).
		WithEventQueueCapacity(c.EventQueueCapacity)
}
