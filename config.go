package clist

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"clist/data_struct"
)

// OpMix weighs op types in a generated workload.
type OpMix struct {
	PushFront    int `yaml:"push_front"`
	PushBack     int `yaml:"push_back"`
	InsertBefore int `yaml:"insert_before"`
	Erase        int `yaml:"erase"`
}

func (m OpMix) total() int {
	return m.PushFront + m.PushBack + m.InsertBefore + m.Erase
}

type WorkloadConfig struct {
	Store        string        `yaml:"store"`
	Threads      int           `yaml:"threads"`
	OpsPerThread int           `yaml:"ops_per_thread"`
	InitialSize  int           `yaml:"initial_size"`
	Seed         int64         `yaml:"seed"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	TrackLocks   bool          `yaml:"track_locks"`
	Mix          OpMix         `yaml:"mix"`
}

func DefaultWorkloadConfig() *WorkloadConfig {
	return &WorkloadConfig{
		Store:        StoreFine,
		Threads:      8,
		OpsPerThread: 1000,
		InitialSize:  128,
		Seed:         1,
		Timeout:      time.Minute,
		MaxRetries:   data_struct.DefaultOptions().MaxRetries,
		Mix: OpMix{
			PushFront:    1,
			PushBack:     1,
			InsertBefore: 2,
			Erase:        2,
		},
	}
}

// LoadWorkloadConfig reads a YAML workload over the defaults. An empty
// path yields the defaults.
func LoadWorkloadConfig(path string) (*WorkloadConfig, error) {
	cfg := DefaultWorkloadConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workload config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse workload config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("workload config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *WorkloadConfig) Validate() error {
	switch c.Store {
	case StoreFine, StoreCoarse:
	default:
		return fmt.Errorf("store must be '%s' or '%s', got '%s'", StoreFine, StoreCoarse, c.Store)
	}
	if c.Threads <= 0 {
		return fmt.Errorf("threads must be positive, got %d", c.Threads)
	}
	if c.OpsPerThread < 0 || c.InitialSize < 0 {
		return fmt.Errorf("ops_per_thread and initial_size must not be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Mix.PushFront < 0 || c.Mix.PushBack < 0 || c.Mix.InsertBefore < 0 || c.Mix.Erase < 0 {
		return fmt.Errorf("mix weights must not be negative")
	}
	if c.OpsPerThread > 0 && c.Mix.total() == 0 {
		return fmt.Errorf("mix must have at least one positive weight")
	}
	return nil
}

func (c *WorkloadConfig) ListOptions() data_struct.Options {
	opts := data_struct.DefaultOptions()
	if c.MaxRetries > 0 {
		opts.MaxRetries = c.MaxRetries
	}
	opts.TrackLocks = c.TrackLocks
	return opts
}
