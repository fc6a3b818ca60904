// Package config holds the simulator run configuration and its YAML file
// format.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/sarchlab/rvsim/cache"
	"github.com/sarchlab/rvsim/emu"
)

// MinMemorySize is the smallest memory that can hold two instructions.
const MinMemorySize = 8

// DataCacheConfig configures the optional data cache.
type DataCacheConfig struct {
	// Enabled routes data accesses through the cache.
	// Default: false.
	Enabled bool `yaml:"enabled"`

	// Size in bytes.
	// Default: 1024.
	Size int `yaml:"size"`

	// Associativity is the number of ways.
	// Default: 2.
	Associativity int `yaml:"associativity"`

	// BlockSize is the line size in bytes.
	// Default: 16.
	BlockSize int `yaml:"block_size"`
}

// Cache returns the cache geometry.
func (c DataCacheConfig) Cache() cache.Config {
	return cache.Config{
		Size:          c.Size,
		Associativity: c.Associativity,
		BlockSize:     c.BlockSize,
	}
}

// Config holds the parameters of a simulation run.
type Config struct {
	// InstructionMemorySize is the instruction memory size in bytes.
	// Must be a power of two. Default: 4096.
	InstructionMemorySize int `yaml:"instruction_memory_size"`

	// DataMemorySize is the data memory size in bytes.
	// Must be a power of two. Default: 4096.
	DataMemorySize int `yaml:"data_memory_size"`

	// MaxCycles stops a run after this many cycles. 0 means no limit.
	MaxCycles uint64 `yaml:"max_cycles"`

	// EntryPoint is the initial PC. ELF programs override it.
	EntryPoint uint32 `yaml:"entry_point"`

	// Trace prints the per-cycle debug dump.
	Trace bool `yaml:"trace"`

	// Color colors the trace output.
	Color bool `yaml:"color"`

	DataCache DataCacheConfig `yaml:"data_cache"`
}

// DefaultConfig returns the reference configuration: 4 KiB memories, no
// cycle limit, no cache.
func DefaultConfig() *Config {
	def := cache.DefaultConfig()

	return &Config{
		InstructionMemorySize: emu.DefaultMemorySize,
		DataMemorySize:        emu.DefaultMemorySize,
		DataCache: DataCacheConfig{
			Size:          def.Size,
			Associativity: def.Associativity,
			BlockSize:     def.BlockSize,
		},
	}
}

// LoadConfig loads a Config from a YAML file. Fields missing from the file
// keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// Marshal serializes the Config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize config: %w", err)
	}
	return data, nil
}

// SaveConfig writes the Config to a YAML file.
func (c *Config) SaveConfig(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks memory sizes and, when enabled, the cache geometry.
func (c *Config) Validate() error {
	if err := validateMemorySize("instruction_memory_size", c.InstructionMemorySize); err != nil {
		return err
	}
	if err := validateMemorySize("data_memory_size", c.DataMemorySize); err != nil {
		return err
	}
	if c.EntryPoint%4 != 0 {
		return fmt.Errorf("entry_point 0x%x is not word aligned", c.EntryPoint)
	}

	if c.DataCache.Enabled {
		if err := c.DataCache.Cache().Validate(); err != nil {
			return fmt.Errorf("data_cache: %w", err)
		}
		if c.DataCache.Size > c.DataMemorySize {
			return fmt.Errorf("data_cache: size %d exceeds data_memory_size %d",
				c.DataCache.Size, c.DataMemorySize)
		}
	}

	return nil
}

func validateMemorySize(name string, size int) error {
	if size < MinMemorySize {
		return fmt.Errorf("%s must be >= %d, got %d", name, MinMemorySize, size)
	}
	if size&(size-1) != 0 {
		return fmt.Errorf("%s must be a power of two, got %d", name, size)
	}
	return nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
