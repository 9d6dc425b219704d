// control/config.go
// Author: momentics <momentics@gmail.com>
//
// YAML configuration for rings, the ring pool and logging, plus a
// thread-safe store with hot-reload propagation.

package control

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-buffer/api"
	"github.com/momentics/hioload-buffer/logging"
	"github.com/momentics/hioload-buffer/memory"
)

// Config is the full runtime configuration.
type Config struct {
	Buffer BufferConfig `yaml:"buffer"`
	Pool   PoolConfig   `yaml:"pool"`
	Log    LogConfig    `yaml:"log"`
}

// BufferConfig describes every ring handed out by the pool.
type BufferConfig struct {
	Capacity   int    `yaml:"capacity"`    // backing region size; usable bytes are capacity-1
	Allocator  string `yaml:"allocator"`   // "heap" or "mmap"
	LockMemory bool   `yaml:"lock_memory"` // mlock mmap regions
}

type PoolConfig struct {
	MaxIdle  int `yaml:"max_idle"` // idle rings kept for reuse
	Prealloc int `yaml:"prealloc"` // rings allocated up front
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Path   string `yaml:"path"` // log file; empty logs to a std stream only
	Echo   bool   `yaml:"echo"`
	NoEcho bool   `yaml:"no_echo"` // file only; wins over echo and stderr
	Stderr bool   `yaml:"stderr"`
	Sync   bool   `yaml:"sync"`
	UTC    bool   `yaml:"utc"`
}

// DefaultConfig returns default configuration values.
func DefaultConfig() Config {
	return Config{
		Buffer: BufferConfig{
			Capacity:  64 * 1024, // 64 KiB per ring
			Allocator: memory.KindHeap,
		},
		Pool: PoolConfig{
			MaxIdle: 64,
		},
		Log: LogConfig{
			Level:  logging.Default.String(),
			Stderr: true,
		},
	}
}

// Flags translates the log section into logging flags.
func (lc LogConfig) Flags() logging.Flags {
	var f logging.Flags
	if lc.Path != "" {
		f |= logging.File
	}
	if lc.Echo {
		f |= logging.Echo
	}
	if lc.NoEcho {
		f |= logging.NoEcho
	}
	if lc.Stderr {
		f |= logging.Stderr
	}
	if lc.Sync {
		f |= logging.Sync
	}
	if lc.UTC {
		f |= logging.UTC
	}
	return f
}

// Verbosity parses the configured level.
func (lc LogConfig) Verbosity() (logging.Verbosity, error) {
	return logging.ParseVerbosity(lc.Level)
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.Buffer.Capacity < 2 {
		result = multierror.Append(result, fmt.Errorf("buffer.capacity must be at least 2, got %d", c.Buffer.Capacity))
	}
	switch strings.ToLower(c.Buffer.Allocator) {
	case "", memory.KindHeap, memory.KindMmap:
	default:
		result = multierror.Append(result, fmt.Errorf("buffer.allocator %q is not heap or mmap", c.Buffer.Allocator))
	}
	if c.Pool.MaxIdle < 0 {
		result = multierror.Append(result, fmt.Errorf("pool.max_idle must not be negative, got %d", c.Pool.MaxIdle))
	}
	if c.Pool.Prealloc < 0 || c.Pool.Prealloc > c.Pool.MaxIdle {
		result = multierror.Append(result, fmt.Errorf("pool.prealloc must be within [0, max_idle], got %d", c.Pool.Prealloc))
	}
	if _, err := c.Log.Verbosity(); err != nil {
		result = multierror.Append(result, fmt.Errorf("log.level: %w", err))
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", api.ErrInvalidArgument, err)
	}
	return nil
}

// ParseConfig overlays YAML onto DefaultConfig and validates the result.
// Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data)
}

// Store holds the live Config with snapshot reads and reload listeners.
type Store struct {
	mu        sync.RWMutex
	config    Config
	listeners []func(old, cur Config)
}

// NewStore initializes a store with cfg.
func NewStore(cfg Config) *Store {
	return &Store{config: cfg}
}

// Snapshot returns a copy of the current config.
func (s *Store) Snapshot() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// OnReload registers a listener called after every successful Update.
func (s *Store) OnReload(fn func(old, cur Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Update validates and installs cfg, then invokes listeners synchronously
// in registration order. An invalid cfg leaves the store unchanged.
func (s *Store) Update(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	old := s.config
	s.config = cfg
	listeners := append([]func(old, cur Config){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(old, cfg)
	}
	return nil
}

// Reload loads path and applies it with Update.
func (s *Store) Reload(path string) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	return s.Update(cfg)
}
