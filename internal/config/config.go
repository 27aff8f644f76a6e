// Package config persists application settings between runs.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
)

const (
	DefaultColumns  = 3
	DefaultTheme    = "default"
	DefaultLogLevel = "info"
	appDir          = "procdeck"
)

// Config is the flat set of persisted settings.
type Config struct {
	LastProfile string `toml:"last_profile"`
	Theme       string `toml:"theme"`
	Columns     int    `toml:"columns"`
	Launcher    string `toml:"launcher"`
	LogLevel    string `toml:"log_level"`
	LogDir      string `toml:"log_dir"`
}

func Defaults() Config {
	return Config{
		Theme:    DefaultTheme,
		Columns:  DefaultColumns,
		LogLevel: DefaultLogLevel,
		LogDir:   defaultLogDir(),
	}
}

// envMapping maps override variables to setters. Overrides apply to the
// in-memory view only and are never written back.
var envMapping = map[string]func(*Config, string) error{
	"PROCDECK_THEME":     func(c *Config, v string) error { c.Theme = v; return nil },
	"PROCDECK_LAUNCHER":  func(c *Config, v string) error { c.Launcher = v; return nil },
	"PROCDECK_LOG_LEVEL": func(c *Config, v string) error { c.LogLevel = v; return nil },
	"PROCDECK_COLUMNS": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("PROCDECK_COLUMNS: invalid column count %q", v)
		}
		c.Columns = n
		return nil
	},
}

// Store owns the config file. Reads come from memory; every Store call
// writes the file.
type Store struct {
	path string

	mu        sync.RWMutex
	persisted Config
	overrides Config
}

func NewStore(path string) *Store {
	return &Store{path: path, persisted: Defaults(), overrides: Defaults()}
}

// DefaultPath is config.toml under the user's config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, appDir, "config.toml")
}

func defaultLogDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, appDir)
}

func (s *Store) Path() string { return s.path }

// Read loads the file. A missing file leaves the defaults in place.
func (s *Store) Read() error {
	cfg := Defaults()
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("reading config: %w", err)
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return fmt.Errorf("parsing config %s: %w", s.path, err)
		}
	}
	normalize(&cfg)

	effective := cfg
	for env, set := range envMapping {
		if v, ok := os.LookupEnv(env); ok {
			if err := set(&effective, v); err != nil {
				return err
			}
		}
	}
	normalize(&effective)

	s.mu.Lock()
	s.persisted = cfg
	s.overrides = effective
	s.mu.Unlock()
	return nil
}

// Get returns the effective configuration, environment overrides included.
func (s *Store) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overrides
}

// Store applies fn to both the persisted and effective settings and writes
// the persisted ones to disk.
func (s *Store) Store(fn func(*Config)) error {
	s.mu.Lock()
	fn(&s.persisted)
	fn(&s.overrides)
	normalize(&s.persisted)
	normalize(&s.overrides)
	cfg := s.persisted
	s.mu.Unlock()

	return s.write(cfg)
}

// Override changes the effective settings for this run only.
func (s *Store) Override(fn func(*Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.overrides)
	normalize(&s.overrides)
}

func (s *Store) write(cfg Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking config: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing config: %w", err)
	}
	return nil
}

func normalize(c *Config) {
	if c.Columns < 1 {
		c.Columns = DefaultColumns
	}
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogDir == "" {
		c.LogDir = defaultLogDir()
	}
}
