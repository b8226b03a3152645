// Package config loads moodlog's settings.
//
// LAYERING (lowest to highest priority):
//
//  1. Defaults()
//  2. an optional YAML file (--config flag or MOODLOG_CONFIG)
//  3. environment variables (MOODLOG_ADDR, PORT, DB_PATH, LOG_LEVEL, MOODLOG_TZ)
//
// Every layer is optional; with nothing set you get a loopback server and
// a database under ./data.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvConfigFile = "MOODLOG_CONFIG"
	EnvAddr       = "MOODLOG_ADDR"
	EnvPort       = "PORT"
	EnvDBPath     = "DB_PATH"
	EnvLogLevel   = "LOG_LEVEL"
	EnvTimezone   = "MOODLOG_TZ"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Timezone string         `yaml:"timezone"` // IANA name; empty means the system zone
	Heatmap  HeatmapConfig  `yaml:"heatmap"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // ":memory:" for a throwaway store
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

type HeatmapConfig struct {
	Days int `yaml:"days"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Server:   ServerConfig{Addr: "127.0.0.1:8080"},
		Database: DatabaseConfig{Path: "data/moodlog.db"},
		Log:      LogConfig{Level: "info"},
		Heatmap:  HeatmapConfig{Days: 30},
	}
}

// Load builds the configuration. path may be empty, in which case
// MOODLOG_CONFIG is consulted; if that is empty too, no file is read.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	// An empty file decodes to io.EOF; that just means "no overrides".
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	// PORT only replaces the port, so a bare PORT=9000 keeps the loopback host.
	if v := os.Getenv(EnvPort); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("invalid %s value %q", EnvPort, v)
		}
		host, _, err := net.SplitHostPort(c.Server.Addr)
		if err != nil {
			return fmt.Errorf("server.addr %q: %w", c.Server.Addr, err)
		}
		c.Server.Addr = net.JoinHostPort(host, v)
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		c.Timezone = v
	}
	return nil
}

// Validate reports the first invalid setting, naming its key.
func (c Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return fmt.Errorf("server.addr %q: %w", c.Server.Addr, err)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database.path must not be empty")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Heatmap.Days < 1 || c.Heatmap.Days > 366 {
		return fmt.Errorf("heatmap.days must be between 1 and 366, got %d", c.Heatmap.Days)
	}
	return nil
}

// Location resolves Timezone. Empty means time.Local.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log.level %q: must be debug, info, warn or error", s)
	}
	return level, nil
}

// NewLogger builds the text logger every component gets injected.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
