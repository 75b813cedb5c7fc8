// Package config loads the chase settings with priority env > file > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	search "github.com/pdrpinto/chase"
	"github.com/pdrpinto/chase/grid"
)

// Config contains all chase settings.
//
// Thread Safety: Safe to read concurrently. Not safe to modify after creation.
type Config struct {
	Maze    MazeConfig    `json:"maze" yaml:"maze"`
	Search  SearchConfig  `json:"search" yaml:"search"`
	Log     LogConfig     `json:"log" yaml:"log"`
	PerfLog PerfLogConfig `json:"perf_log" yaml:"perf_log"`
	Server  ServerConfig  `json:"server" yaml:"server"`
}

// MazeConfig selects the maze. Layout, when set, wins over Kind.
type MazeConfig struct {
	Kind     string   `json:"kind" yaml:"kind" validate:"oneof=classic open random"`
	Rows     int      `json:"rows" yaml:"rows" validate:"min=3,max=1000"`
	Cols     int      `json:"cols" yaml:"cols" validate:"min=3,max=1000"`
	Layout   []string `json:"layout" yaml:"layout"`
	Clusters int      `json:"clusters" yaml:"clusters" validate:"min=0"`
	Steps    int      `json:"steps" yaml:"steps" validate:"min=0"`
	Density  float64  `json:"density" yaml:"density" validate:"min=0,max=1"`
	Seed     int64    `json:"seed" yaml:"seed"`
}

// SearchConfig contains engine settings.
type SearchConfig struct {
	Strategy      string `json:"strategy" yaml:"strategy" validate:"required"`
	MaxExpansions int    `json:"max_expansions" yaml:"max_expansions" validate:"min=0"`
	Workers       int    `json:"workers" yaml:"workers" validate:"min=1,max=256"`
	TrackMemory   bool   `json:"track_memory" yaml:"track_memory"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" validate:"oneof=text json"`
}

// PerfLogConfig controls the CSV performance log.
type PerfLogConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path" yaml:"path" validate:"required_if=Enabled true"`
	Level   string `json:"level" yaml:"level"`
}

// ServerConfig contains HTTP API settings.
type ServerConfig struct {
	Addr        string `json:"addr" yaml:"addr" validate:"required"`
	MaxSessions int    `json:"max_sessions" yaml:"max_sessions" validate:"min=1"`
	// SessionTTL evicts stepping sessions idle for longer, e.g. "10m".
	SessionTTL time.Duration `json:"session_ttl" yaml:"session_ttl" validate:"min=0"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Maze: MazeConfig{
			Kind:     "classic",
			Rows:     21,
			Cols:     19,
			Clusters: 8,
			Steps:    200,
			Density:  0.25,
			Seed:     1,
		},
		Search: SearchConfig{
			Strategy:    string(search.AStar),
			Workers:     4,
			TrackMemory: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		PerfLog: PerfLogConfig{
			Enabled: true,
			Path:    "logs/performance_log.csv",
			Level:   "default",
		},
		Server: ServerConfig{
			Addr:        ":8080",
			MaxSessions: 64,
			SessionTTL:  10 * time.Minute,
		},
	}
}

// Load loads configuration with priority: env > file > defaults.
//
// Inputs:
//   - path: Path to a YAML or JSON config file (optional, can be empty).
//
// Outputs:
//   - Config: Merged configuration.
//   - error: Non-nil if the file exists but is invalid, or validation fails.
func Load(path string) (Config, error) {
	config := Default()

	if path != "" {
		if err := loadFile(path, &config); err != nil {
			return config, fmt.Errorf("load config file: %w", err)
		}
	}

	loadFromEnv(&config)

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	// Try YAML first, then JSON
	if err := yaml.Unmarshal(data, config); err != nil {
		if jsonErr := json.Unmarshal(data, config); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

func loadFromEnv(config *Config) {
	if v := os.Getenv("CHASE_STRATEGY"); v != "" {
		config.Search.Strategy = v
	}
	if v := os.Getenv("CHASE_MAX_EXPANSIONS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.Search.MaxExpansions = i
		}
	}
	if v := os.Getenv("CHASE_WORKERS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.Search.Workers = i
		}
	}
	if v := os.Getenv("CHASE_MAZE_KIND"); v != "" {
		config.Maze.Kind = v
	}
	if v := os.Getenv("CHASE_MAZE_SEED"); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Maze.Seed = i
		}
	}
	if v := os.Getenv("CHASE_LOG_LEVEL"); v != "" {
		config.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("CHASE_PERF_LOG"); v != "" {
		config.PerfLog.Path = v
	}
	if v := os.Getenv("CHASE_ADDR"); v != "" {
		config.Server.Addr = v
	}
}

var validate = validator.New()

// Validate checks field constraints and that the strategy name parses.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if _, err := search.ParseStrategy(c.Search.Strategy); err != nil {
		return err
	}
	return nil
}

// Strategy returns the parsed search strategy. Call after Validate.
func (c Config) Strategy() search.Strategy {
	strategy, _ := search.ParseStrategy(c.Search.Strategy)
	return strategy
}

// SearchOptions converts the search settings into engine options.
func (c Config) SearchOptions(logger *slog.Logger) []search.Option {
	return []search.Option{
		search.WithMaxExpansions(c.Search.MaxExpansions),
		search.WithWorkers(c.Search.Workers),
		search.WithMemoryTracking(c.Search.TrackMemory),
		search.WithLogger(logger),
	}
}

// SlogLevel maps Log.Level to a slog level.
func (c Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// NewLogger builds the stderr logger described by Log.
func (c Config) NewLogger() *slog.Logger {
	handlerOptions := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, handlerOptions))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, handlerOptions))
}

// Build constructs the configured maze.
func (m MazeConfig) Build() (*grid.Maze, error) {
	if len(m.Layout) > 0 {
		return grid.ParseMaze(m.Layout)
	}
	switch m.Kind {
	case "open":
		return grid.NewMaze(m.Rows, m.Cols)
	case "random":
		return grid.RandomMaze(m.Rows, m.Cols, m.Clusters, m.Steps, m.Density, m.Seed)
	default:
		return grid.ClassicMaze(m.Rows, m.Cols)
	}
}
