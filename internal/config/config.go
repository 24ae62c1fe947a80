// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/vinayprograms/robot/internal/robot"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "robot.toml"

// EnvConfigPath names an environment variable pointing at the config file.
const EnvConfigPath = "ROBOT_CONFIG"

// Config represents the robot runner configuration.
type Config struct {
	Robot       RobotConfig       `toml:"robot"`       // Scripted world settings
	Interpreter InterpreterConfig `toml:"interpreter"` // Execution limits
	Session     SessionConfig     `toml:"session"`     // Run recording
	NATS        NATSConfig        `toml:"nats"`        // Remote robot
	Telemetry   TelemetryConfig   `toml:"telemetry"`
}

// RobotConfig describes the built-in scripted world.
type RobotConfig struct {
	Fuel       int            `toml:"fuel"`
	Refuel     int            `toml:"refuel"`      // fuel per barrel taken
	MaxActions int            `toml:"max_actions"` // 0 = unlimited
	OpponentLR int            `toml:"opponent_lr"`
	OpponentFB int            `toml:"opponent_fb"`
	WallDist   int            `toml:"wall_dist"`
	Barrels    []robot.Barrel `toml:"barrels"`
	TickMs     int            `toml:"tick_ms"` // world step per action, 0 = no pacing
}

// InterpreterConfig contains execution settings.
type InterpreterConfig struct {
	MaxSteps        int  `toml:"max_steps"`        // 0 = unlimited
	ExtendedActions bool `toml:"extended_actions"` // accept turnAround, shieldOn, shieldOff
	Timeout         int  `toml:"timeout"`          // run timeout in seconds, 0 = none
}

// SessionConfig contains run recording settings.
type SessionConfig struct {
	Enabled    bool   `toml:"enabled"`
	Path       string `toml:"path"`        // directory for session files
	FlushEvery int    `toml:"flush_every"` // save after this many events, 0 = start and end only
}

// NATSConfig contains settings for robots reached over NATS.
type NATSConfig struct {
	URL     string `toml:"url"`
	Subject string `toml:"subject"` // subject prefix, e.g. "arena.red"
	Timeout int    `toml:"timeout"` // per-request timeout in seconds
}

// TelemetryConfig contains telemetry settings.
type TelemetryConfig struct {
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"` // OTLP endpoint (e.g., localhost:4317)
	Protocol string `toml:"protocol"` // grpc (default) or http
}

// New creates a new config with defaults.
func New() *Config {
	return &Config{
		Robot: RobotConfig{
			Fuel:       100,
			Refuel:     50,
			MaxActions: 1000,
			WallDist:   10,
		},
		Interpreter: InterpreterConfig{
			MaxSteps: 100000,
			Timeout:  30,
		},
		Session: SessionConfig{
			Path: "sessions",
		},
		NATS: NATSConfig{
			URL:     "nats://127.0.0.1:4222",
			Subject: "robot",
			Timeout: 5,
		},
		Telemetry: TelemetryConfig{
			Protocol: "noop",
		},
	}
}

// Default returns a default configuration.
func Default() *Config {
	return New()
}

// LoadFile loads configuration from a TOML file.
func LoadFile(path string) (*Config, error) {
	cfg := New()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Load resolves the config file: an explicit path wins, then $ROBOT_CONFIG,
// then robot.toml in the current directory. A missing default file yields
// defaults; a missing explicit file is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		return LoadFile(path)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	path = filepath.Join(cwd, DefaultFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return LoadFile(path)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Robot.Fuel < 0:
		return fmt.Errorf("robot.fuel must not be negative")
	case c.Robot.MaxActions < 0:
		return fmt.Errorf("robot.max_actions must not be negative")
	case c.Robot.TickMs < 0:
		return fmt.Errorf("robot.tick_ms must not be negative")
	case c.Interpreter.MaxSteps < 0:
		return fmt.Errorf("interpreter.max_steps must not be negative")
	case c.Interpreter.Timeout < 0:
		return fmt.Errorf("interpreter.timeout must not be negative")
	case c.Session.FlushEvery < 0:
		return fmt.Errorf("session.flush_every must not be negative")
	case c.NATS.Timeout < 0:
		return fmt.Errorf("nats.timeout must not be negative")
	}
	return nil
}

// Settings returns the scripted world described by the [robot] section.
func (c *Config) Settings() robot.Settings {
	return robot.Settings{
		Fuel:       c.Robot.Fuel,
		Refuel:     c.Robot.Refuel,
		MaxActions: c.Robot.MaxActions,
		OpponentLR: c.Robot.OpponentLR,
		OpponentFB: c.Robot.OpponentFB,
		WallDist:   c.Robot.WallDist,
		Barrels:    c.Robot.Barrels,
	}
}

// Tick returns the world step interval, 0 when actions are not paced.
func (c *Config) Tick() time.Duration {
	return time.Duration(c.Robot.TickMs) * time.Millisecond
}

// RunTimeout returns the run timeout, 0 for none.
func (c *Config) RunTimeout() time.Duration {
	return time.Duration(c.Interpreter.Timeout) * time.Second
}

// RequestTimeout returns the per-request NATS timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.NATS.Timeout) * time.Second
}
