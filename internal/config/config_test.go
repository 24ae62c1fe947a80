package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vinayprograms/robot/internal/robot"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "robot.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[robot]
fuel = 20
max_actions = 50
opponent_lr = -2
barrels = [{lr = 1, fb = 3}, {lr = -1, fb = 0}]
tick_ms = 250

[interpreter]
max_steps = 500
extended_actions = true
timeout = 10

[session]
enabled = true
path = "/tmp/runs"

[nats]
url = "nats://arena:4222"
subject = "arena.blue"
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Robot.Fuel)
	assert.Equal(t, 50, cfg.Robot.Refuel, "unset keys keep defaults")
	assert.Equal(t, []robot.Barrel{{LR: 1, FB: 3}, {LR: -1, FB: 0}}, cfg.Robot.Barrels)
	assert.Equal(t, 250*time.Millisecond, cfg.Tick())
	assert.Equal(t, 500, cfg.Interpreter.MaxSteps)
	assert.True(t, cfg.Interpreter.ExtendedActions)
	assert.Equal(t, 10*time.Second, cfg.RunTimeout())
	assert.True(t, cfg.Session.Enabled)
	assert.Equal(t, "/tmp/runs", cfg.Session.Path)
	assert.Equal(t, "arena.blue", cfg.NATS.Subject)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout())

	s := cfg.Settings()
	assert.Equal(t, -2, s.OpponentLR)
	assert.Equal(t, 50, s.MaxActions)
	assert.Len(t, s.Barrels, 2)
}

func TestLoadFile_Invalid(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "[robot\nfuel = 1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")

	_, err = LoadFile(writeConfig(t, "[interpreter]\nmax_steps = -1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interpreter.max_steps")
}

func TestLoad_Resolution(t *testing.T) {
	explicit := writeConfig(t, "[robot]\nfuel = 7")
	env := writeConfig(t, "[robot]\nfuel = 9")

	t.Setenv(EnvConfigPath, env)
	cfg, err := Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Robot.Fuel)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Robot.Fuel)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
