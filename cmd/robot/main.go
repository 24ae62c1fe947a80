// Package main is the entry point for the robot program runner.
package main

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/vinayprograms/robot/internal/config"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func init() {
	// Load .env for ROBOT_CONFIG and friends
	_ = godotenv.Load()
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("robot"),
		kong.Description("Run programs written in the robot control language."),
		kong.UsageOnError(),
		kong.Vars(kongVars()),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli))
}

// Run prints version information.
func (v *VersionCmd) Run() error {
	fmt.Printf("robot version %s (commit: %s, built: %s)\n", version, commit, buildTime)
	return nil
}

// loadConfig resolves the configuration named on the command line.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
