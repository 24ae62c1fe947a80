// Package main defines the CLI structure using kong.
package main

import "github.com/alecthomas/kong"

// CLI defines the command-line interface.
type CLI struct {
	Config string `help:"Config file path" type:"path"`

	Run      RunCmd      `cmd:"" help:"Run a robot program"`
	Validate ValidateCmd `cmd:"" help:"Check program syntax"`
	Inspect  InspectCmd  `cmd:"" help:"Show the parsed program structure"`
	Replay   ReplayCmd   `cmd:"" help:"Replay a recorded session"`
	Serve    ServeCmd    `cmd:"" help:"Expose a scripted robot over NATS"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

// RunCmd executes a program against a robot.
type RunCmd struct {
	File     string `arg:"" help:"Program file"`
	Robot    string `enum:"scripted,remote" default:"scripted" help:"Robot to drive (scripted, remote)"`
	Subject  string `help:"NATS subject prefix of the remote robot (overrides config)"`
	Extended bool   `help:"Accept turnAround, shieldOn and shieldOff (overrides config)"`
	MaxSteps int    `help:"Statement limit, 0 uses config"`
	Record   bool   `help:"Record a session (overrides config)"`
}

// ValidateCmd checks a program without running it.
type ValidateCmd struct {
	File     string `arg:"" help:"Program file"`
	Extended bool   `help:"Accept extended actions"`
	Watch    bool   `short:"w" help:"Re-validate whenever the file changes"`
}

// InspectCmd shows a program's structure.
type InspectCmd struct {
	File     string `arg:"" help:"Program file"`
	Format   string `enum:"text,yaml,json" default:"text" help:"Output format (text, yaml, json)"`
	Tokens   bool   `help:"List tokens instead of the syntax tree"`
	Extended bool   `help:"Accept extended actions"`
}

// ReplayCmd replays a session for analysis.
type ReplayCmd struct {
	Session     string `arg:"" help:"Session file to replay"`
	Verbose     int    `short:"v" type:"counter" help:"Show every event instead of collapsing repeats"`
	Interactive bool   `short:"i" help:"Open the session in a scrollable pager"`
	Live        bool   `help:"Follow the session file while it is recorded"`
}

// ServeCmd answers robot requests on NATS from the configured scripted world.
type ServeCmd struct {
	Subject string `help:"NATS subject prefix to serve (overrides config)"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

// kongVars returns variables for kong (version info).
func kongVars() kong.Vars {
	return kong.Vars{
		"version": version,
	}
}
