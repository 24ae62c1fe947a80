package main

import (
	"testing"

	"github.com/alecthomas/kong"
)

func parse(t *testing.T, args ...string) *CLI {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars(kongVars()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := parser.Parse(args); err != nil {
		t.Fatal(err)
	}
	return &cli
}

func TestRunCmd_Defaults(t *testing.T) {
	cli := parse(t, "run", "bot.robot")
	if cli.Run.File != "bot.robot" {
		t.Errorf("expected file 'bot.robot', got %q", cli.Run.File)
	}
	if cli.Run.Robot != "scripted" {
		t.Errorf("expected scripted robot, got %q", cli.Run.Robot)
	}
	if cli.Run.Extended || cli.Run.Record || cli.Run.MaxSteps != 0 {
		t.Errorf("unexpected overrides: %+v", cli.Run)
	}
}

func TestRunCmd_Flags(t *testing.T) {
	cli := parse(t, "--config", "custom.toml", "run", "bot.robot",
		"--robot", "remote", "--subject", "arena.red", "--extended", "--max-steps", "50", "--record")
	if cli.Run.Robot != "remote" || cli.Run.Subject != "arena.red" {
		t.Errorf("unexpected robot flags: %+v", cli.Run)
	}
	if !cli.Run.Extended || !cli.Run.Record || cli.Run.MaxSteps != 50 {
		t.Errorf("unexpected run flags: %+v", cli.Run)
	}
	if cli.Config == "" {
		t.Error("expected config path")
	}
}

func TestRunCmd_RejectsUnknownRobot(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := parser.Parse([]string{"run", "bot.robot", "--robot", "tank"}); err == nil {
		t.Error("expected error for unknown robot")
	}
}

func TestInspectCmd_Format(t *testing.T) {
	cli := parse(t, "inspect", "bot.robot")
	if cli.Inspect.Format != "text" {
		t.Errorf("expected text format, got %q", cli.Inspect.Format)
	}

	cli = parse(t, "inspect", "--format", "yaml", "--tokens", "bot.robot")
	if cli.Inspect.Format != "yaml" || !cli.Inspect.Tokens {
		t.Errorf("unexpected inspect flags: %+v", cli.Inspect)
	}
}

func TestReplayCmd_Verbose(t *testing.T) {
	cli := parse(t, "replay", "-v", "session.jsonl")
	if cli.Replay.Session != "session.jsonl" {
		t.Errorf("expected session 'session.jsonl', got %q", cli.Replay.Session)
	}
	if cli.Replay.Verbose != 1 {
		t.Errorf("expected verbose=1, got %d", cli.Replay.Verbose)
	}

	cli = parse(t, "replay", "--live", "session.jsonl")
	if !cli.Replay.Live || cli.Replay.Interactive {
		t.Errorf("unexpected replay flags: %+v", cli.Replay)
	}
}

func TestValidateCmd_Watch(t *testing.T) {
	cli := parse(t, "validate", "-w", "bot.robot")
	if !cli.Validate.Watch {
		t.Error("expected watch mode")
	}
}

func TestServeCmd_Subject(t *testing.T) {
	cli := parse(t, "serve", "--subject", "arena.blue")
	if cli.Serve.Subject != "arena.blue" {
		t.Errorf("expected subject 'arena.blue', got %q", cli.Serve.Subject)
	}
}
