package main

import (
	"fmt"
	"os"

	"github.com/vinayprograms/robot/internal/replay"
)

// Run replays a recorded session.
func (c *ReplayCmd) Run() error {
	if _, err := os.Stat(c.Session); err != nil {
		return fmt.Errorf("session file: %w", err)
	}

	r := replay.New(os.Stdout, c.Verbose)
	switch {
	case c.Live:
		return r.ReplayFileLive(c.Session)
	case c.Interactive && isTerminal(os.Stdout):
		return r.ReplayFileInteractive(c.Session)
	default:
		return r.ReplayFile(c.Session)
	}
}

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
