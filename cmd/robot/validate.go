package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/vinayprograms/robot/internal/robotfile"
	"github.com/vinayprograms/robot/internal/watch"
)

// Run validates the program, once or on every change.
func (c *ValidateCmd) Run() error {
	opts := robotfile.LoadOptions{ExtendedActions: c.Extended}
	if !c.Watch {
		prog, err := robotfile.LoadFileWithOptions(c.File, opts)
		if err != nil {
			return err
		}
		printValid(os.Stdout, prog)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %s (Ctrl+C to stop)\n", c.File)
	return watch.New(c.File, opts).Run(ctx, func(res watch.Result) {
		printResult(os.Stdout, res)
	})
}

func printValid(w io.Writer, prog *robotfile.Program) {
	fmt.Fprintf(w, "✓ Valid: %s (%d statements, %d variables)\n",
		prog.Name, len(prog.Statements), len(prog.Variables()))
}

func printResult(w io.Writer, res watch.Result) {
	if res.Err != nil {
		fmt.Fprintf(w, "✗ %v\n", res.Err)
		return
	}
	printValid(w, res.Program)
}
