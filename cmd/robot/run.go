package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/vinayprograms/agentkit/logging"
	"github.com/vinayprograms/agentkit/telemetry"
	"github.com/vinayprograms/robot/internal/config"
	"github.com/vinayprograms/robot/internal/interp"
	"github.com/vinayprograms/robot/internal/robot"
	"github.com/vinayprograms/robot/internal/robotfile"
	"github.com/vinayprograms/robot/internal/session"
)

// Run executes the program.
func (c *RunCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	c.apply(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &runner{cfg: cfg, path: c.File, robotKind: c.Robot, out: os.Stdout}
	defer r.close()
	return r.run(ctx)
}

// apply folds command-line overrides into cfg.
func (c *RunCmd) apply(cfg *config.Config) {
	if c.Subject != "" {
		cfg.NATS.Subject = c.Subject
	}
	if c.Extended {
		cfg.Interpreter.ExtendedActions = true
	}
	if c.MaxSteps > 0 {
		cfg.Interpreter.MaxSteps = c.MaxSteps
	}
	if c.Record {
		cfg.Session.Enabled = true
	}
}

// runner handles a single program run.
type runner struct {
	cfg       *config.Config
	path      string
	robotKind string
	out       io.Writer

	prog     *robotfile.Program
	robot    interp.Robot
	telem    telemetry.Exporter
	recorder *session.Recorder
	logger   *logging.Logger

	closers []func()
}

func (r *runner) addCloser(f func()) {
	r.closers = append(r.closers, f)
}

// close releases resources in reverse order of acquisition.
func (r *runner) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}

// setup loads the program and builds the robot, telemetry and recorder.
func (r *runner) setup() error {
	r.logger = logging.New().WithComponent("runner")

	prog, err := robotfile.LoadFileWithOptions(r.path, robotfile.LoadOptions{
		ExtendedActions: r.cfg.Interpreter.ExtendedActions,
	})
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	r.prog = prog

	if err := r.setupTelemetry(); err != nil {
		return err
	}
	if err := r.setupRobot(); err != nil {
		return err
	}
	return r.setupSession()
}

// setupTelemetry creates the telemetry exporter.
func (r *runner) setupTelemetry() error {
	var err error
	if r.cfg.Telemetry.Enabled {
		r.telem, err = telemetry.NewExporter(r.cfg.Telemetry.Protocol, r.cfg.Telemetry.Endpoint)
		if err != nil {
			return fmt.Errorf("creating telemetry exporter: %w", err)
		}
	} else {
		r.telem = telemetry.NewNoopExporter()
	}
	r.addCloser(func() { r.telem.Close() })
	return nil
}

// setupRobot builds the robot the program drives.
func (r *runner) setupRobot() error {
	switch r.robotKind {
	case "remote":
		conn, err := robot.Connect(r.cfg.NATS.URL, "robot-runner", r.cfg.RequestTimeout())
		if err != nil {
			return err
		}
		r.addCloser(conn.Close)
		r.robot = robot.NewRemote(conn, r.cfg.NATS.Subject, r.cfg.RequestTimeout())
		r.logger.Info("remote robot", map[string]interface{}{
			"url":     r.cfg.NATS.URL,
			"subject": r.cfg.NATS.Subject,
		})
	default:
		r.robot = robot.NewScripted(r.cfg.Settings())
	}

	if tick := r.cfg.Tick(); tick > 0 {
		ticker := time.NewTicker(tick)
		r.addCloser(ticker.Stop)
		r.robot = robot.NewTicked(r.robot, ticker.C)
	}
	return nil
}

// setupSession starts recording when sessions are enabled.
func (r *runner) setupSession() error {
	if !r.cfg.Session.Enabled {
		return nil
	}
	store, err := session.NewFileStore(r.cfg.Session.Path)
	if err != nil {
		return fmt.Errorf("creating session store: %w", err)
	}
	r.recorder, err = session.NewRecorder(store, r.prog, r.robotKind)
	if err != nil {
		return err
	}
	r.recorder.SetFlushEvery(r.cfg.Session.FlushEvery)
	fmt.Fprintf(r.out, "Session: %s\n", store.Path(r.recorder.Session().ID))
	return nil
}

// newInterpreter creates the interpreter and wires recording and telemetry.
func (r *runner) newInterpreter() *interp.Interpreter {
	in := interp.NewInterpreter(r.robot)
	in.SetMaxSteps(r.cfg.Interpreter.MaxSteps)

	if r.recorder != nil {
		r.recorder.Attach(in)
	}
	onAction := in.OnAction
	in.OnAction = func(a interp.Action, pos robotfile.Position) {
		if onAction != nil {
			onAction(a, pos)
		}
		r.telem.LogEvent("action", map[string]interface{}{"action": string(a), "line": pos.Line})
	}
	return in
}

// run executes the program and reports the outcome.
func (r *runner) run(ctx context.Context) error {
	if err := r.setup(); err != nil {
		return err
	}

	if timeout := r.cfg.RunTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	in := r.newInterpreter()
	r.telem.LogEvent("run_start", map[string]interface{}{"program": r.prog.Name})
	start := time.Now()
	runErr := in.Run(ctx, r.prog)
	vars := in.Store().Snapshot()

	if r.recorder != nil {
		if err := r.recorder.Finish(runErr, vars); err != nil {
			r.logger.Error("failed to save session", map[string]interface{}{"error": err.Error()})
		}
	}

	stats := in.Stats()
	r.telem.LogEvent("run_end", map[string]interface{}{
		"program":    r.prog.Name,
		"statements": stats.Statements,
		"actions":    stats.Actions,
		"fault":      string(interp.FaultKindOf(runErr)),
	})
	r.report(runErr, stats, vars, time.Since(start))

	if errors.Is(runErr, robot.ErrRunEnded) {
		return nil
	}
	return runErr
}

// report prints a summary of the run.
func (r *runner) report(runErr error, stats interp.Stats, vars map[string]int, elapsed time.Duration) {
	switch {
	case runErr == nil:
		fmt.Fprintln(r.out, "✓ Program completed")
	case errors.Is(runErr, robot.ErrRunEnded):
		fmt.Fprintln(r.out, "■ Run ended by the world")
	case errors.Is(runErr, context.DeadlineExceeded):
		fmt.Fprintln(r.out, "✗ Timed out")
	case errors.Is(runErr, context.Canceled):
		fmt.Fprintln(r.out, "✗ Interrupted")
	case errors.Is(runErr, nats.ErrNoResponders), errors.Is(runErr, nats.ErrTimeout):
		fmt.Fprintln(r.out, "✗ Remote robot not responding")
	default:
		fmt.Fprintln(r.out, "✗ Program failed")
	}
	fmt.Fprintf(r.out, "  %d statements, %d actions in %s\n", stats.Statements, stats.Actions, elapsed.Round(time.Millisecond))

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(r.out, "  %s = %d\n", name, vars[name])
	}
}
