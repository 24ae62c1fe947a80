// Package interp executes robot programs by walking their AST.
package interp

import (
	"context"
	"errors"
	"fmt"

	"github.com/vinayprograms/agentkit/logging"
	"github.com/vinayprograms/robot/internal/robotfile"
)

// Stats counts the work done by a run.
type Stats struct {
	Statements int // statements executed, including loop iterations' bodies
	Actions    int // robot actions performed
}

// Interpreter runs programs against a robot. One Interpreter walks one AST
// at a time; it is not safe for concurrent use.
type Interpreter struct {
	robot    Robot
	logger   *logging.Logger
	maxSteps int

	// State of the current run
	store   *Store
	stats   Stats
	current robotfile.Statement

	// Callbacks
	OnStatement func(stmt robotfile.Statement)
	OnAction    func(action Action, pos robotfile.Position)
	OnAssign    func(name string, value int, pos robotfile.Position)
}

// NewInterpreter creates an interpreter driving the given robot.
func NewInterpreter(robot Robot) *Interpreter {
	return &Interpreter{
		robot:  robot,
		logger: logging.New().WithComponent("interp"),
		store:  NewStore(),
	}
}

// SetMaxSteps bounds the number of statements a run may execute. Zero means
// no limit.
func (in *Interpreter) SetMaxSteps(n int) {
	in.maxSteps = n
}

// Store returns the variable store of the most recent run.
func (in *Interpreter) Store() *Store {
	return in.store
}

// Stats returns the counters of the most recent run.
func (in *Interpreter) Stats() Stats {
	return in.stats
}

// Run executes the program's top-level statements in order against a fresh
// store. It returns when the program completes, the context is done, the
// robot reports an error, or a runtime fault occurs.
func (in *Interpreter) Run(ctx context.Context, prog *robotfile.Program) (err error) {
	in.store = NewStore()
	in.store.Declare(prog.Variables()...)
	in.stats = Stats{}
	in.current = nil

	ctx, span := in.startRunSpan(ctx, prog)
	defer func() { in.endRunSpan(span, err) }()

	in.logger.Info("program started", map[string]interface{}{
		"program":    prog.Name,
		"statements": len(prog.Statements),
	})

	err = in.execList(ctx, prog.Statements)

	fields := map[string]interface{}{
		"program":    prog.Name,
		"statements": in.stats.Statements,
		"actions":    in.stats.Actions,
	}
	if err != nil {
		fields["error"] = err.Error()
		in.logger.Warn("program stopped", fields)
		return err
	}
	in.logger.Info("program finished", fields)
	return nil
}

// Exec executes a single statement against the current store. It is meant
// for driving a program one statement at a time.
func (in *Interpreter) Exec(ctx context.Context, stmt robotfile.Statement) error {
	return in.exec(ctx, stmt)
}

func (in *Interpreter) execList(ctx context.Context, stmts []robotfile.Statement) error {
	for _, stmt := range stmts {
		if err := in.exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) exec(ctx context.Context, stmt robotfile.Statement) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if in.maxSteps > 0 && in.stats.Statements >= in.maxSteps {
		return &RuntimeError{
			Kind: FaultStepLimit,
			Pos:  position(stmt),
			Err:  fmt.Errorf("%w: %d statements", ErrStepLimit, in.maxSteps),
		}
	}
	in.stats.Statements++

	prev := in.current
	in.current = stmt
	defer func() { in.current = prev }()

	if in.OnStatement != nil {
		in.OnStatement(stmt)
	}

	switch s := stmt.(type) {
	case *robotfile.Block:
		return in.execList(ctx, s.Statements)
	case *robotfile.Move:
		return in.repeat(ctx, ActionMove, s.Count, s.Pos)
	case *robotfile.Wait:
		return in.repeat(ctx, ActionWait, s.Count, s.Pos)
	case *robotfile.TurnLeft:
		return in.act(ctx, ActionTurnLeft, s.Pos)
	case *robotfile.TurnRight:
		return in.act(ctx, ActionTurnRight, s.Pos)
	case *robotfile.TakeFuel:
		return in.act(ctx, ActionTakeFuel, s.Pos)
	case *robotfile.TurnAround:
		return in.act(ctx, ActionTurnAround, s.Pos)
	case *robotfile.ShieldOn:
		return in.act(ctx, ActionShieldOn, s.Pos)
	case *robotfile.ShieldOff:
		return in.act(ctx, ActionShieldOff, s.Pos)
	case *robotfile.Loop:
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := in.execList(ctx, s.Body.Statements); err != nil {
				return err
			}
		}
	case *robotfile.If:
		return in.execIf(ctx, s)
	case *robotfile.While:
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			ok, err := in.cond(ctx, s.Cond)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			if err := in.execList(ctx, s.Body.Statements); err != nil {
				return err
			}
		}
	case *robotfile.Assign:
		v, err := in.eval(ctx, s.Value)
		if err != nil {
			return err
		}
		in.store.Set(s.Name, v)
		if in.OnAssign != nil {
			in.OnAssign(s.Name, v, s.Pos)
		}
		return nil
	default:
		return fmt.Errorf("internal error: unknown statement type %T", stmt)
	}
}

// execIf runs the first branch whose condition holds, or the else body.
func (in *Interpreter) execIf(ctx context.Context, s *robotfile.If) error {
	ok, err := in.cond(ctx, s.Cond)
	if err != nil {
		return err
	}
	if ok {
		return in.execList(ctx, s.Then.Statements)
	}
	for _, elif := range s.Elifs {
		ok, err := in.cond(ctx, elif.Cond)
		if err != nil {
			return err
		}
		if ok {
			return in.execList(ctx, elif.Body.Statements)
		}
	}
	if s.Else != nil {
		return in.execList(ctx, s.Else.Statements)
	}
	return nil
}

// repeat performs action count times; a nil count means once.
func (in *Interpreter) repeat(ctx context.Context, action Action, count robotfile.Expr, pos robotfile.Position) error {
	n := 1
	if count != nil {
		v, err := in.eval(ctx, count)
		if err != nil {
			return err
		}
		n = v
	}
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := in.act(ctx, action, pos); err != nil {
			return err
		}
	}
	return nil
}

// act performs a single robot action.
func (in *Interpreter) act(ctx context.Context, action Action, pos robotfile.Position) error {
	if action.Extended() {
		if _, ok := in.robot.(ExtendedRobot); !ok {
			return in.unsupported(action, pos, ErrUnsupportedAction)
		}
	}

	in.logger.Debug("action", map[string]interface{}{
		"action": string(action),
		"line":   pos.Line,
	})

	if err := Perform(ctx, in.robot, action); err != nil {
		if errors.Is(err, ErrUnsupportedAction) {
			return in.unsupported(action, pos, err)
		}
		return fmt.Errorf("%s at line %d: %w", action, pos.Line, err)
	}
	in.stats.Actions++

	if in.OnAction != nil {
		in.OnAction(action, pos)
	}
	return nil
}

func (in *Interpreter) unsupported(action Action, pos robotfile.Position, err error) error {
	return &RuntimeError{
		Kind: FaultUnsupportedAction,
		Node: in.current,
		Pos:  pos,
		Err:  fmt.Errorf("%s: %w", action, err),
	}
}

// position returns the source position of a statement.
func position(stmt robotfile.Statement) robotfile.Position {
	switch s := stmt.(type) {
	case *robotfile.Block:
		return s.Pos
	case *robotfile.Move:
		return s.Pos
	case *robotfile.Wait:
		return s.Pos
	case *robotfile.TurnLeft:
		return s.Pos
	case *robotfile.TurnRight:
		return s.Pos
	case *robotfile.TakeFuel:
		return s.Pos
	case *robotfile.TurnAround:
		return s.Pos
	case *robotfile.ShieldOn:
		return s.Pos
	case *robotfile.ShieldOff:
		return s.Pos
	case *robotfile.Loop:
		return s.Pos
	case *robotfile.If:
		return s.Pos
	case *robotfile.While:
		return s.Pos
	case *robotfile.Assign:
		return s.Pos
	}
	return robotfile.Position{}
}
