package interp

import (
	"context"
	"fmt"

	"github.com/vinayprograms/robot/internal/robotfile"
)

// eval evaluates an expression against the store and the robot's sensors.
// Results are never cached: sensors and cells are read on every call.
func (in *Interpreter) eval(ctx context.Context, e robotfile.Expr) (int, error) {
	switch e := e.(type) {
	case *robotfile.Number:
		return e.Value, nil
	case *robotfile.Var:
		return in.store.Get(e.Name), nil
	case *robotfile.Sensor:
		return in.sense(ctx, e)
	case *robotfile.BinaryOp:
		left, err := in.eval(ctx, e.Left)
		if err != nil {
			return 0, err
		}
		right, err := in.eval(ctx, e.Right)
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case robotfile.OpAdd:
			return left + right, nil
		case robotfile.OpSub:
			return left - right, nil
		case robotfile.OpMul:
			return left * right, nil
		case robotfile.OpDiv:
			if right == 0 {
				return 0, in.fault(FaultDivisionByZero, e, ErrDivisionByZero)
			}
			return left / right, nil
		}
		return 0, fmt.Errorf("internal error: unknown operator %v", e.Op)
	default:
		return 0, fmt.Errorf("internal error: unknown expression type %T", e)
	}
}

// cond evaluates a condition. and/or short-circuit.
func (in *Interpreter) cond(ctx context.Context, c robotfile.Cond) (bool, error) {
	switch c := c.(type) {
	case *robotfile.Compare:
		left, err := in.eval(ctx, c.Left)
		if err != nil {
			return false, err
		}
		right, err := in.eval(ctx, c.Right)
		if err != nil {
			return false, err
		}
		switch c.Op {
		case robotfile.CmpLt:
			return left < right, nil
		case robotfile.CmpGt:
			return left > right, nil
		case robotfile.CmpEq:
			return left == right, nil
		}
		return false, fmt.Errorf("internal error: unknown comparison %v", c.Op)
	case *robotfile.And:
		ok, err := in.cond(ctx, c.Left)
		if err != nil || !ok {
			return false, err
		}
		return in.cond(ctx, c.Right)
	case *robotfile.Or:
		ok, err := in.cond(ctx, c.Left)
		if err != nil || ok {
			return ok, err
		}
		return in.cond(ctx, c.Right)
	case *robotfile.Not:
		ok, err := in.cond(ctx, c.Cond)
		if err != nil {
			return false, err
		}
		return !ok, nil
	default:
		return false, fmt.Errorf("internal error: unknown condition type %T", c)
	}
}

// sense reads a sensor. Barrel sensors take an index, 0 when omitted, which
// must be in [0, numBarrels).
func (in *Interpreter) sense(ctx context.Context, s *robotfile.Sensor) (int, error) {
	var (
		v   int
		err error
	)
	switch s.Kind {
	case robotfile.SensorFuelLeft:
		v, err = in.robot.Fuel(ctx)
	case robotfile.SensorOppLR:
		v, err = in.robot.OpponentLR(ctx)
	case robotfile.SensorOppFB:
		v, err = in.robot.OpponentFB(ctx)
	case robotfile.SensorNumBarrels:
		v, err = in.robot.NumBarrels(ctx)
	case robotfile.SensorWallDist:
		v, err = in.robot.DistanceToWall(ctx)
	case robotfile.SensorBarrelLR, robotfile.SensorBarrelFB:
		return in.senseBarrel(ctx, s)
	default:
		return 0, fmt.Errorf("internal error: unknown sensor %v", s.Kind)
	}
	if err != nil {
		return 0, fmt.Errorf("sensor %s: %w", s.Kind, err)
	}
	return v, nil
}

func (in *Interpreter) senseBarrel(ctx context.Context, s *robotfile.Sensor) (int, error) {
	idx := 0
	if s.Arg != nil {
		v, err := in.eval(ctx, s.Arg)
		if err != nil {
			return 0, err
		}
		idx = v
	}

	count, err := in.robot.NumBarrels(ctx)
	if err != nil {
		return 0, fmt.Errorf("sensor %s: %w", robotfile.SensorNumBarrels, err)
	}
	if idx < 0 || idx >= count {
		return 0, in.fault(FaultSensorRange, s,
			fmt.Errorf("%w: barrel %d of %d", ErrSensorRange, idx, count))
	}

	var v int
	if s.Kind == robotfile.SensorBarrelLR {
		v, err = in.robot.BarrelLR(ctx, idx)
	} else {
		v, err = in.robot.BarrelFB(ctx, idx)
	}
	if err != nil {
		return 0, fmt.Errorf("sensor %s: %w", s.Kind, err)
	}
	return v, nil
}

func (in *Interpreter) fault(kind FaultKind, node robotfile.Node, err error) *RuntimeError {
	return &RuntimeError{
		Kind: kind,
		Node: node,
		Pos:  position(in.current),
		Err:  err,
	}
}
