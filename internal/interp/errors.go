package interp

import (
	"errors"
	"fmt"

	"github.com/vinayprograms/robot/internal/robotfile"
)

// Runtime fault sentinels, matched with errors.Is.
var (
	ErrDivisionByZero    = errors.New("division by zero")
	ErrSensorRange       = errors.New("sensor argument out of range")
	ErrUnsupportedAction = errors.New("action not supported by robot")
	ErrStepLimit         = errors.New("step limit exceeded")
)

// FaultKind classifies a RuntimeError.
type FaultKind string

const (
	FaultDivisionByZero    FaultKind = "division-by-zero"
	FaultSensorRange       FaultKind = "sensor-range"
	FaultUnsupportedAction FaultKind = "unsupported-action"
	FaultStepLimit         FaultKind = "step-limit"
)

// RuntimeError aborts a run. Node is the expression or statement that
// faulted, Pos the position of the statement being executed.
type RuntimeError struct {
	Kind FaultKind
	Node robotfile.Node
	Pos  robotfile.Position
	Err  error
}

func (e *RuntimeError) Error() string {
	msg := e.Err.Error()
	if e.Node != nil {
		msg = fmt.Sprintf("%s: %s", e.Node, msg)
	}
	if e.Pos.Line > 0 {
		return fmt.Sprintf("runtime fault at line %d, col %d: %s", e.Pos.Line, e.Pos.Column, msg)
	}
	return "runtime fault: " + msg
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// FaultKindOf returns the kind of the RuntimeError in err's chain, or "" when
// there is none.
func FaultKindOf(err error) FaultKind {
	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		return rerr.Kind
	}
	return ""
}
