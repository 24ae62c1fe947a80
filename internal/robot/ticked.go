package robot

import (
	"context"
	"time"

	"github.com/vinayprograms/robot/internal/interp"
)

// Ticked wraps a robot so that every action first waits for a tick from the
// world. Sensors are read immediately.
type Ticked struct {
	interp.Robot
	ticks <-chan time.Time
}

// NewTicked wraps r. Each action consumes one value from ticks.
func NewTicked(r interp.Robot, ticks <-chan time.Time) *Ticked {
	return &Ticked{Robot: r, ticks: ticks}
}

// await blocks until the next tick. A closed tick channel ends the run.
func (t *Ticked) await(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case _, ok := <-t.ticks:
		if !ok {
			return ErrRunEnded
		}
		return nil
	}
}

func (t *Ticked) perform(ctx context.Context, a interp.Action) error {
	if _, ok := t.Robot.(interp.ExtendedRobot); a.Extended() && !ok {
		return interp.ErrUnsupportedAction
	}
	if err := t.await(ctx); err != nil {
		return err
	}
	return interp.Perform(ctx, t.Robot, a)
}

func (t *Ticked) Move(ctx context.Context) error       { return t.perform(ctx, interp.ActionMove) }
func (t *Ticked) TurnLeft(ctx context.Context) error   { return t.perform(ctx, interp.ActionTurnLeft) }
func (t *Ticked) TurnRight(ctx context.Context) error  { return t.perform(ctx, interp.ActionTurnRight) }
func (t *Ticked) TakeFuel(ctx context.Context) error   { return t.perform(ctx, interp.ActionTakeFuel) }
func (t *Ticked) IdleWait(ctx context.Context) error   { return t.perform(ctx, interp.ActionWait) }
func (t *Ticked) TurnAround(ctx context.Context) error { return t.perform(ctx, interp.ActionTurnAround) }
func (t *Ticked) ShieldOn(ctx context.Context) error   { return t.perform(ctx, interp.ActionShieldOn) }
func (t *Ticked) ShieldOff(ctx context.Context) error  { return t.perform(ctx, interp.ActionShieldOff) }

var _ interp.ExtendedRobot = (*Ticked)(nil)
