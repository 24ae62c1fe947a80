package interp

import "context"

// Robot is the capability interface a program runs against.
//
// Actions may block while the world advances; an action error aborts the
// run. Sensors take a context because a robot may live on the other side of
// a network link.
type Robot interface {
	Move(ctx context.Context) error
	TurnLeft(ctx context.Context) error
	TurnRight(ctx context.Context) error
	TakeFuel(ctx context.Context) error
	IdleWait(ctx context.Context) error

	Fuel(ctx context.Context) (int, error)
	OpponentLR(ctx context.Context) (int, error)
	OpponentFB(ctx context.Context) (int, error)
	NumBarrels(ctx context.Context) (int, error)
	BarrelLR(ctx context.Context, n int) (int, error)
	BarrelFB(ctx context.Context, n int) (int, error)
	DistanceToWall(ctx context.Context) (int, error)
}

// ExtendedRobot is implemented by robots that support turnAround, shieldOn
// and shieldOff.
type ExtendedRobot interface {
	Robot
	TurnAround(ctx context.Context) error
	ShieldOn(ctx context.Context) error
	ShieldOff(ctx context.Context) error
}

// Action names a robot action as reported to callbacks.
type Action string

const (
	ActionMove       Action = "move"
	ActionTurnLeft   Action = "turnL"
	ActionTurnRight  Action = "turnR"
	ActionTakeFuel   Action = "takeFuel"
	ActionWait       Action = "wait"
	ActionTurnAround Action = "turnAround"
	ActionShieldOn   Action = "shieldOn"
	ActionShieldOff  Action = "shieldOff"
)

// Extended reports whether the action needs an ExtendedRobot.
func (a Action) Extended() bool {
	switch a {
	case ActionTurnAround, ActionShieldOn, ActionShieldOff:
		return true
	}
	return false
}

// Perform invokes action a on r.
func Perform(ctx context.Context, r Robot, a Action) error {
	switch a {
	case ActionMove:
		return r.Move(ctx)
	case ActionTurnLeft:
		return r.TurnLeft(ctx)
	case ActionTurnRight:
		return r.TurnRight(ctx)
	case ActionTakeFuel:
		return r.TakeFuel(ctx)
	case ActionWait:
		return r.IdleWait(ctx)
	}

	ext, ok := r.(ExtendedRobot)
	if !ok {
		return ErrUnsupportedAction
	}
	switch a {
	case ActionTurnAround:
		return ext.TurnAround(ctx)
	case ActionShieldOn:
		return ext.ShieldOn(ctx)
	case ActionShieldOff:
		return ext.ShieldOff(ctx)
	}
	return ErrUnsupportedAction
}
