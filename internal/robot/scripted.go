// Package robot provides robots that programs can drive: an in-memory
// scripted world, a tick-driven wrapper, and a robot reached over NATS.
package robot

import (
	"context"
	"errors"
	"sync"

	"github.com/vinayprograms/robot/internal/interp"
)

// ErrRunEnded is returned by actions once the world has ended the run.
var ErrRunEnded = errors.New("run ended")

// Barrel is a fuel barrel, relative to the robot.
type Barrel struct {
	LR int `toml:"lr" json:"lr"`
	FB int `toml:"fb" json:"fb"`
}

// Settings describes the world a Scripted robot lives in.
type Settings struct {
	Fuel       int      // starting fuel
	Refuel     int      // fuel gained per barrel taken
	MaxActions int      // actions before the run ends, 0 for no limit
	OpponentLR int      // opponent offset, left/right
	OpponentFB int      // opponent offset, front/back
	WallDist   int      // distance to the wall ahead
	Barrels    []Barrel // barrels in sensor order
}

// Scripted is an in-memory robot. Moving burns one unit of fuel and brings
// the wall one step closer; takeFuel consumes the first barrel. Sensor values
// otherwise stay as configured. It is safe for concurrent use.
type Scripted struct {
	mu       sync.Mutex
	settings Settings
	fuel     int
	wall     int
	barrels  []Barrel
	shield   bool
	actions  []interp.Action
}

// NewScripted creates a scripted robot.
func NewScripted(s Settings) *Scripted {
	return &Scripted{
		settings: s,
		fuel:     s.Fuel,
		wall:     s.WallDist,
		barrels:  append([]Barrel(nil), s.Barrels...),
	}
}

// record registers an action, ending the run once MaxActions is reached.
func (r *Scripted) record(ctx context.Context, a interp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.settings.MaxActions > 0 && len(r.actions) >= r.settings.MaxActions {
		return ErrRunEnded
	}
	r.actions = append(r.actions, a)
	return nil
}

func (r *Scripted) Move(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(ctx, interp.ActionMove); err != nil {
		return err
	}
	if r.fuel > 0 {
		r.fuel--
		if r.wall > 0 {
			r.wall--
		}
	}
	return nil
}

func (r *Scripted) TurnLeft(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record(ctx, interp.ActionTurnLeft)
}

func (r *Scripted) TurnRight(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record(ctx, interp.ActionTurnRight)
}

func (r *Scripted) TakeFuel(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(ctx, interp.ActionTakeFuel); err != nil {
		return err
	}
	if len(r.barrels) > 0 {
		r.barrels = r.barrels[1:]
		r.fuel += r.settings.Refuel
	}
	return nil
}

func (r *Scripted) IdleWait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record(ctx, interp.ActionWait)
}

func (r *Scripted) TurnAround(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record(ctx, interp.ActionTurnAround)
}

func (r *Scripted) ShieldOn(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(ctx, interp.ActionShieldOn); err != nil {
		return err
	}
	r.shield = true
	return nil
}

func (r *Scripted) ShieldOff(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(ctx, interp.ActionShieldOff); err != nil {
		return err
	}
	r.shield = false
	return nil
}

func (r *Scripted) Fuel(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fuel, nil
}

func (r *Scripted) OpponentLR(ctx context.Context) (int, error) {
	return r.settings.OpponentLR, nil
}

func (r *Scripted) OpponentFB(ctx context.Context) (int, error) {
	return r.settings.OpponentFB, nil
}

func (r *Scripted) NumBarrels(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.barrels), nil
}

func (r *Scripted) BarrelLR(ctx context.Context, n int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n < 0 || n >= len(r.barrels) {
		return 0, interp.ErrSensorRange
	}
	return r.barrels[n].LR, nil
}

func (r *Scripted) BarrelFB(ctx context.Context, n int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n < 0 || n >= len(r.barrels) {
		return 0, interp.ErrSensorRange
	}
	return r.barrels[n].FB, nil
}

func (r *Scripted) DistanceToWall(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.wall, nil
}

// Actions returns the actions performed so far.
func (r *Scripted) Actions() []interp.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]interp.Action(nil), r.actions...)
}

// Shielded reports whether the shield is up.
func (r *Scripted) Shielded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shield
}

var _ interp.ExtendedRobot = (*Scripted)(nil)
