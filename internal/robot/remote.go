package robot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/vinayprograms/robot/internal/interp"
)

// Requester sends a request and waits for its reply. *nats.Conn implements it.
type Requester interface {
	RequestWithContext(ctx context.Context, subj string, data []byte) (*nats.Msg, error)
}

// Remote is a robot living on the other side of a NATS connection. Each
// action and sensor read is one request/reply round trip.
type Remote struct {
	conn    Requester
	prefix  string
	timeout time.Duration
}

// NewRemote creates a remote robot publishing under prefix. A positive
// timeout bounds each round trip.
func NewRemote(conn Requester, prefix string, timeout time.Duration) *Remote {
	return &Remote{conn: conn, prefix: prefix, timeout: timeout}
}

// Connect dials a NATS server for use by Remote or Serve.
func Connect(url, name string, timeout time.Duration) (*nats.Conn, error) {
	opts := []nats.Option{nats.Name(name)}
	if timeout > 0 {
		opts = append(opts, nats.Timeout(timeout))
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	return nc, nil
}

func (r *Remote) subject(kind, name string) string {
	return r.prefix + "." + kind + "." + name
}

// call performs one round trip and decodes the reply.
func (r *Remote) call(ctx context.Context, kind, name string, arg int) (int, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	data, err := json.Marshal(request{Arg: arg})
	if err != nil {
		return 0, fmt.Errorf("failed to encode request: %w", err)
	}

	subj := r.subject(kind, name)
	msg, err := r.conn.RequestWithContext(ctx, subj, data)
	if err != nil {
		return 0, fmt.Errorf("request %s: %w", subj, err)
	}

	var rep reply
	if err := json.Unmarshal(msg.Data, &rep); err != nil {
		return 0, fmt.Errorf("invalid reply on %s: %w", subj, err)
	}
	return rep.Value, rep.err()
}

func (r *Remote) act(ctx context.Context, a interp.Action) error {
	_, err := r.call(ctx, kindAction, string(a), 0)
	return err
}

func (r *Remote) sense(ctx context.Context, name string) (int, error) {
	return r.call(ctx, kindSensor, name, 0)
}

func (r *Remote) Move(ctx context.Context) error       { return r.act(ctx, interp.ActionMove) }
func (r *Remote) TurnLeft(ctx context.Context) error   { return r.act(ctx, interp.ActionTurnLeft) }
func (r *Remote) TurnRight(ctx context.Context) error  { return r.act(ctx, interp.ActionTurnRight) }
func (r *Remote) TakeFuel(ctx context.Context) error   { return r.act(ctx, interp.ActionTakeFuel) }
func (r *Remote) IdleWait(ctx context.Context) error   { return r.act(ctx, interp.ActionWait) }
func (r *Remote) TurnAround(ctx context.Context) error { return r.act(ctx, interp.ActionTurnAround) }
func (r *Remote) ShieldOn(ctx context.Context) error   { return r.act(ctx, interp.ActionShieldOn) }
func (r *Remote) ShieldOff(ctx context.Context) error  { return r.act(ctx, interp.ActionShieldOff) }

func (r *Remote) Fuel(ctx context.Context) (int, error)       { return r.sense(ctx, sensorFuel) }
func (r *Remote) OpponentLR(ctx context.Context) (int, error) { return r.sense(ctx, sensorOppLR) }
func (r *Remote) OpponentFB(ctx context.Context) (int, error) { return r.sense(ctx, sensorOppFB) }
func (r *Remote) NumBarrels(ctx context.Context) (int, error) { return r.sense(ctx, sensorNumBarrels) }
func (r *Remote) DistanceToWall(ctx context.Context) (int, error) {
	return r.sense(ctx, sensorWallDist)
}

func (r *Remote) BarrelLR(ctx context.Context, n int) (int, error) {
	return r.call(ctx, kindSensor, sensorBarrelLR, n)
}

func (r *Remote) BarrelFB(ctx context.Context, n int) (int, error) {
	return r.call(ctx, kindSensor, sensorBarrelFB, n)
}

var _ interp.ExtendedRobot = (*Remote)(nil)
