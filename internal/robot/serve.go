package robot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/vinayprograms/agentkit/logging"
	"github.com/vinayprograms/robot/internal/interp"
)

// Subscriber registers a message handler. *nats.Conn implements it.
type Subscriber interface {
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// Server answers Remote requests on behalf of a local robot.
type Server struct {
	robot  interp.Robot
	prefix string
	logger *logging.Logger
}

// NewServer creates a server for r under the given subject prefix.
func NewServer(r interp.Robot, prefix string) *Server {
	return &Server{
		robot:  r,
		prefix: prefix,
		logger: logging.New().WithComponent("robot-server"),
	}
}

// Serve subscribes to the prefix and answers requests until ctx is done.
func (s *Server) Serve(ctx context.Context, conn Subscriber) error {
	sub, err := conn.Subscribe(s.prefix+".>", func(msg *nats.Msg) {
		data := s.Handle(ctx, msg.Subject, msg.Data)
		if err := msg.Respond(data); err != nil {
			s.logger.Warn("failed to respond", map[string]interface{}{
				"subject": msg.Subject,
				"error":   err.Error(),
			})
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s.>: %w", s.prefix, err)
	}
	defer sub.Unsubscribe()

	s.logger.Info("serving robot", map[string]interface{}{"prefix": s.prefix})
	<-ctx.Done()
	return nil
}

// Handle answers one request addressed to subject and returns the encoded
// reply.
func (s *Server) Handle(ctx context.Context, subject string, data []byte) []byte {
	value, err := s.dispatch(ctx, subject, data)
	if err != nil {
		s.logger.Debug("request failed", map[string]interface{}{
			"subject": subject,
			"error":   err.Error(),
		})
	}
	out, _ := json.Marshal(replyFor(value, err))
	return out
}

func (s *Server) dispatch(ctx context.Context, subject string, data []byte) (int, error) {
	route := strings.TrimPrefix(subject, s.prefix+".")
	kind, name, ok := strings.Cut(route, ".")
	if !ok || route == subject {
		return 0, fmt.Errorf("unknown subject %q", subject)
	}

	var req request
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			return 0, fmt.Errorf("invalid request: %w", err)
		}
	}

	switch kind {
	case kindAction:
		return 0, s.act(ctx, interp.Action(name))
	case kindSensor:
		return s.sense(ctx, name, req.Arg)
	}
	return 0, fmt.Errorf("unknown subject %q", subject)
}

func (s *Server) act(ctx context.Context, a interp.Action) error {
	switch a {
	case interp.ActionMove, interp.ActionTurnLeft, interp.ActionTurnRight,
		interp.ActionTakeFuel, interp.ActionWait,
		interp.ActionTurnAround, interp.ActionShieldOn, interp.ActionShieldOff:
		return interp.Perform(ctx, s.robot, a)
	}
	return fmt.Errorf("unknown action %q", a)
}

func (s *Server) sense(ctx context.Context, name string, arg int) (int, error) {
	switch name {
	case sensorFuel:
		return s.robot.Fuel(ctx)
	case sensorOppLR:
		return s.robot.OpponentLR(ctx)
	case sensorOppFB:
		return s.robot.OpponentFB(ctx)
	case sensorNumBarrels:
		return s.robot.NumBarrels(ctx)
	case sensorBarrelLR:
		return s.robot.BarrelLR(ctx, arg)
	case sensorBarrelFB:
		return s.robot.BarrelFB(ctx, arg)
	case sensorWallDist:
		return s.robot.DistanceToWall(ctx)
	}
	return 0, fmt.Errorf("unknown sensor %q", name)
}
