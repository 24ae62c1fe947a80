package robot

import (
	"context"
	"errors"

	"github.com/vinayprograms/robot/internal/interp"
)

// Subject layout for robots reached over NATS:
//
//	<prefix>.action.<name>   name is an interp.Action (move, turnL, ...)
//	<prefix>.sensor.<name>   name is a sensor keyword (fuelLeft, barrelLR, ...)
const (
	kindAction = "action"
	kindSensor = "sensor"
)

// Sensor route names.
const (
	sensorFuel       = "fuelLeft"
	sensorOppLR      = "oppLR"
	sensorOppFB      = "oppFB"
	sensorNumBarrels = "numBarrels"
	sensorBarrelLR   = "barrelLR"
	sensorBarrelFB   = "barrelFB"
	sensorWallDist   = "wallDist"
)

// Error codes carried in replies so that sentinel errors survive the trip.
const (
	codeEnded       = "ended"
	codeUnsupported = "unsupported"
	codeRange       = "range"
	codeCanceled    = "canceled"
)

type request struct {
	Arg int `json:"arg,omitempty"`
}

type reply struct {
	Value int    `json:"value"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// replyFor encodes the outcome of a robot call.
func replyFor(value int, err error) reply {
	if err == nil {
		return reply{Value: value}
	}
	rep := reply{Error: err.Error()}
	switch {
	case errors.Is(err, ErrRunEnded):
		rep.Code = codeEnded
	case errors.Is(err, interp.ErrUnsupportedAction):
		rep.Code = codeUnsupported
	case errors.Is(err, interp.ErrSensorRange):
		rep.Code = codeRange
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		rep.Code = codeCanceled
	}
	return rep
}

// err decodes the error carried by a reply.
func (r reply) err() error {
	if r.Error == "" {
		return nil
	}
	switch r.Code {
	case codeEnded:
		return ErrRunEnded
	case codeUnsupported:
		return interp.ErrUnsupportedAction
	case codeRange:
		return interp.ErrSensorRange
	case codeCanceled:
		return context.Canceled
	}
	return &RemoteError{Message: r.Error}
}

// RemoteError is an error reported by the far side of a NATS robot.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string { return "remote robot: " + e.Message }
