package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vinayprograms/agentkit/logging"
	"github.com/vinayprograms/robot/internal/interp"
	"github.com/vinayprograms/robot/internal/robot"
	"github.com/vinayprograms/robot/internal/robotfile"
)

// Recorder captures an interpreter run into a session.
type Recorder struct {
	sess   *Session
	store  Store
	start  time.Time
	logger *logging.Logger

	flushEvery int
	pending    int
}

// NewRecorder starts a session for the program and saves its header. store
// may be nil to keep the session in memory only.
func NewRecorder(store Store, prog *robotfile.Program, robotName string) (*Recorder, error) {
	r := &Recorder{
		sess:   New(prog.Name, robotName),
		store:  store,
		start:  time.Now(),
		logger: logging.New().WithComponent("session"),
	}
	r.sess.AddEvent(Event{
		Type:    EventRunStart,
		Content: fmt.Sprintf("%d statements", len(prog.Statements)),
	})
	if err := r.save(); err != nil {
		return nil, err
	}
	return r, nil
}

// Session returns the session being recorded.
func (r *Recorder) Session() *Session {
	return r.sess
}

// SetFlushEvery saves the session after every n recorded events so the file
// can be followed while the run is in progress. n <= 0 saves only at start
// and finish.
func (r *Recorder) SetFlushEvery(n int) {
	r.flushEvery = n
}

// Attach installs the recorder's callbacks on in.
func (r *Recorder) Attach(in *interp.Interpreter) {
	in.OnAction = func(action interp.Action, pos robotfile.Position) {
		r.record(Event{
			Type:   EventAction,
			Action: string(action),
			Line:   pos.Line,
			Column: pos.Column,
		})
	}
	in.OnAssign = func(name string, value int, pos robotfile.Position) {
		v := value
		r.record(Event{
			Type:     EventAssign,
			Variable: name,
			Value:    &v,
			Line:     pos.Line,
			Column:   pos.Column,
		})
	}
}

// Finish closes the session with the run's outcome and final variables,
// then saves it.
func (r *Recorder) Finish(runErr error, vars map[string]int) error {
	end := Event{Type: EventRunEnd, DurationMs: time.Since(r.start).Milliseconds()}

	var rerr *interp.RuntimeError
	switch {
	case runErr == nil:
		r.sess.Status = StatusComplete
	case errors.As(runErr, &rerr):
		r.sess.AddEvent(Event{
			Type:   EventFault,
			Fault:  string(rerr.Kind),
			Line:   rerr.Pos.Line,
			Column: rerr.Pos.Column,
			Error:  rerr.Error(),
		})
		r.sess.Status = StatusFailed
	case errors.Is(runErr, robot.ErrRunEnded),
		errors.Is(runErr, context.Canceled),
		errors.Is(runErr, context.DeadlineExceeded):
		r.sess.Status = StatusStopped
	default:
		r.sess.Status = StatusFailed
	}
	if runErr != nil {
		r.sess.Error = runErr.Error()
		end.Error = runErr.Error()
	}

	r.sess.AddEvent(end)
	if vars != nil {
		r.sess.Variables = vars
	}

	r.logger.Info("session finished", map[string]interface{}{
		"session": r.sess.ID,
		"status":  r.sess.Status,
		"events":  len(r.sess.Events),
	})
	return r.save()
}

func (r *Recorder) record(event Event) {
	r.sess.AddEvent(event)
	if r.flushEvery <= 0 {
		return
	}
	r.pending++
	if r.pending < r.flushEvery {
		return
	}
	r.pending = 0
	if err := r.save(); err != nil {
		r.logger.Warn("intermediate save failed", map[string]interface{}{
			"session": r.sess.ID,
			"error":   err.Error(),
		})
	}
}

func (r *Recorder) save() error {
	if r.store == nil {
		return nil
	}
	if err := r.store.Save(r.sess); err != nil {
		return fmt.Errorf("failed to save session %s: %w", r.sess.ID, err)
	}
	return nil
}
