package session

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vinayprograms/robot/internal/interp"
	"github.com/vinayprograms/robot/internal/robot"
	"github.com/vinayprograms/robot/internal/robotfile"
)

func TestSession_UniqueIDs(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		sess := New("prog", "scripted")
		if ids[sess.ID] {
			t.Errorf("duplicate session ID: %s", sess.ID)
		}
		ids[sess.ID] = true
	}
}

func TestSession_EventSequencing(t *testing.T) {
	sess := New("prog", "scripted")
	first := sess.AddEvent(Event{Type: EventRunStart})
	second := sess.AddEvent(Event{Type: EventAction, Action: "move"})

	if first != 1 || second != 2 {
		t.Errorf("expected seq 1, 2; got %d, %d", first, second)
	}
	if sess.Events[1].Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
	if n := sess.CountEvents(EventAction); n != 1 {
		t.Errorf("expected 1 action event, got %d", n)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "sessions"))
	if err != nil {
		t.Fatalf("create store error: %v", err)
	}

	sess := New("bot.robot", "scripted")
	v := 4
	sess.AddEvent(Event{Type: EventRunStart})
	sess.AddEvent(Event{Type: EventAssign, Variable: "$x", Value: &v, Line: 1, Column: 1})
	sess.AddEvent(Event{Type: EventAction, Action: "move", Line: 2, Column: 1})
	sess.Status = StatusFailed
	sess.Error = "runtime fault: division by zero"
	sess.Variables = map[string]int{"$x": 4}

	if err := store.Save(sess); err != nil {
		t.Fatalf("save error: %v", err)
	}

	loaded, err := store.Load(sess.ID)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if loaded.ID != sess.ID || loaded.ProgramName != "bot.robot" || loaded.Robot != "scripted" {
		t.Errorf("header mismatch: %+v", loaded)
	}
	if loaded.Status != StatusFailed {
		t.Errorf("expected status failed, got %s", loaded.Status)
	}
	if loaded.Error != sess.Error {
		t.Errorf("expected error %q, got %q", sess.Error, loaded.Error)
	}
	if len(loaded.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(loaded.Events))
	}
	if ev := loaded.Events[1]; ev.Variable != "$x" || ev.Value == nil || *ev.Value != 4 {
		t.Errorf("assign event mismatch: %+v", ev)
	}
	if loaded.Variables["$x"] != 4 {
		t.Errorf("expected $x=4, got %d", loaded.Variables["$x"])
	}

	// sequencing continues after load
	if seq := loaded.AddEvent(Event{Type: EventRunEnd}); seq != 4 {
		t.Errorf("expected seq 4 after load, got %d", seq)
	}
}

func TestFileStore_JSONLLayout(t *testing.T) {
	sess := New("prog", "scripted")
	sess.AddEvent(Event{Type: EventRunStart})
	sess.Status = StatusComplete

	var buf bytes.Buffer
	if err := Write(&buf, sess); err != nil {
		t.Fatalf("write error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header, event, footer; got %d lines", len(lines))
	}
	for i, want := range []string{`"_type":"header"`, `"_type":"event"`, `"_type":"footer"`} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d: expected %s in %s", i, want, lines[i])
		}
	}
}

func TestRead_Errors(t *testing.T) {
	if _, err := Read(strings.NewReader("not json\n")); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := Read(strings.NewReader(`{"_type":"event","seq":1,"type":"action"}` + "\n")); err == nil {
		t.Error("expected error for missing header")
	}
	if _, err := Read(strings.NewReader(`{"_type":"header","id":"a"}` + "\n" + `{"_type":"bogus"}`)); err == nil {
		t.Error("expected error for unknown record type")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.jsonl"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func recordRun(t *testing.T, store Store, src string, settings robot.Settings) (*Recorder, error) {
	t.Helper()
	prog, err := robotfile.ParseString(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	rec, err := NewRecorder(store, prog, "scripted")
	if err != nil {
		t.Fatalf("recorder error: %v", err)
	}
	in := interp.NewInterpreter(robot.NewScripted(settings))
	rec.Attach(in)
	runErr := in.Run(context.Background(), prog)
	if err := rec.Finish(runErr, in.Store().Snapshot()); err != nil {
		t.Fatalf("finish error: %v", err)
	}
	return rec, runErr
}

func TestRecorder_CompleteRun(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("create store error: %v", err)
	}

	rec, runErr := recordRun(t, store, "$n = 2;\nmove($n);\nturnL;", robot.Settings{Fuel: 5, WallDist: 5})
	if runErr != nil {
		t.Fatalf("run error: %v", runErr)
	}

	loaded, err := store.Load(rec.Session().ID)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if loaded.Status != StatusComplete {
		t.Errorf("expected complete, got %s", loaded.Status)
	}

	var types []string
	for _, e := range loaded.Events {
		types = append(types, e.Type)
	}
	want := []string{EventRunStart, EventAssign, EventAction, EventAction, EventAction, EventRunEnd}
	if strings.Join(types, ",") != strings.Join(want, ",") {
		t.Errorf("expected events %v, got %v", want, types)
	}
	if loaded.Events[2].Line != 2 || loaded.Events[4].Action != "turnL" {
		t.Errorf("unexpected action events: %+v", loaded.Events[2:5])
	}
	if loaded.Variables["$n"] != 2 {
		t.Errorf("expected $n=2 in snapshot, got %v", loaded.Variables)
	}
}

func TestRecorder_Fault(t *testing.T) {
	rec, runErr := recordRun(t, nil, "move;\n$x = div(1, 0);", robot.Settings{Fuel: 5})
	if !errors.Is(runErr, interp.ErrDivisionByZero) {
		t.Fatalf("expected division by zero, got %v", runErr)
	}

	sess := rec.Session()
	if sess.Status != StatusFailed {
		t.Errorf("expected failed, got %s", sess.Status)
	}
	if sess.CountEvents(EventFault) != 1 {
		t.Fatalf("expected one fault event")
	}
	for _, e := range sess.Events {
		if e.Type == EventFault && (e.Fault != string(interp.FaultDivisionByZero) || e.Line != 2) {
			t.Errorf("fault event mismatch: %+v", e)
		}
	}
}

func TestRecorder_WorldEndsRun(t *testing.T) {
	rec, runErr := recordRun(t, nil, "loop { wait; }", robot.Settings{MaxActions: 3})
	if !errors.Is(runErr, robot.ErrRunEnded) {
		t.Fatalf("expected run ended, got %v", runErr)
	}
	sess := rec.Session()
	if sess.Status != StatusStopped {
		t.Errorf("expected stopped, got %s", sess.Status)
	}
	if n := sess.CountEvents(EventAction); n != 3 {
		t.Errorf("expected 3 actions, got %d", n)
	}
}

func TestRecorder_FlushEvery(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("create store error: %v", err)
	}
	prog, err := robotfile.ParseString("move; move; move;")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	rec, err := NewRecorder(store, prog, "scripted")
	if err != nil {
		t.Fatalf("recorder error: %v", err)
	}
	rec.SetFlushEvery(2)
	in := interp.NewInterpreter(robot.NewScripted(robot.Settings{Fuel: 5, WallDist: 5}))
	rec.Attach(in)

	// Stop after the second action to observe the intermediate save.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	prev := in.OnAction
	in.OnAction = func(a interp.Action, pos robotfile.Position) {
		prev(a, pos)
		if rec.Session().CountEvents(EventAction) == 2 {
			cancel()
		}
	}
	_ = in.Run(ctx, prog)

	loaded, err := store.Load(rec.Session().ID)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if n := loaded.CountEvents(EventAction); n != 2 {
		t.Errorf("expected 2 flushed actions, got %d", n)
	}
	if loaded.Status != StatusRunning {
		t.Errorf("expected running, got %s", loaded.Status)
	}
}
