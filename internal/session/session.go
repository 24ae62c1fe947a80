// Package session records program runs and persists them as JSONL.
package session

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Status constants for sessions.
const (
	StatusRunning  = "running"
	StatusComplete = "complete"
	StatusFailed   = "failed"
	StatusStopped  = "stopped" // cancelled or ended by the world
)

// Event types for the session log.
const (
	EventRunStart = "run_start"
	EventAction   = "action"
	EventAssign   = "assign"
	EventFault    = "fault"
	EventRunEnd   = "run_end"
)

// Session represents one program run.
type Session struct {
	ID          string         `json:"id"`
	ProgramName string         `json:"program_name"`
	Robot       string         `json:"robot"`
	Status      string         `json:"status"`
	Error       string         `json:"error,omitempty"`
	Variables   map[string]int `json:"variables"`
	Events      []Event        `json:"events"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	// Internal state (not persisted)
	seqCounter uint64
	mu         sync.Mutex
}

// Event represents a single entry in the session log.
type Event struct {
	SeqID     uint64    `json:"seq"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	// Where in the program this happened
	Line   int `json:"line,omitempty"`
	Column int `json:"column,omitempty"`

	Action   string `json:"action,omitempty"`   // for action events
	Variable string `json:"variable,omitempty"` // for assign events
	Value    *int   `json:"value,omitempty"`    // for assign events

	Content    string `json:"content,omitempty"`
	Fault      string `json:"fault,omitempty"` // runtime fault kind
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"` // for run_end
}

// New creates a running session for the named program.
func New(programName, robot string) *Session {
	now := time.Now()
	return &Session{
		ID:          uuid.NewString(),
		ProgramName: programName,
		Robot:       robot,
		Status:      StatusRunning,
		Variables:   make(map[string]int),
		Events:      []Event{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *Session) nextSeqID() uint64 {
	return atomic.AddUint64(&s.seqCounter, 1)
}

// AddEvent adds a new event to the session with automatic sequencing.
func (s *Session) AddEvent(event Event) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	event.SeqID = s.nextSeqID()
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	s.Events = append(s.Events, event)
	s.UpdatedAt = event.Timestamp
	return event.SeqID
}

// CountEvents returns how many events of the given type were recorded.
func (s *Session) CountEvents(eventType string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.Events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

// Store is the interface for session persistence.
type Store interface {
	Save(sess *Session) error
	Load(id string) (*Session, error)
}

// JSONL record types
const (
	RecordTypeHeader = "header" // Session metadata (first line)
	RecordTypeEvent  = "event"  // Individual event
	RecordTypeFooter = "footer" // Final state (last line)
)

// JSONLRecord is a wrapper for JSONL lines with type discrimination.
type JSONLRecord struct {
	RecordType string `json:"_type"`

	// Header fields
	ID          string    `json:"id,omitempty"`
	ProgramName string    `json:"program_name,omitempty"`
	Robot       string    `json:"robot,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`

	// Event fields
	*Event `json:",omitempty"`

	// Footer fields
	Status    string         `json:"status,omitempty"`
	Variables map[string]int `json:"variables,omitempty"`
	UpdatedAt time.Time      `json:"updated_at,omitempty"`
}

// FileStore implements Store using the filesystem, one <id>.jsonl per session.
type FileStore struct {
	dir string
}

// NewFileStore creates a new file-based store.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file a session is stored in.
func (s *FileStore) Path(id string) string {
	return filepath.Join(s.dir, id+".jsonl")
}

// Save persists a session to disk in JSONL format.
func (s *FileStore) Save(sess *Session) error {
	f, err := os.Create(s.Path(sess.ID))
	if err != nil {
		return fmt.Errorf("failed to create session file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := Write(w, sess); err != nil {
		return err
	}
	return w.Flush()
}

// Write encodes a session as JSONL: header, one line per event, footer.
func Write(w io.Writer, sess *Session) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	enc := json.NewEncoder(w)
	header := JSONLRecord{
		RecordType:  RecordTypeHeader,
		ID:          sess.ID,
		ProgramName: sess.ProgramName,
		Robot:       sess.Robot,
		CreatedAt:   sess.CreatedAt,
	}
	if err := enc.Encode(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range sess.Events {
		evt := sess.Events[i]
		if err := enc.Encode(JSONLRecord{RecordType: RecordTypeEvent, Event: &evt}); err != nil {
			return fmt.Errorf("failed to write event %d: %w", evt.SeqID, err)
		}
	}

	footer := JSONLRecord{
		RecordType: RecordTypeFooter,
		Status:     sess.Status,
		Variables:  sess.Variables,
		UpdatedAt:  sess.UpdatedAt,
	}
	if sess.Error != "" {
		footer.Event = &Event{Error: sess.Error}
	}
	if err := enc.Encode(footer); err != nil {
		return fmt.Errorf("failed to write footer: %w", err)
	}
	return nil
}

// Load reads a session by ID.
func (s *FileStore) Load(id string) (*Session, error) {
	return LoadFile(s.Path(id))
}

// LoadFile reads a session from a JSONL file.
func LoadFile(path string) (*Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a JSONL session.
func Read(r io.Reader) (*Session, error) {
	sess := &Session{
		Variables: make(map[string]int),
		Events:    []Event{},
	}

	// bufio.Reader has no line length limit
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("error reading JSONL: %w", err)
		}
		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			if perr := parseLine(trimmed, sess); perr != nil {
				return nil, perr
			}
		}
		if err == io.EOF {
			break
		}
	}

	if sess.ID == "" {
		return nil, fmt.Errorf("session has no header")
	}
	if len(sess.Events) > 0 {
		sess.seqCounter = sess.Events[len(sess.Events)-1].SeqID
	}
	return sess, nil
}

func parseLine(line []byte, sess *Session) error {
	var record JSONLRecord
	if err := json.Unmarshal(line, &record); err != nil {
		return fmt.Errorf("failed to parse JSONL line: %w", err)
	}

	switch record.RecordType {
	case RecordTypeHeader:
		sess.ID = record.ID
		sess.ProgramName = record.ProgramName
		sess.Robot = record.Robot
		sess.CreatedAt = record.CreatedAt
	case RecordTypeEvent:
		if record.Event != nil {
			sess.Events = append(sess.Events, *record.Event)
		}
	case RecordTypeFooter:
		sess.Status = record.Status
		if record.Variables != nil {
			sess.Variables = record.Variables
		}
		if record.Event != nil {
			sess.Error = record.Event.Error
		}
		sess.UpdatedAt = record.UpdatedAt
	default:
		return fmt.Errorf("unknown record type %q", record.RecordType)
	}
	return nil
}
