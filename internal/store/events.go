package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	eventsFileName  = "events.jsonl"
	eventFileMode   = 0o600
	maxEventEntries = 10000 // truncate oldest entries when the log exceeds this size
)

// Event kinds published on successful mutations.
const (
	EventTaskCreated       = "task-created"
	EventTaskUpdated       = "task-updated"
	EventTaskStatusChanged = "task-status-changed"
	EventTaskDeleted       = "task-deleted"
	EventProjectCreated    = "project-created"
	EventProjectUpdated    = "project-updated"
	EventProjectDeleted    = "project-deleted"
	EventDependencyAdded   = "dependency-added"
	EventDependencyRemoved = "dependency-removed"
	EventTriggerCreated    = "trigger-created"
	EventTriggerDispatched = "trigger-dispatched"
	EventTriggerSucceeded  = "trigger-succeeded"
	EventTriggerFailed     = "trigger-failed"
	EventTriggerCancelled  = "trigger-cancelled"
)

// Event is one domain event as appended to events.jsonl.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	TaskID    int       `json:"task_id,omitempty"`
	ProjectID int       `json:"project_id,omitempty"`
	TriggerID string    `json:"trigger_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// publish stamps and records a domain event, then notifies in-process
// subscribers. Event logging is best-effort: a failed append never
// fails the mutation that caused it.
func (s *Store) publish(e Event) {
	e.ID = uuid.NewString()
	e.Timestamp = time.Now()
	_ = appendEvent(s.dir, e)
	for _, fn := range s.hooks {
		fn(e)
	}
}

// Events reads the full event log, oldest first.
func (s *Store) Events() ([]Event, error) {
	f, err := os.Open(filepath.Join(s.dir, eventsFileName)) //nolint:gosec // trusted path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening event log: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue // skip malformed lines
		}
		events = append(events, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading event log: %w", err)
	}

	return events, nil
}

// appendEvent appends one event to the log file, truncating the oldest
// entries when the log grows past maxEventEntries.
func appendEvent(dir string, e Event) error {
	path := filepath.Join(dir, eventsFileName)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, eventFileMode) //nolint:gosec // log path inside workspace
	if err != nil {
		return fmt.Errorf("opening event log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}

	// Truncate if needed (best-effort; errors are non-fatal).
	_ = truncateEventsIfNeeded(path)

	return nil
}

// truncateEventsIfNeeded rewrites the log keeping only the most recent
// entries once it exceeds maxEventEntries.
func truncateEventsIfNeeded(path string) error {
	f, err := os.Open(path) //nolint:gosec // trusted path
	if err != nil {
		return err
	}

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	_ = f.Close()

	if err := scanner.Err(); err != nil {
		return err
	}

	if len(lines) <= maxEventEntries {
		return nil
	}

	lines = lines[len(lines)-maxEventEntries:]

	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(buf.String()), eventFileMode)
}
