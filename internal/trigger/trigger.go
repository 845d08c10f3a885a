// Package trigger implements workflow trigger records and their
// forward-only state machine.
package trigger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gantryworks/gantry/internal/clierr"
)

// Trigger statuses. Transitions are forward-only; a failed trigger is
// re-armed by creating a new record, never by resetting the old one.
const (
	StatusPending    = "pending"
	StatusDispatched = "dispatched"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"
)

// Statuses lists all trigger statuses in lifecycle order.
var Statuses = []string{
	StatusPending,
	StatusDispatched,
	StatusSucceeded,
	StatusFailed,
	StatusCancelled,
}

// transitions is the allowed-move table. Statuses without an entry
// are terminal.
var transitions = map[string][]string{
	StatusPending:    {StatusDispatched, StatusCancelled},
	StatusDispatched: {StatusSucceeded, StatusFailed},
}

// Trigger is a workflow trigger owned by exactly one task.
type Trigger struct {
	ID        string            `yaml:"id" json:"id"`
	TaskID    int               `yaml:"task_id" json:"task_id"`
	Type      string            `yaml:"type" json:"type"`
	Config    map[string]string `yaml:"config,omitempty" json:"config,omitempty"`
	Status    string            `yaml:"status" json:"status"`
	DedupeKey string            `yaml:"dedupe_key" json:"dedupe_key"`
	Attempts  int               `yaml:"attempts,omitempty" json:"attempts,omitempty"`
	LastError string            `yaml:"last_error,omitempty" json:"last_error,omitempty"`

	Created      time.Time  `yaml:"created" json:"created"`
	Updated      time.Time  `yaml:"updated" json:"updated"`
	DispatchedAt *time.Time `yaml:"dispatched_at,omitempty" json:"dispatched_at,omitempty"`
	CompletedAt  *time.Time `yaml:"completed_at,omitempty" json:"completed_at,omitempty"`

	// File is the path to the trigger file (not in YAML).
	File string `yaml:"-" json:"file,omitempty"`
}

// New builds a pending trigger for a task. The configuration map is
// opaque to the core; only executors interpret it.
func New(taskID int, triggerType string, config map[string]string) *Trigger {
	now := time.Now()
	return &Trigger{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		Type:      triggerType,
		Config:    config,
		Status:    StatusPending,
		DedupeKey: DedupeKey(taskID, triggerType),
		Created:   now,
		Updated:   now,
	}
}

// DedupeKey derives the uniqueness key used to guarantee at most one
// active trigger per task and type.
func DedupeKey(taskID int, triggerType string) string {
	return fmt.Sprintf("%d:%s", taskID, triggerType)
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Active reports whether a status holds the dedupe key. Failed and
// cancelled triggers release it so the trigger can be re-armed.
func Active(status string) bool {
	switch status {
	case StatusPending, StatusDispatched, StatusSucceeded:
		return true
	}
	return false
}

// Terminal reports whether a status ends the trigger lifecycle.
func Terminal(status string) bool {
	return len(transitions[status]) == 0
}

// ValidateType checks that a trigger type is a usable token. Types are
// extensible by design, so only the shape is constrained.
func ValidateType(triggerType string) error {
	trimmed := strings.TrimSpace(triggerType)
	if trimmed == "" {
		return clierr.New(clierr.ValidationFailed, "trigger type is required").
			WithDetails(map[string]any{"field": "type"})
	}
	if strings.ContainsAny(trimmed, " \t\n:") {
		return clierr.Newf(clierr.ValidationFailed, "invalid trigger type %q", triggerType).
			WithDetails(map[string]any{"field": "type", "value": triggerType})
	}
	return nil
}

// ConfigEqual reports whether two trigger configurations carry the
// same keys and values. Nil and empty maps are equal.
func ConfigEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if other, ok := b[k]; !ok || other != v {
			return false
		}
	}
	return true
}
