package task

import (
	"time"
)

// UpdateTimestamps sets Started and Completed based on the status transition.
//   - Sets Started on first move out of pending (never overwrites).
//   - Sets Completed on move to a terminal status; also sets Started if nil.
//   - Clears Completed when moving away from a terminal status (reopening).
func UpdateTimestamps(t *Task, oldStatus, newStatus string) {
	now := time.Now()

	if t.Started == nil && oldStatus == StatusPending && newStatus != StatusPending {
		t.Started = &now
	}

	if Terminal(newStatus) {
		t.Completed = &now
		// Direct move to terminal: also set Started if nil.
		if t.Started == nil {
			t.Started = &now
		}
	} else if Terminal(oldStatus) {
		// Reopening: clear Completed, preserve Started.
		t.Completed = nil
	}
}
