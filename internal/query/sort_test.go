package query

import (
	"testing"

	"github.com/gantryworks/gantry/internal/task"
)

func TestSortByStatusUsesLifecycleOrder(t *testing.T) {
	// Alphabetical order would put blocked first and pending fourth.
	tasks := []*task.Task{
		mkTask(1, "a", task.StatusCancelled, task.PriorityMedium),
		mkTask(2, "b", task.StatusBlocked, task.PriorityMedium),
		mkTask(3, "c", task.StatusPending, task.PriorityMedium),
		mkTask(4, "d", task.StatusCompleted, task.PriorityMedium),
		mkTask(5, "e", task.StatusInProgress, task.PriorityMedium),
	}
	Sort(tasks, "status", false)
	assertIDs(t, tasks, 3, 5, 2, 4, 1)
}

func TestSortByPriorityUsesUrgencyOrder(t *testing.T) {
	tasks := []*task.Task{
		mkTask(1, "a", task.StatusPending, task.PriorityCritical),
		mkTask(2, "b", task.StatusPending, task.PriorityLow),
		mkTask(3, "c", task.StatusPending, task.PriorityHigh),
		mkTask(4, "d", task.StatusPending, task.PriorityMedium),
	}
	Sort(tasks, "priority", false)
	assertIDs(t, tasks, 2, 4, 3, 1)

	Sort(tasks, "priority", true)
	assertIDs(t, tasks, 1, 3, 4, 2)
}

func TestSortByEstimatePutsUnestimatedLast(t *testing.T) {
	a := mkTask(1, "a", task.StatusPending, task.PriorityMedium)
	a.EstimatedHours = 8
	b := mkTask(2, "b", task.StatusPending, task.PriorityMedium)
	// b has no estimate.
	c := mkTask(3, "c", task.StatusPending, task.PriorityMedium)
	c.EstimatedHours = 2

	tasks := []*task.Task{a, b, c}
	Sort(tasks, "estimate", false)
	assertIDs(t, tasks, 3, 1, 2)
}

func TestSortByCreatedAndUpdated(t *testing.T) {
	// mkTask stamps times increasing with id.
	tasks := []*task.Task{
		mkTask(3, "c", task.StatusPending, task.PriorityMedium),
		mkTask(1, "a", task.StatusPending, task.PriorityMedium),
		mkTask(2, "b", task.StatusPending, task.PriorityMedium),
	}
	Sort(tasks, "created", false)
	assertIDs(t, tasks, 1, 2, 3)

	Sort(tasks, "updated", true)
	assertIDs(t, tasks, 3, 2, 1)
}

func TestSortIsStableWithinEqualKeys(t *testing.T) {
	tasks := []*task.Task{
		mkTask(5, "a", task.StatusPending, task.PriorityMedium),
		mkTask(2, "b", task.StatusPending, task.PriorityMedium),
		mkTask(9, "c", task.StatusPending, task.PriorityMedium),
	}
	// Every key is equal: input order survives.
	Sort(tasks, "status", false)
	assertIDs(t, tasks, 5, 2, 9)
}

func TestSortFields(t *testing.T) {
	fields := SortFields()
	want := map[string]bool{
		"id": true, "status": true, "priority": true,
		"created": true, "updated": true, "estimate": true,
	}
	if len(fields) != len(want) {
		t.Fatalf("fields = %v", fields)
	}
	for _, f := range fields {
		if !want[f] {
			t.Errorf("unexpected sort field %q", f)
		}
	}
}
