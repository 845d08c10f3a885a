package query

import (
	"testing"

	"github.com/gantryworks/gantry/internal/task"
	"github.com/gantryworks/gantry/internal/trigger"
)

func TestCollectBuildsStableHistograms(t *testing.T) {
	tasks := []*task.Task{
		mkTask(1, "a", task.StatusPending, task.PriorityHigh),
		mkTask(2, "b", task.StatusPending, task.PriorityMedium),
		mkTask(3, "c", task.StatusInProgress, task.PriorityHigh),
		mkTask(4, "d", task.StatusCompleted, task.PriorityLow),
	}

	stats := Collect(tasks, nil)

	if stats.Total != 4 {
		t.Errorf("total = %d, want 4", stats.Total)
	}

	// Every status appears, zero or not, in lifecycle order.
	if len(stats.ByStatus) != len(task.Statuses) {
		t.Fatalf("status rows = %d, want %d", len(stats.ByStatus), len(task.Statuses))
	}
	wantStatus := map[string]int{
		task.StatusPending:    2,
		task.StatusInProgress: 1,
		task.StatusCompleted:  1,
	}
	for i, row := range stats.ByStatus {
		if row.Status != task.Statuses[i] {
			t.Errorf("status row %d = %s, want %s", i, row.Status, task.Statuses[i])
		}
		if row.Count != wantStatus[row.Status] {
			t.Errorf("count[%s] = %d, want %d", row.Status, row.Count, wantStatus[row.Status])
		}
	}

	if len(stats.ByPriority) != len(task.Priorities) {
		t.Fatalf("priority rows = %d, want %d", len(stats.ByPriority), len(task.Priorities))
	}
	wantPriority := map[string]int{
		task.PriorityLow:    1,
		task.PriorityMedium: 1,
		task.PriorityHigh:   2,
	}
	for i, row := range stats.ByPriority {
		if row.Priority != task.Priorities[i] {
			t.Errorf("priority row %d = %s, want %s", i, row.Priority, task.Priorities[i])
		}
		if row.Count != wantPriority[row.Priority] {
			t.Errorf("count[%s] = %d, want %d", row.Priority, row.Count, wantPriority[row.Priority])
		}
	}

	if stats.Triggers != nil {
		t.Errorf("trigger histogram = %v, want omitted without triggers", stats.Triggers)
	}
}

func TestCollectIncludesTriggerHistogram(t *testing.T) {
	tasks := []*task.Task{mkTask(1, "a", task.StatusPending, task.PriorityMedium)}
	triggers := []*trigger.Trigger{
		{ID: "t1", TaskID: 1, Type: "webhook", Status: trigger.StatusPending},
		{ID: "t2", TaskID: 1, Type: "log", Status: trigger.StatusSucceeded},
		{ID: "t3", TaskID: 1, Type: "codegen", Status: trigger.StatusSucceeded},
	}

	stats := Collect(tasks, triggers)

	if len(stats.Triggers) != len(trigger.Statuses) {
		t.Fatalf("trigger rows = %d, want %d", len(stats.Triggers), len(trigger.Statuses))
	}
	want := map[string]int{
		trigger.StatusPending:   1,
		trigger.StatusSucceeded: 2,
	}
	for i, row := range stats.Triggers {
		if row.Status != trigger.Statuses[i] {
			t.Errorf("trigger row %d = %s, want %s", i, row.Status, trigger.Statuses[i])
		}
		if row.Count != want[row.Status] {
			t.Errorf("count[%s] = %d, want %d", row.Status, row.Count, want[row.Status])
		}
	}
}

func TestCollectEmptyWorkspace(t *testing.T) {
	stats := Collect(nil, nil)
	if stats.Total != 0 {
		t.Errorf("total = %d", stats.Total)
	}
	if len(stats.ByStatus) != len(task.Statuses) || len(stats.ByPriority) != len(task.Priorities) {
		t.Error("histograms must keep their shape when empty")
	}
	for _, row := range stats.ByStatus {
		if row.Count != 0 {
			t.Errorf("count[%s] = %d, want 0", row.Status, row.Count)
		}
	}
}
