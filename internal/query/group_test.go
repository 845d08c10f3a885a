package query

import (
	"testing"

	"github.com/gantryworks/gantry/internal/task"
)

func TestGroupByTagCountsMultiTaggedTasksInEachGroup(t *testing.T) {
	both := mkTask(1, "Tagged twice", task.StatusPending, task.PriorityMedium)
	both.Tags = []string{"api", "security"}
	one := mkTask(2, "Tagged once", task.StatusCompleted, task.PriorityMedium)
	one.Tags = []string{"api"}
	bare := mkTask(3, "No tags", task.StatusPending, task.PriorityMedium)

	got := GroupBy([]*task.Task{both, one, bare}, "tag", nil)

	if got.Field != "tag" {
		t.Errorf("field = %q", got.Field)
	}
	// Keys sort alphabetically; "(untagged)" sorts before letters.
	wantKeys := []string{"(untagged)", "api", "security"}
	if len(got.Groups) != len(wantKeys) {
		t.Fatalf("groups = %+v", got.Groups)
	}
	for i, key := range wantKeys {
		if got.Groups[i].Key != key {
			t.Errorf("group[%d].Key = %q, want %q", i, got.Groups[i].Key, key)
		}
	}

	totals := map[string]int{}
	for _, g := range got.Groups {
		totals[g.Key] = g.Total
	}
	if totals["api"] != 2 || totals["security"] != 1 || totals["(untagged)"] != 1 {
		t.Errorf("totals = %v", totals)
	}
}

func TestGroupByProjectResolvesNames(t *testing.T) {
	inProject := mkTask(1, "Tracked", task.StatusPending, task.PriorityMedium)
	inProject.Project = intPtr(1)
	dangling := mkTask(2, "Dangling ref", task.StatusPending, task.PriorityMedium)
	dangling.Project = intPtr(9)
	loose := mkTask(3, "Loose", task.StatusPending, task.PriorityMedium)

	got := GroupBy([]*task.Task{inProject, dangling, loose}, "project", map[int]string{1: "Billing revamp"})

	keys := make([]string, len(got.Groups))
	for i, g := range got.Groups {
		keys[i] = g.Key
	}
	want := []string{"#9", "(no project)", "Billing revamp"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys = %v, want %v", keys, want)
		}
	}
}

func TestGroupByStatusOrdersGroupsByLifecycle(t *testing.T) {
	tasks := []*task.Task{
		mkTask(1, "a", task.StatusCompleted, task.PriorityMedium),
		mkTask(2, "b", task.StatusPending, task.PriorityMedium),
		mkTask(3, "c", task.StatusInProgress, task.PriorityMedium),
	}

	got := GroupBy(tasks, "status", nil)

	want := []string{task.StatusPending, task.StatusInProgress, task.StatusCompleted}
	if len(got.Groups) != len(want) {
		t.Fatalf("groups = %+v", got.Groups)
	}
	for i, key := range want {
		if got.Groups[i].Key != key {
			t.Errorf("group[%d].Key = %q, want %q", i, got.Groups[i].Key, key)
		}
	}
}

func TestGroupSummariesCarryStatusHistograms(t *testing.T) {
	a := mkTask(1, "a", task.StatusPending, task.PriorityMedium)
	a.Tags = []string{"api"}
	b := mkTask(2, "b", task.StatusCompleted, task.PriorityMedium)
	b.Tags = []string{"api"}

	got := GroupBy([]*task.Task{a, b}, "tag", nil)
	if len(got.Groups) != 1 {
		t.Fatalf("groups = %+v", got.Groups)
	}
	group := got.Groups[0]
	if group.Total != 2 {
		t.Errorf("total = %d", group.Total)
	}
	if len(group.Statuses) != len(task.Statuses) {
		t.Fatalf("histogram rows = %d", len(group.Statuses))
	}
	counts := map[string]int{}
	for _, row := range group.Statuses {
		counts[row.Status] = row.Count
	}
	if counts[task.StatusPending] != 1 || counts[task.StatusCompleted] != 1 {
		t.Errorf("histogram = %v", counts)
	}
}

func TestGroupFields(t *testing.T) {
	fields := GroupFields()
	want := []string{"status", "priority", "project", "tag"}
	if len(fields) != len(want) {
		t.Fatalf("fields = %v", fields)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("fields = %v, want %v", fields, want)
		}
	}
}
