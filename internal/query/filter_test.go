package query

import (
	"testing"

	"github.com/gantryworks/gantry/internal/task"
)

func filterFixture() []*task.Task {
	login := mkTask(1, "Fix login timeout", task.StatusPending, task.PriorityHigh)
	login.Tags = []string{"auth", "backend"}
	login.Description = "Sessions expire too early."

	export := mkTask(2, "Export monthly report", task.StatusInProgress, task.PriorityMedium)
	export.Tags = []string{"reporting"}
	export.Project = intPtr(1)

	cleanup := mkTask(3, "Clean up dead feature flags", task.StatusCompleted, task.PriorityLow)
	cleanup.Project = intPtr(2)

	outage := mkTask(4, "Handle auth provider outage", task.StatusPending, task.PriorityCritical)
	outage.Tags = []string{"auth"}
	outage.Project = intPtr(1)

	return []*task.Task{login, export, cleanup, outage}
}

func intPtr(v int) *int { return &v }

func TestFilterNoCriteriaKeepsAll(t *testing.T) {
	tasks := filterFixture()
	assertIDs(t, Filter(tasks, FilterOptions{}), 1, 2, 3, 4)
}

func TestFilterByStatusList(t *testing.T) {
	tasks := filterFixture()
	got := Filter(tasks, FilterOptions{Statuses: []string{task.StatusPending, task.StatusInProgress}})
	assertIDs(t, got, 1, 2, 4)
}

func TestFilterByPriority(t *testing.T) {
	tasks := filterFixture()
	got := Filter(tasks, FilterOptions{Priorities: []string{task.PriorityCritical}})
	assertIDs(t, got, 4)
}

func TestFilterByTagIsExact(t *testing.T) {
	tasks := filterFixture()
	assertIDs(t, Filter(tasks, FilterOptions{Tag: "auth"}), 1, 4)
	// Tag filtering matches whole tags, not substrings.
	if got := Filter(tasks, FilterOptions{Tag: "aut"}); len(got) != 0 {
		t.Errorf("partial tag matched: %v", taskIDs(got))
	}
}

func TestFilterByProject(t *testing.T) {
	tasks := filterFixture()
	assertIDs(t, Filter(tasks, FilterOptions{Project: intPtr(1)}), 2, 4)
	// Tasks without a project never match a project filter.
	if got := Filter(tasks, FilterOptions{Project: intPtr(3)}); len(got) != 0 {
		t.Errorf("unexpected matches: %v", taskIDs(got))
	}
}

func TestFilterSearchSpansTitleDescriptionTags(t *testing.T) {
	tasks := filterFixture()

	// Title ("login"), description ("expire"), and tag ("reporting")
	// are all searched, case-insensitively.
	assertIDs(t, Filter(tasks, FilterOptions{Search: "LOGIN"}), 1)
	assertIDs(t, Filter(tasks, FilterOptions{Search: "expire"}), 1)
	assertIDs(t, Filter(tasks, FilterOptions{Search: "reporting"}), 2)
}

func TestFilterCombinesCriteriaWithAND(t *testing.T) {
	tasks := filterFixture()
	got := Filter(tasks, FilterOptions{
		Statuses: []string{task.StatusPending},
		Tag:      "auth",
		Search:   "outage",
	})
	assertIDs(t, got, 4)

	// Each criterion alone matches something; together they can exclude.
	got = Filter(tasks, FilterOptions{
		Statuses: []string{task.StatusCompleted},
		Tag:      "auth",
	})
	if len(got) != 0 {
		t.Errorf("matches = %v, want none", taskIDs(got))
	}
}
