package query

import (
	"testing"
	"time"

	"github.com/gantryworks/gantry/internal/task"
)

func searchFixture() []*task.Task {
	exact := mkTask(1, "Authentication", task.StatusPending, task.PriorityMedium)
	exact.Updated = baseTime // oldest

	title := mkTask(2, "Add authentication to the API", task.StatusPending, task.PriorityMedium)
	title.Updated = baseTime.Add(3 * time.Hour) // newest

	desc := mkTask(3, "Harden the login flow", task.StatusPending, task.PriorityMedium)
	desc.Description = "Rework how authentication tokens are issued."
	desc.Updated = baseTime.Add(2 * time.Hour)

	tag := mkTask(4, "Quarterly access review", task.StatusPending, task.PriorityMedium)
	tag.Tags = []string{"authentication"}
	tag.Updated = baseTime.Add(1 * time.Hour)

	other := mkTask(5, "Rotate the TLS certificates", task.StatusPending, task.PriorityMedium)
	other.Updated = baseTime.Add(4 * time.Hour)

	return []*task.Task{exact, title, desc, tag, other}
}

func TestSearchRanksExactTitleFirst(t *testing.T) {
	tasks := searchFixture()

	// The exact-title match is the oldest task; rank still puts it
	// first. Substring matches follow, most recently updated first.
	got := Search(tasks, "authentication", 0)
	assertIDs(t, got, 1, 2, 3, 4)
}

func TestSearchExactMatchIsCaseInsensitive(t *testing.T) {
	tasks := searchFixture()
	got := Search(tasks, "AUTHENTICATION", 0)
	if len(got) == 0 || got[0].ID != 1 {
		t.Errorf("ids = %v, want exact match first", taskIDs(got))
	}
}

func TestSearchAppliesLimitAfterRanking(t *testing.T) {
	tasks := searchFixture()
	got := Search(tasks, "authentication", 2)
	assertIDs(t, got, 1, 2)
}

func TestSearchNoMatches(t *testing.T) {
	tasks := searchFixture()
	if got := Search(tasks, "kubernetes", 0); len(got) != 0 {
		t.Errorf("ids = %v, want none", taskIDs(got))
	}
}
