package query

import (
	"sort"

	"github.com/gantryworks/gantry/internal/task"
)

const (
	fieldStatus   = "status"
	fieldPriority = "priority"
)

// SortFields returns the accepted --sort field names.
func SortFields() []string {
	return []string{"id", fieldStatus, fieldPriority, "created", "updated", "estimate"}
}

// Sort sorts tasks by the given field. Status and priority use
// lifecycle order, not alphabetical.
func Sort(tasks []*task.Task, field string, reverse bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		less := compareTasks(tasks[i], tasks[j], field)
		if reverse {
			return !less
		}
		return less
	})
}

func compareTasks(a, b *task.Task, field string) bool {
	switch field {
	case fieldStatus:
		return task.StatusIndex(a.Status) < task.StatusIndex(b.Status)
	case fieldPriority:
		return task.PriorityIndex(a.Priority) < task.PriorityIndex(b.Priority)
	case "created":
		return a.Created.Before(b.Created)
	case "updated":
		return a.Updated.Before(b.Updated)
	case "estimate":
		return compareEstimate(a, b)
	default:
		return a.ID < b.ID
	}
}

func compareEstimate(a, b *task.Task) bool {
	if a.EstimatedHours == 0 && b.EstimatedHours == 0 {
		return false
	}
	if a.EstimatedHours == 0 {
		return false // unestimated sorts last
	}
	if b.EstimatedHours == 0 {
		return true
	}
	return a.EstimatedHours < b.EstimatedHours
}
