package query

import (
	"fmt"
	"sort"

	"github.com/gantryworks/gantry/internal/task"
)

// GroupedSummary holds tasks grouped by a field.
type GroupedSummary struct {
	Field  string         `json:"field"`
	Groups []GroupSummary `json:"groups"`
}

// GroupSummary is one group within a grouped view.
type GroupSummary struct {
	Key      string        `json:"key"`
	Statuses []StatusCount `json:"statuses"`
	Total    int           `json:"total"`
}

// GroupFields returns the accepted --group-by field names.
func GroupFields() []string {
	return []string{fieldStatus, fieldPriority, "project", "tag"}
}

// GroupBy groups tasks by the given field and summarizes each group.
// projects maps project ids to names for the project grouping; unknown
// ids fall back to "#id".
func GroupBy(tasks []*task.Task, field string, projects map[int]string) GroupedSummary {
	groups := make(map[string][]*task.Task)
	for _, t := range tasks {
		for _, key := range groupKeys(t, field, projects) {
			groups[key] = append(groups[key], t)
		}
	}

	keys := sortGroupKeys(groups, field)

	result := GroupedSummary{
		Field:  field,
		Groups: make([]GroupSummary, 0, len(keys)),
	}
	for _, key := range keys {
		groupTasks := groups[key]
		result.Groups = append(result.Groups, GroupSummary{
			Key:      key,
			Statuses: statusHistogram(groupTasks),
			Total:    len(groupTasks),
		})
	}
	return result
}

func groupKeys(t *task.Task, field string, projects map[int]string) []string {
	switch field {
	case "tag":
		if len(t.Tags) == 0 {
			return []string{"(untagged)"}
		}
		return t.Tags
	case "project":
		if t.Project == nil {
			return []string{"(no project)"}
		}
		if name, ok := projects[*t.Project]; ok {
			return []string{name}
		}
		return []string{fmt.Sprintf("#%d", *t.Project)}
	case fieldPriority:
		return []string{t.Priority}
	case fieldStatus:
		return []string{t.Status}
	default:
		return []string{"(all)"}
	}
}

func sortGroupKeys(groups map[string][]*task.Task, field string) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}

	switch field {
	case fieldStatus:
		sort.SliceStable(keys, func(i, j int) bool {
			return task.StatusIndex(keys[i]) < task.StatusIndex(keys[j])
		})
	case fieldPriority:
		sort.SliceStable(keys, func(i, j int) bool {
			return task.PriorityIndex(keys[i]) < task.PriorityIndex(keys[j])
		})
	default:
		sort.Strings(keys)
	}
	return keys
}
