package query

import (
	"sort"
	"strings"

	"github.com/gantryworks/gantry/internal/task"
)

// Search rank classes; lower ranks first.
const (
	rankExactTitle = iota
	rankSubstring
)

// Search returns tasks matching query, best matches first. An exact
// (case-insensitive) title match ranks above a substring match in
// title, description, or tags; within a rank class the most recently
// updated task wins. Limit 0 means unlimited.
func Search(tasks []*task.Task, query string, limit int) []*task.Task {
	q := strings.ToLower(query)

	type match struct {
		t    *task.Task
		rank int
	}
	var matches []match
	for _, t := range tasks {
		switch {
		case strings.ToLower(t.Title) == q:
			matches = append(matches, match{t, rankExactTitle})
		case matchesSearch(t, query):
			matches = append(matches, match{t, rankSubstring})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].rank != matches[j].rank {
			return matches[i].rank < matches[j].rank
		}
		return matches[i].t.Updated.After(matches[j].t.Updated)
	})

	result := make([]*task.Task, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.t)
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}
