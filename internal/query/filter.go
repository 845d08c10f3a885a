// Package query provides read-only listing, search, and aggregation
// over the task store.
package query

import (
	"strings"

	"github.com/gantryworks/gantry/internal/task"
)

// FilterOptions defines which tasks to include.
type FilterOptions struct {
	Statuses   []string
	Priorities []string
	Tag        string
	Project    *int   // nil=no filter, non-nil=only tasks in this project
	Search     string // case-insensitive substring match across title, description, and tags
}

// Filter returns tasks matching all specified criteria (AND logic).
func Filter(tasks []*task.Task, opts FilterOptions) []*task.Task {
	var result []*task.Task
	for _, t := range tasks {
		if matchesFilter(t, opts) {
			result = append(result, t)
		}
	}
	return result
}

func matchesFilter(t *task.Task, opts FilterOptions) bool {
	if len(opts.Statuses) > 0 && !containsStr(opts.Statuses, t.Status) {
		return false
	}
	if len(opts.Priorities) > 0 && !containsStr(opts.Priorities, t.Priority) {
		return false
	}
	if opts.Tag != "" && !containsStr(t.Tags, opts.Tag) {
		return false
	}
	if opts.Project != nil && (t.Project == nil || *t.Project != *opts.Project) {
		return false
	}
	if opts.Search != "" && !matchesSearch(t, opts.Search) {
		return false
	}
	return true
}

// matchesSearch performs case-insensitive substring matching across
// title, description, and tags.
func matchesSearch(t *task.Task, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), q) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func containsStr(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
