package query

import (
	"github.com/gantryworks/gantry/internal/task"
	"github.com/gantryworks/gantry/internal/trigger"
)

// StatusCount holds a count for one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// PriorityCount holds a count for one priority level.
type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

// Stats is the aggregate workspace summary. Histograms follow
// lifecycle order and include zero rows so the shape is stable.
type Stats struct {
	Total      int             `json:"total"`
	ByStatus   []StatusCount   `json:"by_status"`
	ByPriority []PriorityCount `json:"by_priority"`
	Triggers   []StatusCount   `json:"by_trigger_status,omitempty"`
}

// Collect computes statistics on demand from the given snapshot.
func Collect(tasks []*task.Task, triggers []*trigger.Trigger) Stats {
	s := Stats{
		Total:      len(tasks),
		ByStatus:   statusHistogram(tasks),
		ByPriority: priorityHistogram(tasks),
	}

	if len(triggers) > 0 {
		counts := make(map[string]int)
		for _, tr := range triggers {
			counts[tr.Status]++
		}
		s.Triggers = make([]StatusCount, 0, len(trigger.Statuses))
		for _, st := range trigger.Statuses {
			s.Triggers = append(s.Triggers, StatusCount{Status: st, Count: counts[st]})
		}
	}

	return s
}

func statusHistogram(tasks []*task.Task) []StatusCount {
	counts := CountByStatus(tasks)
	out := make([]StatusCount, 0, len(task.Statuses))
	for _, s := range task.Statuses {
		out = append(out, StatusCount{Status: s, Count: counts[s]})
	}
	return out
}

func priorityHistogram(tasks []*task.Task) []PriorityCount {
	counts := make(map[string]int)
	for _, t := range tasks {
		counts[t.Priority]++
	}
	out := make([]PriorityCount, 0, len(task.Priorities))
	for _, p := range task.Priorities {
		out = append(out, PriorityCount{Priority: p, Count: counts[p]})
	}
	return out
}
