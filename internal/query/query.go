package query

import (
	"github.com/gantryworks/gantry/internal/graph"
	"github.com/gantryworks/gantry/internal/store"
	"github.com/gantryworks/gantry/internal/task"
)

// Options controls how tasks are listed.
type Options struct {
	Filter  FilterOptions
	SortBy  string
	Reverse bool
	Limit   int
	Ready   bool // only pending tasks whose prerequisites are all terminal
}

// List loads all tasks, applies filters and sorting.
// Uses lenient parsing: malformed task files are skipped and returned as warnings.
func List(st *store.Store, opts Options) ([]*task.Task, []task.ReadWarning, error) {
	all, warnings, err := st.ListTasksLenient()
	if err != nil {
		return nil, nil, err
	}

	tasks := Filter(all, opts.Filter)

	if opts.Ready {
		edges, err := st.Edges()
		if err != nil {
			return nil, nil, err
		}
		// Build the graph over all tasks so prerequisites outside the
		// filtered set still count.
		tasks = filterReady(tasks, graph.New(all, edges))
	}

	sortField := opts.SortBy
	if sortField == "" {
		sortField = "id"
	}
	Sort(tasks, sortField, opts.Reverse)

	if opts.Limit > 0 && len(tasks) > opts.Limit {
		tasks = tasks[:opts.Limit]
	}

	return tasks, warnings, nil
}

func filterReady(tasks []*task.Task, g *graph.Graph) []*task.Task {
	var result []*task.Task
	for _, t := range tasks {
		if g.IsReady(t.ID) {
			result = append(result, t)
		}
	}
	return result
}

// CountByStatus returns the number of tasks in each status.
func CountByStatus(tasks []*task.Task) map[string]int {
	counts := make(map[string]int)
	for _, t := range tasks {
		counts[t.Status]++
	}
	return counts
}
