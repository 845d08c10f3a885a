package query

import (
	"github.com/gantryworks/gantry/internal/graph"
	"github.com/gantryworks/gantry/internal/store"
	"github.com/gantryworks/gantry/internal/task"
	"github.com/gantryworks/gantry/internal/trigger"
)

// TaskContext is the full detail view of one task: the task itself,
// its project, its graph neighborhood, its triggers, and derived
// readiness.
type TaskContext struct {
	Task          *task.Task         `json:"task"`
	Project       *task.Project      `json:"project,omitempty"`
	Prerequisites []*task.Task       `json:"prerequisites,omitempty"`
	Dependents    []*task.Task       `json:"dependents,omitempty"`
	Related       []*task.Task       `json:"related,omitempty"`
	Triggers      []*trigger.Trigger `json:"triggers,omitempty"`
	Ready         bool               `json:"ready"`
}

// Describe assembles the detail view for one task.
func Describe(st *store.Store, id int) (*TaskContext, error) {
	t, err := st.GetTask(id)
	if err != nil {
		return nil, err
	}

	g, _, err := st.Snapshot()
	if err != nil {
		return nil, err
	}

	ctx := &TaskContext{Task: t, Ready: g.IsReady(id)}

	if t.Project != nil {
		// A dangling reference renders as the bare id.
		if p, err := st.GetProject(*t.Project); err == nil {
			ctx.Project = p
		}
	}

	ctx.Prerequisites = tasksByID(g, g.Prerequisites(id))
	ctx.Dependents = tasksByID(g, g.Dependents(id))
	ctx.Related = tasksByID(g, g.Related(id))

	triggers, err := st.ListTriggers()
	if err != nil {
		return nil, err
	}
	for _, tr := range triggers {
		if tr.TaskID == id {
			ctx.Triggers = append(ctx.Triggers, tr)
		}
	}

	return ctx, nil
}

func tasksByID(g *graph.Graph, ids []int) []*task.Task {
	var out []*task.Task
	for _, id := range ids {
		if t := g.Task(id); t != nil {
			out = append(out, t)
		}
	}
	return out
}
