package graph

import (
	"github.com/gantryworks/gantry/internal/task"
)

// ReadyTasks returns all pending tasks whose every prerequisite has
// reached a terminal status. A cancelled prerequisite does not block:
// it can never complete, so waiting on it would wedge the dependent
// forever. Tasks with no prerequisites are trivially ready. Results
// are ordered by id.
func (g *Graph) ReadyTasks() []*task.Task {
	var ready []*task.Task
	for _, id := range g.sortedIDs() {
		if g.IsReady(id) {
			ready = append(ready, g.tasks[id])
		}
	}
	return ready
}

// IsReady reports whether the task with the given id is pending with
// all prerequisites terminal.
func (g *Graph) IsReady(id int) bool {
	t := g.tasks[id]
	if t == nil || t.Status != task.StatusPending {
		return false
	}
	for _, p := range g.revAdj[id] {
		if !task.Terminal(g.tasks[p].Status) {
			return false
		}
	}
	return true
}

// BlockingPrerequisites returns the ids of non-terminal prerequisites
// holding back the given task, in ascending order.
func (g *Graph) BlockingPrerequisites(id int) []int {
	var blocking []int
	for _, p := range g.revAdj[id] {
		if !task.Terminal(g.tasks[p].Status) {
			blocking = append(blocking, p)
		}
	}
	return blocking
}
