package graph

import (
	"sort"

	"github.com/gantryworks/gantry/internal/task"
)

// Graph is an in-memory view of tasks and their blocks edges, built
// from a consistent snapshot of the store. Related edges are kept for
// listing but take no part in ordering.
type Graph struct {
	tasks   map[int]*task.Task
	adj     map[int][]int // blocks: prerequisite -> dependent
	revAdj  map[int][]int // blocks: dependent -> prerequisites
	related map[int][]int
}

// New builds a Graph from tasks and stored edges. Edges referencing
// unknown task ids are skipped so a stale edge file cannot poison
// every read operation. Adjacency lists are sorted for determinism.
func New(tasks []*task.Task, edges []Edge) *Graph {
	g := &Graph{
		tasks:   make(map[int]*task.Task, len(tasks)),
		adj:     make(map[int][]int),
		revAdj:  make(map[int][]int),
		related: make(map[int][]int),
	}

	for _, t := range tasks {
		g.tasks[t.ID] = t
	}

	seen := make(map[Edge]bool, len(edges))
	for _, e := range edges {
		if seen[e] {
			continue
		}
		seen[e] = true
		if _, ok := g.tasks[e.From]; !ok {
			continue
		}
		if _, ok := g.tasks[e.To]; !ok {
			continue
		}
		switch e.Type {
		case TypeBlocks:
			g.adj[e.From] = append(g.adj[e.From], e.To)
			g.revAdj[e.To] = append(g.revAdj[e.To], e.From)
		case TypeRelated:
			g.related[e.From] = append(g.related[e.From], e.To)
			g.related[e.To] = append(g.related[e.To], e.From)
		}
	}

	for _, m := range []map[int][]int{g.adj, g.revAdj, g.related} {
		for k := range m {
			sort.Ints(m[k])
		}
	}

	return g
}

// Task returns the task with the given id, or nil.
func (g *Graph) Task(id int) *task.Task {
	return g.tasks[id]
}

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.tasks)
}

// Tasks returns all tasks in the graph ordered by id.
func (g *Graph) Tasks() []*task.Task {
	out := make([]*task.Task, 0, len(g.tasks))
	for _, id := range g.sortedIDs() {
		out = append(out, g.tasks[id])
	}
	return out
}

// Prerequisites returns the ids of tasks that block id.
func (g *Graph) Prerequisites(id int) []int {
	return append([]int(nil), g.revAdj[id]...)
}

// Dependents returns the ids of tasks blocked by id.
func (g *Graph) Dependents(id int) []int {
	return append([]int(nil), g.adj[id]...)
}

// Related returns the ids of tasks related to id.
func (g *Graph) Related(id int) []int {
	return append([]int(nil), g.related[id]...)
}

// Reachable reports whether dst can be reached from src by following
// blocks edges forward.
func (g *Graph) Reachable(src, dst int) bool {
	if src == dst {
		return true
	}
	visited := make(map[int]bool)
	stack := []int{src}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[node] {
			continue
		}
		visited[node] = true
		for _, next := range g.adj[node] {
			if next == dst {
				return true
			}
			if !visited[next] {
				stack = append(stack, next)
			}
		}
	}
	return false
}

// WouldCycle reports whether inserting e would close a cycle in the
// blocks subgraph. Inserting From->To closes a cycle exactly when From
// is already reachable from To. Related edges never cycle.
func (g *Graph) WouldCycle(e Edge) bool {
	if e.Type != TypeBlocks {
		return false
	}
	return g.Reachable(e.To, e.From)
}

// Cycle returns a cycle in the blocks subgraph as an id path, or nil
// if the graph is acyclic. Insertion-time checks keep stored graphs
// acyclic; this guards against hand-edited edge files.
func (g *Graph) Cycle() []int {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[int]int)
	parent := make(map[int]int)

	var dfs func(node int) []int
	dfs = func(node int) []int {
		color[node] = gray
		for _, next := range g.adj[node] {
			if color[next] == gray {
				// Walk parents from node back to next; each cycle
				// member appears exactly once, starting at next.
				cycle := []int{node}
				for cur := node; cur != next; {
					cur = parent[cur]
					cycle = append(cycle, cur)
				}
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			}
			if color[next] == white {
				parent[next] = node
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[node] = black
		return nil
	}

	for _, id := range g.sortedIDs() {
		if color[id] == white {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

func (g *Graph) sortedIDs() []int {
	ids := make([]int, 0, len(g.tasks))
	for id := range g.tasks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
