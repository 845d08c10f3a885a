package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gantryworks/gantry/internal/clierr"
)

// slackEps absorbs float rounding when deciding criticality.
const slackEps = 1e-9

// Analysis holds the result of a critical path computation.
type Analysis struct {
	// CriticalPath is the chain of task ids maximizing summed
	// estimated hours, in execution order.
	CriticalPath []int `json:"critical_path"`

	// TotalDuration is the summed estimated hours along CriticalPath.
	TotalDuration float64 `json:"total_duration"`

	// Schedules holds per-task timing derived from the same pass.
	Schedules map[int]*Schedule `json:"schedules,omitempty"`

	// Order is the topological order used for the passes.
	Order []int `json:"-"`
}

// Schedule is the timing window for one task, in estimated hours from
// the start of the plan.
type Schedule struct {
	TaskID         int     `json:"task_id"`
	EarliestStart  float64 `json:"earliest_start"`
	EarliestFinish float64 `json:"earliest_finish"`
	LatestStart    float64 `json:"latest_start"`
	LatestFinish   float64 `json:"latest_finish"`
	Slack          float64 `json:"slack"`
	Critical       bool    `json:"critical"`
}

// Analyze computes the critical path over the blocks subgraph.
//
// The path maximizes summed estimated hours; a task without an
// estimate contributes zero but still extends the chain, so duration
// ties prefer the longer chain. Remaining ties are broken by earliest
// created timestamp, then by smallest id. A graph with no edges
// yields the single heaviest task; an empty graph yields an empty
// path with zero duration.
func (g *Graph) Analyze() (*Analysis, error) {
	order, err := g.topoOrder()
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		Schedules: make(map[int]*Schedule, len(order)),
		Order:     order,
	}
	if len(order) == 0 {
		return a, nil
	}

	// Longest-path pass: max cumulative duration ending at each node,
	// with predecessor tracking for reconstruction. hops counts the
	// nodes on the best path so zero-duration tasks still lengthen it.
	dist := make(map[int]float64, len(order))
	hops := make(map[int]int, len(order))
	pred := make(map[int]int, len(order))
	for _, id := range order {
		best := -1
		bestDist := 0.0
		bestHops := 0
		for _, p := range g.revAdj[id] {
			d, h := dist[p], hops[p]
			switch {
			case best == -1 || d > bestDist || (d == bestDist && h > bestHops):
				best, bestDist, bestHops = p, d, h
			case d == bestDist && h == bestHops && g.earlier(p, best):
				best = p
			}
		}
		if best >= 0 {
			pred[id] = best
		}
		dist[id] = bestDist + g.duration(id)
		hops[id] = bestHops + 1
	}

	end := order[0]
	for _, id := range order[1:] {
		switch {
		case dist[id] > dist[end] || (dist[id] == dist[end] && hops[id] > hops[end]):
			end = id
		case dist[id] == dist[end] && hops[id] == hops[end] && g.earlier(id, end):
			end = id
		}
	}

	var path []int
	for id := end; ; {
		path = append(path, id)
		p, ok := pred[id]
		if !ok {
			break
		}
		id = p
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	a.CriticalPath = path
	a.TotalDuration = dist[end]
	g.schedule(a)

	return a, nil
}

// schedule fills per-task earliest/latest windows with a forward and
// a backward pass over the topological order.
func (g *Graph) schedule(a *Analysis) {
	total := 0.0
	for _, id := range a.Order {
		s := &Schedule{TaskID: id}
		for _, p := range g.revAdj[id] {
			if ef := a.Schedules[p].EarliestFinish; ef > s.EarliestStart {
				s.EarliestStart = ef
			}
		}
		s.EarliestFinish = s.EarliestStart + g.duration(id)
		if s.EarliestFinish > total {
			total = s.EarliestFinish
		}
		a.Schedules[id] = s
	}

	for i := len(a.Order) - 1; i >= 0; i-- {
		id := a.Order[i]
		s := a.Schedules[id]
		if len(g.adj[id]) == 0 {
			s.LatestFinish = total
		} else {
			min := total
			for _, succ := range g.adj[id] {
				if ls := a.Schedules[succ].LatestStart; ls < min {
					min = ls
				}
			}
			s.LatestFinish = min
		}
		s.LatestStart = s.LatestFinish - g.duration(id)
		s.Slack = s.LatestStart - s.EarliestStart
		s.Critical = s.Slack < slackEps
	}
}

// topoOrder runs Kahn's algorithm over the blocks subgraph. Ready
// nodes are taken in ascending id order for determinism.
func (g *Graph) topoOrder() ([]int, error) {
	inDegree := make(map[int]int, len(g.tasks))
	for id := range g.tasks {
		inDegree[id] = len(g.revAdj[id])
	}

	var queue []int
	for _, id := range g.sortedIDs() {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	var order []int
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		var newReady []int
		for _, succ := range g.adj[node] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				newReady = append(newReady, succ)
			}
		}
		sort.Ints(newReady)
		queue = append(queue, newReady...)
	}

	if len(order) != len(g.tasks) {
		return nil, clierr.Newf(clierr.CycleDetected,
			"dependency cycle detected: %s", formatCycle(g.Cycle())).
			WithDetails(map[string]any{"cycle": g.Cycle()})
	}

	return order, nil
}

func (g *Graph) duration(id int) float64 {
	return g.tasks[id].EstimatedHours
}

// earlier reports whether a wins a path tie against b: earlier created
// timestamp first, then smaller id.
func (g *Graph) earlier(a, b int) bool {
	ta, tb := g.tasks[a], g.tasks[b]
	if !ta.Created.Equal(tb.Created) {
		return ta.Created.Before(tb.Created)
	}
	return a < b
}

func formatCycle(cycle []int) string {
	if len(cycle) == 0 {
		return "unknown"
	}
	parts := make([]string, 0, len(cycle)+1)
	for _, id := range cycle {
		parts = append(parts, fmt.Sprintf("#%d", id))
	}
	parts = append(parts, fmt.Sprintf("#%d", cycle[0]))
	return strings.Join(parts, " -> ")
}
