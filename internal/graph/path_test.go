package graph

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/gantryworks/gantry/internal/clierr"
	"github.com/gantryworks/gantry/internal/task"
)

func mustAnalyze(t *testing.T, g *Graph) *Analysis {
	t.Helper()
	a, err := g.Analyze()
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	return a
}

func assertPath(t *testing.T, a *Analysis, want ...int) {
	t.Helper()
	if len(a.CriticalPath) != len(want) {
		t.Fatalf("critical path = %v, want %v", a.CriticalPath, want)
	}
	for i, id := range want {
		if a.CriticalPath[i] != id {
			t.Fatalf("critical path = %v, want %v", a.CriticalPath, want)
		}
	}
}

func assertSchedule(t *testing.T, s *Schedule, es, ef, ls, lf, slack float64, critical bool) {
	t.Helper()
	if s.EarliestStart != es || s.EarliestFinish != ef {
		t.Errorf("task %d: ES/EF = %v/%v, want %v/%v", s.TaskID, s.EarliestStart, s.EarliestFinish, es, ef)
	}
	if s.LatestStart != ls || s.LatestFinish != lf {
		t.Errorf("task %d: LS/LF = %v/%v, want %v/%v", s.TaskID, s.LatestStart, s.LatestFinish, ls, lf)
	}
	if s.Slack != slack {
		t.Errorf("task %d: slack = %v, want %v", s.TaskID, s.Slack, slack)
	}
	if s.Critical != critical {
		t.Errorf("task %d: critical = %v, want %v", s.TaskID, s.Critical, critical)
	}
}

func TestAnalyzeLinearChain(t *testing.T) {
	// 1(2h) -> 2(3h) -> 3(5h)
	tasks := []*task.Task{
		newTask(1, task.StatusPending, 2),
		newTask(2, task.StatusPending, 3),
		newTask(3, task.StatusPending, 5),
	}
	g := New(tasks, []Edge{blocks(1, 2), blocks(2, 3)})
	a := mustAnalyze(t, g)

	assertPath(t, a, 1, 2, 3)
	if a.TotalDuration != 10 {
		t.Errorf("total duration = %v, want 10", a.TotalDuration)
	}

	assertSchedule(t, a.Schedules[1], 0, 2, 0, 2, 0, true)
	assertSchedule(t, a.Schedules[2], 2, 5, 2, 5, 0, true)
	assertSchedule(t, a.Schedules[3], 5, 10, 5, 10, 0, true)
}

func TestAnalyzeDiamondSlack(t *testing.T) {
	// 1(5h) -> 2(1h) -> 4(1h)
	// 1(5h) -> 3(10h) -> 4(1h)
	tasks := []*task.Task{
		newTask(1, task.StatusPending, 5),
		newTask(2, task.StatusPending, 1),
		newTask(3, task.StatusPending, 10),
		newTask(4, task.StatusPending, 1),
	}
	g := New(tasks, []Edge{blocks(1, 2), blocks(1, 3), blocks(2, 4), blocks(3, 4)})
	a := mustAnalyze(t, g)

	assertPath(t, a, 1, 3, 4)
	if a.TotalDuration != 16 {
		t.Errorf("total duration = %v, want 16", a.TotalDuration)
	}

	assertSchedule(t, a.Schedules[1], 0, 5, 0, 5, 0, true)
	assertSchedule(t, a.Schedules[2], 5, 6, 14, 15, 9, false)
	assertSchedule(t, a.Schedules[3], 5, 15, 5, 15, 0, true)
	assertSchedule(t, a.Schedules[4], 15, 16, 15, 16, 0, true)
}

func TestAnalyzeUnestimatedExtendsChain(t *testing.T) {
	// Unestimated tasks contribute zero duration but stay on the path.
	tasks := []*task.Task{
		newTask(1, task.StatusPending, 0),
		newTask(2, task.StatusPending, 4),
		newTask(3, task.StatusPending, 0),
	}
	g := New(tasks, []Edge{blocks(1, 2), blocks(2, 3)})
	a := mustAnalyze(t, g)

	assertPath(t, a, 1, 2, 3)
	if a.TotalDuration != 4 {
		t.Errorf("total duration = %v, want 4", a.TotalDuration)
	}
}

func TestAnalyzeTieBreaksByCreatedThenID(t *testing.T) {
	// Diamond with equal branches: 1 -> {2, 3} -> 4, both middle
	// tasks at 3h. The reported path takes the earlier-created branch.
	build := func() []*task.Task {
		return []*task.Task{
			newTask(1, task.StatusPending, 2),
			newTask(2, task.StatusPending, 3),
			newTask(3, task.StatusPending, 3),
			newTask(4, task.StatusPending, 1),
		}
	}
	edges := []Edge{blocks(1, 2), blocks(1, 3), blocks(2, 4), blocks(3, 4)}

	tasks := build()
	a := mustAnalyze(t, New(tasks, edges))
	assertPath(t, a, 1, 2, 4)

	// Both branches carry zero slack even though only one is reported.
	if !a.Schedules[2].Critical || !a.Schedules[3].Critical {
		t.Error("equal-duration branches should both be schedule-critical")
	}

	// Making task 3 the older one flips the reported branch.
	tasks = build()
	tasks[1].Created = baseTime.Add(10 * time.Minute) // task 2 now newest
	a = mustAnalyze(t, New(tasks, edges))
	assertPath(t, a, 1, 3, 4)

	// Equal created timestamps fall back to the smaller id.
	tasks = build()
	tasks[2].Created = tasks[1].Created
	a = mustAnalyze(t, New(tasks, edges))
	assertPath(t, a, 1, 2, 4)
}

func TestAnalyzeNoEdgesPicksHeaviestTask(t *testing.T) {
	tasks := []*task.Task{
		newTask(1, task.StatusPending, 2),
		newTask(2, task.StatusPending, 7),
		newTask(3, task.StatusPending, 4),
	}
	a := mustAnalyze(t, New(tasks, nil))

	assertPath(t, a, 2)
	if a.TotalDuration != 7 {
		t.Errorf("total duration = %v, want 7", a.TotalDuration)
	}
}

func TestAnalyzeEmptyGraph(t *testing.T) {
	a := mustAnalyze(t, New(nil, nil))
	if len(a.CriticalPath) != 0 || a.TotalDuration != 0 {
		t.Errorf("empty graph: path %v duration %v", a.CriticalPath, a.TotalDuration)
	}
}

func TestAnalyzeDetectsCycle(t *testing.T) {
	tasks := []*task.Task{
		newTask(1, task.StatusPending, 1),
		newTask(2, task.StatusPending, 1),
		newTask(3, task.StatusPending, 1),
	}
	g := New(tasks, []Edge{blocks(1, 2), blocks(2, 3), blocks(3, 1)})

	_, err := g.Analyze()
	var cliErr *clierr.Error
	if !errors.As(err, &cliErr) || cliErr.Code != clierr.CycleDetected {
		t.Fatalf("expected CYCLE_DETECTED, got %v", err)
	}
	if cliErr.Details["cycle"] == nil {
		t.Error("cycle error should carry the offending path in details")
	}
}

func TestAnalyzeRandomDAG(t *testing.T) {
	// Edges only ever point from smaller to larger ids, so the graph is
	// acyclic by construction whatever the seed produces.
	rng := rand.New(rand.NewSource(42))
	const n = 40

	tasks := make([]*task.Task, 0, n)
	for id := 1; id <= n; id++ {
		tasks = append(tasks, newTask(id, task.StatusPending, float64(rng.Intn(8))))
	}

	var edges []Edge
	for from := 1; from <= n; from++ {
		for to := from + 1; to <= n; to++ {
			if rng.Intn(8) == 0 {
				edges = append(edges, blocks(from, to))
			}
		}
	}

	g := New(tasks, edges)
	a := mustAnalyze(t, g)

	// Topological order covers every task and respects every edge.
	if len(a.Order) != n {
		t.Fatalf("order covers %d of %d tasks", len(a.Order), n)
	}
	position := make(map[int]int, n)
	for i, id := range a.Order {
		position[id] = i
	}
	for _, e := range edges {
		if position[e.From] >= position[e.To] {
			t.Errorf("order violates edge %s", e)
		}
	}

	// The reported path is a real chain and its durations sum to the
	// reported total.
	sum := 0.0
	for i, id := range a.CriticalPath {
		sum += tasks[id-1].EstimatedHours
		if i > 0 {
			prev := a.CriticalPath[i-1]
			if !g.Reachable(prev, id) {
				t.Errorf("path step #%d -> #%d is not connected", prev, id)
			}
		}
	}
	if sum != a.TotalDuration {
		t.Errorf("path durations sum to %v, total is %v", sum, a.TotalDuration)
	}

	// No schedule finishes after the total, and every slack is
	// non-negative.
	for id, s := range a.Schedules {
		if s.EarliestFinish > a.TotalDuration+slackEps {
			t.Errorf("task %d finishes at %v past total %v", id, s.EarliestFinish, a.TotalDuration)
		}
		if s.Slack < -slackEps {
			t.Errorf("task %d has negative slack %v", id, s.Slack)
		}
	}

	// Insertion property: reversing any stored edge would close a
	// cycle, while re-adding a forward edge never does.
	for _, e := range edges {
		if !g.WouldCycle(blocks(e.To, e.From)) {
			t.Errorf("reversing %s should close a cycle", e)
		}
		if g.WouldCycle(e) {
			t.Errorf("re-adding %s should not close a cycle", e)
		}
	}
}
