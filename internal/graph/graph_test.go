package graph

import (
	"fmt"
	"testing"
	"time"

	"github.com/gantryworks/gantry/internal/task"
)

var baseTime = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

// newTask builds a minimal test task; created timestamps advance with
// the id so tie-breaks are deterministic unless a test overrides them.
func newTask(id int, status string, estimate float64) *task.Task {
	created := baseTime.Add(time.Duration(id) * time.Minute)
	return &task.Task{
		ID:             id,
		Version:        1,
		Title:          fmt.Sprintf("Task %d", id),
		Status:         status,
		Priority:       task.PriorityMedium,
		EstimatedHours: estimate,
		Created:        created,
		Updated:        created,
	}
}

func blocks(from, to int) Edge {
	return Edge{From: from, To: to, Type: TypeBlocks}
}

func TestNewBuildsAdjacency(t *testing.T) {
	tasks := []*task.Task{
		newTask(1, task.StatusPending, 1),
		newTask(2, task.StatusPending, 1),
		newTask(3, task.StatusPending, 1),
	}
	g := New(tasks, []Edge{blocks(1, 2), blocks(1, 3)})

	if g.TaskCount() != 3 {
		t.Errorf("task count = %d, want 3", g.TaskCount())
	}
	if deps := g.Dependents(1); len(deps) != 2 || deps[0] != 2 || deps[1] != 3 {
		t.Errorf("dependents of 1 = %v, want [2 3]", deps)
	}
	if prereqs := g.Prerequisites(3); len(prereqs) != 1 || prereqs[0] != 1 {
		t.Errorf("prerequisites of 3 = %v, want [1]", prereqs)
	}
	if g.Task(2) == nil || g.Task(99) != nil {
		t.Error("task lookup mismatch")
	}
}

func TestNewSkipsDanglingAndDuplicateEdges(t *testing.T) {
	tasks := []*task.Task{
		newTask(1, task.StatusPending, 1),
		newTask(2, task.StatusPending, 1),
	}
	edges := []Edge{
		blocks(1, 2),
		blocks(1, 2),  // duplicate
		blocks(1, 99), // dangling target
		blocks(99, 2), // dangling source
	}
	g := New(tasks, edges)

	if deps := g.Dependents(1); len(deps) != 1 {
		t.Errorf("dependents of 1 = %v, want exactly [2]", deps)
	}
	if prereqs := g.Prerequisites(2); len(prereqs) != 1 {
		t.Errorf("prerequisites of 2 = %v, want exactly [1]", prereqs)
	}
}

func TestRelatedEdgesAreSymmetricAndNeutral(t *testing.T) {
	tasks := []*task.Task{
		newTask(1, task.StatusPending, 1),
		newTask(2, task.StatusPending, 1),
	}
	g := New(tasks, []Edge{{From: 1, To: 2, Type: TypeRelated}})

	if rel := g.Related(1); len(rel) != 1 || rel[0] != 2 {
		t.Errorf("related(1) = %v", rel)
	}
	if rel := g.Related(2); len(rel) != 1 || rel[0] != 1 {
		t.Errorf("related(2) = %v", rel)
	}

	// Related edges impose no ordering: both tasks stay ready and the
	// pair cannot cycle.
	if len(g.ReadyTasks()) != 2 {
		t.Error("related edge should not affect readiness")
	}
	if g.WouldCycle(Edge{From: 2, To: 1, Type: TypeRelated}) {
		t.Error("related edges never close a cycle")
	}
}

func TestReachable(t *testing.T) {
	tasks := []*task.Task{
		newTask(1, task.StatusPending, 1),
		newTask(2, task.StatusPending, 1),
		newTask(3, task.StatusPending, 1),
		newTask(4, task.StatusPending, 1),
	}
	g := New(tasks, []Edge{blocks(1, 2), blocks(2, 3)})

	if !g.Reachable(1, 3) {
		t.Error("1 should reach 3 transitively")
	}
	if g.Reachable(3, 1) {
		t.Error("reachability must follow edge direction")
	}
	if g.Reachable(1, 4) {
		t.Error("4 is disconnected")
	}
	if !g.Reachable(2, 2) {
		t.Error("a node reaches itself")
	}
}

func TestWouldCycleTransitive(t *testing.T) {
	tasks := []*task.Task{
		newTask(1, task.StatusPending, 1),
		newTask(2, task.StatusPending, 1),
		newTask(3, task.StatusPending, 1),
	}
	g := New(tasks, []Edge{blocks(1, 2), blocks(2, 3)})

	if !g.WouldCycle(blocks(3, 1)) {
		t.Error("closing the chain 1->2->3 back to 1 must be a cycle")
	}
	if !g.WouldCycle(blocks(2, 1)) {
		t.Error("direct back edge must be a cycle")
	}
	if g.WouldCycle(blocks(1, 3)) {
		t.Error("shortcut along edge direction is not a cycle")
	}
}

func TestCycleDetection(t *testing.T) {
	tasks := []*task.Task{
		newTask(1, task.StatusPending, 1),
		newTask(2, task.StatusPending, 1),
		newTask(3, task.StatusPending, 1),
	}

	acyclic := New(tasks, []Edge{blocks(1, 2), blocks(2, 3)})
	if cycle := acyclic.Cycle(); cycle != nil {
		t.Errorf("acyclic graph reported cycle %v", cycle)
	}

	// Insertion guards keep stored graphs acyclic; Cycle() covers
	// hand-edited edge files.
	cyclic := New(tasks, []Edge{blocks(1, 2), blocks(2, 3), blocks(3, 1)})
	cycle := cyclic.Cycle()
	if len(cycle) != 3 {
		t.Fatalf("expected 3-node cycle, got %v", cycle)
	}
	seen := map[int]bool{}
	for _, id := range cycle {
		seen[id] = true
	}
	if !seen[1] || !seen[2] || !seen[3] {
		t.Errorf("cycle %v should cover nodes 1, 2, 3", cycle)
	}
}

func TestReadyFrontierProgression(t *testing.T) {
	a := newTask(1, task.StatusPending, 1)
	b := newTask(2, task.StatusPending, 1)
	c := newTask(3, task.StatusPending, 1)
	g := New([]*task.Task{a, b, c}, []Edge{blocks(1, 2), blocks(2, 3)})

	assertReadyIDs(t, g, []int{1})

	a.Status = task.StatusCompleted
	assertReadyIDs(t, g, []int{2})

	// A cancelled prerequisite can never complete, so it must not
	// wedge its dependents.
	b.Status = task.StatusCancelled
	assertReadyIDs(t, g, []int{3})

	c.Status = task.StatusInProgress
	assertReadyIDs(t, g, nil)
}

func TestReadyRequiresPendingStatus(t *testing.T) {
	a := newTask(1, task.StatusBlocked, 1)
	b := newTask(2, task.StatusInProgress, 1)
	g := New([]*task.Task{a, b}, nil)

	if len(g.ReadyTasks()) != 0 {
		t.Error("only pending tasks can be ready")
	}
	if g.IsReady(1) || g.IsReady(2) {
		t.Error("IsReady must require pending status")
	}
	if g.IsReady(99) {
		t.Error("unknown id is never ready")
	}
}

func TestBlockingPrerequisites(t *testing.T) {
	a := newTask(1, task.StatusCompleted, 1)
	b := newTask(2, task.StatusInProgress, 1)
	c := newTask(3, task.StatusPending, 1)
	g := New([]*task.Task{a, b, c}, []Edge{blocks(1, 3), blocks(2, 3)})

	if got := g.BlockingPrerequisites(3); len(got) != 1 || got[0] != 2 {
		t.Errorf("blocking prerequisites = %v, want [2]", got)
	}

	b.Status = task.StatusCompleted
	if got := g.BlockingPrerequisites(3); len(got) != 0 {
		t.Errorf("blocking prerequisites = %v, want none", got)
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		from, to int
		edgeType string
		want     Edge
	}{
		{1, 2, TypeBlocks, Edge{From: 1, To: 2, Type: TypeBlocks}},
		{2, 1, TypeBlockedBy, Edge{From: 1, To: 2, Type: TypeBlocks}},
		{5, 3, TypeRelated, Edge{From: 3, To: 5, Type: TypeRelated}},
		{3, 5, TypeRelated, Edge{From: 3, To: 5, Type: TypeRelated}},
	}
	for _, tc := range cases {
		if got := Normalize(tc.from, tc.to, tc.edgeType); got != tc.want {
			t.Errorf("Normalize(%d, %d, %s) = %v, want %v", tc.from, tc.to, tc.edgeType, got, tc.want)
		}
	}
}

func TestEdgeStringAndValidType(t *testing.T) {
	e := Edge{From: 1, To: 2, Type: TypeBlocks}
	if e.String() != "#1 blocks #2" {
		t.Errorf("edge string = %q", e.String())
	}

	for _, valid := range Types {
		if !ValidType(valid) {
			t.Errorf("ValidType(%q) = false", valid)
		}
	}
	if ValidType("requires") {
		t.Error("unknown edge type accepted")
	}
}

func assertReadyIDs(t *testing.T, g *Graph, want []int) {
	t.Helper()
	ready := g.ReadyTasks()
	if len(ready) != len(want) {
		t.Fatalf("ready = %v, want ids %v", readyIDs(ready), want)
	}
	for i, tk := range ready {
		if tk.ID != want[i] {
			t.Fatalf("ready = %v, want ids %v", readyIDs(ready), want)
		}
	}
}

func readyIDs(tasks []*task.Task) []int {
	ids := make([]int, 0, len(tasks))
	for _, tk := range tasks {
		ids = append(ids, tk.ID)
	}
	return ids
}
