package store

import (
	"testing"

	"github.com/gantryworks/gantry/internal/clierr"
	"github.com/gantryworks/gantry/internal/graph"
)

func TestAddDependencyNormalizesOrientation(t *testing.T) {
	s := testStore(t)
	a := mustCreateTask(t, s, "Design the schema")
	b := mustCreateTask(t, s, "Write the migration")

	// "b is blocked_by a" stores as "a blocks b".
	stored, existing, err := s.AddDependency(b.ID, a.ID, graph.TypeBlockedBy)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if existing {
		t.Error("fresh edge reported as existing")
	}
	want := graph.Edge{From: a.ID, To: b.ID, Type: graph.TypeBlocks}
	if stored != want {
		t.Errorf("stored = %+v, want %+v", stored, want)
	}

	edges, err := s.Edges()
	if err != nil {
		t.Fatalf("edges: %v", err)
	}
	if len(edges) != 1 || edges[0] != want {
		t.Errorf("edges = %+v", edges)
	}
}

func TestAddDependencyIdempotent(t *testing.T) {
	s := testStore(t)
	a := mustCreateTask(t, s, "Upstream")
	b := mustCreateTask(t, s, "Downstream")

	if _, _, err := s.AddDependency(a.ID, b.ID, graph.TypeBlocks); err != nil {
		t.Fatalf("add: %v", err)
	}
	// Same fact through the inverse view.
	stored, existing, err := s.AddDependency(b.ID, a.ID, graph.TypeBlockedBy)
	if err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if !existing {
		t.Error("re-add should report the edge as existing")
	}
	if stored.From != a.ID || stored.To != b.ID {
		t.Errorf("stored = %+v", stored)
	}

	edges, err := s.Edges()
	if err != nil {
		t.Fatalf("edges: %v", err)
	}
	if len(edges) != 1 {
		t.Errorf("edge count = %d, want 1", len(edges))
	}
}

func TestAddDependencySelfReference(t *testing.T) {
	s := testStore(t)
	a := mustCreateTask(t, s, "Narcissist")
	_, _, err := s.AddDependency(a.ID, a.ID, graph.TypeBlocks)
	assertCode(t, err, clierr.SelfReference)
}

func TestAddDependencyMissingTask(t *testing.T) {
	s := testStore(t)
	a := mustCreateTask(t, s, "Exists")
	_, _, err := s.AddDependency(a.ID, 42, graph.TypeBlocks)
	assertCode(t, err, clierr.NotFound)
}

func TestAddDependencyInvalidType(t *testing.T) {
	s := testStore(t)
	a := mustCreateTask(t, s, "One")
	b := mustCreateTask(t, s, "Two")
	_, _, err := s.AddDependency(a.ID, b.ID, "depends")
	cliErr := assertCode(t, err, clierr.ValidationFailed)
	if cliErr.Details["field"] != "type" {
		t.Errorf("details = %v", cliErr.Details)
	}
}

func TestAddDependencyRejectsTransitiveCycle(t *testing.T) {
	s := testStore(t)
	a := mustCreateTask(t, s, "Stage one")
	b := mustCreateTask(t, s, "Stage two")
	c := mustCreateTask(t, s, "Stage three")

	for _, pair := range [][2]int{{a.ID, b.ID}, {b.ID, c.ID}} {
		if _, _, err := s.AddDependency(pair[0], pair[1], graph.TypeBlocks); err != nil {
			t.Fatalf("add %v: %v", pair, err)
		}
	}

	// a -> b -> c is in place; closing c -> a would loop.
	_, _, err := s.AddDependency(c.ID, a.ID, graph.TypeBlocks)
	cliErr := assertCode(t, err, clierr.CycleDetected)
	if cliErr.Details["from"] != c.ID || cliErr.Details["to"] != a.ID {
		t.Errorf("details = %v", cliErr.Details)
	}

	edges, err := s.Edges()
	if err != nil {
		t.Fatalf("edges: %v", err)
	}
	if len(edges) != 2 {
		t.Errorf("rejected edge must not be stored: %+v", edges)
	}
}

func TestRelatedEdgesNeverCycle(t *testing.T) {
	s := testStore(t)
	a := mustCreateTask(t, s, "Alpha")
	b := mustCreateTask(t, s, "Beta")

	if _, _, err := s.AddDependency(a.ID, b.ID, graph.TypeBlocks); err != nil {
		t.Fatalf("add blocks: %v", err)
	}
	// The reverse direction as related is fine: no ordering constraint.
	if _, _, err := s.AddDependency(b.ID, a.ID, graph.TypeRelated); err != nil {
		t.Errorf("related edge rejected: %v", err)
	}
}

func TestRemoveDependencyEitherOrientation(t *testing.T) {
	s := testStore(t)
	a := mustCreateTask(t, s, "Producer")
	b := mustCreateTask(t, s, "Consumer")

	if _, _, err := s.AddDependency(a.ID, b.ID, graph.TypeBlocks); err != nil {
		t.Fatalf("add: %v", err)
	}

	removed, err := s.RemoveDependency(b.ID, a.ID, graph.TypeBlockedBy)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed.From != a.ID || removed.To != b.ID || removed.Type != graph.TypeBlocks {
		t.Errorf("removed = %+v", removed)
	}

	edges, err := s.Edges()
	if err != nil {
		t.Fatalf("edges: %v", err)
	}
	if len(edges) != 0 {
		t.Errorf("edges = %+v, want empty", edges)
	}
}

func TestRemoveDependencyNotFound(t *testing.T) {
	s := testStore(t)
	a := mustCreateTask(t, s, "Lonely")
	b := mustCreateTask(t, s, "Also lonely")
	_, err := s.RemoveDependency(a.ID, b.ID, graph.TypeBlocks)
	assertCode(t, err, clierr.NotFound)
}

func TestDeleteTaskCascadesEdges(t *testing.T) {
	s := testStore(t)
	a := mustCreateTask(t, s, "Head")
	b := mustCreateTask(t, s, "Middle")
	c := mustCreateTask(t, s, "Tail")

	if _, _, err := s.AddDependency(a.ID, b.ID, graph.TypeBlocks); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, _, err := s.AddDependency(b.ID, c.ID, graph.TypeRelated); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, _, err := s.AddDependency(a.ID, c.ID, graph.TypeBlocks); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := s.DeleteTask(b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	edges, err := s.Edges()
	if err != nil {
		t.Fatalf("edges: %v", err)
	}
	want := graph.Edge{From: a.ID, To: c.ID, Type: graph.TypeBlocks}
	if len(edges) != 1 || edges[0] != want {
		t.Errorf("edges = %+v, want only %+v", edges, want)
	}
}

func TestSnapshotSeesTasksAndEdges(t *testing.T) {
	s := testStore(t)
	a := mustCreateTask(t, s, "Foundation")
	b := mustCreateTask(t, s, "Walls")

	if _, _, err := s.AddDependency(a.ID, b.ID, graph.TypeBlocks); err != nil {
		t.Fatalf("add: %v", err)
	}

	g, warnings, err := s.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	if g.TaskCount() != 2 {
		t.Errorf("task count = %d, want 2", g.TaskCount())
	}
	if !g.Reachable(a.ID, b.ID) {
		t.Error("blocks edge missing from snapshot")
	}
	if deps := g.Prerequisites(b.ID); len(deps) != 1 || deps[0] != a.ID {
		t.Errorf("prerequisites = %v", deps)
	}
}
