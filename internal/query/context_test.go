package query

import (
	"errors"
	"testing"

	"github.com/gantryworks/gantry/internal/clierr"
	"github.com/gantryworks/gantry/internal/task"
)

func TestDescribeAssemblesNeighborhood(t *testing.T) {
	st := testStore(t)

	p, err := st.CreateProject(&task.Project{Name: "Launch prep"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	a := mustCreateTask(t, st, "Write the announcement")
	b, err := st.CreateTask(&task.Task{Title: "Publish the announcement", Project: intPtr(p.ID)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	c := mustCreateTask(t, st, "Archive the campaign")
	d := mustCreateTask(t, st, "Track engagement")

	for _, e := range []struct {
		from, to int
		typ      string
	}{
		{a.ID, b.ID, "blocks"},
		{b.ID, c.ID, "blocks"},
		{b.ID, d.ID, "related"},
	} {
		if _, _, err := st.AddDependency(e.from, e.to, e.typ); err != nil {
			t.Fatalf("add dependency: %v", err)
		}
	}
	tr, _, err := st.CreateTrigger(b.ID, "webhook", map[string]string{"url": "https://example.com"})
	if err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	ctx, err := Describe(st, b.ID)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}

	if ctx.Task.ID != b.ID {
		t.Errorf("task = %+v", ctx.Task)
	}
	if ctx.Project == nil || ctx.Project.Name != "Launch prep" {
		t.Errorf("project = %+v", ctx.Project)
	}
	assertIDs(t, ctx.Prerequisites, a.ID)
	assertIDs(t, ctx.Dependents, c.ID)
	assertIDs(t, ctx.Related, d.ID)
	if len(ctx.Triggers) != 1 || ctx.Triggers[0].ID != tr.ID {
		t.Errorf("triggers = %+v", ctx.Triggers)
	}
	if ctx.Ready {
		t.Error("b has a pending prerequisite and must not be ready")
	}
}

func TestDescribeReadinessTracksPrerequisiteCompletion(t *testing.T) {
	st := testStore(t)
	a := mustCreateTask(t, st, "Prerequisite")
	b := mustCreateTask(t, st, "Dependent")
	if _, _, err := st.AddDependency(a.ID, b.ID, "blocks"); err != nil {
		t.Fatalf("add dependency: %v", err)
	}

	ctx, err := Describe(st, b.ID)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if ctx.Ready {
		t.Error("ready before prerequisite completion")
	}

	mustSetStatus(t, st, a.ID, task.StatusCompleted)

	ctx, err = Describe(st, b.ID)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if !ctx.Ready {
		t.Error("ready flag should flip once the prerequisite is terminal")
	}
}

func TestDescribeNotFound(t *testing.T) {
	st := testStore(t)
	_, err := Describe(st, 42)
	var cliErr *clierr.Error
	if !errors.As(err, &cliErr) || cliErr.Code != clierr.NotFound {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}
