package store

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/gantryworks/gantry/internal/clierr"
	"github.com/gantryworks/gantry/internal/config"
	"github.com/gantryworks/gantry/internal/graph"
	"github.com/gantryworks/gantry/internal/task"
)

const edgesFileName = "edges.yml"

type edgeFile struct {
	Edges []graph.Edge `yaml:"edges"`
}

// Edges reads the stored dependency edges.
func (s *Store) Edges() ([]graph.Edge, error) {
	return loadEdges(s.dir)
}

// Snapshot builds a graph over the current tasks and edges. Reads are
// lock-free: the edge file is replaced atomically, so a snapshot sees
// a complete edge set, never a half-written one.
func (s *Store) Snapshot() (*graph.Graph, []task.ReadWarning, error) {
	tasks, warnings, err := task.ReadAllLenient(s.cfg.TasksPath())
	if err != nil {
		return nil, nil, err
	}
	edges, err := loadEdges(s.dir)
	if err != nil {
		return nil, nil, err
	}
	return graph.New(tasks, edges), warnings, nil
}

// AddDependency records a dependency between two tasks after checking
// it would not close a cycle. The check and the insertion run under
// the workspace lock, so two concurrent additions cannot jointly
// introduce a cycle past each other. Returns the stored (normalized)
// edge; existing reports an idempotent re-add, which changes nothing.
func (s *Store) AddDependency(fromID, toID int, edgeType string) (graph.Edge, bool, error) {
	var stored graph.Edge
	var existing bool
	err := s.withLock(func(cfg *config.Config) error {
		if !graph.ValidType(edgeType) {
			return clierr.Newf(clierr.ValidationFailed, "invalid dependency type %q", edgeType).
				WithDetails(map[string]any{
					"field":   "type",
					"value":   edgeType,
					"allowed": graph.Types,
				})
		}
		if fromID == toID {
			return task.ValidateSelfReference(fromID)
		}
		if _, err := task.FindByID(cfg.TasksPath(), fromID); err != nil {
			return err
		}
		if _, err := task.FindByID(cfg.TasksPath(), toID); err != nil {
			return err
		}

		edges, err := loadEdges(cfg.Dir())
		if err != nil {
			return err
		}

		e := graph.Normalize(fromID, toID, edgeType)
		for _, ex := range edges {
			if ex == e {
				stored, existing = e, true
				return nil
			}
		}

		tasks, _, err := task.ReadAllLenient(cfg.TasksPath())
		if err != nil {
			return err
		}
		g := graph.New(tasks, edges)
		if g.WouldCycle(e) {
			return clierr.Newf(clierr.CycleDetected,
				"adding #%d blocks #%d would create a cycle: #%d already blocks #%d (transitively)",
				e.From, e.To, e.To, e.From).
				WithDetails(map[string]any{
					"from": e.From,
					"to":   e.To,
					"type": e.Type,
				})
		}

		edges = append(edges, e)
		if err := saveEdges(cfg.Dir(), edges); err != nil {
			return err
		}

		s.publish(Event{Kind: EventDependencyAdded, TaskID: e.From, Detail: e.String()})
		stored = e
		return nil
	})
	if err != nil {
		return graph.Edge{}, false, err
	}
	return stored, existing, nil
}

// RemoveDependency deletes a stored dependency. The type argument uses
// the same orientation rules as AddDependency, so the edge can be
// removed through either view of it.
func (s *Store) RemoveDependency(fromID, toID int, edgeType string) (graph.Edge, error) {
	var removed graph.Edge
	err := s.withLock(func(cfg *config.Config) error {
		if !graph.ValidType(edgeType) {
			return clierr.Newf(clierr.ValidationFailed, "invalid dependency type %q", edgeType).
				WithDetails(map[string]any{
					"field":   "type",
					"value":   edgeType,
					"allowed": graph.Types,
				})
		}

		edges, err := loadEdges(cfg.Dir())
		if err != nil {
			return err
		}

		e := graph.Normalize(fromID, toID, edgeType)
		kept := edges[:0]
		found := false
		for _, ex := range edges {
			if ex == e {
				found = true
				continue
			}
			kept = append(kept, ex)
		}
		if !found {
			return clierr.Newf(clierr.NotFound, "dependency not found: %s", e).
				WithDetails(map[string]any{
					"from": e.From,
					"to":   e.To,
					"type": e.Type,
				})
		}

		if err := saveEdges(cfg.Dir(), kept); err != nil {
			return err
		}

		s.publish(Event{Kind: EventDependencyRemoved, TaskID: e.From, Detail: e.String()})
		removed = e
		return nil
	})
	if err != nil {
		return graph.Edge{}, err
	}
	return removed, nil
}

// loadEdges reads the edge file. A missing file is an empty edge set.
func loadEdges(dir string) ([]graph.Edge, error) {
	data, err := os.ReadFile(filepath.Join(dir, edgesFileName)) //nolint:gosec // workspace path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading edges: %w", err)
	}

	var ef edgeFile
	if err := yaml.Unmarshal(data, &ef); err != nil {
		return nil, fmt.Errorf("parsing edges: %w", err)
	}
	return ef.Edges, nil
}

// saveEdges replaces the edge file atomically: write to a temp file in
// the same directory, then rename over the target. Concurrent readers
// see either the old or the new complete edge set.
func saveEdges(dir string, edges []graph.Edge) error {
	data, err := yaml.Marshal(edgeFile{Edges: edges})
	if err != nil {
		return fmt.Errorf("marshaling edges: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "edges-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp edge file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing edges: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("closing temp edge file: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(dir, edgesFileName)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replacing edges: %w", err)
	}
	return nil
}
