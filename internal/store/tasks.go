package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gantryworks/gantry/internal/clierr"
	"github.com/gantryworks/gantry/internal/config"
	"github.com/gantryworks/gantry/internal/task"
)

// CreateTask persists a new task built from the given draft. The store
// assigns id, version, and timestamps, and forces status to pending:
// tasks leave pending only through explicit updates. An empty priority
// defaults to medium.
func (s *Store) CreateTask(t *task.Task) (*task.Task, error) {
	err := s.withLock(func(cfg *config.Config) error {
		now := time.Now()
		t.ID = cfg.NextTaskID
		t.Version = 1
		t.Status = task.StatusPending
		if t.Priority == "" {
			t.Priority = task.PriorityMedium
		}
		t.Created = now
		t.Updated = now

		if err := t.Validate(); err != nil {
			return err
		}
		if err := checkProjectRef(cfg, t); err != nil {
			return err
		}

		path := filepath.Join(cfg.TasksPath(),
			task.GenerateFilename(t.ID, task.GenerateSlug(t.Title)))
		t.File = path

		if err := task.Write(path, t); err != nil {
			return fmt.Errorf("writing task: %w", err)
		}

		cfg.NextTaskID++
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		s.publish(Event{Kind: EventTaskCreated, TaskID: t.ID, Detail: t.Title})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTask reads one task by id.
func (s *Store) GetTask(id int) (*task.Task, error) {
	path, err := task.FindByID(s.cfg.TasksPath(), id)
	if err != nil {
		return nil, err
	}
	return task.Read(path)
}

// ListTasks reads all tasks. Malformed files abort the read.
func (s *Store) ListTasks() ([]*task.Task, error) {
	return task.ReadAll(s.cfg.TasksPath())
}

// ListTasksLenient reads all tasks, collecting warnings for malformed
// files instead of aborting.
func (s *Store) ListTasksLenient() ([]*task.Task, []task.ReadWarning, error) {
	return task.ReadAllLenient(s.cfg.TasksPath())
}

// UpdateTask applies mutate to the stored task under the workspace
// lock, using optimistic versioning: when expectedVersion is non-zero
// and does not match the stored version, the update fails with a
// version conflict and the caller must re-read and retry. Passing zero
// skips the check; the lock still serializes the read-modify-write.
//
// Server-owned fields (id, version, created, file) survive mutate
// unchanged; version increments and updated refreshes on success.
func (s *Store) UpdateTask(id, expectedVersion int, mutate func(*task.Task) error) (*task.Task, error) {
	var updated *task.Task
	err := s.withLock(func(cfg *config.Config) error {
		path, err := task.FindByID(cfg.TasksPath(), id)
		if err != nil {
			return err
		}
		t, err := task.Read(path)
		if err != nil {
			return err
		}

		if expectedVersion > 0 && t.Version != expectedVersion {
			return clierr.Newf(clierr.VersionConflict,
				"task #%d is at version %d, expected %d: re-read and retry",
				id, t.Version, expectedVersion).
				WithDetails(map[string]any{
					"id":               id,
					"actual_version":   t.Version,
					"expected_version": expectedVersion,
				})
		}

		orig := *t
		if err := mutate(t); err != nil {
			return err
		}
		t.ID = orig.ID
		t.Version = orig.Version
		t.Created = orig.Created
		t.File = orig.File

		if err := t.Validate(); err != nil {
			return err
		}
		if err := checkProjectRef(cfg, t); err != nil {
			return err
		}

		if t.Status != orig.Status {
			task.UpdateTimestamps(t, orig.Status, t.Status)
		}
		t.Version++
		t.Updated = time.Now()

		newPath := filepath.Join(cfg.TasksPath(),
			task.GenerateFilename(t.ID, task.GenerateSlug(t.Title)))
		if err := task.Write(newPath, t); err != nil {
			return fmt.Errorf("writing task: %w", err)
		}
		if newPath != path {
			// Title change renamed the file; drop the old one.
			_ = os.Remove(path)
			t.File = newPath
		}

		s.publish(Event{Kind: EventTaskUpdated, TaskID: t.ID, Detail: t.Title})
		if t.Status != orig.Status {
			s.publish(Event{
				Kind:   EventTaskStatusChanged,
				TaskID: t.ID,
				Detail: fmt.Sprintf("%s -> %s", orig.Status, t.Status),
			})
		}

		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTask removes a task and every dependency edge touching it.
// Trigger records owned by the task are kept for audit.
func (s *Store) DeleteTask(id int) (*task.Task, error) {
	var deleted *task.Task
	err := s.withLock(func(cfg *config.Config) error {
		path, err := task.FindByID(cfg.TasksPath(), id)
		if err != nil {
			return err
		}
		t, err := task.Read(path)
		if err != nil {
			return err
		}

		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing task file: %w", err)
		}

		edges, err := loadEdges(cfg.Dir())
		if err != nil {
			return err
		}
		kept := edges[:0]
		for _, e := range edges {
			if e.From != id && e.To != id {
				kept = append(kept, e)
			}
		}
		if len(kept) != len(edges) {
			if err := saveEdges(cfg.Dir(), kept); err != nil {
				return err
			}
		}

		s.publish(Event{Kind: EventTaskDeleted, TaskID: id, Detail: t.Title})
		deleted = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// checkProjectRef verifies that a task's project reference, if set,
// points at an existing project.
func checkProjectRef(cfg *config.Config, t *task.Task) error {
	if t.Project == nil {
		return nil
	}
	if _, err := task.FindProjectByID(cfg.ProjectsPath(), *t.Project); err != nil {
		return err
	}
	return nil
}
