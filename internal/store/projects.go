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

// CreateProject persists a new project from the given draft. The store
// assigns id, version, and timestamps; status defaults to active.
func (s *Store) CreateProject(p *task.Project) (*task.Project, error) {
	err := s.withLock(func(cfg *config.Config) error {
		now := time.Now()
		p.ID = cfg.NextProjectID
		p.Version = 1
		if p.Status == "" {
			p.Status = task.ProjectActive
		}
		p.Created = now
		p.Updated = now

		if err := p.Validate(); err != nil {
			return err
		}

		path := filepath.Join(cfg.ProjectsPath(),
			task.GenerateFilename(p.ID, task.GenerateSlug(p.Name)))
		p.File = path

		if err := task.WriteProject(path, p); err != nil {
			return fmt.Errorf("writing project: %w", err)
		}

		cfg.NextProjectID++
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		s.publish(Event{Kind: EventProjectCreated, ProjectID: p.ID, Detail: p.Name})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetProject reads one project by id.
func (s *Store) GetProject(id int) (*task.Project, error) {
	path, err := task.FindProjectByID(s.cfg.ProjectsPath(), id)
	if err != nil {
		return nil, err
	}
	return task.ReadProject(path)
}

// ListProjects reads all projects.
func (s *Store) ListProjects() ([]*task.Project, error) {
	return task.ReadAllProjects(s.cfg.ProjectsPath())
}

// UpdateProject applies mutate to the stored project under the
// workspace lock with the same optimistic versioning as UpdateTask.
func (s *Store) UpdateProject(id, expectedVersion int, mutate func(*task.Project) error) (*task.Project, error) {
	var updated *task.Project
	err := s.withLock(func(cfg *config.Config) error {
		path, err := task.FindProjectByID(cfg.ProjectsPath(), id)
		if err != nil {
			return err
		}
		p, err := task.ReadProject(path)
		if err != nil {
			return err
		}

		if expectedVersion > 0 && p.Version != expectedVersion {
			return clierr.Newf(clierr.VersionConflict,
				"project #%d is at version %d, expected %d: re-read and retry",
				id, p.Version, expectedVersion).
				WithDetails(map[string]any{
					"id":               id,
					"actual_version":   p.Version,
					"expected_version": expectedVersion,
				})
		}

		orig := *p
		if err := mutate(p); err != nil {
			return err
		}
		p.ID = orig.ID
		p.Version = orig.Version
		p.Created = orig.Created
		p.File = orig.File

		if err := p.Validate(); err != nil {
			return err
		}

		p.Version++
		p.Updated = time.Now()

		newPath := filepath.Join(cfg.ProjectsPath(),
			task.GenerateFilename(p.ID, task.GenerateSlug(p.Name)))
		if err := task.WriteProject(newPath, p); err != nil {
			return fmt.Errorf("writing project: %w", err)
		}
		if newPath != path {
			_ = os.Remove(path)
			p.File = newPath
		}

		s.publish(Event{Kind: EventProjectUpdated, ProjectID: p.ID, Detail: p.Name})
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProject removes a project and clears the reference on any task
// that pointed at it. Task references are weak, so the tasks survive.
func (s *Store) DeleteProject(id int) (*task.Project, error) {
	var deleted *task.Project
	err := s.withLock(func(cfg *config.Config) error {
		path, err := task.FindProjectByID(cfg.ProjectsPath(), id)
		if err != nil {
			return err
		}
		p, err := task.ReadProject(path)
		if err != nil {
			return err
		}

		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing project file: %w", err)
		}

		tasks, _, err := task.ReadAllLenient(cfg.TasksPath())
		if err != nil {
			return err
		}
		cleared := 0
		for _, t := range tasks {
			if t.Project == nil || *t.Project != id {
				continue
			}
			t.Project = nil
			t.Version++
			t.Updated = time.Now()
			if err := task.Write(t.File, t); err != nil {
				return fmt.Errorf("clearing project reference on task #%d: %w", t.ID, err)
			}
			cleared++
		}

		detail := p.Name
		if cleared > 0 {
			detail = fmt.Sprintf("%s (cleared %d task references)", p.Name, cleared)
		}
		s.publish(Event{Kind: EventProjectDeleted, ProjectID: id, Detail: detail})
		deleted = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
