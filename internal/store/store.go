// Package store implements the entity store over the workspace files:
// filelock-guarded mutations, optimistic versioning, and the domain
// event log.
package store

import (
	"path/filepath"

	"github.com/gantryworks/gantry/internal/config"
	"github.com/gantryworks/gantry/internal/filelock"
)

// LockFileName is the advisory lock file at the workspace root.
const LockFileName = ".lock"

// Store is a handle on one workspace. It holds no open resources; the
// workspace lock is acquired per mutation.
type Store struct {
	dir   string
	cfg   *config.Config
	hooks []func(Event)
}

// Open loads the workspace config and returns a store handle.
func Open(dir string) (*Store, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	return &Store{dir: cfg.Dir(), cfg: cfg}, nil
}

// Config returns the configuration snapshot taken at Open. Mutations
// reload fresh config under the lock and do not refresh this snapshot.
func (s *Store) Config() *config.Config {
	return s.cfg
}

// Dir returns the workspace directory.
func (s *Store) Dir() string {
	return s.dir
}

// Subscribe registers an in-process observer for domain events.
// Register observers before sharing the store across goroutines.
func (s *Store) Subscribe(fn func(Event)) {
	s.hooks = append(s.hooks, fn)
}

// withLock runs fn while holding the exclusive workspace lock, with a
// config freshly loaded inside the lock so id counters are current.
// This is the transactional boundary: graph checks, file writes, and
// counter bumps for one mutation all happen under one lock.
func (s *Store) withLock(fn func(cfg *config.Config) error) error {
	return filelock.WithLock(filepath.Join(s.dir, LockFileName), func() error {
		cfg, err := config.Load(s.dir)
		if err != nil {
			return err
		}
		return fn(cfg)
	})
}
