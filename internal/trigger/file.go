package trigger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"
)

const fileMode = 0o600

// Filename returns the file name for a trigger record.
func Filename(id string) string {
	return id + ".yml"
}

// Read parses a trigger file.
func Read(path string) (*Trigger, error) {
	data, err := os.ReadFile(path) //nolint:gosec // trigger path from trusted source
	if err != nil {
		return nil, fmt.Errorf("reading trigger file: %w", err)
	}

	var tr Trigger
	if err := yaml.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	tr.File = path

	return &tr, nil
}

// Write serializes a trigger record to a YAML file.
func Write(path string, tr *Trigger) error {
	data, err := yaml.Marshal(tr)
	if err != nil {
		return fmt.Errorf("marshaling trigger: %w", err)
	}
	return os.WriteFile(path, data, fileMode)
}

// ReadAll reads all trigger files from the given directory, ordered by
// creation time then id for determinism. A missing directory is
// treated as empty.
func ReadAll(triggersDir string) ([]*Trigger, error) {
	entries, err := os.ReadDir(triggersDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading triggers directory: %w", err)
	}

	var triggers []*Trigger
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".yml") {
			continue
		}
		tr, err := Read(filepath.Join(triggersDir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		triggers = append(triggers, tr)
	}

	sort.Slice(triggers, func(i, j int) bool {
		if !triggers[i].Created.Equal(triggers[j].Created) {
			return triggers[i].Created.Before(triggers[j].Created)
		}
		return triggers[i].ID < triggers[j].ID
	})

	return triggers, nil
}
