package task

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/gantryworks/gantry/internal/clierr"
)

// idPrefixRe matches the numeric ID prefix of an entity filename.
var idPrefixRe = regexp.MustCompile(`^(\d+)-`)

// FindByID scans the tasks directory for a file matching the given ID.
// Returns the full path to the task file.
func FindByID(tasksDir string, id int) (string, error) {
	path, err := findFileByID(tasksDir, id)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", clierr.Newf(clierr.NotFound, "task not found: #%d", id).
			WithDetails(map[string]any{"kind": "task", "id": id})
	}
	return path, nil
}

// FindProjectByID scans the projects directory for a file matching the
// given ID. Returns the full path to the project file.
func FindProjectByID(projectsDir string, id int) (string, error) {
	path, err := findFileByID(projectsDir, id)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", clierr.Newf(clierr.NotFound, "project not found: #%d", id).
			WithDetails(map[string]any{"kind": "project", "id": id})
	}
	return path, nil
}

func findFileByID(dir string, id int) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading directory: %w", err)
	}

	idStr := strconv.Itoa(id)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		// Strip leading zeros and check if the numeric prefix matches the ID.
		dash := strings.IndexByte(name, '-')
		if dash < 1 {
			continue
		}
		prefix := strings.TrimLeft(name[:dash], "0")
		if prefix == idStr {
			return filepath.Join(dir, name), nil
		}
	}

	return "", nil
}

// ReadAll reads all task files from the given directory.
func ReadAll(tasksDir string) ([]*Task, error) {
	var tasks []*Task
	err := eachMarkdownFile(tasksDir, func(path, name string) error {
		t, err := Read(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		tasks = append(tasks, t)
		return nil
	})
	return tasks, err
}

// ReadAllProjects reads all project files from the given directory.
func ReadAllProjects(projectsDir string) ([]*Project, error) {
	var projects []*Project
	err := eachMarkdownFile(projectsDir, func(path, name string) error {
		p, err := ReadProject(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		projects = append(projects, p)
		return nil
	})
	return projects, err
}

// ReadWarning describes a file that could not be parsed during lenient reading.
type ReadWarning struct {
	File string // base filename
	Err  error
}

// ReadAllLenient reads all task files, skipping malformed files instead of
// aborting. Successfully parsed tasks are returned along with warnings for
// files that failed.
func ReadAllLenient(tasksDir string) ([]*Task, []ReadWarning, error) {
	var tasks []*Task
	var warnings []ReadWarning
	err := eachMarkdownFile(tasksDir, func(path, name string) error {
		t, readErr := Read(path)
		if readErr != nil {
			warnings = append(warnings, ReadWarning{File: name, Err: readErr})
			return nil
		}
		tasks = append(tasks, t)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return tasks, warnings, nil
}

// eachMarkdownFile calls fn for every .md file in dir. A missing directory
// is treated as empty.
func eachMarkdownFile(dir string, fn func(path, name string) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		if err := fn(filepath.Join(dir, entry.Name()), entry.Name()); err != nil {
			return err
		}
	}
	return nil
}

// ExtractIDFromFilename extracts the numeric ID from an entity filename.
func ExtractIDFromFilename(filename string) (int, error) {
	matches := idPrefixRe.FindStringSubmatch(filename)
	if len(matches) < 2 { //nolint:mnd // regex capture group
		return 0, fmt.Errorf("cannot extract ID from filename %q", filename)
	}
	return strconv.Atoi(matches[1])
}
