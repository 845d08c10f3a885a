package task

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

const fileMode = 0o600

// Read parses a task file and returns the Task with description populated.
func Read(path string) (*Task, error) {
	fm, body, err := readFrontmatter(path)
	if err != nil {
		return nil, err
	}

	var t Task
	if err := yaml.Unmarshal(fm, &t); err != nil {
		return nil, fmt.Errorf("parsing frontmatter in %s: %w", path, err)
	}

	t.Description = body
	t.File = path

	return &t, nil
}

// Write serializes a task to a markdown file with YAML frontmatter.
func Write(path string, t *Task) error {
	fm, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshaling frontmatter: %w", err)
	}
	return os.WriteFile(path, assemble(fm, t.Description), fileMode)
}

// ReadProject parses a project file and returns the Project with
// description populated.
func ReadProject(path string) (*Project, error) {
	fm, body, err := readFrontmatter(path)
	if err != nil {
		return nil, err
	}

	var p Project
	if err := yaml.Unmarshal(fm, &p); err != nil {
		return nil, fmt.Errorf("parsing frontmatter in %s: %w", path, err)
	}

	p.Description = body
	p.File = path

	return &p, nil
}

// WriteProject serializes a project to a markdown file with YAML frontmatter.
func WriteProject(path string, p *Project) error {
	fm, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling frontmatter: %w", err)
	}
	return os.WriteFile(path, assemble(fm, p.Description), fileMode)
}

func readFrontmatter(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path from trusted source
	if err != nil {
		return nil, "", fmt.Errorf("reading file: %w", err)
	}

	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, "", fmt.Errorf("parsing %s: %w", path, err)
	}

	return fm, body, nil
}

// assemble joins marshaled frontmatter and a markdown body into file content.
func assemble(fm []byte, body string) []byte {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes()
}

// splitFrontmatter splits a markdown file into YAML frontmatter and body.
// The file must start with "---\n". Returns frontmatter bytes and body string.
func splitFrontmatter(data []byte) ([]byte, string, error) {
	content := string(data)

	if !strings.HasPrefix(content, "---\n") {
		return nil, "", errors.New("file does not start with YAML frontmatter (---)")
	}

	// Find the closing ---.
	rest := content[4:] // skip opening ---\n
	idx := strings.Index(rest, "\n---\n")
	if idx < 0 {
		// Check if file ends with \n---\n or \n--- at EOF.
		closingLen := len("---")
		if strings.HasSuffix(rest, "\n---") {
			idx = len(rest) - closingLen
		} else {
			return nil, "", errors.New("unclosed frontmatter (missing closing ---)")
		}
	}

	fm := rest[:idx]
	body := ""
	closingEnd := idx + len("\n---\n")
	if closingEnd < len(rest) {
		body = strings.TrimLeft(rest[closingEnd:], "\n")
	}

	return []byte(fm), body, nil
}
