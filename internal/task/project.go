package task

import (
	"time"
)

// Project statuses.
const (
	ProjectActive   = "active"
	ProjectArchived = "archived"
)

// Project groups related tasks. Stored as a markdown file with YAML
// frontmatter, like tasks, in its own directory.
type Project struct {
	ID            int       `yaml:"id" json:"id"`
	Version       int       `yaml:"version" json:"version"`
	Name          string    `yaml:"name" json:"name"`
	Status        string    `yaml:"status" json:"status"`
	RepositoryURL string    `yaml:"repository_url,omitempty" json:"repository_url,omitempty"`
	Created       time.Time `yaml:"created" json:"created"`
	Updated       time.Time `yaml:"updated" json:"updated"`

	// Description is the markdown content below the frontmatter (not in YAML).
	Description string `yaml:"-" json:"description,omitempty"`

	// File is the path to the project file (not in YAML).
	File string `yaml:"-" json:"file,omitempty"`
}

// ValidProjectStatus reports whether status is a known project status.
func ValidProjectStatus(status string) bool {
	return status == ProjectActive || status == ProjectArchived
}
