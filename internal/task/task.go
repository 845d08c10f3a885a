// Package task handles task and project files and their frontmatter.
package task

import (
	"time"
)

// Task statuses. The lifecycle is fixed; "blocked" is a user-managed
// flag and independent of derived readiness.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusBlocked    = "blocked"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Task priorities, in ascending order of urgency.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Statuses lists all task statuses in lifecycle order.
var Statuses = []string{
	StatusPending,
	StatusInProgress,
	StatusBlocked,
	StatusCompleted,
	StatusCancelled,
}

// Priorities lists all task priorities in ascending order of urgency.
var Priorities = []string{
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
	PriorityCritical,
}

// Task represents a unit of work parsed from a markdown file.
type Task struct {
	ID             int        `yaml:"id" json:"id"`
	Version        int        `yaml:"version" json:"version"`
	Title          string     `yaml:"title" json:"title"`
	Status         string     `yaml:"status" json:"status"`
	Priority       string     `yaml:"priority" json:"priority"`
	EstimatedHours float64    `yaml:"estimated_hours,omitempty" json:"estimated_hours,omitempty"`
	ActualHours    float64    `yaml:"actual_hours,omitempty" json:"actual_hours,omitempty"`
	Created        time.Time  `yaml:"created" json:"created"`
	Updated        time.Time  `yaml:"updated" json:"updated"`
	Started        *time.Time `yaml:"started,omitempty" json:"started,omitempty"`
	Completed      *time.Time `yaml:"completed,omitempty" json:"completed,omitempty"`
	Tags           []string   `yaml:"tags,omitempty" json:"tags,omitempty"`
	Requirements   []string   `yaml:"technical_requirements,omitempty" json:"technical_requirements,omitempty"`
	Project        *int       `yaml:"project,omitempty" json:"project,omitempty"`

	// Description is the markdown content below the frontmatter (not in YAML).
	Description string `yaml:"-" json:"description,omitempty"`

	// File is the path to the task file (not in YAML).
	File string `yaml:"-" json:"file,omitempty"`
}

// ValidStatus reports whether status is one of the known statuses.
func ValidStatus(status string) bool {
	return StatusIndex(status) >= 0
}

// ValidPriority reports whether priority is one of the known priorities.
func ValidPriority(priority string) bool {
	return PriorityIndex(priority) >= 0
}

// StatusIndex returns the lifecycle position of a status, or -1 if unknown.
func StatusIndex(status string) int {
	for i, s := range Statuses {
		if s == status {
			return i
		}
	}
	return -1
}

// PriorityIndex returns the urgency position of a priority, or -1 if unknown.
func PriorityIndex(priority string) int {
	for i, p := range Priorities {
		if p == priority {
			return i
		}
	}
	return -1
}

// Terminal reports whether a status ends the task lifecycle.
// Terminal tasks satisfy the prerequisites of their dependents.
func Terminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}
