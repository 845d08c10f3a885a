package task

import (
	"strings"

	"github.com/gantryworks/gantry/internal/clierr"
)

// ValidateStatus checks that a status is one of the known statuses.
func ValidateStatus(status string) error {
	if ValidStatus(status) {
		return nil
	}
	return clierr.Newf(clierr.ValidationFailed, "invalid status %q", status).
		WithDetails(map[string]any{
			"field":   "status",
			"value":   status,
			"allowed": Statuses,
		})
}

// ValidatePriority checks that a priority is one of the known priorities.
func ValidatePriority(priority string) error {
	if ValidPriority(priority) {
		return nil
	}
	return clierr.Newf(clierr.ValidationFailed, "invalid priority %q", priority).
		WithDetails(map[string]any{
			"field":   "priority",
			"value":   priority,
			"allowed": Priorities,
		})
}

// ValidateTitle checks that a title is non-empty after trimming.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) != "" {
		return nil
	}
	return clierr.New(clierr.ValidationFailed, "title is required").
		WithDetails(map[string]any{"field": "title"})
}

// ValidateHours checks that an hour estimate is not negative.
func ValidateHours(field string, hours float64) error {
	if hours >= 0 {
		return nil
	}
	return clierr.Newf(clierr.ValidationFailed, "%s must not be negative", field).
		WithDetails(map[string]any{
			"field": field,
			"value": hours,
		})
}

// Validate checks all task fields that carry constraints.
func (t *Task) Validate() error {
	if err := ValidateTitle(t.Title); err != nil {
		return err
	}
	if err := ValidateStatus(t.Status); err != nil {
		return err
	}
	if err := ValidatePriority(t.Priority); err != nil {
		return err
	}
	if err := ValidateHours("estimated_hours", t.EstimatedHours); err != nil {
		return err
	}
	return ValidateHours("actual_hours", t.ActualHours)
}

// Validate checks all project fields that carry constraints.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return clierr.New(clierr.ValidationFailed, "name is required").
			WithDetails(map[string]any{"field": "name"})
	}
	if !ValidProjectStatus(p.Status) {
		return clierr.Newf(clierr.ValidationFailed, "invalid project status %q", p.Status).
			WithDetails(map[string]any{
				"field":   "status",
				"value":   p.Status,
				"allowed": []string{ProjectActive, ProjectArchived},
			})
	}
	return nil
}

// ValidateTaskID returns a CLIError for invalid task ID input.
func ValidateTaskID(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q", input).
		WithDetails(map[string]any{"input": input})
}

// ValidateSelfReference returns a CLIError for a self-referencing dependency.
func ValidateSelfReference(id int) *clierr.Error {
	return clierr.Newf(clierr.SelfReference, "task cannot depend on itself (ID %d)", id).
		WithDetails(map[string]any{"id": id})
}
