package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gantryworks/gantry/internal/query"
	"github.com/gantryworks/gantry/internal/task"
	"github.com/gantryworks/gantry/internal/trigger"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// TaskDetailCompact renders a single task with context in compact format.
func TaskDetailCompact(w io.Writer, ctx *query.TaskContext) {
	t := ctx.Task
	line := formatTaskLine(t) + " v" + strconv.Itoa(t.Version)
	if t.Status == task.StatusPending && ctx.Ready {
		line += " ready"
	}
	fmt.Fprintln(w, line)

	// Timestamps line.
	ts := "  created:" + t.Created.Format("2006-01-02") +
		" updated:" + t.Updated.Format("2006-01-02")
	if t.Started != nil {
		ts += " started:" + t.Started.Format("2006-01-02")
	}
	if t.Completed != nil {
		ts += " completed:" + t.Completed.Format("2006-01-02")
	}
	fmt.Fprintln(w, ts)

	if rel := formatRelations(ctx); rel != "" {
		fmt.Fprintln(w, "  "+rel)
	}
	for _, tr := range ctx.Triggers {
		fmt.Fprintln(w, "  trigger:"+shortID(tr.ID)+" "+tr.Type+" ["+tr.Status+"]")
	}

	if t.Description != "" {
		for _, bodyLine := range strings.Split(t.Description, "\n") {
			fmt.Fprintln(w, "  "+bodyLine)
		}
	}
}

// TriggerCompact renders triggers in one-line-per-record compact format.
func TriggerCompact(w io.Writer, triggers []*trigger.Trigger) {
	if len(triggers) == 0 {
		fmt.Fprintln(os.Stderr, "No triggers found.")
		return
	}

	for _, tr := range triggers {
		line := shortID(tr.ID) + " #" + strconv.Itoa(tr.TaskID) +
			" " + tr.Type + " [" + tr.Status + "]"
		if tr.Attempts > 0 {
			line += " attempts:" + strconv.Itoa(tr.Attempts)
		}
		if tr.LastError != "" {
			line += " err:" + tr.LastError
		}
		fmt.Fprintln(w, line)
	}
}

// StatsCompact renders workspace statistics in compact format.
func StatsCompact(w io.Writer, s query.Stats) {
	fmt.Fprintf(w, "total=%d\n", s.Total)

	parts := make([]string, 0, len(s.ByStatus))
	for _, sc := range s.ByStatus {
		parts = append(parts, sc.Status+"="+strconv.Itoa(sc.Count))
	}
	fmt.Fprintln(w, "Status: "+strings.Join(parts, " "))

	parts = parts[:0]
	for _, pc := range s.ByPriority {
		parts = append(parts, pc.Priority+"="+strconv.Itoa(pc.Count))
	}
	fmt.Fprintln(w, "Priority: "+strings.Join(parts, " "))

	if len(s.Triggers) > 0 {
		parts = parts[:0]
		for _, tc := range s.Triggers {
			parts = append(parts, tc.Status+"="+strconv.Itoa(tc.Count))
		}
		fmt.Fprintln(w, "Triggers: "+strings.Join(parts, " "))
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task) string {
	line := "#" + strconv.Itoa(t.ID) + " [" + t.Status + "/" + t.Priority + "] " + t.Title

	if len(t.Tags) > 0 {
		line += " (" + strings.Join(t.Tags, ", ") + ")"
	}
	if t.EstimatedHours > 0 {
		line += " est:" + strconv.FormatFloat(t.EstimatedHours, 'f', 1, 64) + "h"
	}
	if t.Project != nil {
		line += " proj:#" + strconv.Itoa(*t.Project)
	}

	return line
}

func formatRelations(ctx *query.TaskContext) string {
	var parts []string
	if len(ctx.Prerequisites) > 0 {
		parts = append(parts, "after:"+joinIDs(ctx.Prerequisites))
	}
	if len(ctx.Dependents) > 0 {
		parts = append(parts, "blocks:"+joinIDs(ctx.Dependents))
	}
	if len(ctx.Related) > 0 {
		parts = append(parts, "related:"+joinIDs(ctx.Related))
	}
	return strings.Join(parts, " ")
}

func joinIDs(tasks []*task.Task) string {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, "#"+strconv.Itoa(t.ID))
	}
	return strings.Join(ids, ",")
}
