package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/gantryworks/gantry/internal/graph"
	"github.com/gantryworks/gantry/internal/parse"
	"github.com/gantryworks/gantry/internal/query"
	"github.com/gantryworks/gantry/internal/task"
	"github.com/gantryworks/gantry/internal/trigger"
)

// Timestamp layouts for the detail and listing renderers.
const (
	stampMinute = "2006-01-02 15:04"
	stampSecond = "2006-01-02 15:04:05"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Bold(true)
	boldStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// Status colors aligned with TUI column-header palette.
	statusStyles = map[string]lipgloss.Style{
		task.StatusPending:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		task.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		task.StatusBlocked:    lipgloss.NewStyle().Foreground(lipgloss.Color("178")),
		task.StatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		task.StatusCancelled:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}

	// Trigger lifecycle colors.
	triggerStyles = map[string]lipgloss.Style{
		trigger.StatusPending:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		trigger.StatusDispatched: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		trigger.StatusSucceeded:  lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		trigger.StatusFailed:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		trigger.StatusCancelled:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}

	// Priority colors matching TUI priority palette.
	priorityStyles = map[string]lipgloss.Style{
		task.PriorityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		task.PriorityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		task.PriorityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		task.PriorityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}

	tagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	critStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	statusStyles = map[string]lipgloss.Style{}
	triggerStyles = map[string]lipgloss.Style{}
	priorityStyles = map[string]lipgloss.Style{}
	tagStyle = lipgloss.NewStyle()
	critStyle = lipgloss.NewStyle()
}

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	// Calculate column widths.
	const pad = 2
	idW, statusW, prioW, titleW, tagsW, estW, projW := 4, 8, 10, 5, 6, 7, 9
	for _, t := range tasks {
		idW = max(idW, len(strconv.Itoa(t.ID))+pad)
		statusW = max(statusW, len(t.Status)+pad)
		prioW = max(prioW, len(t.Priority)+pad)
		titleW = max(titleW, min(len(t.Title)+pad, 50)) //nolint:mnd // max title column width
		tagsW = max(tagsW, min(len(strings.Join(t.Tags, ","))+pad, 30)) //nolint:mnd // max tags column width
	}

	// Print header.
	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s %-*s",
		idW, "ID", statusW, "STATUS", prioW, "PRIORITY",
		titleW, "TITLE", tagsW, "TAGS", estW, "EST", projW, "PROJECT")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	// Print rows.
	for _, t := range tasks {
		tags := strings.Join(t.Tags, ",")
		if tags == "" {
			tags = dimStyle.Render("--")
		} else {
			tags = tagStyle.Render(tags)
		}
		proj := dimStyle.Render("--")
		if t.Project != nil {
			proj = "#" + strconv.Itoa(*t.Project)
		}

		row := fmt.Sprintf("%-*d %s %s %s %s %s %s",
			idW, t.ID,
			padRight(styledValue(t.Status, statusStyles), statusW),
			padRight(styledValue(t.Priority, priorityStyles), prioW),
			padRight(truncate(t.Title, 48), titleW), //nolint:mnd // max title cell width
			padRight(tags, tagsW),
			padRight(hoursOrDash(t.EstimatedHours), estW),
			proj)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with its full context.
func TaskDetail(w io.Writer, ctx *query.TaskContext) {
	t := ctx.Task
	titleLine := fmt.Sprintf("Task #%d: %s", t.ID, t.Title)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", len(titleLine)))

	printField(w, "Status", styledValue(t.Status, statusStyles))
	printField(w, "Priority", styledValue(t.Priority, priorityStyles))
	printField(w, "Version", strconv.Itoa(t.Version))
	if t.Status == task.StatusPending {
		printField(w, "Ready", readyDisplay(ctx))
	}
	if t.Project != nil {
		proj := "#" + strconv.Itoa(*t.Project)
		if ctx.Project != nil {
			proj += " " + ctx.Project.Name
		}
		printField(w, "Project", proj)
	}
	if len(t.Tags) > 0 {
		printField(w, "Tags", tagStyle.Render(strings.Join(t.Tags, ", ")))
	} else {
		printField(w, "Tags", dimStyle.Render("--"))
	}
	printField(w, "Estimate", hoursOrDash(t.EstimatedHours))
	if t.ActualHours > 0 {
		printField(w, "Actual", hoursOrDash(t.ActualHours))
	}
	printField(w, "Created", t.Created.Format("2006-01-02 15:04"))
	printField(w, "Updated", t.Updated.Format("2006-01-02 15:04"))
	if t.Started != nil {
		printField(w, "Started", t.Started.Format("2006-01-02 15:04"))
	}
	if t.Completed != nil {
		printField(w, "Completed", t.Completed.Format("2006-01-02 15:04"))
		printField(w, "Lead time", FormatDuration(t.Completed.Sub(t.Created)))
		if t.Started != nil {
			printField(w, "Cycle time", FormatDuration(t.Completed.Sub(*t.Started)))
		}
	}

	if len(t.Requirements) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Requirements"))
		for _, r := range t.Requirements {
			fmt.Fprintln(w, "  - "+r)
		}
	}

	printRelation(w, "Prerequisites", ctx.Prerequisites)
	printRelation(w, "Dependents", ctx.Dependents)
	printRelation(w, "Related", ctx.Related)

	if len(ctx.Triggers) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Triggers"))
		for _, tr := range ctx.Triggers {
			fmt.Fprintf(w, "  %s %s [%s]\n",
				shortID(tr.ID), tr.Type, styledValue(tr.Status, triggerStyles))
		}
	}

	if t.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, t.Description)
	}
}

func printRelation(w io.Writer, label string, tasks []*task.Task) {
	if len(tasks) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(label))
	for _, t := range tasks {
		fmt.Fprintf(w, "  #%d [%s] %s\n",
			t.ID, styledValue(t.Status, statusStyles), truncate(t.Title, 60)) //nolint:mnd // relation title width
	}
}

func readyDisplay(ctx *query.TaskContext) string {
	if ctx.Ready {
		return statusStyles[task.StatusCompleted].Render("yes")
	}
	var blocking []string
	for _, p := range ctx.Prerequisites {
		if !task.Terminal(p.Status) {
			blocking = append(blocking, "#"+strconv.Itoa(p.ID))
		}
	}
	if len(blocking) == 0 {
		return "no"
	}
	return "no (waiting on " + strings.Join(blocking, ", ") + ")"
}

// TriggerTable renders a list of workflow triggers.
func TriggerTable(w io.Writer, triggers []*trigger.Trigger) {
	if len(triggers) == 0 {
		fmt.Fprintln(os.Stderr, "No triggers found.")
		return
	}

	const pad = 2
	typeW, statusW := 6, 8
	for _, tr := range triggers {
		typeW = max(typeW, len(tr.Type)+pad)
		statusW = max(statusW, len(tr.Status)+pad)
	}

	header := fmt.Sprintf("%-10s %-6s %-*s %-*s %8s  %s",
		"ID", "TASK", typeW, "TYPE", statusW, "STATUS", "ATTEMPTS", "UPDATED")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, tr := range triggers {
		row := fmt.Sprintf("%-10s %-6s %s %s %8d  %s",
			shortID(tr.ID),
			"#"+strconv.Itoa(tr.TaskID),
			padRight(tr.Type, typeW),
			padRight(styledValue(tr.Status, triggerStyles), statusW),
			tr.Attempts,
			tr.Updated.Format("2006-01-02 15:04"))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TriggerDetail renders a single trigger with full detail.
func TriggerDetail(w io.Writer, tr *trigger.Trigger) {
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render("Trigger "+tr.ID))

	printField(w, "Task", "#"+strconv.Itoa(tr.TaskID))
	printField(w, "Type", tr.Type)
	printField(w, "Status", styledValue(tr.Status, triggerStyles))
	printField(w, "Attempts", strconv.Itoa(tr.Attempts))
	if tr.LastError != "" {
		printField(w, "Last error", tr.LastError)
	}
	printField(w, "Created", tr.Created.Format("2006-01-02 15:04:05"))
	printField(w, "Updated", tr.Updated.Format("2006-01-02 15:04:05"))
	if tr.DispatchedAt != nil {
		printField(w, "Dispatched", tr.DispatchedAt.Format("2006-01-02 15:04:05"))
	}
	if tr.CompletedAt != nil {
		printField(w, "Completed", tr.CompletedAt.Format("2006-01-02 15:04:05"))
	}

	if len(tr.Config) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Config"))
		keys := make([]string, 0, len(tr.Config))
		for k := range tr.Config {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %s\n", k, tr.Config[k])
		}
	}
}

// AnalysisTable renders a critical path analysis with the per-task
// schedule in topological order.
func AnalysisTable(w io.Writer, a *graph.Analysis, g *graph.Graph) {
	if len(a.Schedules) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks to analyze.")
		return
	}

	path := make([]string, 0, len(a.CriticalPath))
	for _, id := range a.CriticalPath {
		path = append(path, "#"+strconv.Itoa(id))
	}
	fmt.Fprintln(w, headerStyle.Render("Critical path: ")+critStyle.Render(strings.Join(path, " → ")))
	fmt.Fprintf(w, "Total duration: %.1fh\n\n", a.TotalDuration)

	header := fmt.Sprintf("  %5s %6s %6s %6s %6s %6s %6s  %s",
		"ID", "HOURS", "ES", "EF", "LS", "LF", "SLACK", "TITLE")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, id := range a.Order {
		s := a.Schedules[id]
		if s == nil {
			continue
		}
		marker := "  "
		if s.Critical {
			marker = critStyle.Render("★") + " "
		}
		title := ""
		if t := g.Task(id); t != nil {
			title = truncate(t.Title, 40) //nolint:mnd // schedule title width
		}
		fmt.Fprintf(w, "%s%5d %6.1f %6.1f %6.1f %6.1f %6.1f %6.1f  %s\n",
			marker, id, taskHours(g, id),
			s.EarliestStart, s.EarliestFinish,
			s.LatestStart, s.LatestFinish, s.Slack, title)
	}
}

func taskHours(g *graph.Graph, id int) float64 {
	if t := g.Task(id); t != nil {
		return t.EstimatedHours
	}
	return 0
}

// StatsTable renders workspace statistics as a formatted dashboard.
func StatsTable(w io.Writer, s query.Stats) {
	fmt.Fprintf(w, "Total: %d tasks\n\n", s.Total)

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-16s %6s", "STATUS", "COUNT")))
	for _, sc := range s.ByStatus {
		const statusColW = 16
		fmt.Fprintf(w, "%s %6d\n",
			padRight(styledValue(sc.Status, statusStyles), statusColW), sc.Count)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-16s %6s", "PRIORITY", "COUNT")))
	for _, pc := range s.ByPriority {
		const prioColW = 16
		fmt.Fprintf(w, "%s %6d\n",
			padRight(styledValue(pc.Priority, priorityStyles), prioColW), pc.Count)
	}

	if len(s.Triggers) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-16s %6s", "TRIGGERS", "COUNT")))
		for _, tc := range s.Triggers {
			const trigColW = 16
			fmt.Fprintf(w, "%s %6d\n",
				padRight(styledValue(tc.Status, triggerStyles), trigColW), tc.Count)
		}
	}
}

// GroupedTable renders a grouped view with per-group status breakdowns.
func GroupedTable(w io.Writer, gs query.GroupedSummary) {
	if len(gs.Groups) == 0 {
		fmt.Fprintln(os.Stderr, "No groups found.")
		return
	}

	for i, g := range gs.Groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := fmt.Sprintf("%s (%d tasks)", g.Key, g.Total)
		fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(title))

		for _, sc := range g.Statuses {
			if sc.Count == 0 {
				continue
			}
			const groupStatusW = 16
			fmt.Fprintf(w, "  %s %d\n",
				padRight(styledValue(sc.Status, statusStyles), groupStatusW), sc.Count)
		}
	}
}

// ProjectTable renders a list of projects with their task counts.
func ProjectTable(w io.Writer, projects []*task.Project, taskCounts map[int]int) {
	if len(projects) == 0 {
		fmt.Fprintln(os.Stderr, "No projects found.")
		return
	}

	const pad = 2
	idW, statusW, nameW := 4, 8, 6
	for _, p := range projects {
		idW = max(idW, len(strconv.Itoa(p.ID))+pad)
		statusW = max(statusW, len(p.Status)+pad)
		nameW = max(nameW, min(len(p.Name)+pad, 40)) //nolint:mnd // max name column width
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %5s", idW, "ID", statusW, "STATUS", nameW, "NAME", "TASKS")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, p := range projects {
		row := fmt.Sprintf("%-*d %-*s %-*s %5d",
			idW, p.ID, statusW, p.Status, nameW, truncate(p.Name, 38), taskCounts[p.ID]) //nolint:mnd // max name cell width
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// ProjectDetail renders a single project and its tasks.
func ProjectDetail(w io.Writer, p *task.Project, tasks []*task.Task) {
	titleLine := fmt.Sprintf("Project #%d: %s", p.ID, p.Name)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", len(titleLine)))

	printField(w, "Status", p.Status)
	printField(w, "Version", strconv.Itoa(p.Version))
	if p.RepositoryURL != "" {
		printField(w, "Repository", p.RepositoryURL)
	}
	printField(w, "Created", p.Created.Format("2006-01-02 15:04"))
	printField(w, "Updated", p.Updated.Format("2006-01-02 15:04"))

	if p.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, p.Description)
	}

	printRelation(w, "Tasks", tasks)
}

// EdgeTable renders dependency edges with endpoint titles.
func EdgeTable(w io.Writer, edges []graph.Edge, g *graph.Graph) {
	if len(edges) == 0 {
		fmt.Fprintln(os.Stderr, "No dependencies found.")
		return
	}

	const pad = 2
	fromW, typeW := 6, 6
	ends := make([][2]string, 0, len(edges))
	for _, e := range edges {
		from, to := endpoint(g, e.From), endpoint(g, e.To)
		ends = append(ends, [2]string{from, to})
		fromW = max(fromW, len(from)+pad)
		typeW = max(typeW, len(e.Type)+pad)
	}

	header := fmt.Sprintf("%-*s %-*s %s", fromW, "FROM", typeW, "TYPE", "TO")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for i, e := range edges {
		fmt.Fprintf(w, "%-*s %-*s %s\n", fromW, ends[i][0], typeW, e.Type, ends[i][1])
	}
}

func endpoint(g *graph.Graph, id int) string {
	if t := g.Task(id); t != nil {
		return fmt.Sprintf("#%d %s", id, truncate(t.Title, 28)) //nolint:mnd // endpoint title width
	}
	return "#" + strconv.Itoa(id)
}

// ParseResult renders a parser draft with its complexity analysis.
func ParseResult(w io.Writer, res parse.Result) {
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render("Draft: "+res.Draft.Title))

	printField(w, "Priority", styledValue(res.Draft.Priority, priorityStyles))
	if len(res.Draft.Tags) > 0 {
		printField(w, "Tags", tagStyle.Render(strings.Join(res.Draft.Tags, ", ")))
	}
	if res.Draft.EstimatedHours > 0 {
		printField(w, "Estimate", hoursOrDash(res.Draft.EstimatedHours))
	}
	if len(res.Draft.Requirements) > 0 {
		fmt.Fprintln(w, headerStyle.Render("  Requirements:"))
		for _, r := range res.Draft.Requirements {
			fmt.Fprintln(w, "    - "+r)
		}
	}

	c := res.Complexity
	fmt.Fprintf(w, "Complexity: %d/10 (%d words, %d requirements, %d tags)\n",
		c.Score, c.WordCount, c.Requirements, c.Tags)
	if res.LowConfidence {
		fmt.Fprintln(w, dimStyle.Render("warning: low confidence, input too short"))
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// FormatDuration renders a duration as human-readable "Xd Yh" or "Xh Ym".
func FormatDuration(d time.Duration) string {
	const hoursPerDay = 24
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if days > 0 {
		return strconv.Itoa(days) + "d " + strconv.Itoa(hours) + "h"
	}
	minutes := int(d.Minutes()) % 60 //nolint:mnd // 60 minutes per hour
	return strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func hoursOrDash(h float64) string {
	if h == 0 {
		return dimStyle.Render("--")
	}
	return strconv.FormatFloat(h, 'f', 1, 64) + "h"
}

// shortID returns the first uuid segment, enough to identify a
// trigger in listings.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}
