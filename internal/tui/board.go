// Package tui implements the interactive board for a gantry workspace.
package tui

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gantryworks/gantry/internal/graph"
	"github.com/gantryworks/gantry/internal/query"
	"github.com/gantryworks/gantry/internal/store"
	"github.com/gantryworks/gantry/internal/task"
)

// screen selects which surface the model is rendering.
type screen int

const (
	screenBoard screen = iota
	screenDetail
	screenConfirm
)

const (
	tickInterval      = 30 * time.Second // age labels refresh on this cadence
	doubleClickWindow = 500 * time.Millisecond
)

// keyMap declares every binding the board understands.
type keyMap struct {
	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	Detail key.Binding
	Delete key.Binding
	Reload key.Binding
	Quit   key.Binding
	Abort  key.Binding
	Yes    key.Binding
	No     key.Binding
}

var keys = keyMap{
	Left:   key.NewBinding(key.WithKeys("h", "left")),
	Right:  key.NewBinding(key.WithKeys("l", "right")),
	Up:     key.NewBinding(key.WithKeys("k", "up")),
	Down:   key.NewBinding(key.WithKeys("j", "down")),
	Detail: key.NewBinding(key.WithKeys("enter")),
	Delete: key.NewBinding(key.WithKeys("d", "D")),
	Reload: key.NewBinding(key.WithKeys("r")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc")),
	Abort:  key.NewBinding(key.WithKeys("ctrl+c")),
	Yes:    key.NewBinding(key.WithKeys("y", "Y")),
	No:     key.NewBinding(key.WithKeys("n", "N")),
}

// lane holds the cards of one status column.
type lane struct {
	status string
	cards  []*task.Task
	top    int // first card in view
}

// position addresses a card on the board.
type position struct {
	lane int
	row  int
}

// Board is the top-level bubbletea model. One lane per task status;
// cards carry readiness and critical-path markers derived from the
// dependency graph.
type Board struct {
	store *store.Store
	graph *graph.Graph

	lanes    []lane
	cur      position
	total    int
	ready    map[int]bool
	critical map[int]bool

	screen screen
	width  int
	height int
	err    error
	now    func() time.Time

	confirmID    int
	confirmTitle string
	detailID     int

	lastClick position
	clickedAt time.Time
}

// NewBoard builds the board model over an open store.
func NewBoard(st *store.Store) *Board {
	b := &Board{store: st, now: time.Now}
	b.reload()
	return b
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.MouseMsg:
		return b.handleMouse(msg)
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
	case ReloadMsg:
		b.reload()
	case TickMsg:
		return b, tick()
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}

	switch b.screen {
	case screenConfirm:
		return b.renderConfirm()
	case screenDetail:
		return b.renderDetail()
	default:
		return b.renderBoard()
	}
}

// --- Key handling ---

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Abort) {
		return b, tea.Quit
	}

	switch b.screen {
	case screenConfirm:
		return b.confirmKey(msg)
	case screenDetail:
		return b.detailKey(msg)
	default:
		return b.boardKey(msg)
	}
}

func (b *Board) boardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return b, tea.Quit
	case key.Matches(msg, keys.Left):
		b.moveLane(-1)
	case key.Matches(msg, keys.Right):
		b.moveLane(1)
	case key.Matches(msg, keys.Up):
		b.moveRow(-1)
	case key.Matches(msg, keys.Down):
		b.moveRow(1)
	case key.Matches(msg, keys.Reload):
		b.reload()
	case key.Matches(msg, keys.Delete):
		b.askDelete()
	case key.Matches(msg, keys.Detail):
		b.openDetail()
	}
	return b, nil
}

func (b *Board) detailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit), key.Matches(msg, keys.Detail):
		b.screen = screenBoard
	case key.Matches(msg, keys.Delete):
		if t := b.graph.Task(b.detailID); t != nil {
			b.confirmID, b.confirmTitle = t.ID, t.Title
			b.screen = screenConfirm
		}
	}
	return b, nil
}

func (b *Board) confirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Yes):
		if _, err := b.store.DeleteTask(b.confirmID); err != nil {
			b.err = fmt.Errorf("deleting task #%d: %w", b.confirmID, err)
		}
		b.screen = screenBoard
		b.reload()
	case key.Matches(msg, keys.No), key.Matches(msg, keys.Quit):
		b.screen = screenBoard
	}
	return b, nil
}

func (b *Board) askDelete() {
	if t := b.selected(); t != nil {
		b.confirmID, b.confirmTitle = t.ID, t.Title
		b.screen = screenConfirm
	}
}

func (b *Board) openDetail() {
	if t := b.selected(); t != nil {
		b.detailID = t.ID
		b.screen = screenDetail
	}
}

// --- Mouse handling ---

func (b *Board) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if b.screen != screenBoard ||
		msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return b, nil
	}

	laneIdx := msg.X / b.laneWidth()
	if laneIdx >= len(b.lanes) {
		return b, nil
	}
	b.cur.lane = laneIdx

	row, ok := b.rowAt(&b.lanes[laneIdx], msg.Y)
	if !ok {
		b.clampCursor()
		return b, nil
	}
	b.cur.row = row
	b.scrollToCursor()

	// Two clicks on one card inside the window open the detail view.
	click := position{lane: laneIdx, row: row}
	if click == b.lastClick && b.now().Sub(b.clickedAt) < doubleClickWindow {
		b.openDetail()
	}
	b.lastClick = click
	b.clickedAt = b.now()
	return b, nil
}

// rowAt maps a terminal Y coordinate to a card row by walking the
// heights of the cards visible in the lane.
func (b *Board) rowAt(ln *lane, y int) (int, bool) {
	w := b.laneWidth()
	start, end := b.window(ln, w)

	y-- // lane header
	if start > 0 {
		y-- // scroll indicator above the cards
	}
	if y < 0 {
		return 0, false
	}

	line := 0
	for i := start; i < end; i++ {
		line += b.cardHeight(ln.cards[i], w)
		if y < line {
			return i, true
		}
	}
	return 0, false
}

// --- Board state ---

// reload takes a fresh store snapshot and rebuilds the lanes,
// recomputing readiness and the critical path.
func (b *Board) reload() {
	g, _, err := b.store.Snapshot()
	if err != nil {
		b.err = err
		return
	}
	b.err = nil
	b.graph = g

	tasks := g.Tasks()
	query.Sort(tasks, "priority", true)
	b.total = len(tasks)

	b.ready = make(map[int]bool, len(tasks))
	for _, t := range g.ReadyTasks() {
		b.ready[t.ID] = true
	}

	b.critical = make(map[int]bool)
	if rep, err := g.Analyze(); err == nil {
		for id, s := range rep.Schedules {
			if s.Critical {
				b.critical[id] = true
			}
		}
	} else {
		// A hand-edited cycle: the board still renders, without markers.
		b.err = err
	}

	byStatus := make(map[string][]*task.Task, len(task.Statuses))
	for _, t := range tasks {
		byStatus[t.Status] = append(byStatus[t.Status], t)
	}
	lanes := make([]lane, len(task.Statuses))
	for i, status := range task.Statuses {
		lanes[i] = lane{status: status, cards: byStatus[status]}
	}
	b.lanes = lanes
	b.clampCursor()
}

func (b *Board) activeLane() *lane {
	if b.cur.lane < 0 || b.cur.lane >= len(b.lanes) {
		return nil
	}
	return &b.lanes[b.cur.lane]
}

func (b *Board) selected() *task.Task {
	ln := b.activeLane()
	if ln == nil || b.cur.row < 0 || b.cur.row >= len(ln.cards) {
		return nil
	}
	return ln.cards[b.cur.row]
}

func (b *Board) moveLane(delta int) {
	next := b.cur.lane + delta
	if next < 0 || next >= len(b.lanes) {
		return
	}
	b.cur.lane = next
	b.clampCursor()
}

func (b *Board) moveRow(delta int) {
	ln := b.activeLane()
	if ln == nil {
		return
	}
	next := b.cur.row + delta
	if next < 0 || next >= len(ln.cards) {
		return
	}
	b.cur.row = next
	b.scrollToCursor()
}

func (b *Board) clampCursor() {
	ln := b.activeLane()
	if ln == nil || len(ln.cards) == 0 {
		b.cur.row = 0
		return
	}
	if b.cur.row >= len(ln.cards) {
		b.cur.row = len(ln.cards) - 1
	}
	b.scrollToCursor()
}

// scrollToCursor moves the active lane's top until the selected card is
// inside the window. Window size depends on top (scroll indicators take
// lines), so step and re-measure.
func (b *Board) scrollToCursor() {
	ln := b.activeLane()
	if ln == nil {
		return
	}
	w := b.laneWidth()
	for range len(ln.cards) + 1 {
		start, end := b.window(ln, w)
		switch {
		case b.cur.row < start:
			ln.top = b.cur.row
		case b.cur.row >= end:
			ln.top += b.cur.row - end + 1
		default:
			return
		}
	}
}

// window computes the half-open card range visible in a lane. Scroll
// indicators consume card lines, so a clipped lane fits fewer cards.
func (b *Board) window(ln *lane, width int) (int, int) {
	budget := b.height - b.chrome() - 1 // lane header
	if budget < 1 {
		budget = 1
	}
	if ln.top > 0 {
		budget-- // indicator above
	}

	n := b.fill(ln, budget, width)
	if ln.top+n < len(ln.cards) {
		// The indicator below needs a line of its own.
		n = b.fill(ln, budget-1, width)
	}

	end := ln.top + n
	if end > len(ln.cards) {
		end = len(ln.cards)
	}
	return ln.top, end
}

// fill counts how many cards from ln.top stack into avail lines. At
// least one card is always admitted so tiny terminals stay usable.
func (b *Board) fill(ln *lane, avail, width int) int {
	if len(ln.cards) == 0 || avail < 1 {
		return 1
	}

	used, n := 0, 0
	for i := ln.top; i < len(ln.cards); i++ {
		h := b.cardHeight(ln.cards[i], width)
		if n > 0 && used+h > avail {
			break
		}
		n++
		used += h
		if used >= avail {
			break
		}
	}
	if n < 1 {
		n = 1
	}
	return n
}

// chrome is the line count below the lane area: a blank spacer plus the
// status bar, plus the error line when one is showing.
func (b *Board) chrome() int {
	if b.err != nil {
		return 3
	}
	return 2
}

func (b *Board) laneWidth() int {
	if b.width == 0 || len(b.lanes) == 0 {
		return 30 //nolint:mnd // default lane width
	}
	w := b.width / len(b.lanes)
	if w > 60 { //nolint:mnd // cap so five lanes stay readable on wide terminals
		w = 60
	}
	return w
}

// WatchPaths returns the paths to watch for file changes. The workspace
// root covers the edge file; edges change readiness and the critical
// path without touching any task file.
func (b *Board) WatchPaths() []string {
	cfg := b.store.Config()
	paths := []string{cfg.TasksPath()}
	if cfg.Dir() != cfg.TasksPath() {
		paths = append(paths, cfg.Dir())
	}
	return paths
}

// --- Messages ---

// ReloadMsg asks the board to re-read the workspace. The file watcher
// sends it on changes.
type ReloadMsg struct{}

// TickMsg refreshes the age labels.
type TickMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}

// --- Styles ---

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	headerActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	faintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	titleStyle = lipgloss.NewStyle().Bold(true)
	readyMark  = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	starMark   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)

	// Urgent priorities tint the card border; medium and low stay
	// neutral so urgent work stands out.
	priorityBorder = map[string]lipgloss.Color{
		task.PriorityCritical: "196",
		task.PriorityHigh:     "208",
	}

	// Tag colors come from hashing the tag name, so a tag keeps its
	// color across runs.
	tagPalette = []lipgloss.Color{"33", "36", "35", "32", "91", "34", "93", "96"}
)

func tagStyle(tag string) lipgloss.Style {
	h := fnv.New32a()
	_, _ = h.Write([]byte(tag))
	return lipgloss.NewStyle().Foreground(tagPalette[h.Sum32()%uint32(len(tagPalette))])
}

// --- Rendering ---

func (b *Board) renderBoard() string {
	if len(b.lanes) == 0 {
		return "No tasks loaded."
	}

	w := b.laneWidth()
	cols := make([]string, len(b.lanes))
	for i := range b.lanes {
		cols[i] = b.renderLane(i, w)
	}
	grid := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	// Fit the lane area to the height budget: clip overflow from the
	// bottom so headers stay put, pad short renders so the bar does too.
	if target := b.height - b.chrome(); target > 0 {
		grid = fitHeight(grid, target)
	}

	return lipgloss.JoinVertical(lipgloss.Left, grid, "", b.statusBar())
}

func fitHeight(s string, target int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > target {
		return strings.Join(lines[:target], "\n")
	}
	return s + strings.Repeat("\n", target-len(lines))
}

func (b *Board) renderLane(idx, width int) string {
	ln := &b.lanes[idx]

	const headerPad = 2
	label := truncToWidth(fmt.Sprintf("%s (%d)", ln.status, len(ln.cards)), width-headerPad)
	style := headerStyle
	if idx == b.cur.lane {
		style = headerActiveStyle
	}
	parts := []string{style.Width(width).Render(label)}

	start, end := b.window(ln, width)
	if start > 0 {
		parts = append(parts, faintStyle.Width(width).Render(
			truncToWidth(fmt.Sprintf("  ↑ %d", start), width)))
	}

	if len(ln.cards) == 0 {
		parts = append(parts, faintStyle.Width(width).Render("  (empty)"))
	} else {
		for row := start; row < end; row++ {
			sel := idx == b.cur.lane && row == b.cur.row
			parts = append(parts, b.renderCard(ln.cards[row], sel, width))
		}
	}

	if left := len(ln.cards) - end; left > 0 {
		parts = append(parts, faintStyle.Width(width).Render(
			truncToWidth(fmt.Sprintf("  ↓ %d", left), width)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (b *Board) renderCard(t *task.Task, selected bool, width int) string {
	body := strings.Join(b.cardLines(t, width), "\n")
	return b.cardStyle(t, selected).Width(width - 2).Render(body) //nolint:mnd // border width
}

func (b *Board) cardStyle(t *task.Task, selected bool) lipgloss.Style {
	color := lipgloss.Color("240")
	if selected {
		color = "226"
	} else if c, ok := priorityBorder[t.Priority]; ok {
		color = c
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)
}

// cardHeight is the rendered height of a card: body lines plus the
// border rows.
func (b *Board) cardHeight(t *task.Task, width int) int {
	return len(b.cardLines(t, width)) + 2 //nolint:mnd // top and bottom borders
}

func (b *Board) cardLines(t *task.Task, width int) []string {
	const chrome = 4 // border + padding on both sides
	inner := width - chrome
	if inner < 1 {
		inner = 1
	}

	// Title, prefixed with the id and the readiness marker.
	head := "#" + strconv.Itoa(t.ID) + " "
	if b.ready[t.ID] {
		head = readyMark.Render("▶ ") + head
	}
	headRoom := inner - lipgloss.Width(head)
	if headRoom < 1 {
		headRoom = 1
	}

	const titleLines = 2
	lines := make([]string, 0, titleLines+2)
	for i, ln := range wrapWords(t.Title, headRoom, inner, titleLines) {
		if i == 0 {
			ln = head + titleStyle.Render(ln)
		} else {
			ln = titleStyle.Render(ln)
		}
		lines = append(lines, ln)
	}

	if tags := b.renderTags(t.Tags, inner); tags != "" {
		lines = append(lines, tags)
	}

	// Meta line: critical marker, estimate, age.
	meta := make([]string, 0, 3)
	if b.critical[t.ID] {
		meta = append(meta, starMark.Render("★"))
	}
	if t.EstimatedHours > 0 {
		meta = append(meta, fmt.Sprintf("%.1fh", t.EstimatedHours))
	}
	meta = append(meta, age(b.now().Sub(t.Created)))
	lines = append(lines, faintStyle.Render(strings.Join(meta, " ")))

	return lines
}

// renderTags colors each tag and drops the ones that no longer fit.
func (b *Board) renderTags(tags []string, width int) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, 0, len(tags))
	used := 0
	for _, tag := range tags {
		if used+len(tag)+1 > width {
			break
		}
		parts = append(parts, tagStyle(tag).Render(tag))
		used += len(tag) + 1
	}
	return strings.Join(parts, " ")
}

func (b *Board) statusBar() string {
	bar := fmt.Sprintf(" %s | %d tasks | %d ready | enter:detail d:del r:reload q:quit",
		b.store.Config().Workspace.Name, b.total, len(b.ready))
	bar = truncToWidth(bar, b.width)

	if b.err != nil {
		top := errStyle.Render(truncToWidth("Error: "+b.err.Error(), b.width))
		return top + "\n" + barStyle.Render(bar)
	}
	return barStyle.Render(bar)
}

func (b *Board) renderConfirm() string {
	body := errStyle.Render("Delete task?") + "\n\n" +
		fmt.Sprintf("  #%d: %s", b.confirmID, b.confirmTitle) + "\n\n" +
		faintStyle.Render("y:yes  n:no")
	return dialogStyle.Render(body)
}

func (b *Board) renderDetail() string {
	t := b.graph.Task(b.detailID)
	if t == nil {
		return dialogStyle.Render("Task not found.")
	}

	const wide = 56
	rows := []string{
		titleStyle.Render(truncToWidth(fmt.Sprintf("#%d %s", t.ID, t.Title), wide)),
		"",
		"Status:    " + t.Status,
		"Priority:  " + t.Priority,
		"Version:   " + strconv.Itoa(t.Version),
	}
	rows = append(rows, b.detailFacts(t, wide)...)
	rows = append(rows, b.detailBody(t, wide)...)
	rows = append(rows, "", faintStyle.Render("esc:back  d:delete"))

	return dialogStyle.Render(strings.Join(rows, "\n"))
}

func (b *Board) detailFacts(t *task.Task, wide int) []string {
	var rows []string
	if t.EstimatedHours > 0 {
		rows = append(rows, fmt.Sprintf("Estimate:  %.1fh", t.EstimatedHours))
	}
	if len(t.Tags) > 0 {
		rows = append(rows, "Tags:      "+truncToWidth(strings.Join(t.Tags, ", "), wide))
	}
	if t.Status == task.StatusPending {
		state := "no"
		if b.ready[t.ID] {
			state = readyMark.Render("yes")
		}
		rows = append(rows, "Ready:     "+state)
	}
	if ids := b.graph.Prerequisites(t.ID); len(ids) > 0 {
		rows = append(rows, "After:     "+refList(ids))
	}
	if ids := b.graph.Dependents(t.ID); len(ids) > 0 {
		rows = append(rows, "Blocks:    "+refList(ids))
	}
	if n := len(t.Requirements); n > 0 {
		rows = append(rows, "Reqs:      "+strconv.Itoa(n))
	}
	return rows
}

func (b *Board) detailBody(t *task.Task, wide int) []string {
	if t.Description == "" {
		return nil
	}

	const maxRows = 8
	rows := []string{""}
	for _, para := range strings.Split(strings.TrimSpace(t.Description), "\n") {
		for _, ln := range wrapWords(para, wide, wide, maxRows) {
			rows = append(rows, faintStyle.Render(ln))
		}
		if len(rows) > maxRows {
			break
		}
	}
	if len(rows) > maxRows+1 {
		rows = rows[:maxRows+1]
	}
	return rows
}

// --- Text helpers ---

func refList(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "#" + strconv.Itoa(id)
	}
	return strings.Join(parts, " ")
}

// wrapWords greedily wraps text into at most maxLines lines. The first
// line is firstWidth wide (it shares space with the id prefix), the
// rest restWidth. Words past the last line pack into it and get
// clipped.
func wrapWords(text string, firstWidth, restWidth, maxLines int) []string {
	if maxLines < 1 {
		maxLines = 1
	}
	if maxLines == 1 || lipgloss.Width(text) <= firstWidth {
		return []string{truncToWidth(text, firstWidth)}
	}

	widthFor := func(line int) int {
		if line == 0 {
			return firstWidth
		}
		return restWidth
	}

	var lines []string
	cur := make([]string, 0, 8)
	curW := 0
	emit := func() {
		lines = append(lines, truncToWidth(strings.Join(cur, " "), widthFor(len(lines))))
		cur = cur[:0]
		curW = 0
	}

	for _, word := range strings.Fields(text) {
		w := lipgloss.Width(word)
		switch {
		case len(cur) == 0:
			cur = append(cur, word)
			curW = w
		case curW+1+w <= widthFor(len(lines)) || len(lines) == maxLines-1:
			cur = append(cur, word)
			curW += 1 + w
		default:
			emit()
			cur = append(cur, word)
			curW = w
		}
	}
	if len(cur) > 0 {
		emit()
	}
	return lines
}

// truncToWidth clips s to max display cells, rune-safe, with a "..."
// tail when anything was cut.
func truncToWidth(s string, max int) string {
	if max < 4 { //nolint:mnd // room for one rune plus the tail
		max = 4
	}
	if lipgloss.Width(s) <= max {
		return s
	}

	runes := []rune(s)
	keep := len(runes)
	for keep > 0 && lipgloss.Width(string(runes[:keep])) > max-3 {
		keep--
	}
	return string(runes[:keep]) + "..."
}

// age renders a duration as its largest whole unit: "<1m", "45m",
// "3h", "6d", "2w", "4mo", "1y".
func age(d time.Duration) string {
	const day = 24 * time.Hour
	if d < time.Minute {
		return "<1m"
	}

	steps := []struct {
		limit time.Duration
		unit  time.Duration
		tag   string
	}{
		{time.Hour, time.Minute, "m"},
		{day, time.Hour, "h"},
		{7 * day, day, "d"},
		{30 * day, 7 * day, "w"},
		{365 * day, 30 * day, "mo"},
	}
	for _, s := range steps {
		if d < s.limit {
			return strconv.Itoa(int(d/s.unit)) + s.tag
		}
	}
	return strconv.Itoa(int(d/(365*day))) + "y"
}
