package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/shlex"
	"github.com/mattn/go-runewidth"

	"github.com/prabalesh/procdeck/internal/board"
	"github.com/prabalesh/procdeck/internal/collector"
	"github.com/prabalesh/procdeck/internal/config"
	"github.com/prabalesh/procdeck/internal/models"
	"github.com/prabalesh/procdeck/internal/process"
	"github.com/prabalesh/procdeck/internal/profile"
)

const (
	refreshInterval = time.Second
	messageTTL      = 5 * time.Second
	noProfile       = "No file selected"
)

type tickMsg time.Time

type statsMsg map[int]models.ProcessStats

type Options struct {
	Board       *board.Board
	Config      *config.Store
	Collector   *collector.StatsCollector
	Logger      *slog.Logger
	ProfilePath string
}

type App struct {
	board     *board.Board
	conf      *config.Store
	collector *collector.StatsCollector
	log       *slog.Logger

	profilePath string
	theme       string

	width  int
	height int

	activeTab       int
	tabScrollOffset int
	selectedRow     int
	argCursor       int

	stats       map[int]models.ProcessStats
	memProgress progress.Model

	keys KeyMap
	help help.Model

	prompt         textinput.Model
	promptKind     promptKind
	confirmingQuit bool

	message     string
	messageErr  bool
	messageTime time.Time
}

func NewApp(opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Collector == nil {
		opts.Collector = collector.NewStatsCollector()
	}
	if opts.Board == nil {
		opts.Board = board.New(board.Options{Logger: opts.Logger})
	}

	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 60

	a := &App{
		board:       opts.Board,
		conf:        opts.Config,
		collector:   opts.Collector,
		log:         opts.Logger,
		profilePath: opts.ProfilePath,
		stats:       make(map[int]models.ProcessStats),
		memProgress: progress.New(progress.WithDefaultGradient()),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		prompt:      ti,
	}
	a.theme = ThemeDefault
	if a.conf != nil {
		a.theme = ApplyTheme(a.conf.Get().Theme)
	}
	a.keys.SetMode(a.board.Mode())
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.updateStats(),
		a.tick(),
	)
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// updateStats samples every running process off the UI goroutine.
func (a *App) updateStats() tea.Cmd {
	var pids []int
	for _, g := range a.board.Groups() {
		for _, e := range g.Entries() {
			if pid := e.Process().PID(); pid > 0 {
				pids = append(pids, pid)
			}
		}
	}
	c := a.collector
	return func() tea.Msg {
		out := make(statsMsg, len(pids))
		for _, pid := range pids {
			if s, err := c.Sample(pid); err == nil {
				out[pid] = s
			}
		}
		return out
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.memProgress.Width = max(10, min(40, a.width-30))
		a.help.Width = a.width
		a.prompt.Width = max(20, a.width-20)
		return a, nil

	case tea.KeyMsg:
		if a.promptKind != promptNone {
			return a, a.updatePrompt(msg)
		}
		if a.confirmingQuit {
			return a, a.updateQuitDialog(msg)
		}
		return a, a.handleKey(msg)

	case tickMsg:
		return a, tea.Batch(a.updateStats(), a.tick())

	case statsMsg:
		for pid := range a.stats {
			if _, ok := msg[pid]; !ok {
				a.collector.Forget(pid)
			}
		}
		a.stats = msg
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := a.keys
	switch {
	case key.Matches(msg, k.Quit):
		return a.requestQuit()
	case key.Matches(msg, k.Help):
		a.help.ShowAll = !a.help.ShowAll
	case key.Matches(msg, k.Left):
		if a.activeTab > 0 {
			a.selectTab(a.activeTab - 1)
		}
	case key.Matches(msg, k.Right):
		if a.activeTab < a.board.Len()-1 {
			a.selectTab(a.activeTab + 1)
		}
	case key.Matches(msg, k.Up):
		if a.selectedRow > 0 {
			a.selectedRow--
			a.argCursor = 0
		}
	case key.Matches(msg, k.Down):
		if g := a.currentGroup(); g != nil && a.selectedRow < g.Len()-1 {
			a.selectedRow++
			a.argCursor = 0
		}
	case key.Matches(msg, k.Jump):
		n := int(msg.String()[0] - '1')
		if n < a.board.Len() {
			a.selectTab(n)
		}
	case key.Matches(msg, k.Toggle):
		mode := a.board.ToggleMode()
		a.keys.SetMode(mode)
		a.setMessage("%s mode", mode)
	case key.Matches(msg, k.Theme):
		a.cycleTheme()
	case key.Matches(msg, k.Open):
		return a.openPrompt(promptOpen, a.profilePath)
	case key.Matches(msg, k.SaveAs):
		return a.openPrompt(promptSaveAs, a.profilePath)
	case key.Matches(msg, k.EndAll):
		a.board.EndAll()
		a.resetStats()
		a.selectTab(0)
		a.setMessage("ended every process")

	case key.Matches(msg, k.Restart):
		if e := a.currentEntry(); e != nil {
			a.report(e.Process().Restart(), "restarted %s", e.Label())
		}
	case key.Matches(msg, k.Kill):
		if e := a.currentEntry(); e != nil {
			a.report(e.Process().Kill(), "killed %s", e.Label())
		}
	case key.Matches(msg, k.Terminate):
		if e := a.currentEntry(); e != nil {
			a.report(e.Process().Terminate(), "terminating %s", e.Label())
		}
	case key.Matches(msg, k.LaunchGroup):
		if g := a.currentGroup(); g != nil {
			g.RunAll()
			a.reportGroup(g)
		}
	case key.Matches(msg, k.StopGroup):
		if g := a.currentGroup(); g != nil {
			g.KillAll()
			a.setMessage("stopped %s", g.Title())
		}

	case key.Matches(msg, k.NewGroup):
		g, err := a.board.AddEmptyGroup()
		if a.report(err, "added group %d", a.board.Len()) {
			a.selectTab(g.Index)
		}
	case key.Matches(msg, k.DeleteGroup):
		if g := a.currentGroup(); g != nil {
			a.report(a.board.DeleteGroup(a.activeTab), "deleted %s", g.Title())
			a.selectTab(min(a.activeTab, a.board.Len()-1))
		}
	case key.Matches(msg, k.RenameGroup):
		if g := a.currentGroup(); g != nil {
			return a.openPrompt(promptRename, g.Name())
		}
	case key.Matches(msg, k.ClearGroups):
		a.report(a.board.ClearGroups(), "cleared all groups")
		a.selectTab(0)
	case key.Matches(msg, k.AddProcess):
		if a.currentGroup() != nil {
			return a.openPrompt(promptAddProcess, "")
		}
	case key.Matches(msg, k.RemoveProcess):
		if e := a.currentEntry(); e != nil {
			a.report(a.currentGroup().RemoveEntry(e.ID), "removed %s", e.Label())
			a.selectedRow = max(0, min(a.selectedRow, a.currentGroup().Len()-1))
		}
	case key.Matches(msg, k.ChangeDir):
		if e := a.currentEntry(); e != nil {
			return a.openPrompt(promptDir, e.Spec().Dir)
		}
	case key.Matches(msg, k.ArgLeft):
		if a.argCursor > 0 {
			a.argCursor--
		}
	case key.Matches(msg, k.ArgRight):
		if e := a.currentEntry(); e != nil && a.argCursor < len(e.Spec().Args)-1 {
			a.argCursor++
		}
	case key.Matches(msg, k.InsertBefore):
		if a.currentEntry() != nil {
			return a.openPrompt(promptInsertBefore, "")
		}
	case key.Matches(msg, k.InsertAfter):
		if a.currentEntry() != nil {
			return a.openPrompt(promptInsertAfter, "")
		}
	case key.Matches(msg, k.EditArg):
		if e := a.currentEntry(); e != nil {
			args := e.Spec().Args
			if len(args) == 0 {
				return a.openPrompt(promptInsertBefore, "")
			}
			return a.openPrompt(promptEditArg, args[a.clampArgCursor(e)])
		}
	case key.Matches(msg, k.DeleteArg):
		if e := a.currentEntry(); e != nil && len(e.Spec().Args) > 0 {
			a.report(e.DeleteArg(a.clampArgCursor(e)), "deleted argument")
			a.clampArgCursor(e)
		}
	}
	return nil
}

func (a *App) requestQuit() tea.Cmd {
	if a.board.Running() == 0 {
		return tea.Quit
	}
	a.confirmingQuit = true
	return nil
}

// updateQuitDialog answers "close running processes?": yes ends them, no
// leaves them running, anything else cancels.
func (a *App) updateQuitDialog(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		a.board.EndAll()
		return tea.Quit
	case "n", "N":
		a.log.Info("quitting with processes left running", "running", a.board.Running())
		return tea.Quit
	case "esc", "c", "ctrl+c":
		a.confirmingQuit = false
	}
	return nil
}

func (a *App) selectTab(i int) {
	a.activeTab = max(0, i)
	a.selectedRow = 0
	a.argCursor = 0
}

func (a *App) currentGroup() *board.Group {
	g, err := a.board.Group(a.activeTab)
	if err != nil {
		return nil
	}
	return g
}

func (a *App) currentEntry() *board.Entry {
	g := a.currentGroup()
	if g == nil {
		return nil
	}
	entries := g.Entries()
	if a.selectedRow < 0 || a.selectedRow >= len(entries) {
		return nil
	}
	return entries[a.selectedRow]
}

func (a *App) clampArgCursor(e *board.Entry) int {
	n := len(e.Spec().Args)
	a.argCursor = max(0, min(a.argCursor, n-1))
	return a.argCursor
}

func (a *App) cycleTheme() {
	a.theme = ApplyTheme(NextTheme(a.theme).Name)
	a.setMessage("theme: %s", a.theme)
	a.storeConfig(func(c *config.Config) { c.Theme = a.theme })
}

// selectProfile makes path the current profile and remembers it.
func (a *App) selectProfile(path string) {
	a.profilePath = path
	a.storeConfig(func(c *config.Config) { c.LastProfile = path })
}

func (a *App) storeConfig(fn func(*config.Config)) {
	if a.conf == nil {
		return
	}
	if err := a.conf.Store(fn); err != nil {
		a.log.Error("saving config", "err", err)
		a.setError(err)
	}
}

// LoadProfile imports the profile at path into the board.
func (a *App) LoadProfile(path string) error {
	a.log.Info("loading profile", "path", path)
	p, err := profile.Load(path)
	if err != nil {
		return err
	}
	a.board.Load(p)
	a.selectTab(0)
	a.resetStats()
	a.selectProfile(path)
	return nil
}

// resetStats drops samples of processes that no longer belong to the board.
func (a *App) resetStats() {
	a.stats = make(map[int]models.ProcessStats)
	a.collector.Reset()
}

// SaveProfile writes the board to path.
func (a *App) SaveProfile(path string) error {
	if err := profile.Save(path, a.board.Profile()); err != nil {
		return err
	}
	a.log.Info("profile saved", "path", path)
	a.selectProfile(path)
	return nil
}

func (a *App) reportGroup(g *board.Group) {
	var failed []string
	for _, e := range g.Entries() {
		if err := e.Process().LastError(); err != nil {
			failed = append(failed, e.Label())
		}
	}
	if len(failed) > 0 {
		a.setError(fmt.Errorf("%s: failed to launch %s", g.Title(), strings.Join(failed, ", ")))
		return
	}
	a.setMessage("launched %s", g.Title())
}

// report shows err, or the formatted success message when err is nil. It
// returns whether err was nil.
func (a *App) report(err error, format string, args ...any) bool {
	if err != nil {
		if !errors.Is(err, board.ErrReadOnly) {
			a.log.Warn("action failed", "err", err)
		}
		a.setError(err)
		return false
	}
	a.setMessage(format, args...)
	return true
}

func (a *App) setMessage(format string, args ...any) {
	a.message = fmt.Sprintf(format, args...)
	a.messageErr = false
	a.messageTime = time.Now()
}

func (a *App) setError(err error) {
	a.message = err.Error()
	a.messageErr = true
	a.messageTime = time.Now()
}

func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	title := TitleStyle.Width(a.width).Render("procdeck · " + a.profileTitle())

	var content string
	if a.board.Len() == 0 {
		content = BaseStyle.Width(a.width - 4).Render(MutedStyle.Render(a.emptyHint()))
	} else {
		content = a.renderGroup()
	}

	parts := []string{title, "", a.renderModeLine(), a.renderTabs(), "", content}
	if d := a.renderDetails(); d != "" {
		parts = append(parts, d)
	}
	switch {
	case a.promptKind != promptNone:
		parts = append(parts, "", a.prompt.View())
	case a.confirmingQuit:
		parts = append(parts, "", DialogStyle.Render(fmt.Sprintf(
			"Do you want to close %d running processes?  [y] yes  [n] no  [esc] cancel", a.board.Running())))
	}
	if a.message != "" && time.Since(a.messageTime) < messageTTL {
		style := SuccessStyle
		if a.messageErr {
			style = ErrorStyle
		}
		parts = append(parts, "", style.Render(a.message))
	}
	parts = append(parts, "", a.help.View(a.keys))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) profileTitle() string {
	if a.profilePath == "" {
		return noProfile
	}
	return a.profilePath
}

func (a *App) emptyHint() string {
	if a.board.Mode() == board.ModeEdit {
		return "No groups. Press n to add one or o to import a profile."
	}
	return "No groups. Press o to import a profile or e to start editing."
}

func (a *App) renderModeLine() string {
	mode := a.board.Mode()
	badge := ModeLaunchStyle.Render(mode.String())
	if mode == board.ModeEdit {
		badge = ModeEditStyle.Render(mode.String())
	}
	running := fmt.Sprintf("%d running", a.board.Running())
	return lipgloss.JoinHorizontal(lipgloss.Left, badge, " ", MutedStyle.Render(running))
}

func (a *App) tabTitles() []string {
	groups := a.board.Groups()
	titles := make([]string, len(groups))
	for i, g := range groups {
		titles[i] = fmt.Sprintf("%d:%s", g.Index+1, g.Title())
	}
	return titles
}

// getVisibleTabs returns the tabs that fit the width starting at the scroll
// offset, after scrolling the active tab into view.
func (a *App) getVisibleTabs() ([]string, []int, bool, bool) {
	tabs := a.tabTitles()
	if a.width <= 0 {
		return tabs, []int{}, false, false
	}

	if a.activeTab < a.tabScrollOffset {
		a.tabScrollOffset = a.activeTab
	}
	for {
		visible, indices, left, right := a.getVisibleTabsRaw(tabs)
		if len(indices) == 0 || a.activeTab <= indices[len(indices)-1] || a.activeTab >= len(tabs) {
			return visible, indices, left, right
		}
		a.tabScrollOffset++
	}
}

func (a *App) getVisibleTabsRaw(tabs []string) ([]string, []int, bool, bool) {
	estimatedTabWidth := func(tabName string) int {
		return runewidth.StringWidth(tabName) + 4 // padding and margin
	}

	a.tabScrollOffset = max(0, min(a.tabScrollOffset, len(tabs)-1))

	visibleTabs := []string{}
	visibleIndices := []int{}
	currentWidth := 0
	availableWidth := a.width - 6

	for i := a.tabScrollOffset; i < len(tabs); i++ {
		tabWidth := estimatedTabWidth(tabs[i])
		if currentWidth+tabWidth > availableWidth && len(visibleTabs) > 0 {
			break
		}
		visibleTabs = append(visibleTabs, tabs[i])
		visibleIndices = append(visibleIndices, i)
		currentWidth += tabWidth
	}

	canScrollLeft := a.tabScrollOffset > 0
	canScrollRight := a.tabScrollOffset+len(visibleTabs) < len(tabs)

	return visibleTabs, visibleIndices, canScrollLeft, canScrollRight
}

func (a *App) renderTabs() string {
	visibleTabs, visibleIndices, canScrollLeft, canScrollRight := a.getVisibleTabs()

	var tabElements []string
	if canScrollLeft {
		tabElements = append(tabElements, IndicatorStyle.Render("‹"))
	}
	for i, tab := range visibleTabs {
		if visibleIndices[i] == a.activeTab {
			tabElements = append(tabElements, ActiveTabStyle.Render(tab))
		} else {
			tabElements = append(tabElements, InactiveTabStyle.Render(tab))
		}
	}
	if canScrollRight {
		tabElements = append(tabElements, IndicatorStyle.Render("›"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Left, tabElements...)
}

const (
	colStatus  = 3
	colPID     = 8
	colCPU     = 7
	colMem     = 7
	colRuntime = 9
	colDir     = 20
)

func (a *App) renderGroup() string {
	g := a.currentGroup()
	if g == nil {
		return ""
	}
	entries := g.Entries()
	row, col := a.board.Position(g.Index)

	var content strings.Builder
	content.WriteString(HeaderStyle.Render(g.Title()))
	content.WriteString("\n")
	content.WriteString(MutedStyle.Render(fmt.Sprintf("group %d · grid row %d col %d · %d/%d running",
		g.Index+1, row+1, col+1, g.Running(), len(entries))))
	content.WriteString("\n\n")

	header := fmt.Sprintf("%-*s %-*s %*s %*s %-*s %-*s %s",
		colStatus, "", colPID, "PID", colCPU, "CPU%", colMem, "MEM%", colRuntime, "UPTIME", colDir, "DIR", "COMMAND")
	content.WriteString(TableHeaderStyle.Render(header))
	content.WriteString("\n")

	if len(entries) == 0 {
		content.WriteString(MutedStyle.Render("  no processes"))
		return BaseStyle.Width(a.width - 4).Render(content.String())
	}

	// visible rows, leaving room for title, tabs, details and help
	visibleRows := max(1, a.height-20)
	startIdx := 0
	if a.selectedRow >= visibleRows {
		startIdx = a.selectedRow - visibleRows + 1
	}
	endIdx := min(startIdx+visibleRows, len(entries))

	usedWidth := colStatus + colPID + colCPU + colMem + colRuntime + colDir + 6
	commandWidth := max(10, a.width-usedWidth-8)

	for i := startIdx; i < endIdx; i++ {
		e := entries[i]
		selected := i == a.selectedRow
		content.WriteString(a.renderEntry(e, selected, commandWidth))
		content.WriteString("\n")
	}

	if len(entries) > visibleRows {
		content.WriteString(MutedStyle.Render(fmt.Sprintf("Showing %d-%d of %d processes", startIdx+1, endIdx, len(entries))))
	}

	return BaseStyle.Width(a.width - 4).Render(content.String())
}

func (a *App) renderEntry(e *board.Entry, selected bool, commandWidth int) string {
	p := e.Process()
	spec := e.Spec()

	status := MutedStyle.Render(padRight("○", colStatus))
	pid, cpu, mem, uptime := "stopped", "-", "-", "-"
	if p.Status() == process.StatusRunning {
		status = SuccessStyle.Render(padRight("●", colStatus))
		pid = fmt.Sprintf("%d", p.PID())
		uptime = collector.FormatRuntime(time.Since(p.StartedAt()))
		if s, ok := a.stats[p.PID()]; ok {
			cpu = fmt.Sprintf("%.1f", s.CPUPercent)
			mem = fmt.Sprintf("%.1f", s.MemPercent)
		}
	} else if p.LastError() != nil {
		status = ErrorStyle.Render(padRight("✗", colStatus))
	}

	cells := fmt.Sprintf("%-*s %*s %*s %-*s %-*s ",
		colPID, pid, colCPU, cpu, colMem, mem, colRuntime, uptime, colDir, truncateString(spec.Dir, colDir))

	command := truncateString(e.Label(), commandWidth)
	if selected && a.board.Mode() == board.ModeEdit {
		command = a.renderArgs(spec.Args, commandWidth)
	}

	if selected {
		return status + SelectedRowStyle.Render(cells+command)
	}
	return status + lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1).Render(cells+command)
}

// renderArgs shows each argument bracketed with the cursor one highlighted.
func (a *App) renderArgs(args []string, width int) string {
	if len(args) == 0 {
		return WarningStyle.Render("(no arguments)")
	}
	parts := make([]string, len(args))
	for i, arg := range args {
		cell := "[" + arg + "]"
		if i == a.argCursor {
			cell = SelectedArgStyle.Render(cell)
		}
		parts[i] = cell
	}
	line := strings.Join(parts, " ")
	if lipgloss.Width(line) > width*2 {
		return truncateString(process.JoinArgs(args), width)
	}
	return line
}

func (a *App) renderDetails() string {
	e := a.currentEntry()
	if e == nil {
		return ""
	}
	p := e.Process()

	lines := []string{
		fmt.Sprintf("%s %s", LabelStyle.Render("Command:"), ValueStyle.Render(e.Label())),
		fmt.Sprintf("%s %s", LabelStyle.Render("Workdir:"), ValueStyle.Render(e.Spec().Dir)),
	}
	if s, ok := a.stats[p.PID()]; ok && p.PID() > 0 {
		lines = append(lines,
			fmt.Sprintf("%s %s  %s %d", LabelStyle.Render("State:"), ValueStyle.Render(s.State),
				LabelStyle.Render("Threads:"), s.Threads),
			fmt.Sprintf("%s %.1f MB (%.1f%%)", LabelStyle.Render("Memory:"), float64(s.MemRSS)/(1024*1024), s.MemPercent),
			a.memProgress.ViewAs(s.MemPercent/100.0),
		)
	}
	switch {
	case p.LastError() != nil:
		lines = append(lines, ErrorStyle.Render("launch failed: "+p.LastError().Error()))
	case p.Status() == process.StatusStopped && p.ExitError() != nil:
		lines = append(lines, WarningStyle.Render("exited: "+p.ExitError().Error()))
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// truncateString cuts s to maxLen display cells.
func truncateString(s string, maxLen int) string {
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen < 4 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}

func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// splitCommandLine splits a typed command line with shell quoting rules.
func splitCommandLine(line string) ([]string, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("parsing command line: %w", err)
	}
	if len(args) == 0 {
		return nil, errors.New("empty command line")
	}
	return args, nil
}
