// Package dashui provides the Bubble Tea reading dashboard.
package dashui

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"shelfstats/internal/engine"
	"shelfstats/internal/model"
	"shelfstats/internal/prefs"
	"shelfstats/internal/report"
)

const (
	tabDashboard = iota
	tabBooks
	tabHabits
)

const recomputeDebounce = 250 * time.Millisecond

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// computeTickMsg fires when a debounced recompute comes due. Gen identifies
// the preference change that scheduled it; stale ticks are dropped.
type computeTickMsg struct {
	gen int
}

// Model implements the Bubble Tea dashboard UI.
type Model struct {
	books      []model.BookRecord
	eng        *engine.Engine
	prefsStore prefs.Store
	now        func() time.Time
	loc        *time.Location

	prefs   model.PreferenceSet
	result  engine.Result
	pending bool
	gen     int

	tabs      []string
	activeTab int
	viewports []viewport.Model
	bookTable table.Model

	errMsg string

	width  int
	height int
}

// NewModel constructs a dashboard model over an already loaded library.
func NewModel(books []model.BookRecord, eng *engine.Engine, store prefs.Store, loc *time.Location) *Model {
	if loc == nil {
		loc = time.Local
	}
	m := &Model{
		books:      books,
		eng:        eng,
		prefsStore: store,
		now:        time.Now,
		loc:        loc,
		tabs:       []string{"Dashboard", "Books", "Habits"},
	}
	m.prefs = store.Load()
	m.activeTab = tabForLayout(m.prefs.LayoutMode)
	m.initViewports()
	m.initBookTable()
	m.recompute()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case computeTickMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.recompute()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.prefs.TimeRange = nextRange(m.prefs.TimeRange)
			m.persistPrefs()
			return m, m.scheduleRecompute()
		case "v":
			m.prefs.ActivityView = toggleView(m.prefs.ActivityView)
			m.persistPrefs()
			m.renderTabContents()
			return m, nil
		case "g", "home":
			if m.activeTab == tabBooks {
				m.bookTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabBooks {
				m.bookTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabBooks {
				var cmd tea.Cmd
				m.bookTable, cmd = m.bookTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// scheduleRecompute debounces a preference change: the result stays on
// screen as stale until the timer fires, and a newer change supersedes any
// timer still in flight.
func (m *Model) scheduleRecompute() tea.Cmd {
	m.gen++
	m.pending = true
	gen := m.gen
	return tea.Tick(recomputeDebounce, func(time.Time) tea.Msg {
		return computeTickMsg{gen: gen}
	})
}

func (m *Model) recompute() {
	m.result = m.eng.Compute(m.books, m.prefs, m.now())
	m.pending = false
	m.renderTabContents()
}

func (m *Model) persistPrefs() {
	if err := m.prefsStore.Save(m.prefs); err != nil {
		m.errMsg = fmt.Sprintf("failed to save preferences: %v", err)
		return
	}
	m.errMsg = ""
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initBookTable() {
	columns := bookTableColumns()
	m.bookTable = table.New(
		table.WithColumns(columns),
		table.WithRows(m.buildBookRows()),
		table.WithHeight(1),
	)
	m.bookTable.SetStyles(bookTableStyles())
}

func bookTableColumns() []table.Column {
	return []table.Column{
		{Title: "Title", Width: 30},
		{Title: "Author", Width: 20},
		{Title: "Status", Width: 12},
		{Title: "Progress", Width: 8},
		{Title: "Time", Width: 9},
		{Title: "Last Read", Width: 12},
	}
}

func (m *Model) buildBookRows() []table.Row {
	now := m.now()
	rows := make([]table.Row, 0, len(m.books))
	for _, b := range m.books {
		rows = append(rows, table.Row{
			b.Title,
			b.Author,
			string(engine.Classify(b)),
			fmt.Sprintf("%d%%", b.ClampedProgress()),
			report.FormatDuration(float64(b.ReadingTime)),
			report.FormatLastRead(b.LastRead, now, m.loc),
		})
	}
	return rows
}

func bookTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.bookTable.SetWidth(m.width)
	m.bookTable.SetHeight(maxInt(1, vpHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabBooks {
		m.bookTable.Focus()
	} else {
		m.bookTable.Blur()
	}
	m.prefs.LayoutMode = layoutForTab(m.activeTab)
	m.persistPrefs()
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	status := padLines(m.renderStatusLine(), m.width)
	return tabs + "\n" + status
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderStatusLine() string {
	line := fmt.Sprintf("Range: %s  View: %s  Books: %d", m.prefs.TimeRange, m.prefs.ActivityView, len(m.books))
	if m.pending {
		line += "  Calculating..."
	}
	return headerStyle.Render(truncateLine(line, m.width))
}

func (m *Model) renderFooter() string {
	help := "Nav: left/right  Range: r  View: v  Scroll: up/down/pgup/pgdn  Quit: q"
	if m.errMsg != "" {
		return headerStyle.Render(help) + "\n" + errorStyle.Render(m.errMsg)
	}
	return headerStyle.Render(help)
}

func (m *Model) renderBody(height int) string {
	if m.pending {
		return fitLines("Calculating...", m.width, height)
	}
	if m.activeTab == tabBooks {
		if len(m.books) == 0 {
			return fitLines("No books in the library. Run `shelfstats import` first.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.bookTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabDashboard].SetContent(m.renderDashboard(width))
	m.viewports[tabHabits].SetContent(m.renderHabits(width))
	m.bookTable.SetRows(m.buildBookRows())
}

func (m *Model) renderDashboard(width int) string {
	res := m.result
	cards := []string{
		metricCard("Reading Time", report.FormatDuration(res.TotalSeconds)),
		metricCard("Sessions", fmt.Sprintf("%d", res.Core.TrackedSessions)),
		metricCard("Pages", fmt.Sprintf("%d", res.Core.CompletedPages)),
		metricCard("Streak", fmt.Sprintf("%d days", res.Streaks.Current)),
		metricCard("Finished", fmt.Sprintf("%d of %d", res.Core.FinishedBooks, res.Core.TotalBooks)),
	}
	summary := joinCards(cards, width)

	var buf bytes.Buffer
	if err := report.RenderActivity(&buf, res.Chart, m.prefs.ActivityView, width); err != nil {
		return fmt.Sprintf("Failed to render activity: %v", err)
	}
	activity := strings.TrimRight(buf.String(), "\n")

	top := renderTopBooks(res.TopBooks)
	return strings.TrimRight(summary+"\n\n"+activity+"\n\n"+top, "\n")
}

func (m *Model) renderHabits(width int) string {
	res := m.result
	cards := []string{
		metricCard("Streak", fmt.Sprintf("%d days", res.Streaks.Current)),
		metricCard("Best Streak", fmt.Sprintf("%d days", res.Streaks.Best)),
		metricCard("Weekly Goal", fmt.Sprintf("%d%%", res.Week.Percent)),
	}
	summary := joinCards(cards, width)

	lines := []string{
		summary,
		"",
		fmt.Sprintf("This week: %s of %s (%s to go)",
			report.FormatDuration(float64(res.Week.WeekSeconds)),
			report.FormatDuration(float64(engine.WeeklyGoalSeconds)),
			report.FormatDuration(float64(res.Week.Remaining))),
		fmt.Sprintf("Year %d: %s read, %d pages, %d books finished, %d sessions",
			res.Year.Year,
			report.FormatDuration(float64(res.Year.Seconds)),
			res.Year.Pages, res.Year.FinishedBooks, res.Year.Sessions),
		"",
		"Library Status",
	}
	for _, c := range res.StatusBreakdown {
		lines = append(lines, fmt.Sprintf("%-12s %3d  %3d%%", c.Status, c.Count, c.Percent))
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func renderTopBooks(books []engine.BookRank) string {
	if len(books) == 0 {
		return "No tracked reading yet."
	}
	lines := []string{"Top Books"}
	for i, b := range books {
		lines = append(lines, fmt.Sprintf("%d. %s (%s)", i+1, b.Title, report.FormatDuration(b.TrackedSeconds)))
	}
	return strings.Join(lines, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func joinCards(cards []string, width int) string {
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func tabForLayout(mode model.LayoutMode) int {
	switch mode {
	case model.LayoutBooks:
		return tabBooks
	case model.LayoutHabits:
		return tabHabits
	default:
		return tabDashboard
	}
}

func layoutForTab(tab int) model.LayoutMode {
	switch tab {
	case tabBooks:
		return model.LayoutBooks
	case tabHabits:
		return model.LayoutHabits
	default:
		return model.LayoutDashboard
	}
}

func nextRange(r model.TimeRange) model.TimeRange {
	switch r {
	case model.Range7d:
		return model.Range30d
	case model.Range30d:
		return model.Range90d
	case model.Range90d:
		return model.RangeAll
	default:
		return model.Range7d
	}
}

func toggleView(v model.ActivityView) model.ActivityView {
	if v == model.ViewBars {
		return model.ViewLine
	}
	return model.ViewBars
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
