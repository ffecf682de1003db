// Package statsui provides the Bubble Tea viewing history browser.
package statsui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/watchlog/internal/logging"
	"github.com/verte-zerg/watchlog/internal/model"
	"github.com/verte-zerg/watchlog/internal/stats"
	"github.com/verte-zerg/watchlog/internal/store"
)

const (
	tabDaily = iota
	tabTopShows
	tabMostViewed
)

const (
	plotHeight = 10

	// NoDataMessage is shown for a valid period without records.
	NoDataMessage = "No data available for the selected month and year."
)

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

// Options configures the browser.
type Options struct {
	Period model.Period
	PieTop int
	BarTop int
}

// Model implements the Bubble Tea history browser.
type Model struct {
	store  *store.Store
	period model.Period
	pieTop int
	barTop int

	episodes stats.Report
	views    stats.Report
	errMsg   string

	tabs        []string
	activeTab   int
	viewports   []viewport.Model
	showTable   table.Model
	tableLayout tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a browser model over a loaded store.
func NewModel(st *store.Store, opts Options) *Model {
	if opts.PieTop < 1 {
		opts.PieTop = stats.DefaultPieTop
	}
	if opts.BarTop < 1 {
		opts.BarTop = stats.DefaultBarTop
	}
	m := &Model{
		store:  st,
		period: opts.Period,
		pieTop: opts.PieTop,
		barTop: opts.BarTop,
		tabs:   []string{"Daily", "Top Shows", "Most Viewed"},
	}
	m.initInputs()
	m.showTable = buildShowTable(nil, 0, 1)
	m.initViewports()
	m.refreshReport()
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
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "[":
			m.setPeriod(shiftPeriod(m.period, -1))
			return m, nil
		case "]":
			m.setPeriod(shiftPeriod(m.period, 1))
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			if m.activeTab == tabTopShows {
				m.showTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabTopShows {
				m.showTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabTopShows {
				var cmd tea.Cmd
				m.showTable, cmd = m.showTable.Update(msg)
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

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Month: "),
		newFilterInput("Year: "),
	}
	m.filterInputs[0].Placeholder = "1-12"
	m.filterInputs[0].CharLimit = 2
	m.filterInputs[1].Placeholder = "YYYY"
	m.filterInputs[1].CharLimit = 4
	m.setInputsFromPeriod()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromPeriod() {
	m.filterInputs[0].SetValue(strconv.Itoa(m.period.Month))
	m.filterInputs[1].SetValue(strconv.Itoa(m.period.Year))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
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
	m.applyShowTable(m.width, vpHeight, true)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabTopShows {
		m.showTable.Focus()
	} else {
		m.showTable.Blur()
	}
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

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	summary := fmt.Sprintf("Period: %s  top shows=%d  most viewed=%d  records=%d  skipped=%d",
		m.period, m.pieTop, m.barTop, m.store.Len(), m.store.Skipped())
	return tabs + "\n" + padLines(headerStyle.Render(stats.TruncateLabel(summary, m.width)), m.width)
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Month: [/]  Scroll: up/down/pgup/pgdn  Period: /  Quit: q")
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Select month and year (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.errMsg == "" && m.episodes.Empty() {
		return fitLines(NoDataMessage, m.width, height)
	}
	if m.activeTab == tabTopShows && m.errMsg == "" {
		return fitLines(tableMutedStyle.Render(m.showTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) setPeriod(p model.Period) {
	m.period = p
	m.refreshReport()
	m.updateLayout()
}

// refreshReport rebuilds both score-mode reports for the current period.
func (m *Model) refreshReport() {
	episodes, err := stats.BuildReport(m.store, model.QueryConfig{
		Period: m.period,
		Mode:   model.ScoreDistinctEpisodes,
		TopN:   m.pieTop,
	})
	if err == nil {
		var views stats.Report
		views, err = stats.BuildReport(m.store, model.QueryConfig{
			Period: m.period,
			Mode:   model.ScoreOccurrences,
			TopN:   m.barTop,
		})
		m.views = views
	}
	if err != nil {
		logging.Warn().Err(err).Stringer("period", m.period).Msg("failed to build report")
		m.errMsg = err.Error()
		m.episodes = stats.Report{}
		m.views = stats.Report{}
		m.renderTabContents()
		return
	}
	m.errMsg = ""
	m.episodes = episodes
	logging.Debug().Stringer("period", m.period).Int("records", episodes.Records).Msg("report refreshed")

	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.applyShowTable(width, bodyHeight, true)
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load history.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabDaily].SetContent(renderDaily(m.episodes, width))
	m.viewports[tabMostViewed].SetContent(renderMostViewed(m.views, width))
}

func renderDaily(r stats.Report, width int) string {
	if r.Empty() {
		return NoDataMessage
	}
	cards := renderSummaryCards(r, width)
	var buf bytes.Buffer
	if err := stats.RenderDailyWithSize(&buf, r, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render daily titles: %v", err)
	}
	return strings.TrimRight(cards+"\n\n"+buf.String(), "\n")
}

func renderSummaryCards(r stats.Report, width int) string {
	busiest := "-"
	if day, ok := stats.BusiestDay(r.Daily); ok {
		busiest = fmt.Sprintf("%d (%d)", day.Day, day.Titles)
	}
	cards := []string{
		metricCard("Records", strconv.Itoa(r.Records)),
		metricCard("Titles", strconv.Itoa(r.Titles)),
		metricCard("Active days", strconv.Itoa(len(r.Daily))),
		metricCard("Busiest day", busiest),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderMostViewed(r stats.Report, width int) string {
	if r.Empty() {
		return NoDataMessage
	}
	title := fmt.Sprintf("Top %d most viewed titles, %s", len(r.Categories), r.Period)
	var buf bytes.Buffer
	if err := stats.RenderBars(&buf, title, r.Categories, width, true); err != nil {
		return fmt.Sprintf("Failed to render views: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

const (
	rankColWidth     = 3
	episodesColWidth = 8
	shareColWidth    = 7
	minTitleColWidth = 10
)

func showTableColumns(width int) []table.Column {
	titleWidth := max(minTitleColWidth, width-rankColWidth-episodesColWidth-shareColWidth-4)
	return []table.Column{
		{Title: "#", Width: rankColWidth},
		{Title: "Title", Width: titleWidth},
		{Title: "Episodes", Width: episodesColWidth},
		{Title: "Share", Width: shareColWidth},
	}
}

func showTableRows(points []model.CategoryPoint) []table.Row {
	shares := stats.Shares(points)
	rows := make([]table.Row, 0, len(points))
	for i, p := range points {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			p.Label,
			strconv.Itoa(p.Value),
			fmt.Sprintf("%.1f%%", shares[i]),
		})
	}
	return rows
}

func buildShowTable(points []model.CategoryPoint, width, height int) table.Model {
	t := table.New(
		table.WithColumns(showTableColumns(width)),
		table.WithRows(showTableRows(points)),
		table.WithHeight(max(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(showTableStyles())
	return t
}

func (m *Model) applyShowTable(width, height int, force bool) {
	rows := showTableRows(m.episodes.Categories)
	viewportHeight := max(1, height-1)
	if !force &&
		m.tableLayout.width == width &&
		m.tableLayout.height == viewportHeight &&
		m.tableLayout.rowCount == len(rows) {
		return
	}
	m.showTable.SetColumns(showTableColumns(width))
	m.showTable.SetRows(rows)
	m.showTable.SetWidth(width)
	m.showTable.SetHeight(viewportHeight)
	m.tableLayout = tableLayout{width: width, height: viewportHeight, rowCount: len(rows)}
}

func showTableStyles() table.Styles {
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

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromPeriod()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		p, err := m.parseFilter()
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.setPeriod(p)
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) parseFilter() (model.Period, error) {
	return parsePeriodInput(m.filterInputs[0].Value(), m.filterInputs[1].Value())
}

// parsePeriodInput turns the two form fields into a validated period.
func parsePeriodInput(monthInput, yearInput string) (model.Period, error) {
	month, err := strconv.Atoi(strings.TrimSpace(monthInput))
	if err != nil {
		return model.Period{}, fmt.Errorf("invalid month %q (use a number 1-12)", monthInput)
	}
	year, err := strconv.Atoi(strings.TrimSpace(yearInput))
	if err != nil {
		return model.Period{}, fmt.Errorf("invalid year %q (use a number such as 2023)", yearInput)
	}
	p := model.Period{Year: year, Month: month}
	if err := stats.ValidatePeriod(p); err != nil {
		return model.Period{}, err
	}
	return p, nil
}

func shiftPeriod(p model.Period, delta int) model.Period {
	idx := p.Year*12 + (p.Month - 1) + delta
	if idx < 12 {
		return p
	}
	return model.Period{Year: idx / 12, Month: idx%12 + 1}
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
