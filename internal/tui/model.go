// Package tui provides the Bubble Tea study planner interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/studyplan/internal/form"
	"github.com/verte-zerg/studyplan/internal/model"
	"github.com/verte-zerg/studyplan/internal/planner"
	"github.com/verte-zerg/studyplan/internal/progress"
	"github.com/verte-zerg/studyplan/internal/report"
	"github.com/verte-zerg/studyplan/internal/store"
)

const (
	tabSubjects = iota
	tabTimetable
	tabProgress
	tabHistory
)

const historySubjectWidth = 20

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Background(lipgloss.Color("#4682B4")).
			Bold(true).
			Padding(0, 2)
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
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E8B57"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea planner UI.
type Model struct {
	store   *store.Store
	tracker *progress.Tracker
	logger  *zap.Logger
	now     func() time.Time

	tabs      []string
	activeTab int
	width     int
	height    int

	subjects      []model.Subject
	subjectCursor int
	inputs        []textinput.Model
	inputIndex    int

	session        *planner.Session
	timetable      table.Model
	progressCursor int

	history      []model.HistoryEntry
	historyTable table.Model

	info   string
	errMsg string
	fatal  error
}

// NewModel constructs the planner UI and loads subjects from the store.
func NewModel(st *store.Store, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		store:   st,
		tracker: progress.NewTracker(st, logger),
		logger:  logger.Named("tui"),
		now:     time.Now,
		tabs:    []string{"Subjects", "Timetable", "Progress", "History"},
	}
	m.inputs = []textinput.Model{
		newInput("Subject: ", "e.g. Math"),
		newInput("Weight: ", "number"),
	}
	m.inputs[0].Focus()
	m.timetable = newTable([]table.Column{{Title: "Day", Width: 10}, {Title: "Tasks", Width: 40}})
	m.historyTable = newTable([]table.Column{{Title: "Date", Width: 10}, {Title: "Subject", Width: historySubjectWidth}, {Title: "Status", Width: 8}})
	// A storage failure here leaves m.fatal set; View reports it.
	_ = m.reloadSubjects()
	return m
}

// Err returns the storage error that ended the program, if any.
func (m *Model) Err() error {
	return m.fatal
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if m.fatal != nil {
			return m, tea.Quit
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			return m, m.moveTab(1)
		case "shift+tab":
			return m, m.moveTab(-1)
		}
		switch m.activeTab {
		case tabSubjects:
			return m.updateSubjects(msg)
		case tabTimetable:
			return m.updateTimetable(msg)
		case tabProgress:
			return m.updateProgress(msg)
		case tabHistory:
			return m.updateHistory(msg)
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.fatal != nil {
		return errorStyle.Render(fmt.Sprintf("Fatal: %v", m.fatal)) + "\n" + footerStyle.Render("press any key to exit")
	}
	sections := []string{
		titleStyle.Render("Smart Study Planner"),
		m.renderTabs(),
		m.renderBody(),
		m.renderStatus(),
		footerStyle.Render(m.help()),
	}
	return strings.Join(sections, "\n")
}

func (m *Model) moveTab(delta int) tea.Cmd {
	m.activeTab = (m.activeTab + delta + len(m.tabs)) % len(m.tabs)
	m.clearStatus()
	m.timetable.Blur()
	m.historyTable.Blur()
	switch m.activeTab {
	case tabTimetable:
		m.timetable.Focus()
	case tabHistory:
		m.historyTable.Focus()
		return m.reloadHistory()
	}
	return nil
}

func (m *Model) updateSubjects(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up":
		if m.subjectCursor > 0 {
			m.subjectCursor--
		}
		return m, nil
	case "down":
		if m.subjectCursor < len(m.subjects)-1 {
			m.subjectCursor++
		}
		return m, nil
	case "ctrl+d":
		return m, m.removeSelected()
	case "esc":
		m.focusInput(0)
		return m, nil
	case "enter":
		if m.inputIndex == 0 {
			m.focusInput(1)
			return m, nil
		}
		return m, m.addSubject()
	}
	var cmd tea.Cmd
	m.inputs[m.inputIndex], cmd = m.inputs[m.inputIndex].Update(msg)
	return m, cmd
}

func (m *Model) addSubject() tea.Cmd {
	m.clearStatus()
	input, err := form.ParseSubject(m.inputs[0].Value(), m.inputs[1].Value())
	if err != nil {
		m.focusInput(0)
		return m.handleErr(err)
	}
	if _, err := m.store.AddSubject(context.Background(), input.Name, input.Weight); err != nil {
		return m.handleErr(err)
	}
	m.inputs[0].Reset()
	m.inputs[1].Reset()
	m.focusInput(0)
	if cmd := m.reloadSubjects(); cmd != nil {
		return cmd
	}
	m.subjectCursor = len(m.subjects) - 1
	m.info = fmt.Sprintf("Added %s", input.Name)
	return nil
}

func (m *Model) removeSelected() tea.Cmd {
	m.clearStatus()
	selected := ""
	if m.subjectCursor >= 0 && m.subjectCursor < len(m.subjects) {
		selected = m.subjects[m.subjectCursor].Name
	}
	name, err := form.RemoveTarget(selected)
	if err != nil {
		return m.handleErr(err)
	}
	n, err := m.store.RemoveSubject(context.Background(), name)
	if err != nil {
		return m.handleErr(err)
	}
	if cmd := m.reloadSubjects(); cmd != nil {
		return cmd
	}
	m.info = fmt.Sprintf("Removed %s (%d)", name, n)
	return nil
}

func (m *Model) updateTimetable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "g":
		return m, m.generate()
	}
	var cmd tea.Cmd
	m.timetable, cmd = m.timetable.Update(msg)
	return m, cmd
}

func (m *Model) generate() tea.Cmd {
	m.clearStatus()
	subjects, err := m.store.ListSubjects(context.Background())
	if err != nil {
		return m.handleErr(err)
	}
	m.subjects = subjects
	session, err := planner.NewSession(subjects)
	if err != nil {
		return m.handleErr(err)
	}
	m.session = session
	m.progressCursor = 0
	m.applyTimetable()
	m.info = "Timetable generated ✅"
	m.logger.Debug("timetable generated", zap.Int("subjects", len(subjects)))
	return nil
}

func (m *Model) updateProgress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	names := m.session.Subjects()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.progressCursor > 0 {
			m.progressCursor--
		}
	case "down", "j":
		if m.progressCursor < len(names)-1 {
			m.progressCursor++
		}
	case " ", "x":
		if m.progressCursor < len(names) {
			m.session.Toggle(names[m.progressCursor])
		}
	case "s":
		return m, m.saveProgress()
	}
	return m, nil
}

func (m *Model) saveProgress() tea.Cmd {
	m.clearStatus()
	saved, err := m.tracker.Save(context.Background(), m.now(), m.session)
	if err != nil {
		return m.handleErr(err)
	}
	m.info = fmt.Sprintf("Today's progress has been saved ✅ (%d rows)", len(saved))
	return nil
}

func (m *Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		m.clearStatus()
		return m, m.reloadHistory()
	}
	var cmd tea.Cmd
	m.historyTable, cmd = m.historyTable.Update(msg)
	return m, cmd
}

func (m *Model) reloadSubjects() tea.Cmd {
	subjects, err := m.store.ListSubjects(context.Background())
	if err != nil {
		return m.handleErr(err)
	}
	m.subjects = subjects
	if m.subjectCursor >= len(subjects) {
		m.subjectCursor = len(subjects) - 1
	}
	if m.subjectCursor < 0 {
		m.subjectCursor = 0
	}
	return nil
}

func (m *Model) reloadHistory() tea.Cmd {
	history, err := m.store.ListHistory(context.Background())
	if err != nil {
		return m.handleErr(err)
	}
	m.history = history
	rows := make([]table.Row, 0, len(history))
	for _, entry := range history {
		rows = append(rows, table.Row{entry.Date, entry.Subject, string(entry.Status)})
	}
	m.historyTable.SetRows(rows)
	m.historyTable.GotoTop()
	m.resizeHistoryColumns()
	return nil
}

func (m *Model) applyTimetable() {
	if m.session == nil {
		return
	}
	rows := make([]table.Row, 0, len(m.session.Timetable))
	for _, row := range m.session.Timetable {
		rows = append(rows, table.Row{row.DayName(), report.JoinTasks(row.Tasks)})
	}
	m.timetable.SetRows(rows)
	m.updateLayout()
}

// handleErr shows validation errors inline. Anything else is a storage
// failure and ends the program.
func (m *Model) handleErr(err error) tea.Cmd {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		m.errMsg = verr.Msg
		return nil
	}
	m.logger.Error("fatal error", zap.Error(err))
	m.fatal = err
	return tea.Quit
}

func (m *Model) clearStatus() {
	m.info = ""
	m.errMsg = ""
}

func (m *Model) focusInput(idx int) {
	m.inputIndex = idx
	for i := range m.inputs {
		if i == idx {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *Model) updateLayout() {
	if m.width <= 0 {
		return
	}
	tasksWidth := 40
	for _, row := range m.timetable.Rows() {
		if w := lipgloss.Width(row[1]); w > tasksWidth {
			tasksWidth = w
		}
	}
	if maxTasks := m.width - 14; maxTasks > 10 && tasksWidth > maxTasks {
		tasksWidth = maxTasks
	}
	m.timetable.SetColumns([]table.Column{{Title: "Day", Width: 10}, {Title: "Tasks", Width: tasksWidth}})
	m.timetable.SetHeight(len(planner.Week) + 1)
	if m.height > 0 {
		m.historyTable.SetHeight(maxInt(3, m.height-12))
	}
	m.resizeHistoryColumns()
}

// resizeHistoryColumns widens Subject to its longest cell, capped by the
// terminal width once it is known.
func (m *Model) resizeHistoryColumns() {
	subjectWidth := historySubjectWidth
	for _, row := range m.historyTable.Rows() {
		if w := lipgloss.Width(row[1]); w > subjectWidth {
			subjectWidth = w
		}
	}
	if maxSubject := m.width - 24; maxSubject > 10 && subjectWidth > maxSubject {
		subjectWidth = maxSubject
	}
	m.historyTable.SetColumns([]table.Column{
		{Title: "Date", Width: 10},
		{Title: "Subject", Width: subjectWidth},
		{Title: "Status", Width: 8},
	})
}

func (m *Model) renderTabs() string {
	rendered := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			rendered = append(rendered, activeNavStyle.Render(tab))
		} else {
			rendered = append(rendered, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *Model) renderBody() string {
	switch m.activeTab {
	case tabSubjects:
		return m.renderSubjects()
	case tabTimetable:
		if m.session == nil {
			return mutedStyle.Render("No timetable yet. Press g to generate one.")
		}
		return m.timetable.View()
	case tabProgress:
		return m.renderProgress()
	case tabHistory:
		if len(m.history) == 0 {
			return mutedStyle.Render(report.NoHistoryMsg)
		}
		summary := report.SummaryLine(progress.Summarize(m.history))
		return m.historyTable.View() + "\n" + mutedStyle.Render(summary)
	}
	return ""
}

func (m *Model) renderSubjects() string {
	lines := []string{m.inputs[0].View(), m.inputs[1].View(), ""}
	if len(m.subjects) == 0 {
		lines = append(lines, mutedStyle.Render("No subjects yet."))
	}
	for i, sub := range m.subjects {
		label := report.SubjectLabel(sub)
		if i == m.subjectCursor {
			lines = append(lines, selectedStyle.Render("> "+label))
		} else {
			lines = append(lines, "  "+label)
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderProgress() string {
	if !m.session.Active() {
		return mutedStyle.Render("Generate a timetable to track today's progress.")
	}
	lines := []string{infoStyle.Render("☑ Daily Progress Tracker")}
	for i, name := range m.session.Subjects() {
		box := "[ ]"
		style := lipgloss.NewStyle()
		if m.session.Checked(name) {
			box = "[x]"
			style = doneStyle
		}
		prefix := "  "
		if i == m.progressCursor {
			prefix = "> "
		}
		lines = append(lines, prefix+style.Render(box+" "+name))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderStatus() string {
	if m.errMsg != "" {
		return errorStyle.Render(m.errMsg)
	}
	if m.info != "" {
		return infoStyle.Render(m.info)
	}
	return ""
}

func (m *Model) help() string {
	switch m.activeTab {
	case tabSubjects:
		return "enter next/add · esc name · ↑/↓ select · ctrl+d remove · tab switch · ctrl+c quit"
	case tabTimetable:
		return "g generate · tab switch · q quit"
	case tabProgress:
		return "↑/↓ move · space toggle · s save · tab switch · q quit"
	default:
		return "↑/↓ scroll · r reload · tab switch · q quit"
	}
}

func newInput(prompt, placeholder string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Placeholder = placeholder
	input.CharLimit = 64
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(len(planner.Week)+1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	t.SetStyles(styles)
	return t
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
