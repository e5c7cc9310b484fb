package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/verte-zerg/studyplan/internal/model"
)

// NoHistoryMsg is shown when the history table is empty.
const NoHistoryMsg = "No history found yet!"

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))

// TimetableLines renders the timetable as a Day/Tasks table.
func TimetableLines(rows []model.TimetableRow) []string {
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, []string{row.DayName(), JoinTasks(row.Tasks)})
	}
	return formatTable([]string{"Day", "Tasks"}, cells)
}

// JoinTasks renders one day's tasks.
func JoinTasks(tasks []string) string {
	return strings.Join(tasks, ", ")
}

// HistoryLines renders history as a Date/Subject/Status table.
func HistoryLines(entries []model.HistoryEntry) []string {
	cells := make([][]string, 0, len(entries))
	for _, entry := range entries {
		cells = append(cells, []string{entry.Date, entry.Subject, string(entry.Status)})
	}
	return formatTable([]string{"Date", "Subject", "Status"}, cells)
}

// SubjectLabel renders a subject the way the subject list shows it.
func SubjectLabel(sub model.Subject) string {
	return fmt.Sprintf("%s (Weight: %d)", sub.Name, sub.Weight)
}

// SubjectLines renders one label per subject.
func SubjectLines(subjects []model.Subject) []string {
	lines := make([]string, 0, len(subjects))
	for _, sub := range subjects {
		lines = append(lines, SubjectLabel(sub))
	}
	return lines
}

// SummaryLine renders per-subject done counts on one line.
func SummaryLine(sums []model.SubjectSummary) string {
	parts := make([]string, 0, len(sums))
	for _, sum := range sums {
		parts = append(parts, fmt.Sprintf("%s %d/%d", sum.Subject, sum.Done, sum.Total))
	}
	return strings.Join(parts, " · ")
}

// WriteTable writes table lines to w, styling the header row on a terminal.
func WriteTable(w io.Writer, lines []string) error {
	color := shouldUseColor(w)
	for i, line := range lines {
		if i == 0 && color {
			line = headerStyle.Render(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func shouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
