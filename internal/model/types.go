// Package model defines shared data structures.
package model

import "time"

// DateLayout is the on-disk format of history dates.
const DateLayout = "2006-01-02"

// Config defines runtime settings resolved from flags, env and the config file.
type Config struct {
	DBPath   string
	LogLevel string
	LogPath  string
}

// Subject is a study topic. Weight is stored but not used for scheduling.
type Subject struct {
	ID     int64
	Name   string
	Weight int
}

// SubjectInput is a validated add-subject request.
type SubjectInput struct {
	Name   string
	Weight int
}

// Status is the completion state recorded in history.
type Status string

// Completion states, stored verbatim in the history table.
const (
	StatusDone    Status = "Done"
	StatusNotDone Status = "Not Done"
)

// StatusFor maps a checkbox value to a Status.
func StatusFor(checked bool) Status {
	if checked {
		return StatusDone
	}
	return StatusNotDone
}

// HistoryEntry is one saved progress row.
type HistoryEntry struct {
	ID      int64
	Date    string
	Subject string
	Status  Status
}

// TimetableRow is one derived day of the weekly plan.
type TimetableRow struct {
	Day   time.Weekday
	Tasks []string
}

// DayName returns the English weekday name.
func (r TimetableRow) DayName() string {
	return r.Day.String()
}

// SubjectSummary counts history rows for one subject.
type SubjectSummary struct {
	Subject string
	Done    int
	Total   int
}
