// Package planner builds the weekly study timetable.
package planner

import (
	"time"

	"github.com/verte-zerg/studyplan/internal/model"
)

// TasksPerDay is the number of study slots on every day.
const TasksPerDay = 3

// Week lists the timetable days in output order.
var Week = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// GenerateTimetable assigns subjects to days round-robin: day i gets
// subjects i, i+1 and i+2 modulo len(subjects). Weight is not consulted, and
// with fewer than three subjects a day repeats entries.
func GenerateTimetable(subjects []model.Subject) ([]model.TimetableRow, error) {
	if len(subjects) == 0 {
		return nil, model.Invalid("Add subjects first!")
	}
	rows := make([]model.TimetableRow, 0, len(Week))
	for i, day := range Week {
		tasks := make([]string, 0, TasksPerDay)
		for j := 0; j < TasksPerDay; j++ {
			tasks = append(tasks, subjects[(i+j)%len(subjects)].Name)
		}
		rows = append(rows, model.TimetableRow{Day: day, Tasks: tasks})
	}
	return rows, nil
}
