package planner

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/studyplan/internal/model"
)

func subjects(names ...string) []model.Subject {
	out := make([]model.Subject, 0, len(names))
	for i, name := range names {
		out = append(out, model.Subject{ID: int64(i + 1), Name: name, Weight: i})
	}
	return out
}

func TestGenerateTimetableExample(t *testing.T) {
	rows, err := GenerateTimetable([]model.Subject{
		{Name: "Math", Weight: 5},
		{Name: "Physics", Weight: 3},
		{Name: "Chemistry", Weight: 2},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(rows) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(rows))
	}
	want := map[int]string{
		0: "Math, Physics, Chemistry",
		1: "Physics, Chemistry, Math",
		6: "Math, Physics, Chemistry",
	}
	for i, tasks := range want {
		if got := strings.Join(rows[i].Tasks, ", "); got != tasks {
			t.Fatalf("row %d: expected %q, got %q", i, tasks, got)
		}
	}
	if rows[0].Day != time.Monday || rows[6].Day != time.Sunday {
		t.Fatalf("unexpected day order: %v .. %v", rows[0].Day, rows[6].Day)
	}
	if rows[0].DayName() != "Monday" {
		t.Fatalf("unexpected day name: %q", rows[0].DayName())
	}
}

func TestGenerateTimetableRotation(t *testing.T) {
	for n := 1; n <= 9; n++ {
		names := make([]string, n)
		for i := range names {
			names[i] = string(rune('A' + i))
		}
		subs := subjects(names...)
		rows, err := GenerateTimetable(subs)
		if err != nil {
			t.Fatalf("n=%d: generate: %v", n, err)
		}
		if len(rows) != len(Week) {
			t.Fatalf("n=%d: expected %d rows, got %d", n, len(Week), len(rows))
		}
		for i, row := range rows {
			if len(row.Tasks) != TasksPerDay {
				t.Fatalf("n=%d row %d: expected %d tasks, got %d", n, i, TasksPerDay, len(row.Tasks))
			}
			for j, task := range row.Tasks {
				if want := subs[(i+j)%n].Name; task != want {
					t.Fatalf("n=%d row %d task %d: expected %q, got %q", n, i, j, want, task)
				}
			}
		}
	}
}

func TestGenerateTimetableWrapsSmallLists(t *testing.T) {
	rows, err := GenerateTimetable(subjects("Math", "Bio"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := strings.Join(rows[0].Tasks, ","); got != "Math,Bio,Math" {
		t.Fatalf("unexpected monday tasks: %q", got)
	}
}

func TestGenerateTimetableEmpty(t *testing.T) {
	rows, err := GenerateTimetable(nil)
	if rows != nil {
		t.Fatalf("expected no rows, got %+v", rows)
	}
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
