package planner

import (
	"errors"
	"testing"

	"github.com/verte-zerg/studyplan/internal/model"
)

func TestNewSessionOneBoxPerName(t *testing.T) {
	s, err := NewSession(subjects("Math", "Physics", "Math"))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if !s.Active() {
		t.Fatalf("expected active session")
	}
	got := s.Subjects()
	if len(got) != 2 || got[0] != "Math" || got[1] != "Physics" {
		t.Fatalf("unexpected subjects: %v", got)
	}
	for _, name := range got {
		if s.Checked(name) {
			t.Fatalf("expected %s unchecked", name)
		}
	}
	if len(s.Timetable) != len(Week) {
		t.Fatalf("expected timetable with %d rows, got %d", len(Week), len(s.Timetable))
	}
}

func TestSessionToggleAndSet(t *testing.T) {
	s, err := NewSession(subjects("Math", "Physics"))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if !s.Toggle("Math") || !s.Checked("Math") {
		t.Fatalf("expected Math checked after toggle")
	}
	if !s.Toggle("Math") || s.Checked("Math") {
		t.Fatalf("expected Math unchecked after second toggle")
	}
	if s.Set("Bio", true) {
		t.Fatalf("expected unknown subject to be rejected")
	}
	s.Set("Physics", true)
	sel := s.Selections()
	sel["Physics"] = false
	if !s.Checked("Physics") {
		t.Fatalf("selections must be a copy")
	}
}

func TestNilSessionInactive(t *testing.T) {
	var s *Session
	if s.Active() || s.Has("Math") || s.Selections() != nil {
		t.Fatalf("nil session must be inactive")
	}
	if (&Session{}).Active() {
		t.Fatalf("zero session must be inactive")
	}
}

func TestNewSessionEmpty(t *testing.T) {
	_, err := NewSession(nil)
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
