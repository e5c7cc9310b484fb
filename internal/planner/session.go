package planner

import "github.com/verte-zerg/studyplan/internal/model"

// Session holds the timetable currently on screen and the checkbox state for
// its subjects. A zero Session has no timetable.
type Session struct {
	Timetable []model.TimetableRow

	order   []string
	checked map[string]bool
}

// NewSession generates a timetable and one unchecked box per distinct subject
// name, in subject order.
func NewSession(subjects []model.Subject) (*Session, error) {
	timetable, err := GenerateTimetable(subjects)
	if err != nil {
		return nil, err
	}
	s := &Session{
		Timetable: timetable,
		order:     make([]string, 0, len(subjects)),
		checked:   make(map[string]bool, len(subjects)),
	}
	for _, sub := range subjects {
		if _, ok := s.checked[sub.Name]; ok {
			continue
		}
		s.order = append(s.order, sub.Name)
		s.checked[sub.Name] = false
	}
	return s, nil
}

// Active reports whether a timetable has been generated.
func (s *Session) Active() bool {
	return s != nil && len(s.order) > 0
}

// Subjects returns the checkbox labels in display order.
func (s *Session) Subjects() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// Has reports whether name has a checkbox.
func (s *Session) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.checked[name]
	return ok
}

// Checked returns the checkbox state for name.
func (s *Session) Checked(name string) bool {
	if s == nil {
		return false
	}
	return s.checked[name]
}

// Set changes the checkbox for name. Unknown names are ignored and reported.
func (s *Session) Set(name string, checked bool) bool {
	if !s.Has(name) {
		return false
	}
	s.checked[name] = checked
	return true
}

// Toggle flips the checkbox for name.
func (s *Session) Toggle(name string) bool {
	return s.Set(name, !s.Checked(name))
}

// Selections returns a copy of the checkbox state.
func (s *Session) Selections() map[string]bool {
	if s == nil {
		return nil
	}
	out := make(map[string]bool, len(s.checked))
	for name, v := range s.checked {
		out[name] = v
	}
	return out
}
