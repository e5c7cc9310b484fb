package progress

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/studyplan/internal/model"
	"github.com/verte-zerg/studyplan/internal/planner"
	"github.com/verte-zerg/studyplan/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "studyplan.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func newSession(t *testing.T, names ...string) *planner.Session {
	t.Helper()
	subs := make([]model.Subject, 0, len(names))
	for _, name := range names {
		subs = append(subs, model.Subject{Name: name})
	}
	s, err := planner.NewSession(subs)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func TestSaveWritesOneRowPerSubject(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	if _, err := st.AppendHistory(ctx, "2023-12-31", "Old", model.StatusDone); err != nil {
		t.Fatalf("seed history: %v", err)
	}

	session := newSession(t, "Math", "Physics")
	session.Set("Math", true)
	today := time.Date(2024, 1, 1, 9, 30, 0, 0, time.Local)
	tracker := NewTracker(st, nil)
	saved, err := tracker.Save(ctx, today, session)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("expected 2 saved rows, got %d", len(saved))
	}

	history, err := st.ListHistory(ctx)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(history))
	}
	got := map[string]model.Status{}
	for _, entry := range history[:2] {
		if entry.Date != "2024-01-01" {
			t.Fatalf("unexpected date: %q", entry.Date)
		}
		got[entry.Subject] = entry.Status
	}
	if got["Math"] != model.StatusDone || got["Physics"] != model.StatusNotDone {
		t.Fatalf("unexpected statuses: %+v", got)
	}
	if history[2].Subject != "Old" {
		t.Fatalf("expected pre-existing row last, got %+v", history[2])
	}
}

func TestSaveTwiceDuplicates(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	session := newSession(t, "Math", "Physics")
	session.Set("Math", true)
	tracker := NewTracker(st, nil)
	today := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	for i := 0; i < 2; i++ {
		if _, err := tracker.Save(ctx, today, session); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	history, err := st.ListHistory(ctx)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(history))
	}
}

func TestSaveWithoutTimetable(t *testing.T) {
	st := openStore(t)
	tracker := NewTracker(st, nil)
	for _, session := range []*planner.Session{nil, {}} {
		_, err := tracker.Save(context.Background(), time.Now(), session)
		var verr *model.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	}
	history, err := st.ListHistory(context.Background())
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected no rows written, got %d", len(history))
	}
}

type failingAppender struct {
	calls int
}

func (f *failingAppender) AppendHistory(_ context.Context, date, subject string, status model.Status) (model.HistoryEntry, error) {
	f.calls++
	if f.calls > 1 {
		return model.HistoryEntry{}, &model.StorageError{Op: "append history", Err: errors.New("disk full")}
	}
	return model.HistoryEntry{ID: int64(f.calls), Date: date, Subject: subject, Status: status}, nil
}

func TestSaveStopsOnStorageError(t *testing.T) {
	appender := &failingAppender{}
	tracker := NewTracker(appender, nil)
	saved, err := tracker.Save(context.Background(), time.Now(), newSession(t, "Math", "Physics", "Bio"))
	var serr *model.StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if len(saved) != 1 || appender.calls != 2 {
		t.Fatalf("expected stop after first failure, saved=%d calls=%d", len(saved), appender.calls)
	}
}
