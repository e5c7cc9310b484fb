package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/studyplan/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	st, err := Open(filepath.Join(dir, "nested", "studyplan.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestSubjectsKeepInsertionOrder(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for _, sub := range []model.SubjectInput{{Name: "Math", Weight: 5}, {Name: "Physics", Weight: 3}, {Name: "Chemistry", Weight: 2}} {
		if _, err := st.AddSubject(ctx, sub.Name, sub.Weight); err != nil {
			t.Fatalf("add subject: %v", err)
		}
	}
	subjects, err := st.ListSubjects(ctx)
	if err != nil {
		t.Fatalf("list subjects: %v", err)
	}
	if len(subjects) != 3 {
		t.Fatalf("expected 3 subjects, got %d", len(subjects))
	}
	if subjects[0].Name != "Math" || subjects[1].Name != "Physics" || subjects[2].Name != "Chemistry" {
		t.Fatalf("unexpected order: %+v", subjects)
	}
	if subjects[0].Weight != 5 {
		t.Fatalf("expected weight 5, got %d", subjects[0].Weight)
	}
}

func TestAddSubjectAllowsDuplicates(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	before, err := st.ListSubjects(ctx)
	if err != nil {
		t.Fatalf("list subjects: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := st.AddSubject(ctx, "Bio", 4); err != nil {
			t.Fatalf("add subject: %v", err)
		}
	}
	after, err := st.ListSubjects(ctx)
	if err != nil {
		t.Fatalf("list subjects: %v", err)
	}
	if got := countSubject(after, "Bio", 4) - countSubject(before, "Bio", 4); got != 2 {
		t.Fatalf("expected 2 new Bio rows, got %d", got)
	}
}

func TestRemoveSubjectDeletesAllMatches(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for _, name := range []string{"Bio", "Math", "Bio"} {
		if _, err := st.AddSubject(ctx, name, 1); err != nil {
			t.Fatalf("add subject: %v", err)
		}
	}
	n, err := st.RemoveSubject(ctx, "Bio")
	if err != nil {
		t.Fatalf("remove subject: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 removed rows, got %d", n)
	}
	subjects, err := st.ListSubjects(ctx)
	if err != nil {
		t.Fatalf("list subjects: %v", err)
	}
	if len(subjects) != 1 || subjects[0].Name != "Math" {
		t.Fatalf("unexpected subjects after remove: %+v", subjects)
	}

	n, err = st.RemoveSubject(ctx, "Nope")
	if err != nil {
		t.Fatalf("remove unknown subject: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 removed rows, got %d", n)
	}
}

func TestHistoryNewestFirstAndSurvivesSubjectRemoval(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if _, err := st.AddSubject(ctx, "Math", 5); err != nil {
		t.Fatalf("add subject: %v", err)
	}
	if _, err := st.AppendHistory(ctx, "2024-01-01", "Math", model.StatusDone); err != nil {
		t.Fatalf("append history: %v", err)
	}
	if _, err := st.AppendHistory(ctx, "2024-01-01", "Math", model.StatusNotDone); err != nil {
		t.Fatalf("append history: %v", err)
	}
	if _, err := st.RemoveSubject(ctx, "Math"); err != nil {
		t.Fatalf("remove subject: %v", err)
	}

	history, err := st.ListHistory(ctx)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(history))
	}
	if history[0].Status != model.StatusNotDone || history[1].Status != model.StatusDone {
		t.Fatalf("expected newest first, got %+v", history)
	}
	if history[0].ID <= history[1].ID {
		t.Fatalf("expected descending ids, got %+v", history)
	}
}

func TestListHistoryEmpty(t *testing.T) {
	st := openTestStore(t)
	history, err := st.ListHistory(context.Background())
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %+v", history)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studyplan.db")
	st, err := Open(path, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := st.AddSubject(context.Background(), "Math", 5); err != nil {
		t.Fatalf("add subject: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	st, err = Open(path, nil)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	subjects, err := st.ListSubjects(context.Background())
	if err != nil {
		t.Fatalf("list subjects: %v", err)
	}
	if len(subjects) != 1 {
		t.Fatalf("expected 1 subject after reopen, got %d", len(subjects))
	}
}

func TestClosedStoreReturnsStorageError(t *testing.T) {
	st, err := Open(filepath.Join(t.TempDir(), "studyplan.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}
	_, err = st.ListSubjects(context.Background())
	var storageErr *model.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if storageErr.Op != "list subjects" {
		t.Fatalf("unexpected op: %q", storageErr.Op)
	}
}

func countSubject(subjects []model.Subject, name string, weight int) int {
	n := 0
	for _, s := range subjects {
		if s.Name == name && s.Weight == weight {
			n++
		}
	}
	return n
}
