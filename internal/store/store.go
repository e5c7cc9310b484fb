// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/verte-zerg/studyplan/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for subjects and history.
// Every mutating call runs in autocommit mode.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, storageErr("create db directory", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storageErr("open", err)
	}
	store := &Store{db: db, logger: logger.Named("store")}
	if err := store.migrate(context.Background()); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, storageErr("migrate", err)
	}
	store.logger.Debug("database opened", zap.String("path", path))
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddSubject inserts a subject. Duplicate names are allowed.
func (s *Store) AddSubject(ctx context.Context, name string, weight int) (model.Subject, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO subjects (name, weight) VALUES (?, ?)`, name, weight)
	if err != nil {
		return model.Subject{}, s.fail("add subject", err, zap.String("name", name))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Subject{}, s.fail("add subject", err, zap.String("name", name))
	}
	s.logger.Debug("subject added", zap.Int64("id", id), zap.String("name", name), zap.Int("weight", weight))
	return model.Subject{ID: id, Name: name, Weight: weight}, nil
}

// RemoveSubject deletes every subject with the given name and reports how many
// rows went away. History rows are left alone.
func (s *Store) RemoveSubject(ctx context.Context, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM subjects WHERE name = ?`, name)
	if err != nil {
		return 0, s.fail("remove subject", err, zap.String("name", name))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, s.fail("remove subject", err, zap.String("name", name))
	}
	s.logger.Debug("subject removed", zap.String("name", name), zap.Int64("rows", n))
	return n, nil
}

// ListSubjects returns all subjects in insertion order.
func (s *Store) ListSubjects(ctx context.Context) ([]model.Subject, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, weight FROM subjects ORDER BY id ASC`)
	if err != nil {
		return nil, s.fail("list subjects", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var subjects []model.Subject
	for rows.Next() {
		var sub model.Subject
		var name sql.NullString
		var weight sql.NullInt64
		if err := rows.Scan(&sub.ID, &name, &weight); err != nil {
			return nil, s.fail("list subjects", err)
		}
		sub.Name = name.String
		sub.Weight = int(weight.Int64)
		subjects = append(subjects, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list subjects", err)
	}
	return subjects, nil
}

// AppendHistory inserts one history row. Same-day duplicates are kept.
func (s *Store) AppendHistory(ctx context.Context, date, subject string, status model.Status) (model.HistoryEntry, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO history (date, subject, status) VALUES (?, ?, ?)`, date, subject, string(status))
	if err != nil {
		return model.HistoryEntry{}, s.fail("append history", err, zap.String("subject", subject))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.HistoryEntry{}, s.fail("append history", err, zap.String("subject", subject))
	}
	s.logger.Debug("history appended",
		zap.Int64("id", id),
		zap.String("date", date),
		zap.String("subject", subject),
		zap.String("status", string(status)))
	return model.HistoryEntry{ID: id, Date: date, Subject: subject, Status: status}, nil
}

// ListHistory returns all history rows, newest insert first.
func (s *Store) ListHistory(ctx context.Context) ([]model.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, date, subject, status FROM history ORDER BY id DESC`)
	if err != nil {
		return nil, s.fail("list history", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []model.HistoryEntry
	for rows.Next() {
		var entry model.HistoryEntry
		var date, subject, status sql.NullString
		if err := rows.Scan(&entry.ID, &date, &subject, &status); err != nil {
			return nil, s.fail("list history", err)
		}
		entry.Date = date.String
		entry.Subject = subject.String
		entry.Status = model.Status(status.String)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list history", err)
	}
	return entries, nil
}

func (s *Store) fail(op string, err error, fields ...zap.Field) error {
	s.logger.Error(op+" failed", append(fields, zap.Error(err))...)
	return storageErr(op, err)
}

func storageErr(op string, err error) error {
	return &model.StorageError{Op: op, Err: err}
}
