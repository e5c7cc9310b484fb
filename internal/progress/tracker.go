// Package progress records daily completion and summarizes history.
package progress

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/studyplan/internal/model"
	"github.com/verte-zerg/studyplan/internal/planner"
)

// HistoryAppender is the store surface the tracker writes to.
type HistoryAppender interface {
	AppendHistory(ctx context.Context, date, subject string, status model.Status) (model.HistoryEntry, error)
}

// Tracker saves checkbox state as history rows.
type Tracker struct {
	store  HistoryAppender
	logger *zap.Logger
}

// NewTracker returns a Tracker writing to store.
func NewTracker(store HistoryAppender, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{store: store, logger: logger.Named("progress")}
}

// Save appends one history row per session subject dated today. Each row
// commits on its own, so a second call on the same day duplicates rows.
func (t *Tracker) Save(ctx context.Context, today time.Time, session *planner.Session) ([]model.HistoryEntry, error) {
	if !session.Active() {
		return nil, model.Invalid("Generate timetable first to save progress.")
	}
	date := today.Format(model.DateLayout)
	saved := make([]model.HistoryEntry, 0, len(session.Subjects()))
	for _, name := range session.Subjects() {
		entry, err := t.store.AppendHistory(ctx, date, name, model.StatusFor(session.Checked(name)))
		if err != nil {
			return saved, err
		}
		saved = append(saved, entry)
	}
	t.logger.Info("progress saved", zap.String("date", date), zap.Int("rows", len(saved)))
	return saved, nil
}
