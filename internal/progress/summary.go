package progress

import (
	"sort"

	"github.com/verte-zerg/studyplan/internal/model"
)

// Summarize counts done and total rows per subject, most recorded first.
func Summarize(history []model.HistoryEntry) []model.SubjectSummary {
	if len(history) == 0 {
		return nil
	}
	bySubject := map[string]*model.SubjectSummary{}
	for _, entry := range history {
		sum, ok := bySubject[entry.Subject]
		if !ok {
			sum = &model.SubjectSummary{Subject: entry.Subject}
			bySubject[entry.Subject] = sum
		}
		sum.Total++
		if entry.Status == model.StatusDone {
			sum.Done++
		}
	}
	out := make([]model.SubjectSummary, 0, len(bySubject))
	for _, sum := range bySubject {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total == out[j].Total {
			return out[i].Subject < out[j].Subject
		}
		return out[i].Total > out[j].Total
	})
	return out
}
