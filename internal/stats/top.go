package stats

import (
	"sort"

	"github.com/verte-zerg/tuiaim/internal/model"
)

// BestRuns returns the top n runs by score; ties go to the earlier run.
func BestRuns(runs []model.RunRecord, n int) []model.RunRecord {
	if n <= 0 || len(runs) == 0 {
		return nil
	}
	items := append([]model.RunRecord(nil), runs...)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score == items[j].Score {
			return items[i].EndedAt.Before(items[j].EndedAt)
		}
		return items[i].Score > items[j].Score
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
