package score

import (
	"sort"

	"github.com/verte-zerg/tuiaim/internal/model"
)

// Rank returns the top n records by best score. Equal scores are ordered by
// user name. n <= 0 returns every record.
func Rank(scores map[string]int, n int) []model.ScoreRecord {
	if len(scores) == 0 {
		return nil
	}
	items := make([]model.ScoreRecord, 0, len(scores))
	for user, best := range scores {
		items = append(items, model.ScoreRecord{User: user, Best: best})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Best == items[j].Best {
			return items[i].User < items[j].User
		}
		return items[i].Best > items[j].Best
	})
	if n > 0 && n < len(items) {
		items = items[:n]
	}
	return items
}
