package stats

import (
	"sort"

	"github.com/verte-zerg/tuiaim/internal/model"
)

// LevelCount is how many unfinished runs stopped at a level.
type LevelCount struct {
	Level int
	Runs  int
}

// StuckLevels returns the levels where unfinished runs ended most often,
// most frequent first, lower level on ties.
func StuckLevels(runs []model.RunRecord, top int) []LevelCount {
	counts := map[int]int{}
	for _, r := range runs {
		if r.Finished || r.LastLevel <= 0 {
			continue
		}
		counts[r.LastLevel]++
	}
	out := make([]LevelCount, 0, len(counts))
	for level, n := range counts {
		out = append(out, LevelCount{Level: level, Runs: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Runs == out[j].Runs {
			return out[i].Level < out[j].Level
		}
		return out[i].Runs > out[j].Runs
	})
	if top > 0 && top < len(out) {
		out = out[:top]
	}
	return out
}
