package stats

import (
	"context"

	"github.com/verte-zerg/tuiaim/internal/model"
	"github.com/verte-zerg/tuiaim/internal/score"
)

// RunLister reads the run history.
type RunLister interface {
	ListRuns(ctx context.Context, cfg model.HistoryConfig) ([]model.RunRecord, error)
}

// Report contains precomputed data for history rendering.
type Report struct {
	Runs    []model.RunRecord
	Best    []model.RunRecord
	Stuck   []LevelCount
	Summary Summary
}

const (
	reportBestRuns = 5
	reportStuck    = 5
)

// BuildReport loads runs matching cfg and prepares them for rendering.
func BuildReport(ctx context.Context, st RunLister, cfg model.HistoryConfig) (Report, error) {
	runs, err := st.ListRuns(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Runs:    runs,
		Best:    BestRuns(runs, reportBestRuns),
		Stuck:   StuckLevels(runs, reportStuck),
		Summary: Summarize(runs),
	}, nil
}

// LoadScores reads the best-score table from p and ranks it.
func LoadScores(ctx context.Context, p score.Persister, n int) ([]model.ScoreRecord, error) {
	scores, err := p.LoadScores(ctx)
	if err != nil {
		return nil, err
	}
	return score.Rank(scores, n), nil
}
