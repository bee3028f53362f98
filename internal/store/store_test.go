package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/tuiaim/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "tuiaim.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestScoreFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := NewScoreFile(filepath.Join(t.TempDir(), "nested", "score.json"))
	if err := f.SaveScores(ctx, map[string]int{"alice": 300}); err != nil {
		t.Fatalf("save scores: %v", err)
	}
	scores, err := NewScoreFile(f.Path()).LoadScores(ctx)
	if err != nil {
		t.Fatalf("load scores: %v", err)
	}
	if len(scores) != 1 || scores["alice"] != 300 {
		t.Fatalf("unexpected scores: %v", scores)
	}
}

func TestScoreFileMissingIsEmpty(t *testing.T) {
	scores, err := NewScoreFile(filepath.Join(t.TempDir(), "score.json")).LoadScores(context.Background())
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if len(scores) != 0 {
		t.Fatalf("expected empty scores, got %v", scores)
	}
}

func TestScoreFileMalformedReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "score.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := NewScoreFile(path).LoadScores(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestStoreScoresRoundTripAndReplace(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	if err := st.SaveScores(ctx, map[string]int{"alice": 300, "bob": 120}); err != nil {
		t.Fatalf("save scores: %v", err)
	}
	if err := st.SaveScores(ctx, map[string]int{"alice": 410}); err != nil {
		t.Fatalf("save scores: %v", err)
	}
	scores, err := st.LoadScores(ctx)
	if err != nil {
		t.Fatalf("load scores: %v", err)
	}
	if len(scores) != 1 || scores["alice"] != 410 {
		t.Fatalf("expected the mapping to be rewritten, got %v", scores)
	}
}

func TestStoreRunsFilterAndLimit(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	base := time.Unix(0, 0).UTC()
	users := []string{"alice", "bob", "alice", "alice"}
	for i, user := range users {
		run := model.RunRecord{
			ID:              string(rune('a'+i)) + "-run",
			User:            user,
			StartedAt:       base.Add(time.Duration(i) * time.Hour),
			EndedAt:         base.Add(time.Duration(i)*time.Hour + 10*time.Minute),
			Score:           100 * (i + 1),
			LevelsCompleted: i + 1,
			LastLevel:       i + 2,
			TotalLevels:     100,
			Finished:        i == 3,
		}
		if err := st.InsertRun(ctx, run); err != nil {
			t.Fatalf("insert run: %v", err)
		}
	}

	runs, err := st.ListRuns(ctx, model.HistoryConfig{User: "alice", Last: 2})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Score != 300 || runs[1].Score != 400 {
		t.Fatalf("unexpected runs: %+v", runs)
	}
	if !runs[1].Finished || runs[0].Finished {
		t.Fatalf("finished flag not round-tripped: %+v", runs)
	}
	if !runs[1].EndedAt.Equal(base.Add(3*time.Hour + 10*time.Minute)) {
		t.Fatalf("unexpected end time: %v", runs[1].EndedAt)
	}

	all, err := st.ListRuns(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 runs, got %d", len(all))
	}
}

func TestStoreRunsSortChronologically(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	plus2 := time.FixedZone("plus2", 2*60*60)
	ends := []time.Time{
		base.Add(500 * time.Millisecond),
		base.Add(time.Second),
		// Same instant as base+1.5s written in a local offset.
		base.Add(1500 * time.Millisecond).In(plus2),
		base.Add(2*time.Second + time.Nanosecond),
	}
	// Insert out of order to make the query do the sorting.
	for _, i := range []int{3, 1, 2, 0} {
		run := model.RunRecord{
			ID:        fmt.Sprintf("run-%d", i),
			User:      "alice",
			StartedAt: ends[i].Add(-time.Minute),
			EndedAt:   ends[i],
			Score:     i,
		}
		if err := st.InsertRun(ctx, run); err != nil {
			t.Fatalf("insert run: %v", err)
		}
	}

	runs, err := st.ListRuns(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != len(ends) {
		t.Fatalf("expected %d runs, got %d", len(ends), len(runs))
	}
	for i, run := range runs {
		if run.Score != i {
			t.Fatalf("run %d out of order: %+v", i, runs)
		}
		if !run.EndedAt.Equal(ends[i]) {
			t.Fatalf("run %d end time %v, want %v", i, run.EndedAt, ends[i])
		}
	}

	last, err := st.ListRuns(ctx, model.HistoryConfig{Last: 1})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(last) != 1 || last[0].Score != 3 {
		t.Fatalf("expected the latest run, got %+v", last)
	}
}

func TestParseTimeAcceptsOlderRows(t *testing.T) {
	got, err := parseTime("2026-05-01T12:00:00.5Z")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !got.Equal(time.Date(2026, 5, 1, 12, 0, 0, 500000000, time.UTC)) {
		t.Fatalf("unexpected time %v", got)
	}
}
