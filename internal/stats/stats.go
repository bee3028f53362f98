// Package stats contains run statistics and their text rendering.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/tuiaim/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a set of runs.
type Summary struct {
	Runs           int
	Finished       int
	BestScore      int
	AvgScore       float64
	AvgCompleted   float64
	CompletionRate float64
	TotalTime      float64
}

// Summarize computes aggregate metrics over runs.
func Summarize(runs []model.RunRecord) Summary {
	s := Summary{Runs: len(runs)}
	if len(runs) == 0 {
		return s
	}
	var score, completed, attempted float64
	for _, r := range runs {
		if r.Finished {
			s.Finished++
		}
		if r.Score > s.BestScore {
			s.BestScore = r.Score
		}
		score += float64(r.Score)
		completed += float64(r.LevelsCompleted)
		attempted += float64(r.LevelsCompleted + r.LevelsSkipped)
		if d := r.EndedAt.Sub(r.StartedAt).Seconds(); d > 0 {
			s.TotalTime += d
		}
	}
	count := float64(len(runs))
	s.AvgScore = score / count
	s.AvgCompleted = completed / count
	if attempted > 0 {
		s.CompletionRate = completed / attempted
	}
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := minMax(values)
	if math.Abs(hi-lo) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Scores extracts the run scores in order.
func Scores(runs []model.RunRecord) []float64 {
	out := make([]float64, len(runs))
	for i, r := range runs {
		out[i] = float64(r.Score)
	}
	return out
}

// RenderScores prints the ranked high-score table, marking highlight.
func RenderScores(w io.Writer, records []model.ScoreRecord, highlight string) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No scores yet.")
		return err
	}
	rows := make([][]string, 0, len(records))
	for i, r := range records {
		mark := ""
		if highlight != "" && r.User == highlight {
			mark = "*"
		}
		rows = append(rows, []string{fmt.Sprintf("%d.", i+1), ShortName(r.User), fmt.Sprintf("%d", r.Best), mark})
	}
	if _, err := fmt.Fprintln(w, "HIGH SCORES"); err != nil {
		return err
	}
	for _, line := range formatTable([]string{"#", "User", "Best", ""}, rows, map[int]bool{0: true, 2: true}) {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// RenderSummary prints aggregate metrics for runs.
func RenderSummary(w io.Writer, runs []model.RunRecord) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs found.")
		return err
	}
	s := Summarize(runs)
	lines := []string{
		"Summary",
		fmt.Sprintf("Runs: %d (%d finished)", s.Runs, s.Finished),
		fmt.Sprintf("Best score: %d", s.BestScore),
		fmt.Sprintf("Avg score: %.1f", s.AvgScore),
		fmt.Sprintf("Avg levels completed: %.1f", s.AvgCompleted),
		fmt.Sprintf("Completion rate: %.1f%%", s.CompletionRate*100),
		fmt.Sprintf("Trend: %s", Sparkline(Scores(runs))),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderRuns prints one row per run, oldest first.
func RenderRuns(w io.Writer, runs []model.RunRecord) error {
	if len(runs) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		status := "quit"
		if r.Finished {
			status = "done"
		}
		rows = append(rows, []string{
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			ShortName(r.User),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d/%d", r.LastLevel, r.TotalLevels),
			fmt.Sprintf("%d", r.LevelsCompleted),
			fmt.Sprintf("%d", r.LevelsSkipped),
			status,
		})
	}
	headers := []string{"Ended", "User", "Score", "Level", "Done", "Skipped", "Status"}
	for _, line := range formatTable(headers, rows, map[int]bool{2: true, 3: true, 4: true, 5: true}) {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCurvesWithSize plots smoothed score and completed levels per run.
func RenderCurvesWithSize(w io.Writer, runs []model.RunRecord, window, totalWidth, height int, useColor bool) error {
	if len(runs) == 0 {
		return nil
	}
	completed := make([]float64, len(runs))
	for i, r := range runs {
		completed[i] = float64(r.LevelsCompleted)
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeries(w, "Progress", []Series{
		{Name: "Score", Values: MovingAverage(Scores(runs), window)},
		{Name: "Levels completed", Values: MovingAverage(completed, window)},
	}, width, height, useColor)
}
