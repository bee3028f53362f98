package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Progress", []Series{
		{Name: "Score", Values: []float64{100, 300, 250, 600}},
		{Name: "Levels", Values: []float64{1, 1, 1}},
		{Name: "Empty"},
	}, 12, 3, false)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Progress\n") {
		t.Fatalf("expected title first, got %q", out)
	}
	if !strings.Contains(out, "Score (min 100, max 600)") {
		t.Fatalf("expected score range, got %q", out)
	}
	if !strings.Contains(out, "Levels (min 0, max 2)") {
		t.Fatalf("expected widened flat range, got %q", out)
	}
	if strings.Contains(out, "Empty") {
		t.Fatalf("empty series must be skipped")
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes")
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if want := 1 + 2*(1+3); len(lines) != want {
		t.Fatalf("expected %d lines, got %d", want, len(lines))
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 80-axisWidth-3 {
		t.Fatalf("unexpected width %d", got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width, got %d", got)
	}
}

func TestResample(t *testing.T) {
	if got := resample([]float64{2}, 3); len(got) != 3 || got[2] != 2 {
		t.Fatalf("unexpected single resample %v", got)
	}
	got := resample([]float64{0, 10}, 3)
	if got[0] != 0 || got[1] != 5 || got[2] != 10 {
		t.Fatalf("unexpected stretch %v", got)
	}
	got = resample([]float64{1, 3, 5, 7}, 2)
	if got[0] != 2 || got[1] != 6 {
		t.Fatalf("unexpected shrink %v", got)
	}
}
