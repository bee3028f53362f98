package tui

import (
	"context"
	"errors"
	"image"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuiaim/internal/asset"
	"github.com/verte-zerg/tuiaim/internal/level"
	"github.com/verte-zerg/tuiaim/internal/recoil"
	"github.com/verte-zerg/tuiaim/internal/score"
	"github.com/verte-zerg/tuiaim/internal/trainer"
)

type flatSource struct{}

func (flatSource) Float64() float64 { return 0.5 }
func (flatSource) Intn(int) int     { return 0 }

type solidLoader struct{}

func (solidLoader) Load(string) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
}

type memScores struct{}

func (memScores) LoadScores(context.Context) (map[string]int, error) {
	return map[string]int{"bo": 900}, nil
}

func (memScores) SaveScores(context.Context, map[string]int) error { return nil }

func newTestModel(t *testing.T, total int, pool []string, lister Lister) *Model {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	ledger := score.Open(context.Background(), memScores{}, "ana", logger)
	settings := trainer.Settings{TotalLevels: total, BaseDiameter: level.DefaultDiameter, Width: 800, Height: 600}
	ctrl, err := trainer.New(settings, ledger, solidLoader{}, asset.NewPool(pool), recoil.New(flatSource{}, 0), logger)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	m := NewModel(context.Background(), ctrl, Options{FPS: 60, Lister: lister})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func TestCapturedMotionMovesAim(t *testing.T) {
	m := newTestModel(t, 5, []string{"a.png"}, nil)
	t0 := time.Unix(100, 0)
	m.Update(tickMsg(t0))
	m.Update(mouse(tea.MouseActionMotion, 40, 10))
	m.Update(mouse(tea.MouseActionMotion, 42, 10))
	m.Update(tickMsg(t0.Add(16 * time.Millisecond)))
	if got := m.ctrl.Snapshot().Distance; got != 2*pxPerCol {
		t.Fatalf("expected distance %v, got %v", 2*pxPerCol, got)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyF12})
	if m.Captured() {
		t.Fatalf("expected F12 to release the pointer")
	}
	m.Update(mouse(tea.MouseActionMotion, 50, 20))
	m.Update(mouse(tea.MouseActionMotion, 60, 20))
	m.Update(tickMsg(t0.Add(32 * time.Millisecond)))
	if got := m.ctrl.Snapshot().Distance; got != 2*pxPerCol {
		t.Fatalf("released pointer must not move the aim, got %v", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyF12})
	if !m.Captured() {
		t.Fatalf("expected F12 to capture again")
	}
}

func TestPressedDwellUsesClampedDelta(t *testing.T) {
	m := newTestModel(t, 5, []string{"a.png"}, nil)
	t0 := time.Unix(100, 0)
	m.Update(tickMsg(t0))
	m.Update(mouse(tea.MouseActionPress, 40, 12))
	m.Update(tickMsg(t0.Add(5 * time.Second)))
	snap := m.ctrl.Snapshot()
	if !snap.OnTarget || snap.Dwell != maxDT {
		t.Fatalf("expected clamped dwell %v, got %+v", maxDT, snap)
	}
	m.Update(mouse(tea.MouseActionRelease, 40, 12))
	m.Update(tickMsg(t0.Add(5*time.Second + 16*time.Millisecond)))
	if snap := m.ctrl.Snapshot(); snap.OnTarget || snap.Dwell != 0 {
		t.Fatalf("expected release to reset dwell, got %+v", snap)
	}
}

func TestSkipButtonAndKey(t *testing.T) {
	m := newTestModel(t, 5, []string{"a.png"}, nil)
	t0 := time.Unix(100, 0)
	m.Update(mouse(tea.MouseActionPress, 80-buttonMargin-1, 2))
	m.Update(tickMsg(t0))
	if m.ctrl.Level() != 2 {
		t.Fatalf("expected skip button to advance, got level %d", m.ctrl.Level())
	}
	if m.pressed {
		t.Fatalf("button click must not hold the trigger")
	}
	m.Update(key("s"))
	m.Update(tickMsg(t0.Add(time.Millisecond)))
	if m.ctrl.Level() != 3 {
		t.Fatalf("expected skip key to advance, got level %d", m.ctrl.Level())
	}
	if !strings.Contains(m.View(), "Level 2 skipped") {
		t.Fatalf("expected skip status in footer")
	}
}

func TestChangeDirectoryLoadsPool(t *testing.T) {
	var asked []string
	lister := func(dir string) ([]string, error) {
		asked = append(asked, dir)
		switch dir {
		case "imgs":
			return []string{"imgs/a.png"}, nil
		case "broken":
			return nil, errors.New("permission denied")
		}
		return nil, nil
	}
	m := newTestModel(t, 5, nil, lister)
	t0 := time.Unix(100, 0)
	m.Update(tickMsg(t0))
	if !strings.Contains(m.View(), "No images") {
		t.Fatalf("expected waiting message")
	}

	m.Update(key("d"))
	m.Update(key("empty"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tickMsg(t0.Add(time.Millisecond)))
	if m.ctrl.Phase() != trainer.PhaseWaitingForAssets || !strings.Contains(m.status, "No images in empty") {
		t.Fatalf("expected no change for empty directory, got %v %q", m.ctrl.Phase(), m.status)
	}

	m.Update(mouse(tea.MouseActionPress, buttonMargin, 1))
	if !m.dirMode {
		t.Fatalf("expected change directory button to open the prompt")
	}
	if !strings.Contains(m.View(), "Change Directory") {
		t.Fatalf("expected modal view")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.dirMode || m.ctrl.Phase() == trainer.PhaseQuit {
		t.Fatalf("esc must only close the prompt")
	}

	m.Update(key("d"))
	m.dirInput.SetValue("imgs")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tickMsg(t0.Add(2 * time.Millisecond)))
	snap := m.ctrl.Snapshot()
	if snap.Phase != trainer.PhasePlaying || snap.AssetPath != "imgs/a.png" || snap.Level != 1 {
		t.Fatalf("expected play with new pool at level 1, got %+v", snap)
	}
	if len(asked) != 2 || asked[0] != "empty" || asked[1] != "imgs" {
		t.Fatalf("unexpected lister calls %v", asked)
	}
}

func TestViewShowsHUD(t *testing.T) {
	m := newTestModel(t, 5, []string{"a.png"}, nil)
	view := m.View()
	for _, want := range []string{"Change Directory", "Skip Level", "Level 1/5", "Score: 0", "Best: 0", "User: ana", "HIGH SCORES", "bo", "900", "F12"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
	if lines := strings.Count(view, "\n") + 1; lines != 24 {
		t.Fatalf("expected 24 lines, got %d", lines)
	}
}

func TestSummaryAndQuit(t *testing.T) {
	m := newTestModel(t, 1, nil, nil)
	m.Update(key("s"))
	m.Update(tickMsg(time.Unix(100, 0)))
	view := m.View()
	if !strings.Contains(view, "Training complete!") || !strings.Contains(view, "Final score: 0") {
		t.Fatalf("expected summary view:\n%s", view)
	}
	_, cmd := m.Update(key("x"))
	if cmd == nil || m.ctrl.Phase() != trainer.PhaseQuit {
		t.Fatalf("expected any key to quit from the summary")
	}
	if m.View() != "" {
		t.Fatalf("expected empty view after quit")
	}
}

func TestEscQuits(t *testing.T) {
	m := newTestModel(t, 5, []string{"a.png"}, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil || m.ctrl.Phase() != trainer.PhaseQuit {
		t.Fatalf("expected esc to quit")
	}
	if _, cmd := m.Update(tickMsg(time.Unix(100, 0))); cmd != nil {
		t.Fatalf("expected ticking to stop after quit")
	}
}

type manyScores struct{}

func (manyScores) LoadScores(context.Context) (map[string]int, error) {
	return map[string]int{"u1": 700, "u2": 600, "u3": 500, "u4": 400, "u5": 300, "u6": 200, "u7": 100}, nil
}

func (manyScores) SaveScores(context.Context, map[string]int) error { return nil }

func newModelWith(t *testing.T, total int, shake float64, scores score.Persister) *Model {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	ledger := score.Open(context.Background(), scores, "ana", logger)
	settings := trainer.Settings{TotalLevels: total, BaseDiameter: level.DefaultDiameter, Width: 800, Height: 600}
	ctrl, err := trainer.New(settings, ledger, solidLoader{}, asset.NewPool([]string{"a.png"}), recoil.New(flatSource{}, shake), logger)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	m := NewModel(context.Background(), ctrl, Options{FPS: 60})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func TestSummaryListsLeadingFive(t *testing.T) {
	m := newModelWith(t, 1, 0, manyScores{})
	m.Update(key("s"))
	m.Update(tickMsg(time.Unix(100, 0)))
	view := m.View()
	if !strings.Contains(view, "u5") {
		t.Fatalf("expected fifth entry in summary:\n%s", view)
	}
	if strings.Contains(view, "u6") || strings.Contains(view, "u7") {
		t.Fatalf("summary must stop after five entries:\n%s", view)
	}
}

func TestReleaseOutsideTerminalClearsTrigger(t *testing.T) {
	m := newTestModel(t, 5, []string{"a.png"}, nil)
	m.Update(mouse(tea.MouseActionPress, 40, 12))
	m.Update(tea.MouseMsg{X: 41, Y: 12, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	if m.pressed {
		t.Fatalf("motion without a button must release the trigger")
	}
	m.Update(mouse(tea.MouseActionPress, 40, 12))
	m.Update(tea.KeyMsg{Type: tea.KeyF12})
	if m.pressed {
		t.Fatalf("F12 must release the trigger")
	}
}

func TestWheelCompletesLastLevelBeyondTerminalHeight(t *testing.T) {
	// Level 1 of a one-level run: recoil pulls the aim up 3 px per frame,
	// so the dwell needs far more pull than the grid is tall.
	m := newModelWith(t, 1, 10, memScores{})
	t0 := time.Unix(100, 0)
	m.Update(mouse(tea.MouseActionPress, 40, 12))
	notches := 0
	for frame := 0; frame < 400 && m.ctrl.Phase() == trainer.PhasePlaying; frame++ {
		off := m.ctrl.Snapshot().Offsets
		if off.Compensation.Y+off.RecoilOffset.Y <= -4 {
			m.Update(tea.MouseMsg{X: 40, Y: 12, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
			notches++
		}
		m.Update(tickMsg(t0.Add(time.Duration(frame) * time.Second / 60)))
	}
	if m.ctrl.Phase() != trainer.PhaseTrainingComplete {
		t.Fatalf("expected the last level to complete, phase %v", m.ctrl.Phase())
	}
	if notches <= m.gridRows() {
		t.Fatalf("expected more pull than the grid height, got %d notches for %d rows", notches, m.gridRows())
	}
}
