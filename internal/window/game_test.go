package window

import (
	"context"
	"image"
	"io"
	"log"
	"testing"

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

func (memScores) LoadScores(context.Context) (map[string]int, error) { return nil, nil }
func (memScores) SaveScores(context.Context, map[string]int) error   { return nil }

func newTestGame(t *testing.T, total int, pool []string, lister Lister) *Game {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	ledger := score.Open(context.Background(), memScores{}, "ana", logger)
	settings := trainer.Settings{TotalLevels: total, BaseDiameter: level.DefaultDiameter, Width: 800, Height: 600}
	ctrl, err := trainer.New(settings, ledger, solidLoader{}, asset.NewPool(pool), recoil.New(flatSource{}, 0), logger)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return New(context.Background(), ctrl, Options{FPS: 50, Lister: lister})
}

func TestCursorDeltaOnlyWhileCaptured(t *testing.T) {
	g := newTestGame(t, 5, []string{"a.png"}, nil)
	g.apply(frame{cursorX: 100, cursorY: 100})
	g.apply(frame{cursorX: 103, cursorY: 104})
	if got := g.ctrl.Snapshot().Distance; got != 5 {
		t.Fatalf("expected distance 5, got %v", got)
	}
	g.apply(frame{cursorX: 103, cursorY: 104, toggleCapture: true})
	g.apply(frame{cursorX: 300, cursorY: 300})
	if got := g.ctrl.Snapshot().Distance; got != 5 {
		t.Fatalf("released cursor must not move the aim, got %v", got)
	}
}

func TestDwellUsesTickRate(t *testing.T) {
	g := newTestGame(t, 5, []string{"a.png"}, nil)
	g.apply(frame{pressed: true})
	if got := g.ctrl.Snapshot().Dwell; got != 0.02 {
		t.Fatalf("expected one tick of dwell, got %v", got)
	}
}

func TestSkipButtonNeedsVisibleCursor(t *testing.T) {
	g := newTestGame(t, 5, []string{"a.png"}, nil)
	g.apply(frame{cursorX: 700, cursorY: 30, clicked: true, pressed: true})
	if g.ctrl.Level() != 1 {
		t.Fatalf("captured clicks must not hit buttons")
	}
	g.apply(frame{cursorX: 700, cursorY: 30, toggleCapture: true})
	g.apply(frame{cursorX: 700, cursorY: 30, clicked: true, pressed: true})
	if g.ctrl.Level() != 2 || g.status != "Level 1 skipped" {
		t.Fatalf("expected skip button to advance, got level %d status %q", g.ctrl.Level(), g.status)
	}
}

func TestDirectoryEntry(t *testing.T) {
	lister := func(dir string) ([]string, error) {
		if dir == "imgs" {
			return []string{"imgs/a.png", "imgs/b.png"}, nil
		}
		return nil, nil
	}
	g := newTestGame(t, 5, nil, lister)
	g.apply(frame{changeDir: true})
	if !g.dirMode {
		t.Fatalf("expected directory entry")
	}
	g.apply(frame{chars: []rune("imgx")})
	g.apply(frame{backspace: true})
	g.apply(frame{chars: []rune("s")})
	if string(g.dirText) != "imgs" {
		t.Fatalf("unexpected entry %q", string(g.dirText))
	}
	g.apply(frame{enter: true})
	if g.dirMode || g.ctrl.Phase() != trainer.PhaseWaitingForAssets {
		t.Fatalf("pool applies on the next frame")
	}
	g.apply(frame{})
	if snap := g.ctrl.Snapshot(); snap.Phase != trainer.PhasePlaying || snap.PoolSize != 2 {
		t.Fatalf("expected play with two images, got %+v", snap)
	}

	g.apply(frame{changeDir: true})
	g.dirText = []rune("nothing")
	g.apply(frame{enter: true})
	g.apply(frame{})
	if g.status != "No images in nothing" || g.ctrl.Snapshot().PoolSize != 2 {
		t.Fatalf("empty directory must leave the pool, got %q", g.status)
	}
}

func TestQuitPaths(t *testing.T) {
	g := newTestGame(t, 5, []string{"a.png"}, nil)
	if !g.apply(frame{escape: true}) || g.ctrl.Phase() != trainer.PhaseQuit {
		t.Fatalf("expected escape to quit")
	}

	g = newTestGame(t, 5, []string{"a.png"}, nil)
	if !g.apply(frame{closing: true}) {
		t.Fatalf("expected window close to quit")
	}

	g = newTestGame(t, 1, nil, nil)
	g.apply(frame{skip: true})
	if g.ctrl.Phase() != trainer.PhaseTrainingComplete {
		t.Fatalf("expected training complete")
	}
	if g.apply(frame{}) {
		t.Fatalf("summary stays until input")
	}
	if !g.apply(frame{anyKey: true}) {
		t.Fatalf("expected any key to leave the summary")
	}
}
