// Package window provides the desktop training interface on Ebiten.
package window

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/verte-zerg/tuiaim/internal/aim"
	"github.com/verte-zerg/tuiaim/internal/layout"
	"github.com/verte-zerg/tuiaim/internal/trainer"
)

const (
	windowTitle = "Aim Training"
	defaultTPS  = 60
)

// Lister resolves a directory to the image paths it contributes.
type Lister func(dir string) ([]string, error)

// Options configures the window frontend.
type Options struct {
	FPS    int
	Dir    string
	Lister Lister
}

// frame is the raw input gathered for one tick.
type frame struct {
	cursorX, cursorY int
	clicked          bool
	pressed          bool
	toggleCapture    bool
	skip             bool
	changeDir        bool
	escape           bool
	enter            bool
	backspace        bool
	anyKey           bool
	closing          bool
	chars            []rune
}

// Game implements ebiten.Game around a controller.
type Game struct {
	ctx    context.Context
	ctrl   *trainer.Controller
	lister Lister
	dt     float64

	captured  bool
	lastX     int
	lastY     int
	hasCursor bool

	dir     string
	dirMode bool
	dirText []rune
	status  string
	pool    []string

	reward rewardCache
}

// New returns a Game stepping ctrl once per tick.
func New(ctx context.Context, ctrl *trainer.Controller, opts Options) *Game {
	if ctx == nil {
		ctx = context.Background()
	}
	tps := opts.FPS
	if tps <= 0 {
		tps = defaultTPS
	}
	return &Game{
		ctx:      ctx,
		ctrl:     ctrl,
		lister:   opts.Lister,
		dt:       1 / float64(tps),
		captured: true,
		dir:      opts.Dir,
	}
}

// Run opens the window and blocks until the player quits.
func Run(g *Game) error {
	ebiten.SetWindowSize(layout.FieldWidth, layout.FieldHeight)
	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetTPS(int(1/g.dt + 0.5))
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("failed to run window: %w", err)
	}
	return nil
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	x, y := ebiten.CursorPosition()
	f := frame{
		cursorX:       x,
		cursorY:       y,
		clicked:       inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		pressed:       ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		toggleCapture: inpututil.IsKeyJustPressed(ebiten.KeyF12),
		skip:          inpututil.IsKeyJustPressed(ebiten.KeyS),
		changeDir:     inpututil.IsKeyJustPressed(ebiten.KeyD),
		escape:        inpututil.IsKeyJustPressed(ebiten.KeyEscape),
		enter:         inpututil.IsKeyJustPressed(ebiten.KeyEnter),
		backspace:     inpututil.IsKeyJustPressed(ebiten.KeyBackspace),
		anyKey:        len(inpututil.AppendJustPressedKeys(nil)) > 0,
		closing:       ebiten.IsWindowBeingClosed(),
		chars:         ebiten.AppendInputChars(nil),
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		f.escape = true
	}
	wasCaptured := g.captured
	done := g.apply(f)
	if g.captured != wasCaptured {
		if g.captured {
			ebiten.SetCursorMode(ebiten.CursorModeCaptured)
		} else {
			ebiten.SetCursorMode(ebiten.CursorModeVisible)
		}
	}
	if done {
		return ebiten.Termination
	}
	return nil
}

// apply advances the game by one frame and reports whether it is over.
func (g *Game) apply(f frame) bool {
	if g.ctrl.Phase() == trainer.PhaseQuit {
		return true
	}
	if f.closing {
		g.ctrl.Step(g.ctx, trainer.Input{Quit: true})
		return true
	}
	if g.dirMode {
		g.editDir(f)
		return false
	}
	if g.ctrl.Phase() == trainer.PhaseTrainingComplete {
		if f.anyKey || f.clicked {
			g.ctrl.Step(g.ctx, trainer.Input{Quit: true})
			return true
		}
		return false
	}
	if f.escape {
		g.ctrl.Step(g.ctx, trainer.Input{Quit: true})
		return true
	}
	if f.toggleCapture {
		g.captured = !g.captured
		g.hasCursor = false
	}

	in := trainer.Input{DT: g.dt, Captured: g.captured, Pressed: f.pressed, Skip: f.skip, Pool: g.pool}
	g.pool = nil
	if g.hasCursor && g.captured {
		in.Delta = aim.Vec{X: float64(f.cursorX - g.lastX), Y: float64(f.cursorY - g.lastY)}
	}
	g.lastX, g.lastY = f.cursorX, f.cursorY
	g.hasCursor = true

	if f.clicked && !g.captured {
		switch layout.HitTest(layout.FieldWidth, f.cursorX, f.cursorY) {
		case layout.ButtonChangeDir:
			g.startDir()
			return false
		case layout.ButtonSkip:
			in.Skip = true
			in.Pressed = false
		}
	}
	if f.changeDir {
		g.startDir()
		return false
	}

	switch g.ctrl.Step(g.ctx, in) {
	case trainer.EventLevelComplete:
		g.status = fmt.Sprintf("Level %d complete", g.ctrl.Level()-1)
	case trainer.EventLevelSkipped:
		g.status = fmt.Sprintf("Level %d skipped", g.ctrl.Level()-1)
	}
	return g.ctrl.Phase() == trainer.PhaseQuit
}

func (g *Game) startDir() {
	g.dirMode = true
	g.dirText = []rune(g.dir)
	g.status = ""
}

// editDir handles the inline directory entry.
func (g *Game) editDir(f frame) {
	switch {
	case f.escape:
		g.dirMode = false
		return
	case f.enter:
		g.dirMode = false
		g.applyDir(strings.TrimSpace(string(g.dirText)))
		return
	case f.backspace && len(g.dirText) > 0:
		g.dirText = g.dirText[:len(g.dirText)-1]
	}
	g.dirText = append(g.dirText, f.chars...)
}

// applyDir replaces the pool when dir holds images; otherwise nothing changes.
func (g *Game) applyDir(dir string) {
	if dir == "" || g.lister == nil {
		return
	}
	paths, err := g.lister(dir)
	if err != nil {
		g.status = err.Error()
		return
	}
	if len(paths) == 0 {
		g.status = fmt.Sprintf("No images in %s", dir)
		return
	}
	g.dir = dir
	g.status = fmt.Sprintf("Loaded %d images from %s", len(paths), dir)
	g.pool = paths
}

// Layout implements ebiten.Game.
func (g *Game) Layout(_, _ int) (int, int) {
	return layout.FieldWidth, layout.FieldHeight
}
