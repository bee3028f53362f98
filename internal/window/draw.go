package window

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/verte-zerg/tuiaim/internal/layout"
	"github.com/verte-zerg/tuiaim/internal/stats"
	"github.com/verte-zerg/tuiaim/internal/trainer"
)

// Debug font cell size.
const (
	glyphW = 6
	glyphH = 16
)

var (
	colBackground = color.RGBA{R: 50, G: 50, B: 50, A: 255}
	colButton     = color.RGBA{R: 80, G: 80, B: 80, A: 255}
	colOuter      = color.RGBA{R: 30, A: 30}
	colInner      = color.RGBA{R: 70, A: 70}
	colRing       = color.RGBA{R: 120, A: 120}
	colReticle    = color.RGBA{G: 255, A: 255}
	colRule       = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	colModal      = color.RGBA{R: 20, G: 20, B: 20, A: 230}
)

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)
	snap := g.ctrl.Snapshot()
	w, h := layout.FieldWidth, layout.FieldHeight

	switch snap.Phase {
	case trainer.PhaseTrainingComplete:
		g.drawSummary(screen, snap)
		return
	case trainer.PhaseWaitingForAssets:
		centerText(screen, "No images. Use 'Change Directory' to load some.", w/2, h/2)
	default:
		g.drawScene(screen, snap)
	}

	info := fmt.Sprintf("Level %d  Time: %.2f/%.2f s  Recoil: %.0f px", snap.Level, snap.Dwell, snap.DwellTarget, snap.Offsets.RecoilOffset.Len())
	ebitenutil.DebugPrintAt(screen, info, 10, h-30)
	help := "Press F12 to release/capture the mouse"
	if g.status != "" {
		help = g.status
	}
	centerText(screen, help, w/2, h-70)
	drawButton(screen, layout.ChangeDirRect(), layout.ButtonChangeDir.Label())
	drawButton(screen, layout.SkipRect(w), layout.ButtonSkip.Label())
	drawScores(screen, snap, w)
	if g.dirMode {
		g.drawDirEntry(screen)
	}
}

func (g *Game) drawScene(screen *ebiten.Image, snap trainer.Snapshot) {
	if snap.OnTarget && snap.Image != nil {
		img, fit := g.reward.get(snap.AssetPath, snap.Image)
		if img != nil && fit.W > 0 {
			b := img.Bounds()
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(float64(fit.W)/float64(b.Dx()), float64(fit.H)/float64(b.Dy()))
			op.GeoM.Translate(float64(fit.X), float64(fit.Y))
			op.Filter = ebiten.FilterLinear
			screen.DrawImage(img, op)
		}
	}

	cx, cy := float32(snap.Center.X), float32(snap.Center.Y)
	tol := float32(snap.Params.ToleranceRadius)
	vector.DrawFilledCircle(screen, cx, cy, tol*1.1, colOuter, true)
	vector.DrawFilledCircle(screen, cx, cy, tol*0.8, colInner, true)
	vector.StrokeCircle(screen, cx, cy, tol*1.1, 2, colRing, true)

	ax, ay := float32(int(snap.Aim.X)), float32(int(snap.Aim.Y))
	vector.StrokeLine(screen, ax-10, ay, ax+10, ay, 2, colReticle, false)
	vector.StrokeLine(screen, ax, ay-10, ax, ay+10, 2, colReticle, false)
}

func drawButton(screen *ebiten.Image, r layout.Rect, label string) {
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), colButton, false)
	cx, cy := r.Center()
	centerText(screen, label, cx, cy)
}

func drawScores(screen *ebiten.Image, snap trainer.Snapshot, w int) {
	rightText(screen, fmt.Sprintf("Score: %d", snap.Score), w-20, 60)
	rightText(screen, fmt.Sprintf("Your best: %d", snap.Best), w-20, 80)
	rightText(screen, fmt.Sprintf("User: %s", snap.User), w-20, 100)

	y := 140
	rightText(screen, "HIGH SCORES", w-20, y)
	y += 25
	vector.StrokeLine(screen, float32(w-180), float32(y), float32(w-20), float32(y), 1, colRule, false)
	y += 10
	for i, rec := range snap.Top {
		marker := " "
		if rec.User == snap.User {
			marker = ">"
		}
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s%d.", marker, i+1), w-186, y)
		ebitenutil.DebugPrintAt(screen, stats.ShortName(rec.User), w-160, y)
		rightText(screen, fmt.Sprintf("%d", rec.Best), w-20, y)
		y += 20
	}
}

func (g *Game) drawSummary(screen *ebiten.Image, snap trainer.Snapshot) {
	w, h := layout.FieldWidth, layout.FieldHeight
	centerText(screen, "Training complete!", w/2, h/2-100)
	centerText(screen, fmt.Sprintf("Final score: %d", snap.Score), w/2, h/2-60)
	if snap.NewRecord {
		centerText(screen, "NEW RECORD!", w/2, h/2-20)
	}
	centerText(screen, fmt.Sprintf("Your best: %d", snap.Best), w/2, h/2+20)

	y := h/2 + 80
	centerText(screen, "HIGH SCORES", w/2, y)
	y += 30
	vector.StrokeLine(screen, float32(w/2-100), float32(y), float32(w/2+100), float32(y), 1, colRule, false)
	y += 10
	for i, rec := range snap.SummaryTop() {
		if y > h-40 {
			break
		}
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d. %s", i+1, stats.ShortName(rec.User)), w/2-100, y)
		rightText(screen, fmt.Sprintf("%d", rec.Best), w/2+100, y)
		y += 20
	}
	centerText(screen, "Press any key to exit", w/2, h-20)
}

func (g *Game) drawDirEntry(screen *ebiten.Image) {
	w, h := layout.FieldWidth, layout.FieldHeight
	vector.DrawFilledRect(screen, 100, float32(h/2-50), float32(w-200), 100, colModal, false)
	centerText(screen, "Change Directory (enter: load, esc: cancel)", w/2, h/2-25)
	ebitenutil.DebugPrintAt(screen, "> "+string(g.dirText)+"_", 120, h/2)
}

func centerText(screen *ebiten.Image, s string, cx, cy int) {
	ebitenutil.DebugPrintAt(screen, s, cx-len(s)*glyphW/2, cy-glyphH/2)
}

func rightText(screen *ebiten.Image, s string, right, y int) {
	ebitenutil.DebugPrintAt(screen, s, right-len(s)*glyphW, y)
}

// rewardCache keeps the GPU copy of the current reward image.
type rewardCache struct {
	path string
	img  *ebiten.Image
	fit  layout.Rect
}

func (c *rewardCache) get(path string, src image.Image) (*ebiten.Image, layout.Rect) {
	if c.img != nil && c.path == path {
		return c.img, c.fit
	}
	if c.img != nil {
		c.img.Deallocate()
	}
	b := src.Bounds()
	c.path = path
	c.img = ebiten.NewImageFromImage(src)
	c.fit = layout.Fit(b.Dx(), b.Dy(), layout.FieldWidth, layout.FieldHeight)
	return c.img, c.fit
}
