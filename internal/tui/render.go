package tui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/draw"

	"github.com/verte-zerg/tuiaim/internal/aim"
	"github.com/verte-zerg/tuiaim/internal/layout"
	"github.com/verte-zerg/tuiaim/internal/stats"
	"github.com/verte-zerg/tuiaim/internal/trainer"
)

// Terminal button geometry, in cells.
const (
	buttonCols   = 20
	buttonRows   = 3
	buttonMargin = 2
	hudCols      = 24
)

var (
	backgroundColor = color.RGBA{R: 50, G: 50, B: 50, A: 255}
	buttonColor     = color.RGBA{R: 80, G: 80, B: 80, A: 255}
	targetColor     = color.RGBA{R: 255, A: 255}
	reticleColor    = color.RGBA{G: 255, A: 255}
	textColor       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	highlightColor  = color.RGBA{R: 255, G: 255, A: 255}
	otherColor      = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	ruleColor       = color.RGBA{R: 150, G: 150, B: 150, A: 255}
)

type cell struct {
	ch rune
	fg color.RGBA
	bg color.RGBA
}

type grid struct {
	cols, rows int
	cells      []cell
}

func newGrid(cols, rows int) *grid {
	g := &grid{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
	for i := range g.cells {
		g.cells[i] = cell{ch: ' ', fg: textColor, bg: backgroundColor}
	}
	return g
}

func (g *grid) at(c, r int) *cell {
	if c < 0 || r < 0 || c >= g.cols || r >= g.rows {
		return nil
	}
	return &g.cells[r*g.cols+c]
}

// text writes s starting at (c, r); wide runes take two cells.
func (g *grid) text(c, r int, s string, fg color.RGBA) {
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if cl := g.at(c, r); cl != nil {
			cl.ch = ch
			cl.fg = fg
		}
		if w == 2 {
			if cl := g.at(c+1, r); cl != nil {
				cl.ch = 0
			}
		}
		c += w
	}
}

// textRight writes s so that it ends just before column c.
func (g *grid) textRight(c, r int, s string, fg color.RGBA) {
	g.text(c-runewidth.StringWidth(s), r, s, fg)
}

func (g *grid) fill(rect layout.Rect, bg color.RGBA) {
	for r := rect.Y; r < rect.Y+rect.H; r++ {
		for c := rect.X; c < rect.X+rect.W; c++ {
			if cl := g.at(c, r); cl != nil {
				cl.bg = bg
				cl.ch = ' '
			}
		}
	}
}

// String renders the grid, merging runs of identical colors.
func (g *grid) String() string {
	var out strings.Builder
	for r := 0; r < g.rows; r++ {
		if r > 0 {
			out.WriteByte('\n')
		}
		row := g.cells[r*g.cols : (r+1)*g.cols]
		start := 0
		for start < len(row) {
			end := start + 1
			for end < len(row) && row[end].fg == row[start].fg && row[end].bg == row[start].bg {
				end++
			}
			var run strings.Builder
			for _, cl := range row[start:end] {
				if cl.ch != 0 {
					run.WriteRune(cl.ch)
				}
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hex(row[start].fg))).
				Background(lipgloss.Color(hex(row[start].bg)))
			out.WriteString(style.Render(run.String()))
			start = end
		}
	}
	return out.String()
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// blend mixes over onto base with alpha a in [0, 255].
func blend(base, over color.RGBA, a uint8) color.RGBA {
	mix := func(b, o uint8) uint8 {
		return uint8((int(b)*(255-int(a)) + int(o)*int(a)) / 255)
	}
	return color.RGBA{R: mix(base.R, over.R), G: mix(base.G, over.G), B: mix(base.B, over.B), A: 255}
}

func changeDirRect() layout.Rect {
	return layout.Rect{X: buttonMargin, Y: 1, W: buttonCols, H: buttonRows}
}

func skipRect(cols int) layout.Rect {
	return layout.Rect{X: cols - buttonCols - buttonMargin, Y: 1, W: buttonCols, H: buttonRows}
}

func hitButton(cols, x, y int) layout.Button {
	switch {
	case changeDirRect().Contains(x, y):
		return layout.ButtonChangeDir
	case skipRect(cols).Contains(x, y):
		return layout.ButtonSkip
	default:
		return layout.ButtonNone
	}
}

// fieldMapper maps virtual field coordinates onto the grid so that the
// target center sits in the middle cell.
type fieldMapper struct {
	center aim.Vec
	cx, cy int
}

func (f fieldMapper) cellX(c int) float64 {
	return f.center.X + float64(c-f.cx)*pxPerCol
}

// halfY is the virtual y of the center of half-row h.
func (f fieldMapper) halfY(h int) float64 {
	return f.center.Y + (float64(h)-2*float64(f.cy)-0.5)*pxPerRow/2
}

func (f fieldMapper) cellOf(v aim.Vec) (int, int) {
	c := f.cx + int(math.Round((v.X-f.center.X)/pxPerCol))
	r := f.cy + int(math.Round((v.Y-f.center.Y)/pxPerRow))
	return c, r
}

func (m *Model) renderField(snap trainer.Snapshot) string {
	g := newGrid(m.gridCols(), m.gridRows())
	fm := fieldMapper{center: snap.Center, cx: g.cols / 2, cy: g.rows / 2}

	if snap.Phase == trainer.PhaseWaitingForAssets {
		msg := "No images. Press d or click Change Directory to load some."
		g.text((g.cols-runewidth.StringWidth(msg))/2, g.rows/2, msg, textColor)
	} else {
		m.drawScene(g, fm, snap)
	}
	drawButton(g, changeDirRect(), layout.ButtonChangeDir.Label())
	drawButton(g, skipRect(g.cols), layout.ButtonSkip.Label())
	drawHUD(g, snap)
	return g.String()
}

func (m *Model) drawScene(g *grid, fm fieldMapper, snap trainer.Snapshot) {
	var reward *image.RGBA
	if snap.OnTarget && snap.Image != nil {
		reward = m.imgCache.scaled(snap.AssetPath, snap.Image, g.cols, g.rows*2)
	}
	tol := snap.Params.ToleranceRadius
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			cl := g.at(c, r)
			top, bottom := backgroundColor, backgroundColor
			if reward != nil {
				top = pixel(reward, c, 2*r)
				bottom = pixel(reward, c, 2*r+1)
			}
			x := fm.cellX(c)
			top = tint(top, math.Hypot(x-fm.center.X, fm.halfY(2*r)-fm.center.Y), tol)
			bottom = tint(bottom, math.Hypot(x-fm.center.X, fm.halfY(2*r+1)-fm.center.Y), tol)
			if top != bottom {
				cl.ch = '▀'
				cl.fg = top
			}
			cl.bg = bottom
		}
	}

	c, r := fm.cellOf(snap.Aim)
	c = clampInt(c, 0, g.cols-1)
	r = clampInt(r, 0, g.rows-1)
	for dc := -2; dc <= 2; dc++ {
		if cl := g.at(c+dc, r); cl != nil && dc != 0 {
			cl.ch, cl.fg = '─', reticleColor
		}
	}
	for _, dr := range []int{-1, 1} {
		if cl := g.at(c, r+dr); cl != nil {
			cl.ch, cl.fg = '│', reticleColor
		}
	}
	if cl := g.at(c, r); cl != nil {
		cl.ch, cl.fg = '┼', reticleColor
	}
}

// tint shades a pixel at distance d from the target like the translucent
// target rings.
func tint(base color.RGBA, d, tol float64) color.RGBA {
	switch {
	case d <= tol*0.8:
		return blend(base, targetColor, 70)
	case d <= tol*1.1:
		return blend(base, targetColor, 30)
	default:
		return base
	}
}

func pixel(img *image.RGBA, x, y int) color.RGBA {
	if !(image.Point{X: x, Y: y}.In(img.Bounds())) {
		return backgroundColor
	}
	px := img.RGBAAt(x, y)
	if px.A == 0 {
		return backgroundColor
	}
	return blend(backgroundColor, color.RGBA{R: px.R, G: px.G, B: px.B, A: 255}, px.A)
}

func drawButton(g *grid, rect layout.Rect, label string) {
	g.fill(rect, buttonColor)
	cx, cy := rect.Center()
	g.text(cx-runewidth.StringWidth(label)/2, cy, label, textColor)
}

func drawHUD(g *grid, snap trainer.Snapshot) {
	right := g.cols - buttonMargin
	r := buttonRows + 2
	for _, line := range []string{
		fmt.Sprintf("Score: %d", snap.Score),
		fmt.Sprintf("Best: %d", snap.Best),
		fmt.Sprintf("User: %s", stats.ShortName(snap.User)),
	} {
		g.textRight(right, r, line, textColor)
		r++
	}
	r++
	g.textRight(right, r, "HIGH SCORES", highlightColor)
	r++
	g.textRight(right, r, strings.Repeat("─", hudCols-4), ruleColor)
	r++
	for i, rec := range snap.Top {
		fg := otherColor
		if rec.User == snap.User {
			fg = highlightColor
		}
		g.text(right-hudCols, r, fmt.Sprintf("%2d.", i+1), fg)
		g.text(right-hudCols+4, r, stats.ShortName(rec.User), fg)
		g.textRight(right, r, fmt.Sprintf("%d", rec.Best), fg)
		r++
	}
}

// scoreLines renders the high-score table for the summary screen.
func scoreLines(snap trainer.Snapshot, width int) []string {
	top := snap.SummaryTop()
	lines := make([]string, 0, len(top))
	for i, rec := range top {
		left := fmt.Sprintf("%2d. %s", i+1, stats.ShortName(rec.User))
		right := fmt.Sprintf("%d", rec.Best)
		pad := width - runewidth.StringWidth(left) - runewidth.StringWidth(right)
		if pad < 1 {
			pad = 1
		}
		line := left + strings.Repeat(" ", pad) + right
		if rec.User == snap.User {
			lines = append(lines, currentStyle.Render(line))
		} else {
			lines = append(lines, mutedStyle.Render(line))
		}
	}
	return lines
}

// imageCache keeps the last reward image scaled to the grid.
type imageCache struct {
	path string
	w, h int
	img  *image.RGBA
}

func (c *imageCache) scaled(path string, src image.Image, w, h int) *image.RGBA {
	if c.img != nil && c.path == path && c.w == w && c.h == h {
		return c.img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	b := src.Bounds()
	fit := layout.Fit(b.Dx(), b.Dy(), w, h)
	if fit.W > 0 && fit.H > 0 {
		target := image.Rect(fit.X, fit.Y, fit.X+fit.W, fit.Y+fit.H)
		draw.ApproxBiLinear.Scale(dst, target, src, b, draw.Src, nil)
	}
	c.path, c.w, c.h, c.img = path, w, h, dst
	return dst
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
