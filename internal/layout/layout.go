// Package layout holds the screen geometry shared by the frontends.
package layout

// Field size in virtual pixels.
const (
	FieldWidth  = 800
	FieldHeight = 600
)

// Button geometry.
const (
	ButtonWidth  = 180
	ButtonHeight = 40
	ButtonMargin = 20
)

// Rect is an axis-aligned rectangle with an exclusive right and bottom edge.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Center returns the integer midpoint of r.
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Button identifies an on-screen control.
type Button int

const (
	ButtonNone Button = iota
	ButtonChangeDir
	ButtonSkip
)

// Label returns the caption drawn on b.
func (b Button) Label() string {
	switch b {
	case ButtonChangeDir:
		return "Change Directory"
	case ButtonSkip:
		return "Skip Level"
	default:
		return ""
	}
}

// ChangeDirRect is the top-left button.
func ChangeDirRect() Rect {
	return Rect{X: ButtonMargin, Y: ButtonMargin, W: ButtonWidth, H: ButtonHeight}
}

// SkipRect is the top-right button for a field of the given width.
func SkipRect(width int) Rect {
	return Rect{X: width - ButtonWidth - ButtonMargin, Y: ButtonMargin, W: ButtonWidth, H: ButtonHeight}
}

// HitTest returns the button under (x, y).
func HitTest(width, x, y int) Button {
	switch {
	case ChangeDirRect().Contains(x, y):
		return ButtonChangeDir
	case SkipRect(width).Contains(x, y):
		return ButtonSkip
	default:
		return ButtonNone
	}
}

// Fit scales an imgW x imgH image to fit inside w x h keeping its aspect
// ratio and centers it. A degenerate image yields an empty rect.
func Fit(imgW, imgH, w, h int) Rect {
	if imgW <= 0 || imgH <= 0 || w <= 0 || h <= 0 {
		return Rect{}
	}
	ratio := float64(w) / float64(imgW)
	if r := float64(h) / float64(imgH); r < ratio {
		ratio = r
	}
	fw := int(float64(imgW) * ratio)
	fh := int(float64(imgH) * ratio)
	return Rect{X: (w - fw) / 2, Y: (h - fh) / 2, W: fw, H: fh}
}
