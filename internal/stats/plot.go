// Package stats contains run statistics and their text rendering.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Series is a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisWidth           = 7
	axisSeparator       = " │ "
	terminalWidthBackup = 80
)

var seriesStyles = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("#4FC3F7")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#E6B450")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#C678DD")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#7FD962")),
}

// PlotSeries renders each series as its own braille chart, scaled to its own
// range. Color is used when w is a terminal or useColor is set.
func PlotSeries(w io.Writer, title string, series []Series, width, height int, useColor bool) error {
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}
	color := shouldUseColor(w, useColor)
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for i, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		if err := plotOne(w, s, width, height, color, seriesStyles[i%len(seriesStyles)]); err != nil {
			return err
		}
	}
	return nil
}

func plotOne(w io.Writer, s Series, width, height int, color bool, style lipgloss.Style) error {
	values := resample(s.Values, width*2)
	lo, hi := minMax(values)
	if hi-lo < 1e-9 {
		lo--
		hi++
	}
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	dots := height * 4
	prevX, prevY := -1, -1
	for x, v := range values {
		y := int(math.Round((hi - v) / (hi - lo) * float64(dots-1)))
		if prevX >= 0 {
			line(prevX, prevY, x, y, func(px, py int) { setDot(cells, px, py) })
		} else {
			setDot(cells, x, y)
		}
		prevX, prevY = x, y
	}

	if _, err := fmt.Fprintf(w, "%s (min %.0f, max %.0f)\n", s.Name, lo, hi); err != nil {
		return err
	}
	for y, row := range cells {
		label := ""
		switch y {
		case 0:
			label = fmt.Sprintf("%.0f", hi)
		case height - 1:
			label = fmt.Sprintf("%.0f", lo)
		}
		var b strings.Builder
		for _, mask := range row {
			b.WriteRune(rune(0x2800 + int(mask)))
		}
		body := b.String()
		if color {
			body = style.Render(body)
		}
		if _, err := fmt.Fprintf(w, "%*s%s%s\n", axisWidth, label, axisSeparator, body); err != nil {
			return err
		}
	}
	return nil
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	width := totalWidth - axisWidth - lipgloss.Width(axisSeparator)
	if width < minPlotWidth {
		return minPlotWidth
	}
	return width
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// resample stretches or averages values onto n points.
func resample(values []float64, n int) []float64 {
	out := make([]float64, n)
	switch {
	case len(values) == 0 || n <= 0:
		return nil
	case len(values) == 1 || n == 1:
		for i := range out {
			out[i] = values[0]
		}
	case len(values) > n:
		for i := 0; i < n; i++ {
			start := i * len(values) / n
			end := (i + 1) * len(values) / n
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	default:
		for i := 0; i < n; i++ {
			pos := float64(i) * float64(len(values)-1) / float64(n-1)
			idx := int(pos)
			if idx >= len(values)-1 {
				out[i] = values[len(values)-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// line walks the Bresenham segment from (x0, y0) to (x1, y1).
func line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// braille dot bits indexed by [x%2][y%4].
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func setDot(cells [][]uint8, x, y int) {
	if x < 0 || y < 0 || y/4 >= len(cells) || x/2 >= len(cells[y/4]) {
		return
	}
	cells[y/4][x/2] |= dotBits[x%2][y%4]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
