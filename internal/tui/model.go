// Package tui provides the Bubble Tea training interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuiaim/internal/aim"
	"github.com/verte-zerg/tuiaim/internal/layout"
	"github.com/verte-zerg/tuiaim/internal/trainer"
)

// Virtual pixels covered by one terminal cell. Cells are roughly twice as
// tall as they are wide.
const (
	pxPerCol = 4.0
	pxPerRow = 8.0
)

const (
	defaultFPS = 60
	maxDT      = 0.1
	footerRows = 2
	minCols    = 48
	minRows    = 12
)

// Lister resolves a directory to the image paths it contributes.
type Lister func(dir string) ([]string, error)

// Options configures the terminal frontend.
type Options struct {
	FPS    int
	Dir    string
	Lister Lister
}

type tickMsg time.Time

// Model implements the Bubble Tea training UI.
type Model struct {
	ctx    context.Context
	ctrl   *trainer.Controller
	fps    int
	lister Lister

	width  int
	height int

	lastTick time.Time
	captured bool
	pressed  bool
	delta    aim.Vec
	skip     bool
	pool     []string

	mouseX, mouseY int
	hasMouse       bool

	dir       string
	dirMode   bool
	dirInput  textinput.Model
	status    string
	quitting  bool
	imgCache  imageCache
}

var (
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E6B450"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00")).Bold(true)
	recordStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF3232")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C8C8C8"))
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))
	modalStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// NewModel constructs the training TUI around a controller.
func NewModel(ctx context.Context, ctrl *trainer.Controller, opts Options) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = defaultFPS
	}
	input := textinput.New()
	input.Prompt = "Directory: "
	input.Placeholder = "path/to/images"
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		fps:      fps,
		lister:   opts.Lister,
		dir:      opts.Dir,
		captured: true,
		dirInput: input,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m.handleTick(time.Time(msg))
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		if m.dirMode {
			return m.updateDirInput(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	dt := 0.0
	if !m.lastTick.IsZero() {
		dt = now.Sub(m.lastTick).Seconds()
	}
	m.lastTick = now
	if dt < 0 {
		dt = 0
	}
	if dt > maxDT {
		dt = maxDT
	}
	if m.dirMode {
		return m, m.tick()
	}
	in := trainer.Input{
		DT:       dt,
		Delta:    m.delta,
		Captured: m.captured,
		Pressed:  m.pressed,
		Skip:     m.skip,
		Pool:     m.pool,
	}
	m.delta = aim.Vec{}
	m.skip = false
	m.pool = nil
	switch m.ctrl.Step(m.ctx, in) {
	case trainer.EventLevelComplete:
		m.status = fmt.Sprintf("Level %d complete", m.ctrl.Level()-1)
	case trainer.EventLevelSkipped:
		m.status = fmt.Sprintf("Level %d skipped", m.ctrl.Level()-1)
	}
	if m.ctrl.Phase() == trainer.PhaseQuit {
		m.quitting = true
		return m, tea.Quit
	}
	return m, m.tick()
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.ctrl.Step(m.ctx, trainer.Input{Quit: true})
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
		return m.quit()
	}
	if m.ctrl.Phase() == trainer.PhaseTrainingComplete {
		return m.quit()
	}
	switch msg.Type {
	case tea.KeyF12:
		m.captured = !m.captured
		m.hasMouse = false
		m.pressed = false
		return m, nil
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "s", "n":
			m.skip = true
		case "d":
			return m.startDirInput()
		case "q":
			return m.quit()
		}
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.dirMode || m.quitting {
		return m, nil
	}
	switch msg.Action {
	case tea.MouseActionMotion:
		if msg.Button == tea.MouseButtonNone {
			m.pressed = false
		}
		m.moveTo(msg.X, msg.Y)
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			m.scroll(1)
			return m, nil
		case tea.MouseButtonWheelUp:
			m.scroll(-1)
			return m, nil
		}
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if m.ctrl.Phase() == trainer.PhaseTrainingComplete {
			return m.quit()
		}
		switch hitButton(m.gridCols(), msg.X, msg.Y) {
		case layout.ButtonChangeDir:
			return m.startDirInput()
		case layout.ButtonSkip:
			m.skip = true
			return m, nil
		}
		m.pressed = true
		m.moveTo(msg.X, msg.Y)
	case tea.MouseActionRelease:
		m.pressed = false
		m.moveTo(msg.X, msg.Y)
	}
	return m, nil
}

// moveTo turns absolute cell positions into a virtual-pixel delta.
func (m *Model) moveTo(x, y int) {
	if m.hasMouse && m.captured {
		m.delta = m.delta.Add(aim.Vec{
			X: float64(x-m.mouseX) * pxPerCol,
			Y: float64(y-m.mouseY) * pxPerRow,
		})
	}
	m.mouseX, m.mouseY = x, y
	m.hasMouse = true
}

// scroll moves the aim one row per wheel notch. Unlike cell positions the
// wheel is not bounded by the terminal height.
func (m *Model) scroll(rows int) {
	if !m.captured {
		return
	}
	m.delta = m.delta.Add(aim.Vec{Y: float64(rows) * pxPerRow})
}

func (m *Model) startDirInput() (tea.Model, tea.Cmd) {
	m.dirMode = true
	m.pressed = false
	m.status = ""
	m.dirInput.SetValue(m.dir)
	m.dirInput.CursorEnd()
	return m, m.dirInput.Focus()
}

func (m *Model) updateDirInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m.quit()
	case tea.KeyEsc:
		m.dirMode = false
		m.dirInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.dirMode = false
		m.dirInput.Blur()
		m.applyDir(strings.TrimSpace(m.dirInput.Value()))
		return m, nil
	}
	var cmd tea.Cmd
	m.dirInput, cmd = m.dirInput.Update(msg)
	return m, cmd
}

// applyDir queues a pool change. An empty entry or a directory without
// images leaves the pool untouched.
func (m *Model) applyDir(dir string) {
	if dir == "" || m.lister == nil {
		return
	}
	paths, err := m.lister(dir)
	if err != nil {
		m.status = err.Error()
		return
	}
	if len(paths) == 0 {
		m.status = fmt.Sprintf("No images in %s", dir)
		return
	}
	m.dir = dir
	m.pool = paths
	m.status = fmt.Sprintf("Loaded %d images from %s", len(paths), dir)
}

// Captured reports whether pointer motion is applied to the aim.
func (m *Model) Captured() bool {
	return m.captured
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.dirMode {
		return m.renderDirModal()
	}
	snap := m.ctrl.Snapshot()
	if snap.Phase == trainer.PhaseTrainingComplete {
		return m.renderSummary(snap)
	}
	if m.width < minCols || m.height < minRows {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			statusStyle.Render(fmt.Sprintf("Terminal too small (need %dx%d)", minCols, minRows)))
	}
	grid := m.renderField(snap)
	return grid + "\n" + m.renderFooter(snap)
}

func (m *Model) gridCols() int {
	return m.width
}

func (m *Model) gridRows() int {
	rows := m.height - footerRows
	if rows < 1 {
		return 1
	}
	return rows
}

func (m *Model) renderFooter(snap trainer.Snapshot) string {
	info := fmt.Sprintf("Level %d/%d  Time: %.2f/%.2f s  Recoil: %.0f px", snap.Level, snap.TotalLevels, snap.Dwell, snap.DwellTarget, snap.Offsets.RecoilOffset.Len())
	if snap.Phase == trainer.PhaseWaitingForAssets {
		info = fmt.Sprintf("Level %d/%d  waiting for images", snap.Level, snap.TotalLevels)
	}
	if m.status != "" {
		info += "  " + m.status
	}
	capture := "release"
	if !m.captured {
		capture = "capture"
	}
	help := fmt.Sprintf("F12: %s pointer  wheel: pull down  d: change directory  s: skip level  esc: quit", capture)
	return footerStyle.Render(truncate(info, m.width)) + "\n" + helpStyle.Render(truncate(help, m.width))
}

func (m *Model) renderDirModal() string {
	body := []string{
		titleStyle.Render("Change Directory"),
		m.dirInput.View(),
		helpStyle.Render("enter: load images  esc: cancel"),
	}
	width := m.width - 4
	if width > 80 {
		width = 80
	}
	if width < 20 {
		width = 20
	}
	box := modalStyle.Width(width).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) renderSummary(snap trainer.Snapshot) string {
	lines := []string{
		titleStyle.Render("Training complete!"),
		"",
		scoreStyle.Render(fmt.Sprintf("Final score: %d", snap.Score)),
	}
	if snap.NewRecord {
		lines = append(lines, recordStyle.Render("NEW RECORD!"))
	}
	lines = append(lines,
		fmt.Sprintf("Your best: %d", snap.Best),
		"",
		scoreStyle.Render("HIGH SCORES"),
	)
	lines = append(lines, scoreLines(snap, 24)...)
	lines = append(lines, "", helpStyle.Render("press any key to exit"))
	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	return string(runes[:width])
}
