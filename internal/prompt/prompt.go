// Package prompt asks the player for a user name.
package prompt

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultName is used when the player enters nothing or cancels.
const DefaultName = "Anonymous"

const nameLimit = 32

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Model is the name entry dialog.
type Model struct {
	input     textinput.Model
	done      bool
	cancelled bool
	width     int
	height    int
}

// NewModel returns a focused name dialog.
func NewModel() *Model {
	input := textinput.New()
	input.Prompt = "Name: "
	input.Placeholder = DefaultName
	input.CharLimit = nameLimit
	input.Width = nameLimit
	input.Cursor.SetMode(cursor.CursorBlink)
	input.Focus()
	return &Model{input: input}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.done || m.cancelled {
		return ""
	}
	body := strings.Join([]string{
		titleStyle.Render("Who is training?"),
		m.input.View(),
		hintStyle.Render(fmt.Sprintf("enter: confirm  esc: train as %s", DefaultName)),
	}, "\n")
	box := boxStyle.Render(body)
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// Name returns the entered name, or DefaultName when empty or cancelled.
func (m *Model) Name() string {
	if m.cancelled {
		return DefaultName
	}
	return Normalize(m.input.Value())
}

// Normalize trims name and substitutes DefaultName for an empty one.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultName
	}
	return name
}

// AskName runs the dialog and returns the chosen name.
func AskName(opts ...tea.ProgramOption) (string, error) {
	m := NewModel()
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return DefaultName, fmt.Errorf("failed to run name prompt: %w", err)
	}
	if fm, ok := final.(*Model); ok {
		return fm.Name(), nil
	}
	return DefaultName, nil
}
