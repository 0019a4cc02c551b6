// Package ui renders a terminal status view for the running bridge.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/vmview/internal/console"
)

// StatusMsg updates the view with a fresh driver snapshot. Send it from any
// goroutine via tea.Program.Send.
type StatusMsg console.Status

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(12)

	grabbedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	ungrabbedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

type keyMap struct {
	ToggleGrab key.Binding
	Quit       key.Binding
}

var defaultKeyMap = keyMap{
	ToggleGrab: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "toggle grab"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Model is the bubbletea model for the status view.
type Model struct {
	status console.Status
	keys   keyMap

	// onToggleGrab posts the grab toggle onto the driver's UI loop.
	onToggleGrab func()
}

// NewModel creates the status model.
func NewModel(onToggleGrab func()) Model {
	return Model{
		keys:         defaultKeyMap,
		onToggleGrab: onToggleGrab,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StatusMsg:
		m.status = console.Status(msg)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.ToggleGrab):
			if m.onToggleGrab != nil {
				m.onToggleGrab()
			}
			return m, nil
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	grab := ungrabbedStyle.Render("released")
	if m.status.Grabbed {
		grab = grabbedStyle.Render("grabbed")
	}

	pointer := "relative"
	if m.status.PointerAbsolute {
		pointer = "absolute"
	}

	resolution := "not initialized"
	if m.status.Width > 0 {
		resolution = fmt.Sprintf("%dx%d", m.status.Width, m.status.Height)
	}

	rows := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("vmview"),
		"",
		labelStyle.Render("input")+grab,
		labelStyle.Render("pointer")+pointer,
		labelStyle.Render("display")+resolution,
		labelStyle.Render("clipboard")+fmt.Sprintf("%d pushes", m.status.ClipboardPushes),
		helpStyle.Render("g: toggle grab • q: quit"),
	)
	return rows + "\n"
}
