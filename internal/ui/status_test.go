package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/bnema/vmview/internal/console"
)

func TestModel_StatusMsgUpdatesView(t *testing.T) {
	m := NewModel(nil)

	updated, _ := m.Update(StatusMsg(console.Status{
		Grabbed: true,
		Width:   1024,
		Height:  768,
	}))
	m = updated.(Model)

	view := m.View()
	assert.Contains(t, view, "grabbed")
	assert.Contains(t, view, "1024x768")
}

func TestModel_UninitializedDisplay(t *testing.T) {
	m := NewModel(nil)

	view := m.View()
	assert.Contains(t, view, "released")
	assert.Contains(t, view, "not initialized")
}

func TestModel_ToggleGrabKey(t *testing.T) {
	toggled := 0
	m := NewModel(func() { toggled++ })

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	assert.Equal(t, 1, toggled)
}

func TestModel_QuitKey(t *testing.T) {
	m := NewModel(nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd)
}
