package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateMapper_PressRelease(t *testing.T) {
	m := NewStateMapper(NewKeymap(false))

	events := m.HandleKeyTransition(KeyA, true)
	require.Len(t, events, 1)
	assert.Equal(t, Scancode(0x1e), events[0].Scancode)
	assert.True(t, events[0].Pressed)
	assert.Equal(t, 1, m.PressedCount())

	events = m.HandleKeyTransition(KeyA, false)
	require.Len(t, events, 1)
	assert.False(t, events[0].Pressed)
	assert.Equal(t, 0, m.PressedCount())
}

func TestStateMapper_ReleaseOfUnpressedKeyIsNoop(t *testing.T) {
	m := NewStateMapper(NewKeymap(false))

	events := m.HandleKeyTransition(KeyA, false)
	assert.Empty(t, events)
	assert.Equal(t, 0, m.PressedCount())
}

func TestStateMapper_UnknownKeyIsNoop(t *testing.T) {
	m := NewStateMapper(NewKeymap(false))

	events := m.HandleKeyTransition(HostKey(499), true)
	assert.Empty(t, events)
	assert.Equal(t, 0, m.PressedCount())
}

func TestStateMapper_ReleaseAllSynthesizesExactlyHeldKeys(t *testing.T) {
	m := NewStateMapper(NewKeymap(false))

	m.HandleKeyTransition(KeyA, true)
	m.HandleKeyTransition(KeyLeftShift, true)

	events := m.ReleaseAll()
	require.Len(t, events, 2)

	codes := map[Scancode]bool{}
	for _, ev := range events {
		assert.False(t, ev.Pressed)
		codes[ev.Scancode] = true
	}
	assert.True(t, codes[0x1e], "expected A release")
	assert.True(t, codes[0x2a], "expected left-shift release")

	assert.Equal(t, 0, m.PressedCount())
	assert.Empty(t, m.ReleaseAll(), "second release-all has nothing to do")
}

func TestStateMapper_StateIsPureFunctionOfTransitions(t *testing.T) {
	run := func() []KeyEvent {
		m := NewStateMapper(NewKeymap(false))
		var all []KeyEvent
		all = append(all, m.HandleKeyTransition(KeyLeftShift, true)...)
		all = append(all, m.HandleKeyTransition(KeyA, true)...)
		all = append(all, m.HandleKeyTransition(KeyA, false)...)
		all = append(all, m.ReleaseAll()...)
		return all
	}

	assert.Equal(t, run(), run())
}

func TestStateMapper_CapsLockMirror(t *testing.T) {
	m := NewStateMapper(NewKeymap(false))

	assert.False(t, m.CapsLocked())
	m.HandleKeyTransition(KeyCapsLock, true)
	m.HandleKeyTransition(KeyCapsLock, false)
	assert.True(t, m.CapsLocked())
	m.HandleKeyTransition(KeyCapsLock, true)
	m.HandleKeyTransition(KeyCapsLock, false)
	assert.False(t, m.CapsLocked())
}

func TestKeymap_SwapAltMeta(t *testing.T) {
	plain := NewKeymap(false)
	swapped := NewKeymap(true)

	// Swapped pairs exchange mappings
	assert.Equal(t, plain.Lookup(KeyLeftMeta), swapped.Lookup(KeyLeftAlt))
	assert.Equal(t, plain.Lookup(KeyLeftAlt), swapped.Lookup(KeyLeftMeta))
	assert.Equal(t, plain.Lookup(KeyRightMeta), swapped.Lookup(KeyRightAlt))
	assert.Equal(t, plain.Lookup(KeyRightAlt), swapped.Lookup(KeyRightMeta))

	// Every other key is untouched
	for _, key := range []HostKey{KeyA, KeyZ, Key1, KeyEnter, KeySpace, KeyLeftCtrl, KeyLeftShift, KeyF12} {
		assert.Equal(t, plain.Lookup(key), swapped.Lookup(key), "key %d", key)
	}
}
