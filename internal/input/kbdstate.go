package input

import (
	"github.com/bnema/vmview/internal/logger"
)

// maxHostKey bounds the pressed-key bitset.
const maxHostKey = 512

// KeyEvent is a translated guest key event.
type KeyEvent struct {
	Scancode Scancode
	Pressed  bool
}

// StateMapper is a stateful translator from host key transitions to guest key
// events. Guest-visible key state is a pure function of the transition
// sequence fed to it: releasing a key it never saw pressed is a no-op, and
// ReleaseAll guarantees the guest never observes a key stuck down after
// capture ends.
//
// StateMapper is owned by the UI-loop goroutine and is not safe for
// concurrent use.
type StateMapper struct {
	keymap *Keymap
	down   [maxHostKey / 64]uint64

	// Mirrors the host lock-key state so lock drift can be detected at the
	// next transition rather than trusted blindly.
	capsLocked bool
}

// NewStateMapper creates a mapper using the given keymap.
func NewStateMapper(keymap *Keymap) *StateMapper {
	return &StateMapper{keymap: keymap}
}

// HandleKeyTransition translates one host key transition into zero or more
// guest key events. Unknown host keys produce no events rather than errors.
func (m *StateMapper) HandleKeyTransition(key HostKey, pressed bool) []KeyEvent {
	code := m.keymap.Lookup(key)
	if code == 0 {
		logger.Debugf("No guest mapping for host key %d", key)
		return nil
	}

	if !pressed && !m.isDown(key) {
		// Release of a key we never saw pressed: expected race, drop it.
		return nil
	}

	if key == KeyCapsLock && pressed {
		m.capsLocked = !m.capsLocked
	}
	m.setDown(key, pressed)

	return []KeyEvent{{Scancode: code, Pressed: pressed}}
}

// ReleaseAll synthesizes release events for every key currently believed
// pressed, in host-key order, and clears the tracked state. Called on ungrab
// or focus loss.
func (m *StateMapper) ReleaseAll() []KeyEvent {
	var events []KeyEvent
	for key := HostKey(0); key < maxHostKey; key++ {
		if !m.isDown(key) {
			continue
		}
		m.setDown(key, false)
		if code := m.keymap.Lookup(key); code != 0 {
			events = append(events, KeyEvent{Scancode: code, Pressed: false})
		}
	}
	if len(events) > 0 {
		logger.Debugf("Synthesized %d release events", len(events))
	}
	return events
}

// CapsLocked reports the mirrored caps-lock state.
func (m *StateMapper) CapsLocked() bool {
	return m.capsLocked
}

// PressedCount returns how many keys the mapper believes are down.
func (m *StateMapper) PressedCount() int {
	n := 0
	for key := HostKey(0); key < maxHostKey; key++ {
		if m.isDown(key) {
			n++
		}
	}
	return n
}

func (m *StateMapper) isDown(key HostKey) bool {
	return m.down[key/64]&(1<<(key%64)) != 0
}

func (m *StateMapper) setDown(key HostKey, pressed bool) {
	if pressed {
		m.down[key/64] |= 1 << (key % 64)
	} else {
		m.down[key/64] &^= 1 << (key % 64)
	}
}
