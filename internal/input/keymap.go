// Package input routes host input events to the guest, owning grab state and
// keyboard translation.
package input

// HostKey identifies a physical key as reported by the host windowing
// environment. The numbering follows the Linux event-code convention.
type HostKey uint16

// Scancode is the guest-visible key code (PC scancode set 1 for the main
// block). Zero means "no guest mapping" and is never submitted.
type Scancode uint32

// Host physical key identities.
const (
	KeyEsc HostKey = 1

	Key1 HostKey = 2
	Key2 HostKey = 3
	Key3 HostKey = 4
	Key4 HostKey = 5
	Key5 HostKey = 6
	Key6 HostKey = 7
	Key7 HostKey = 8
	Key8 HostKey = 9
	Key9 HostKey = 10
	Key0 HostKey = 11

	KeyMinus     HostKey = 12
	KeyEqual     HostKey = 13
	KeyBackspace HostKey = 14
	KeyTab       HostKey = 15

	KeyQ HostKey = 16
	KeyW HostKey = 17
	KeyE HostKey = 18
	KeyR HostKey = 19
	KeyT HostKey = 20
	KeyY HostKey = 21
	KeyU HostKey = 22
	KeyI HostKey = 23
	KeyO HostKey = 24
	KeyP HostKey = 25

	KeyLeftBrace  HostKey = 26
	KeyRightBrace HostKey = 27
	KeyEnter      HostKey = 28
	KeyLeftCtrl   HostKey = 29

	KeyA HostKey = 30
	KeyS HostKey = 31
	KeyD HostKey = 32
	KeyF HostKey = 33
	KeyG HostKey = 34
	KeyH HostKey = 35
	KeyJ HostKey = 36
	KeyK HostKey = 37
	KeyL HostKey = 38

	KeySemicolon  HostKey = 39
	KeyApostrophe HostKey = 40
	KeyGrave      HostKey = 41
	KeyLeftShift  HostKey = 42
	KeyBackslash  HostKey = 43

	KeyZ HostKey = 44
	KeyX HostKey = 45
	KeyC HostKey = 46
	KeyV HostKey = 47
	KeyB HostKey = 48
	KeyN HostKey = 49
	KeyM HostKey = 50

	KeyComma      HostKey = 51
	KeyDot        HostKey = 52
	KeySlash      HostKey = 53
	KeyRightShift HostKey = 54
	KeyLeftAlt    HostKey = 56
	KeySpace      HostKey = 57
	KeyCapsLock   HostKey = 58

	KeyF1  HostKey = 59
	KeyF2  HostKey = 60
	KeyF3  HostKey = 61
	KeyF4  HostKey = 62
	KeyF5  HostKey = 63
	KeyF6  HostKey = 64
	KeyF7  HostKey = 65
	KeyF8  HostKey = 66
	KeyF9  HostKey = 67
	KeyF10 HostKey = 68
	KeyF11 HostKey = 87
	KeyF12 HostKey = 88

	KeyRightCtrl HostKey = 97
	KeyRightAlt  HostKey = 100

	KeyHome     HostKey = 102
	KeyUp       HostKey = 103
	KeyPageUp   HostKey = 104
	KeyLeft     HostKey = 105
	KeyRight    HostKey = 106
	KeyEnd      HostKey = 107
	KeyDown     HostKey = 108
	KeyPageDown HostKey = 109
	KeyInsert   HostKey = 110
	KeyDelete   HostKey = 111

	KeyLeftMeta  HostKey = 125
	KeyRightMeta HostKey = 126
)

// hostToGuest maps host physical key identities to guest scancodes. The main
// block of set 1 matches the host numbering; extended keys carry the 0xE0
// prefix in the high byte.
var hostToGuest = map[HostKey]Scancode{
	KeyEsc: 0x01,

	Key1: 0x02, Key2: 0x03, Key3: 0x04, Key4: 0x05, Key5: 0x06,
	Key6: 0x07, Key7: 0x08, Key8: 0x09, Key9: 0x0a, Key0: 0x0b,

	KeyMinus:     0x0c,
	KeyEqual:     0x0d,
	KeyBackspace: 0x0e,
	KeyTab:       0x0f,

	KeyQ: 0x10, KeyW: 0x11, KeyE: 0x12, KeyR: 0x13, KeyT: 0x14,
	KeyY: 0x15, KeyU: 0x16, KeyI: 0x17, KeyO: 0x18, KeyP: 0x19,

	KeyLeftBrace:  0x1a,
	KeyRightBrace: 0x1b,
	KeyEnter:      0x1c,
	KeyLeftCtrl:   0x1d,

	KeyA: 0x1e, KeyS: 0x1f, KeyD: 0x20, KeyF: 0x21, KeyG: 0x22,
	KeyH: 0x23, KeyJ: 0x24, KeyK: 0x25, KeyL: 0x26,

	KeySemicolon:  0x27,
	KeyApostrophe: 0x28,
	KeyGrave:      0x29,
	KeyLeftShift:  0x2a,
	KeyBackslash:  0x2b,

	KeyZ: 0x2c, KeyX: 0x2d, KeyC: 0x2e, KeyV: 0x2f, KeyB: 0x30,
	KeyN: 0x31, KeyM: 0x32,

	KeyComma:      0x33,
	KeyDot:        0x34,
	KeySlash:      0x35,
	KeyRightShift: 0x36,
	KeyLeftAlt:    0x38,
	KeySpace:      0x39,
	KeyCapsLock:   0x3a,

	KeyF1: 0x3b, KeyF2: 0x3c, KeyF3: 0x3d, KeyF4: 0x3e, KeyF5: 0x3f,
	KeyF6: 0x40, KeyF7: 0x41, KeyF8: 0x42, KeyF9: 0x43, KeyF10: 0x44,
	KeyF11: 0x57, KeyF12: 0x58,

	KeyRightCtrl: 0xe01d,
	KeyRightAlt:  0xe038,

	KeyHome:     0xe047,
	KeyUp:       0xe048,
	KeyPageUp:   0xe049,
	KeyLeft:     0xe04b,
	KeyRight:    0xe04d,
	KeyEnd:      0xe04f,
	KeyDown:     0xe050,
	KeyPageDown: 0xe051,
	KeyInsert:   0xe052,
	KeyDelete:   0xe053,

	KeyLeftMeta:  0xe05b,
	KeyRightMeta: 0xe05c,
}

// Keymap translates host physical key identities to guest scancodes.
type Keymap struct {
	swapAltMeta bool
}

// NewKeymap creates a keymap. With swapAltMeta set, the Alt and Meta modifier
// identities exchange guest mappings; every other key is untouched. This
// accommodates host keyboards whose physical Alt/Meta convention differs from
// the guest's.
func NewKeymap(swapAltMeta bool) *Keymap {
	return &Keymap{swapAltMeta: swapAltMeta}
}

// Lookup returns the guest scancode for a host key, or zero when the host key
// has no guest mapping.
func (k *Keymap) Lookup(key HostKey) Scancode {
	if k.swapAltMeta {
		switch key {
		case KeyLeftAlt:
			key = KeyLeftMeta
		case KeyLeftMeta:
			key = KeyLeftAlt
		case KeyRightAlt:
			key = KeyRightMeta
		case KeyRightMeta:
			key = KeyRightAlt
		}
	}
	return hostToGuest[key]
}
