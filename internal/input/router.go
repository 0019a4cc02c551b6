package input

import (
	"fmt"
	"strings"

	"github.com/bnema/vmview/internal/logger"
)

// EventType classifies a host event.
type EventType int

const (
	EventKey EventType = iota
	EventPointerMove
	EventPointerButton
	EventScroll
)

// Button is a pointer button bitmask. Wheel ticks are reported as transient
// button presses, mirroring how emulated pointer devices expect them.
type Button uint8

const (
	ButtonLeft Button = 1 << iota
	ButtonMiddle
	ButtonRight
	ButtonWheelUp
	ButtonWheelDown
)

// Modifier is a host modifier bitmask tracked by the router.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
	ModMeta
)

// Event is a host input event. Pointer coordinates are in host window space;
// DX/DY carry relative motion for hosts that report deltas.
type Event struct {
	Type EventType

	// Key events
	Key     HostKey
	Pressed bool

	// Pointer events
	X, Y    float64
	DX, DY  float64
	Buttons Button

	// Scroll events, positive is up/right
	ScrollDY float64
	ScrollDX float64
}

// Sink receives translated guest input events.
type Sink interface {
	SubmitKeyEvent(code Scancode, pressed bool) error
	SubmitPointerEvent(x, y int32, buttons Button, absolute bool) error
}

// Hotkey is a modifier-qualified key that toggles the grab.
type Hotkey struct {
	Mods Modifier
	Key  HostKey
}

// Router consumes host events, consults the grab controller and keyboard
// mapper, and emits guest input events. HandleEvent reports whether the event
// was consumed; false means the host's default handling should proceed.
//
// Router is owned by the UI-loop goroutine.
type Router struct {
	grab *GrabController
	keys *StateMapper
	sink Sink

	winW, winH     int
	guestW, guestH int

	mods   Modifier
	hotkey Hotkey

	// onPointer reports the guest-space pointer position for cursor
	// compositing on the absolute path.
	onPointer func(x, y int)
}

// NewRouter creates a router feeding the given sink.
func NewRouter(grab *GrabController, keys *StateMapper, sink Sink, hotkey Hotkey) *Router {
	return &Router{
		grab:   grab,
		keys:   keys,
		sink:   sink,
		hotkey: hotkey,
	}
}

// OnPointerPosition registers a callback receiving guest-space pointer
// positions from the absolute path.
func (r *Router) OnPointerPosition(fn func(x, y int)) {
	r.onPointer = fn
}

// SetWindowSize records the host window dimensions used for coordinate
// rescaling.
func (r *Router) SetWindowSize(w, h int) {
	r.winW, r.winH = w, h
}

// SetGuestSize records the guest display dimensions, updated on every guest
// resize.
func (r *Router) SetGuestSize(w, h int) {
	r.guestW, r.guestH = w, h
}

// HandleEvent processes one host event and reports whether it was consumed.
func (r *Router) HandleEvent(ev Event) bool {
	switch ev.Type {
	case EventKey:
		return r.handleKey(ev)
	case EventPointerMove:
		return r.handlePointerMove(ev)
	case EventPointerButton:
		return r.handlePointerButton(ev)
	case EventScroll:
		return r.handleScroll(ev)
	default:
		return false
	}
}

// ReleaseKeys synthesizes releases for everything the mapper believes is
// down and forwards them to the guest. Called on ungrab and focus loss.
func (r *Router) ReleaseKeys() {
	for _, ke := range r.keys.ReleaseAll() {
		r.submitKey(ke)
	}
	r.mods = 0
}

func (r *Router) handleKey(ev Event) bool {
	r.trackModifier(ev.Key, ev.Pressed)

	if ev.Pressed && ev.Key == r.hotkey.Key && r.mods == r.hotkey.Mods {
		if r.grab.IsGrabbed() {
			r.grab.Ungrab()
		} else {
			r.grab.Grab()
		}
		return true
	}

	// Meta-qualified combinations are reserved by the host. Ungrabbed they
	// pass through untranslated; grabbed, the host hook has intercepted them
	// and they belong to the guest.
	if !r.grab.IsGrabbed() && r.reservedCombo(ev.Key) {
		return false
	}

	events := r.keys.HandleKeyTransition(ev.Key, ev.Pressed)
	for _, ke := range events {
		r.submitKey(ke)
	}
	return len(events) > 0
}

func (r *Router) handlePointerMove(ev Event) bool {
	if r.grab.PointerAbsolute() {
		// Absolute pointers track the host cursor 1:1, grab or no grab.
		x, y := r.scale(ev.X, ev.Y)
		if r.onPointer != nil {
			r.onPointer(int(x), int(y))
		}
		r.submitPointer(x, y, ev.Buttons, true)
		return true
	}
	if !r.grab.IsGrabbed() {
		// Relative movement is suppressed until the guest owns the pointer.
		return false
	}
	r.submitPointer(int32(ev.DX), int32(ev.DY), ev.Buttons, false)
	return true
}

func (r *Router) handlePointerButton(ev Event) bool {
	if r.grab.PointerAbsolute() {
		x, y := r.scale(ev.X, ev.Y)
		r.submitPointer(x, y, ev.Buttons, true)
		return true
	}
	if !r.grab.IsGrabbed() {
		if ev.Pressed && r.insideWindow(ev.X, ev.Y) {
			// Click inside the surface captures the pointer; the click
			// itself is not replayed into the guest.
			r.grab.Grab()
			return true
		}
		return false
	}
	r.submitPointer(0, 0, ev.Buttons, false)
	return true
}

func (r *Router) handleScroll(ev Event) bool {
	if !r.grab.IsGrabbed() && !r.grab.PointerAbsolute() {
		return false
	}
	if ev.ScrollDY == 0 {
		// No horizontal wheel on the emulated pointer; DX-only scrolls stay
		// with the host.
		return false
	}

	button := ButtonWheelUp
	if ev.ScrollDY < 0 {
		button = ButtonWheelDown
	}
	absolute := r.grab.PointerAbsolute()
	x, y := int32(0), int32(0)
	if absolute {
		x, y = r.scale(ev.X, ev.Y)
	}
	// Wheel ticks are transient: press then release.
	r.submitPointer(x, y, ev.Buttons|button, absolute)
	r.submitPointer(x, y, ev.Buttons&^button, absolute)
	return true
}

func (r *Router) reservedCombo(key HostKey) bool {
	if key == KeyLeftMeta || key == KeyRightMeta {
		return true
	}
	return r.mods&ModMeta != 0
}

func (r *Router) trackModifier(key HostKey, pressed bool) {
	var mod Modifier
	switch key {
	case KeyLeftCtrl, KeyRightCtrl:
		mod = ModCtrl
	case KeyLeftAlt, KeyRightAlt:
		mod = ModAlt
	case KeyLeftShift, KeyRightShift:
		mod = ModShift
	case KeyLeftMeta, KeyRightMeta:
		mod = ModMeta
	default:
		return
	}
	if pressed {
		r.mods |= mod
	} else {
		r.mods &^= mod
	}
}

// scale rescales host window coordinates into guest display space, clamped to
// the guest bounds.
func (r *Router) scale(x, y float64) (int32, int32) {
	if r.winW <= 0 || r.winH <= 0 || r.guestW <= 0 || r.guestH <= 0 {
		return int32(x), int32(y)
	}
	gx := x * float64(r.guestW) / float64(r.winW)
	gy := y * float64(r.guestH) / float64(r.winH)
	return clamp(gx, r.guestW-1), clamp(gy, r.guestH-1)
}

func clamp(v float64, max int) int32 {
	if v < 0 {
		return 0
	}
	if v > float64(max) {
		return int32(max)
	}
	return int32(v)
}

func (r *Router) insideWindow(x, y float64) bool {
	return x >= 0 && y >= 0 && x < float64(r.winW) && y < float64(r.winH)
}

func (r *Router) submitKey(ke KeyEvent) {
	if err := r.sink.SubmitKeyEvent(ke.Scancode, ke.Pressed); err != nil {
		logger.Errorf("Failed to submit key event: %v", err)
	}
}

func (r *Router) submitPointer(x, y int32, buttons Button, absolute bool) {
	if err := r.sink.SubmitPointerEvent(x, y, buttons, absolute); err != nil {
		logger.Errorf("Failed to submit pointer event: %v", err)
	}
}

// ParseHotkey parses config strings like ("ctrl+alt", "g") into a Hotkey.
func ParseHotkey(modifier, key string) (Hotkey, error) {
	var hk Hotkey
	for _, part := range strings.Split(modifier, "+") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "ctrl", "control":
			hk.Mods |= ModCtrl
		case "alt", "option":
			hk.Mods |= ModAlt
		case "shift":
			hk.Mods |= ModShift
		case "meta", "super", "cmd":
			hk.Mods |= ModMeta
		case "":
		default:
			return hk, fmt.Errorf("unknown modifier %q", part)
		}
	}
	k, ok := keyNames[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return hk, fmt.Errorf("unknown hotkey %q", key)
	}
	hk.Key = k
	return hk, nil
}

var keyNames = map[string]HostKey{
	"a": KeyA, "b": KeyB, "c": KeyC, "d": KeyD, "e": KeyE, "f": KeyF,
	"g": KeyG, "h": KeyH, "i": KeyI, "j": KeyJ, "k": KeyK, "l": KeyL,
	"m": KeyM, "n": KeyN, "o": KeyO, "p": KeyP, "q": KeyQ, "r": KeyR,
	"s": KeyS, "t": KeyT, "u": KeyU, "v": KeyV, "w": KeyW, "x": KeyX,
	"y": KeyY, "z": KeyZ,
	"0": Key0, "1": Key1, "2": Key2, "3": Key3, "4": Key4,
	"5": Key5, "6": Key6, "7": Key7, "8": Key8, "9": Key9,
}
