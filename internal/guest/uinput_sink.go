//go:build linux

package guest

import (
	"fmt"
	"sync"

	"github.com/ThomasT75/uinput"

	"github.com/bnema/vmview/internal/input"
)

// UinputSink injects routed events into a local virtual keyboard and mouse so
// the whole pipeline can be exercised end to end without a running VM. The
// injected "guest" is the local session, which uses a relative pointer.
type UinputSink struct {
	mu       sync.Mutex
	keyboard uinput.Keyboard
	mouse    uinput.Mouse
	buttons  input.Button
	closed   bool
}

// NewUinputSink creates the virtual devices. Requires access to /dev/uinput.
func NewUinputSink() (*UinputSink, error) {
	keyboard, err := uinput.CreateKeyboard("/dev/uinput", []byte("vmview virtual keyboard"))
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual keyboard: %w", err)
	}
	mouse, err := uinput.CreateMouse("/dev/uinput", []byte("vmview virtual mouse"))
	if err != nil {
		keyboard.Close()
		return nil, fmt.Errorf("failed to create virtual mouse: %w", err)
	}
	return &UinputSink{keyboard: keyboard, mouse: mouse}, nil
}

// SubmitKeyEvent injects one key transition.
func (s *UinputSink) SubmitKeyEvent(code input.Scancode, pressed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("sink is closed")
	}

	key, ok := scancodeToLinux(code)
	if !ok {
		return nil
	}
	if pressed {
		return s.keyboard.KeyDown(key)
	}
	return s.keyboard.KeyUp(key)
}

// SubmitPointerEvent injects pointer motion and button transitions. Absolute
// coordinates are not supported by the relative virtual mouse and are
// ignored; button and wheel state still applies.
func (s *UinputSink) SubmitPointerEvent(x, y int32, buttons input.Button, absolute bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("sink is closed")
	}

	if !absolute && (x != 0 || y != 0) {
		if err := s.mouse.Move(x, y); err != nil {
			return err
		}
	}

	changed := buttons ^ s.buttons
	s.buttons = buttons

	if err := s.applyButton(changed, buttons, input.ButtonLeft,
		s.mouse.LeftPress, s.mouse.LeftRelease); err != nil {
		return err
	}
	if err := s.applyButton(changed, buttons, input.ButtonRight,
		s.mouse.RightPress, s.mouse.RightRelease); err != nil {
		return err
	}
	if err := s.applyButton(changed, buttons, input.ButtonMiddle,
		s.mouse.MiddlePress, s.mouse.MiddleRelease); err != nil {
		return err
	}

	if changed&buttons&input.ButtonWheelUp != 0 {
		if err := s.mouse.Wheel(false, 1); err != nil {
			return err
		}
	}
	if changed&buttons&input.ButtonWheelDown != 0 {
		if err := s.mouse.Wheel(false, -1); err != nil {
			return err
		}
	}
	return nil
}

func (s *UinputSink) applyButton(changed, buttons, mask input.Button, press, release func() error) error {
	if changed&mask == 0 {
		return nil
	}
	if buttons&mask != 0 {
		return press()
	}
	return release()
}

// PointerAbsolute reports false: the virtual mouse is a relative device.
func (s *UinputSink) PointerAbsolute() bool { return false }

// Close destroys the virtual devices.
func (s *UinputSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.keyboard.Close()
	if e := s.mouse.Close(); e != nil && err == nil {
		err = e
	}
	return err
}

// scancodeToLinux converts a set-1 scancode into a Linux key code. The main
// block matches directly; extended codes need the table.
func scancodeToLinux(code input.Scancode) (int, bool) {
	if code == 0 {
		return 0, false
	}
	if code < 0x80 {
		return int(code), true
	}
	key, ok := extendedToLinux[code]
	return key, ok
}

var extendedToLinux = map[input.Scancode]int{
	0xe01d: 97,  // right ctrl
	0xe038: 100, // right alt
	0xe047: 102, // home
	0xe048: 103, // up
	0xe049: 104, // page up
	0xe04b: 105, // left
	0xe04d: 106, // right
	0xe04f: 107, // end
	0xe050: 108, // down
	0xe051: 109, // page down
	0xe052: 110, // insert
	0xe053: 111, // delete
	0xe05b: 125, // left meta
	0xe05c: 126, // right meta
}
