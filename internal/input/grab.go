package input

import (
	"github.com/bnema/vmview/internal/logger"
)

// GrabController governs whether host input is captured by the guest.
//
// The state around grabbing is potentially confusing. pointerAbsolute tracks
// whether the emulated pointing device is an absolute-position one, but is
// only updated at refresh boundaries; consumers must not assume it reflects
// the guest in real time. grabbed tracks whether events are directed to the
// guest; it is toggled synchronously by explicit command or by click-to-grab,
// never derived from pointerAbsolute. Only the automatic ungrab-on-absolute
// path is subject to the refresh lag.
//
// GrabController is owned by the UI-loop goroutine.
type GrabController struct {
	hook            HostHook
	grabbed         bool
	pointerAbsolute bool

	onChange func(grabbed bool)
}

// NewGrabController creates a controller in the ungrabbed state. hook must
// not be nil; use NopHook when the host has no interception mechanism.
func NewGrabController(hook HostHook) *GrabController {
	return &GrabController{hook: hook}
}

// OnChange registers a callback invoked after every grab-state transition.
func (g *GrabController) OnChange(fn func(grabbed bool)) {
	g.onChange = fn
}

// Grab captures host input for the guest. Requesting grab while already
// grabbed is a no-op with no observable side effect. Entering the grabbed
// state installs the host hook so reserved key combinations reach the guest;
// a hook that fails to install degrades reserved-combo capture but does not
// prevent the grab.
func (g *GrabController) Grab() {
	if g.grabbed {
		return
	}
	if err := g.hook.Install(); err != nil {
		logger.Warnf("Host hook unavailable, reserved combos stay with the host: %v", err)
	}
	g.grabbed = true
	logger.Debug("Input grabbed")
	if g.onChange != nil {
		g.onChange(true)
	}
}

// Ungrab releases host input. Idempotent; the host hook is torn down on every
// exit path.
func (g *GrabController) Ungrab() {
	if !g.grabbed {
		return
	}
	g.hook.Uninstall()
	g.grabbed = false
	logger.Debug("Input ungrabbed")
	if g.onChange != nil {
		g.onChange(false)
	}
}

// HandleRefresh resynchronizes the pointer-device mode at a refresh boundary.
// When the guest has switched to an absolute pointing device the grab is
// released automatically: absolute pointers never need capture.
func (g *GrabController) HandleRefresh(absolute bool) {
	g.pointerAbsolute = absolute
	if absolute && g.grabbed {
		logger.Debug("Guest pointer went absolute, releasing grab")
		g.Ungrab()
	}
}

// IsGrabbed reports whether input is currently captured.
func (g *GrabController) IsGrabbed() bool {
	return g.grabbed
}

// PointerAbsolute reports the guest pointer-device mode as of the last
// refresh boundary.
func (g *GrabController) PointerAbsolute() bool {
	return g.pointerAbsolute
}
