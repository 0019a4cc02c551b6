// Package console wires the surface, input routing, grab state and clipboard
// bridge into one driver behind the guest-display listener contract.
package console

import (
	"context"
	"image"
	"time"

	"github.com/bnema/vmview/internal/clipboard"
	"github.com/bnema/vmview/internal/config"
	"github.com/bnema/vmview/internal/dispatch"
	"github.com/bnema/vmview/internal/display"
	"github.com/bnema/vmview/internal/guest"
	"github.com/bnema/vmview/internal/input"
	"github.com/bnema/vmview/internal/logger"
)

// Status is a snapshot of driver state for observers.
type Status struct {
	Grabbed         bool
	PointerAbsolute bool
	Width           int
	Height          int
	ClipboardPushes uint64
}

// Console is the bridge between the guest's emulated display/input/clipboard
// devices and the host windowing environment.
//
// Guest notifications (NotifyResize, NotifyUpdate, ...) may arrive on
// emulation goroutines and are marshaled onto the UI loop via the dispatch
// queue. Host events enter through HandleHostEvent on the UI loop itself. The
// surface mutex is the only lock shared between the two sides.
type Console struct {
	queue   *dispatch.Queue
	surface *display.Surface
	grab    *input.GrabController
	keys    *input.StateMapper
	router  *input.Router
	bridge  *clipboard.Bridge
	sink    guest.InputSink
	clipdev guest.ClipboardDevice

	refreshInterval time.Duration

	clipPushes uint64
	onStatus   func(Status)
}

// Options carries the collaborators the console does not construct itself.
type Options struct {
	Presenter display.Presenter
	Sink      guest.InputSink
	Hook      input.HostHook
	Clipboard guest.ClipboardDevice
}

// New builds a console from configuration. The host hook defaults to a no-op
// when the platform offers no reserved-key interception.
func New(cfg *config.Config, opts Options) (*Console, error) {
	hook := opts.Hook
	if hook == nil {
		hook = input.NopHook{}
	}

	hotkey, err := input.ParseHotkey(cfg.Input.GrabHotkeyModifier, cfg.Input.GrabHotkeyKey)
	if err != nil {
		return nil, err
	}

	c := &Console{
		queue:           dispatch.NewQueue(),
		surface:         display.NewSurface(opts.Presenter),
		grab:            input.NewGrabController(hook),
		bridge:          clipboard.NewBridge(cfg.Clipboard.RequestTimeout()),
		sink:            opts.Sink,
		clipdev:         opts.Clipboard,
		refreshInterval: cfg.Display.RefreshInterval(),
	}

	c.keys = input.NewStateMapper(input.NewKeymap(cfg.Input.SwapAltMeta))
	c.router = input.NewRouter(c.grab, c.keys, opts.Sink, hotkey)
	c.router.OnPointerPosition(c.surface.SetPointerPosition)

	c.grab.OnChange(func(grabbed bool) {
		if !grabbed {
			// The guest must never observe keys stuck down after capture ends.
			c.router.ReleaseKeys()
		}
		c.notifyStatus()
	})

	if c.clipdev != nil {
		// Pushes arrive on supplier goroutines; the counter and status
		// snapshot are UI-loop state, so marshal like every other guest-side
		// notification.
		c.bridge.OnPushToGuest(func(d *clipboard.Descriptor) {
			c.queue.Post(func() {
				c.clipPushes++
				c.clipdev.PushContent(d.Format, d.Data)
				c.notifyStatus()
			})
		})
	}

	return c, nil
}

// Surface exposes the screen surface.
func (c *Console) Surface() *display.Surface { return c.surface }

// Grab exposes the grab controller.
func (c *Console) Grab() *input.GrabController { return c.grab }

// Bridge exposes the clipboard bridge.
func (c *Console) Bridge() *clipboard.Bridge { return c.bridge }

// Queue exposes the UI-loop dispatch queue.
func (c *Console) Queue() *dispatch.Queue { return c.queue }

// OnStatus registers a status observer, invoked on the UI loop.
func (c *Console) OnStatus(fn func(Status)) { c.onStatus = fn }

// HandleHostEvent routes one host event; it must be called on the UI loop.
// The return value tells the host whether to suppress its default handling.
func (c *Console) HandleHostEvent(ev input.Event) bool {
	return c.router.HandleEvent(ev)
}

// HandleFocusLost releases any held keys when the host window loses focus.
func (c *Console) HandleFocusLost() {
	c.queue.Post(func() {
		c.router.ReleaseKeys()
	})
}

// SetWindowSize records the host window dimensions for pointer rescaling.
func (c *Console) SetWindowSize(w, h int) {
	c.queue.Post(func() {
		c.router.SetWindowSize(w, h)
	})
}

// NotifyResize implements display.ChangeListener.
func (c *Console) NotifyResize(width, height int, format display.PixelFormat) {
	c.queue.Post(func() {
		if err := c.surface.Resize(width, height, format); err != nil {
			logger.Warnf("Ignoring guest resize: %v", err)
			return
		}
		c.router.SetGuestSize(width, height)
		c.notifyStatus()
	})
}

// NotifyUpdate implements display.ChangeListener.
func (c *Console) NotifyUpdate(region image.Rectangle) {
	c.queue.Post(func() {
		c.surface.MarkDirty(region)
		c.surface.Present(region)
	})
}

// NotifyRefresh implements display.ChangeListener. This is the one point
// where the pointer-device mode is resynchronized; grab state reacts here and
// nowhere else to guest-side pointer model changes.
func (c *Console) NotifyRefresh() {
	c.queue.Post(func() {
		c.grab.HandleRefresh(c.sink.PointerAbsolute())
		c.surface.Present(image.Rectangle{})
	})
}

// NotifyCursorDefine implements display.ChangeListener.
func (c *Console) NotifyCursorDefine(img image.Image) {
	c.queue.Post(func() {
		c.surface.SetCursorImage(img)
	})
}

// Run drives the UI loop: it drains dispatched work and, when the guest does
// not provide its own refresh cadence, generates NotifyRefresh ticks.
func (c *Console) Run(ctx context.Context) {
	ticker := time.NewTicker(c.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.queue.Close()
			c.grab.Ungrab()
			return
		case <-ticker.C:
			c.NotifyRefresh()
			c.queue.Drain()
		case <-c.queue.Wake():
			c.queue.Drain()
		}
	}
}

func (c *Console) notifyStatus() {
	if c.onStatus == nil {
		return
	}
	w, h := c.surface.Size()
	c.onStatus(Status{
		Grabbed:         c.grab.IsGrabbed(),
		PointerAbsolute: c.grab.PointerAbsolute(),
		Width:           w,
		Height:          h,
		ClipboardPushes: c.clipPushes,
	})
}
