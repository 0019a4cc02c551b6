// Package display owns the host-visible surface mirroring the guest framebuffer.
package display

import "image"

// PixelFormat identifies the guest framebuffer pixel layout. The surface
// stores pixels as RGBA internally; the format is carried as metadata for the
// update path that converts at the boundary.
type PixelFormat int

const (
	FormatRGBA8888 PixelFormat = iota
	FormatBGRA8888
	FormatRGB565
)

// BytesPerPixel returns the guest-side stride unit for the format.
func (f PixelFormat) BytesPerPixel() int {
	if f == FormatRGB565 {
		return 2
	}
	return 4
}

func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA8888:
		return "rgba8888"
	case FormatBGRA8888:
		return "bgra8888"
	case FormatRGB565:
		return "rgb565"
	default:
		return "unknown"
	}
}

// Presenter receives composited regions for the host-visible layer. Blit is
// called off the surface lock with a private copy of the pixels; the
// implementation may retain img.
type Presenter interface {
	Blit(img *image.RGBA, region image.Rectangle)
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(img *image.RGBA, region image.Rectangle)

func (f PresenterFunc) Blit(img *image.RGBA, region image.Rectangle) {
	f(img, region)
}

// ChangeListener is the contract the guest display subsystem drives. All
// notifications may arrive on guest-emulation goroutines; implementations
// marshal onto the UI loop themselves.
type ChangeListener interface {
	// NotifyResize announces a guest display-mode change.
	NotifyResize(width, height int, format PixelFormat)

	// NotifyUpdate announces that a region of the guest framebuffer changed.
	NotifyUpdate(region image.Rectangle)

	// NotifyRefresh is invoked at the guest refresh cadence. Pointer-device
	// mode is resynchronized here and nowhere else.
	NotifyRefresh()

	// NotifyCursorDefine announces a new guest cursor shape. A nil image
	// removes the overlay.
	NotifyCursorDefine(img image.Image)
}
