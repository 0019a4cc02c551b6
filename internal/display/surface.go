package display

import (
	"errors"
	"image"
	"image/draw"
	"sync"

	"github.com/bnema/vmview/internal/logger"
)

// ErrBadGeometry is returned for resize requests with non-positive dimensions.
var ErrBadGeometry = errors.New("surface dimensions must be positive")

// Surface mirrors the guest framebuffer into a host-visible layer.
//
// The pixel buffer and its dimensions form one atomic unit guarded by mu: a
// resize replaces the buffer wholesale, and Present acquires the same lock, so
// a reader never pairs new dimensions with a stale buffer. The critical
// sections are short and perform no I/O; the Presenter is invoked off the lock
// with a private copy.
type Surface struct {
	mu     sync.Mutex
	buf    *image.RGBA
	width  int
	height int
	format PixelFormat
	inited bool

	cursor        image.Image
	cursorVisible bool
	mouseX        int
	mouseY        int
	mouseOn       bool

	dirty image.Rectangle

	presenter Presenter
}

// NewSurface creates a surface that composites into the given presenter.
// The surface is unusable until the first Resize.
func NewSurface(presenter Presenter) *Surface {
	return &Surface{
		presenter:     presenter,
		cursorVisible: true,
	}
}

// Resize replaces the pixel buffer for a new guest display mode. The previous
// buffer is dropped wholesale; callers must not hold references across a
// resize. Non-positive dimensions are rejected and the previous surface is
// retained unchanged.
func (s *Surface) Resize(width, height int, format PixelFormat) error {
	if width <= 0 || height <= 0 {
		logger.Warnf("Rejecting resize to %dx%d", width, height)
		return ErrBadGeometry
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf = image.NewRGBA(image.Rect(0, 0, width, height))
	s.width = width
	s.height = height
	s.format = format
	s.inited = true
	s.dirty = s.buf.Bounds()

	logger.Debugf("Surface resized to %dx%d (%s)", width, height, format)
	return nil
}

// Size returns the current logical dimensions.
func (s *Surface) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Inited reports whether the surface has completed initialization.
func (s *Surface) Inited() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inited
}

// UpdateRegion copies guest pixels into the buffer. pix is tightly packed
// RGBA for the region; updates outside the surface bounds are clipped, and
// updates racing a resize land on the new buffer or are clipped away.
func (s *Surface) UpdateRegion(region image.Rectangle, pix []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inited {
		return
	}
	clipped := region.Intersect(s.buf.Bounds())
	if clipped.Empty() {
		return
	}

	src := &image.RGBA{
		Pix:    pix,
		Stride: 4 * region.Dx(),
		Rect:   region,
	}
	draw.Draw(s.buf, clipped, src, clipped.Min, draw.Src)
	s.dirty = s.dirty.Union(clipped)
}

// MarkDirty widens the region repainted by the next Present.
func (s *Surface) MarkDirty(region image.Rectangle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inited {
		return
	}
	s.dirty = s.dirty.Union(region.Intersect(s.buf.Bounds()))
}

// SetCursorImage installs the guest-defined cursor overlay. A nil image
// removes the overlay; the surface keeps rendering without a cursor.
func (s *Surface) SetCursorImage(img image.Image) {
	s.mu.Lock()
	old := s.cursorRectLocked()
	s.cursor = img
	s.mouseOn = img != nil
	now := s.cursorRectLocked()
	s.dirtyCursorLocked(old, now)
	s.mu.Unlock()
}

// SetCursorVisible toggles cursor overlay compositing.
func (s *Surface) SetCursorVisible(visible bool) {
	s.mu.Lock()
	old := s.cursorRectLocked()
	s.cursorVisible = visible
	s.dirtyCursorLocked(old, s.cursorRectLocked())
	s.mu.Unlock()
}

// SetPointerPosition records the last known pointer position used for
// redraw-time cursor compositing.
func (s *Surface) SetPointerPosition(x, y int) {
	s.mu.Lock()
	old := s.cursorRectLocked()
	s.mouseX = x
	s.mouseY = y
	s.dirtyCursorLocked(old, s.cursorRectLocked())
	s.mu.Unlock()
}

// Present composites the dirty region (plus the requested one) into the host
// layer. With an active, visible cursor the overlay is drawn at the last known
// pointer position, clipped to surface bounds. Present never observes a torn
// surface: it holds the same mutex as Resize while reading.
func (s *Surface) Present(region image.Rectangle) {
	s.mu.Lock()
	if !s.inited {
		s.mu.Unlock()
		return
	}

	paint := s.dirty.Union(region).Intersect(s.buf.Bounds())
	s.dirty = image.Rectangle{}
	if paint.Empty() {
		s.mu.Unlock()
		return
	}

	// Private copy so the presenter runs off the lock.
	out := image.NewRGBA(paint)
	draw.Draw(out, paint, s.buf, paint.Min, draw.Src)

	if s.mouseOn && s.cursorVisible && s.cursor != nil {
		cr := s.cursorRectLocked().Intersect(paint)
		if !cr.Empty() {
			sp := cr.Min.Sub(image.Pt(s.mouseX, s.mouseY)).Add(s.cursor.Bounds().Min)
			draw.Draw(out, cr, s.cursor, sp, draw.Over)
		}
	}
	presenter := s.presenter
	s.mu.Unlock()

	if presenter != nil {
		presenter.Blit(out, paint)
	}
}

// cursorRectLocked returns the on-surface rectangle the cursor overlay covers.
func (s *Surface) cursorRectLocked() image.Rectangle {
	if !s.inited || s.cursor == nil || !s.mouseOn || !s.cursorVisible {
		return image.Rectangle{}
	}
	b := s.cursor.Bounds()
	return image.Rect(s.mouseX, s.mouseY, s.mouseX+b.Dx(), s.mouseY+b.Dy()).
		Intersect(s.buf.Bounds())
}

func (s *Surface) dirtyCursorLocked(old, now image.Rectangle) {
	if !s.inited {
		return
	}
	s.dirty = s.dirty.Union(old).Union(now)
}
