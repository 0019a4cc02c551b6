package display

import (
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturePresenter records blits for assertions.
type capturePresenter struct {
	mu      sync.Mutex
	images  []*image.RGBA
	regions []image.Rectangle
}

func (p *capturePresenter) Blit(img *image.RGBA, region image.Rectangle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.images = append(p.images, img)
	p.regions = append(p.regions, region)
}

func (p *capturePresenter) last() (*image.RGBA, image.Rectangle, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.images) == 0 {
		return nil, image.Rectangle{}, false
	}
	return p.images[len(p.images)-1], p.regions[len(p.regions)-1], true
}

func fillRegion(w, h int, c color.RGBA) []byte {
	pix := make([]byte, 4*w*h)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
	}
	return pix
}

func TestSurface_ResizeRejectsBadGeometry(t *testing.T) {
	s := NewSurface(&capturePresenter{})
	require.NoError(t, s.Resize(640, 480, FormatRGBA8888))

	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 480},
		{"zero height", 640, 0},
		{"negative width", -1, 480},
		{"negative height", 640, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Resize(tt.w, tt.h, FormatRGBA8888)
			assert.ErrorIs(t, err, ErrBadGeometry)

			// Previous surface retained unchanged
			w, h := s.Size()
			assert.Equal(t, 640, w)
			assert.Equal(t, 480, h)
			assert.True(t, s.Inited())
		})
	}
}

func TestSurface_UninitializedPresentIsNoop(t *testing.T) {
	p := &capturePresenter{}
	s := NewSurface(p)

	s.Present(image.Rect(0, 0, 100, 100))
	_, _, ok := p.last()
	assert.False(t, ok)
}

func TestSurface_PresentCompositesDirtyRegion(t *testing.T) {
	p := &capturePresenter{}
	s := NewSurface(p)
	require.NoError(t, s.Resize(100, 100, FormatRGBA8888))

	// Flush initial full-surface dirty from resize
	s.Present(image.Rectangle{})
	region := image.Rect(10, 10, 20, 20)
	s.UpdateRegion(region, fillRegion(10, 10, color.RGBA{R: 255, A: 255}))
	s.Present(image.Rectangle{})

	img, painted, ok := p.last()
	require.True(t, ok)
	assert.Equal(t, region, painted)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(15, 15))
}

func TestSurface_CursorCompositedAtPointerPosition(t *testing.T) {
	p := &capturePresenter{}
	s := NewSurface(p)
	require.NoError(t, s.Resize(100, 100, FormatRGBA8888))

	cursor := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			cursor.SetRGBA(x, y, color.RGBA{G: 255, A: 255})
		}
	}

	s.SetCursorImage(cursor)
	s.SetPointerPosition(50, 50)
	s.Present(s.bufBounds())

	img, _, ok := p.last()
	require.True(t, ok)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, img.RGBAAt(51, 51))
	// Outside the cursor rect the surface is untouched
	assert.Equal(t, color.RGBA{}, img.RGBAAt(60, 60))
}

func TestSurface_CursorHiddenIsNotComposited(t *testing.T) {
	p := &capturePresenter{}
	s := NewSurface(p)
	require.NoError(t, s.Resize(100, 100, FormatRGBA8888))

	cursor := image.NewRGBA(image.Rect(0, 0, 4, 4))
	cursor.SetRGBA(0, 0, color.RGBA{G: 255, A: 255})

	s.SetCursorImage(cursor)
	s.SetPointerPosition(50, 50)
	s.SetCursorVisible(false)
	s.Present(s.bufBounds())

	img, _, ok := p.last()
	require.True(t, ok)
	assert.Equal(t, color.RGBA{}, img.RGBAAt(50, 50))
}

func TestSurface_CursorClippedToBounds(t *testing.T) {
	p := &capturePresenter{}
	s := NewSurface(p)
	require.NoError(t, s.Resize(100, 100, FormatRGBA8888))

	cursor := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			cursor.SetRGBA(x, y, color.RGBA{B: 255, A: 255})
		}
	}

	// Cursor hangs off the bottom-right corner
	s.SetCursorImage(cursor)
	s.SetPointerPosition(96, 96)

	assert.NotPanics(t, func() {
		s.Present(s.bufBounds())
	})

	img, painted, ok := p.last()
	require.True(t, ok)
	assert.True(t, painted.In(image.Rect(0, 0, 100, 100)))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(99, 99))
}

// TestSurface_ConcurrentResizePresent stresses the atomicity contract: a
// Present racing Resize must never pair new dimensions with a stale buffer.
func TestSurface_ConcurrentResizePresent(t *testing.T) {
	// The presenter receives a private copy, so torn state would surface as
	// a panic (out-of-range draw) or a mismatched image size.
	p := PresenterFunc(func(img *image.RGBA, region image.Rectangle) {
		if !region.In(img.Bounds()) {
			panic("presented region outside composited image")
		}
	})
	s := NewSurface(p)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		sizes := []int{64, 640, 17, 1920, 3, 800}
		for i := 0; i < 2000; i++ {
			n := sizes[i%len(sizes)]
			_ = s.Resize(n, n, FormatRGBA8888)
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			s.MarkDirty(image.Rect(0, 0, 4000, 4000))
			s.Present(image.Rect(0, 0, 4000, 4000))
		}
	}()

	wg.Wait()
}

// bufBounds returns the full surface rectangle for tests.
func (s *Surface) bufBounds() image.Rectangle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf == nil {
		return image.Rectangle{}
	}
	return s.buf.Bounds()
}
