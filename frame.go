package rotoframe

import (
	"bytes"
	"fmt"
	"image"

	"github.com/gogpu/rotoframe/internal/codec"
)

// BytesPerPixel is the size of one RGBA8 sample.
const BytesPerPixel = 4

// Frame is a decoded raster: width*height non-premultiplied RGBA8 samples,
// row-major, top-to-bottom, with no row padding.
//
// A Frame is immutable once produced. Pix exposes the backing slice for
// zero-copy texture upload; callers must not modify it.
type Frame struct {
	width  int
	height int
	pix    []byte
}

// NewFrame creates a Frame from a copy of pix.
// Returns ErrInvalidDimensions if width or height is not positive or
// len(pix) != width*height*4.
func NewFrame(width, height int, pix []byte) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if want := width * height * BytesPerPixel; len(pix) != want {
		return nil, fmt.Errorf("%w: buffer is %d bytes, want %d", ErrInvalidDimensions, len(pix), want)
	}
	owned := make([]byte, len(pix))
	copy(owned, pix)
	return &Frame{width: width, height: height, pix: owned}, nil
}

// FrameFromImage converts any image into a Frame.
// Returns ErrInvalidDimensions for empty images.
func FrameFromImage(img image.Image) (*Frame, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty image bounds %v", ErrInvalidDimensions, b)
	}
	n := codec.ToNRGBA(img)
	if n == img {
		// The caller still holds img; take a private copy.
		return NewFrame(b.Dx(), b.Dy(), n.Pix)
	}
	return newFrameNoCopy(b.Dx(), b.Dy(), n.Pix), nil
}

// newFrameNoCopy wraps pix without copying. The caller gives up ownership.
func newFrameNoCopy(width, height int, pix []byte) *Frame {
	return &Frame{width: width, height: height, pix: pix}
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int {
	return f.width
}

// Height returns the frame height in pixels.
func (f *Frame) Height() int {
	return f.height
}

// Size returns width and height as a convenience.
func (f *Frame) Size() (width, height int) {
	return f.width, f.height
}

// Stride returns the number of bytes per row.
func (f *Frame) Stride() int {
	return f.width * BytesPerPixel
}

// Pix returns the RGBA8 samples. The slice must not be modified.
func (f *Frame) Pix() []byte {
	return f.pix
}

// At returns the sample at (x, y). Out-of-bounds coordinates return zeros.
func (f *Frame) At(x, y int) (r, g, b, a uint8) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return 0, 0, 0, 0
	}
	off := y*f.Stride() + x*BytesPerPixel
	p := f.pix[off : off+BytesPerPixel : off+BytesPerPixel]
	return p[0], p[1], p[2], p[3]
}

// Image returns a copy of the frame as *image.NRGBA.
func (f *Frame) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.width, f.height))
	copy(img.Pix, f.pix)
	return img
}

// Equal reports whether f and other have identical dimensions and samples.
func (f *Frame) Equal(other *Frame) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.width == other.width && f.height == other.height && bytes.Equal(f.pix, other.pix)
}
