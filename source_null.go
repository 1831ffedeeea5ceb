package rotoframe

import "fmt"

// Default placeholder size, used when no input has been selected.
const (
	DefaultPlaceholderWidth  = 640
	DefaultPlaceholderHeight = 480
)

// NullSource is a synthetic placeholder that needs no I/O.
//
// Every index decodes to the same gradient: red grows with x, blue grows
// with y, green is zero and alpha is opaque. The frame is recomputed on
// every call.
type NullSource struct {
	width  int
	height int
}

// NewNullSource creates a placeholder source of the given size.
func NewNullSource(width, height int) (*NullSource, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	return &NullSource{width: width, height: height}, nil
}

// MustNullSource is like NewNullSource but panics on error.
// Use only with constant dimensions.
func MustNullSource(width, height int) *NullSource {
	s, err := NewNullSource(width, height)
	if err != nil {
		panic(err)
	}
	return s
}

// Kind returns KindNull.
func (s *NullSource) Kind() SourceKind {
	return KindNull
}

// Extent reports an unbounded source.
func (s *NullSource) Extent() (int, bool) {
	return 0, false
}

// Size returns the placeholder dimensions.
func (s *NullSource) Size() (width, height int) {
	return s.width, s.height
}

// Decode renders the gradient. Only negative indices fail.
func (s *NullSource) Decode(index int) (*Frame, error) {
	if index < 0 {
		return nil, outOfRange(KindNull, index, -1)
	}

	stride := s.width * BytesPerPixel
	pix := make([]byte, stride*s.height)

	// Channels depend on one axis each, so build one row and shift blue per row.
	row := pix[:stride]
	for x := range s.width {
		row[x*BytesPerPixel] = gradient(x)
		row[x*BytesPerPixel+3] = 0xff
	}
	for y := range s.height {
		dst := pix[y*stride : (y+1)*stride]
		if y > 0 {
			copy(dst, row)
		}
		b := gradient(y)
		for x := range s.width {
			dst[x*BytesPerPixel+2] = b
		}
	}
	return newFrameNoCopy(s.width, s.height, pix), nil
}

// gradient returns floor(0.3*v) clamped to a byte. Integer arithmetic keeps
// the result exact for every v.
func gradient(v int) uint8 {
	g := v * 3 / 10
	if g > 0xff {
		return 0xff
	}
	return uint8(g)
}
