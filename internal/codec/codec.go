// Package codec decodes still-image files into non-premultiplied RGBA8.
//
// Files are read through an afero.Fs so callers can substitute an in-memory
// filesystem. Registered formats: PNG, JPEG, GIF (first frame), BMP, TIFF
// and WebP.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode errors.
var (
	// ErrUnsupportedFormat is returned when no registered decoder recognizes the data.
	ErrUnsupportedFormat = errors.New("codec: unsupported format")

	// ErrEmptyData is returned when the file or byte slice is empty.
	ErrEmptyData = errors.New("codec: empty data")
)

// Load opens path on fsys and decodes it.
// A missing file yields an error wrapping fs.ErrNotExist.
func Load(fsys afero.Fs, path string) (*image.NRGBA, string, error) {
	f, err := fsys.Open(filepath.Clean(path))
	if err != nil {
		return nil, "", fmt.Errorf("codec: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fmt.Errorf("codec: read %s: %w", path, err)
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes an in-memory encoded image, auto-detecting the format.
// The returned string is the format name reported by the decoder.
func DecodeBytes(data []byte) (*image.NRGBA, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes an image from r, auto-detecting the format.
func Decode(r io.Reader) (*image.NRGBA, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
		}
		return nil, "", fmt.Errorf("codec: decode: %w", err)
	}
	return ToNRGBA(img), format, nil
}

// ToNRGBA converts img to a tightly packed, zero-origin *image.NRGBA.
// A zero-origin NRGBA whose Pix holds exactly its own rows is returned as is.
// Sub-images sharing a larger parent buffer are copied.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) &&
		n.Stride == 4*b.Dx() && len(n.Pix) == 4*b.Dx()*b.Dy() {
		return n
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
