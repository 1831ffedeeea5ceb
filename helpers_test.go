package rotoframe

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/spf13/afero"
)

// countingSource wraps a FrameSource and counts Decode calls.
type countingSource struct {
	FrameSource
	calls   int
	indices []int
}

func (s *countingSource) Decode(index int) (*Frame, error) {
	s.calls++
	s.indices = append(s.indices, index)
	return s.FrameSource.Decode(index)
}

// countingCodec produces a 2x1 frame whose first red sample is the position
// of the path in order and counts calls per path.
type countingCodec struct {
	order map[string]uint8
	calls map[string]int
	total int
	fail  map[string]error
}

func newCountingCodec(paths ...string) *countingCodec {
	c := &countingCodec{
		order: make(map[string]uint8),
		calls: make(map[string]int),
		fail:  make(map[string]error),
	}
	for i, p := range paths {
		c.order[p] = uint8(i)
	}
	return c
}

func (c *countingCodec) Decode(path string) (*Frame, error) {
	c.total++
	c.calls[path]++
	if err := c.fail[path]; err != nil {
		return nil, err
	}
	id, ok := c.order[path]
	if !ok {
		return nil, errors.New("unknown path")
	}
	return NewFrame(2, 1, []byte{id, 0, 0, 255, id, 0, 0, 255})
}

// recordingUploader records uploads and can fail on demand.
type recordingUploader struct {
	uploads  int
	last     []byte
	width    int
	height   int
	failNext error
}

func (u *recordingUploader) Upload(width, height int, rgba []byte) error {
	if err := u.failNext; err != nil {
		u.failNext = nil
		return err
	}
	u.uploads++
	u.width, u.height = width, height
	u.last = rgba
	return nil
}

// writePNG encodes a solid-color image of the given size to path.
func writePNG(t *testing.T, fsys afero.Fs, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	if err := afero.WriteFile(fsys, path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}

func mustFrame(t *testing.T, w, h int, pix []byte) *Frame {
	t.Helper()
	f, err := NewFrame(w, h, pix)
	if err != nil {
		t.Fatalf("NewFrame(%d, %d): %v", w, h, err)
	}
	return f
}
