// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texture

import (
	"errors"
	"fmt"
	"image"
)

// Common errors returned by uploaders.
var (
	// ErrClosed is returned when uploading to a closed texture.
	ErrClosed = errors.New("texture: texture is closed")

	// ErrInvalidDimensions is returned when width or height is not positive,
	// or the buffer length does not equal width*height*4.
	ErrInvalidDimensions = errors.New("texture: invalid dimensions")
)

// checkRGBA validates an RGBA8 upload.
func checkRGBA(width, height int, rgba []byte) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if want := width * height * 4; len(rgba) != want {
		return fmt.Errorf("%w: buffer is %d bytes, want %d", ErrInvalidDimensions, len(rgba), want)
	}
	return nil
}

// Memory is a CPU-side texture. It keeps a private copy of the last upload.
type Memory struct {
	width    int
	height   int
	data     []byte
	uploads  int
	failNext error
}

// NewMemory creates an empty Memory texture.
func NewMemory() *Memory {
	return &Memory{}
}

// Upload replaces the texture content with a copy of rgba.
// On failure the previous content is kept.
func (m *Memory) Upload(width, height int, rgba []byte) error {
	if err := m.failNext; err != nil {
		m.failNext = nil
		return err
	}
	if err := checkRGBA(width, height, rgba); err != nil {
		return err
	}

	if cap(m.data) < len(rgba) {
		m.data = make([]byte, len(rgba))
	}
	m.data = m.data[:len(rgba)]
	copy(m.data, rgba)
	m.width, m.height = width, height
	m.uploads++
	return nil
}

// FailNext makes the next Upload return err without changing the content.
func (m *Memory) FailNext(err error) {
	m.failNext = err
}

// Size returns the dimensions of the current content.
func (m *Memory) Size() (width, height int) {
	return m.width, m.height
}

// Data returns the current content. The slice is reused by the next Upload.
func (m *Memory) Data() []byte {
	return m.data
}

// Uploads returns the number of successful uploads.
func (m *Memory) Uploads() int {
	return m.uploads
}

// Image returns a copy of the current content, or nil if empty.
func (m *Memory) Image() *image.NRGBA {
	if m.uploads == 0 {
		return nil
	}
	img := image.NewNRGBA(image.Rect(0, 0, m.width, m.height))
	copy(img.Pix, m.data)
	return img
}
