// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texture

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/rotoframe"
)

// Canvas errors.
var (
	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("texture: nil DeviceProvider")

	// ErrNilDrawContext is returned when RenderTo gets a nil draw context.
	ErrNilDrawContext = errors.New("texture: nil draw context")

	// ErrNothingUploaded is returned when rendering before the first Upload.
	ErrNothingUploaded = errors.New("texture: nothing uploaded")

	// ErrInvalidRenderer is returned when the draw context has no texture creator.
	ErrInvalidRenderer = errors.New("texture: draw context has no gpucontext.TextureCreator")

	// ErrInvalidTexture is returned when the created texture is not a gpucontext.Texture.
	ErrInvalidTexture = errors.New("texture: created texture is not a gpucontext.Texture")
)

// textureDestroyer matches gogpu.Texture.Destroy.
type textureDestroyer interface {
	Destroy()
}

// Canvas shows frames in a gogpu window.
//
// Upload records the frame and marks the canvas dirty. The GPU texture is
// created lazily by RenderTo, updated in place while the frame size is
// unchanged, and recreated when it changes. The replaced texture is
// destroyed only after the new one is written, since in-flight command
// buffers may still reference it.
//
// Canvas is NOT safe for concurrent use.
type Canvas struct {
	provider   gpucontext.DeviceProvider
	texture    any // *gogpu.Texture once created
	oldTexture any // replaced texture awaiting destruction

	pending []byte
	width   int
	height  int

	dirty       bool
	sizeChanged bool
	closed      bool
}

// NewCanvas creates a Canvas for the device of provider.
// The provider should come from gogpu.App.GPUContextProvider().
func NewCanvas(provider gpucontext.DeviceProvider) (*Canvas, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	return &Canvas{provider: provider}, nil
}

// Upload records the frame for the next RenderTo. The buffer is referenced,
// not copied; rotoframe frames are immutable.
func (c *Canvas) Upload(width, height int, rgba []byte) error {
	if c.closed {
		return ErrClosed
	}
	if err := checkRGBA(width, height, rgba); err != nil {
		return err
	}

	if c.pending != nil && (width != c.width || height != c.height) {
		c.sizeChanged = true
	}
	c.pending = rgba
	c.width, c.height = width, height
	c.dirty = true
	return nil
}

// Size returns the dimensions of the last uploaded frame.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// IsDirty reports whether an uploaded frame has not reached the GPU yet.
func (c *Canvas) IsDirty() bool {
	return c.dirty
}

// Texture returns the GPU texture, or nil before the first RenderTo.
func (c *Canvas) Texture() any {
	return c.texture
}

// Provider returns the DeviceProvider, or nil once closed.
func (c *Canvas) Provider() gpucontext.DeviceProvider {
	if c.closed {
		return nil
	}
	return c.provider
}

// RenderTo pushes the latest frame to the GPU if needed and draws it at (0, 0).
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    canvas.RenderTo(dc.AsTextureDrawer())
//	})
func (c *Canvas) RenderTo(dc gpucontext.TextureDrawer) error {
	return c.RenderToPosition(dc, 0, 0)
}

// RenderToPosition is like RenderTo but draws at (x, y).
func (c *Canvas) RenderToPosition(dc gpucontext.TextureDrawer, x, y float32) error {
	if c.closed {
		return ErrClosed
	}
	if dc == nil {
		return ErrNilDrawContext
	}
	if c.pending == nil {
		return ErrNothingUploaded
	}

	tex, err := c.flush(dc)
	if err != nil {
		return err
	}

	gpuTex, ok := tex.(gpucontext.Texture)
	if !ok {
		return ErrInvalidTexture
	}
	return dc.DrawTexture(gpuTex, x, y)
}

// flush brings the GPU texture up to date with the pending frame.
func (c *Canvas) flush(dc gpucontext.TextureDrawer) (any, error) {
	if c.sizeChanged {
		if c.texture != nil {
			destroy(c.oldTexture)
			c.oldTexture = c.texture
			c.texture = nil
		}
		c.sizeChanged = false
	}

	if !c.dirty && c.texture != nil {
		return c.texture, nil
	}

	if c.texture != nil {
		if updater, ok := c.texture.(gpucontext.TextureUpdater); ok {
			if err := updater.UpdateData(c.pending); err != nil {
				return nil, fmt.Errorf("texture: update failed: %w", err)
			}
			c.dirty = false
			return c.texture, nil
		}
		// No in-place update; recreate below.
		destroy(c.oldTexture)
		c.oldTexture = c.texture
		c.texture = nil
	}

	creator := dc.TextureCreator()
	if creator == nil {
		return nil, ErrInvalidRenderer
	}

	// NewTextureFromRGBA waits for the GPU, so the old texture is idle afterwards.
	realTex, err := creator.NewTextureFromRGBA(c.width, c.height, c.pending)
	if err != nil {
		return nil, fmt.Errorf("texture: NewTextureFromRGBA failed: %w", err)
	}

	// Frames carry straight alpha.
	if pt, ok := any(realTex).(interface{ SetPremultiplied(bool) }); ok {
		pt.SetPremultiplied(false)
	}

	c.texture = realTex
	destroy(c.oldTexture)
	c.oldTexture = nil
	c.dirty = false

	rotoframe.Logger().Debug("texture: canvas texture created",
		slog.Int("width", c.width), slog.Int("height", c.height))
	return c.texture, nil
}

// Close destroys the GPU textures. Close is idempotent.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	destroy(c.oldTexture)
	c.oldTexture = nil
	destroy(c.texture)
	c.texture = nil

	c.pending = nil
	c.provider = nil
	return nil
}

func destroy(tex any) {
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}
