// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texture

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rotoframe"
)

// ErrNoHAL is returned when a provider does not expose wgpu HAL objects.
var ErrNoHAL = errors.New("texture: provider does not expose HAL device and queue")

// HAL writes frames into a wgpu HAL texture through the device queue.
// The texture is sized to the frame and recreated when the size changes.
//
// HAL is NOT safe for concurrent use.
type HAL struct {
	device hal.Device
	queue  hal.Queue

	texture hal.Texture
	width   int
	height  int
	uploads int
	closed  bool
}

// NewHAL creates a HAL uploader from a provider implementing
// HalDevice() any and HalQueue() any, such as gogpu's GPU context provider.
func NewHAL(provider any) (*HAL, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}
	return NewHALFromDevice(device, queue)
}

// NewHALFromDevice creates a HAL uploader on an existing device and queue.
func NewHALFromDevice(device hal.Device, queue hal.Queue) (*HAL, error) {
	if device == nil || queue == nil {
		return nil, ErrNoHAL
	}
	return &HAL{device: device, queue: queue}, nil
}

// Upload writes rgba into the display texture, creating it on first use and
// whenever the frame size changes.
//
// On a size change the new texture is written before the old one is
// destroyed. If anything fails the previous texture and its content are kept.
func (h *HAL) Upload(width, height int, rgba []byte) error {
	if h.closed {
		return ErrClosed
	}
	if err := checkRGBA(width, height, rgba); err != nil {
		return err
	}

	if h.texture != nil && width == h.width && height == h.height {
		if err := h.write(h.texture, width, height, rgba); err != nil {
			return err
		}
		h.uploads++
		return nil
	}

	tex, err := h.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "rotoframe_display",
		Size:          extent(width, height),
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("texture: create %dx%d: %w", width, height, err)
	}
	if err := h.write(tex, width, height, rgba); err != nil {
		h.device.DestroyTexture(tex)
		return err
	}

	if h.texture != nil {
		h.device.DestroyTexture(h.texture)
	}
	h.texture = tex
	h.width, h.height = width, height
	h.uploads++

	rotoframe.Logger().Debug("texture: HAL texture created",
		slog.Int("width", width), slog.Int("height", height))
	return nil
}

func (h *HAL) write(tex hal.Texture, width, height int, rgba []byte) error {
	size := extent(width, height)
	err := h.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
		},
		rgba,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  size.Width * 4,
			RowsPerImage: size.Height,
		},
		&size,
	)
	if err != nil {
		return fmt.Errorf("texture: write %dx%d: %w", width, height, err)
	}
	return nil
}

// extent converts validated positive dimensions.
func extent(width, height int) hal.Extent3D {
	return hal.Extent3D{
		Width:              uint32(width),  //nolint:gosec // validated positive
		Height:             uint32(height), //nolint:gosec // validated positive
		DepthOrArrayLayers: 1,
	}
}

// Texture returns the display texture, or nil before the first Upload.
func (h *HAL) Texture() hal.Texture {
	return h.texture
}

// Size returns the dimensions of the display texture.
func (h *HAL) Size() (width, height int) {
	return h.width, h.height
}

// Format returns the GPU format of the display texture.
func (h *HAL) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Uploads returns the number of completed writes.
func (h *HAL) Uploads() int {
	return h.uploads
}

// Close destroys the display texture. The device and queue are not owned.
// Close is idempotent.
func (h *HAL) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	if h.texture != nil {
		h.device.DestroyTexture(h.texture)
		h.texture = nil
	}
	return nil
}
