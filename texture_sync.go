package rotoframe

import (
	"fmt"
	"log/slog"
)

// TextureUploader makes an RGBA8 buffer available for GPU-backed display.
// Upload is treated as complete when it returns. It may keep a reference
// to rgba, which is never modified afterwards.
type TextureUploader interface {
	Upload(width, height int, rgba []byte) error
}

// Generation identifies one active source. It advances on every switch.
// The zero Generation means nothing has been bound yet.
type Generation uint64

// DisplayState is what the texture currently shows.
type DisplayState struct {
	Index      int
	Generation Generation
}

// Bound reports whether a frame has been uploaded.
func (s DisplayState) Bound() bool {
	return s.Generation != 0
}

// TextureSync keeps one texture in step with the frame the UI wants to show,
// uploading only when the wanted (index, generation) pair changes.
//
// TextureSync is NOT safe for concurrent use.
type TextureSync struct {
	uploader TextureUploader
	state    DisplayState
	frame    *Frame
	uploads  int
}

// NewTextureSync creates a TextureSync with nothing bound.
// A nil uploader discards uploads.
func NewTextureSync(uploader TextureUploader) *TextureSync {
	if uploader == nil {
		uploader = discardUploader{}
	}
	return &TextureSync{uploader: uploader}
}

type discardUploader struct{}

func (discardUploader) Upload(int, int, []byte) error { return nil }

// EnsureCurrent makes the texture show frame index of the source identified
// by gen and returns the bound frame.
//
// When (index, gen) is already bound it returns immediately without
// consulting cache or src. Otherwise the frame comes from cache, is uploaded
// and the pair is recorded. On any failure the previous frame stays bound
// and the error is returned.
func (t *TextureSync) EnsureCurrent(index int, gen Generation, c *FrameCache, src FrameSource) (*Frame, error) {
	if gen == 0 {
		return nil, ErrNoGeneration
	}
	want := DisplayState{Index: index, Generation: gen}
	if t.state == want {
		return t.frame, nil
	}

	f, err := c.GetOrLoad(index, src)
	if err != nil {
		return nil, err
	}

	if err := t.uploader.Upload(f.Width(), f.Height(), f.Pix()); err != nil {
		return nil, fmt.Errorf("%w: index %d: %w", ErrUpload, index, err)
	}
	t.uploads++
	Logger().Debug("rotoframe: texture uploaded",
		slog.Int("index", index), slog.Uint64("generation", uint64(gen)),
		slog.Int("width", f.Width()), slog.Int("height", f.Height()))

	t.state = want
	t.frame = f
	return f, nil
}

// State returns the bound index and generation.
func (t *TextureSync) State() DisplayState {
	return t.state
}

// Frame returns the bound frame, or nil if nothing is bound.
func (t *TextureSync) Frame() *Frame {
	return t.frame
}

// Uploads returns the number of successful uploads.
func (t *TextureSync) Uploads() int {
	return t.uploads
}

// Invalidate forces the next EnsureCurrent to upload. The texture keeps
// showing the current frame until then.
func (t *TextureSync) Invalidate() {
	t.state = DisplayState{}
}
