package rotoframe

import (
	"fmt"
	"log/slog"
	"sync"
)

// Session owns the active frame source together with its frame cache, the
// display texture state and the nominal canvas size. Switching sources is a
// single method so that no caller can observe a half-switched session.
//
// The UI pulls once per redraw: Present is cheap and performs no work when
// neither the desired index nor the source changed.
//
// Session is safe for concurrent use; all methods are serialized.
type Session struct {
	mu sync.Mutex

	source     FrameSource
	generation Generation
	desired    int

	cache   *FrameCache
	display *TextureSync

	nominalWidth  int
	nominalHeight int

	closed bool
}

// SessionOption configures a Session.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	cacheCapacity     int
	placeholderWidth  int
	placeholderHeight int
}

func defaultSessionOptions() sessionOptions {
	cfg := DefaultConfig()
	return sessionOptions{
		cacheCapacity:     cfg.Cache.Capacity,
		placeholderWidth:  cfg.Placeholder.Width,
		placeholderHeight: cfg.Placeholder.Height,
	}
}

// WithCacheCapacity bounds the frame cache. 0 means unbounded.
func WithCacheCapacity(n int) SessionOption {
	return func(o *sessionOptions) {
		o.cacheCapacity = n
	}
}

// WithPlaceholderSize sets the NullSource size used when NewSession gets no
// source.
func WithPlaceholderSize(width, height int) SessionOption {
	return func(o *sessionOptions) {
		o.placeholderWidth = width
		o.placeholderHeight = height
	}
}

// WithConfig applies the cache and placeholder settings of cfg.
func WithConfig(cfg Config) SessionOption {
	return func(o *sessionOptions) {
		o.cacheCapacity = cfg.Cache.Capacity
		o.placeholderWidth = cfg.Placeholder.Width
		o.placeholderHeight = cfg.Placeholder.Height
	}
}

// NewSession creates a session showing src through uploader.
// A nil src selects a NullSource of the placeholder size.
//
// The nominal canvas size starts at the placeholder size and is replaced by
// the size of src's first frame. A failing first frame is logged, not
// returned; Present reports it again when index 0 is shown.
func NewSession(src FrameSource, uploader TextureUploader, opts ...SessionOption) (*Session, error) {
	o := defaultSessionOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.placeholderWidth <= 0 || o.placeholderHeight <= 0 {
		return nil, fmt.Errorf("%w: placeholder %dx%d", ErrInvalidDimensions, o.placeholderWidth, o.placeholderHeight)
	}
	if src == nil {
		src = MustNullSource(o.placeholderWidth, o.placeholderHeight)
	}

	s := &Session{
		cache:         NewFrameCache(o.cacheCapacity),
		display:       NewTextureSync(uploader),
		nominalWidth:  o.placeholderWidth,
		nominalHeight: o.placeholderHeight,
	}
	// The error is already logged by adopt.
	_ = s.adopt(src)
	return s, nil
}

// SwitchSource makes src the active source.
//
// In one step it replaces the source, resets the desired index to 0, clears
// the frame cache and advances the generation. It then decodes index 0 once
// to learn the nominal canvas size. If that decode fails the switch still
// stands, the nominal size keeps its previous value and the decode error is
// returned.
func (s *Session) SwitchSource(src FrameSource) error {
	if src == nil {
		return ErrNilSource
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	return s.adopt(src)
}

// adopt runs the switch protocol. Caller must hold s.mu or own s exclusively.
func (s *Session) adopt(src FrameSource) error {
	s.source = src
	s.desired = 0
	s.cache.Clear()
	s.generation++

	n, bounded := src.Extent()
	log := Logger().With(
		slog.String("kind", src.Kind().String()),
		slog.Uint64("generation", uint64(s.generation)),
	)

	// The probe bypasses the cache so the new source starts with no entries.
	f, err := src.Decode(0)
	if err != nil {
		log.Warn("rotoframe: first frame probe failed",
			slog.Int("nominal_width", s.nominalWidth), slog.Int("nominal_height", s.nominalHeight),
			slog.Any("err", err))
		return fmt.Errorf("rotoframe: probe first frame: %w", err)
	}

	s.nominalWidth, s.nominalHeight = f.Size()
	if bounded {
		log = log.With(slog.Int("frames", n))
	}
	log.Info("rotoframe: source switched",
		slog.Int("nominal_width", s.nominalWidth), slog.Int("nominal_height", s.nominalHeight))
	return nil
}

// Present makes the display texture show the desired frame and returns it.
// On failure the texture keeps its previous frame and the error is returned
// for the UI to report.
func (s *Session) Present() (*Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.display.EnsureCurrent(s.desired, s.generation, s.cache, s.source)
}

// Seek sets the desired index. Indices outside a bounded source's extent
// fail with ErrOutOfRange and leave the desired index unchanged.
func (s *Session) Seek(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	n, bounded := s.source.Extent()
	if index < 0 || (bounded && index >= n) {
		return outOfRange(s.source.Kind(), index, n)
	}
	s.desired = index
	return nil
}

// Step moves the desired index by delta, clamped to the source's extent,
// and returns the new index. On a closed session it returns the current
// index unchanged.
func (s *Session) Step(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.desired
	}
	next := s.desired + delta
	if n, bounded := s.source.Extent(); bounded && next >= n {
		next = n - 1
	}
	if next < 0 {
		next = 0
	}
	s.desired = next
	return next
}

// DesiredIndex returns the index Present will show.
func (s *Session) DesiredIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.desired
}

// Generation returns the token of the active source.
func (s *Session) Generation() Generation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Source returns the active source.
func (s *Session) Source() FrameSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// NominalSize returns the canvas size learned from the first frame of the
// most recent source whose probe succeeded.
func (s *Session) NominalSize() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nominalWidth, s.nominalHeight
}

// DisplayState returns what the texture currently shows.
func (s *Session) DisplayState() DisplayState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display.State()
}

// DisplayedFrame returns the frame bound to the texture, or nil.
func (s *Session) DisplayedFrame() *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display.Frame()
}

// Uploads returns the number of texture uploads performed.
func (s *Session) Uploads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display.Uploads()
}

// CacheStats returns the frame cache counters.
func (s *Session) CacheStats() CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Stats()
}

// CachedIndices returns the indices held by the frame cache, most recent first.
func (s *Session) CachedIndices() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Indices()
}

// Close releases cached frames. Further Present, Seek and SwitchSource
// calls fail with ErrSessionClosed. Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.cache.Clear()
	return nil
}
